// Пакет events предоставляет обёртку для публикации событий изменения товаров в NATS
package events

// Conn определяет минимальный интерфейс для работы с NATS-подключением
// Любая реализация Conn (например *nats.Conn) должна предоставлять метод Publish
type Conn interface {
	Publish(subject string, data []byte) error
}

// Client хранит Conn и тему subject для публикации событий
type Client struct {
	conn    Conn
	subject string
}

// NewClient создаёт новый Client, связывая Conn и subject
func NewClient(conn Conn, subject string) *Client {
	return &Client{conn: conn, subject: subject}
}

// Publish отправляет данные события в указанный subject в NATS
// Возвращает ошибку, если публикация не удалась
func (c *Client) Publish(data []byte) error {
	return c.conn.Publish(c.subject, data)
}
