// Пакет client предоставляет типизированный HTTP-клиент для API товаров.
// Каждый ответ, где success=false, превращается в ошибку с сообщением сервера
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"InventoryService/internal/model"
)

// APIError — ошибка уровня API: HTTP-статус и сообщение из конверта ответа
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client выполняет запросы к API товаров
type Client struct {
	baseURL string
	http    *http.Client
}

// New создаёт клиент для заданного базового адреса сервера
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope повторяет конверт ответа сервера; data декодируется отложенно,
// потому что её форма зависит от эндпоинта
type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Message    string            `json:"message"`
}

// do выполняет запрос и декодирует конверт:
// не-2xx статус или success=false становятся APIError
func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*envelope, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if res.StatusCode >= 400 || !env.Success {
		return nil, &APIError{Status: res.StatusCode, Message: env.Message}
	}
	return &env, nil
}

// List возвращает страницу товаров с метаданными пагинации
func (c *Client) List(ctx context.Context, p model.ListParams) ([]model.Item, model.Pagination, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	var items []model.Item
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, model.Pagination{}, fmt.Errorf("failed to decode items: %w", err)
	}
	var pg model.Pagination
	if env.Pagination != nil {
		pg = *env.Pagination
	}
	return items, pg, nil
}

// Get возвращает товар по id
func (c *Client) Get(ctx context.Context, id string) (*model.Item, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/items/"+id, nil)
	if err != nil {
		return nil, err
	}
	var it model.Item
	if err := json.Unmarshal(env.Data, &it); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &it, nil
}

// Create создаёт товар и возвращает строку с назначенными сервером id и метками
func (c *Client) Create(ctx context.Context, in model.CreateItemInput) (*model.Item, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/items", in)
	if err != nil {
		return nil, err
	}
	var it model.Item
	if err := json.Unmarshal(env.Data, &it); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &it, nil
}

// Update отправляет merge-patch: в теле оказываются только переданные поля,
// поэтому payload принимает форму карты, а не фиксированной структуры
func (c *Client) Update(ctx context.Context, id string, fields map[string]interface{}) (*model.Item, error) {
	env, err := c.do(ctx, http.MethodPut, "/api/items/"+id, fields)
	if err != nil {
		return nil, err
	}
	var it model.Item
	if err := json.Unmarshal(env.Data, &it); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &it, nil
}

// Delete удаляет товар и возвращает подтверждающее сообщение сервера
func (c *Client) Delete(ctx context.Context, id string) (string, error) {
	env, err := c.do(ctx, http.MethodDelete, "/api/items/"+id, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Categories возвращает отсортированный список различных категорий
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/items/categories", nil)
	if err != nil {
		return nil, err
	}
	var cats []string
	if err := json.Unmarshal(env.Data, &cats); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return cats, nil
}

// Search находит товары по подстроке; limit нулевой — использовать дефолт сервера
func (c *Client) Search(ctx context.Context, term string, limit int) ([]model.Item, error) {
	q := url.Values{"q": {term}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	env, err := c.do(ctx, http.MethodGet, "/api/items/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var items []model.Item
	if err := json.Unmarshal(env.Data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, nil
}
