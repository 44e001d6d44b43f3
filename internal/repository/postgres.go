package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"InventoryService/internal/model"
)

// ErrNotFound возвращается при отсутствии записи
var ErrNotFound = errors.New("record not found")

// itemColumns — полный список столбцов таблицы items в порядке сканирования
const itemColumns = "id, title, description, category, price, quantity, tags, status, created_at, updated_at"

// ItemRepository реализует доступ к таблице items
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository создает новый репозиторий товаров
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// rowScanner покрывает *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem читает одну строку таблицы items в модель
func scanItem(row rowScanner) (*model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Category,
		&it.Price, &it.Quantity, pq.Array(&it.Tags), &it.Status,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return &it, nil
}

// buildFilters собирает WHERE-условия списка: подстрочный поиск по
// title/description без учета регистра, точные фильтры по category и status.
// Возвращает фрагмент SQL (с ведущим " WHERE " либо пустой) и аргументы
func buildFilters(p model.ListParams) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if p.Search != "" {
		args = append(args, "%"+p.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if p.Category != "" {
		args = append(args, p.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if p.Status != "" {
		args = append(args, string(p.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List возвращает страницу товаров и общее число строк, подходящих под фильтры:
// 1. Считает total по тем же условиям, что и выборка (окно не учитывается)
// 2. Выбирает страницу, сортируя по created_at по убыванию
// Смещение окна нулевое: offset = (page-1)*limit
func (r *ItemRepository) List(ctx context.Context, p model.ListParams) ([]model.Item, int, error) {
	where, args := buildFilters(p)

	var total int
	countQuery := "SELECT COUNT(*) FROM items" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	offset := (p.Page - 1) * p.Limit
	query := fmt.Sprintf("SELECT %s FROM items%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		itemColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, p.Limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to select items list: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, total, nil
}

// Get возвращает товар по id
func (r *ItemRepository) Get(ctx context.Context, id string) (*model.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE id=$1"
	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

// Create добавляет новый товар; id и обе временные метки назначает база
func (r *ItemRepository) Create(ctx context.Context, in model.CreateItemInput) (*model.Item, error) {
	query := `INSERT INTO items(title, description, category, price, quantity, tags, status)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	it := model.Item{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Tags:        in.Tags,
		Status:      in.Status,
	}
	err := r.db.QueryRowContext(ctx, query,
		in.Title, in.Description, in.Category, in.Price, in.Quantity,
		pq.Array(in.Tags), string(in.Status)).
		Scan(&it.ID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	return &it, nil
}

// Update выполняет merge-patch в одной транзакции:
// 1. Читает строку под блокировкой (SELECT ... FOR UPDATE), отсутствие — ErrNotFound
// 2. Накладывает переданные поля на прочитанные значения
// 3. Записывает слитую строку; updated_at обновляет триггер в базе
func (r *ItemRepository) Update(ctx context.Context, id string, in model.UpdateItemInput) (*model.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := "SELECT " + itemColumns + " FROM items WHERE id=$1 FOR UPDATE"
	it, err := scanItem(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select item for update: %w", err)
	}

	if in.Title != nil {
		it.Title = *in.Title
	}
	if in.DescriptionSet {
		it.Description = in.Description
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.Price != nil {
		it.Price = *in.Price
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.Tags != nil {
		it.Tags = *in.Tags
	}
	if in.Status != nil {
		it.Status = *in.Status
	}

	updateQuery := `UPDATE items SET title=$1, description=$2, category=$3, price=$4, quantity=$5, tags=$6, status=$7 WHERE id=$8 RETURNING updated_at`
	err = tx.QueryRowContext(ctx, updateQuery,
		it.Title, it.Description, it.Category, it.Price, it.Quantity,
		pq.Array(it.Tags), string(it.Status), id).
		Scan(&it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return it, nil
}

// Delete удаляет строку в одной транзакции, возвращая удалённый товар:
// проверка существования и удаление защищены блокировкой FOR UPDATE
func (r *ItemRepository) Delete(ctx context.Context, id string) (*model.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := "SELECT " + itemColumns + " FROM items WHERE id=$1 FOR UPDATE"
	it, err := scanItem(tx.QueryRowContext(ctx, selectQuery, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select item for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM items WHERE id=$1", id); err != nil {
		return nil, fmt.Errorf("failed to delete item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return it, nil
}

// Categories возвращает отсортированный по алфавиту список различных
// категорий, присутствующих в таблице
func (r *ItemRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM items WHERE category IS NOT NULL ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// Search находит товары, чей title или description содержит подстроку
// без учета регистра, новые записи первыми
func (r *ItemRepository) Search(ctx context.Context, term string, limit int) ([]model.Item, error) {
	query := "SELECT " + itemColumns + " FROM items WHERE title ILIKE $1 OR description ILIKE $1 ORDER BY created_at DESC LIMIT $2"
	rows, err := r.db.QueryContext(ctx, query, "%"+term+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return items, nil
}

// Ping проверяет доступность базы данных, используется эндпоинтом /health
func (r *ItemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
