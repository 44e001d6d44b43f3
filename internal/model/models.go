package model

import (
	"math"
	"time"
)

// Status представляет статус товара (enum в таблице items)
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusDiscontinued Status = "DISCONTINUED"
)

// Valid проверяет, что значение входит в множество допустимых статусов
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued:
		return true
	}
	return false
}

// Item представляет сущность товара (таблица items)
// Description == nil означает NULL в базе
type Item struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Price       float64   `db:"price" json:"price"`
	Quantity    int       `db:"quantity" json:"quantity"`
	Tags        []string  `db:"tags" json:"tags"`
	Status      Status    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateItemInput — нормализованные данные для создания товара,
// дефолты уже применены слоем валидации
type CreateItemInput struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Tags        []string `json:"tags"`
	Status      Status   `json:"status,omitempty"`
}

// UpdateItemInput — частичное обновление (merge-patch): записываются только
// явно переданные поля. DescriptionSet отличает отсутствие поля description
// от явного null (null очищает колонку)
type UpdateItemInput struct {
	Title          *string
	Description    *string
	DescriptionSet bool
	Category       *string
	Price          *float64
	Quantity       *int
	Tags           *[]string
	Status         *Status
}

// Empty сообщает, что ни одно поле не передано
func (u UpdateItemInput) Empty() bool {
	return u.Title == nil && !u.DescriptionSet && u.Category == nil &&
		u.Price == nil && u.Quantity == nil && u.Tags == nil && u.Status == nil
}

// ListParams — параметры выборки списка товаров
// Status == "" означает отсутствие фильтра по статусу
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Status   Status
}

// Pagination — метаданные пагинации, возвращаемые вместе со списком
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPagination вычисляет метаданные: totalPages = ceil(total/limit),
// hasNext/hasPrev выводятся из page относительно totalPages
func NewPagination(page, limit, total int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ItemEvent — событие изменения товара, публикуемое в NATS
type ItemEvent struct {
	Action string `json:"action"`
	Item   *Item  `json:"item"`
}
