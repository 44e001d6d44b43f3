// Пакет validation превращает сырые данные запроса в типизированные
// входные структуры или возвращает список ошибок по полям
package validation

import (
	"encoding/json"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"InventoryService/internal/model"
)

// Ограничения полей, соответствуют схеме таблицы items;
// длины считаются в символах, как в колонках VARCHAR
const (
	maxTitleLen       = 255
	maxDescriptionLen = 5000
	maxCategoryLen    = 100
	maxPrice          = 99999999.99
	maxListLimit      = 100
	maxSearchLimit    = 50
	defaultLimit      = 10
)

// FieldError — одна нарушенная проверка конкретного поля
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors собирает все нарушенные проверки одного запроса
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// orNil возвращает сам список либо nil, чтобы вызывающий мог писать
// `if err := ...; err != nil` без ловушки типизированного nil-интерфейса
func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// CreateItem разбирает тело запроса на создание товара:
// 1. Декодирует JSON
// 2. Проверяет обязательность и границы полей
// 3. Применяет дефолты: description→null, category→"General", price→0,
//    quantity→0, tags→[], status→ACTIVE
func CreateItem(body io.Reader) (model.CreateItemInput, error) {
	var raw struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *float64 `json:"price"`
		Quantity    *float64 `json:"quantity"`
		Tags        []string `json:"tags"`
		Status      *string  `json:"status"`
	}
	var in model.CreateItemInput
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return in, Errors{{Field: "body", Message: "Invalid request body"}}
	}

	var errs Errors
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		errs.add("title", "Title is required")
	} else if utf8.RuneCountInString(strings.TrimSpace(*raw.Title)) > maxTitleLen {
		errs.add("title", "Title must be less than 255 characters")
	} else {
		in.Title = strings.TrimSpace(*raw.Title)
	}

	// пустая строка описания хранится как NULL
	if raw.Description != nil && *raw.Description != "" {
		if utf8.RuneCountInString(*raw.Description) > maxDescriptionLen {
			errs.add("description", "Description must be less than 5000 characters")
		} else {
			in.Description = raw.Description
		}
	}

	in.Category = "General"
	if raw.Category != nil {
		if utf8.RuneCountInString(*raw.Category) > maxCategoryLen {
			errs.add("category", "Category must be less than 100 characters")
		} else {
			in.Category = *raw.Category
		}
	}

	if raw.Price != nil {
		switch {
		case *raw.Price < 0:
			errs.add("price", "Price must be non-negative")
		case *raw.Price > maxPrice:
			errs.add("price", "Price is too large")
		default:
			in.Price = *raw.Price
		}
	}

	if raw.Quantity != nil {
		switch {
		case *raw.Quantity != math.Trunc(*raw.Quantity):
			errs.add("quantity", "Quantity must be an integer")
		case *raw.Quantity < 0:
			errs.add("quantity", "Quantity must be non-negative")
		default:
			in.Quantity = int(*raw.Quantity)
		}
	}

	in.Tags = []string{}
	if raw.Tags != nil {
		in.Tags = raw.Tags
	}

	in.Status = model.StatusActive
	if raw.Status != nil {
		st := model.Status(*raw.Status)
		if !st.Valid() {
			errs.add("status", "Status must be one of ACTIVE, INACTIVE, DISCONTINUED")
		} else {
			in.Status = st
		}
	}

	return in, errs.orNil()
}

// UpdateItem разбирает тело частичного обновления. Все поля опциональны,
// но хотя бы одно известное поле должно присутствовать. Явный null для
// description означает очистку колонки
func UpdateItem(body io.Reader) (model.UpdateItemInput, error) {
	var in model.UpdateItemInput
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return in, Errors{{Field: "body", Message: "Invalid request body"}}
	}

	var errs Errors

	if v, ok := raw["title"]; ok {
		var title string
		if err := json.Unmarshal(v, &title); err != nil {
			errs.add("title", "Title must be a string")
		} else if t := strings.TrimSpace(title); t == "" {
			errs.add("title", "Title must not be empty")
		} else if utf8.RuneCountInString(t) > maxTitleLen {
			errs.add("title", "Title must be less than 255 characters")
		} else {
			in.Title = &t
		}
	}

	if v, ok := raw["description"]; ok {
		in.DescriptionSet = true
		if string(v) != "null" {
			var desc string
			if err := json.Unmarshal(v, &desc); err != nil {
				errs.add("description", "Description must be a string or null")
			} else if utf8.RuneCountInString(desc) > maxDescriptionLen {
				errs.add("description", "Description must be less than 5000 characters")
			} else {
				in.Description = &desc
			}
		}
	}

	if v, ok := raw["category"]; ok {
		var cat string
		if err := json.Unmarshal(v, &cat); err != nil {
			errs.add("category", "Category must be a string")
		} else if utf8.RuneCountInString(cat) > maxCategoryLen {
			errs.add("category", "Category must be less than 100 characters")
		} else {
			in.Category = &cat
		}
	}

	if v, ok := raw["price"]; ok {
		var price float64
		if err := json.Unmarshal(v, &price); err != nil {
			errs.add("price", "Price must be a number")
		} else if price < 0 {
			errs.add("price", "Price must be non-negative")
		} else if price > maxPrice {
			errs.add("price", "Price is too large")
		} else {
			in.Price = &price
		}
	}

	if v, ok := raw["quantity"]; ok {
		var q float64
		if err := json.Unmarshal(v, &q); err != nil {
			errs.add("quantity", "Quantity must be a number")
		} else if q != math.Trunc(q) {
			errs.add("quantity", "Quantity must be an integer")
		} else if q < 0 {
			errs.add("quantity", "Quantity must be non-negative")
		} else {
			qi := int(q)
			in.Quantity = &qi
		}
	}

	if v, ok := raw["tags"]; ok {
		var tags []string
		if err := json.Unmarshal(v, &tags); err != nil {
			errs.add("tags", "Tags must be an array of strings")
		} else {
			if tags == nil {
				tags = []string{}
			}
			in.Tags = &tags
		}
	}

	if v, ok := raw["status"]; ok {
		var st string
		if err := json.Unmarshal(v, &st); err != nil {
			errs.add("status", "Status must be a string")
		} else if s := model.Status(st); !s.Valid() {
			errs.add("status", "Status must be one of ACTIVE, INACTIVE, DISCONTINUED")
		} else {
			in.Status = &s
		}
	}

	// запрос без единого известного поля отклоняется до обращения к базе;
	// при невалидных значениях переданных полей достаточно ошибок самих полей
	if len(errs) == 0 && in.Empty() {
		errs.add("body", "At least one field must be provided for update")
	}

	return in, errs.orNil()
}

// ListQuery разбирает query-параметры списка: page (>=1, дефолт 1),
// limit (1..100, дефолт 10; выход за границы — ошибка, а не обрезка),
// опциональные search, category и status. Нечисловые page/limit
// отклоняются явно
func ListQuery(q url.Values) (model.ListParams, error) {
	p := model.ListParams{Page: 1, Limit: defaultLimit}
	var errs Errors

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs.add("page", "Page must be an integer")
		case page < 1:
			errs.add("page", "Page must be at least 1")
		default:
			p.Page = page
		}
	}

	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs.add("limit", "Limit must be an integer")
		case limit < 1:
			errs.add("limit", "Limit must be at least 1")
		case limit > maxListLimit:
			errs.add("limit", "Limit cannot exceed 100")
		default:
			p.Limit = limit
		}
	}

	if v := q.Get("search"); v != "" {
		if utf8.RuneCountInString(v) > maxTitleLen {
			errs.add("search", "Search term too long")
		} else {
			p.Search = v
		}
	}

	if v := q.Get("category"); v != "" {
		if utf8.RuneCountInString(v) > maxCategoryLen {
			errs.add("category", "Category filter too long")
		} else {
			p.Category = v
		}
	}

	if v := q.Get("status"); v != "" {
		st := model.Status(v)
		if !st.Valid() {
			errs.add("status", "Status must be one of ACTIVE, INACTIVE, DISCONTINUED")
		} else {
			p.Status = st
		}
	}

	return p, errs.orNil()
}

// SearchQuery разбирает параметры поиска: q обязателен и непуст,
// limit в пределах 1..50 с дефолтом 10
func SearchQuery(q url.Values) (string, int, error) {
	var errs Errors
	term := q.Get("q")
	if term == "" {
		errs.add("q", "Search query is required")
	}
	limit := defaultLimit
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		switch {
		case err != nil:
			errs.add("limit", "Limit must be an integer")
		case n < 1:
			errs.add("limit", "Limit must be at least 1")
		case n > maxSearchLimit:
			errs.add("limit", "Limit cannot exceed 50")
		default:
			limit = n
		}
	}
	return term, limit, errs.orNil()
}

// ItemID проверяет, что параметр пути является синтаксически корректным UUID
func ItemID(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", Errors{{Field: "id", Message: "Invalid item ID format"}}
	}
	return id, nil
}
