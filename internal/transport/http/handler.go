package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"InventoryService/internal/model"
	"InventoryService/internal/repository"
	"InventoryService/internal/validation"
)

// ItemService задаёт интерфейс бизнес-логики для HTTP-слоя, используемый хендлером
type ItemService interface {
	List(ctx context.Context, p model.ListParams) ([]model.Item, model.Pagination, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Create(ctx context.Context, in model.CreateItemInput) (*model.Item, error)
	Update(ctx context.Context, id string, in model.UpdateItemInput) (*model.Item, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, term string, limit int) ([]model.Item, error)
	Ping(ctx context.Context) error
}

// Handler содержит зависимости и реализует HTTP-эндпоинты для операций с товарами
type Handler struct {
	srv ItemService
}

// NewHandler создаёт новый HTTP Handler
func NewHandler(srv ItemService) *Handler {
	return &Handler{srv: srv}
}

// RegisterRoutes регистрирует маршруты API и обработчик для несовпавших путей
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods("GET")
	api := r.PathPrefix("/api/items").Subrouter()
	// фиксированные пути должны идти раньше шаблона {id}
	api.HandleFunc("/categories", h.Categories).Methods("GET")
	api.HandleFunc("/search", h.Search).Methods("GET")
	api.HandleFunc("", h.List).Methods("GET")
	api.HandleFunc("", h.Create).Methods("POST")
	api.HandleFunc("/{id}", h.Get).Methods("GET")
	api.HandleFunc("/{id}", h.Update).Methods("PUT")
	api.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
}

// Response — единый конверт ответа API
type Response struct {
	Success    bool                    `json:"success"`
	Data       interface{}             `json:"data,omitempty"`
	Pagination *model.Pagination       `json:"pagination,omitempty"`
	Message    string                  `json:"message,omitempty"`
	Errors     []validation.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeError переводит ошибку в статус и конверт:
// ошибки валидации — 400 со списком полей, ErrNotFound — 404,
// всё остальное — 500 с общим сообщением без внутренних деталей
func writeError(w http.ResponseWriter, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "Validation failed",
			Errors:  verrs,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Message: "Item not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Database error"})
	}
}

// List обрабатывает GET /api/items
// 1. Валидирует query-параметры пагинации и фильтров
// 2. Возвращает страницу товаров вместе с метаданными пагинации
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params, err := validation.ListQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	items, pg, err := h.srv.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: items, Pagination: &pg})
}

// Get обрабатывает GET /api/items/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ItemID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := h.srv.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: it})
}

// Create обрабатывает POST /api/items
// 1. Валидирует тело и применяет дефолты
// 2. При успехе возвращает 201 с созданным товаром
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := validation.CreateItem(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := h.srv.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Data:    it,
		Message: "Item created successfully",
	})
}

// Update обрабатывает PUT /api/items/{id}
// 1. Валидирует id и тело merge-patch (минимум одно поле)
// 2. Возвращает обновлённый товар либо 404
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ItemID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	in, err := validation.UpdateItem(r.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := h.srv.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    it,
		Message: "Item updated successfully",
	})
}

// Delete обрабатывает DELETE /api/items/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ItemID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.srv.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Item deleted successfully"})
}

// Categories обрабатывает GET /api/items/categories
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.srv.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: cats})
}

// Search обрабатывает GET /api/items/search?q=...&limit=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term, limit, err := validation.SearchQuery(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.srv.Search(r.Context(), term, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// Health возвращает статус процесса и доступность базы данных.
// Недоступная база не превращает ответ в ошибку: статус остаётся 200,
// меняется только поле database
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	database := "connected"
	if err := h.srv.Ping(ctx); err != nil {
		database = "disconnected"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"message":   "Server is running",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// MethodNotAllowed отвечает конвертом с success=false, когда путь совпал,
// но метод для него не зарегистрирован
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, Response{
		Success: false,
		Message: "Method " + r.Method + " not allowed for " + r.URL.Path,
	})
}

// NotFound отвечает конвертом с success=false на несовпавшие маршруты
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, Response{
		Success: false,
		Message: "Route " + r.URL.Path + " not found",
	})
}
