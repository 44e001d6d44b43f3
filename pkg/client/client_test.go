// Пакет client содержит unit-тесты HTTP-клиента на базе httptest-сервера
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"InventoryService/internal/model"
)

const itemID = "6f2e9f6a-9f3e-4d14-8c8c-2b8f6f4f2d11"

// TestList_Success проверяет сборку query-параметров и декодирование страницы
func TestList_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/items" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("search") != "chair" || q.Get("status") != "ACTIVE" {
			t.Fatalf("unexpected query: %v", q)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"data":       []model.Item{{ID: itemID, Title: "Office Chair"}},
			"pagination": model.NewPagination(2, 10, 15),
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	items, pg, err := c.List(context.Background(), model.ListParams{
		Page: 2, Limit: 10, Search: "chair", Status: model.StatusActive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Office Chair" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if pg.Total != 15 || pg.TotalPages != 2 {
		t.Fatalf("unexpected pagination: %+v", pg)
	}
}

// TestGet_NotFound: success=false превращается в APIError с сообщением сервера
func TestGet_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Item not found",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Get(context.Background(), itemID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Item not found" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

// TestCreate_SendsBody проверяет сериализацию тела и декодирование созданной строки
func TestCreate_SendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["title"] != "Widget" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    model.Item{ID: itemID, Title: "Widget", Status: model.StatusActive},
			"message": "Item created successfully",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	it, err := c.Create(context.Background(), model.CreateItemInput{Title: "Widget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID != itemID || it.Status != model.StatusActive {
		t.Fatalf("unexpected item: %+v", it)
	}
}

// TestUpdate_SendsOnlyProvidedFields: в merge-patch уходят только переданные поля
func TestUpdate_SendsOnlyProvidedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 {
			t.Fatalf("expected exactly one field, got %v", body)
		}
		if body["price"] != 19.99 {
			t.Fatalf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    model.Item{ID: itemID, Price: 19.99},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	it, err := c.Update(context.Background(), itemID, map[string]interface{}{"price": 19.99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Price != 19.99 {
		t.Fatalf("unexpected item: %+v", it)
	}
}

// TestDelete_ReturnsMessage проверяет возврат подтверждающего сообщения
func TestDelete_ReturnsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Item deleted successfully",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	msg, err := c.Delete(context.Background(), itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Item deleted successfully" {
		t.Fatalf("unexpected message: %q", msg)
	}
}

// TestSearch_ValidationError: 400 сервера превращается в APIError
func TestSearch_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "Validation failed",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search(context.Background(), "", 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
}

// TestCategories_Success проверяет декодирование списка строк
func TestCategories_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/items/categories" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    []string{"Electronics", "General"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats) != 2 || cats[0] != "Electronics" {
		t.Fatalf("unexpected categories: %v", cats)
	}
}
