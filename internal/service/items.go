package service

import (
	"context"
	"encoding/json"

	"InventoryService/internal/model"
)

// Repo определяет интерфейс репозитория для операций с товарами
// Реализация может быть на основе базы данных Postgres
type Repo interface {
	List(ctx context.Context, p model.ListParams) ([]model.Item, int, error)
	Get(ctx context.Context, id string) (*model.Item, error)
	Create(ctx context.Context, in model.CreateItemInput) (*model.Item, error)
	Update(ctx context.Context, id string, in model.UpdateItemInput) (*model.Item, error)
	Delete(ctx context.Context, id string) (*model.Item, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, term string, limit int) ([]model.Item, error)
	Ping(ctx context.Context) error
}

// Events определяет интерфейс публикации событий изменения товаров (NATS)
type Events interface {
	Publish(data []byte) error
}

// ItemService реализует бизнес-логику для сущности товара:
// - вызовы репозитория для CRUD операций
// - расчет метаданных пагинации
// - публикация событий изменений в лог
type ItemService struct {
	repo   Repo
	events Events
}

// NewItemService создаёт новый сервис для товаров
func NewItemService(r Repo, e Events) *ItemService {
	return &ItemService{repo: r, events: e}
}

// publish сериализует событие изменения и отправляет его в брокер;
// публикация — best-effort, её ошибки не влияют на результат операции
func (s *ItemService) publish(action string, it *model.Item) {
	data, _ := json.Marshal(model.ItemEvent{Action: action, Item: it})
	_ = s.events.Publish(data)
}

// List возвращает страницу товаров и метаданные пагинации:
// total считается по фильтрам без учёта окна, totalPages = ceil(total/limit)
func (s *ItemService) List(ctx context.Context, p model.ListParams) ([]model.Item, model.Pagination, error) {
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return items, model.NewPagination(p.Page, p.Limit, total), nil
}

// Get возвращает товар по id
func (s *ItemService) Get(ctx context.Context, id string) (*model.Item, error) {
	return s.repo.Get(ctx, id)
}

// Create создаёт новый товар и публикует событие created
func (s *ItemService) Create(ctx context.Context, in model.CreateItemInput) (*model.Item, error) {
	it, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publish("created", it)
	return it, nil
}

// Update выполняет merge-patch товара и публикует событие updated
func (s *ItemService) Update(ctx context.Context, id string, in model.UpdateItemInput) (*model.Item, error) {
	it, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.publish("updated", it)
	return it, nil
}

// Delete удаляет товар и публикует событие deleted с полным объектом
func (s *ItemService) Delete(ctx context.Context, id string) error {
	it, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.publish("deleted", it)
	return nil
}

// Categories возвращает отсортированный список различных категорий
func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

// Search находит товары по подстроке в title или description
func (s *ItemService) Search(ctx context.Context, term string, limit int) ([]model.Item, error) {
	return s.repo.Search(ctx, term, limit)
}

// Ping проверяет доступность хранилища
func (s *ItemService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
