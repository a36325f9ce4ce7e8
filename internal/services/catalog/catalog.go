// Package services содержит бизнес-логику каталога: экзамены, мероприятия и
// товары, включая кеширование справочных данных.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eduline/course-platform/internal/lib/format"
	"github.com/eduline/course-platform/internal/lib/sl"
	"github.com/eduline/course-platform/internal/models"
)

// Время жизни кеша: единичные записи каталога меняются редко, списки
// допускают небольшое отставание.
const (
	itemCacheTTL = time.Hour
	listCacheTTL = 5 * time.Minute
)

// ExamRepository определяет методы для работы с экзаменами в хранилище.
type ExamRepository interface {
	CreateExam(ctx context.Context, exam models.Exam) (int, error)
	ReadExam(ctx context.Context, id int) (*models.Exam, error)
	UpdateExam(ctx context.Context, exam models.Exam, id int) (int, error)
	RemoveExam(ctx context.Context, id int) (int, error)
	ListExams(ctx context.Context, limit, offset int) ([]*models.Exam, error)
	SearchExams(ctx context.Context, queryStr string, limit int) ([]*models.Exam, error)
}

// EventRepository определяет методы для работы с мероприятиями.
type EventRepository interface {
	ListUpcomingEvents(ctx context.Context, from time.Time, limit, offset int) ([]*models.Event, error)
}

// ProductRepository определяет методы для работы с товарами.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (int, error)
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
	RemoveProduct(ctx context.Context, id int) (int, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProductDetails товар вместе с рассчитанным графиком рассрочки.
type ProductDetails struct {
	Product      models.Product           `json:"product"`
	PriceDisplay string                   `json:"price_display"`
	Installments []models.InstallmentPlan `json:"installments,omitempty"`
}

// CatalogService реализует бизнес-логику каталога с кешированием.
type CatalogService struct {
	exams    ExamRepository
	events   EventRepository
	products ProductRepository
	cache    Cache
	log      *slog.Logger

	// Ключи закешированных списков: мутации каталога инвалидируют их
	// сразу, не дожидаясь истечения TTL.
	mu              sync.Mutex
	examListKeys    map[string]struct{}
	productListKeys map[string]struct{}
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(exams ExamRepository, events EventRepository, products ProductRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		exams:           exams,
		events:          events,
		products:        products,
		cache:           cache,
		log:             log,
		examListKeys:    make(map[string]struct{}),
		productListKeys: make(map[string]struct{}),
	}
}

// CreateExam создает новый экзамен в каталоге и возвращает его ID.
func (s *CatalogService) CreateExam(ctx context.Context, req models.DummyExam) (int, error) {
	exam := models.Exam{
		Code:            req.Code,
		Title:           req.Title,
		Provider:        req.Provider,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	id, err := s.exams.CreateExam(ctx, exam)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new exam", slog.Int("id", id), slog.String("code", exam.Code))
	s.invalidateListKeys(s.examListKeys)
	return id, nil
}

// ReadExam возвращает экзамен по ID, используя кеш или репозиторий.
func (s *CatalogService) ReadExam(ctx context.Context, id int) (*models.Exam, error) {
	var result *models.Exam
	cacheKey := fmt.Sprintf("exam:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read exam from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.exams.ReadExam(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, itemCacheTTL); err != nil {
		s.log.Warn("failed to cache exam", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// UpdateExam обновляет экзамен и инвалидирует кеш.
func (s *CatalogService) UpdateExam(ctx context.Context, req models.DummyExam, id int) (int, error) {
	exam := models.Exam{
		Code:            req.Code,
		Title:           req.Title,
		Provider:        req.Provider,
		PriceCents:      req.PriceCents,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}
	count, err := s.exams.UpdateExam(ctx, exam, id)
	if err != nil {
		return 0, err
	}
	s.invalidate(fmt.Sprintf("exam:%d", id))
	s.invalidateListKeys(s.examListKeys)
	return count, nil
}

// RemoveExam снимает экзамен с публикации и инвалидирует кеш.
func (s *CatalogService) RemoveExam(ctx context.Context, id int) (int, error) {
	s.invalidate(fmt.Sprintf("exam:%d", id))
	s.invalidateListKeys(s.examListKeys)
	return s.exams.RemoveExam(ctx, id)
}

// ListExams возвращает список экзаменов с пагинацией, используя кеш.
func (s *CatalogService) ListExams(ctx context.Context, limit, offset int) ([]*models.Exam, error) {
	var result []*models.Exam
	cacheKey := fmt.Sprintf("exams:list:%d:%d", limit, offset)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read exams from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.exams.ListExams(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache exams", slog.String("key", cacheKey), sl.Err(err))
	} else {
		s.rememberListKey(s.examListKeys, cacheKey)
	}
	return result, nil
}

// SearchExams ищет экзамены по коду или названию для подсказок в поиске.
// Пустой запрос возвращает пустой список без похода в базу.
func (s *CatalogService) SearchExams(ctx context.Context, queryStr string, limit int) ([]*models.Exam, error) {
	if queryStr == "" {
		return []*models.Exam{}, nil
	}
	return s.exams.SearchExams(ctx, queryStr, limit)
}

// ListUpcomingEvents возвращает предстоящие мероприятия.
func (s *CatalogService) ListUpcomingEvents(ctx context.Context, limit, offset int) ([]*models.Event, error) {
	return s.events.ListUpcomingEvents(ctx, time.Now().UTC(), limit, offset)
}

// CreateProduct создает новый товар каталога и возвращает его ID.
func (s *CatalogService) CreateProduct(ctx context.Context, req models.DummyProduct) (int, error) {
	product := models.Product{
		SKU:                   req.SKU,
		Title:                 req.Title,
		Description:           req.Description,
		PriceCents:            req.PriceCents,
		InstallmentsAvailable: req.InstallmentsAvailable,
		IsActive:              true,
	}
	id, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new product", slog.Int("id", id), slog.String("sku", product.SKU))
	s.invalidateListKeys(s.productListKeys)
	return id, nil
}

// ReadProduct возвращает товар с графиком рассрочки, используя кеш.
// Сумма всех платежей рассрочки всегда совпадает с ценой товара.
func (s *CatalogService) ReadProduct(ctx context.Context, id int) (*ProductDetails, error) {
	var result *ProductDetails
	cacheKey := fmt.Sprintf("product:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read product from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	product, err := s.products.ReadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &ProductDetails{
		Product:      *product,
		PriceDisplay: format.CurrencyCents(product.PriceCents),
	}
	for months := 2; months <= product.InstallmentsAvailable; months++ {
		amounts, err := format.InstallmentsCents(product.PriceCents, months)
		if err != nil {
			return nil, err
		}
		details.Installments = append(details.Installments, models.InstallmentPlan{
			Months:         months,
			MonthlyAmounts: amounts,
		})
	}
	if err := s.cache.Set(cacheKey, details, itemCacheTTL); err != nil {
		s.log.Warn("failed to cache product", slog.String("key", cacheKey), sl.Err(err))
	}
	return details, nil
}

// RemoveProduct снимает товар с публикации и инвалидирует кеш.
func (s *CatalogService) RemoveProduct(ctx context.Context, id int) (int, error) {
	s.invalidate(fmt.Sprintf("product:%d", id))
	s.invalidateListKeys(s.productListKeys)
	return s.products.RemoveProduct(ctx, id)
}

// ListProducts возвращает список товаров с пагинацией, используя кеш.
func (s *CatalogService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	var result []*models.Product
	cacheKey := fmt.Sprintf("products:list:%d:%d", limit, offset)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read products from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.products.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache products", slog.String("key", cacheKey), sl.Err(err))
	} else {
		s.rememberListKey(s.productListKeys, cacheKey)
	}
	return result, nil
}

func (s *CatalogService) invalidate(cacheKey string) {
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), sl.Err(err))
	}
}

func (s *CatalogService) rememberListKey(keys map[string]struct{}, cacheKey string) {
	s.mu.Lock()
	keys[cacheKey] = struct{}{}
	s.mu.Unlock()
}

func (s *CatalogService) invalidateListKeys(keys map[string]struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for cacheKey := range keys {
		s.invalidate(cacheKey)
		delete(keys, cacheKey)
	}
}
