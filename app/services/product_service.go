package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

var (
	ErrNotFound     = errors.New("Product not found")
	ErrDuplicateSKU = errors.New("SKU already exists")
)

// ValidationError lists the offending fields. Nothing was persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// ProductPage is the body of GET /products.
type ProductPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// ProductService composes validation and persistence for products. The
// *gorm.DB passed to each method is the caller's scoped connection.
type ProductService struct {
	repo *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{repo: repositories.NewProductRepository()}
}

func (s *ProductService) Create(db *gorm.DB, in requests.CreateProductInput) (*models.Product, error) {
	if err := check(in); err != nil {
		return nil, s.done(db, "create", err)
	}

	p := in.Product()
	if err := s.repo.Insert(db, &p); err != nil {
		return nil, s.done(db, "create", err)
	}

	logger.WithCtx(db.Statement.Context).Infow("product created", "id", p.ID, "sku", p.SKU)
	return &p, s.done(db, "create", nil)
}

func (s *ProductService) List(db *gorm.DB, q requests.ListQuery) (*ProductPage, error) {
	if err := check(q); err != nil {
		return nil, s.done(db, "list", err)
	}

	items, total, err := s.repo.ListPage(db, q.Skip, q.Limit, q.MinPrice)
	if err != nil {
		return nil, s.done(db, "list", err)
	}

	return &ProductPage{Items: items, Total: total, Skip: q.Skip, Limit: q.Limit}, s.done(db, "list", nil)
}

func (s *ProductService) Get(db *gorm.DB, id int64) (*models.Product, error) {
	p, err := s.repo.FindByID(db, id)
	if err != nil {
		return nil, s.done(db, "get", err)
	}
	return p, s.done(db, "get", nil)
}

// Update checks existence before validating, so an unknown id is reported
// as not found whatever the payload.
func (s *ProductService) Update(db *gorm.DB, id int64, in requests.UpdateProductInput) (*models.Product, error) {
	if _, err := s.repo.FindByID(db, id); err != nil {
		return nil, s.done(db, "update", err)
	}
	if err := check(in); err != nil {
		return nil, s.done(db, "update", err)
	}

	p, err := s.repo.Update(db, id, in.Fields())
	if err != nil {
		return nil, s.done(db, "update", err)
	}

	logger.WithCtx(db.Statement.Context).Infow("product updated", "id", p.ID)
	return p, s.done(db, "update", nil)
}

func (s *ProductService) Delete(db *gorm.DB, id int64) error {
	if _, err := s.repo.FindByID(db, id); err != nil {
		return s.done(db, "delete", err)
	}
	if err := s.repo.Delete(db, id); err != nil {
		return s.done(db, "delete", err)
	}

	logger.WithCtx(db.Statement.Context).Infow("product deleted", "id", id)
	return s.done(db, "delete", nil)
}

func check(v interface{}) error {
	if errs := validate.Struct(v); validate.HasErrors(errs) {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// done maps repository errors to service errors and records the outcome.
func (s *ProductService) done(db *gorm.DB, op string, err error) error {
	var verr *ValidationError
	switch {
	case err == nil:
		metrics.RecordProductOp(op, "ok")
		return nil
	case errors.As(err, &verr):
		metrics.RecordProductOp(op, "invalid")
		return err
	case errors.Is(err, repositories.ErrNotFound):
		metrics.RecordProductOp(op, "not_found")
		return ErrNotFound
	case errors.Is(err, repositories.ErrDuplicateSKU):
		metrics.RecordProductOp(op, "duplicate_sku")
		return ErrDuplicateSKU
	}

	metrics.RecordProductOp(op, "error")
	logger.WithCtx(db.Statement.Context).Errorw("product "+op+" failed", "error", err)
	return fmt.Errorf("%s product: %w", op, err)
}
