package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

var (
	// ErrNotFound means no product has the requested id.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateSKU means the unique index on sku rejected the write.
	ErrDuplicateSKU = errors.New("sku already exists")
)

// ProductRepository handles database operations for Product. Every method
// takes the handle to run on, normally the request's scoped connection.
type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

// Insert persists p and fills in its id.
func (r *ProductRepository) Insert(db *gorm.DB, p *models.Product) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return orm.On(tx).Create(p)
	})
	return translate(err)
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(db *gorm.DB, id int64) (*models.Product, error) {
	var p models.Product
	err := orm.On(db).Model(&models.Product{}).Where("id = ?", id).First(&p)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

// ListPage returns one page of products ordered by id, optionally filtered
// to price >= minPrice, plus the number of rows in the whole table. The
// total ignores the price filter.
func (r *ProductRepository) ListPage(db *gorm.DB, skip, limit int, minPrice *float64) ([]models.Product, int64, error) {
	q := orm.On(db).Model(&models.Product{})
	if minPrice != nil {
		q = q.Where(models.ColumnPrice+" >= ?", *minPrice)
	}

	items := []models.Product{}
	if err := q.Order("id asc").Page(skip, limit).Get(&items); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	total, err := orm.On(db).Model(&models.Product{}).Count()
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return items, total, nil
}

// Update writes only the columns named in fields and returns the stored row.
// An empty fields map is a no-op read.
func (r *ProductRepository) Update(db *gorm.DB, id int64, fields map[string]interface{}) (*models.Product, error) {
	var updated *models.Product
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := r.FindByID(tx, id); err != nil {
			return err
		}
		if len(fields) > 0 {
			if _, err := orm.On(tx).Model(&models.Product{}).Where("id = ?", id).Updates(fields); err != nil {
				return err
			}
		}
		p, err := r.FindByID(tx, id)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return updated, nil
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(db *gorm.DB, id int64) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := orm.On(tx).Where("id = ?", id).Delete(&models.Product{})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateSKU):
		return err
	case database.IsDuplicateKey(err):
		return fmt.Errorf("%w: %v", ErrDuplicateSKU, err)
	}
	return err
}
