package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/internal/testdb"
	"github.com/shashiranjanraj/catalog/pkg/database"
)

func seed(t *testing.T, db *gorm.DB, repo *repositories.ProductRepository, prices ...float64) []models.Product {
	t.Helper()
	out := make([]models.Product, 0, len(prices))
	for i, price := range prices {
		p := models.Product{Name: fmt.Sprintf("Item %d", i), SKU: fmt.Sprintf("SKU-%03d", i), Price: price, Active: true}
		require.NoError(t, repo.Insert(db, &p))
		out = append(out, p)
	}
	return out
}

func TestInsertAssignsDistinctIDs(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()

	products := seed(t, db, repo, 10, 20, 30)
	seen := map[int64]bool{}
	for _, p := range products {
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID], "id %d reused", p.ID)
		seen[p.ID] = true
	}
}

func TestInsertKeepsActiveFalse(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()

	p := models.Product{Name: "Lamp", SKU: "LAMP-1", Price: 15, Active: false}
	require.NoError(t, repo.Insert(db, &p))

	got, err := repo.FindByID(db, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestColumnDefaultForActive(t *testing.T) {
	db := testdb.Open(t)

	require.NoError(t, db.Exec("INSERT INTO products (name, sku, price) VALUES (?, ?, ?)", "Raw", "RAW-1", 1.5).Error)

	var p models.Product
	require.NoError(t, db.Where("sku = ?", "RAW-1").First(&p).Error)
	assert.True(t, p.Active)
}

func TestInsertDuplicateSKU(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()

	require.NoError(t, repo.Insert(db, &models.Product{Name: "A", SKU: "DUP", Price: 1, Active: true}))
	err := repo.Insert(db, &models.Product{Name: "B", SKU: "DUP", Price: 2, Active: true})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)

	var n int64
	require.NoError(t, db.Model(&models.Product{}).Where("sku = ?", "DUP").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestFindByIDMissing(t *testing.T) {
	db := testdb.Open(t)
	_, err := repositories.NewProductRepository().FindByID(db, 404)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestListPageTotalIgnoresFilter(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	seed(t, db, repo, 100, 150, 200)

	minPrice := 150.0
	items, total, err := repo.ListPage(db, 0, 10, &minPrice)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	for _, p := range items {
		assert.GreaterOrEqual(t, p.Price, 150.0)
	}
	assert.Equal(t, int64(3), total)
}

func TestListPageOnScopedConnection(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()

	minPrice := 150.0
	var (
		filtered, paged  []models.Product
		total, pageTotal int64
	)
	err := database.Scoped(context.Background(), db, func(tx *gorm.DB) (err error) {
		seed(t, tx, repo, 100, 150, 200)
		if filtered, total, err = repo.ListPage(tx, 0, 10, &minPrice); err != nil {
			return err
		}
		paged, pageTotal, err = repo.ListPage(tx, 2, 10, nil)
		return err
	})
	require.NoError(t, err)

	assert.Len(t, filtered, 2)
	assert.EqualValues(t, 3, total)
	assert.Len(t, paged, 1)
	assert.EqualValues(t, 3, pageTotal)
}

func TestListPageSkipLimit(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	products := seed(t, db, repo, 1, 2, 3, 4, 5)

	items, total, err := repo.ListPage(db, 1, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, products[1].ID, items[0].ID)
	assert.Equal(t, products[2].ID, items[1].ID)

	items, _, err = repo.ListPage(db, 0, 0, nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestUpdateAppliesOnlyGivenColumns(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	p := seed(t, db, repo, 10)[0]

	got, err := repo.Update(db, p.ID, map[string]interface{}{models.ColumnPrice: 12.5, models.ColumnActive: false})
	require.NoError(t, err)
	assert.Equal(t, 12.5, got.Price)
	assert.False(t, got.Active)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.SKU, got.SKU)
}

func TestUpdateMissingAndDuplicate(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	products := seed(t, db, repo, 10, 20)

	_, err := repo.Update(db, 999, map[string]interface{}{models.ColumnPrice: 1.0})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	_, err = repo.Update(db, products[1].ID, map[string]interface{}{models.ColumnSKU: products[0].SKU})
	assert.ErrorIs(t, err, repositories.ErrDuplicateSKU)

	unchanged, err := repo.FindByID(db, products[1].ID)
	require.NoError(t, err)
	assert.Equal(t, products[1].SKU, unchanged.SKU)
}

func TestDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	p := seed(t, db, repo, 10)[0]

	require.NoError(t, repo.Delete(db, p.ID))
	_, err := repo.FindByID(db, p.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(db, p.ID), repositories.ErrNotFound)
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	db := testdb.Open(t)
	repo := repositories.NewProductRepository()
	first := seed(t, db, repo, 10)[0]
	require.NoError(t, repo.Delete(db, first.ID))

	next := models.Product{Name: "Next", SKU: "NEXT", Price: 1, Active: true}
	require.NoError(t, repo.Insert(db, &next))
	assert.NotEqual(t, first.ID, next.ID)
}
