package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

func init() {
	Register("products", SeedProducts)
}

var demoProducts = []models.Product{
	{Name: "Standing Desk", SKU: "DESK-STAND-01", Price: 499.00, Active: true},
	{Name: "Ergonomic Chair", SKU: "CHAIR-ERGO-01", Price: 329.90, Active: true},
	{Name: "Monitor Arm", SKU: "ARM-MON-01", Price: 89.50, Active: true},
	{Name: "Desk Lamp", SKU: "LAMP-DESK-01", Price: 39.99, Active: true},
	{Name: "Cable Tray", SKU: "TRAY-CABLE-01", Price: 24.00, Active: false},
}

// SeedProducts inserts a small demo catalog. Rows whose SKU already exists
// are left alone, so running it twice is harmless.
func SeedProducts(db *gorm.DB) error {
	repo := repositories.NewProductRepository()
	inserted := 0
	for _, p := range demoProducts {
		p := p
		err := repo.Insert(db, &p)
		if errors.Is(err, repositories.ErrDuplicateSKU) {
			continue
		}
		if err != nil {
			return err
		}
		inserted++
	}
	logger.Info("seed: products", "inserted", inserted, "skipped", len(demoProducts)-inserted)
	return nil
}
