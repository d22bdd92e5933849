package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
}

// productsTable is the schema as of this migration. It is kept separate
// from models.Product so later model changes cannot rewrite history, and so
// the active column gets its DEFAULT without the model carrying the tag.
type productsTable struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name   string  `gorm:"column:name;size:120;not null"`
	SKU    string  `gorm:"column:sku;size:50;not null;uniqueIndex:idx_products_sku"`
	Price  float64 `gorm:"column:price;not null"`
	Active bool    `gorm:"column:active;not null;default:true"`
}

func (productsTable) TableName() string { return "products" }

type CreateProductsTable struct{}

// sqliteProductsDDL spells out the sqlite table: AutoMigrate declares the
// key as a bare INTEGER PRIMARY KEY, which hands the id of a deleted last
// row out again. AUTOINCREMENT never reuses an id.
var sqliteProductsDDL = []string{
	"CREATE TABLE IF NOT EXISTS `products` (" +
		"`id` integer PRIMARY KEY AUTOINCREMENT," +
		"`name` text NOT NULL," +
		"`sku` text NOT NULL," +
		"`price` real NOT NULL," +
		"`active` numeric NOT NULL DEFAULT true)",
	"CREATE UNIQUE INDEX IF NOT EXISTS `idx_products_sku` ON `products`(`sku`)",
}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return db.AutoMigrate(&productsTable{})
	}
	for _, stmt := range sqliteProductsDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}
