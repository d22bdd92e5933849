package models

// Product is the single catalog entity. Columns are mapped explicitly so the
// table layout does not depend on naming conventions.
//
// The column default for active lives in the migration, not here: gorm
// replaces a zero-valued field that carries a default tag, which would turn
// an explicit Active=false into true on insert.
type Product struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name   string  `gorm:"column:name;size:120;not null" json:"name"`
	SKU    string  `gorm:"column:sku;size:50;not null;uniqueIndex:idx_products_sku" json:"sku"`
	Price  float64 `gorm:"column:price;not null" json:"price"`
	Active bool    `gorm:"column:active;not null" json:"active"`
}

func (Product) TableName() string { return "products" }

// Column names used by repositories for partial updates and filters.
const (
	ColumnName   = "name"
	ColumnSKU    = "sku"
	ColumnPrice  = "price"
	ColumnActive = "active"
)
