// Package requests holds the payload types accepted by the product API and
// their validation rules.
package requests

import (
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/optional"
)

// DefaultLimit is the page size used when the client does not send one.
const DefaultLimit = 10

// CreateProductInput is the body of POST /products.
// A missing active means true; an explicit null is rejected.
type CreateProductInput struct {
	Name   optional.Value[string]  `json:"name"   validate:"required,max=120"`
	SKU    optional.Value[string]  `json:"sku"    validate:"required,max=50"`
	Price  optional.Value[float64] `json:"price"  validate:"required,gt=0"`
	Active optional.Value[bool]    `json:"active" validate:"filled"`
}

// Product maps the validated input onto a new row.
func (in CreateProductInput) Product() models.Product {
	return models.Product{
		Name:   in.Name.V,
		SKU:    in.SKU.V,
		Price:  in.Price.V,
		Active: in.Active.OrElse(true),
	}
}

// UpdateProductInput is the body of PUT /products/{id}. Only keys present
// in the payload are applied. name, sku and price may not be null; a null
// active resets it to true.
type UpdateProductInput struct {
	Name   optional.Value[string]  `json:"name"   validate:"filled,max=120"`
	SKU    optional.Value[string]  `json:"sku"    validate:"filled,max=50"`
	Price  optional.Value[float64] `json:"price"  validate:"filled,gt=0"`
	Active optional.Value[bool]    `json:"active" validate:"nullable"`
}

// Fields returns the column → value map for the keys that were sent.
func (in UpdateProductInput) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, 4)
	if in.Name.Present() {
		fields[models.ColumnName] = in.Name.V
	}
	if in.SKU.Present() {
		fields[models.ColumnSKU] = in.SKU.V
	}
	if in.Price.Present() {
		fields[models.ColumnPrice] = in.Price.V
	}
	if in.Active.Set {
		fields[models.ColumnActive] = in.Active.OrElse(true)
	}
	return fields
}

// ListQuery carries GET /products query parameters.
type ListQuery struct {
	Skip     int      `json:"skip"      validate:"gte=0"`
	Limit    int      `json:"limit"     validate:"gte=0"`
	MinPrice *float64 `json:"min_price"`
}

// NewListQuery returns a query with the default page.
func NewListQuery() ListQuery {
	return ListQuery{Skip: 0, Limit: DefaultLimit}
}
