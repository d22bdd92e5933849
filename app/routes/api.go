package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/controllers"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// RegisterAPI mounts the product endpoints on r. The kernel strips trailing
// slashes, so /products/ and /products both reach Index and Store.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	products := controllers.NewProductController(db)

	api := r.Group("/products")
	api.Get("/", "products.index", ctx.Wrap(products.Index))
	api.Post("/", "products.store", ctx.Wrap(products.Store))
	api.Get("/{id}", "products.show", ctx.Wrap(products.Show))
	api.Put("/{id}", "products.update", ctx.Wrap(products.Update))
	api.Delete("/{id}", "products.destroy", ctx.Wrap(products.Destroy))
}
