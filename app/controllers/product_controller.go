package controllers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/database"
)

// ProductController serves /products. Each action checks out one
// connection from db for the whole request and hands it to the service.
type ProductController struct {
	db      *gorm.DB
	service *services.ProductService
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{
		db:      db,
		service: services.NewProductService(),
	}
}

// Index handles GET /products?skip=&limit=&min_price=.
func (pc *ProductController) Index(c *ctx.Context) {
	q := requests.NewListQuery()
	errs := map[string]string{}

	var err error
	if q.Skip, err = c.QueryInt("skip", q.Skip); err != nil {
		errs["skip"] = err.Error()
	}
	if q.Limit, err = c.QueryInt("limit", q.Limit); err != nil {
		errs["limit"] = err.Error()
	}
	if q.MinPrice, err = c.QueryFloat("min_price"); err != nil {
		errs["min_price"] = err.Error()
	}
	if len(errs) > 0 {
		c.ValidationError(errs)
		return
	}

	var page *services.ProductPage
	err = database.Scoped(c.Context(), pc.db, func(tx *gorm.DB) (err error) {
		page, err = pc.service.List(tx, q)
		return err
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.OK(page)
}

// Store handles POST /products.
func (pc *ProductController) Store(c *ctx.Context) {
	var in requests.CreateProductInput
	if !c.DecodeJSON(&in) {
		return
	}

	var p *models.Product
	err := database.Scoped(c.Context(), pc.db, func(tx *gorm.DB) (err error) {
		p, err = pc.service.Create(tx, in)
		return err
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.OK(p)
}

// Show handles GET /products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := pc.id(c)
	if !ok {
		return
	}

	var p *models.Product
	err := database.Scoped(c.Context(), pc.db, func(tx *gorm.DB) (err error) {
		p, err = pc.service.Get(tx, id)
		return err
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.OK(p)
}

// Update handles PUT /products/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := pc.id(c)
	if !ok {
		return
	}
	var in requests.UpdateProductInput
	if !c.DecodeJSON(&in) {
		return
	}

	var p *models.Product
	err := database.Scoped(c.Context(), pc.db, func(tx *gorm.DB) (err error) {
		p, err = pc.service.Update(tx, id, in)
		return err
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.OK(p)
}

// Destroy handles DELETE /products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := pc.id(c)
	if !ok {
		return
	}

	err := database.Scoped(c.Context(), pc.db, func(tx *gorm.DB) error {
		return pc.service.Delete(tx, id)
	})
	if err != nil {
		pc.fail(c, err)
		return
	}
	c.Detail(http.StatusOK, "Product deleted")
}

func (pc *ProductController) id(c *ctx.Context) (int64, bool) {
	id, err := c.ParamInt64("id")
	if err != nil {
		c.ValidationError(map[string]string{"id": err.Error()})
		return 0, false
	}
	return id, true
}

func (pc *ProductController) fail(c *ctx.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.ValidationError(verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(services.ErrNotFound.Error())
	case errors.Is(err, services.ErrDuplicateSKU):
		c.Detail(http.StatusBadRequest, services.ErrDuplicateSKU.Error())
	default:
		c.InternalError(err)
	}
}
