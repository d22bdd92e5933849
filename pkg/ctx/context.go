// Package ctx provides a gin.Context-inspired request context for catalog
// handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods for everything:
//
//	func Show(c *ctx.Context) {
//	    id, err := c.ParamInt64("id")
//	    ...
//	    c.OK(product)
//	}
//
//	// Register with ctx.Wrap:
//	router.Get("/products/{id}", "products.show", ctx.Wrap(Show))
package ctx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a rich helper API.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamInt64 parses a path parameter as a base-10 integer.
func (c *Context) ParamInt64(key string) (int64, error) {
	raw := c.Param(key)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("The %s must be an integer.", key)
	}
	return n, nil
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt parses an integer query parameter, returning def when absent.
func (c *Context) QueryInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("The %s must be an integer.", key)
	}
	return n, nil
}

// QueryFloat parses an optional numeric query parameter. Absent → nil.
func (c *Context) QueryFloat(key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("The %s must be a number.", key)
	}
	return &f, nil
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Logger returns the request-scoped logger (carries request_id).
func (c *Context) Logger() *zap.SugaredLogger { return logger.WithCtx(c.R.Context()) }

// ─── Binding ──────────────────────────────────────────────────────────────────

// DecodeJSON decodes the JSON body into dest. Rules are left to the layer
// that owns them. On a malformed body it sends a 422 (413 when the body is
// too large) and returns false.
//
//	var in requests.CreateProductInput
//	if !c.DecodeJSON(&in) {
//	    return // response already sent
//	}
func (c *Context) DecodeJSON(dest any) bool {
	return c.respondBind(bind.Decode(c.R, dest))
}

func (c *Context) respondBind(errs map[string]string, err error) bool {
	if err != nil {
		if errors.Is(err, bind.ErrBodyTooLarge) {
			c.Detail(http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		c.Detail(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status code.
func (c *Context) JSON(code int, v any) {
	response.JSON(c.W, code, v)
}

// OK sends a 200 with v as the body.
func (c *Context) OK(v any) { c.JSON(http.StatusOK, v) }

// Detail sends {"detail": message}.
func (c *Context) Detail(code int, message string) {
	response.Detail(c.W, code, message)
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	response.ValidationError(c.W, errs)
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	msg := "Not Found"
	if len(message) > 0 {
		msg = message[0]
	}
	c.Detail(http.StatusNotFound, msg)
}

// InternalError logs err against the request and sends a bare 500.
func (c *Context) InternalError(err error) {
	c.Logger().Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	response.InternalError(c.W)
}
