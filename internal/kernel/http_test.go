package kernel_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/internal/testdb"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

type product struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	SKU    string  `json:"sku"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

type page struct {
	Items []product `json:"items"`
	Total int64     `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}

type detail struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	return kernel.NewHTTPKernel(testdb.Open(t)).Handler()
}

func do(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

func create(t *testing.T, h http.Handler, name, sku string, price float64) product {
	t.Helper()
	rec := do(h, http.MethodPost, "/products/",
		fmt.Sprintf(`{"name":%q,"sku":%q,"price":%v}`, name, sku, price))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p product
	decode(t, rec, &p)
	return p
}

func TestProductScenarios(t *testing.T) {
	testkit.RunDir(t, newHandler(t), "testdata/scenarios")
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodPost, "/products",
		`{"name":"Monitor Arm","sku":"ARM-02","price":89.0,"active":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var created product
	decode(t, rec, &created)
	assert.Positive(t, created.ID)
	assert.False(t, created.Active)

	rec = do(h, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got product
	decode(t, rec, &got)
	assert.Equal(t, created, got)
}

func TestListPaginatesFifteenProducts(t *testing.T) {
	h := newHandler(t)
	for i := 1; i <= 15; i++ {
		create(t, h, fmt.Sprintf("Item %d", i), fmt.Sprintf("SKU-%02d", i), float64(i))
	}

	var first page
	rec := do(h, http.MethodGet, "/products/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &first)
	assert.Len(t, first.Items, 10)
	assert.EqualValues(t, 15, first.Total)
	assert.Equal(t, 0, first.Skip)
	assert.Equal(t, 10, first.Limit)
	assert.Equal(t, "SKU-01", first.Items[0].SKU)

	var second page
	rec = do(h, http.MethodGet, "/products/?skip=10&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &second)
	require.Len(t, second.Items, 5)
	assert.Equal(t, "SKU-11", second.Items[0].SKU)
	assert.EqualValues(t, 15, second.Total)
}

func TestListMinPriceKeepsUnfilteredTotal(t *testing.T) {
	h := newHandler(t)
	create(t, h, "Cheap", "P-100", 100)
	create(t, h, "Mid", "P-150", 150)
	create(t, h, "Dear", "P-200", 200)

	var p page
	rec := do(h, http.MethodGet, "/products/?min_price=150", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &p)

	require.Len(t, p.Items, 2)
	for _, item := range p.Items {
		assert.GreaterOrEqual(t, item.Price, 150.0)
	}
	assert.EqualValues(t, 3, p.Total)
}

func TestListRejectsBadQuery(t *testing.T) {
	h := newHandler(t)

	cases := map[string]string{
		"/products?limit=abc":     "limit",
		"/products?skip=1.5":      "skip",
		"/products?min_price=low": "min_price",
		"/products?skip=-1":       "skip",
		"/products?limit=-5":      "limit",
	}
	for url, field := range cases {
		t.Run(url, func(t *testing.T) {
			rec := do(h, http.MethodGet, url, "")
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var d detail
			decode(t, rec, &d)
			assert.Contains(t, d.Errors, field)
		})
	}
}

func TestNonIntegerIDIsUnprocessable(t *testing.T) {
	h := newHandler(t)
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := do(h, method, "/products/abc", `{"name":"x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, method)
	}
}

func TestUpdateMissingProduct(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodPut, "/products/999", `{"price":10}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var d detail
	decode(t, rec, &d)
	assert.Equal(t, "Product not found", d.Detail)
}

func TestUpdateValidation(t *testing.T) {
	h := newHandler(t)
	p := create(t, h, "Desk", "DESK-1", 120)
	create(t, h, "Chair", "CHAIR-1", 80)
	url := fmt.Sprintf("/products/%d", p.ID)

	rec := do(h, http.MethodPut, url, `{"name":null}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPut, url, `{"price":-3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(h, http.MethodPut, url, `{"sku":"CHAIR-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// An empty body object changes nothing.
	rec = do(h, http.MethodPut, url, `{}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var got product
	decode(t, rec, &got)
	assert.Equal(t, p, got)
}

func TestCreateRejectsMalformedBodies(t *testing.T) {
	h := newHandler(t)

	cases := map[string]string{
		"missing fields": `{}`,
		"wrong type":     `{"name":"Lamp","sku":"L-1","price":"cheap"}`,
		"broken json":    `{"name":`,
		"not an object":  `[1,2,3]`,
		"null active":    `{"name":"Lamp","sku":"L-1","price":3,"active":null}`,
		"null name":      `{"name":null,"sku":"L-1","price":3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/products", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateLenientInputs(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodPost, "/products/", `{"name":"","sku":"E1","price":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var empty product
	decode(t, rec, &empty)
	assert.Equal(t, "", empty.Name)

	rec = do(h, http.MethodPost, "/products/", `{"name":"Cable","sku":"C1","price":"12.5","active":"false"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var coerced product
	decode(t, rec, &coerced)
	assert.Equal(t, 12.5, coerced.Price)
	assert.False(t, coerced.Active)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newHandler(t)

	rec := do(h, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	rec = do(h, http.MethodPatch, "/products/1", `{}`)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rec.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestHealthz(t *testing.T) {
	db := testdb.Open(t)
	h := kernel.NewHTTPKernel(db).Handler()

	rec := do(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHandler(t)
	do(h, http.MethodGet, "/products", "")

	rec := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catalog_http_requests_total")
}

func TestRouteTable(t *testing.T) {
	routes := kernel.NewHTTPKernel(nil).Router().Routes()

	names := map[string]bool{}
	for _, r := range routes {
		names[r.Name] = true
	}
	for _, want := range []string{"products.index", "products.store", "products.show", "products.update", "products.destroy", "health", "metrics"} {
		assert.True(t, names[want], want)
	}
}
