package product

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const laptop = `{"productId":"LAPTOP-2024-001","name":"ProBook 14","category":"laptop",
"manufacturer":"TechPro","releaseDate":"2024-01-15","price":1890000,"stock":12,
"specs":"i7, 16GB","features":["backlit keyboard","thunderbolt"]}`

func newProductAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/LAPTOP-2024-001", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(laptop))
	})
	mux.HandleFunc("/api/products/category/laptop", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + laptop + "]"))
	})
	mux.HandleFunc("/api/products/category/tablet", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	mux.HandleFunc("/api/products/price-range", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1000000", r.URL.Query().Get("minPrice"))
		assert.Equal(t, "2000000", r.URL.Query().Get("maxPrice"))
		_, _ = w.Write([]byte("[" + laptop + "]"))
	})
	mux.HandleFunc("/api/products/available", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + laptop + "]"))
	})
	mux.HandleFunc("/api/products/manufacturer/TechPro", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + laptop + "]"))
	})
	mux.HandleFunc("/api/products/BROKEN", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestEngine(t *testing.T, cfg config.ProductToolConfig) *tool.Engine {
	t.Helper()
	srv := newProductAPI(t)
	svc := NewService(zap.NewNop(), remote.New(zap.NewNop(), srv.URL, time.Second), cfg)
	tools, err := svc.Tools()
	require.NoError(t, err)

	b := tool.NewBuilder(zap.NewNop())
	require.NoError(t, b.RegisterAll(tools...))
	return tool.NewEngine(zap.NewNop(), b.Build())
}

func invoke(t *testing.T, e *tool.Engine, name string, args string) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(args), &m))
	out, err := e.Invoke(context.Background(), name, m)
	require.NoError(t, err)
	return tool.Text(out)
}

func TestProductTools_Registered(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{})
	var names []string
	for _, d := range e.Registry().List() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"getProductDetails",
		"searchProductsByCategory",
		"searchProductsByPriceRange",
		"getAvailableProducts",
		"searchProductsByManufacturer",
	}, names)
}

func TestGetProductDetails(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{})
	out := invoke(t, e, "getProductDetails", `{"productId":"LAPTOP-2024-001"}`)
	assert.Contains(t, out, "Name: ProBook 14")
	assert.Contains(t, out, "Price: 1890000")
	assert.Contains(t, out, "  - thunderbolt")

	out = invoke(t, e, "getProductDetails", `{"productId":"NOPE"}`)
	assert.Equal(t, "Product 'NOPE' was not found.", out)
}

func TestGetProductDetails_CustomTemplate(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{Template: `{{ .Response.Data.name | upper }} by {{ .Response.Data.manufacturer }}`})
	out := invoke(t, e, "getProductDetails", `{"productId":"LAPTOP-2024-001"}`)
	assert.Equal(t, "PROBOOK 14 by TechPro", out)
}

func TestGetProductDetails_UpstreamFailure(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{})
	_, err := e.Invoke(context.Background(), "getProductDetails", map[string]any{"productId": "BROKEN"})
	var execErr *tool.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearchProducts(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{})

	out := invoke(t, e, "searchProductsByCategory", `{"category":"laptop"}`)
	assert.Contains(t, out, "=== Products in category laptop ===")
	assert.Contains(t, out, "Product ID: LAPTOP-2024-001")

	out = invoke(t, e, "searchProductsByCategory", `{"category":"tablet"}`)
	assert.Equal(t, "No products found in category 'tablet'.", out)

	out = invoke(t, e, "searchProductsByPriceRange", `{"minPrice":1000000,"maxPrice":2000000}`)
	assert.Contains(t, out, "Price: 1890000")

	out = invoke(t, e, "getAvailableProducts", `{}`)
	assert.Contains(t, out, "Stock: 12")

	out = invoke(t, e, "searchProductsByManufacturer", `{"manufacturer":"TechPro"}`)
	assert.Contains(t, out, "Specs: i7, 16GB")
}

func TestSearchProductsByPriceRange_Inverted(t *testing.T) {
	e := newTestEngine(t, config.ProductToolConfig{})
	_, err := e.Invoke(context.Background(), "searchProductsByPriceRange", map[string]any{"minPrice": 5, "maxPrice": 1})
	assert.Error(t, err)
}
