// Package product exposes a product catalog REST API as tools
package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/amoylab/toolserver/internal/common/config"
	"github.com/amoylab/toolserver/internal/template"
	"github.com/amoylab/toolserver/internal/tool"
	"github.com/amoylab/toolserver/internal/tools/remote"
	"github.com/amoylab/toolserver/pkg/utils"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// DefaultTemplate renders a single product document
const DefaultTemplate = `=== Product details ===
Name: {{ .Response.Data.name }}
Product ID: {{ .Response.Data.productId }}
Category: {{ .Response.Data.category }}
Manufacturer: {{ .Response.Data.manufacturer }}
Release date: {{ .Response.Data.releaseDate | default "unknown" }}
Price: {{ .Response.Data.price }}
Stock: {{ .Response.Data.stock }}
Specs: {{ .Response.Data.specs }}
Features:
{{- range .Response.Data.features }}
  - {{ . }}
{{- end }}
`

type Service struct {
	logger   *zap.Logger
	client   *remote.Client
	template string
	renderer *template.Renderer
}

// NewService creates the product tools backed by client
func NewService(logger *zap.Logger, client *remote.Client, cfg config.ProductToolConfig) *Service {
	tmpl := cfg.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	return &Service{
		logger:   logger.Named("tools.product"),
		client:   client,
		template: tmpl,
		renderer: template.NewRenderer(),
	}
}

type detailsInput struct {
	ProductID string `json:"productId"`
}

type priceRangeInput struct {
	MinPrice int64 `json:"minPrice"`
	MaxPrice int64 `json:"maxPrice"`
}

// Tools returns the product tools
func (s *Service) Tools() ([]tool.Tool, error) {
	defs := []struct {
		def mcp.Tool
		sig tool.Signature
	}{
		{
			def: mcp.NewTool("getProductDetails",
				mcp.WithDescription("Looks up a product by id and returns its full specs, price, stock and features."),
				mcp.WithString("productId", mcp.Required(),
					mcp.Description("Product id, e.g. LAPTOP-2024-001 or MONITOR-2024-001")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.getProductDetails)},
		},
		{
			def: mcp.NewTool("searchProductsByCategory",
				mcp.WithDescription("Lists the products of a category with their price and stock."),
				mcp.WithString("category", mcp.Required(),
					mcp.Description("Product category, e.g. laptop, monitor, keyboard")),
			),
			sig: tool.Signature{Map: s.searchByCategory},
		},
		{
			def: mcp.NewTool("searchProductsByPriceRange",
				mcp.WithDescription("Finds products whose price lies within a range."),
				mcp.WithNumber("minPrice", mcp.Required(), mcp.Description("Lowest price")),
				mcp.WithNumber("maxPrice", mcp.Required(), mcp.Description("Highest price")),
			),
			sig: tool.Signature{Typed: tool.Typed(s.searchByPriceRange)},
		},
		{
			def: mcp.NewTool("getAvailableProducts",
				mcp.WithDescription("Lists the products that are currently in stock."),
			),
			sig: tool.Signature{None: s.getAvailableProducts},
		},
		{
			def: mcp.NewTool("searchProductsByManufacturer",
				mcp.WithDescription("Lists every product of a manufacturer."),
				mcp.WithString("manufacturer", mcp.Required(),
					mcp.Description("Manufacturer name, e.g. TechPro or UltraView")),
			),
			sig: tool.Signature{Document: s.searchByManufacturer},
		},
	}

	tools := make([]tool.Tool, 0, len(defs))
	for _, d := range defs {
		t, err := tool.FromMCP(d.def, d.sig)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, nil
}

func (s *Service) getProductDetails(ctx context.Context, in detailsInput) (any, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, errors.New("productId is required")
	}
	s.logger.Info("getting product details", zap.String("product_id", in.ProductID))

	body, err := s.client.Get(ctx, "/api/products/"+url.PathEscape(in.ProductID), nil)
	if isNotFound(err) {
		return fmt.Sprintf("Product '%s' was not found.", in.ProductID), nil
	}
	if err != nil {
		return nil, err
	}

	var data map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid product document: %w", err)
	}

	tmplCtx := template.NewContext()
	tmplCtx.Args["productId"] = in.ProductID
	tmplCtx.Response.Data = data
	tmplCtx.Response.Body = string(body)
	return s.renderer.Render(s.template, tmplCtx)
}

func (s *Service) searchByCategory(ctx context.Context, args map[string]any) (any, error) {
	category := utils.GetString(args, "category", "")
	if strings.TrimSpace(category) == "" {
		return nil, errors.New("category is required")
	}
	body, err := s.client.Get(ctx, "/api/products/category/"+url.PathEscape(category), nil)
	return s.listing(body, err,
		fmt.Sprintf("=== Products in category %s ===", category),
		fmt.Sprintf("No products found in category '%s'.", category),
		"productId", "name", "manufacturer", "price", "stock")
}

func (s *Service) searchByPriceRange(ctx context.Context, in priceRangeInput) (any, error) {
	if in.MinPrice > in.MaxPrice {
		return nil, fmt.Errorf("minPrice %d is greater than maxPrice %d", in.MinPrice, in.MaxPrice)
	}
	query := url.Values{
		"minPrice": {strconv.FormatInt(in.MinPrice, 10)},
		"maxPrice": {strconv.FormatInt(in.MaxPrice, 10)},
	}
	body, err := s.client.Get(ctx, "/api/products/price-range", query)
	return s.listing(body, err,
		fmt.Sprintf("=== Products priced %d to %d ===", in.MinPrice, in.MaxPrice),
		fmt.Sprintf("No products priced between %d and %d.", in.MinPrice, in.MaxPrice),
		"name", "productId", "category", "price", "stock")
}

func (s *Service) getAvailableProducts(ctx context.Context) (any, error) {
	body, err := s.client.Get(ctx, "/api/products/available", nil)
	return s.listing(body, err,
		"=== Products in stock ===",
		"No products are in stock.",
		"name", "productId", "category", "price", "stock")
}

func (s *Service) searchByManufacturer(ctx context.Context, doc json.RawMessage) (any, error) {
	manufacturer := gjson.GetBytes(doc, "manufacturer").String()
	if strings.TrimSpace(manufacturer) == "" {
		return nil, errors.New("manufacturer is required")
	}
	body, err := s.client.Get(ctx, "/api/products/manufacturer/"+url.PathEscape(manufacturer), nil)
	return s.listing(body, err,
		fmt.Sprintf("=== Products by %s ===", manufacturer),
		fmt.Sprintf("No products found for manufacturer '%s'.", manufacturer),
		"name", "productId", "category", "price", "stock", "specs")
}

var fieldLabels = map[string]string{
	"productId":    "Product ID",
	"name":         "Name",
	"category":     "Category",
	"manufacturer": "Manufacturer",
	"price":        "Price",
	"stock":        "Stock",
	"specs":        "Specs",
}

// listing formats a JSON array of products. A 404 or an empty array yields
// the empty message.
func (s *Service) listing(body []byte, err error, header, empty string, fields ...string) (any, error) {
	if isNotFound(err) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}

	products := gjson.ParseBytes(body)
	if !products.IsArray() {
		return nil, errors.New("unexpected product listing: not an array")
	}
	items := products.Array()
	if len(items) == 0 {
		return empty, nil
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for _, p := range items {
		sb.WriteString("\n")
		for _, f := range fields {
			fmt.Fprintf(&sb, "%s: %s\n", fieldLabels[f], p.Get(f).String())
		}
		sb.WriteString("---\n")
	}
	s.logger.Debug("formatted product listing", zap.Int("count", len(items)))
	return sb.String(), nil
}

func isNotFound(err error) bool {
	var statusErr *remote.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
