package toolserver

import (
	"context"
	"errors"

	"github.com/spf13/cast"

	"github.com/ixlander/ai-mcp-agent/src/calc"
	"github.com/ixlander/ai-mcp-agent/src/catalog"
)

// listResult is the list_products payload. Category is present only when
// the listing was filtered.
type listResult struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Category string            `json:"category,omitempty"`
}

type productResult struct {
	Success bool            `json:"success"`
	Product catalog.Product `json:"product"`
}

// RegisterCatalogTools exposes the product store operations.
func RegisterCatalogTools(s *Server, store *catalog.Store) {
	s.MustRegisterTool(ToolDefinition{
		Name:        "list_products",
		Description: "Get list of all products, optionally filtered by category",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			category := cast.ToString(args["category"])
			products := store.List(category)
			if products == nil {
				products = []catalog.Product{}
			}
			return listResult{Products: products, Total: len(products), Category: category}, nil
		},
	})

	s.MustRegisterTool(ToolDefinition{
		Name:        "get_product",
		Description: "Get product details by ID",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			id, err := cast.ToIntE(args["product_id"])
			if err != nil {
				return nil, errors.New("product_id must be an integer")
			}
			product, err := store.Get(id)
			if err != nil {
				return nil, err
			}
			return productResult{Success: true, Product: product}, nil
		},
	})

	s.MustRegisterTool(ToolDefinition{
		Name:        "add_product",
		Description: "Add a new product to the inventory",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			name := cast.ToString(args["name"])
			if name == "" {
				return nil, errors.New("name is required")
			}
			price, err := cast.ToFloat64E(args["price"])
			if err != nil {
				return nil, errors.New("price must be a number")
			}
			category := cast.ToString(args["category"])
			inStock := true
			if raw, ok := args["in_stock"]; ok {
				inStock = cast.ToBool(raw)
			}
			product, err := store.Add(name, price, category, inStock)
			if err != nil {
				return nil, err
			}
			return productResult{Success: true, Product: product}, nil
		},
	})

	s.MustRegisterTool(ToolDefinition{
		Name:        "get_statistics",
		Description: "Get statistics about products in inventory",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return store.Statistics(), nil
		},
	})
}

// RegisterLocalTools exposes the calculator and formatter helpers.
func RegisterLocalTools(s *Server) {
	s.MustRegisterTool(ToolDefinition{
		Name:        "calculator",
		Description: "Calculate a mathematical expression",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			return calc.Evaluate(cast.ToString(args["expression"])), nil
		},
	})

	s.MustRegisterTool(ToolDefinition{
		Name:        "formatter",
		Description: "Format text as json, uppercase or lowercase",
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			formatType := "json"
			if raw, ok := args["format_type"]; ok {
				formatType = cast.ToString(raw)
			}
			return calc.Format(cast.ToString(args["text"]), formatType), nil
		},
	})
}
