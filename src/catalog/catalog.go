// Package catalog is the product store behind the tool provider: a flat
// JSON array on disk with auto-incrementing integer ids. The store is an
// explicitly owned object with Load/Save lifecycle calls; nothing here is
// package-global.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ixlander/ai-mcp-agent/src/json"
)

// Product is a single catalog entry.
type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	InStock  bool    `json:"in_stock"`
}

// PriceRange is the min/max price pair reported by Statistics.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Stats summarizes the catalog. An empty catalog yields the zero value
// with non-nil Categories, never an error.
type Stats struct {
	TotalProducts   int        `json:"total_products"`
	AveragePrice    float64    `json:"average_price"`
	InStockCount    int        `json:"in_stock_count"`
	OutOfStockCount int        `json:"out_of_stock_count"`
	Categories      []string   `json:"categories"`
	PriceRange      PriceRange `json:"price_range"`
}

// NotFoundError reports a lookup for a product id that does not exist.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %d not found", e.ID)
}

// Store owns the product list and its backing file.
type Store struct {
	path string

	mu       sync.RWMutex
	products []Product
}

// NewStore creates a store backed by the given file. Call Load before use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the backing file. A missing file is an empty catalog.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.products = nil
			return nil
		}
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}
	s.products = products
	return nil
}

// Save writes the product list back to the backing file.
func (s *Store) Save() error {
	s.mu.RLock()
	products := s.products
	if products == nil {
		products = []Product{}
	}
	data, err := json.MarshalIndent(products, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// List returns the products, filtered case-insensitively by category when
// one is given.
func (s *Store) List(category string) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" {
		return append([]Product(nil), s.products...)
	}

	var filtered []Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Get returns the product with the given id or a NotFoundError.
func (s *Store) Get(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, &NotFoundError{ID: id}
}

// Add appends a product with the next free id and persists the catalog.
func (s *Store) Add(name string, price float64, category string, inStock bool) (Product, error) {
	s.mu.Lock()
	product := Product{
		ID:       s.nextIDLocked(),
		Name:     name,
		Price:    price,
		Category: category,
		InStock:  inStock,
	}
	s.products = append(s.products, product)
	s.mu.Unlock()

	if err := s.Save(); err != nil {
		return Product{}, err
	}
	return product, nil
}

func (s *Store) nextIDLocked() int {
	next := 1
	for _, p := range s.products {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// Statistics computes the summary for the current catalog.
func (s *Store) Statistics() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Categories: []string{}}
	if len(s.products) == 0 {
		return stats
	}

	seen := map[string]struct{}{}
	var sum float64
	stats.PriceRange = PriceRange{Min: s.products[0].Price, Max: s.products[0].Price}
	for _, p := range s.products {
		sum += p.Price
		if p.Price < stats.PriceRange.Min {
			stats.PriceRange.Min = p.Price
		}
		if p.Price > stats.PriceRange.Max {
			stats.PriceRange.Max = p.Price
		}
		if p.InStock {
			stats.InStockCount++
		}
		category := p.Category
		if category == "" {
			category = "Unknown"
		}
		if _, ok := seen[category]; !ok {
			seen[category] = struct{}{}
			stats.Categories = append(stats.Categories, category)
		}
	}
	sort.Strings(stats.Categories)

	stats.TotalProducts = len(s.products)
	stats.AveragePrice = sum / float64(len(s.products))
	stats.OutOfStockCount = stats.TotalProducts - stats.InStockCount
	return stats
}
