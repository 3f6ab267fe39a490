package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Product is one entry of the static product dataset. The dataset is
// read-only: the server never writes back to it.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

// Catalog holds the product dataset loaded at startup.
type Catalog struct {
	products []Product
	byID     map[int]Product
}

// New builds a catalog from an in-memory product list.
func New(products []Product) *Catalog {
	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Load reads the product dataset from the given JSON file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(products), nil
}

// List returns all products.
func (c *Catalog) List() []Product {
	return c.products
}

// Get returns the product with the given id.
func (c *Catalog) Get(id int) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of products in the dataset.
func (c *Catalog) Len() int {
	return len(c.products)
}
