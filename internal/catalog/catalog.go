// Package catalog provides the read-only product list.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("product not found")

// Catalog is an ordered, immutable product list with lookup by id.
type Catalog struct {
	products []model.Product
	byID     map[string]int
}

// New builds a catalog. Duplicate ids are rejected.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{products: make([]model.Product, len(products)), byID: make(map[string]int, len(products))}
	copy(c.products, products)
	for i, p := range c.products {
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(builtin())
	if err != nil {
		panic(err)
	}
	return c
}

// Load reads the catalog from a YAML file, or returns the built-in catalog
// when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

// All returns the products in catalog order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Get(id string) (model.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.products[i], nil
}

func (c *Catalog) Len() int { return len(c.products) }

type file struct {
	Products []record `yaml:"products" validate:"required,min=1,dive"`
}

type record struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	Price       money  `yaml:"price"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image" validate:"omitempty,url"`
	Description string `yaml:"description"`
	Stock       int64  `yaml:"stock" validate:"gte=0"`
}

// money is a non-negative amount with at most two decimal places, parsed
// from the literal YAML scalar so no float rounding is involved.
type money struct{ decimal.Decimal }

func (m *money) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a number", n.Line)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: price %q is not a number", n.Line, n.Value)
	}
	if d.IsNegative() {
		return fmt.Errorf("line %d: price %q must be >= 0", n.Line, n.Value)
	}
	if !d.Equal(d.Truncate(2)) {
		return fmt.Errorf("line %d: price %q has more than two decimal places", n.Line, n.Value)
	}
	m.Decimal = d
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a YAML catalog document.
func Parse(b []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	products := make([]model.Product, 0, len(f.Products))
	for _, r := range f.Products {
		products = append(products, model.Product{
			ID:          r.ID,
			Name:        r.Name,
			Price:       r.Price.Decimal,
			Category:    r.Category,
			Image:       r.Image,
			Description: r.Description,
			Stock:       r.Stock,
		})
	}
	return New(products)
}
