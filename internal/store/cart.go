// Package store holds the in-memory cart and order ledger.
//
// Neither type is safe for concurrent use; both are owned by the storefront
// event loop.
package store

import (
	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/shopspring/decimal"
)

// Cart maps product ids to cart lines, preserving insertion order.
type Cart struct {
	lines []model.CartLine
	index map[string]int
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add increments the line for p, creating it with quantity 1 when absent.
func (c *Cart) Add(p model.Product) model.CartLine {
	if i, ok := c.index[p.ID]; ok {
		c.lines[i].Quantity++
		return c.lines[i]
	}
	c.lines = append(c.lines, model.CartLine{Product: p, Quantity: 1})
	c.index[p.ID] = len(c.lines) - 1
	return c.lines[len(c.lines)-1]
}

// Remove deletes the whole line for id. Unknown ids are ignored.
func (c *Cart) Remove(id string) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	delete(c.index, id)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ID] = j
	}
	return true
}

func (c *Cart) Get(id string) (model.CartLine, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.CartLine{}, false
	}
	return c.lines[i], true
}

// Total is recomputed on every call.
func (c *Cart) Total() decimal.Decimal { return model.SumLines(c.lines) }

// ItemCount returns the sum of quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []model.CartLine {
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
