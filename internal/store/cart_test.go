package store

import (
	"testing"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id string, price int64) model.Product {
	return model.Product{ID: id, Name: "product " + id, Price: decimal.NewFromInt(price)}
}

func TestCartAddSameProductTwice(t *testing.T) {
	c := NewCart()
	p := product("p1", 10)
	c.Add(p)
	line := c.Add(p)

	require.Equal(t, 1, c.Len())
	assert.Equal(t, 2, line.Quantity)
	got, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}

func TestCartRemoveUnknownIsNoop(t *testing.T) {
	c := NewCart()
	c.Add(product("p1", 10))
	assert.False(t, c.Remove("nope"))
	assert.Equal(t, 1, c.Len())
}

func TestCartRemoveDropsWholeLine(t *testing.T) {
	c := NewCart()
	c.Add(product("p1", 10))
	c.Add(product("p1", 10))
	c.Add(product("p2", 5))
	c.Add(product("p3", 1))

	require.True(t, c.Remove("p1"))
	_, ok := c.Get("p1")
	assert.False(t, ok)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "p2", lines[0].ID)
	assert.Equal(t, "p3", lines[1].ID)

	// index must follow the shifted slice
	c.Add(product("p3", 1))
	got, _ := c.Get("p3")
	assert.Equal(t, 2, got.Quantity)
}

func TestCartTotalsAndClear(t *testing.T) {
	c := NewCart()
	assert.True(t, c.Total().IsZero())

	c.Add(model.Product{ID: "a", Price: decimal.RequireFromString("129.50")})
	c.Add(model.Product{ID: "a", Price: decimal.RequireFromString("129.50")})
	c.Add(model.Product{ID: "b", Price: decimal.RequireFromString("45.00")})

	assert.True(t, decimal.RequireFromString("304.00").Equal(c.Total()), "total %s", c.Total())
	assert.Equal(t, 3, c.ItemCount())

	c.Clear()
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())
	assert.Empty(t, c.Lines())
}

func TestCartLinesIsACopy(t *testing.T) {
	c := NewCart()
	c.Add(product("p1", 10))
	lines := c.Lines()
	lines[0].Quantity = 99
	got, _ := c.Get("p1")
	assert.Equal(t, 1, got.Quantity)
}
