package mq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderPlaced(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	o := model.Order{
		ID:     "o-1",
		UserID: "user_123",
		Items: []model.CartLine{
			{Product: model.Product{ID: "p1", Name: "Chair", Price: decimal.NewFromInt(10)}, Quantity: 2},
			{Product: model.Product{ID: "p2", Name: "Lamp", Price: decimal.NewFromInt(5)}, Quantity: 1},
		},
		Total:     decimal.NewFromInt(25),
		Status:    model.OrderProcessing,
		CreatedAt: at,
	}
	msg := NewOrderPlaced(o)
	assert.Equal(t, "25.00", msg.Total)
	assert.Equal(t, 3, msg.ItemCount)
	require.Len(t, msg.Items, 2)
	assert.Equal(t, "10.00", msg.Items[0].Price)

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"order_id":"o-1"`)
	assert.Contains(t, string(b), `"status":"processing"`)
}
