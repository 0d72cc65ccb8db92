package notify

import (
	"testing"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterIdleByDefault(t *testing.T) {
	e := NewEmitter()
	_, ok := e.Current()
	assert.False(t, ok)
	assert.False(t, e.Expire(0))
}

func TestEmitterReplaceAndStaleExpiry(t *testing.T) {
	e := NewEmitter()
	now := time.Now()
	first := e.Emit("Added chair to cart", model.SeveritySuccess, now)
	second := e.Emit("Added lamp to cart", model.SeveritySuccess, now.Add(time.Second))
	require.NotEqual(t, first, second)

	n, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, "Added lamp to cart", n.Message)

	assert.False(t, e.Expire(first), "stale expiry must not clear a newer notification")
	_, ok = e.Current()
	assert.True(t, ok)

	assert.True(t, e.Expire(second))
	assert.False(t, e.Expire(second))
	_, ok = e.Current()
	assert.False(t, ok)
}

func TestEmitterSeverity(t *testing.T) {
	e := NewEmitter()
	e.Emit("hello", model.SeverityInfo, time.Now())
	n, _ := e.Current()
	assert.Equal(t, model.SeverityInfo, n.Severity)
}
