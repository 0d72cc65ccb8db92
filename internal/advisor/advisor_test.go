package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var chair = model.Product{
	ID:          "p1",
	Name:        "Ergonomic Developer Chair",
	Price:       decimal.RequireFromString("349.99"),
	Description: "High-performance chair for long coding sessions.",
}

type stubCompleter struct {
	text  string
	err   error
	calls atomic.Int32
	last  string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls.Add(1)
	s.last = prompt
	return s.text, s.err
}

func TestMissingCredentialFallback(t *testing.T) {
	a := FromCredential("", "", "", Options{})
	assert.Equal(t, "AI insights unavailable: API Key missing.", a.GetInsight(context.Background(), chair))
	assert.Equal(t, SupportMissingKey, a.Support(context.Background(), "hi", "storefront"))
}

func TestInsightFromCompleter(t *testing.T) {
	stub := &stubCompleter{text: "  - sits well\n"}
	a := NewService(stub, Options{})
	got := a.GetInsight(context.Background(), chair)
	assert.Equal(t, "- sits well", got)
	assert.Contains(t, stub.last, "Ergonomic Developer Chair")
	assert.Contains(t, stub.last, "$349.99")
}

func TestInsightPromptUsesPlainPrice(t *testing.T) {
	keyboard := model.Product{Name: "Mechanical Keyboard 60%", Price: decimal.RequireFromString("129.50")}
	got := insightPrompt(keyboard)
	assert.Contains(t, got, "Price: $129.5.\n")
	assert.NotContains(t, got, "129.50")
}

func TestInsightErrorAndEmptyFallbacks(t *testing.T) {
	a := NewService(&stubCompleter{err: errors.New("quota")}, Options{})
	assert.Equal(t, InsightFailed, a.GetInsight(context.Background(), chair))

	a = NewService(&stubCompleter{text: "   "}, Options{})
	assert.Equal(t, InsightEmpty, a.GetInsight(context.Background(), chair))

	a = NewService(&stubCompleter{err: errors.New("down")}, Options{})
	assert.Equal(t, SupportFailed, a.Support(context.Background(), "where is my order", "orders"))

	a = NewService(&stubCompleter{}, Options{})
	assert.Equal(t, SupportEmpty, a.Support(context.Background(), "hello", "orders"))
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubCompleter{err: errors.New("boom")}
	a := NewService(stub, Options{FailureThreshold: 2, OpenTimeout: time.Hour})
	for i := 0; i < 5; i++ {
		assert.Equal(t, InsightFailed, a.GetInsight(context.Background(), chair))
	}
	assert.Equal(t, int32(2), stub.calls.Load(), "open breaker must short-circuit")
}

func TestSupportPromptCarriesViewContext(t *testing.T) {
	stub := &stubCompleter{text: "Sure."}
	a := NewService(stub, Options{})
	assert.Equal(t, "Sure.", a.Support(context.Background(), "can I return it?", "orders"))
	assert.Contains(t, stub.last, "currently viewing: orders")
	assert.Contains(t, stub.last, "can I return it?")
}

func fakeChatServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "overloaded", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompleterAgainstFakeBackend(t *testing.T) {
	srv := fakeChatServer(t, http.StatusOK, "- ergonomic\n- durable\n- stylish")
	a := FromCredential("test-key", srv.URL+"/v1", "test-model", Options{Timeout: 2 * time.Second})
	got := a.GetInsight(context.Background(), chair)
	require.NotEqual(t, InsightFailed, got)
	assert.Equal(t, "- ergonomic\n- durable\n- stylish", got)
}

func TestOpenAICompleterBackendFailure(t *testing.T) {
	srv := fakeChatServer(t, http.StatusInternalServerError, "")
	a := FromCredential("test-key", srv.URL+"/v1", "", Options{Timeout: 2 * time.Second})
	assert.Equal(t, InsightFailed, a.GetInsight(context.Background(), chair))
}
