// Package advisor produces short product blurbs and support replies from an
// external text-generation service. Calls never fail: every error is turned
// into a fixed fallback message.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fairyhunter13/storefront-simulator/internal/model"
	"github.com/fairyhunter13/storefront-simulator/internal/obs"
	"github.com/sony/gobreaker"
)

// Fallback messages returned in place of generated text.
const (
	InsightMissingKey = "AI insights unavailable: API Key missing."
	InsightFailed     = "Unable to generate insights at this time."
	InsightEmpty      = "No insights generated."

	SupportMissingKey = "Support bot is offline (API Key missing)."
	SupportFailed     = "Support system is currently experiencing high load."
	SupportEmpty      = "I didn't catch that."
)

// Advisor is what the storefront consumes.
type Advisor interface {
	GetInsight(ctx context.Context, p model.Product) string
	Support(ctx context.Context, message, viewContext string) string
}

// Completer turns a prompt into text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service implements Advisor on top of a Completer. A nil completer means
// no credential is configured.
type Service struct {
	completer Completer
	breaker   *gobreaker.CircuitBreaker
	timeout   time.Duration
}

// Options tune the breaker and per-call timeout.
type Options struct {
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

func NewService(c Completer, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 3
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	threshold := opts.FailureThreshold
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "advisor",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			obs.Logger.Warn("advisor_breaker_state", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Service{completer: c, breaker: cb, timeout: opts.Timeout}
}

// Unavailable returns an advisor that always answers with the missing-key
// fallbacks.
func Unavailable() *Service { return NewService(nil, Options{}) }

func (s *Service) GetInsight(ctx context.Context, p model.Product) string {
	if s.completer == nil {
		obs.AdvisorRequests.WithLabelValues("insight", "missing_key").Inc()
		return InsightMissingKey
	}
	return s.generate(ctx, "insight", insightPrompt(p), InsightFailed, InsightEmpty)
}

func (s *Service) Support(ctx context.Context, message, viewContext string) string {
	if s.completer == nil {
		obs.AdvisorRequests.WithLabelValues("support", "missing_key").Inc()
		return SupportMissingKey
	}
	return s.generate(ctx, "support", supportPrompt(message, viewContext), SupportFailed, SupportEmpty)
}

func (s *Service) generate(ctx context.Context, kind, prompt, failed, empty string) string {
	text, err := executeWithBreaker(s.breaker, func() (string, error) {
		cctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.completer.Complete(cctx, prompt)
	})
	if err != nil {
		obs.AdvisorRequests.WithLabelValues(kind, "error").Inc()
		obs.Logger.Error("advisor_call_failed", "kind", kind, "error", err)
		return failed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		obs.AdvisorRequests.WithLabelValues(kind, "empty").Inc()
		return empty
	}
	obs.AdvisorRequests.WithLabelValues(kind, "ok").Inc()
	return text
}

func executeWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return *new(T), err
	}
	return res.(T), nil
}

func insightPrompt(p model.Product) string {
	return fmt.Sprintf(`You are an expert e-commerce assistant. Analyze this product: %s - %s.
Price: $%s.
Provide 3 short, punchy selling points (bullet points) that explain why a developer or tech enthusiast should buy this.
Keep it strictly under 100 words total. Format as markdown bullet points.`, p.Name, p.Description, p.Price.String())
}

func supportPrompt(message, viewContext string) string {
	return fmt.Sprintf(`System: You are a helpful support agent for 'MicroEcom'.
Context: The user is currently viewing: %s.
User: %s
Answer politely and concisely (max 2 sentences).`, viewContext, message)
}
