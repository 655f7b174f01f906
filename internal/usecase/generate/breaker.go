// Package generate wires the configured generative provider behind a
// circuit breaker so a flapping LLM backend fails fast instead of
// stalling every request.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/threadsage/threadsage/internal/domain"
)

// BreakerConfig tunes the circuit breaker around a Generator.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	MinRequests uint32
	// FailureRatio trips the breaker once this share of requests failed.
	FailureRatio float64
	Logger       *zap.Logger
}

// Breaker decorates a Generator with a gobreaker circuit breaker.
// While the circuit is open calls return ErrProviderUnavailable
// without touching the provider.
type Breaker struct {
	next    Generator
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps gen with a circuit breaker. Context cancellation is
// not counted as a provider failure.
func NewBreaker(gen Generator, cfg BreakerConfig) *Breaker {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 1
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 3
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = 0.6
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("generation breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Breaker{
		next:    gen,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Generate implements Generator.
func (b *Breaker) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.breaker.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("generation circuit open: %w", domain.ErrProviderUnavailable)
		}
		return "", err
	}
	return text, nil
}
