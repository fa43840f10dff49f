package callibella

import (
	"context"
	"errors"
	"time"
)

// RetryConfig holds configuration for retry behavior.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	BaseDelay  time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns sensible defaults for retry behavior.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry executes a function with exponential backoff retry.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var lastErr error
	var zero T

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		// Check context before each attempt
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}

			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return zero, lastErr
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Check for ProviderError with Retryable flag
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	return false
}

// RetryableProvider wraps a Provider with retry logic on every call.
type RetryableProvider struct {
	provider Provider
	config   RetryConfig
}

// NewRetryableProvider creates a new provider with retry logic.
func NewRetryableProvider(provider Provider, cfg RetryConfig) *RetryableProvider {
	return &RetryableProvider{
		provider: provider,
		config:   cfg,
	}
}

// TranslateSegment implements Provider with retry logic.
func (p *RetryableProvider) TranslateSegment(ctx context.Context, fullStory, segment string) (string, error) {
	return WithRetry(ctx, p.config, func() (string, error) {
		return p.provider.TranslateSegment(ctx, fullStory, segment)
	})
}

// PlanBlock implements Provider with retry logic.
func (p *RetryableProvider) PlanBlock(ctx context.Context, baseText string) (PlannedBlock, error) {
	return WithRetry(ctx, p.config, func() (PlannedBlock, error) {
		return p.provider.PlanBlock(ctx, baseText)
	})
}

// SpanVariants implements Provider with retry logic.
func (p *RetryableProvider) SpanVariants(ctx context.Context, segmentContext, anchor string) ([]PlannedVariant, error) {
	return WithRetry(ctx, p.config, func() ([]PlannedVariant, error) {
		return p.provider.SpanVariants(ctx, segmentContext, anchor)
	})
}

// Verify RetryableProvider implements Provider
var _ Provider = (*RetryableProvider)(nil)
