package usecase

import (
	"context"
	"time"

	accessDomain "github.com/allisson/mediavault/internal/access/domain"
	"github.com/allisson/mediavault/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.OperationStatus(err)
	t.metrics.RecordOperation(ctx, "access", operation, status)
	t.metrics.RecordDuration(ctx, "access", operation, time.Since(start), status)
}

// Generate records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) Generate(
	ctx context.Context,
	resourceName string,
) (*accessDomain.IssuedToken, error) {
	start := time.Now()
	issued, err := t.next.Generate(ctx, resourceName)
	t.record(ctx, "token_generate", start, err)
	return issued, err
}

// Resolve records metrics for token resolution.
func (t *tokenUseCaseWithMetrics) Resolve(
	ctx context.Context,
	plainToken string,
) (*accessDomain.PlaybackToken, error) {
	start := time.Now()
	token, err := t.next.Resolve(ctx, plainToken)
	t.record(ctx, "token_resolve", start, err)
	return token, err
}
