// Package transport is the simulated network boundary between the
// client-side synchronization engine and the authoritative store. It adds
// the only asynchronous behavior in the system: a configurable delay,
// cooperative cancellation through the context, and failure injection for
// exercising the rollback paths.
package transport

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/lib"
	"github.com/stormhead-org/feedsync/internal/middleware"
	"github.com/stormhead-org/feedsync/internal/model"
	"github.com/stormhead-org/feedsync/internal/query"
	"github.com/stormhead-org/feedsync/internal/store"
)

type Backend struct {
	mu       sync.Mutex
	store    *store.Store
	pipeline *query.Pipeline
	log      *zap.Logger
	latency  time.Duration
	limiter  *middleware.ActionLimiter
	failures int
}

// NewBackend wraps the store and pipeline behind simulated-network calls.
// A nil limiter disables per-viewer rate limiting; zero latency makes every
// call resolve immediately, which tests rely on.
func NewBackend(st *store.Store, pipeline *query.Pipeline, log *zap.Logger, latency time.Duration, limiter *middleware.ActionLimiter) *Backend {
	return &Backend{
		store:    st,
		pipeline: pipeline,
		log:      log,
		latency:  latency,
		limiter:  limiter,
	}
}

// FailNext forces the next n calls to fail with a transient error.
func (b *Backend) FailNext(n int) {
	b.mu.Lock()
	b.failures = n
	b.mu.Unlock()
}

func (b *Backend) Fetch(ctx context.Context, region string, filters model.FilterSet) (model.Page, error) {
	if err := b.delay(ctx); err != nil {
		return model.Page{}, err
	}
	if b.takeFailure() {
		return model.Page{}, lib.UnavailableError("simulated backend failure")
	}
	return b.pipeline.Query(region, filters)
}

func (b *Backend) Write(ctx context.Context, region string, post model.Post) (model.Post, error) {
	if err := b.delay(ctx); err != nil {
		return model.Post{}, err
	}
	if b.takeFailure() {
		return model.Post{}, lib.UnavailableError("simulated backend failure")
	}
	return b.store.Write(region, post)
}

func (b *Backend) Mutate(ctx context.Context, viewerID string, postID string, action model.InteractionAction) (model.Post, error) {
	if err := b.delay(ctx); err != nil {
		return model.Post{}, err
	}
	if b.limiter != nil && !b.limiter.Allow(viewerID) {
		b.log.Warn("interaction rate limited", zap.String("viewer_id", viewerID))
		return model.Post{}, lib.UnavailableError("too many requests")
	}
	if b.takeFailure() {
		return model.Post{}, lib.UnavailableError("simulated backend failure")
	}
	return b.store.MutateInteraction(postID, action)
}

// delay blocks for the configured latency or until the context is done.
func (b *Backend) delay(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return lib.UnavailableError("request cancelled")
	}
	if b.latency <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return lib.UnavailableError("request cancelled")
	case <-time.After(b.latency):
		return nil
	}
}

func (b *Backend) takeFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failures > 0 {
		b.failures--
		return true
	}
	return false
}
