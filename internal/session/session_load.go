package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/model"
)

// Load fetches the first page for the current filter set. Starting a load
// supersedes any in-flight query: the older query's results are discarded
// when they arrive, never applied over fresher state.
func (s *Session) Load(ctx context.Context) error {
	return s.load(ctx, false)
}

// Refresh re-fetches the first page without dropping pending posts. The
// refreshing flag is surfaced separately so view code can distinguish
// pull-to-refresh from an initial load.
func (s *Session) Refresh(ctx context.Context) error {
	return s.load(ctx, true)
}

func (s *Session) load(ctx context.Context, refreshing bool) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.refreshing = refreshing
	s.errMsg = ""
	s.generation++
	token := s.generation
	filters := s.filters.Normalized()
	filters.Page = 1
	s.mu.Unlock()

	page, err := s.backend.Fetch(ctx, s.region, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	// A newer query superseded this one while it was in flight.
	if token != s.generation {
		s.log.Debug("stale query result discarded",
			zap.Uint64("token", token),
			zap.Uint64("current", s.generation))
		return nil
	}

	if err != nil {
		s.status = StatusError
		s.refreshing = false
		s.errMsg = err.Error()
		s.log.Warn("feed load failed", zap.String("region", s.region), zap.Error(err))
		return err
	}

	s.confirmed = page.Items
	s.total = page.TotalCount
	s.hasMore = page.HasMore
	s.nextPage = page.NextPage
	s.filters.Page = 1
	s.status = StatusReady
	s.refreshing = false
	return nil
}

// LoadMore fetches the next page and appends it to the confirmed posts,
// de-duplicating by id. It is a no-op unless the session is ready and more
// pages exist.
func (s *Session) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusReady || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusLoadingMore
	s.generation++
	token := s.generation
	filters := s.filters.Normalized()
	filters.Page = s.nextPage
	s.mu.Unlock()

	page, err := s.backend.Fetch(ctx, s.region, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.generation {
		return nil
	}

	if err != nil {
		s.status = StatusError
		s.errMsg = err.Error()
		s.log.Warn("feed page load failed", zap.String("region", s.region), zap.Error(err))
		return err
	}

	seen := make(map[string]struct{}, len(s.confirmed))
	for _, p := range s.confirmed {
		seen[p.ID] = struct{}{}
	}
	for _, p := range page.Items {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		s.confirmed = append(s.confirmed, p)
	}

	s.total = page.TotalCount
	s.hasMore = page.HasMore
	s.nextPage = page.NextPage
	s.filters.Page = filters.Page
	s.status = StatusReady
	return nil
}

// FilterPatch is a partial filter update; nil fields keep their value.
type FilterPatch struct {
	LocationID *string
	Category   *model.Category
	TagIDs     *[]string
	Search     *string
	Sort       *model.SortMode
	PageSize   *int
}

// UpdateFilters applies a partial filter change, resets pagination and
// reloads. The reload supersedes any query still in flight.
func (s *Session) UpdateFilters(ctx context.Context, patch FilterPatch) error {
	s.mu.Lock()
	if patch.LocationID != nil {
		s.filters.LocationID = *patch.LocationID
	}
	if patch.Category != nil {
		s.filters.Category = *patch.Category
	}
	if patch.TagIDs != nil {
		s.filters.TagIDs = *patch.TagIDs
	}
	if patch.Search != nil {
		s.filters.Search = *patch.Search
	}
	if patch.Sort != nil {
		s.filters.Sort = *patch.Sort
	}
	if patch.PageSize != nil {
		s.filters.PageSize = *patch.PageSize
	}
	s.filters.Page = 1
	s.mu.Unlock()

	return s.load(ctx, false)
}
