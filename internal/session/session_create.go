package session

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/generator"
	"github.com/stormhead-org/feedsync/internal/lib"
	"github.com/stormhead-org/feedsync/internal/model"
)

// Draft is the caller-supplied content of a new post.
type Draft struct {
	Body       string         `json:"body"`
	Category   model.Category `json:"category"`
	TagIDs     []string       `json:"tagIds,omitempty"`
	LocationID string         `json:"locationId"`
}

// Create inserts an optimistic pending post and returns true as soon as it
// is visible, before the backing write resolves. The write runs in the
// background; on success the pending entry is replaced by the canonical
// post, on failure it is removed and the session error is set. A draft that
// fails validation is rejected before any state mutation and the caller
// never sees a pending post.
func (s *Session) Create(ctx context.Context, draft Draft) bool {
	if !s.validate(draft) {
		return false
	}

	now := time.Now()
	pending := model.Post{
		ID:           model.NewPendingID(),
		Author:       s.viewer,
		Body:         draft.Body,
		RegionID:     s.region,
		Location:     resolveLocation(s.region, draft.LocationID),
		Category:     draft.Category,
		TagIDs:       draft.TagIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastActivity: now,
		Status:       model.PostStatusActive,
	}

	s.mu.Lock()
	s.pending = append([]model.Post{pending.Clone()}, s.pending...)
	s.mu.Unlock()

	s.log.Info("pending post created",
		zap.String("temp_id", pending.ID),
		zap.String("region", s.region))

	writeCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.resolveCreate(writeCtx, pending)
	}()

	return true
}

// resolveCreate settles a pending post against the store's response. The
// pending entry is removed in both outcomes; it is never left dangling.
func (s *Session) resolveCreate(ctx context.Context, pending model.Post) {
	canonical, err := s.backend.Write(ctx, s.region, pending)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removePending(pending.ID)

	if err != nil {
		s.errMsg = err.Error()
		s.log.Warn("post write failed, pending entry rolled back",
			zap.String("temp_id", pending.ID),
			zap.Error(err))
		return
	}

	s.confirmed = append([]model.Post{canonical}, s.confirmed...)
	s.total++
	s.log.Info("pending post confirmed",
		zap.String("temp_id", pending.ID),
		zap.String("post_id", canonical.ID))
}

func (s *Session) validate(draft Draft) bool {
	if strings.TrimSpace(draft.Body) == "" || draft.LocationID == "" {
		s.log.Warn("create draft rejected", zap.String("reason", "empty body or missing location"))
		return false
	}

	raw, err := json.Marshal(draft)
	if err != nil {
		return false
	}
	keyErrors, err := lib.ValidateJSON(raw, lib.CreateRequestSchema())
	if err != nil || len(keyErrors) > 0 {
		s.log.Warn("create draft rejected by schema", zap.Int("violations", len(keyErrors)))
		return false
	}
	return true
}

// resolveLocation maps a location id to its display entry from the region's
// catalog, falling back to a bare entry for unknown ids.
func resolveLocation(region, locationID string) model.Location {
	if locationID == model.RegionGlobal {
		return generator.GlobalLocation
	}
	for _, loc := range generator.Locations(region) {
		if loc.ID == locationID {
			return loc
		}
	}
	return model.Location{ID: locationID, Name: locationID, Kind: model.LocationKindCity}
}
