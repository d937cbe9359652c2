// Package store is the authoritative in-memory record of every post.
//
// A post is stored exactly once; pools (one per region plus the aggregate
// pool) are ordered membership indexes referencing shared records. Interaction
// mutations therefore touch a single record and every pool observes the same
// counters by construction.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/generator"
	"github.com/stormhead-org/feedsync/internal/lib"
	"github.com/stormhead-org/feedsync/internal/metrics"
	"github.com/stormhead-org/feedsync/internal/model"
)

const (
	regionSeedCount = 12
	globalSeedCount = 12
)

// seedIDPrefix marks generator-minted ids; user posts carry bare UUIDs.
const seedIDPrefix = "seed-"

type Store struct {
	mu        sync.Mutex
	log       *zap.Logger
	metrics   *metrics.Metrics
	generator *generator.Generator

	records   map[string]*model.Post
	pools     map[string][]string
	members   map[string]map[string]struct{}
	generated map[string]bool
}

func NewStore(gen *generator.Generator, log *zap.Logger, m *metrics.Metrics) *Store {
	s := &Store{
		log:       log,
		metrics:   m,
		generator: gen,
	}
	s.reset()
	return s
}

// Read returns the posts of a region pool in order, materializing the pool
// through the generator on first access. Returned posts are clones.
func (s *Store) Read(region string) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.materialize(region)

	ids := s.pools[region]
	posts := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		if record, ok := s.records[id]; ok {
			posts = append(posts, record.Clone())
		}
	}
	return posts
}

// Write inserts a user post at the head of its region pool and, unless the
// region is the aggregate sentinel, at the head of the aggregate pool. The
// store assigns the canonical id and timestamps.
func (s *Store) Write(region string, post model.Post) (model.Post, error) {
	if strings.TrimSpace(post.Body) == "" {
		return model.Post{}, lib.InvalidArgumentError("post body must not be empty")
	}
	if post.Location.ID == "" {
		return model.Post{}, lib.InvalidArgumentError("post location is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.materialize(region)

	now := time.Now()
	post = post.Clone()
	post.ID = uuid.NewString()
	post.RegionID = region
	post.CreatedAt = now
	post.UpdatedAt = now
	post.LastActivity = now
	post.Status = model.PostStatusActive

	s.records[post.ID] = &post
	s.insertHead(region, post.ID)

	// Aggregate membership: prepend when the pool already exists; a pool not
	// yet materialized picks the post up from the region pools on first read.
	if region != model.RegionGlobal && s.generated[model.RegionGlobal] {
		s.insertHead(model.RegionGlobal, post.ID)
	}

	s.metrics.Writes.WithLabelValues(region).Inc()
	s.log.Info("post written",
		zap.String("post_id", post.ID),
		zap.String("region", region))

	return post.Clone(), nil
}

// MutateInteraction is the single mutation path for engagement counters.
// Like and dislike are mutually exclusive; counters never go below zero.
// An unknown post id is reported as NotFound, never a panic.
func (s *Store) MutateInteraction(postID string, action model.InteractionAction) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[postID]
	if !ok {
		s.metrics.Interactions.WithLabelValues(string(action), "not_found").Inc()
		s.log.Warn("interaction on unknown post", zap.String("post_id", postID), zap.String("action", string(action)))
		return model.Post{}, lib.NotFoundError("post not found")
	}

	switch action {
	case model.ActionLike:
		if !record.IsLiked {
			record.IsLiked = true
			record.LikeCount++
		}
		if record.IsDisliked {
			record.IsDisliked = false
			record.DislikeCount = clamp(record.DislikeCount - 1)
		}
	case model.ActionUnlike:
		if record.IsLiked {
			record.IsLiked = false
			record.LikeCount = clamp(record.LikeCount - 1)
		}
	case model.ActionDislike:
		if !record.IsDisliked {
			record.IsDisliked = true
			record.DislikeCount++
		}
		if record.IsLiked {
			record.IsLiked = false
			record.LikeCount = clamp(record.LikeCount - 1)
		}
	case model.ActionUndislike:
		if record.IsDisliked {
			record.IsDisliked = false
			record.DislikeCount = clamp(record.DislikeCount - 1)
		}
	case model.ActionBookmark:
		if !record.IsBookmarked {
			record.IsBookmarked = true
			record.BookmarkCount++
		}
	case model.ActionUnbookmark:
		if record.IsBookmarked {
			record.IsBookmarked = false
			record.BookmarkCount = clamp(record.BookmarkCount - 1)
		}
	case model.ActionFollow:
		record.IsFollowing = true
	case model.ActionUnfollow:
		record.IsFollowing = false
	default:
		s.metrics.Interactions.WithLabelValues(string(action), "invalid").Inc()
		return model.Post{}, lib.InvalidArgumentError("unknown interaction action")
	}

	record.LastActivity = time.Now()
	s.metrics.Interactions.WithLabelValues(string(action), "ok").Inc()

	return record.Clone(), nil
}

// ResetAll clears every pool and generation flag. Intended for test
// isolation; the store behaves as freshly constructed afterwards.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.records = make(map[string]*model.Post)
	s.pools = make(map[string][]string)
	s.members = make(map[string]map[string]struct{})
	s.generated = make(map[string]bool)
}

// materialize populates a pool on first access. Caller holds the lock.
func (s *Store) materialize(region string) {
	if s.generated[region] {
		return
	}
	if region == model.RegionGlobal {
		s.materializeGlobal()
		return
	}

	posts := s.generator.Generate(region, regionSeedCount)
	for i := range posts {
		p := posts[i]
		if _, exists := s.records[p.ID]; !exists {
			s.records[p.ID] = &p
		}
		s.appendTail(region, p.ID)
	}
	s.generated[region] = true
	s.log.Debug("region pool materialized", zap.String("region", region), zap.Int("posts", len(posts)))
}

// materializeGlobal assembles the aggregate pool: a deterministic sample of
// every region pool, every user-submitted post, and the aggregate-only
// content, run through the category-balancing pass. Caller holds the lock.
func (s *Store) materializeGlobal() {
	var sample []model.Post
	var userIDs []string

	for _, region := range generator.Regions() {
		s.materialize(region)
		seedIdx := 0
		for _, id := range s.pools[region] {
			record, ok := s.records[id]
			if !ok {
				continue
			}
			if !strings.HasPrefix(id, seedIDPrefix) {
				// User posts always belong to the aggregate pool and stay
				// ahead of the balanced synthetic sample.
				userIDs = append(userIDs, id)
				continue
			}
			if seedIdx%2 == 0 {
				sample = append(sample, record.Clone())
			}
			seedIdx++
		}
	}

	globalOnly := s.generator.GenerateGlobal(globalSeedCount)
	for i := range globalOnly {
		p := globalOnly[i]
		if _, exists := s.records[p.ID]; !exists {
			s.records[p.ID] = &p
		}
		sample = append(sample, p)
	}

	for _, id := range userIDs {
		s.appendTail(model.RegionGlobal, id)
	}
	for _, p := range s.generator.Balance(sample) {
		s.appendTail(model.RegionGlobal, p.ID)
	}
	s.generated[model.RegionGlobal] = true
	s.log.Debug("aggregate pool materialized", zap.Int("posts", len(s.pools[model.RegionGlobal])))
}

// insertHead prepends an id to a pool, refusing duplicates.
func (s *Store) insertHead(pool, id string) {
	if s.isMember(pool, id) {
		return
	}
	s.pools[pool] = append([]string{id}, s.pools[pool]...)
	s.members[pool][id] = struct{}{}
}

// appendTail appends an id to a pool, refusing duplicates.
func (s *Store) appendTail(pool, id string) {
	if s.isMember(pool, id) {
		return
	}
	s.pools[pool] = append(s.pools[pool], id)
	s.members[pool][id] = struct{}{}
}

func (s *Store) isMember(pool, id string) bool {
	set, ok := s.members[pool]
	if !ok {
		set = make(map[string]struct{})
		s.members[pool] = set
	}
	_, exists := set[id]
	return exists
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
