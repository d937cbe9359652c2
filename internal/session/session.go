// Package session implements the client-resident synchronization engine.
//
// A Session is the only surface view code talks to. It holds the confirmed
// posts of one feed, a disjoint ordered set of pending optimistic posts, and
// the UI status flags, and reconciles both against the simulated backend.
package session

import (
	"sync"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/model"
	"github.com/stormhead-org/feedsync/internal/overlay"
	"github.com/stormhead-org/feedsync/internal/services"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusLoadingMore
	StatusReady
	StatusError
)

type Session struct {
	mu      sync.Mutex
	wg      sync.WaitGroup
	log     *zap.Logger
	backend services.Backend
	overlay *overlay.Interactions
	viewer  model.Author
	region  string

	filters    model.FilterSet
	generation uint64
	status     Status
	refreshing bool
	errMsg     string

	confirmed []model.Post
	pending   []model.Post
	total     int
	hasMore   bool
	nextPage  int
}

// NewSession creates a feed session for one viewer over one region pool.
// The interaction record may be shared between sessions of the same viewer.
func NewSession(backend services.Backend, record *overlay.Interactions, viewer model.Author, region string, log *zap.Logger) *Session {
	return &Session{
		log:     log,
		backend: backend,
		overlay: record,
		viewer:  viewer,
		region:  region,
		status:  StatusIdle,
	}
}

// Snapshot is the state exposed to view code.
type Snapshot struct {
	Posts         []model.Post
	TotalCount    int
	IsLoading     bool
	IsLoadingMore bool
	IsRefreshing  bool
	Error         string
	HasMore       bool
}

// Snapshot returns the merged view: pending posts first, then confirmed
// posts, unioned by id with pending taking precedence, every post decorated
// from the viewer's interaction record.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.pending)+len(s.confirmed))
	posts := make([]model.Post, 0, len(s.pending)+len(s.confirmed))
	for _, p := range s.pending {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		posts = append(posts, s.overlay.Decorate(p.Clone()))
	}
	for _, p := range s.confirmed {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		posts = append(posts, s.overlay.Decorate(p.Clone()))
	}

	return Snapshot{
		Posts:         posts,
		TotalCount:    s.total,
		IsLoading:     s.status == StatusLoading && !s.refreshing,
		IsLoadingMore: s.status == StatusLoadingMore,
		IsRefreshing:  s.refreshing,
		Error:         s.errMsg,
		HasMore:       s.hasMore,
	}
}

// Wait blocks until every in-flight background write has resolved. Pending
// posts are guaranteed reconciled afterwards.
func (s *Session) Wait() {
	s.wg.Wait()
}

// findLocal returns a pointer to the session's copy of a post, pending
// entries first. Callers hold the lock and must not retain the pointer.
func (s *Session) findLocal(postID string) *model.Post {
	for i := range s.pending {
		if s.pending[i].ID == postID {
			return &s.pending[i]
		}
	}
	for i := range s.confirmed {
		if s.confirmed[i].ID == postID {
			return &s.confirmed[i]
		}
	}
	return nil
}

// removePending deletes a pending entry by its temporary id.
func (s *Session) removePending(tempID string) {
	for i := range s.pending {
		if s.pending[i].ID == tempID {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
