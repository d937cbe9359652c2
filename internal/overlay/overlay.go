// Package overlay keeps the viewer's own interaction record. The store's
// per-post flags are not viewer-scoped, so anything shown to a viewer must
// have its liked/bookmarked flags rewritten from this record.
package overlay

import (
	"sync"

	"github.com/stormhead-org/feedsync/internal/model"
)

// Interactions is the viewer-scoped mapping from post id to liked and
// bookmarked state. It is authoritative on the client.
type Interactions struct {
	mu         sync.Mutex
	liked      map[string]bool
	bookmarked map[string]bool
}

func NewInteractions() *Interactions {
	return &Interactions{
		liked:      make(map[string]bool),
		bookmarked: make(map[string]bool),
	}
}

// SetLiked records whether the viewer likes a post.
func (r *Interactions) SetLiked(postID string, liked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if liked {
		r.liked[postID] = true
	} else {
		delete(r.liked, postID)
	}
}

// SetBookmarked records whether the viewer bookmarked a post.
func (r *Interactions) SetBookmarked(postID string, bookmarked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if bookmarked {
		r.bookmarked[postID] = true
	} else {
		delete(r.bookmarked, postID)
	}
}

// Liked reports the viewer's like state for a post.
func (r *Interactions) Liked(postID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.liked[postID]
}

// Bookmarked reports the viewer's bookmark state for a post.
func (r *Interactions) Bookmarked(postID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookmarked[postID]
}

// Decorate returns the post with IsLiked and IsBookmarked taken from the
// viewer's record instead of whatever the store happens to hold.
func (r *Interactions) Decorate(post model.Post) model.Post {
	r.mu.Lock()
	defer r.mu.Unlock()
	post.IsLiked = r.liked[post.ID]
	post.IsBookmarked = r.bookmarked[post.ID]
	return post
}
