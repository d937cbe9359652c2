package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/model"
)

// interactionDelta captures exactly what one optimistic write changed, at
// the moment it was applied. A failed backend call reverts this delta, not
// state recomputed later, so interleaved mutations cannot corrupt the
// rollback.
type interactionDelta struct {
	likeCount     int
	dislikeCount  int
	bookmarkCount int

	prevLiked      bool
	prevDisliked   bool
	prevBookmarked bool
	prevFollowing  bool
}

// SetInteraction applies an optimistic local mutation immediately and fires
// the store mutation in the background, reverting the captured delta if the
// backend call fails.
func (s *Session) SetInteraction(ctx context.Context, postID string, action model.InteractionAction) {
	s.mu.Lock()
	delta := s.applyOptimistic(postID, action)
	s.mu.Unlock()

	mutateCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err := s.backend.Mutate(mutateCtx, s.viewer.ID, postID, action)
		if err == nil {
			return
		}
		s.mu.Lock()
		s.revert(postID, delta)
		s.errMsg = err.Error()
		s.mu.Unlock()
		s.log.Warn("interaction failed, optimistic change reverted",
			zap.String("post_id", postID),
			zap.String("action", string(action)),
			zap.Error(err))
	}()
}

func (s *Session) applyOptimistic(postID string, action model.InteractionAction) interactionDelta {
	delta := interactionDelta{
		prevLiked:      s.overlay.Liked(postID),
		prevBookmarked: s.overlay.Bookmarked(postID),
	}

	post := s.findLocal(postID)
	if post != nil {
		delta.prevDisliked = post.IsDisliked
		delta.prevFollowing = post.IsFollowing
	}

	switch action {
	case model.ActionLike:
		if !delta.prevLiked {
			delta.likeCount = 1
			s.overlay.SetLiked(postID, true)
			if delta.prevDisliked {
				delta.dislikeCount = -1
			}
		}
	case model.ActionUnlike:
		if delta.prevLiked {
			delta.likeCount = -1
			s.overlay.SetLiked(postID, false)
		}
	case model.ActionDislike:
		if !delta.prevDisliked {
			delta.dislikeCount = 1
			if delta.prevLiked {
				delta.likeCount = -1
				s.overlay.SetLiked(postID, false)
			}
		}
	case model.ActionUndislike:
		if delta.prevDisliked {
			delta.dislikeCount = -1
		}
	case model.ActionBookmark:
		if !delta.prevBookmarked {
			delta.bookmarkCount = 1
			s.overlay.SetBookmarked(postID, true)
		}
	case model.ActionUnbookmark:
		if delta.prevBookmarked {
			delta.bookmarkCount = -1
			s.overlay.SetBookmarked(postID, false)
		}
	}

	if post != nil {
		post.LikeCount = clampCount(post.LikeCount + delta.likeCount)
		post.DislikeCount = clampCount(post.DislikeCount + delta.dislikeCount)
		post.BookmarkCount = clampCount(post.BookmarkCount + delta.bookmarkCount)
		post.IsLiked = s.overlay.Liked(postID)
		post.IsBookmarked = s.overlay.Bookmarked(postID)
		switch action {
		case model.ActionDislike:
			post.IsDisliked = true
		case model.ActionUndislike, model.ActionLike:
			post.IsDisliked = false
		case model.ActionFollow:
			post.IsFollowing = true
		case model.ActionUnfollow:
			post.IsFollowing = false
		}
	}

	return delta
}

// revert restores the exact pre-toggle state captured in the delta.
func (s *Session) revert(postID string, delta interactionDelta) {
	s.overlay.SetLiked(postID, delta.prevLiked)
	s.overlay.SetBookmarked(postID, delta.prevBookmarked)

	post := s.findLocal(postID)
	if post == nil {
		return
	}
	post.LikeCount = clampCount(post.LikeCount - delta.likeCount)
	post.DislikeCount = clampCount(post.DislikeCount - delta.dislikeCount)
	post.BookmarkCount = clampCount(post.BookmarkCount - delta.bookmarkCount)
	post.IsLiked = delta.prevLiked
	post.IsDisliked = delta.prevDisliked
	post.IsBookmarked = delta.prevBookmarked
	post.IsFollowing = delta.prevFollowing
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
