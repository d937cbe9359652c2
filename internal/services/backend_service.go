package services

import (
	"context"

	"github.com/stormhead-org/feedsync/internal/model"
)

// Backend defines the interface the synchronization engine talks to. The
// only implementation in this repository is the simulated transport; a real
// client would bind this to its network layer.
type Backend interface {
	Fetch(ctx context.Context, region string, filters model.FilterSet) (model.Page, error)
	Write(ctx context.Context, region string, post model.Post) (model.Post, error)
	Mutate(ctx context.Context, viewerID string, postID string, action model.InteractionAction) (model.Post, error)
}
