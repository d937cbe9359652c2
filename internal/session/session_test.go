package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/generator"
	"github.com/stormhead-org/feedsync/internal/metrics"
	"github.com/stormhead-org/feedsync/internal/model"
	"github.com/stormhead-org/feedsync/internal/overlay"
	"github.com/stormhead-org/feedsync/internal/query"
	"github.com/stormhead-org/feedsync/internal/services"
	"github.com/stormhead-org/feedsync/internal/store"
	"github.com/stormhead-org/feedsync/internal/transport"
)

var testViewer = model.Author{ID: "user-viewer", Name: "Viewer"}

// gate lets a test hold one backend call open: entered closes when the call
// arrives, release unblocks it.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

// gatedBackend wraps the real backend and optionally blocks the next call of
// each kind, making the asynchronous reconciliation paths deterministic.
type gatedBackend struct {
	inner services.Backend

	mu         sync.Mutex
	fetchGate  *gate
	writeGate  *gate
	mutateGate *gate
}

func (b *gatedBackend) stashFetch(g *gate)  { b.mu.Lock(); b.fetchGate = g; b.mu.Unlock() }
func (b *gatedBackend) stashWrite(g *gate)  { b.mu.Lock(); b.writeGate = g; b.mu.Unlock() }
func (b *gatedBackend) stashMutate(g *gate) { b.mu.Lock(); b.mutateGate = g; b.mu.Unlock() }

func (b *gatedBackend) take(g **gate) *gate {
	b.mu.Lock()
	defer b.mu.Unlock()
	taken := *g
	*g = nil
	return taken
}

func (b *gatedBackend) wait(g *gate) {
	if g != nil {
		close(g.entered)
		<-g.release
	}
}

func (b *gatedBackend) Fetch(ctx context.Context, region string, filters model.FilterSet) (model.Page, error) {
	b.wait(b.take(&b.fetchGate))
	return b.inner.Fetch(ctx, region, filters)
}

func (b *gatedBackend) Write(ctx context.Context, region string, post model.Post) (model.Post, error) {
	b.wait(b.take(&b.writeGate))
	return b.inner.Write(ctx, region, post)
}

func (b *gatedBackend) Mutate(ctx context.Context, viewerID string, postID string, action model.InteractionAction) (model.Post, error) {
	b.wait(b.take(&b.mutateGate))
	return b.inner.Mutate(ctx, viewerID, postID, action)
}

type harness struct {
	store   *store.Store
	backend *transport.Backend
	gated   *gatedBackend
	record  *overlay.Interactions
	session *Session
}

func newHarness(region string) *harness {
	anchor := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewStore(generator.NewWithAnchor(anchor), zap.NewNop(), metrics.NewNopMetrics())
	pipeline := query.NewPipeline(st, zap.NewNop(), metrics.NewNopMetrics())
	backend := transport.NewBackend(st, pipeline, zap.NewNop(), 0, nil)
	gated := &gatedBackend{inner: backend}
	record := overlay.NewInteractions()
	return &harness{
		store:   st,
		backend: backend,
		gated:   gated,
		record:  record,
		session: NewSession(gated, record, testViewer, region, zap.NewNop()),
	}
}

func validDraft() Draft {
	return Draft{
		Body:       "Anyone up for a walking tour this weekend?",
		Category:   model.CategoryEvents,
		TagIDs:     []string{"tag-meetup"},
		LocationID: "tokyo",
	}
}

func TestLoadPopulatesSnapshot(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()

	require.NoError(t, h.session.Load(ctx))

	snapshot := h.session.Snapshot()
	assert.Len(t, snapshot.Posts, model.DefaultPageSize)
	assert.Equal(t, 12, snapshot.TotalCount)
	assert.True(t, snapshot.HasMore)
	assert.False(t, snapshot.IsLoading)
	assert.Empty(t, snapshot.Error)
}

func TestCreateOptimisticVisibility(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))
	before := h.session.Snapshot()

	g := newGate()
	h.gated.stashWrite(g)

	require.True(t, h.session.Create(ctx, validDraft()))

	// The pending post is visible before the backing write resolves.
	snapshot := h.session.Snapshot()
	require.Len(t, snapshot.Posts, len(before.Posts)+1)
	head := snapshot.Posts[0]
	assert.True(t, head.IsPending())
	assert.Equal(t, testViewer, head.Author)
	assert.Zero(t, head.LikeCount)
	assert.Zero(t, head.ReplyCount)

	<-g.entered
	close(g.release)
	h.session.Wait()

	snapshot = h.session.Snapshot()
	require.Len(t, snapshot.Posts, len(before.Posts)+1)
	head = snapshot.Posts[0]
	assert.False(t, head.IsPending(), "pending entry left dangling after write resolved")
	assert.Equal(t, validDraft().Body, head.Body)

	// The canonical post reached the store as well.
	assert.Equal(t, head.ID, h.store.Read("jp")[0].ID)
}

func TestCreateValidationRejectedBeforeAnyStateMutation(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))
	before := h.session.Snapshot()

	empty := validDraft()
	empty.Body = "   "
	assert.False(t, h.session.Create(ctx, empty))

	noLocation := validDraft()
	noLocation.LocationID = ""
	assert.False(t, h.session.Create(ctx, noLocation))

	h.session.Wait()
	after := h.session.Snapshot()
	assert.Equal(t, len(before.Posts), len(after.Posts))
	assert.Empty(t, after.Error)
}

func TestCreateRollbackOnBackendFailure(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))
	before := h.session.Snapshot()

	h.backend.FailNext(1)
	require.True(t, h.session.Create(ctx, validDraft()))
	h.session.Wait()

	snapshot := h.session.Snapshot()
	assert.Len(t, snapshot.Posts, len(before.Posts))
	for _, p := range snapshot.Posts {
		assert.False(t, p.IsPending())
	}
	assert.NotEmpty(t, snapshot.Error)
}

func TestRefreshDoesNotDiscardPendingPost(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	g := newGate()
	h.gated.stashWrite(g)
	require.True(t, h.session.Create(ctx, validDraft()))
	<-g.entered

	require.NoError(t, h.session.Refresh(ctx))

	snapshot := h.session.Snapshot()
	require.NotEmpty(t, snapshot.Posts)
	assert.True(t, snapshot.Posts[0].IsPending(), "refresh discarded the pending post")

	close(g.release)
	h.session.Wait()

	snapshot = h.session.Snapshot()
	assert.False(t, snapshot.Posts[0].IsPending())
	assert.Equal(t, validDraft().Body, snapshot.Posts[0].Body)
}

func TestStaleQueryResultIsNeverApplied(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()

	g := newGate()
	h.gated.stashFetch(g)

	done := make(chan error, 1)
	go func() { done <- h.session.Load(ctx) }()
	<-g.entered

	// A filter change supersedes the blocked query.
	location := "tokyo"
	require.NoError(t, h.session.UpdateFilters(ctx, FilterPatch{LocationID: &location}))

	close(g.release)
	require.NoError(t, <-done)

	snapshot := h.session.Snapshot()
	require.NotEmpty(t, snapshot.Posts)
	for _, p := range snapshot.Posts {
		assert.Equal(t, "tokyo", p.Location.ID, "stale unfiltered result overwrote the filtered feed")
	}
}

func TestInteractionToggleIsIdempotent(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	target := h.session.Snapshot().Posts[0]

	h.session.SetInteraction(ctx, target.ID, model.ActionLike)
	h.session.Wait()
	liked := h.session.Snapshot().Posts[0]
	assert.True(t, liked.IsLiked)
	assert.Equal(t, target.LikeCount+1, liked.LikeCount)

	h.session.SetInteraction(ctx, target.ID, model.ActionUnlike)
	h.session.Wait()
	unliked := h.session.Snapshot().Posts[0]
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, target.LikeCount, unliked.LikeCount)
}

func TestInteractionRevertRestoresPreToggleState(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	target := h.session.Snapshot().Posts[0]

	g := newGate()
	h.gated.stashMutate(g)
	h.backend.FailNext(1)

	h.session.SetInteraction(ctx, target.ID, model.ActionLike)

	// Optimistic state is visible while the mutation is held open.
	optimistic := h.session.Snapshot().Posts[0]
	assert.True(t, optimistic.IsLiked)
	assert.Equal(t, target.LikeCount+1, optimistic.LikeCount)

	<-g.entered
	close(g.release)
	h.session.Wait()

	reverted := h.session.Snapshot().Posts[0]
	assert.False(t, reverted.IsLiked)
	assert.Equal(t, target.LikeCount, reverted.LikeCount)
	assert.NotEmpty(t, h.session.Snapshot().Error)
}

func TestBookmarkSurvivesRefresh(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	target := h.session.Snapshot().Posts[3]
	h.session.SetInteraction(ctx, target.ID, model.ActionBookmark)
	h.session.Wait()

	require.NoError(t, h.session.Refresh(ctx))

	var found bool
	for _, p := range h.session.Snapshot().Posts {
		if p.ID == target.ID {
			found = true
			assert.True(t, p.IsBookmarked)
		}
	}
	assert.True(t, found)
}

func TestLoadMoreAppendsWithoutDuplicates(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	require.NoError(t, h.session.LoadMore(ctx))

	snapshot := h.session.Snapshot()
	assert.Len(t, snapshot.Posts, 12)
	assert.False(t, snapshot.HasMore)

	seen := make(map[string]bool)
	for _, p := range snapshot.Posts {
		assert.False(t, seen[p.ID], "duplicate %s after pagination", p.ID)
		seen[p.ID] = true
	}

	// Exhausted feed: further calls are no-ops.
	require.NoError(t, h.session.LoadMore(ctx))
	assert.Len(t, h.session.Snapshot().Posts, 12)
}

func TestLoadFailureThenRetry(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()

	h.backend.FailNext(1)
	require.Error(t, h.session.Load(ctx))
	assert.NotEmpty(t, h.session.Snapshot().Error)

	require.NoError(t, h.session.Load(ctx))
	snapshot := h.session.Snapshot()
	assert.Empty(t, snapshot.Error)
	assert.Len(t, snapshot.Posts, model.DefaultPageSize)
}

func TestUpdateFiltersResetsPagination(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))
	require.NoError(t, h.session.LoadMore(ctx))

	location := "kyoto"
	require.NoError(t, h.session.UpdateFilters(ctx, FilterPatch{LocationID: &location}))

	snapshot := h.session.Snapshot()
	require.NotEmpty(t, snapshot.Posts)
	for _, p := range snapshot.Posts {
		assert.Equal(t, "kyoto", p.Location.ID)
	}
}

func TestSnapshotDecoratesFromViewerRecord(t *testing.T) {
	h := newHarness("jp")
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	target := h.session.Snapshot().Posts[1]
	h.record.SetLiked(target.ID, true)
	h.record.SetBookmarked(target.ID, true)

	decorated := h.session.Snapshot().Posts[1]
	assert.True(t, decorated.IsLiked)
	assert.True(t, decorated.IsBookmarked)
}

func TestGlobalSessionCreateStaysGlobal(t *testing.T) {
	h := newHarness(model.RegionGlobal)
	ctx := context.Background()
	require.NoError(t, h.session.Load(ctx))

	draft := validDraft()
	draft.LocationID = model.RegionGlobal
	require.True(t, h.session.Create(ctx, draft))
	h.session.Wait()

	head := h.session.Snapshot().Posts[0]
	assert.Equal(t, model.RegionGlobal, head.RegionID)
	for _, p := range h.store.Read("jp") {
		assert.NotEqual(t, head.ID, p.ID)
	}
}
