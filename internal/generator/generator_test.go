package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormhead-org/feedsync/internal/model"
)

var testAnchor = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerateIsDeterministic(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	first := g.Generate("jp", 12)
	second := g.Generate("jp", 12)

	assert.Equal(t, first, second)
}

func TestGenerateCoversEveryLocation(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	for _, region := range Regions() {
		posts := g.Generate(region, 12)

		seen := make(map[string]bool)
		for _, p := range posts {
			seen[p.Location.ID] = true
		}
		for _, loc := range Locations(region) {
			assert.True(t, seen[loc.ID], "region %s has no post for location %s", region, loc.ID)
		}
	}
}

func TestGenerateUnknownRegionFallsBackToRegionLocation(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	posts := g.Generate("zz", 5)

	require.Len(t, posts, 5)
	for _, p := range posts {
		assert.Equal(t, "zz", p.Location.ID)
	}
}

func TestGenerateUniqueIDs(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	seen := make(map[string]bool)
	for _, region := range Regions() {
		for _, p := range g.Generate(region, 12) {
			assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
			seen[p.ID] = true
		}
	}
	for _, p := range g.GenerateGlobal(12) {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestGenerateEngagementVariesByIndex(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	posts := g.Generate("fr", 12)

	type counts struct{ likes, replies, views int }
	seen := make(map[counts]bool)
	for _, p := range posts {
		c := counts{p.LikeCount, p.ReplyCount, p.ViewCount}
		assert.False(t, seen[c], "posts share identical engagement counts")
		seen[c] = true
	}
}

func TestGlobalTemplatesDisjointFromRegionContent(t *testing.T) {
	g := NewWithAnchor(testAnchor)

	regionBodies := make(map[string]bool)
	for _, region := range Regions() {
		for _, p := range g.Generate(region, 18) {
			regionBodies[p.Body] = true
		}
	}

	for _, p := range g.GenerateGlobal(12) {
		assert.False(t, regionBodies[p.Body], "aggregate post repeats region content: %q", p.Body)
	}
}

func TestBalancePreservesPosts(t *testing.T) {
	g := NewWithAnchor(testAnchor)
	posts := g.GenerateGlobal(30)

	balanced := g.Balance(posts)

	require.Len(t, balanced, len(posts))
	before := make(map[string]bool, len(posts))
	for _, p := range posts {
		before[p.ID] = true
	}
	for _, p := range balanced {
		assert.True(t, before[p.ID], "balance invented post %s", p.ID)
	}
}

func TestBalanceWindowedCategoryProperty(t *testing.T) {
	g := NewWithAnchor(testAnchor)
	posts := g.GenerateGlobal(60)

	balanced := g.Balance(posts)

	window := 2 * len(model.Categories())
	require.GreaterOrEqual(t, len(balanced), window)

	for start := 0; start+window <= len(balanced); start++ {
		counts := make(map[model.Category]int)
		for _, p := range balanced[start : start+window] {
			counts[p.Category]++
		}
		for category, n := range counts {
			assert.LessOrEqual(t, n, window/2,
				"category %s dominates window starting at %d", category, start)
		}
	}
}

func TestBalanceIsDeterministic(t *testing.T) {
	g := NewWithAnchor(testAnchor)
	posts := g.GenerateGlobal(24)

	assert.Equal(t, g.Balance(posts), g.Balance(posts))
}
