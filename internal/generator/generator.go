// Package generator produces the deterministic synthetic content that seeds
// every region pool and the aggregate pool. Output is a pure function of the
// region id and the generator's time anchor, so repeated reads within one
// store lifetime paginate over identical posts.
package generator

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/stormhead-org/feedsync/internal/model"
)

type Generator struct {
	anchor time.Time
}

// New creates a generator anchored at the current time. All timestamps are
// derived from the anchor by index arithmetic, keeping recency ordering
// stable across repeated calls.
func New() *Generator {
	return NewWithAnchor(time.Now())
}

// NewWithAnchor fixes the time anchor, which makes output fully reproducible.
func NewWithAnchor(anchor time.Time) *Generator {
	return &Generator{anchor: anchor}
}

// Generate returns the synthetic posts of one region pool.
//
// Every declared location receives at least one post, template chosen by a
// hash of the region id and the location's position. Remaining posts up to
// count draw from unused templates mapped to seeded-random locations and
// authors. A region with no declared locations falls back to the region
// itself as a single location.
func (g *Generator) Generate(region string, count int) []model.Post {
	locations := Locations(region)
	if len(locations) == 0 {
		name := "Unknown"
		if region != "" {
			name = strings.ToUpper(region[:1]) + region[1:]
		}
		locations = []model.Location{{
			ID:   region,
			Name: name,
			Kind: model.LocationKindCountry,
		}}
	}

	rng := rand.New(rand.NewSource(seedOf(region)))
	used := make(map[int]bool, len(regionTemplates))
	posts := make([]model.Post, 0, count)

	// Coverage pass: one post per declared location, even past count.
	for i, location := range locations {
		ti := claimTemplate(used, templateIndex(region, i))
		posts = append(posts, g.build(region, location, regionTemplates[ti], len(posts), rng))
	}

	// Fill pass: unused templates onto random locations until count.
	for ti := 0; len(posts) < count; ti++ {
		var tpl template
		if ti < len(regionTemplates) {
			if used[ti] {
				continue
			}
			used[ti] = true
			tpl = regionTemplates[ti]
		} else {
			tpl = regionTemplates[rng.Intn(len(regionTemplates))]
		}
		location := locations[rng.Intn(len(locations))]
		posts = append(posts, g.build(region, location, tpl, len(posts), rng))
	}

	return posts
}

// GenerateGlobal returns the aggregate-only posts, drawn from a template set
// disjoint from the per-region one.
func (g *Generator) GenerateGlobal(count int) []model.Post {
	rng := rand.New(rand.NewSource(seedOf(model.RegionGlobal)))
	posts := make([]model.Post, 0, count)
	for i := 0; len(posts) < count; i++ {
		// Cycling the template table keeps the category proportions even,
		// which the balancing pass depends on.
		tpl := globalTemplates[i%len(globalTemplates)]
		posts = append(posts, g.build(model.RegionGlobal, GlobalLocation, tpl, len(posts), rng))
	}
	return posts
}

func (g *Generator) build(region string, location model.Location, tpl template, idx int, rng *rand.Rand) model.Post {
	author := authorNames[rng.Intn(len(authorNames))]
	base := int(seedOf(region) % 31)

	body := tpl.body
	if strings.Contains(body, "%s") {
		body = fmt.Sprintf(body, location.Name)
	}

	tagIDs := make([]string, len(tpl.tagIDs), len(tpl.tagIDs)+1)
	copy(tagIDs, tpl.tagIDs)
	if region != model.RegionGlobal {
		tagIDs = append(tagIDs, "tag-region-"+region)
	}

	createdAt := g.anchor.Add(-time.Duration(idx)*47*time.Minute - time.Duration(base)*time.Minute)
	replies := (idx*13 + base) % 41

	return model.Post{
		ID:            fmt.Sprintf("seed-%s-%03d", region, idx),
		Author:        model.Author{ID: "user-" + slug(author), Name: author},
		Body:          body,
		RegionID:      region,
		Location:      location,
		Category:      tpl.category,
		TagIDs:        tagIDs,
		LikeCount:     (idx*17 + base + 3) % 97,
		DislikeCount:  (idx*3 + base) % 7,
		ReplyCount:    replies,
		ViewCount:     120 + (idx*37+base*11)%913,
		BookmarkCount: (idx*7 + base) % 23,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		LastActivity:  createdAt.Add(time.Duration(replies) * time.Minute),
		Status:        model.PostStatusActive,
		Pinned:        idx == 0 && region != model.RegionGlobal,
	}
}

// claimTemplate marks the first unused template index at or after start.
func claimTemplate(used map[int]bool, start int) int {
	ti := start % len(regionTemplates)
	for used[ti] {
		ti = (ti + 1) % len(regionTemplates)
	}
	used[ti] = true
	return ti
}

// templateIndex derives a stable template slot from the region id and the
// location's position within it.
func templateIndex(region string, position int) int {
	return int(seedOf(fmt.Sprintf("%s#%d", region, position)) % int64(len(regionTemplates)))
}

func seedOf(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
