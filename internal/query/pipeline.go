// Package query turns a region pool and a filter set into one page of feed
// results. Every stage is a pure function over the working set; the pipeline
// itself holds no state between calls.
package query

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stormhead-org/feedsync/internal/lib"
	"github.com/stormhead-org/feedsync/internal/metrics"
	"github.com/stormhead-org/feedsync/internal/model"
	"github.com/stormhead-org/feedsync/internal/store"
)

type Pipeline struct {
	store   *store.Store
	log     *zap.Logger
	metrics *metrics.Metrics
}

func NewPipeline(st *store.Store, log *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		store:   st,
		log:     log,
		metrics: m,
	}
}

// Query filters, sorts and paginates one region pool. Filter order: location,
// category, tag set (OR), free text. Pinned posts sort strictly first
// regardless of mode.
func (p *Pipeline) Query(region string, filters model.FilterSet) (model.Page, error) {
	started := time.Now()
	filters = filters.Normalized()

	working := p.store.Read(region)
	working = filterLocation(working, filters.LocationID)
	working = filterCategory(working, filters.Category)
	working = filterTags(working, filters.TagIDs)
	working = filterSearch(working, filters.Search)

	sortPosts(working, filters.Sort)

	total := len(working)
	items, hasMore := lib.Paginate(working, filters.Page, filters.PageSize)

	nextPage := filters.Page
	if hasMore {
		nextPage = filters.Page + 1
	}

	p.metrics.Queries.WithLabelValues(region).Inc()
	p.metrics.QuerySeconds.Observe(time.Since(started).Seconds())
	p.log.Debug("query served",
		zap.String("region", region),
		zap.Int("total", total),
		zap.Int("page", filters.Page),
		zap.Int("returned", len(items)))

	return model.Page{
		Items:      items,
		TotalCount: total,
		HasMore:    hasMore,
		NextPage:   nextPage,
	}, nil
}

// filterLocation matches the exact location id, then the exact display name,
// then the trailing segment of a dash-delimited legacy id, so differently
// shaped identifiers for the same place still match.
func filterLocation(posts []model.Post, locationID string) []model.Post {
	if locationID == model.LocationAll {
		return posts
	}
	out := posts[:0]
	for _, p := range posts {
		if matchesLocation(p.Location, locationID) {
			out = append(out, p)
		}
	}
	return out
}

func matchesLocation(loc model.Location, want string) bool {
	if loc.ID == want {
		return true
	}
	if strings.EqualFold(loc.Name, want) {
		return true
	}
	if suffix := legacySuffix(want); suffix != "" && suffix == loc.ID {
		return true
	}
	if suffix := legacySuffix(loc.ID); suffix != "" && suffix == want {
		return true
	}
	return false
}

// legacySuffix extracts the final segment of a dash-delimited legacy id, or
// "" when the id has no segments.
func legacySuffix(id string) string {
	i := strings.LastIndex(id, "-")
	if i < 0 || i == len(id)-1 {
		return ""
	}
	return id[i+1:]
}

func filterCategory(posts []model.Post, category model.Category) []model.Post {
	if category == model.CategoryAll {
		return posts
	}
	out := posts[:0]
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// filterTags keeps posts whose tag set intersects the filter's tag set.
// OR semantics: one shared tag is enough.
func filterTags(posts []model.Post, tagIDs []string) []model.Post {
	if len(tagIDs) == 0 {
		return posts
	}
	want := make(map[string]struct{}, len(tagIDs))
	for _, t := range tagIDs {
		want[t] = struct{}{}
	}
	out := posts[:0]
	for _, p := range posts {
		for _, t := range p.TagIDs {
			if _, ok := want[t]; ok {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// filterSearch keeps posts whose body or author name contains the query,
// case-insensitively.
func filterSearch(posts []model.Post, search string) []model.Post {
	search = strings.TrimSpace(strings.ToLower(search))
	if search == "" {
		return posts
	}
	out := posts[:0]
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Body), search) ||
			strings.Contains(strings.ToLower(p.Author.Name), search) {
			out = append(out, p)
		}
	}
	return out
}

func sortPosts(posts []model.Post, mode model.SortMode) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch mode {
		case model.SortPopularity:
			pa, pb := a.LikeCount+a.ReplyCount, b.LikeCount+b.ReplyCount
			if pa != pb {
				return pa > pb
			}
		case model.SortTrending:
			if a.ViewCount != b.ViewCount {
				return a.ViewCount > b.ViewCount
			}
		case model.SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return false
	})
}
