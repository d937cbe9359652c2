package model

// LocationAll is the filter sentinel matching every location.
const LocationAll = "all"

type SortMode string

const (
	SortRecency    SortMode = "recency"
	SortPopularity SortMode = "popularity"
	SortTrending   SortMode = "trending"
	SortOldest     SortMode = "oldest"
)

// FilterSet is the combined criteria of one feed query.
type FilterSet struct {
	LocationID string
	Category   Category
	TagIDs     []string
	Search     string
	Sort       SortMode
	Page       int
	PageSize   int
}

// DefaultPageSize applies when a filter set leaves PageSize unset.
const DefaultPageSize = 10

// Normalized returns a copy with sentinels and paging defaults filled in.
func (f FilterSet) Normalized() FilterSet {
	if f.LocationID == "" {
		f.LocationID = LocationAll
	}
	if f.Category == "" {
		f.Category = CategoryAll
	}
	if f.Sort == "" {
		f.Sort = SortRecency
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Page is the result of one query: a slice of the filtered, sorted feed.
type Page struct {
	Items      []Post
	TotalCount int
	HasMore    bool
	NextPage   int
}

type InteractionAction string

const (
	ActionLike       InteractionAction = "like"
	ActionUnlike     InteractionAction = "unlike"
	ActionDislike    InteractionAction = "dislike"
	ActionUndislike  InteractionAction = "undislike"
	ActionBookmark   InteractionAction = "bookmark"
	ActionUnbookmark InteractionAction = "unbookmark"
	ActionFollow     InteractionAction = "follow"
	ActionUnfollow   InteractionAction = "unfollow"
)
