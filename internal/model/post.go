package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PendingIDPrefix marks client-minted ids for posts whose backing write has
// not resolved yet. The store never assigns ids with this prefix.
const PendingIDPrefix = "pending-"

// RegionGlobal is the sentinel region of the cross-region aggregate pool.
const RegionGlobal = "global"

type PostStatus int

const (
	PostStatusActive PostStatus = iota
	PostStatusArchived
	PostStatusDeleted
	PostStatusFlagged
)

type LocationKind string

const (
	LocationKindCountry   LocationKind = "country"
	LocationKindCity      LocationKind = "city"
	LocationKindLandmark  LocationKind = "landmark"
	LocationKindAggregate LocationKind = "aggregate"
)

type Location struct {
	ID   string
	Name string
	Kind LocationKind
}

type Author struct {
	ID   string
	Name string
}

type Post struct {
	ID            string
	Author        Author
	Body          string
	RegionID      string
	Location      Location
	Category      Category
	TagIDs        []string
	LikeCount     int
	DislikeCount  int
	ReplyCount    int
	ViewCount     int
	BookmarkCount int
	IsLiked       bool
	IsDisliked    bool
	IsBookmarked  bool
	IsFollowing   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastActivity  time.Time
	Status        PostStatus
	Pinned        bool
	Locked        bool
	EditCount     int
	ReportCount   int
}

// Clone returns an independent copy of the post so callers can never reach
// back into shared storage through the tag slice.
func (p Post) Clone() Post {
	out := p
	if p.TagIDs != nil {
		out.TagIDs = make([]string, len(p.TagIDs))
		copy(out.TagIDs, p.TagIDs)
	}
	return out
}

// IsPending reports whether the post id was minted client-side.
func (p Post) IsPending() bool {
	return strings.HasPrefix(p.ID, PendingIDPrefix)
}

func (p Post) GetID() string {
	return p.ID
}

func (p Post) GetCreatedAt() time.Time {
	return p.CreatedAt
}

// NewPendingID mints a temporary client-side id.
func NewPendingID() string {
	return PendingIDPrefix + uuid.NewString()
}
