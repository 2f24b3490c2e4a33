package models

import "time"

// Post represents a titled, authored piece of content within a board.
// LikeCount and ViewCount are denormalized mirrors of the likes and
// post_views tables, adjusted transactionally alongside row mutations.
type Post struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	BoardID uint   `gorm:"not null;index" json:"-"`
	Board   Board  `gorm:"foreignKey:BoardID" json:"-"`
	UserID  uint   `gorm:"not null;index" json:"-"`
	User    User   `gorm:"foreignKey:UserID" json:"author"`
	Title   string `gorm:"size:200;not null;index" json:"title"`
	Body    string `gorm:"type:text;not null" json:"body_md"`

	OGURL   *string `gorm:"size:500" json:"og_url"`
	OGTitle *string `gorm:"size:300" json:"og_title"`
	OGImage *string `gorm:"size:1000" json:"og_image"`

	LikeCount int `gorm:"not null;default:0" json:"like_count"`
	ViewCount int `gorm:"not null;default:0" json:"view_count"`

	// Liked indicates whether the requesting viewer liked this post (computed).
	Liked bool `gorm:"-" json:"liked_by_me"`
	// Excerpt is a plain-text preview of Body for list views (computed).
	Excerpt string `gorm:"-" json:"excerpt,omitempty"`
	// SearchSnippet is the highlighted match window from full-text search.
	// Nil outside of search results and on the fallback search path.
	SearchSnippet *string `gorm:"-" json:"search_snippet"`
	// BoardSlug is filled from the preloaded Board for responses (computed).
	BoardSlug string `gorm:"-" json:"board_slug"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	Items      []*Post `json:"items"`
	HasMore    bool    `json:"has_more"`
	NextOffset *int    `json:"next_offset"`
}

// Post sort keys accepted by the listing endpoint.
const (
	SortLatest = "latest"
	SortLikes  = "likes"
	SortViews  = "views"
)

// LikeToggle is the result of a like toggle.
type LikeToggle struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
