package models

// SearchEntry is the denormalized full-text projection of a post. It is not
// a source of truth: rows mirror the posts table (one entry per live post)
// and are rebuildable from it at any time.
type SearchEntry struct {
	PostID uint   `gorm:"primaryKey" json:"post_id"`
	Title  string `gorm:"type:text;not null" json:"title"`
	Body   string `gorm:"type:text;not null" json:"body"`
}

// TableName specifies the table name for GORM.
func (SearchEntry) TableName() string {
	return "post_search_index"
}

// SearchHit is one ranked result from the search index.
type SearchHit struct {
	PostID uint
	// Snippet is the highlighted excerpt around the match. Nil when the
	// fallback path served the query.
	Snippet *string
}
