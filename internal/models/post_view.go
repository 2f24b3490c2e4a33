package models

import "time"

// PostView records that a viewer key has seen a post. The (PostID, ViewerKey)
// pair is unique so a repeat visit by the same viewer never bumps ViewCount
// twice.
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_viewer" json:"post_id"`
	ViewerKey string    `gorm:"size:120;not null;uniqueIndex:idx_post_viewer" json:"viewer_key"`
	CreatedAt time.Time `json:"created_at"`
}
