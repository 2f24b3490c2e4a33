package models

import "time"

// DeletedCommentBody replaces the body of soft-deleted comments everywhere
// they are rendered or stored.
const DeletedCommentBody = "[deleted]"

// Comment is a reply to a post, optionally nested under another comment of
// the same post. Deletion is soft: the row stays so that replies keep their
// place in the thread, and the body is replaced with a placeholder.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"author"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Body      string    `gorm:"type:text;not null" json:"body_md"`
	IsDeleted bool      `gorm:"default:false" json:"is_deleted"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentNode is one node of the reconstructed comment forest.
type CommentNode struct {
	ID        uint           `json:"id"`
	PostID    uint           `json:"post_id"`
	ParentID  *uint          `json:"parent_id"`
	Body      string         `json:"body_md"`
	IsDeleted bool           `json:"is_deleted"`
	Author    User           `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Children  []*CommentNode `json:"children"`
}
