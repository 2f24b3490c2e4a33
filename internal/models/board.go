package models

import "time"

// Board is a named container scoping posts, addressed by slug.
// Boards are soft-deleted: IsDeleted hides the board and everything under it
// from public routes while keeping rows intact for admin recovery.
type Board struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Slug        string    `gorm:"size:80;uniqueIndex;not null" json:"slug"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
