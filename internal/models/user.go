// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account on the board.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nickname  string    `gorm:"size:50;uniqueIndex;not null" json:"nickname"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}
