// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Category is an admin-managed grouping for posts. Unpublishing a category
// hides every post in it from non-authors without touching the posts
// themselves.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	IsPublished bool      `gorm:"default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}
