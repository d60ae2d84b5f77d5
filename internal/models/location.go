// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Location is an admin-managed place label for posts. Deleting a location
// clears the reference on its posts; unpublishing it has no effect on post
// visibility.
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	IsPublished bool      `gorm:"default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}
