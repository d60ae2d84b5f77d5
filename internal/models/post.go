// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post is a publication. PubDate may sit in the future (scheduled post);
// until it passes, the post is visible to its author only.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	ImageURL    string    `json:"image_url,omitempty"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	IsPublished bool      `gorm:"default:true" json:"is_published"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	LocationID  *uint     `gorm:"index" json:"location_id,omitempty"`
	Location    *Location `gorm:"foreignKey:LocationID;constraint:OnDelete:SET NULL" json:"location,omitempty"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	// CommentCount is not persisted; annotated at query time
	CommentCount int       `gorm:"->" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ViewableBy reports whether the actor identified by viewerID may see the
// post at the given instant. viewerID 0 means anonymous. The author always
// sees their own posts, drafts and scheduled ones included. For everyone else
// the post must be published, its pub date must have passed, and its category
// (when set) must be published too. Category must be preloaded by the caller.
//
// The predicate is pure and must be re-evaluated on every access with a fresh
// now: flags and the clock both move between requests.
func (p *Post) ViewableBy(now time.Time, viewerID uint) bool {
	if viewerID != 0 && viewerID == p.AuthorID {
		return true
	}
	if !p.IsPublished || p.PubDate.After(now) {
		return false
	}
	if p.CategoryID != nil && (p.Category == nil || !p.Category.IsPublished) {
		return false
	}
	return true
}
