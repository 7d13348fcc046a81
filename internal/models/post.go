package models

import (
	"html/template"
	"time"
)

type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"not null" json:"title" form:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content   string    `gorm:"type:text;not null" json:"content" form:"content"`
	Summary   string    `json:"summary"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostForm carries the fields a caller supplies when creating a post.
type PostForm struct {
	Title    string `json:"title" form:"title"`
	Content  string `json:"content" form:"content"`
	Summary  string `json:"summary" form:"summary"`
	ImageURL string `json:"image_url" form:"image_url"`
}

// PostUpdate is a partial update. A nil field means "leave unchanged"; a
// pointer to the empty string is a real value (clearing ImageURL relies
// on this distinction).
type PostUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Summary  *string `json:"summary"`
	ImageURL *string `json:"image_url"`
}

// RenderedPost is a view model for displaying a post with rendered HTML content.
type RenderedPost struct {
	ID        uint
	Title     string
	Slug      string
	Summary   string
	ImageURL  string
	Content   template.HTML // rendered markdown, not escaped again
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostBackup is the portable form used by export, import and scheduled snapshots.
type PostBackup struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
