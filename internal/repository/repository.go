package repository

import (
	"errors"

	"workbench/internal/models"
)

// ErrNotFound signals a lookup that matched no post. Callers treat it as a
// normal empty result, not a failure.
var ErrNotFound = errors.New("repository: post not found")

// PostStore is the storage contract for the post collection. Two
// implementations exist: the sqlite-backed store used in production and an
// in-memory store with the same semantics. Stores never generate slugs or
// summaries; that is the service's job. Listing is always ordered by
// creation time, newest first.
type PostStore interface {
	// Create inserts the post and assigns its ID. IDs are never reused.
	Create(post *models.Post) error
	// Update persists all fields of an existing post.
	Update(post *models.Post) error
	// Delete removes the post permanently. Returns false if no post had
	// that id.
	Delete(id uint) (bool, error)

	FindByID(id uint) (*models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	FindPage(page, pageSize int) ([]models.Post, error)
	Count() (int64, error)

	// FindPageByAdmin pages through posts whose title contains query;
	// an empty query matches everything.
	FindPageByAdmin(page, pageSize int, query string) ([]models.Post, error)
	CountByAdmin(query string) (int64, error)

	SlugExists(slug string) (bool, error)
	SlugExistsForOtherPost(slug string, id uint) (bool, error)

	// FindAllForBackup returns every post in insertion order.
	FindAllForBackup() ([]models.Post, error)
}
