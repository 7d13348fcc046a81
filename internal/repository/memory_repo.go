package repository

import (
	"sort"
	"strings"
	"sync"

	"workbench/internal/models"
)

// MemoryRepository is an in-process PostStore: a map keyed by id with a
// secondary slug index. It mirrors the sqlite store's semantics exactly so
// the two are interchangeable under the service. IDs come from a monotonic
// counter and are never reused after deletion. All returned posts are copies.
type MemoryRepository struct {
	mu     sync.RWMutex
	posts  map[uint]*models.Post
	slugs  map[string]uint
	nextID uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts: make(map[uint]*models.Post),
		slugs: make(map[string]uint),
	}
}

func (r *MemoryRepository) Create(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID

	stored := *post
	r.posts[stored.ID] = &stored
	r.slugs[stored.Slug] = stored.ID
	return nil
}

func (r *MemoryRepository) Update(post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Slug != post.Slug {
		delete(r.slugs, current.Slug)
		r.slugs[post.Slug] = post.ID
	}

	stored := *post
	r.posts[stored.ID] = &stored
	return nil
}

func (r *MemoryRepository) Delete(id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return false, nil
	}
	delete(r.slugs, post.Slug)
	delete(r.posts, id)
	return true, nil
}

func (r *MemoryRepository) FindByID(id uint) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (r *MemoryRepository) FindBySlug(slug string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slugs[slug]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r.posts[id]
	return &copied, nil
}

func (r *MemoryRepository) FindPage(page, pageSize int) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.sortedLocked(), page, pageSize), nil
}

func (r *MemoryRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryRepository) FindPageByAdmin(page, pageSize int, query string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.filteredLocked(query), page, pageSize), nil
}

func (r *MemoryRepository) CountByAdmin(query string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filteredLocked(query))), nil
}

func (r *MemoryRepository) SlugExists(slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slugs[slug]
	return ok, nil
}

func (r *MemoryRepository) SlugExistsForOtherPost(slug string, id uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.slugs[slug]
	return ok && owner != id, nil
}

func (r *MemoryRepository) FindAllForBackup() ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

// sortedLocked returns copies of all posts, newest first. Caller holds r.mu.
func (r *MemoryRepository) sortedLocked() []models.Post {
	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		posts = append(posts, *p)
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	return posts
}

func (r *MemoryRepository) filteredLocked(query string) []models.Post {
	posts := r.sortedLocked()
	if query == "" {
		return posts
	}
	needle := strings.ToLower(query)
	filtered := posts[:0]
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func paginate(posts []models.Post, page, pageSize int) []models.Post {
	start := (page - 1) * pageSize
	if start >= len(posts) || start < 0 {
		return []models.Post{}
	}
	end := start + pageSize
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end]
}
