package services

import (
	"fmt"
	"sync"
	"time"

	"workbench/internal/models"
	"workbench/internal/repository"
	"workbench/internal/utils"
)

// DefaultPageSize is the public listing page size.
const DefaultPageSize = 5

// SummaryLength is how many runes of content an auto-derived summary keeps.
const SummaryLength = 150

type PostService struct {
	store repository.PostStore

	// mu serializes mutations so the slug check-and-insert is atomic even
	// under concurrent requests.
	mu sync.Mutex
}

func NewPostService(store repository.PostStore) *PostService {
	return &PostService{store: store}
}

// ListPosts returns one page of posts, newest first, plus the total page
// count. Page and pageSize fall back to 1 and DefaultPageSize when not
// positive. An out-of-range page yields an empty slice with the page count
// still correct.
func (s *PostService) ListPosts(page, pageSize int) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	posts, err := s.store.FindPage(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count()
	if err != nil {
		return nil, 0, err
	}
	return posts, utils.TotalPages(int(total), pageSize), nil
}

// ListPostsByAdmin pages through posts for the dashboard, optionally filtered
// by a title substring.
func (s *PostService) ListPostsByAdmin(page, pageSize int, query string) ([]models.Post, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	posts, err := s.store.FindPageByAdmin(page, pageSize, query)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.CountByAdmin(query)
	if err != nil {
		return nil, 0, err
	}
	return posts, utils.TotalPages(int(total), pageSize), nil
}

func (s *PostService) GetPostByID(id uint) (*models.Post, error) {
	return s.store.FindByID(id)
}

func (s *PostService) GetPostBySlug(slug string) (*models.Post, error) {
	return s.store.FindBySlug(slug)
}

// GetRenderedPost loads a post by slug and renders its markdown body.
func (s *PostService) GetRenderedPost(slug string) (*models.RenderedPost, error) {
	post, err := s.store.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	htmlContent, err := utils.RenderMarkdown(post.Content)
	if err != nil {
		return nil, err
	}
	return &models.RenderedPost{
		ID:        post.ID,
		Title:     post.Title,
		Slug:      post.Slug,
		Summary:   post.Summary,
		ImageURL:  post.ImageURL,
		Content:   htmlContent,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}, nil
}

// CreatePost inserts a new post. The slug is derived from the title and
// suffixed until unique; when the caller supplies no summary one is derived
// from the first SummaryLength runes of content.
func (s *PostService) CreatePost(form models.PostForm) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug, err := s.uniqueSlug(form.Title, 0)
	if err != nil {
		return nil, err
	}

	summary := form.Summary
	if summary == "" {
		summary = utils.Truncate(form.Content, SummaryLength)
	}

	now := time.Now()
	post := &models.Post{
		Title:     form.Title,
		Slug:      slug,
		Content:   form.Content,
		Summary:   summary,
		ImageURL:  form.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost merges the supplied fields into the post. Nil fields keep their
// current values; a pointer to the empty string is applied as-is, which is
// how ImageURL gets cleared. A changed title regenerates the slug, checked
// against all other posts. UpdatedAt is refreshed on every successful call.
func (s *PostService) UpdatePost(id uint, update models.PostUpdate) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		if *update.Title != post.Title {
			newSlug, err := s.uniqueSlug(*update.Title, id)
			if err != nil {
				return nil, err
			}
			post.Slug = newSlug
		}
		post.Title = *update.Title
	}

	if update.Content != nil {
		post.Content = *update.Content
		if update.Summary != nil {
			post.Summary = *update.Summary
		} else {
			post.Summary = utils.Truncate(post.Content, SummaryLength)
		}
	} else if update.Summary != nil {
		post.Summary = *update.Summary
	}

	if update.ImageURL != nil {
		post.ImageURL = *update.ImageURL
	}

	post.UpdatedAt = time.Now()

	if err := s.store.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post permanently. A missing id is reported as
// false, not as an error.
func (s *PostService) DeletePost(id uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Delete(id)
}

// RestorePost re-creates a post from a backup record with fresh id and slug,
// keeping the original creation time when present.
func (s *PostService) RestorePost(b models.PostBackup) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slug, err := s.uniqueSlug(b.Title, 0)
	if err != nil {
		return nil, err
	}

	summary := b.Summary
	if summary == "" {
		summary = utils.Truncate(b.Content, SummaryLength)
	}

	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	post := &models.Post{
		Title:     b.Title,
		Slug:      slug,
		Content:   b.Content,
		Summary:   summary,
		ImageURL:  b.ImageURL,
		CreatedAt: createdAt,
		UpdatedAt: time.Now(),
	}

	if err := s.store.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetAllPostsForBackup returns every post in portable form.
func (s *PostService) GetAllPostsForBackup() ([]models.PostBackup, error) {
	posts, err := s.store.FindAllForBackup()
	if err != nil {
		return nil, err
	}

	backupPosts := make([]models.PostBackup, len(posts))
	for i, p := range posts {
		backupPosts[i] = models.PostBackup{
			Title:     p.Title,
			Content:   p.Content,
			Summary:   p.Summary,
			ImageURL:  p.ImageURL,
			CreatedAt: p.CreatedAt,
		}
	}
	return backupPosts, nil
}

// uniqueSlug derives the base slug from the title and appends -1, -2, ...
// until no other post holds it. When postID is nonzero that post is excluded
// from the check, so an update never collides with itself. Callers hold s.mu.
func (s *PostService) uniqueSlug(title string, postID uint) (string, error) {
	baseSlug := utils.Slugify(title)
	finalSlug := baseSlug
	counter := 1
	for {
		var exists bool
		var err error
		if postID == 0 {
			exists, err = s.store.SlugExists(finalSlug)
		} else {
			exists, err = s.store.SlugExistsForOtherPost(finalSlug, postID)
		}
		if err != nil {
			return "", err
		}
		if !exists {
			return finalSlug, nil
		}
		finalSlug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}
}
