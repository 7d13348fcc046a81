// Package actions is the boundary between the presentation layer and the
// post repository and its external collaborators. Every operation returns a
// uniform success/error result and never lets an error or panic escape;
// successful mutations invalidate the cached views derived from the post.
package actions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"workbench/internal/cache"
	"workbench/internal/constants"
	"workbench/internal/models"
	"workbench/internal/repository"
	"workbench/internal/services"
)

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type PostResult struct {
	Result
	Post *models.Post `json:"post,omitempty"`
}

type SummaryResult struct {
	Result
	Summary string `json:"summary,omitempty"`
}

type Actions struct {
	posts    *services.PostService
	ai       *services.AIService
	settings *services.SettingService
	backup   *services.BackupService
	views    cache.ViewCache
}

func New(posts *services.PostService, ai *services.AIService, settings *services.SettingService, backup *services.BackupService, views cache.ViewCache) *Actions {
	return &Actions{
		posts:    posts,
		ai:       ai,
		settings: settings,
		backup:   backup,
		views:    views,
	}
}

func (a *Actions) CreatePost(ctx context.Context, form models.PostForm) (res PostResult) {
	defer recoverInto(&res.Result)

	post, err := a.posts.CreatePost(form)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	a.invalidatePostViews(ctx, post.Slug)
	res.Success = true
	res.Post = post
	return res
}

func (a *Actions) UpdatePost(ctx context.Context, id uint, update models.PostUpdate) (res PostResult) {
	defer recoverInto(&res.Result)

	post, err := a.posts.UpdatePost(id, update)
	if errors.Is(err, repository.ErrNotFound) {
		res.Error = "Post not found"
		return res
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	a.invalidatePostViews(ctx, post.Slug)
	res.Success = true
	res.Post = post
	return res
}

func (a *Actions) DeletePost(ctx context.Context, id uint) (res Result) {
	defer recoverInto(&res)

	// Look the slug up first so the detail view can be invalidated too.
	var slug string
	if post, err := a.posts.GetPostByID(id); err == nil {
		slug = post.Slug
	}

	ok, err := a.posts.DeletePost(id)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if !ok {
		res.Error = "Failed to delete post or post not found"
		return res
	}

	a.invalidatePostViews(ctx, slug)
	res.Success = true
	return res
}

// Summarize delegates to the AI collaborator. Blank content is rejected
// locally before any call is attempted.
func (a *Actions) Summarize(ctx context.Context, content string) (res SummaryResult) {
	defer recoverInto(&res.Result)

	if strings.TrimSpace(content) == "" {
		res.Error = "Content is empty, cannot summarize."
		return res
	}

	baseURL, _ := a.settings.GetSetting(constants.SettingOpenAIBaseURL)
	token, _ := a.settings.GetSetting(constants.SettingOpenAIToken)
	model, _ := a.settings.GetSetting(constants.SettingOpenAIModel)

	summary, err := a.ai.Summarize(content, baseURL, token, model)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Summary = summary
	return res
}

// ImportPosts restores backed up posts through the normal create path and
// invalidates the listing views once at the end.
func (a *Actions) ImportPosts(ctx context.Context, posts []models.PostBackup) (res Result) {
	defer recoverInto(&res)

	if err := a.backup.ImportPosts(posts); err != nil {
		res.Error = err.Error()
		return res
	}

	a.invalidatePostViews(ctx, "")
	res.Success = true
	return res
}

// invalidatePostViews marks the listing, the admin listing and the post's
// detail view stale. Invalidation failure is logged, never propagated: the
// mutation itself already succeeded.
func (a *Actions) invalidatePostViews(ctx context.Context, slug string) {
	keys := []string{"/", "/admin"}
	if slug != "" {
		keys = append(keys, "/post/"+slug)
	}
	if err := a.views.Invalidate(ctx, keys...); err != nil {
		log.Printf("failed to invalidate views %v: %v", keys, err)
	}
}

func recoverInto(res *Result) {
	if r := recover(); r != nil {
		res.Success = false
		res.Error = fmt.Sprintf("internal error: %v", r)
	}
}
