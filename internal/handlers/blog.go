package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"workbench/internal/repository"
	"workbench/internal/services"
	"workbench/internal/utils"

	"github.com/gin-gonic/gin"
)

type BlogHandler struct {
	postService *services.PostService
}

func NewBlogHandler(postService *services.PostService) *BlogHandler {
	return &BlogHandler{postService: postService}
}

func (h *BlogHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	posts, totalPages, err := h.postService.ListPosts(page, services.DefaultPageSize)
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Failed to load posts",
		})
		return
	}

	render(c, http.StatusOK, "index.html", gin.H{
		"posts":      posts,
		"Pagination": utils.GeneratePagination(page, totalPages),
		"is_index":   true,
	})
}

func (h *BlogHandler) ShowPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postService.GetRenderedPost(slug)
	if errors.Is(err, repository.ErrNotFound) {
		render(c, http.StatusNotFound, "404.html", gin.H{})
		return
	}
	if err != nil {
		render(c, http.StatusInternalServerError, "error.html", gin.H{
			"error": "Failed to load post",
		})
		return
	}

	render(c, http.StatusOK, "post.html", gin.H{
		"post": post,
	})
}

func (h *BlogHandler) NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", gin.H{})
}
