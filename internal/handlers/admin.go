package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"workbench/internal/actions"
	"workbench/internal/constants"
	"workbench/internal/models"
	"workbench/internal/services"
	"workbench/internal/utils"

	"github.com/gin-gonic/gin"
)

const adminPageSize = 10

type AdminHandler struct {
	actions        *actions.Actions
	postService    *services.PostService
	settingService *services.SettingService
	aiService      *services.AIService
	blobService    *services.BlobService
	backupService  *services.BackupService

	// called after settings change so the backup schedule picks up a new
	// cron expression; may be nil in tests
	reloadSchedule func()
}

func NewAdminHandler(
	acts *actions.Actions,
	postService *services.PostService,
	settingService *services.SettingService,
	aiService *services.AIService,
	blobService *services.BlobService,
	backupService *services.BackupService,
	reloadSchedule func(),
) *AdminHandler {
	return &AdminHandler{
		actions:        acts,
		postService:    postService,
		settingService: settingService,
		aiService:      aiService,
		blobService:    blobService,
		backupService:  backupService,
		reloadSchedule: reloadSchedule,
	}
}

func (h *AdminHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	query := c.Query("query")

	posts, totalPages, err := h.postService.ListPostsByAdmin(page, adminPageSize, query)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load posts")
		return
	}

	render(c, http.StatusOK, "admin.html", gin.H{
		"posts":      posts,
		"Pagination": utils.GeneratePagination(page, totalPages),
		"Query":      query,
	})
}

func (h *AdminHandler) NewPost(c *gin.Context) {
	render(c, http.StatusOK, "editor.html", gin.H{
		"post": nil,
	})
}

func (h *AdminHandler) Editor(c *gin.Context) {
	idStr := c.Query("id")
	if idStr == "" {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	post, err := h.postService.GetPostByID(uint(id))
	if err != nil {
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	render(c, http.StatusOK, "editor.html", gin.H{
		"post": post,
	})
}

// SavePost creates or updates a post depending on the submitted id. On
// update, only the fields present in the form are applied; an image_url
// field submitted as the empty string clears the image.
func (h *AdminHandler) SavePost(c *gin.Context) {
	idStr := c.PostForm("id")

	if idStr == "" || idStr == "0" {
		title := c.PostForm("title")
		content := c.PostForm("content")
		if title == "" || content == "" {
			c.JSON(http.StatusBadRequest, actions.PostResult{
				Result: actions.Result{Error: "Title and content are required"},
			})
			return
		}

		res := h.actions.CreatePost(c.Request.Context(), models.PostForm{
			Title:    title,
			Content:  content,
			Summary:  c.PostForm("summary"),
			ImageURL: c.PostForm("image_url"),
		})
		c.JSON(resultStatus(res.Result), res)
		return
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, actions.Result{Error: "Invalid post id"})
		return
	}

	var update models.PostUpdate
	if title, ok := c.GetPostForm("title"); ok {
		update.Title = &title
	}
	if content, ok := c.GetPostForm("content"); ok {
		update.Content = &content
	}
	if summary, ok := c.GetPostForm("summary"); ok && summary != "" {
		update.Summary = &summary
	}
	if imageURL, ok := c.GetPostForm("image_url"); ok {
		update.ImageURL = &imageURL
	}

	res := h.actions.UpdatePost(c.Request.Context(), uint(id), update)
	c.JSON(resultStatus(res.Result), res)
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, actions.Result{Error: "Invalid post id"})
		return
	}

	res := h.actions.DeletePost(c.Request.Context(), uint(id))
	c.JSON(resultStatus(res), res)
}

// Summarize generates a summary for the submitted content on demand, for the
// editor's summarize button.
func (h *AdminHandler) Summarize(c *gin.Context) {
	var req struct {
		Content string `json:"content" form:"content"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, actions.Result{Error: "Invalid request body"})
		return
	}

	res := h.actions.Summarize(c.Request.Context(), req.Content)
	c.JSON(resultStatus(res.Result), res)
}

// Upload proxies an image to the configured blob host and returns its URL.
func (h *AdminHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No file uploaded"})
		return
	}
	if file.Size > services.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"status": "error", "message": "Please select an image smaller than 4MB."})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	apiURL, _ := h.settingService.GetSetting(constants.SettingBlobAPIURL)
	token, _ := h.settingService.GetSetting(constants.SettingBlobToken)

	url, err := h.blobService.Upload(apiURL, token, file.Filename, src)
	if errors.Is(err, services.ErrBlobNotConfigured) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Configuration error on server: blob store credentials are missing."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Upload failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "url": url})
}

func (h *AdminHandler) BackupPosts(c *gin.Context) {
	content, err := h.backupService.ExportZip()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to build backup: " + err.Error()})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=workbench_backup_%s.zip", time.Now().Format("20060102150405")))
	c.Data(http.StatusOK, "application/zip", content)
}

// RestorePosts accepts a backup upload (zip with backup.json inside, or bare
// JSON) and re-creates the posts through the normal create path.
func (h *AdminHandler) RestorePosts(c *gin.Context) {
	file, err := c.FormFile("backup")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Failed to read uploaded file: " + err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to open uploaded file: " + err.Error()})
		return
	}
	defer src.Close()

	var jsonReader io.Reader = src

	if strings.HasSuffix(file.Filename, ".zip") {
		fileBytes, err := io.ReadAll(src)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to read uploaded file: " + err.Error()})
			return
		}

		zipReader, err := zip.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid zip file: " + err.Error()})
			return
		}

		if len(zipReader.File) == 0 || zipReader.File[0].Name != "backup.json" {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "backup.json not found in zip file"})
			return
		}

		jsonFile, err := zipReader.File[0].Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to open backup.json: " + err.Error()})
			return
		}
		defer jsonFile.Close()
		jsonReader = jsonFile
	}

	var backup models.SiteBackup
	if err := json.NewDecoder(jsonReader).Decode(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Failed to parse backup JSON: " + err.Error()})
		return
	}

	res := h.actions.ImportPosts(c.Request.Context(), backup.Posts)
	if !res.Success {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": res.Error})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("Imported %d posts", len(backup.Posts))})
}

func (h *AdminHandler) ShowSettingsPage(c *gin.Context) {
	render(c, http.StatusOK, "settings.html", gin.H{})
}

func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	settingsToUpdate := make(map[string]string)

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid form data"})
		return
	}

	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			value := values[0]
			// Secrets are only updated when a new value is submitted.
			if (key == constants.SettingPassword || key == constants.SettingOpenAIToken || key == constants.SettingBlobToken) && value == "" {
				continue
			}
			settingsToUpdate[key] = value
		}
	}

	if err := h.settingService.UpdateSettings(settingsToUpdate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to update settings"})
		return
	}

	if h.reloadSchedule != nil {
		h.reloadSchedule()
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Settings saved."})
}

func (h *AdminHandler) TestAISettings(c *gin.Context) {
	baseURL := c.PostForm(constants.SettingOpenAIBaseURL)
	token := c.PostForm(constants.SettingOpenAIToken)
	model := c.PostForm(constants.SettingOpenAIModel)

	if token == "" {
		token, _ = h.settingService.GetSetting(constants.SettingOpenAIToken)
	}

	testContent := "This is a short text used to verify the AI summarization settings."
	if _, err := h.aiService.Summarize(testContent, baseURL, token, model); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Test failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Connection and settings are valid."})
}

// resultStatus maps an action result onto an HTTP status.
func resultStatus(res actions.Result) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Error == "Post not found":
		return http.StatusNotFound
	case res.Error == "Content is empty, cannot summarize.":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
