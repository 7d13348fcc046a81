package handlers

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"workbench/internal/actions"
	"workbench/internal/models"
)

func decodePostResult(t *testing.T, w *httptest.ResponseRecorder) actions.PostResult {
	t.Helper()
	var res actions.PostResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("response is not a post result: %v (%s)", err, w.Body.String())
	}
	return res
}

func TestSavePostCreate(t *testing.T) {
	app := newTestApp(t, false)

	w := app.postForm("/admin/save", url.Values{
		"id":      {""},
		"title":   {"Created Via Form"},
		"content": {"hello from the editor"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	res := decodePostResult(t, w)
	if !res.Success || res.Post == nil {
		t.Fatalf("result = %+v", res)
	}
	if res.Post.Slug != "created-via-form" {
		t.Errorf("slug = %q", res.Post.Slug)
	}

	if _, err := app.posts.GetPostBySlug("created-via-form"); err != nil {
		t.Errorf("post not persisted: %v", err)
	}
}

func TestSavePostCreateRequiresTitleAndContent(t *testing.T) {
	app := newTestApp(t, false)

	for _, form := range []url.Values{
		{"id": {""}, "title": {""}, "content": {"body"}},
		{"id": {""}, "title": {"Title"}, "content": {""}},
	} {
		w := app.postForm("/admin/save", form)
		if w.Code != http.StatusBadRequest {
			t.Errorf("form %v: status = %d, want 400", form, w.Code)
		}
	}
}

func TestSavePostUpdatePartialForm(t *testing.T) {
	app := newTestApp(t, false)
	created, _ := app.posts.CreatePost(models.PostForm{
		Title:    "Editable",
		Content:  "original",
		ImageURL: "https://img.example/keep.png",
	})
	id := fmt.Sprintf("%d", created.ID)

	// Content-only form: title and image must survive.
	w := app.postForm("/admin/save", url.Values{
		"id":      {id},
		"content": {"revised"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	res := decodePostResult(t, w)
	if res.Post.Title != "Editable" {
		t.Errorf("title changed to %q", res.Post.Title)
	}
	if res.Post.ImageURL != "https://img.example/keep.png" {
		t.Errorf("imageURL changed to %q", res.Post.ImageURL)
	}
	if res.Post.Content != "revised" {
		t.Errorf("content = %q", res.Post.Content)
	}

	// An empty image_url field present in the form clears the image.
	w = app.postForm("/admin/save", url.Values{
		"id":        {id},
		"image_url": {""},
	})
	res = decodePostResult(t, w)
	if res.Post.ImageURL != "" {
		t.Errorf("imageURL not cleared: %q", res.Post.ImageURL)
	}
}

func TestSavePostUpdateMissingPost(t *testing.T) {
	app := newTestApp(t, false)

	w := app.postForm("/admin/save", url.Values{
		"id":    {"999"},
		"title": {"Nobody Home"},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeletePostEndpoint(t *testing.T) {
	app := newTestApp(t, false)
	created, _ := app.posts.CreatePost(models.PostForm{Title: "Doomed", Content: "x"})

	w := app.postForm(fmt.Sprintf("/admin/delete/%d", created.ID), url.Values{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	w = app.postForm(fmt.Sprintf("/admin/delete/%d", created.ID), url.Values{})
	if w.Code != http.StatusInternalServerError {
		t.Errorf("second delete status = %d", w.Code)
	}

	w = app.postForm("/admin/delete/not-a-number", url.Values{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", w.Code)
	}
}

func TestSummarizeEndpointRejectsBlankContent(t *testing.T) {
	app := newTestApp(t, false)

	w := app.postForm("/admin/summarize", url.Values{"content": {"   "}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cannot summarize") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadWithoutConfiguration(t *testing.T) {
	app := newTestApp(t, false)

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("file", "photo.png")
	part.Write([]byte("tiny image"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Configuration error") {
		t.Errorf("missing credentials should surface as a configuration error: %s", w.Body.String())
	}
}

func TestUploadRejectsMissingFile(t *testing.T) {
	app := newTestApp(t, false)

	w := app.postForm("/admin/upload", url.Values{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestBackupAndRestoreEndpoints(t *testing.T) {
	app := newTestApp(t, false)
	app.posts.CreatePost(models.PostForm{Title: "Round Trip", Content: "payload"})

	w := app.get("/admin/backup")
	if w.Code != http.StatusOK {
		t.Fatalf("backup status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if _, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len())); err != nil {
		t.Fatalf("backup is not a zip: %v", err)
	}

	// Restore the same archive into a fresh app.
	restored := newTestApp(t, false)
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("backup", "backup.zip")
	part.Write(w.Body.Bytes())
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/restore", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	restored.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("restore status = %d: %s", rec.Code, rec.Body.String())
	}
	if _, err := restored.posts.GetPostBySlug("round-trip"); err != nil {
		t.Errorf("restored post not found: %v", err)
	}
}

func TestAdminListFiltersByTitle(t *testing.T) {
	app := newTestApp(t, false)
	app.posts.CreatePost(models.PostForm{Title: "Alpha Notes", Content: "x"})
	app.posts.CreatePost(models.PostForm{Title: "Beta Notes", Content: "x"})

	w := app.get("/admin/?query=Alpha")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Alpha Notes") {
		t.Error("matching post missing from the filtered listing")
	}
	if strings.Contains(body, "Beta Notes") {
		t.Error("non-matching post shown in the filtered listing")
	}
}

func TestUpdateSettingsSkipsEmptySecrets(t *testing.T) {
	app := newTestApp(t, false)
	originalPassword, _ := app.settings.GetSetting("password")

	w := app.postForm("/settings/", url.Values{
		"site_title":   {"Renamed"},
		"password":     {""},
		"openai_token": {""},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	title, _ := app.settings.GetSetting("site_title")
	if title != "Renamed" {
		t.Errorf("site_title = %q", title)
	}
	password, _ := app.settings.GetSetting("password")
	if password != originalPassword {
		t.Error("an empty password field must not clear the stored password")
	}
}

func TestUpdateSettingsStoresNewPassword(t *testing.T) {
	app := newTestApp(t, false)

	w := app.postForm("/settings/", url.Values{"password": {"new-secret"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	password, _ := app.settings.GetSetting("password")
	if password != "new-secret" {
		t.Errorf("password = %q", password)
	}
}
