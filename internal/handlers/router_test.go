package handlers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"workbench/internal/actions"
	"workbench/internal/cache"
	"workbench/internal/repository"
	"workbench/internal/services"
	"workbench/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// testRenderer loads the real templates relative to this source file, the
// same set main.go registers.
func testRenderer(t *testing.T) multitemplate.Renderer {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to locate test source file")
	}
	templates := os.DirFS(filepath.Join(filepath.Dir(thisFile), "..", "..", "templates"))

	r := multitemplate.NewRenderer()
	add := func(name string, files ...string) {
		tpl, err := template.ParseFS(templates, files...)
		if err != nil {
			t.Fatalf("failed to parse template %s: %v", name, err)
		}
		r.Add(name, tpl)
	}

	add("index.html", "base.html", "index.html", "_pagination.html")
	add("post.html", "base.html", "post.html")
	add("admin.html", "base.html", "admin.html", "_pagination.html")
	add("editor.html", "base.html", "editor.html")
	add("settings.html", "base.html", "settings.html")
	add("login.html", "base.html", "login.html")
	add("404.html", "base.html", "404.html")
	add("error.html", "base.html", "error.html")
	return r
}

type testApp struct {
	router   *gin.Engine
	posts    *services.PostService
	settings *services.SettingService
	views    cache.ViewCache
}

// newTestApp wires the full route table against a memory post store and an
// in-memory settings database. withAuth controls whether /admin is guarded,
// so most admin tests can skip the login dance.
func newTestApp(t *testing.T, withAuth bool) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := utils.InitDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}

	postService := services.NewPostService(repository.NewMemoryRepository())
	settingService := services.NewSettingService(repository.NewSettingRepository(db))
	aiService := services.NewAIService()
	blobService := services.NewBlobService()
	backupService := services.NewBackupService(postService, settingService, t.TempDir())
	views := cache.NewMemoryCache(time.Minute)
	acts := actions.New(postService, aiService, settingService, backupService, views)

	blogHandler := NewBlogHandler(postService)
	adminHandler := NewAdminHandler(acts, postService, settingService, aiService, blobService, backupService, nil)
	authHandler := NewAuthHandler(settingService)

	r := gin.New()
	r.HTMLRender = testRenderer(t)

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("workbench_session", store))
	r.Use(SettingsMiddleware(settingService))

	pageCache := PageCache(views)
	r.GET("/", pageCache, blogHandler.Index)
	r.GET("/post/:slug", pageCache, blogHandler.ShowPost)

	r.GET("/login", authHandler.ShowLoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	admin := r.Group("/admin")
	if withAuth {
		admin.Use(AuthMiddleware())
	}
	{
		admin.GET("/", adminHandler.ListPosts)
		admin.GET("/new", adminHandler.NewPost)
		admin.GET("/editor", adminHandler.Editor)
		admin.POST("/save", adminHandler.SavePost)
		admin.POST("/delete/:id", adminHandler.DeletePost)
		admin.POST("/summarize", adminHandler.Summarize)
		admin.POST("/upload", adminHandler.Upload)
		admin.GET("/backup", adminHandler.BackupPosts)
		admin.POST("/restore", adminHandler.RestorePosts)
	}

	settings := r.Group("/settings")
	if withAuth {
		settings.Use(AuthMiddleware())
	}
	{
		settings.GET("/", adminHandler.ShowSettingsPage)
		settings.POST("/", adminHandler.UpdateSettings)
		settings.POST("/test-ai", adminHandler.TestAISettings)
	}

	r.NoRoute(blogHandler.NotFound)

	return &testApp{router: r, posts: postService, settings: settingService, views: views}
}

func (app *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}

func (app *testApp) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	return w
}
