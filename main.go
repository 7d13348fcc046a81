package main

import (
	"flag"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"workbench/internal/actions"
	"workbench/internal/cache"
	"workbench/internal/config"
	"workbench/internal/handlers"
	"workbench/internal/repository"
	"workbench/internal/services"
	"workbench/internal/tasks"
	"workbench/internal/utils"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Global filesystems populated by either assets_dev.go or assets_prod.go at startup.
var templatesFS fs.FS
var staticFS fs.FS

func createRenderer() multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	add := func(name string, files ...string) {
		tpl, err := template.ParseFS(templatesFS, files...)
		if err != nil {
			log.Fatalf("failed to parse template %s: %v", name, err)
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

func newViewCache(cfg *config.Config) cache.ViewCache {
	if cfg.RedisAddr != "" {
		log.Printf("view cache backed by redis at %s", cfg.RedisAddr)
		return cache.NewRedisCache(cfg)
	}
	return cache.NewMemoryCache(time.Duration(cfg.CacheTTLSec) * time.Second)
}

func newPostStore(cfg *config.Config, db *repository.PostRepository) repository.PostStore {
	if cfg.PostStore == "memory" {
		log.Println("using in-memory post store")
		return repository.NewMemoryRepository()
	}
	return db
}

func main() {
	unsafe := flag.Bool("unsafe", false, "allow insecure cookies")
	flag.Parse()

	cfg := config.Load()

	db, err := utils.InitDatabase(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	settingRepo := repository.NewSettingRepository(db)
	settingService := services.NewSettingService(settingRepo)

	postStore := newPostStore(cfg, repository.NewPostRepository(db))
	postService := services.NewPostService(postStore)

	aiService := services.NewAIService()
	blobService := services.NewBlobService()
	backupService := services.NewBackupService(postService, settingService, cfg.BackupDir)

	views := newViewCache(cfg)
	acts := actions.New(postService, aiService, settingService, backupService, views)

	scheduler := tasks.NewScheduler(settingService, backupService)
	scheduler.Start()

	blogHandler := handlers.NewBlogHandler(postService)
	adminHandler := handlers.NewAdminHandler(acts, postService, settingService, aiService, blobService, backupService, scheduler.ReloadTasks)
	authHandler := handlers.NewAuthHandler(settingService)

	r := gin.Default()
	r.HTMLRender = createRenderer()

	store := cookie.NewStore([]byte("secret-key-should-be-changed"))
	store.Options(sessions.Options{
		HttpOnly: true,
		Secure:   !*unsafe,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("workbench_session", store))

	r.Use(handlers.SettingsMiddleware(settingService))

	r.StaticFS("/static", http.FS(staticFS))

	pageCache := handlers.PageCache(views)
	r.GET("/", pageCache, blogHandler.Index)
	r.GET("/post/:slug", pageCache, blogHandler.ShowPost)

	r.GET("/login", authHandler.ShowLoginPage)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	admin := r.Group("/admin")
	admin.Use(handlers.AuthMiddleware())
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
	settings.Use(handlers.AuthMiddleware())
	{
		settings.GET("/", adminHandler.ShowSettingsPage)
		settings.POST("/", adminHandler.UpdateSettings)
		settings.POST("/test-ai", adminHandler.TestAISettings)
	}

	r.NoRoute(blogHandler.NotFound)

	log.Printf("server starting on :%s", cfg.Port)
	r.Run(":" + cfg.Port)
}
