package handlers

import (
	"bytes"
	"log"
	"net/http"
	"strings"

	"workbench/internal/cache"
	"workbench/internal/constants"
	"workbench/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"
)

// AuthMiddleware checks if a user is authenticated via session flag.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		authenticated := session.Get(constants.SessionKeyAuthenticated)

		if authenticated == nil || !authenticated.(bool) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Next()
	}
}

// SettingsMiddleware loads settings into the context and records the login
// state for templates and the page cache.
func SettingsMiddleware(settingService *services.SettingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := settingService.GetAllSettings()
		if err != nil {
			// The application can run with default settings.
			log.Printf("failed to load settings: %v", err)
			c.Set(constants.ContextKeySettings, make(map[string]string))
		} else {
			c.Set(constants.ContextKeySettings, settings)
		}

		session := sessions.Default(c)
		isLoggedIn := session.Get(constants.SessionKeyAuthenticated)
		c.Set(constants.ContextKeyIsLoggedIn, isLoggedIn != nil && isLoggedIn.(bool))

		c.Next()
	}
}

var htmlMinifier = func() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", mhtml.Minify)
	return m
}()

// PageCache serves anonymous GETs of public pages from the view cache. Only
// bare paths are cached (no query string), which covers the landing page and
// the post detail pages that mutations invalidate by key. Responses are
// minified before they enter the cache.
func PageCache(views cache.ViewCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || c.Request.URL.RawQuery != "" {
			c.Next()
			return
		}
		if isLoggedIn, ok := c.Get(constants.ContextKeyIsLoggedIn); ok && isLoggedIn.(bool) {
			c.Next()
			return
		}

		key := c.Request.URL.Path
		if view, found, err := views.Get(c.Request.Context(), key); err == nil && found {
			c.Data(http.StatusOK, view.ContentType, view.Body)
			c.Abort()
			return
		}

		writer := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		if writer.Status() != http.StatusOK {
			return
		}

		contentType := writer.Header().Get("Content-Type")
		body := writer.buf.Bytes()
		if strings.HasPrefix(contentType, "text/html") {
			if minified, err := htmlMinifier.Bytes("text/html", body); err == nil {
				body = minified
			}
		}

		if err := views.Set(c.Request.Context(), key, &cache.View{ContentType: contentType, Body: body}); err != nil {
			log.Printf("failed to cache view %s: %v", key, err)
		}
	}
}

// captureWriter tees the response body so it can be cached after the
// handler runs.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// render is a helper function to render templates with common data.
func render(c *gin.Context, status int, templateName string, data gin.H) {
	settings, exists := c.Get(constants.ContextKeySettings)
	if exists {
		for key, value := range settings.(map[string]string) {
			if _, ok := data[key]; !ok {
				data[key] = value
			}
		}
	}

	isLoggedIn, exists := c.Get(constants.ContextKeyIsLoggedIn)
	if exists {
		data["IsLoggedIn"] = isLoggedIn
	}

	c.HTML(status, templateName, data)
}
