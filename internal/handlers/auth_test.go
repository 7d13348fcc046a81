package handlers

import (
	"net/http"
	"net/url"
	"testing"
)

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t, true)

	w := app.postForm("/login", url.Values{"password": {"wrong"}})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	app := newTestApp(t, true)

	w := app.get("/admin/")
	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q", loc)
	}
}

func TestLoginGrantsAdminAccess(t *testing.T) {
	app := newTestApp(t, true)

	// The seeded default password.
	w := app.postForm("/login", url.Values{"password": {"admin"}})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	admin := app.get("/admin/", cookies...)
	if admin.Code != http.StatusOK {
		t.Errorf("admin with session: status = %d", admin.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t, true)

	login := app.postForm("/login", url.Values{"password": {"admin"}})
	cookies := login.Result().Cookies()

	logout := app.get("/logout", cookies...)
	if logout.Code != http.StatusFound {
		t.Fatalf("logout status = %d", logout.Code)
	}

	// The cleared cookie replaces the authenticated one.
	cleared := logout.Result().Cookies()
	w := app.get("/admin/", cleared...)
	if w.Code != http.StatusFound {
		t.Errorf("admin after logout: status = %d, want redirect to login", w.Code)
	}
}
