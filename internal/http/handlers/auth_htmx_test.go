package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/paging"
	"github.com/userdeck/userdeck/internal/session"
)

type emptyFetcher struct{}

func (emptyFetcher) PlanAndFetch(context.Context, int, paging.ExclusionSet) (paging.Result, error) {
	return paging.Result{Page: 1, PageSize: 6}, nil
}

func newAuthHandlerWithSessionContext(t *testing.T, c *echo.Context) *Handlers {
	t.Helper()

	sessions := session.New(scs.New())
	sessionCtx, err := sessions.Manager.Load(c.Request().Context(), "")
	if err != nil {
		t.Fatalf("sessions.Load() error = %v", err)
	}
	c.SetRequest(c.Request().WithContext(sessionCtx))
	if err := sessions.Login(sessionCtx, "tok", directory.Profile{ID: 1, FirstName: "Emily"}); err != nil {
		t.Fatalf("Login error = %v", err)
	}

	return &Handlers{
		Sessions:   sessions,
		Dashboards: dashboard.NewRegistry(func(string) dashboard.Fetcher { return emptyFetcher{} }, 6),
	}
}

func TestHandleSignOutPostRedirectsNormallyForNonHTMX(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "http://example.com/signout")
	h := newAuthHandlerWithSessionContext(t, c)
	ctx := c.Request().Context()
	h.Dashboards.Get(h.Sessions.DashboardID(ctx), "tok", nil)

	if err := h.HandleSignOutPost(c); err != nil {
		t.Fatalf("HandleSignOutPost() error = %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/signin" {
		t.Fatalf("Location = %q, want %q", got, "/signin")
	}
	if h.Sessions.IsAuthenticated(ctx) {
		t.Fatal("session still authenticated after sign out")
	}
	if h.Dashboards.Len() != 0 {
		t.Fatalf("dashboard controller kept after sign out")
	}

	vary := parseVaryHeader(rec.Header().Get("Vary"))
	if vary["hx-request"] != 1 {
		t.Fatalf("Vary header missing hx-request: %v", vary)
	}
}

func TestHandleSignOutPostUsesHXRedirectForHTMX(t *testing.T) {
	c, rec := newTestContext(http.MethodPost, "http://example.com/signout")
	c.Request().Header.Set("HX-Request", "true")
	h := newAuthHandlerWithSessionContext(t, c)

	if err := h.HandleSignOutPost(c); err != nil {
		t.Fatalf("HandleSignOutPost() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("HX-Redirect"); got != "/signin" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/signin")
	}
}

func TestHandleSignOutKeepsTheme(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "http://example.com/signout")
	h := newAuthHandlerWithSessionContext(t, c)
	ctx := c.Request().Context()
	h.Sessions.ToggleTheme(ctx)

	if err := h.HandleSignOutPost(c); err != nil {
		t.Fatalf("HandleSignOutPost() error = %v", err)
	}
	if got := h.Sessions.Theme(ctx); got != session.ThemeDark {
		t.Fatalf("theme = %q, want %q", got, session.ThemeDark)
	}
}

func TestThemeReturnPath(t *testing.T) {
	tests := []struct {
		name    string
		next    string
		referer string
		want    string
	}{
		{name: "next", next: "/dashboard?page=3", want: "/dashboard?page=3"},
		{name: "referer", referer: "http://example.com/signin", want: "/signin"},
		{name: "unsafe_next_falls_back", next: "//evil.example", referer: "http://example.com/welcome", want: "/welcome"},
		{name: "default", want: "/signup"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "http://example.com/theme?next="+tt.next)
			if tt.referer != "" {
				c.Request().Header.Set("Referer", tt.referer)
			}
			if got := themeReturnPath(c.Request()); got != tt.want {
				t.Fatalf("themeReturnPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
