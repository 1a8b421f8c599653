// Package handlers contains HTTP handler logic split by screen.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
	"github.com/userdeck/userdeck/internal/logging"
	"github.com/userdeck/userdeck/internal/session"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg        config.Config
	Directory  *directory.Client
	Sessions   *session.Store
	Dashboards *dashboard.Registry
}

// LayoutData builds the common layout data for page rendering.
func (h *Handlers) LayoutData(c *echo.Context, title string) viewmodels.LayoutData {
	ctx := c.Request().Context()
	csrfToken, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	layout := viewmodels.LayoutData{
		Title:      title,
		CSRFToken:  csrfToken,
		Theme:      session.ThemeLight,
		Toast:      popFlashToast(c),
		ActivePath: c.Request().URL.Path,
	}
	if h.Sessions == nil {
		return layout
	}
	layout.Theme = h.Sessions.Theme(ctx)
	if h.Sessions.IsAuthenticated(ctx) {
		layout.SignedIn = true
		if p, ok := h.Sessions.Profile(ctx); ok {
			layout.FirstName = p.FirstName
		}
	}
	return layout
}

// userClient returns a directory client carrying the session's access token.
func (h *Handlers) userClient(c *echo.Context) *directory.Client {
	return h.Directory.WithToken(h.Sessions.Token(c.Request().Context()))
}

// controller returns this session's dashboard controller.
func (h *Handlers) controller(c *echo.Context) *dashboard.Controller {
	ctx := c.Request().Context()
	return h.Dashboards.Get(h.Sessions.DashboardID(ctx), h.Sessions.Token(ctx), h.Sessions.ExcludedIDs(ctx))
}

// RenderComponent renders a templ component as the response.
func (h *Handlers) RenderComponent(c *echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request().Context(), c.Response()); err != nil {
		return h.RenderError(c, err)
	}
	return nil
}

// RenderError logs err and returns a generic 500 that never echoes it.
func (h *Handlers) RenderError(c *echo.Context, err error) error {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	requestLogger(c).Error("http error", "ip", c.RealIP(), "error", err)

	msg := "Internal server error."
	if requestID != "" {
		msg = fmt.Sprintf("%s Reference: %s.", msg, requestID)
	}
	msg = fmt.Sprintf("%s Code: %s.", msg, InternalErrorCode)
	return c.String(http.StatusInternalServerError, msg)
}

// RenderNotFound returns a 404 response.
func RenderNotFound(c *echo.Context) error {
	return c.String(http.StatusNotFound, "404 page not found")
}

// HandleHealthz reports liveness.
func (h *Handlers) HandleHealthz(c *echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// redirect sends a 303, or an HX-Redirect for HTMX requests.
func redirect(c *echo.Context, location string) error {
	addVary(c, "HX-Request")
	if isHX(c) {
		setHXRedirect(c, location)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// logRemoteError records a remote failure shown to the user as an alert.
func logRemoteError(c *echo.Context, msg string, err error) {
	requestLogger(c).Warn(msg, "status", directory.StatusOf(err), "error", err)
}

func requestLogger(c *echo.Context) *slog.Logger {
	requestID, _ := c.Get(ContextKeyRequestID).(string)
	method, path := "", ""
	if req := c.Request(); req != nil {
		method = req.Method
		if req.URL != nil {
			path = req.URL.Path
		}
	}
	return logging.ForRequest(c.Logger(), requestID, method, path)
}
