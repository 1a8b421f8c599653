// Package authn guards routes by sign-in state and tears the session down
// when the remote directory rejects its credentials.
package authn

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/metrics"
	"github.com/userdeck/userdeck/internal/session"
)

const (
	// PublicEntry is where visitors without a session are sent.
	PublicEntry = "/signup"
	// Home is where signed-in users land from public-only pages.
	Home = "/dashboard"
)

// RequireAuth sends visitors without a valid session to the public entry.
func RequireAuth(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if !sessions.IsAuthenticated(c.Request().Context()) {
				return redirectTo(c, PublicEntry)
			}
			return next(c)
		}
	}
}

// RequireAnonymous keeps signed-in users off the sign-in and sign-up pages.
func RequireAnonymous(sessions *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if sessions.IsAuthenticated(c.Request().Context()) {
				return redirectTo(c, Home)
			}
			return next(c)
		}
	}
}

// TeardownOnRejected watches handler errors. When the directory rejected the
// session's token, the credentials and dashboard state are cleared and the
// browser is sent to the public entry, whichever screen made the call.
func TeardownOnRejected(sessions *session.Store, dashboards *dashboard.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			err := next(c)
			if err == nil || !errors.Is(err, directory.ErrUnauthorized) {
				return err
			}

			ctx := c.Request().Context()
			if dashboards != nil {
				dashboards.Drop(sessions.DashboardID(ctx))
			}
			if lerr := sessions.Logout(ctx); lerr != nil {
				return errors.Join(err, lerr)
			}
			metrics.SessionTeardownsTotal.WithLabelValues("rejected").Inc()
			c.Logger().Warn("directory rejected session credentials",
				"path", c.Request().URL.Path,
				"error", err,
			)
			return redirectTo(c, PublicEntry)
		}
	}
}

func redirectTo(c *echo.Context, location string) error {
	c.Response().Header().Add(echo.HeaderVary, "HX-Request")
	if strings.EqualFold(strings.TrimSpace(c.Request().Header.Get("HX-Request")), "true") {
		c.Response().Header().Set("HX-Redirect", location)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, location)
}

// SanitizeNext returns next when it is a safe same-origin path, else "".
func SanitizeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || len(next) > 2048 {
		return ""
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}

	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Scheme != "" {
		return ""
	}
	if strings.Contains(next, "\\") {
		return ""
	}
	unescaped, err := url.PathUnescape(u.Path)
	if err != nil || strings.HasPrefix(unescaped, "//") || strings.Contains(unescaped, "\\") {
		return ""
	}
	if u.Path == "/theme" || u.Path == "/signout" {
		return ""
	}
	return next
}
