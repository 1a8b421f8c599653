package httpapp

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/userdeck/userdeck/internal/config"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/http/authn"
	"github.com/userdeck/userdeck/internal/http/handlers"
	"github.com/userdeck/userdeck/internal/session"
)

const maxRequestIDLength = 128

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h *handlers.Handlers
	e *echo.Echo
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(cfg config.Config, client *directory.Client, sessions *session.Store, dashboards *dashboard.Registry, logger *slog.Logger) (*EchoServer, error) {
	if client == nil || sessions == nil || dashboards == nil {
		return nil, errors.New("http server: directory client, sessions and dashboards are required")
	}
	h := &handlers.Handlers{
		Cfg:        cfg,
		Directory:  client,
		Sessions:   sessions,
		Dashboards: dashboards,
	}
	e := echo.New()
	if logger != nil {
		e.Logger = logger
	}
	es := &EchoServer{h: h, e: e}
	e.HTTPErrorHandler = es.httpErrorHandler
	es.registerRoutes()
	return es, nil
}

// Handler returns the application wrapped in session load/save.
func (es *EchoServer) Handler() http.Handler {
	return es.h.Sessions.Manager.LoadAndSave(es.e)
}

func (es *EchoServer) registerRoutes() {
	sessions := es.h.Sessions

	es.e.Use(middleware.Recover())
	es.e.Use(requestID)
	es.e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:" + echo.HeaderXCSRFToken + ",form:csrf",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   es.h.Cfg.AuthCookieSecure,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	es.e.Use(authn.TeardownOnRejected(sessions, es.h.Dashboards))

	es.e.GET("/healthz", es.h.HandleHealthz)

	anonymous := authn.RequireAnonymous(sessions)
	es.e.GET("/signin", es.h.HandleSignInGet, anonymous)
	es.e.POST("/signin", es.h.HandleSignInPost, anonymous)
	es.e.GET("/signup", es.h.HandleSignUpGet, anonymous)
	es.e.POST("/signup", es.h.HandleSignUpPost, anonymous)

	es.e.POST("/theme", es.h.HandleThemeToggle)

	authed := authn.RequireAuth(sessions)
	es.e.GET("/welcome", es.h.HandleWelcome, authed)
	es.e.GET("/dashboard", es.h.HandleDashboard, authed)
	es.e.POST("/dashboard/users", es.h.HandleUserCreate, authed)
	es.e.POST("/dashboard/users/:id", es.h.HandleUserUpdate, authed)
	es.e.POST("/dashboard/users/:id/delete", es.h.HandleUserDelete, authed)
	es.e.POST("/signout", es.h.HandleSignOutPost, authed)

	// Unknown paths land on the public entry, which itself forwards
	// signed-in users to the dashboard.
	es.e.Any("/*", func(c *echo.Context) error {
		return c.Redirect(http.StatusSeeOther, authn.PublicEntry)
	})
}

func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := strings.TrimSpace(c.Request().Header.Get(echo.HeaderXRequestID))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(handlers.ContextKeyRequestID, id)
		c.Response().Header().Set(echo.HeaderXRequestID, id)
		return next(c)
	}
}

func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	status := httpStatusFromError(err)
	switch {
	case status == http.StatusNotFound:
		_ = handlers.RenderNotFound(c)
	case status >= http.StatusInternalServerError:
		_ = es.h.RenderError(c, err)
	default:
		_ = c.String(status, http.StatusText(status))
	}
}

func httpStatusFromError(err error) int {
	var coder interface{ StatusCode() int }
	if errors.As(err, &coder) {
		if code := coder.StatusCode(); code >= 400 && code <= 599 {
			return code
		}
	}
	return http.StatusInternalServerError
}
