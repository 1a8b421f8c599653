package handlers

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v5"
)

func hxHeader(c *echo.Context, name string) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return strings.TrimSpace(c.Request().Header.Get(name))
}

func isHX(c *echo.Context) bool {
	return strings.EqualFold(hxHeader(c, "HX-Request"), "true")
}

// isHXTarget reports whether the HTMX request swaps the element with id target.
func isHXTarget(c *echo.Context, target string) bool {
	return strings.EqualFold(hxHeader(c, "HX-Target"), strings.TrimSpace(target))
}

func setHXRedirect(c *echo.Context, url string) {
	if c != nil {
		c.Response().Header().Set("HX-Redirect", url)
	}
}

// addVary merges values into the Vary header without duplicates. A "*"
// already present, or among values, wins.
func addVary(c *echo.Context, values ...string) {
	if c == nil || len(values) == 0 {
		return
	}
	header := c.Response().Header()

	var tokens []string
	for _, line := range append(header.Values(echo.HeaderVary), values...) {
		for _, raw := range strings.Split(line, ",") {
			token := strings.TrimSpace(raw)
			if token == "" {
				continue
			}
			if token == "*" {
				header.Set(echo.HeaderVary, "*")
				return
			}
			token = http.CanonicalHeaderKey(token)
			if !slices.ContainsFunc(tokens, func(t string) bool { return strings.EqualFold(t, token) }) {
				tokens = append(tokens, token)
			}
		}
	}
	if len(tokens) > 0 {
		header.Set(echo.HeaderVary, strings.Join(tokens, ", "))
	}
}
