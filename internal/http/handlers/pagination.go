package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
	"github.com/userdeck/userdeck/internal/http/views"
)

// pageWindow is how many page links are shown either side of the current one.
const pageWindow = 2

func parsePageParam(c *echo.Context) int {
	return parsePage(c.QueryParam("page"))
}

func parsePage(raw string) int {
	page := 1
	if raw = strings.TrimSpace(raw); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return page
}

func showingRange(totalCount, offset, showingCount int) (int, int) {
	if totalCount <= 0 || showingCount <= 0 {
		return 0, 0
	}
	showingFrom := offset + 1
	showingTo := offset + showingCount
	if showingTo > totalCount {
		showingTo = totalCount
	}
	return showingFrom, showingTo
}

// pageLinks returns links around page, plus previous/next hrefs.
func pageLinks(page, totalPages int) ([]viewmodels.PageLink, string, string) {
	if totalPages < 1 {
		return nil, "", ""
	}
	from := max(1, page-pageWindow)
	to := min(totalPages, page+pageWindow)
	links := make([]viewmodels.PageLink, 0, to-from+1)
	for n := from; n <= to; n++ {
		links = append(links, viewmodels.PageLink{
			Number:  n,
			Href:    views.DashboardURL(n, "", 0),
			Current: n == page,
		})
	}
	prev, next := "", ""
	if page > 1 {
		prev = views.DashboardURL(page-1, "", 0)
	}
	if page < totalPages {
		next = views.DashboardURL(page+1, "", 0)
	}
	return links, prev, next
}
