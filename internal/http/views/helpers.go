package views

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// DashboardURL builds a dashboard link. open and id select a dialog.
func DashboardURL(page int, open string, id int64) string {
	values := url.Values{}
	if page > 1 {
		values.Set("page", strconv.Itoa(page))
	}
	if open = strings.TrimSpace(open); open != "" {
		values.Set("open", open)
		if id != 0 {
			values.Set("id", strconv.FormatInt(id, 10))
		}
	}
	if len(values) == 0 {
		return "/dashboard"
	}
	return "/dashboard?" + values.Encode()
}

// Initials returns up to two uppercase initials for an avatar placeholder.
func Initials(firstName, lastName string) string {
	var b strings.Builder
	for _, part := range []string{firstName, lastName} {
		for _, r := range strings.TrimSpace(part) {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
