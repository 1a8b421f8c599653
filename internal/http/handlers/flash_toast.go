package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
)

const flashToastCookieName = "userdeck_toast"

// flash stores a toast for the next rendered page.
func flash(c *echo.Context, category, title, description string) {
	toast, ok := cleanToast(viewmodels.ToastViewData{Category: category, Title: title, Description: description})
	if !ok {
		return
	}
	payload, err := json.Marshal(toast)
	if err != nil {
		return
	}
	c.SetCookie(toastCookie(base64.RawURLEncoding.EncodeToString(payload), 30))
}

func popFlashToast(c *echo.Context) *viewmodels.ToastViewData {
	cookie, err := c.Cookie(flashToastCookieName)
	if err != nil || cookie == nil {
		return nil
	}
	expired := toastCookie("", -1)
	expired.Expires = time.Unix(0, 0)
	c.SetCookie(expired)

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var toast viewmodels.ToastViewData
	if err := json.Unmarshal(raw, &toast); err != nil {
		return nil
	}
	toast, ok := cleanToast(toast)
	if !ok {
		return nil
	}
	return &toast
}

func toastCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     flashToastCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func cleanToast(t viewmodels.ToastViewData) (viewmodels.ToastViewData, bool) {
	switch c := strings.ToLower(strings.TrimSpace(t.Category)); c {
	case "success", "error", "warning", "info":
		t.Category = c
	default:
		t.Category = "info"
	}
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	return t, t.Title != "" || t.Description != ""
}
