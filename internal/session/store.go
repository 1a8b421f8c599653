// Package session keeps the signed-in user's access token and profile, the
// theme preference and per-session dashboard state in an scs session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/userdeck/userdeck/internal/directory"
)

const (
	KeyAccessToken = "accessToken"
	KeyUser        = "user"
	KeyTheme       = "theme"
	KeyDashboardID = "dashboard_id"
	KeyDeletedIDs  = "deleted_ids"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrEmptyToken = errors.New("session: access token is empty")

// Store wraps an scs.SessionManager with typed accessors. Token and profile
// are always written and cleared together.
type Store struct {
	Manager *scs.SessionManager
	now     func() time.Time
}

func New(manager *scs.SessionManager) *Store {
	return &Store{Manager: manager, now: time.Now}
}

// Login stores token and profile and issues a fresh session token. Any
// dashboard state from a previous sign-in is discarded.
func (s *Store) Login(ctx context.Context, token string, profile directory.Profile) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.Manager.RenewToken(ctx); err != nil {
		return err
	}
	s.Manager.Put(ctx, KeyAccessToken, token)
	s.Manager.Put(ctx, KeyUser, string(raw))
	s.Manager.Put(ctx, KeyDashboardID, uuid.NewString())
	s.Manager.Remove(ctx, KeyDeletedIDs)
	return nil
}

// Logout clears the credentials and dashboard state. The theme survives.
func (s *Store) Logout(ctx context.Context) error {
	s.clearAuth(ctx)
	return s.Manager.RenewToken(ctx)
}

func (s *Store) clearAuth(ctx context.Context) {
	s.Manager.Remove(ctx, KeyAccessToken)
	s.Manager.Remove(ctx, KeyUser)
	s.Manager.Remove(ctx, KeyDashboardID)
	s.Manager.Remove(ctx, KeyDeletedIDs)
}

func (s *Store) Token(ctx context.Context) string {
	return s.Manager.GetString(ctx, KeyAccessToken)
}

// Profile decodes the stored profile.
func (s *Store) Profile(ctx context.Context) (directory.Profile, bool) {
	raw := s.Manager.GetString(ctx, KeyUser)
	if raw == "" {
		return directory.Profile{}, false
	}
	var p directory.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return directory.Profile{}, false
	}
	return p, true
}

// IsAuthenticated reports whether the session holds a usable token and
// profile. A half-written or expired credential pair is cleared.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token := s.Token(ctx)
	if token == "" && !s.Manager.Exists(ctx, KeyUser) {
		return false
	}
	_, hasProfile := s.Profile(ctx)
	if token == "" || !hasProfile || tokenExpired(token, s.now()) {
		s.clearAuth(ctx)
		return false
	}
	return true
}

// tokenExpired inspects the exp claim of a JWT without verifying it. Opaque
// tokens and JWTs without exp never expire here; the remote decides.
func tokenExpired(token string, now time.Time) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

// Theme returns the stored theme, light by default.
func (s *Store) Theme(ctx context.Context) string {
	if s.Manager.GetString(ctx, KeyTheme) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// ToggleTheme flips between light and dark and returns the new theme.
func (s *Store) ToggleTheme(ctx context.Context) string {
	next := ThemeDark
	if s.Theme(ctx) == ThemeDark {
		next = ThemeLight
	}
	s.Manager.Put(ctx, KeyTheme, next)
	return next
}

// DashboardID returns the id of this session's dashboard, creating one when
// missing.
func (s *Store) DashboardID(ctx context.Context) string {
	if id := s.Manager.GetString(ctx, KeyDashboardID); id != "" {
		return id
	}
	id := uuid.NewString()
	s.Manager.Put(ctx, KeyDashboardID, id)
	return id
}

// ExcludedIDs returns the ids deleted during this sign-in session.
func (s *Store) ExcludedIDs(ctx context.Context) []int64 {
	raw := s.Manager.GetString(ctx, KeyDeletedIDs)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *Store) SetExcludedIDs(ctx context.Context, ids []int64) {
	if len(ids) == 0 {
		s.Manager.Remove(ctx, KeyDeletedIDs)
		return
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	s.Manager.Put(ctx, KeyDeletedIDs, strings.Join(parts, ","))
}
