package directory

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type authPayload struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	Image        string `json:"image"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// Token is the legacy name of the access token field.
	Token string `json:"token"`
}

func (p authPayload) result() AuthResult {
	access := strings.TrimSpace(p.AccessToken)
	if access == "" {
		access = strings.TrimSpace(p.Token)
	}
	return AuthResult{
		Profile: Profile{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Username:  p.Username,
			Image:     p.Image,
		},
		AccessToken:  access,
		RefreshToken: strings.TrimSpace(p.RefreshToken),
	}
}

// Login exchanges credentials for a bearer token and the caller's profile.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	body := map[string]string{
		"username": strings.TrimSpace(username),
		"password": password,
	}
	var payload authPayload
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, body, &payload); err != nil {
		return AuthResult{}, err
	}
	res := payload.result()
	if res.AccessToken == "" {
		return AuthResult{}, errors.New("directory login: response carried no access token")
	}
	return res, nil
}

// Register creates an account. The directory issues no credential for new
// accounts, so an opaque session token is minted locally.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var payload authPayload
	if err := c.do(ctx, "register", http.MethodPost, "/users/add", nil, reg, &payload); err != nil {
		return AuthResult{}, err
	}
	res := payload.result()
	if res.Profile.Username == "" {
		res.Profile.Username = reg.Username
	}
	if res.Profile.Email == "" {
		res.Profile.Email = reg.Email
	}
	if res.Profile.FirstName == "" {
		res.Profile.FirstName = reg.FirstName
	}
	if res.Profile.LastName == "" {
		res.Profile.LastName = reg.LastName
	}
	token := "token_" + uuid.NewString()
	res.AccessToken = token
	res.RefreshToken = token
	return res, nil
}
