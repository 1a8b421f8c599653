package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/forms"
	"github.com/userdeck/userdeck/internal/http/authn"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
	"github.com/userdeck/userdeck/internal/http/views"
)

const (
	signInFailedMessage = "Invalid username or password"
	signUpFailedMessage = "Registration failed. Please try again."
)

func (h *Handlers) HandleSignInGet(c *echo.Context) error {
	return h.RenderComponent(c, views.SignInPage(viewmodels.SignInViewData{
		Layout: h.LayoutData(c, "Sign In"),
	}))
}

func (h *Handlers) HandleSignInPost(c *echo.Context) error {
	ctx := c.Request().Context()
	form := forms.SignIn{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
	data := viewmodels.SignInViewData{
		Layout:   h.LayoutData(c, "Sign In"),
		Username: form.Username,
	}

	if err := form.Validate(); err != nil {
		data.Errors = fieldErrors(err)
		return h.RenderComponent(c, views.SignInPage(data))
	}

	res, err := h.Directory.Login(ctx, form.Username, form.Password)
	if err != nil {
		if !isRemoteOrTransport(err) {
			return err
		}
		logRemoteError(c, "sign in failed", err)
		data.ErrorMessage = signInFailedMessage
		return h.RenderComponent(c, views.SignInPage(data))
	}

	if err := h.Sessions.Login(ctx, res.AccessToken, res.Profile); err != nil {
		return err
	}
	return redirect(c, "/welcome")
}

func (h *Handlers) HandleSignUpGet(c *echo.Context) error {
	return h.RenderComponent(c, views.SignUpPage(viewmodels.SignUpViewData{
		Layout: h.LayoutData(c, "Sign Up"),
	}))
}

func (h *Handlers) HandleSignUpPost(c *echo.Context) error {
	ctx := c.Request().Context()
	form := forms.SignUp{
		FirstName:       c.FormValue("firstName"),
		LastName:        c.FormValue("lastName"),
		Email:           c.FormValue("email"),
		Username:        c.FormValue("username"),
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirmPassword"),
	}
	data := viewmodels.SignUpViewData{
		Layout:    h.LayoutData(c, "Sign Up"),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Username:  form.Username,
	}

	if err := form.Validate(); err != nil {
		data.Errors = fieldErrors(err)
		return h.RenderComponent(c, views.SignUpPage(data))
	}

	res, err := h.Directory.Register(ctx, form.Registration())
	if err != nil {
		if !isRemoteOrTransport(err) {
			return err
		}
		logRemoteError(c, "sign up failed", err)
		data.ErrorMessage = signUpFailedMessage
		return h.RenderComponent(c, views.SignUpPage(data))
	}

	if err := h.Sessions.Login(ctx, res.AccessToken, res.Profile); err != nil {
		return err
	}
	return redirect(c, "/welcome")
}

func (h *Handlers) HandleSignOutPost(c *echo.Context) error {
	ctx := c.Request().Context()
	if h.Dashboards != nil {
		h.Dashboards.Drop(h.Sessions.DashboardID(ctx))
	}
	if err := h.Sessions.Logout(ctx); err != nil {
		return err
	}
	flash(c, "success", "Signed out", "")
	return redirect(c, "/signin")
}

func (h *Handlers) HandleWelcome(c *echo.Context) error {
	profile, _ := h.Sessions.Profile(c.Request().Context())
	return h.RenderComponent(c, views.WelcomePage(viewmodels.WelcomeViewData{
		Layout:    h.LayoutData(c, "Welcome"),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Username:  profile.Username,
		Email:     profile.Email,
		Image:     profile.Image,
	}))
}

// HandleThemeToggle flips the theme and returns to the page it came from.
func (h *Handlers) HandleThemeToggle(c *echo.Context) error {
	h.Sessions.ToggleTheme(c.Request().Context())
	return redirect(c, themeReturnPath(c.Request()))
}

func themeReturnPath(req *http.Request) string {
	if next := authn.SanitizeNext(req.FormValue("next")); next != "" {
		return next
	}
	if ref, err := url.Parse(req.Referer()); err == nil && ref.Path != "" {
		if next := authn.SanitizeNext(ref.RequestURI()); next != "" {
			return next
		}
	}
	return "/signup"
}

func fieldErrors(err error) map[string]string {
	var verr *forms.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{}
}

// isRemoteOrTransport reports failures the user sees as an inline alert.
func isRemoteOrTransport(err error) bool {
	return errors.Is(err, directory.ErrRemote) ||
		errors.Is(err, directory.ErrTransport) ||
		errors.Is(err, directory.ErrDecode)
}
