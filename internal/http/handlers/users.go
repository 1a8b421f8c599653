package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/forms"
	"github.com/userdeck/userdeck/internal/http/views"
)

const (
	saveFailedMessage   = "Failed to save user"
	deleteFailedMessage = "Failed to delete user"
)

func userFormFromRequest(c *echo.Context) forms.User {
	return forms.User{
		FirstName:   c.FormValue("firstName"),
		LastName:    c.FormValue("lastName"),
		Email:       c.FormValue("email"),
		Phone:       c.FormValue("phone"),
		Age:         c.FormValue("age"),
		CompanyName: c.FormValue("companyName"),
		Department:  c.FormValue("department"),
		Title:       c.FormValue("title"),
	}
}

func parseUserID(c *echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// HandleUserCreate creates a user remotely and shows it at the top of the
// current page.
func (h *Handlers) HandleUserCreate(c *echo.Context) error {
	ctx := c.Request().Context()
	ctrl := h.controller(c)
	view := ctrl.View()
	form := userFormFromRequest(c)

	if err := form.Validate(); err != nil {
		dialog := addDialog(view.Page, form)
		dialog.Errors = fieldErrors(err)
		return h.renderDashboard(c, view, dialog)
	}

	input := form.Input()
	resp, err := h.userClient(c).Create(ctx, input)
	if err != nil {
		if errors.Is(err, directory.ErrUnauthorized) || !isRemoteOrTransport(err) {
			return err
		}
		logRemoteError(c, "create user failed", err)
		dialog := addDialog(view.Page, form)
		dialog.ErrorMessage = saveFailedMessage
		return h.renderDashboard(c, view, dialog)
	}

	rec := dashboard.ReconcileCreated(resp, input, view.Records, ctrl.NextLocalID)
	ctrl.ApplyCreated(rec)
	flash(c, "success", "User created", rec.FullName())
	return redirect(c, views.DashboardURL(view.Page, "", 0))
}

// HandleUserUpdate saves an edit. Records that only exist locally are updated
// in place without a remote call.
func (h *Handlers) HandleUserUpdate(c *echo.Context) error {
	ctx := c.Request().Context()
	ctrl := h.controller(c)
	view := ctrl.View()

	id, ok := parseUserID(c)
	if !ok {
		return RenderNotFound(c)
	}
	prev, ok := view.Find(id)
	if !ok {
		flash(c, "warning", "User is no longer on this page", "")
		return redirect(c, views.DashboardURL(view.Page, "", 0))
	}

	form := userFormFromRequest(c)
	if err := form.Validate(); err != nil {
		dialog := editDialog(view.Page, prev, form)
		dialog.Errors = fieldErrors(err)
		return h.renderDashboard(c, view, dialog)
	}

	input := form.Input()
	var rec directory.Record
	if prev.IsLocal() {
		rec = dashboard.LocalRecord(prev, input)
	} else {
		resp, err := h.userClient(c).Update(ctx, id, input)
		if err != nil {
			if errors.Is(err, directory.ErrUnauthorized) || !isRemoteOrTransport(err) {
				return err
			}
			logRemoteError(c, "update user failed", err)
			dialog := editDialog(view.Page, prev, form)
			dialog.ErrorMessage = saveFailedMessage
			return h.renderDashboard(c, view, dialog)
		}
		rec = dashboard.ReconcileUpdated(prev, resp, input)
	}

	ctrl.ApplyUpdated(rec)
	flash(c, "success", "User updated", rec.FullName())
	return redirect(c, views.DashboardURL(view.Page, "", 0))
}

// HandleUserDelete deletes a user, remembers the id for the rest of the
// session and reloads the current page.
func (h *Handlers) HandleUserDelete(c *echo.Context) error {
	ctx := c.Request().Context()
	ctrl := h.controller(c)
	view := ctrl.View()

	id, ok := parseUserID(c)
	if !ok {
		return RenderNotFound(c)
	}
	prev, ok := view.Find(id)
	if !ok {
		prev = directory.Record{ID: id}
	}

	if !prev.IsLocal() {
		if _, err := h.userClient(c).Delete(ctx, id); err != nil {
			if errors.Is(err, directory.ErrUnauthorized) || !isRemoteOrTransport(err) {
				return err
			}
			logRemoteError(c, "delete user failed", err)
			dialog := deleteDialog(view.Page, prev)
			dialog.ErrorMessage = deleteFailedMessage
			return h.renderDashboard(c, view, dialog)
		}
	}

	_, reload := ctrl.ApplyDeleted(id)
	h.Sessions.SetExcludedIDs(ctx, ctrl.Excluded())
	if reload {
		_, err := ctrl.Load(ctx, view.Page)
		if err := h.absorbLoadError(c, err); err != nil {
			return err
		}
	}

	flash(c, "success", "User deleted", prev.FullName())
	return redirect(c, views.DashboardURL(view.Page, "", 0))
}
