package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"
	"github.com/userdeck/userdeck/internal/dashboard"
	"github.com/userdeck/userdeck/internal/directory"
	"github.com/userdeck/userdeck/internal/forms"
	"github.com/userdeck/userdeck/internal/http/viewmodels"
	"github.com/userdeck/userdeck/internal/http/views"
)

const (
	dashboardResultsTarget = "dashboard-results"
	loadFailedMessage      = "Failed to load users"
)

// HandleDashboard renders the users page. HTMX pagination requests get only
// the results fragment.
func (h *Handlers) HandleDashboard(c *echo.Context) error {
	addVary(c, "HX-Request", "HX-Target")

	ctrl := h.controller(c)
	view, err := ctrl.Show(c.Request().Context(), parsePageParam(c))
	if err := h.absorbLoadError(c, err); err != nil {
		return err
	}

	if isHX(c) && isHXTarget(c, dashboardResultsTarget) {
		return h.RenderComponent(c, views.DashboardResults(resultsData(view)))
	}
	return h.renderDashboard(c, view, h.dialogFromQuery(c, view))
}

// absorbLoadError turns failures that are shown in the page into nil. A stale
// response renders the newer state; a rejected token propagates for teardown.
func (h *Handlers) absorbLoadError(c *echo.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dashboard.ErrStaleResponse):
		return nil
	case errors.Is(err, directory.ErrUnauthorized):
		return err
	case isRemoteOrTransport(err):
		logRemoteError(c, "load users failed", err)
		return nil
	default:
		return err
	}
}

func (h *Handlers) renderDashboard(c *echo.Context, view dashboard.View, dialog *viewmodels.UserDialogData) error {
	layout := h.LayoutData(c, "Users")
	if dialog != nil {
		dialog.CSRFToken = layout.CSRFToken
	}
	return h.RenderComponent(c, views.DashboardPage(viewmodels.DashboardViewData{
		Layout:  layout,
		Results: resultsData(view),
		Dialog:  dialog,
	}))
}

func (h *Handlers) dialogFromQuery(c *echo.Context, view dashboard.View) *viewmodels.UserDialogData {
	open := strings.ToLower(strings.TrimSpace(c.QueryParam("open")))
	switch open {
	case viewmodels.DialogAdd:
		return addDialog(view.Page, forms.BlankUser())
	case viewmodels.DialogEdit, viewmodels.DialogDelete:
		id, err := strconv.ParseInt(strings.TrimSpace(c.QueryParam("id")), 10, 64)
		if err != nil {
			return nil
		}
		rec, ok := view.Find(id)
		if !ok {
			return nil
		}
		if open == viewmodels.DialogEdit {
			return editDialog(view.Page, rec, forms.UserFromRecord(rec))
		}
		return deleteDialog(view.Page, rec)
	default:
		return nil
	}
}

func resultsData(view dashboard.View) viewmodels.DashboardResultsData {
	page := max(view.Page, 1)
	users := make([]viewmodels.UserCardItem, 0, len(view.Records))
	for _, r := range view.Records {
		users = append(users, userCard(page, r))
	}

	offset := (page - 1) * view.PageSize
	from, to := showingRange(view.Total, offset, len(users))
	links, prev, next := pageLinks(page, view.TotalPages)

	data := viewmodels.DashboardResultsData{
		Users:       users,
		Page:        page,
		TotalPages:  view.TotalPages,
		Total:       view.Total,
		ShowingFrom: from,
		ShowingTo:   to,
		Pages:       links,
		PrevHref:    prev,
		NextHref:    next,
		AddHref:     views.DashboardURL(page, viewmodels.DialogAdd, 0),
		Short:       view.Short,
	}
	if view.Status == dashboard.StatusFailed {
		data.ErrorMessage = loadFailedMessage
	}
	return data
}

func userCard(page int, r directory.Record) viewmodels.UserCardItem {
	return viewmodels.UserCardItem{
		ID:         r.ID,
		FullName:   r.FullName(),
		Initials:   views.Initials(r.FirstName, r.LastName),
		Email:      r.Email,
		Phone:      r.Phone,
		Age:        r.Age,
		Image:      r.Image,
		Title:      r.Company.Title,
		Department: r.Company.Department,
		Company:    r.Company.Name,
		Local:      r.IsLocal(),
		EditHref:   views.DashboardURL(page, viewmodels.DialogEdit, r.ID),
		DeleteHref: views.DashboardURL(page, viewmodels.DialogDelete, r.ID),
	}
}

func addDialog(page int, form forms.User) *viewmodels.UserDialogData {
	return &viewmodels.UserDialogData{
		Mode:      viewmodels.DialogAdd,
		Action:    "/dashboard/users",
		CloseHref: views.DashboardURL(page, "", 0),
		Form:      formFields(form),
		Page:      page,
	}
}

func editDialog(page int, rec directory.Record, form forms.User) *viewmodels.UserDialogData {
	return &viewmodels.UserDialogData{
		Mode:      viewmodels.DialogEdit,
		ID:        rec.ID,
		Action:    "/dashboard/users/" + strconv.FormatInt(rec.ID, 10),
		CloseHref: views.DashboardURL(page, "", 0),
		FullName:  rec.FullName(),
		Form:      formFields(form),
		Page:      page,
	}
}

func deleteDialog(page int, rec directory.Record) *viewmodels.UserDialogData {
	return &viewmodels.UserDialogData{
		Mode:      viewmodels.DialogDelete,
		ID:        rec.ID,
		Action:    "/dashboard/users/" + strconv.FormatInt(rec.ID, 10) + "/delete",
		CloseHref: views.DashboardURL(page, "", 0),
		FullName:  rec.FullName(),
		Page:      page,
	}
}

func formFields(f forms.User) viewmodels.UserFormFields {
	return viewmodels.UserFormFields{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		Email:       f.Email,
		Phone:       f.Phone,
		Age:         f.Age,
		CompanyName: f.CompanyName,
		Department:  f.Department,
		Title:       f.Title,
	}
}
