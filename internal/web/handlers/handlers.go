package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/Wiz-2/frontend-login/internal/authflow"
	"github.com/Wiz-2/frontend-login/internal/web/static"
)

// RootPath is the credential form
const RootPath = "/"

// pollInterval is how often a page showing a pending request reloads itself
const pollInterval = time.Second

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	views   *authflow.Views
	logger  *log.Logger
	version string
}

// New creates a new Handlers instance
func New(views *authflow.Views, version string, logger *log.Logger) *Handlers {
	return &Handlers{
		views:   views,
		logger:  logger,
		version: version,
	}
}

// Landing renders the credential form, or performs the post-login redirect once it is due
func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	viewID := r.URL.Query().Get("view")
	ctrl, ok := h.views.Get(viewID)
	if !ok {
		// Unknown or missing view: start a fresh form
		viewID, ctrl = h.views.Open()
	}

	if path, due := ctrl.Navigation(); due {
		// Leaving the form discards its state
		h.views.Close(viewID)
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}

	h.renderForm(w, http.StatusOK, viewID, ctrl, "")
}

// Submit handles the credential form: login or register depending on the view's mode
func (h *Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Printf("Failed to parse form: %v", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	viewID := r.PostFormValue("view")
	ctrl, ok := h.views.Get(viewID)
	if !ok {
		viewID, ctrl = h.views.Open()
	}

	// The outbound call is not aborted if the browser goes away
	ctx := context.WithoutCancel(r.Context())

	state, err := ctrl.Submit(ctx, r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case err == nil:
		h.logger.Printf("View %s: %s finished with status=%s severity=%s", shortID(viewID), state.Mode, state.Status, state.Severity)
	case errors.Is(err, authflow.ErrMissingFields):
		h.renderForm(w, http.StatusBadRequest, viewID, ctrl, "Please enter both a username and a password.")
		return
	case errors.Is(err, authflow.ErrPending):
		// Submit is disabled while a request is in flight; show the pending form again
	case errors.Is(err, authflow.ErrStale):
		http.Redirect(w, r, RootPath, http.StatusSeeOther)
		return
	default:
		h.logger.Printf("Submit failed for view %s: %v", shortID(viewID), err)
		h.InternalError(w, r)
		return
	}

	http.Redirect(w, r, formURL(viewID), http.StatusSeeOther)
}

// Toggle switches the view between login and registration
func (h *Handlers) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Printf("Failed to parse form: %v", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	viewID := r.PostFormValue("view")
	ctrl, ok := h.views.Get(viewID)
	if !ok {
		viewID, ctrl = h.views.Open()
	}

	if _, err := ctrl.Toggle(); err != nil && !errors.Is(err, authflow.ErrPending) {
		h.logger.Printf("Toggle failed for view %s: %v", shortID(viewID), err)
	}

	http.Redirect(w, r, formURL(viewID), http.StatusSeeOther)
}

// Welcome renders the post-login page
func (h *Handlers) Welcome(w http.ResponseWriter, r *http.Request) {
	if err := h.renderTemplate(w, http.StatusOK, "welcome", TemplateData{}); err != nil {
		h.logger.Printf("Error rendering welcome template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Logout navigates back to the credential form
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RootPath, http.StatusSeeOther)
}

// Static serves the embedded stylesheets under /static/
func (h *Handlers) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(static.FS)))
}

// NotFound renders the 404 error page
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := h.renderTemplate(w, http.StatusNotFound, "404", TemplateData{}); err != nil {
		h.logger.Printf("Error rendering 404 template: %v", err)
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// InternalError renders the 500 error page
func (h *Handlers) InternalError(w http.ResponseWriter, r *http.Request) {
	if err := h.renderTemplate(w, http.StatusInternalServerError, "error", TemplateData{}); err != nil {
		h.logger.Printf("Error rendering error template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handlers) renderForm(w http.ResponseWriter, status int, viewID string, ctrl *authflow.Controller, notice string) {
	data := TemplateData{
		ViewID:  viewID,
		Attempt: ctrl.State(),
		Notice:  notice,
	}

	// Reload once the welcome redirect is due, or keep polling while pending
	if remaining, ok := ctrl.PendingNavigation(); ok {
		data.Refresh = refreshValue(remaining, viewID)
	} else if data.Attempt.Loading() {
		data.Refresh = refreshValue(pollInterval, viewID)
	}

	if err := h.renderTemplate(w, status, "login", data); err != nil {
		h.logger.Printf("Error rendering login template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// formURL returns the URL of the credential form for a view
func formURL(viewID string) string {
	return RootPath + "?view=" + url.QueryEscape(viewID)
}

// refreshValue builds a meta refresh value that fires no earlier than d
func refreshValue(d time.Duration, viewID string) string {
	seconds := int(math.Ceil(d.Seconds()))
	return fmt.Sprintf("%d;url=%s", seconds, formURL(viewID))
}

// shortID trims a view ID for log lines
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
