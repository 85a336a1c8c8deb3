package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Wiz-2/frontend-login/internal/models"
	"github.com/Wiz-2/frontend-login/internal/web/templates"
)

// TemplateData holds common data passed to templates
type TemplateData struct {
	ViewID  string         // Identifies the form view across requests
	Attempt models.Attempt // Current state of the credential form
	Notice  string         // Local notice not coming from the API (e.g. empty fields)
	Refresh string         // Value of the meta refresh tag, empty for none
	Version string         // Application version
}

// templateFuncs returns custom template functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"alertClass": func(severity any) string {
			return fmt.Sprintf("alert alert-%v", severity)
		},
		"togglePrompt": func(mode models.Mode) string {
			if mode == models.ModeRegister {
				return "Already have an account?"
			}
			return "Don't have an account?"
		},
		"toggleLabel": func(mode models.Mode) string {
			if mode == models.ModeRegister {
				return "Login here"
			}
			return "Register here"
		},
	}
}

// renderTemplate renders a page with the base layout
func (h *Handlers) renderTemplate(w http.ResponseWriter, status int, templateName string, data TemplateData) error {
	data.Version = h.version

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templates.FS,
		"layouts/base.html",
		"pages/"+templateName+".html",
		"partials/*.html",
	)
	if err != nil {
		return err
	}

	// Render into a buffer so a template error can still become a 500
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
