package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"percent": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"signed":  func(v float64) string { return fmt.Sprintf("%+.1f", v) },
	"lower":   strings.ToLower,
}).ParseFS(templateFS, "templates/*.html"))

// ErrorPage is the connection-error card.
type ErrorPage struct {
	Title     string
	Message   string
	Detail    string
	RetryHref string
}

// NewErrorPage builds the connection-error card for a failed load. The retry
// link reloads the same URL.
func NewErrorPage(retryHref string) ErrorPage {
	return ErrorPage{
		Title:     "Connection Error",
		Message:   "Unable to load the health journey data.",
		Detail:    "Make sure the journey backend API is running and reachable.",
		RetryHref: retryHref,
	}
}

// Render writes the dashboard page as HTML.
func Render(w io.Writer, p Page) error {
	return execute(w, "dashboard.html", p)
}

// RenderError writes the connection-error page as HTML.
func RenderError(w io.Writer, e ErrorPage) error {
	return execute(w, "error.html", e)
}

// execute renders into a buffer so a template failure never leaves a
// half-written response.
func execute(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
