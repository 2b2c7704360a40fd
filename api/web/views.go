// Package web serves the server-rendered inventory pages and their form posts.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/angelmondragon/stockkeeper/api/responses"
	pkgerrors "github.com/angelmondragon/stockkeeper/pkg/errors"
	"github.com/angelmondragon/stockkeeper/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const requestIDHeader = "X-Request-Id"

// Views renders the embedded page templates.
type Views struct {
	tmpl *template.Template
	logg *logger.Logger
}

// NewViews parses the embedded templates.
func NewViews(logg *logger.Logger) (*Views, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Views{tmpl: tmpl, logg: logg}, nil
}

type errorPage struct {
	Title     string
	Message   string
	RequestID string
}

// Render executes the named page into a buffer first so a template failure
// still yields a clean error page.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		v.RenderError(w, r, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render "+name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RenderError logs err and shows the error page with the status its code maps to.
func (v *Views) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	typed := responses.Typed(err)
	meta := pkgerrors.MetadataFor(typed.Code())
	responses.LogError(r.Context(), v.logg, err)

	page := errorPage{
		Title:     http.StatusText(meta.HTTPStatus),
		Message:   responses.PublicMessage(typed),
		RequestID: w.Header().Get(requestIDHeader),
	}

	var buf bytes.Buffer
	if execErr := v.tmpl.ExecuteTemplate(&buf, "error", page); execErr != nil {
		http.Error(w, page.Message, meta.HTTPStatus)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(meta.HTTPStatus)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}
