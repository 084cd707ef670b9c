// Package view renders the server-side HTML pages. Presentation is a thin
// collaborator: plain html/template documents embedded into the binary and
// exposed through echo's Renderer interface.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements echo.Renderer over the embedded template set.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates.
func New() *Renderer {
	return &Renderer{
		templates: template.Must(template.New("").Funcs(template.FuncMap{
			"date": func(t interface{ Format(string) string }) string {
				return t.Format("2006-01-02")
			},
			"clock": func(t interface{ Format(string) string }) string {
				return t.Format("15:04")
			},
		}).ParseFS(templateFS, "templates/*.html")),
	}
}

// Render executes the named page template.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
