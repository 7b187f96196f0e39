// Package view renders the server side HTML pages.  Templates are embedded
// in the binary; every page is parsed together with the base layout and the
// shared partials and executed through the "base" template.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/flash"
	"github.com/iliyamo/venue-booking/internal/form"
)

//go:embed templates
var templateFiles embed.FS

// Page is the data every template receives.
type Page struct {
	Title   string
	Flashes []flash.Message
	CSRF    string
	Errors  form.Errors // field errors of a rejected submission
	Form    any         // form input to prefill, e.g. form.VenueInput
	Data    any         // page specific payload
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	pages map[string]*template.Template
}

// Datetime layouts for the "datetime" template function.
const (
	FullLayout   = "Monday January, 2, 2006 at 3:04PM"
	MediumLayout = "Mon 01, 02, 2006 3:04PM"
)

// FormatDatetime formats t using the named layout: "full", "medium" or a
// Go layout string.  Times are shown in UTC.
func FormatDatetime(format string, t time.Time) string {
	switch format {
	case "full":
		format = FullLayout
	case "medium":
		format = MediumLayout
	}
	return t.UTC().Format(format)
}

var funcs = template.FuncMap{
	"datetime": FormatDatetime,
	"has": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	"join":   strings.Join,
	"dict":   dict,
	"states": func() []string { return form.States },
	"genres": func() []string { return form.Genres },
}

// dict builds a map from alternating keys and values so partials can take
// more than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	return newRenderer(templateFiles)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	shared := []string{"templates/layouts/*.html", "templates/partials/*.html"}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, dir := range []string{"pages", "forms", "errors"} {
		files, err := fs.Glob(fsys, path.Join("templates", dir, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			name := strings.TrimPrefix(file, "templates/")
			t, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(fsys, append(shared, file)...)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", name, err)
			}
			r.pages[name] = t
		}
	}
	return r, nil
}

// Render executes the page template name, e.g. "pages/venues.html".
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Has reports whether a template called name was parsed.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
