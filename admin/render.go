package admin

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "templates/base.html"

// Renderer executes the embedded admin page templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the base layout
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list admin templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == baseTemplate {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).ParseFS(templateFS, baseTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse admin template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes page with data to w
func (r *Renderer) Render(w io.Writer, page string, data interface{}) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown admin page %q", page)
	}
	return t.ExecuteTemplate(w, "base", data)
}
