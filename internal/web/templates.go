package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageNames = []string{"home", "melons", "melon", "cart", "login", "notfound", "error"}

// Templates pairs each page with the base layout. Parsing happens once at
// startup; a bad template is a fatal wiring error, not a per-request one.
type Templates struct {
	pages map[string]*template.Template
}

func NewTemplates() (*Templates, error) {
	t := &Templates{pages: make(map[string]*template.Template, len(pageNames))}

	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/base.tmpl", "templates/"+name+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("unknown page template %q", page)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
