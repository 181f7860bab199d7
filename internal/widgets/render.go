package widgets

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
)

// PageTemplate is the name of the root template.
const PageTemplate = "page.html"

// View is the data handed to PageTemplate.
type View struct {
	Title   string
	Layout  string
	Main    []Element
	Sidebar []Element
}

// View snapshots the page for rendering.
func (p *Page) View() View {
	return View{
		Title:   p.cfg.Title,
		Layout:  p.cfg.Layout,
		Main:    p.Container.Elements(),
		Sidebar: p.sidebar.Elements(),
	}
}

// Render executes PageTemplate from t into w.
func (p *Page) Render(w io.Writer, t *template.Template) error {
	return t.ExecuteTemplate(w, PageTemplate, p.View())
}

// ParseTemplates loads every template matching patterns from fsys and adds
// the "element" func, which renders an Element through "widget_<kind>".
func ParseTemplates(fsys fs.FS, patterns ...string) (*template.Template, error) {
	var root *template.Template
	root = template.New(PageTemplate).Funcs(template.FuncMap{
		"element": func(e Element) (template.HTML, error) {
			var buf bytes.Buffer
			if err := root.ExecuteTemplate(&buf, "widget_"+e.Kind(), e); err != nil {
				return "", err
			}
			// already escaped by the widget template
			return template.HTML(buf.String()), nil
		},
	})
	t, err := root.ParseFS(fsys, patterns...)
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return t, nil
}
