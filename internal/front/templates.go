package front

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageTemplates holds one template set per page, each sharing the layout.
type pageTemplates map[string]*template.Template

var pageNames = []string{
	"login",
	"register",
	"orders",
	"order_form",
	"products",
	"product_form",
	"admin",
	"user_form",
}

func parseTemplates() pageTemplates {
	m := make(pageTemplates, len(pageNames))
	for _, name := range pageNames {
		m[name] = template.Must(template.ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return m
}

func (t pageTemplates) render(w io.Writer, name string, data page) error {
	tpl, ok := t[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}
