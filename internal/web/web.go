// Package web holds the embedded page shell: label documents, HTML
// templates and static scripts.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/RMahshie/medvis/internal/lvef"
	"github.com/RMahshie/medvis/pkg/models"
)

//go:embed content/*.json
var contentFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Content returns the embedded page documents, one <page>.json per page.
func Content() fs.FS {
	return mustSub(contentFS, "content")
}

// Static returns the embedded scripts and stylesheets.
func Static() fs.FS {
	return mustSub(staticFS, "static")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Template names, one per page.
const (
	TemplateHome         = "home"
	TemplateLVEF         = "lvef"
	TemplateAttention    = "attention"
	TemplateOpenMirai    = "openmirai"
	TemplateLimAyutthaya = "limayutthaya"
)

var templateNames = []string{
	TemplateHome,
	TemplateLVEF,
	TemplateAttention,
	TemplateOpenMirai,
	TemplateLimAyutthaya,
}

// Page is the data every template receives.
type Page struct {
	Title    string
	BasePath string
	// Main holds the shared site labels such as the back button.
	Main   models.PageContent
	Labels models.PageContent
	// Images are the resolved URLs of Labels.Images() plus Main's images.
	Images map[string]string
	Data   any
}

// LVEFForm is the calculator state shown on the LVEF page.
type LVEFForm struct {
	EDV    string
	ESV    string
	Result *lvef.Result
	Error  string
	Bands  []lvef.Band
}

// AttentionSurface configures the attention demo canvas.
type AttentionSurface struct {
	APIBase       string
	Width         int
	Height        int
	DotRadius     int
	MinRadius     int
	MaxRadius     int
	RefreshMillis int64
}

// Renderer executes the page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the layout together with each page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(templateNames))}
	for _, name := range templateNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render writes the named page.
func (r *Renderer) Render(w io.Writer, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", page)
}

var funcs = template.FuncMap{
	"label": func(pc models.PageContent, path string) string {
		return pc.String(path)
	},
	"items": items,
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"percent": lvef.FormatPercentage,
}

// items returns the array of objects at path, skipping non-object entries.
func items(pc models.PageContent, path string) []models.PageContent {
	v, ok := pc.Lookup(path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]models.PageContent, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, models.PageContent(m))
		}
	}
	return out
}
