package app

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin/render"
)

// TemplateRenderer renders the console's pages through a shared layout.
// Every page template is compiled against a base set built from
// templates/layouts/ and templates/partials/, so pages only define the
// blocks the layout leaves open ({{ define "title" }}, {{ define "content" }}).
//
// Two modes: in debug the whole tree is re-parsed from disk per request, which
// gives hot reload while editing templates; in release the tree is parsed once
// from the embedded filesystem and served from memory.
type TemplateRenderer struct {
	templates map[string]*template.Template // page name -> compiled set, release mode only
	fs        fs.FS
	funcMap   template.FuncMap
	debug     bool
}

var _ render.HTMLRender = (*TemplateRenderer)(nil)

// NewTemplateRenderer builds a renderer over fsys, which must contain a
// templates/ directory with layouts/, partials/, and one subdirectory per
// page group (entity/, activity/, errors/). Pass os.DirFS("web") with
// debug=true for hot reload, or web.EmbeddedFS with debug=false to serve
// the templates compiled into the binary.
func NewTemplateRenderer(fsys fs.FS, debug bool) (*TemplateRenderer, error) {
	r := &TemplateRenderer{
		fs:      fsys,
		funcMap: templateFuncMap(),
		debug:   debug,
	}

	if !debug {
		templates, err := r.compileAll()
		if err != nil {
			return nil, fmt.Errorf("parse templates: %w", err)
		}
		r.templates = templates
	}

	return r, nil
}

// Instance satisfies gin's render.HTMLRender. The name is the page path
// relative to templates/, e.g. "entity/list.html" or "errors/404.html".
func (r *TemplateRenderer) Instance(name string, data any) render.Render {
	if r.debug {
		templates, err := r.compileAll()
		if err != nil {
			return &HTMLInstance{err: err}
		}
		return &HTMLInstance{
			Template: templates[name],
			Name:     name,
			Data:     data,
		}
	}

	return &HTMLInstance{
		Template: r.templates[name],
		Name:     name,
		Data:     data,
	}
}

// compileAll parses layouts and partials into a base set, then clones the
// base once per page and parses the page on top. Cloning keeps each page's
// block overrides isolated from every other page's.
func (r *TemplateRenderer) compileAll() (map[string]*template.Template, error) {
	layoutFiles, err := fs.Glob(r.fs, "templates/layouts/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob layouts: %w", err)
	}
	partialFiles, err := fs.Glob(r.fs, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	base := template.New("").Funcs(r.funcMap)
	for _, f := range append(layoutFiles, partialFiles...) {
		content, err := fs.ReadFile(r.fs, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		if _, err := base.New(f).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
	}

	pageFiles, err := r.discoverPageTemplates()
	if err != nil {
		return nil, fmt.Errorf("discover pages: %w", err)
	}

	templates := make(map[string]*template.Template, len(pageFiles))
	for _, pf := range pageFiles {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", pf, err)
		}
		content, err := fs.ReadFile(r.fs, pf)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", pf, err)
		}
		// Pages are keyed relative to templates/, e.g. "entity/list.html".
		name := strings.TrimPrefix(pf, "templates/")
		if _, err := clone.New(name).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", pf, err)
		}
		templates[name] = clone
	}

	return templates, nil
}

// discoverPageTemplates returns every .html file under templates/ except the
// layouts/ and partials/ trees, which belong to the base set.
func (r *TemplateRenderer) discoverPageTemplates() ([]string, error) {
	var pages []string
	err := fs.WalkDir(r.fs, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		rel := strings.TrimPrefix(path, "templates/")
		if strings.HasPrefix(rel, "layouts/") || strings.HasPrefix(rel, "partials/") {
			return nil
		}
		pages = append(pages, path)
		return nil
	})
	return pages, err
}

// templateFuncMap is the helper set available to every template.
func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		// json marshals v for embedding in a script context (hx-vals, inline
		// config) without html/template escaping the output a second time.
		"json": func(v any) template.JS {
			b, err := json.Marshal(v)
			if err != nil {
				return template.JS("null")
			}
			return template.JS(b)
		},

		// formatDate renders a timestamp as "YYYY-MM-DD HH:MM:SS".
		"formatDate": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05")
		},

		// dangerouslySetInnerHTML bypasses auto-escaping. Never pass it
		// user-supplied data; it exists for developer-controlled fragments only.
		"dangerouslySetInnerHTML": func(s string) template.HTML {
			return template.HTML(s)
		},

		// add and sub cover prev/next page arithmetic in pagination links.
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},

		// seq yields start..end inclusive for numbered page links.
		"seq": func(start, end int) []int {
			if start > end {
				return nil
			}
			s := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				s = append(s, i)
			}
			return s
		},
	}
}

// HTMLInstance is a single pending template execution returned by Instance.
type HTMLInstance struct {
	Template *template.Template
	Name     string
	Data     any
	err      error // parse failure carried over from debug-mode reloads
}

const htmlContentType = "text/html; charset=utf-8"

// Render executes the page template into w.
func (h *HTMLInstance) Render(w http.ResponseWriter) error {
	h.WriteContentType(w)
	if h.err != nil {
		return h.err
	}
	if h.Template == nil {
		return fmt.Errorf("template %q not found", h.Name)
	}
	return h.Template.ExecuteTemplate(w, h.Name, h.Data)
}

// WriteContentType sets text/html unless a Content-Type is already present.
func (h *HTMLInstance) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{htmlContentType}
	}
}
