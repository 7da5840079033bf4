// Package view renders the storefront's server-side HTML pages from
// embedded html/template files.
package view

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin/render"
	"golang.org/x/text/language"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// layoutName is the entry template every page executes
const layoutName = "layout"

// Page names
const (
	PageHome     = "home"
	PageSearch   = "search"
	PageProduct  = "product"
	PageBlog     = "blog"
	PageArticle  = "article"
	PageCart     = "cart"
	PageLogin    = "login"
	PageRegister = "register"
	PageAccount  = "account"
	PageCMS      = "page"
	PageError    = "error"
)

// ErrUnknownPage is returned when rendering a page that has no template
var ErrUnknownPage = errors.New("view: unknown page")

// Engine holds one template set per page. Each set is the shared layout and
// partials plus the page's "content" block.
type Engine struct {
	funcMap template.FuncMap
	extra   template.FuncMap
	locale  language.Tag
	pages   map[string]*template.Template
}

// EngineOption configures the engine
type EngineOption func(*Engine)

// WithLocale sets the locale used to format money
func WithLocale(tag language.Tag) EngineOption {
	return func(e *Engine) {
		e.locale = tag
	}
}

// WithFuncs adds template functions, overriding built-ins of the same name
func WithFuncs(funcs template.FuncMap) EngineOption {
	return func(e *Engine) {
		if e.extra == nil {
			e.extra = make(template.FuncMap, len(funcs))
		}
		maps.Copy(e.extra, funcs)
	}
}

// NewEngine parses the embedded templates
func NewEngine(opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		locale: language.English,
		pages:  make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.funcMap = newFuncMap(e.locale)
	maps.Copy(e.funcMap, e.extra)

	base, err := template.New(layoutName).Funcs(e.funcMap).ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		e.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	if _, ok := e.pages[PageError]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, PageError)
	}
	return e, nil
}

// Render executes page into w
func (e *Engine) Render(w io.Writer, page string, data any) error {
	t, ok := e.pages[page]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	return t.ExecuteTemplate(w, layoutName, data)
}

// RenderString renders page to a string
func (e *Engine) RenderString(page string, data any) (string, error) {
	var buf bytes.Buffer
	if err := e.Render(&buf, page, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Instance implements gin's render.HTMLRender. Unknown pages render the
// error template.
func (e *Engine) Instance(name string, data any) render.Render {
	t, ok := e.pages[name]
	if !ok {
		t = e.pages[PageError]
	}
	return render.HTML{Template: t, Name: layoutName, Data: data}
}

// Pages lists the parsed page names
func (e *Engine) Pages() []string {
	names := make([]string, 0, len(e.pages))
	for name := range e.pages {
		names = append(names, name)
	}
	return names
}

// FuncMap returns a copy of the template function map
func (e *Engine) FuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

// StaticFS serves the embedded assets under /static
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var _ render.HTMLRender = (*Engine)(nil)
