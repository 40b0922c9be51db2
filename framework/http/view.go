package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sync"
)

// ViewEngine renders html/template views from a file system. Parsed
// templates are cached unless reload is set.
type ViewEngine struct {
	fsys   fs.FS
	ext    string
	reload bool

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewViewEngine creates a ViewEngine over fsys; ext is the file extension
// (e.g. ".html"). With reload set, views are re-parsed on every render.
func NewViewEngine(fsys fs.FS, ext string, reload bool) *ViewEngine {
	return &ViewEngine{fsys: fsys, ext: ext, reload: reload, cache: make(map[string]*template.Template)}
}

// View renders layout wrapping name. The layout executes the view through
// {{template "content" .}}.
//
//	engine.View(w, "layouts/app", "signup", data)
func (ve *ViewEngine) View(w http.ResponseWriter, layout, name string, data any) {
	tmpl, err := ve.lookup(layout, name)
	if err != nil {
		http.Error(w, "Template error: "+name, http.StatusInternalServerError)
		return
	}
	// A failing template must not send a partial page.
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, path.Base(layout)+ve.ext, data); err != nil {
		http.Error(w, "Render error: "+name, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (ve *ViewEngine) lookup(layout, name string) (*template.Template, error) {
	key := layout + "|" + name
	ve.mu.Lock()
	defer ve.mu.Unlock()
	if t, ok := ve.cache[key]; ok && !ve.reload {
		return t, nil
	}
	t, err := template.ParseFS(ve.fsys, layout+ve.ext, name+ve.ext)
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", name, err)
	}
	ve.cache[key] = t
	return t, nil
}
