/*
Package component holds the page components of the blog: the navigation
header, the footer and the post list. Components are registered by name once
at start-up and rendered on request, either embedded in a page layout or
served alone under /components/{name}.
*/
package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// A Component renders a piece of markup for the page at path.
type Component interface {
	Render(ctx context.Context, w io.Writer, path string) error
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(ctx context.Context, w io.Writer, path string) error

// Render implements Component.
func (f ComponentFunc) Render(ctx context.Context, w io.Writer, path string) error {
	return f(ctx, w, path)
}

var (
	// ErrDuplicate is returned when a name is registered twice.
	ErrDuplicate = errors.New("component already defined")
	// ErrInvalidName is returned for names without a hyphen, the same rule
	// custom elements follow.
	ErrInvalidName = errors.New("invalid component name")
)

// Registry maps component names to components. It is filled once during
// start-up and only read afterwards.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Component
	Log        *zap.SugaredLogger
}

// NewRegistry returns an empty Registry.
func NewRegistry(log *zap.SugaredLogger) *Registry {
	return &Registry{
		components: make(map[string]Component),
		Log:        log,
	}
}

// Define registers c under name.
func (reg *Registry) Define(name string, c Component) error {
	if !strings.Contains(name, "-") || strings.ToLower(name) != name {
		return fmt.Errorf("Define %q: %w", name, ErrInvalidName)
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.components[name]; ok {
		return fmt.Errorf("Define %q: %w", name, ErrDuplicate)
	}
	reg.components[name] = c
	return nil
}

// Lookup returns the component registered under name.
func (reg *Registry) Lookup(name string) (Component, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	c, ok := reg.components[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	names := make([]string, 0, len(reg.components))
	for n := range reg.components {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render renders the named component for the page at path into w.
func (reg *Registry) Render(ctx context.Context, w io.Writer, name, path string) error {
	c, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("Render %q: not defined", name)
	}
	return c.Render(ctx, w, path)
}

// TemplateFunc returns a function for use in html templates that renders the
// named component for the page at path.
func (reg *Registry) TemplateFunc() func(name, path string) (template.HTML, error) {
	return func(name, path string) (template.HTML, error) {
		var out bytes.Buffer
		err := reg.Render(context.Background(), &out, name, path)
		if err != nil {
			if reg.Log != nil {
				reg.Log.Warnw("cannot render component in template", "name", name, "path", path, "error", err)
			}
			if out.Len() == 0 {
				return "", err
			}
		}
		return template.HTML(out.String()), nil
	}
}

// ServeHTTP serves the component named by the "name" route parameter.
func (reg *Registry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	c, ok := reg.Lookup(name)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var out bytes.Buffer
	status := http.StatusOK
	err := c.Render(r.Context(), &out, CurrentPath(r))
	if err != nil {
		if reg.Log != nil {
			reg.Log.Errorw("cannot render component", "name", name, "error", err)
		}
		status = http.StatusInternalServerError
		if out.Len() == 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(out.Len()))
	w.WriteHeader(status)
	out.WriteTo(w)
}
