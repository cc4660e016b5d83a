package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/ancientlore/cachefs"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/theagileengineer/blog/blog"
	"github.com/theagileengineer/blog/component"
	"github.com/theagileengineer/blog/render"
	"github.com/theagileengineer/blog/sitemap"
	"github.com/theagileengineer/blog/virtual"
	"github.com/theagileengineer/blog/web"
)

// options are the process settings that shape the site.
type options struct {
	Sitemap        string        // file name in the site, or an http(s) URL
	SitemapTimeout time.Duration // bound on every sitemap read
	CacheGroup     string        // groupcache group for static files
	CacheSize      int64         // cache size in bytes, 0 disables the cache
	CacheDuration  time.Duration // how long static files stay cached
}

// site holds everything needed to serve the blog from one directory.
type site struct {
	vfs      *virtual.FS
	cfg      *virtual.Config
	static   fs.FS // vfs, cached when enabled
	list     *blog.List
	links    *render.Renderer
	frags    *render.Renderer
	registry *component.Registry
	log      *zap.SugaredLogger
}

// newSite builds the site served from fsys.
func newSite(fsys afero.Fs, opts options, log *zap.SugaredLogger) (*site, error) {
	s := site{
		registry: component.NewRegistry(log.Named("component")),
		log:      log,
	}

	var err error
	s.vfs, err = virtual.New(afero.NewIOFS(fsys), template.FuncMap{
		"component": s.registry.TemplateFunc(),
	})
	if err != nil {
		return nil, fmt.Errorf("newSite: %w", err)
	}
	s.vfs.Log = log.Named("virtual")

	s.cfg, err = s.vfs.Config()
	if err != nil {
		return nil, fmt.Errorf("newSite: %w", err)
	}

	s.list = &blog.List{
		Reader: sitemap.New(opts.Sitemap, fsys, opts.SitemapTimeout),
		Marker: s.cfg.PostMarker,
		Log:    log.Named("posts"),
	}
	renderOpts := render.Options{
		Description: s.cfg.Description,
		Marker:      s.cfg.PostMarker,
		Target:      s.cfg.Target,
	}
	renderOpts.Mode = render.Links
	if s.links, err = render.New(renderOpts); err != nil {
		return nil, fmt.Errorf("newSite: %w", err)
	}
	renderOpts.Mode = render.Fragment
	if s.frags, err = render.New(renderOpts); err != nil {
		return nil, fmt.Errorf("newSite: %w", err)
	}

	components := map[string]component.Component{
		"blog-header": &component.Header{
			Site:  s.cfg.SiteTitle,
			Links: lo.Map(s.cfg.Nav, func(l virtual.Link, _ int) component.NavLink {
				return component.NavLink{Label: l.Label, Href: l.Href}
			}),
		},
		"blog-footer": &component.Footer{Domain: domain(s.cfg)},
		"posts-list":  &component.PostsList{List: s.list, Renderer: s.links},
	}
	for name, c := range components {
		if err = s.registry.Define(name, c); err != nil {
			return nil, fmt.Errorf("newSite: %w", err)
		}
	}

	s.static = s.vfs
	if opts.CacheSize > 0 {
		s.static = cachefs.New(s.vfs, &cachefs.Config{
			GroupName:   opts.CacheGroup,
			SizeInBytes: opts.CacheSize,
			Duration:    opts.CacheDuration,
		})
	}
	return &s, nil
}

// domain returns the site name shown in the footer.
func domain(cfg *virtual.Config) string {
	if u, err := url.Parse(cfg.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return cfg.SiteTitle
}

// routes returns the router for the site.
func (s *site) routes() http.Handler {
	static := web.CleanURLHandler(http.FileServer(http.FS(s.static)), s.vfs)

	r := chi.NewRouter()
	r.Method(http.MethodGet, "/sitemap.xml", web.FragmentSwitch(
		&blog.Handler{List: s.list, Renderer: s.frags, Log: s.log.Named("posts")},
		http.HandlerFunc(s.serveSitemap),
	))
	r.Get("/posts/{name}.html", s.servePost(static))
	r.Get(web.ComponentPrefix+"{name}", s.registry.ServeHTTP)
	r.Method(http.MethodGet, "/index.xml", &blog.FeedHandler{
		List:        s.list,
		Title:       s.cfg.SiteTitle,
		BaseURL:     s.cfg.BaseURL,
		Author:      s.cfg.Author,
		AuthorURI:   s.cfg.AuthorURI,
		Description: lo.Ternary(s.cfg.Description != "", s.cfg.Description, render.DefaultDescription),
		Log:         s.log.Named("feed"),
	})
	r.Handle("/*", static)
	return r
}

// handler returns the routes wrapped with the site wide middleware.
func (s *site) handler() http.Handler {
	return web.LogHandler(
		web.HeaderHandler(
			web.ExpiresHandler(
				gziphandler.GzipHandler(
					web.ErrorHandler(s.routes(), s.vfs),
				),
				time.Duration(s.cfg.Expires),
				time.Duration(s.cfg.StaticExpires),
			),
			s.cfg.Headers,
		),
		s.log.Named("http"),
	)
}

// serveSitemap serves the sitemap file itself. It never goes through the
// static file cache, so the file and the post list always agree.
func (s *site) serveSitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	http.FileServer(http.FS(s.vfs)).ServeHTTP(w, r)
}

// servePost serves a post page: the fragment for htmx requests, the complete
// page through static otherwise.
func (s *site) servePost(static http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if !s.vfs.Exists(name) {
			http.Error(w, "Post not found", http.StatusNotFound)
			return
		}
		if !web.IsFragmentRequest(r) {
			static.ServeHTTP(w, r)
			return
		}
		b, err := s.vfs.Fragment(name)
		if err != nil {
			s.log.Errorw("Cannot render post", "post", name, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(b)
	}
}
