package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/facebookgo/flagenv"
	"github.com/golang/groupcache"
	"github.com/spf13/afero"

	"github.com/theagileengineer/blog/logging"
	"github.com/theagileengineer/blog/sitemap"
)

// main is where it all begins. 😀
func main() {
	// Setup flags
	var (
		fPort              = flag.Int("port", 8080, "Port to listen on.")
		fReadTimeout       = flag.Duration("readtimeout", 10*time.Second, "HTTP server read timeout.")
		fReadHeaderTimeout = flag.Duration("readheadertimeout", 5*time.Second, "HTTP server read header timeout.")
		fWriteTimeout      = flag.Duration("writetimeout", 30*time.Second, "HTTP server write timeout.")
		fRoot              = flag.String("root", ".", "Root of web site.")
		fSitemap           = flag.String("sitemap", sitemap.DefaultName, "Sitemap file within the root, or an http(s) URL.")
		fSitemapTimeout    = flag.Duration("sitemaptimeout", sitemap.DefaultTimeout, "Time allowed for reading the sitemap.")
		fCacheSize         = flag.Int64("cachesize", 10*1024*1024, "Size of the static file cache in bytes, 0 to disable.")
		fCacheDuration     = flag.Duration("cacheduration", 10*time.Second, "How long static files stay cached.")
		fWatch             = flag.Bool("watch", false, "Reload templates when they change.")
		fDebug             = flag.Bool("debug", false, "Enable debug logging.")
	)
	flag.Parse()
	flagenv.Parse()

	log := logging.New(*fDebug)
	defer log.Sync()

	// Setup groupcache (with no peers)
	groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })

	s, err := newSite(afero.NewBasePathFs(afero.NewOsFs(), *fRoot), options{
		Sitemap:        *fSitemap,
		SitemapTimeout: *fSitemapTimeout,
		CacheGroup:     "blog",
		CacheSize:      *fCacheSize,
		CacheDuration:  *fCacheDuration,
	}, log)
	if err != nil {
		log.Errorw("Cannot load site", "root", *fRoot, "error", err)
		os.Exit(1)
	}
	log.Infow("Loaded site", "root", *fRoot, "title", s.cfg.SiteTitle, "templates", s.vfs.Templates())
	log.Infow("Registered components", "names", s.registry.Names())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fWatch {
		go func() {
			err := s.vfs.Watch(ctx, filepath.Join(*fRoot, "template"), time.Second)
			if err != nil {
				log.Warnw("Not watching templates", "error", err)
			}
		}()
	}

	// Create HTTP server
	var srv = http.Server{
		Addr:              fmt.Sprintf(":%d", *fPort),
		Handler:           s.handler(),
		ReadTimeout:       *fReadTimeout,
		WriteTimeout:      *fWriteTimeout,
		ReadHeaderTimeout: *fReadHeaderTimeout,
	}

	// Shut down gracefully on SIGINT (terminal) or SIGTERM (kubernetes)
	go func() {
		<-ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			// Error from closing listeners, or context timeout:
			log.Errorw("HTTP server Shutdown", "error", err)
		}
	}()

	// Listen for requests
	log.Infow("Listening for requests", "addr", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("HTTP server", "error", err)
	} else {
		log.Info("Goodbye.")
	}
}
