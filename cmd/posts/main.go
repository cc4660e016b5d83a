// Command posts prints the post list of a site as HTML, the same markup the
// server's posts-list component returns.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/facebookgo/flagenv"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/theagileengineer/blog/blog"
	"github.com/theagileengineer/blog/logging"
	"github.com/theagileengineer/blog/render"
	"github.com/theagileengineer/blog/sitemap"
)

type config struct {
	Root     string
	Sitemap  string
	Timeout  time.Duration
	Marker   string
	Fragment bool
}

func main() {
	var (
		cfg    config
		fDebug = flag.Bool("debug", false, "Enable debug logging.")
	)
	flag.StringVar(&cfg.Root, "root", ".", "Root of web site.")
	flag.StringVar(&cfg.Sitemap, "sitemap", sitemap.DefaultName, "Sitemap file within the root, or an http(s) URL.")
	flag.DurationVar(&cfg.Timeout, "sitemaptimeout", sitemap.DefaultTimeout, "Time allowed for reading the sitemap.")
	flag.StringVar(&cfg.Marker, "postmarker", "", "Substring identifying post locations.")
	flag.BoolVar(&cfg.Fragment, "fragment", false, "Render htmx fragment cards instead of links.")
	flag.Parse()
	flagenv.Parse()

	log := logging.New(*fDebug)
	defer log.Sync()

	err := run(context.Background(), cfg, afero.NewBasePathFs(afero.NewOsFs(), cfg.Root), os.Stdout, log)
	if err != nil {
		log.Errorw("Cannot list posts", "error", err)
		os.Exit(1)
	}
}

// run renders the post list of the site in fsys to w. When the sitemap
// cannot be read, the error fragment is still written.
func run(ctx context.Context, cfg config, fsys afero.Fs, w io.Writer, log *zap.SugaredLogger) error {
	mode := render.Links
	if cfg.Fragment {
		mode = render.Fragment
	}
	r, err := render.New(render.Options{Mode: mode, Marker: cfg.Marker})
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	list := &blog.List{
		Reader: sitemap.New(cfg.Sitemap, fsys, cfg.Timeout),
		Marker: cfg.Marker,
		Log:    log,
	}
	return list.Render(ctx, w, r)
}
