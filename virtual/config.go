package virtual

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration written as text, like "5m", in TOML files.
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() (text []byte, err error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	p, err := time.ParseDuration(string(text))
	*d = Duration(p)
	return err
}

// Link is an entry of the navigation header.
type Link struct {
	Label string `toml:"label"`
	Href  string `toml:"href"`
}

// Config contains configuration data from the blog.cfg file.
type Config struct {
	Expires       Duration          `toml:"expires"`
	StaticExpires Duration          `toml:"staticexpires"`
	Headers       map[string]string `toml:"headers"`     // nil leaves the web defaults
	PostMarker    string            `toml:"postmarker"`  // substring identifying post locations
	Description   string            `toml:"description"` // card description
	Target        string            `toml:"target"`      // htmx swap target
	SiteTitle     string            `toml:"sitetitle"`
	BaseURL       string            `toml:"baseurl"` // used for absolute links in the feed
	Author        string            `toml:"author"`
	AuthorURI     string            `toml:"authoruri"`
	Nav           []Link            `toml:"nav"`
}

// DefaultConfig returns the settings used for keys missing from blog.cfg.
func DefaultConfig() Config {
	return Config{
		Expires:       Duration(5 * time.Minute),
		StaticExpires: Duration(24 * time.Hour),
		PostMarker:    "/posts/",
		SiteTitle:     "The Agile Engineer",
		Nav:           []Link{
			{Label: "Blog", Href: "/"},
			{Label: "About", Href: "/about.html"},
			{Label: "Resume", Href: "/resume.html"},
		},
	}
}

// Config returns configuration from the blog.cfg file. Keys that are missing
// or empty take their value from DefaultConfig. It is not an error if the
// file does not exist.
func (vfs *FS) Config() (*Config, error) {
	var cfg Config
	cfgBytes, err := fs.ReadFile(vfs.fs, "blog.cfg")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Cannot read config file: %w", err)
	}
	if err == nil {
		err = toml.Unmarshal(cfgBytes, &cfg)
		if err != nil {
			return nil, fmt.Errorf("Cannot parse config file: %w", err)
		}
	}
	cfg.applyDefaults(DefaultConfig())
	return &cfg, nil
}

func (cfg *Config) applyDefaults(def Config) {
	if cfg.Expires == 0 {
		cfg.Expires = def.Expires
	}
	if cfg.StaticExpires == 0 {
		cfg.StaticExpires = def.StaticExpires
	}
	if cfg.PostMarker == "" {
		cfg.PostMarker = def.PostMarker
	}
	if cfg.SiteTitle == "" {
		cfg.SiteTitle = def.SiteTitle
	}
	if len(cfg.Nav) == 0 {
		cfg.Nav = def.Nav
	}
}
