package providers

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/km-arc/go-signup/framework/config"
	"github.com/km-arc/go-signup/framework/container"
	gohttp "github.com/km-arc/go-signup/framework/http"
	"github.com/km-arc/go-signup/framework/logging"
	"github.com/km-arc/go-signup/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the configuration from .env and the
// environment.
//
// Bound abstracts:
//   - "config" → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("config", "configuration")
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the zap logger from the log config.
//
// Bound abstracts:
//   - "log" → *zap.Logger
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	app.Singleton("log", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return nil, err
		}
		return logger.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)), nil
	})
	app.Alias("log", "logger")
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton("router", func(c *container.Container) (any, error) {
		logger, err := container.Resolve[*zap.Logger](c, "log")
		if err != nil {
			return nil, err
		}
		return routing.New(logger.Named("http")), nil
	})
	return nil
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine over FS. Templates are
// re-parsed on every render when APP_ENV is local.
//
// Bound abstracts:
//   - "view" → *gohttp.ViewEngine
type ViewServiceProvider struct {
	container.BaseProvider
	FS  fs.FS
	Ext string // default: ".html"
}

func (p *ViewServiceProvider) Register(app *container.Container) error {
	fsys := p.FS
	ext := p.Ext
	if ext == "" {
		ext = ".html"
	}
	app.Singleton("view", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return gohttp.NewViewEngine(fsys, ext, cfg.App.Env == "local"), nil
	})
	return nil
}
