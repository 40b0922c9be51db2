package providers

import (
	"go.uber.org/zap"

	"github.com/km-arc/go-signup/app/controllers"
	"github.com/km-arc/go-signup/framework/config"
	"github.com/km-arc/go-signup/framework/container"
	gohttp "github.com/km-arc/go-signup/framework/http"
	"github.com/km-arc/go-signup/framework/routing"
	"github.com/km-arc/go-signup/routes"
	"github.com/km-arc/go-signup/signup"
)

// SignupServiceProvider wires the sign-up form into the application.
//
// Bound abstracts:
//   - "signup.catalog"    → *signup.Catalog
//   - "signup.controller" → *controllers.SignupController
//
// Boot mounts the routes.
type SignupServiceProvider struct {
	// OnValid, when set, receives every form that passes submit validation.
	// Left nil, accepted forms are only logged.
	OnValid func(signup.Validated)
}

func (p *SignupServiceProvider) Register(app *container.Container) error {
	app.Singleton("signup.catalog", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return signup.DefaultCatalog().WithDefault(cfg.App.Locale)
	})

	onValid := p.OnValid
	app.Singleton("signup.controller", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		catalog, err := container.Resolve[*signup.Catalog](c, "signup.catalog")
		if err != nil {
			return nil, err
		}
		views, err := container.Resolve[*gohttp.ViewEngine](c, "view")
		if err != nil {
			return nil, err
		}
		logger, err := container.Resolve[*zap.Logger](c, "log")
		if err != nil {
			return nil, err
		}
		ctrl := controllers.NewSignupController(catalog, views, cfg.Signup, logger.Named("signup"))
		ctrl.OnValid = onValid
		return ctrl, nil
	})
	return nil
}

func (p *SignupServiceProvider) Boot(app *container.Container) error {
	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	ctrl, err := container.Resolve[*controllers.SignupController](app, "signup.controller")
	if err != nil {
		return err
	}
	routes.Register(router, ctrl, cfg.Signup.LivePath)
	return nil
}
