// Command signup-cli fills in and validates the sign-up form on a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/km-arc/go-signup/app/terminal"
	"github.com/km-arc/go-signup/framework/config"
	"github.com/km-arc/go-signup/framework/logging"
	"github.com/km-arc/go-signup/signup"
)

func main() {
	ok, err := run()
	switch {
	case errors.Is(err, terminal.ErrInterrupted):
		os.Exit(130)
	case err != nil:
		fmt.Fprintln(os.Stderr, "signup-cli:", err)
		os.Exit(1)
	case !ok:
		os.Exit(2)
	}
}

func run() (bool, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	logger, err := logging.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return false, err
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := signup.DefaultCatalog().WithDefault(cfg.App.Locale)
	if err != nil {
		return false, err
	}
	msgs := catalog.Match(posixLocale("LC_ALL"), posixLocale("LANG"))

	surface := terminal.NewSurface(terminal.NewSurveyPrompter(), os.Stdout, msgs)
	signup.New(surface,
		signup.WithMessages(msgs),
		signup.WithLogger(logger.Named("signup")),
		signup.WithLenientSubmit(cfg.Signup.LenientSubmit),
		signup.WithOnValid(func(v signup.Validated) {
			logger.Info("form accepted", zap.Stringer("id", v.ID), zap.Any("values", v.Values.Redacted()))
		}),
	)
	return surface.Run(ctx)
}

// posixLocale turns an environment locale such as ko_KR.UTF-8 into a tag.
func posixLocale(key string) string {
	v, _, _ := strings.Cut(os.Getenv(key), ".")
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}
