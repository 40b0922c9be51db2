package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-signup/app/providers"
	"github.com/km-arc/go-signup/framework/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "signup:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New() // loads .env automatically
	if err != nil {
		return err
	}
	if err := application.Register(&providers.SignupServiceProvider{}); err != nil {
		return err
	}
	return application.Run(ctx)
}
