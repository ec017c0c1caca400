package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/zeusync/zeusbt/internal/config"
	"github.com/zeusync/zeusbt/internal/injector"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "configs/zeusbt.yaml", "path to the process config file")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	application, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing:", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = application.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error running:", err)
		cleanup()
		os.Exit(1)
	}
}
