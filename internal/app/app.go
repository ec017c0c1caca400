package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/zeusbt/internal/core/observability/log"
	"github.com/zeusync/zeusbt/internal/inspector"
	"github.com/zeusync/zeusbt/internal/runner"
)

const shutdownTimeout = 5 * time.Second

// App runs the agent runner and, optionally, the inspector until its context ends.
type App struct {
	logger    log.Log
	runner    *runner.Runner
	inspector *inspector.Server
}

// New assembles an App. insp may be nil when the inspector is disabled.
func New(logger log.Log, r *runner.Runner, insp *inspector.Server) *App {
	return &App{logger: logger, runner: r, inspector: insp}
}

// Runner returns the agent runner.
func (a *App) Runner() *runner.Runner { return a.runner }

// Run blocks until ctx ends or a component fails, then shuts the inspector down.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.runner.Run(gctx)
	})

	if a.inspector != nil {
		g.Go(func() error {
			return a.inspector.ListenAndServe()
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return a.inspector.Shutdown(sctx)
		})
	}

	err := g.Wait()
	a.logger.Info("zeusbt stopped")
	return err
}
