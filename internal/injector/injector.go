//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/zeusbt/internal/app"
	"github.com/zeusync/zeusbt/internal/config"
	"github.com/zeusync/zeusbt/internal/core/observability/log"
)

var appSet = wire.NewSet(
	app.ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	app.ProvideMetrics,
	app.ProvideRegistry,
	app.ProvideDefinition,
	app.ProvideRunner,
	app.ProvideInspector,
	app.New,
)

// InitializeApp wires the application from the process config.
func InitializeApp(cfg *config.Config) (*app.App, func(), error) {
	wire.Build(appSet)
	return nil, nil, nil
}
