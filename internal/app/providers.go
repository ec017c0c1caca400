package app

import (
	"fmt"
	"math"

	"github.com/zeusync/zeusbt/internal/config"
	"github.com/zeusync/zeusbt/internal/core/bt"
	"github.com/zeusync/zeusbt/internal/core/btconfig"
	"github.com/zeusync/zeusbt/internal/core/observability/log"
	"github.com/zeusync/zeusbt/internal/inspector"
	"github.com/zeusync/zeusbt/internal/runner"
)

// ProvideLogger builds the process logger at the configured level. The cleanup flushes it.
func ProvideLogger(cfg *config.Config) (*log.Logger, func()) {
	logger := log.New(log.ParseLevel(cfg.Log.Level))
	return logger, func() { _ = logger.Sync() }
}

// ProvideMetrics creates the runner collectors under the "zeusbt" namespace.
func ProvideMetrics() *runner.Metrics {
	return runner.NewMetrics("zeusbt")
}

// ProvideRegistry returns the builtins plus the guard demo actions.
func ProvideRegistry() *btconfig.Registry {
	reg := btconfig.NewDefaultRegistry()
	RegisterGuard(reg)
	return reg
}

// ProvideDefinition loads the tree definition named by the config.
func ProvideDefinition(cfg *config.Config) (*btconfig.Definition, error) {
	return btconfig.LoadFile(cfg.Tree.Path)
}

// ProvideRunner builds cfg.Runner.Agents guards from the definition, spread on a ring
// around the origin.
func ProvideRunner(
	cfg *config.Config,
	logger log.Log,
	metrics *runner.Metrics,
	def *btconfig.Definition,
	reg *btconfig.Registry,
) (*runner.Runner, error) {
	r, err := runner.New(runner.Options{
		Interval: cfg.Runner.TickInterval,
		Workers:  cfg.Runner.Workers,
	}, logger, metrics)
	if err != nil {
		return nil, err
	}

	n := cfg.Runner.Agents
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("guard-%03d", i)
		tree, err := def.Build(reg, bt.WithID(id), bt.WithLogger(logger.With(log.String("agent", id))))
		if err != nil {
			return nil, fmt.Errorf("build tree for %s: %w", id, err)
		}
		angle := 2 * math.Pi * float64(i) / float64(n)
		if err = r.Add(NewGuardAgent(id, tree, 7*math.Cos(angle), 7*math.Sin(angle))); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ProvideInspector returns nil when the inspector is disabled.
func ProvideInspector(cfg *config.Config, logger log.Log, r *runner.Runner, metrics *runner.Metrics) *inspector.Server {
	if !cfg.Inspector.Enabled {
		return nil
	}
	s := inspector.New(inspector.Options{
		Addr:       cfg.Inspector.Addr,
		SendBuffer: cfg.Inspector.SendBuffer,
		Metrics:    metrics.Handler(),
		Registerer: metrics.Registry(),
	}, r, logger)
	r.Observe(s.Observe)
	return s
}
