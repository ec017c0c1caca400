package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/zeusbt/internal/core/bt"
	"github.com/zeusync/zeusbt/internal/core/observability/log"
)

// Options configures a Runner.
type Options struct {
	Interval time.Duration
	Workers  int
}

// Runner ticks a set of agents at a fixed interval. Agents are sharded over workers by
// the hash of their id, so every tree is ticked by exactly one goroutine per pass.
type Runner struct {
	interval time.Duration
	shards   []*shard
	logger   log.Log
	metrics  *Metrics

	obsMu     sync.RWMutex
	observers []Observer
}

type shard struct {
	mu     sync.Mutex
	agents map[string]*Agent
	order  []string
}

// New creates a runner. A nil logger discards logs and nil metrics get a fresh registry.
func New(opts Options, logger log.Log, metrics *Metrics) (*Runner, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("runner: interval must be positive, got %s", opts.Interval)
	}
	if opts.Workers < 1 {
		return nil, fmt.Errorf("runner: workers must be at least 1, got %d", opts.Workers)
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics("zeusbt")
	}

	r := &Runner{
		interval: opts.Interval,
		shards:   make([]*shard, opts.Workers),
		logger:   logger.With(log.String("component", "runner")),
		metrics:  metrics,
	}
	for i := range r.shards {
		r.shards[i] = &shard{agents: make(map[string]*Agent)}
	}
	return r, nil
}

func (r *Runner) shardFor(id string) *shard {
	return r.shards[xxhash.Sum64String(id)%uint64(len(r.shards))]
}

// Add registers an agent. Ids must be unique.
func (r *Runner) Add(a *Agent) error {
	if a == nil {
		return ErrNilTree
	}
	if err := a.validate(); err != nil {
		return err
	}
	if a.Values == nil {
		a.Values = make(map[string]any)
	}

	s := r.shardFor(a.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[a.ID]; ok {
		return fmt.Errorf("%w: %s", ErrAgentExists, a.ID)
	}
	s.agents[a.ID] = a
	s.order = append(s.order, a.ID)
	r.metrics.agents.Inc()
	return nil
}

// Remove drops an agent and reports whether it was present.
func (r *Runner) Remove(id string) bool {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.agents[id]; !ok {
		return false
	}
	delete(s.agents, id)
	for i, aid := range s.order {
		if aid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	r.metrics.agents.Dec()
	return true
}

// Agent looks an agent up by id. The returned agent must not be mutated while the
// runner is ticking.
func (r *Runner) Agent(id string) (*Agent, bool) {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	return a, ok
}

// ResetAgent discards the in-flight progress of one agent's tree. It waits for the
// agent's worker to finish its current pass.
func (r *Runner) ResetAgent(id string) bool {
	s := r.shardFor(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	if !ok {
		return false
	}
	a.Tree.Reset()
	r.logger.Info("agent reset", log.String("agent", id))
	return true
}

// Len returns the number of registered agents.
func (r *Runner) Len() int {
	n := 0
	for _, s := range r.shards {
		s.mu.Lock()
		n += len(s.agents)
		s.mu.Unlock()
	}
	return n
}

// Observe registers an observer for every subsequent tick event.
func (r *Runner) Observe(obs Observer) {
	if obs == nil {
		return
	}
	r.obsMu.Lock()
	r.observers = append(r.observers, obs)
	r.obsMu.Unlock()
}

func (r *Runner) notify(ev TickEvent) {
	r.obsMu.RLock()
	observers := r.observers
	r.obsMu.RUnlock()
	for _, obs := range observers {
		obs(ev)
	}
}

func (r *Runner) observed() bool {
	r.obsMu.RLock()
	defer r.obsMu.RUnlock()
	return len(r.observers) > 0
}

// Metrics returns the runner's collectors.
func (r *Runner) Metrics() *Metrics { return r.metrics }

// Run ticks all agents every interval until ctx is cancelled. The delta handed to the
// trees is the measured time since the previous pass.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("runner started",
		log.Duration("interval", r.interval),
		log.Int("workers", len(r.shards)),
		log.Int("agents", r.Len()),
	)

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("runner stopped")
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last)
			last = now
			if err := r.TickOnce(ctx, delta); err != nil && ctx.Err() != nil {
				r.logger.Info("runner stopped")
				return nil
			}
		}
	}
}

// TickOnce runs a single pass over all agents with the given delta. Agent failures are
// logged, reported to observers and returned joined; they never stop the other agents.
func (r *Runner) TickOnce(ctx context.Context, delta time.Duration) error {
	errs := make([][]error, len(r.shards))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range r.shards {
		i, s := i, s
		g.Go(func() error {
			var err error
			errs[i], err = r.tickShard(gctx, s, delta)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var all []error
	for _, e := range errs {
		all = append(all, e...)
	}
	return errors.Join(all...)
}

func (r *Runner) tickShard(ctx context.Context, s *shard, delta time.Duration) ([]error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, id := range s.order {
		if err := ctx.Err(); err != nil {
			return errs, err
		}
		if err := r.tickAgent(ctx, s.agents[id], delta); err != nil {
			errs = append(errs, err)
		}
	}
	return errs, nil
}

func (r *Runner) tickAgent(ctx context.Context, a *Agent, delta time.Duration) (err error) {
	for _, sensor := range a.Sensors {
		if serr := sensor.Update(ctx, a.Values, delta); serr != nil {
			err = fmt.Errorf("%w: agent %s: %s: %w", ErrSensor, a.ID, sensor.Name(), serr)
			r.metrics.sensorErrors.Inc()
			r.logger.Warn("sensor update failed",
				log.String("agent", a.ID),
				log.String("sensor", sensor.Name()),
				log.Error(serr),
			)
			r.notify(TickEvent{AgentID: a.ID, Tick: a.Tree.Ticks(), Status: bt.StatusFailure, Err: err, Error: err.Error()})
			return err
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: agent %s: %v", ErrAgentPanic, a.ID, rec)
			r.metrics.panics.Inc()
			r.logger.Error("agent tick panicked, resetting tree",
				log.String("agent", a.ID),
				log.Any("panic", rec),
			)
			a.Tree.Reset()
			r.notify(TickEvent{AgentID: a.ID, Tick: a.Tree.Ticks(), Status: bt.StatusFailure, Err: err, Error: err.Error()})
		}
	}()

	start := time.Now()
	st := a.Tree.Tick(&bt.TickContext{Context: ctx, DeltaTime: delta, Values: a.Values})
	r.metrics.observeTick(st, time.Since(start))

	if r.observed() {
		r.notify(TickEvent{AgentID: a.ID, Tick: a.Tree.Ticks(), Status: st, Snapshot: a.Tree.Snapshot()})
	}
	return nil
}
