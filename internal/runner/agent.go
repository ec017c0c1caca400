package runner

import (
	"context"
	"errors"
	"time"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

// Registration errors
var (
	// ErrNilTree is returned by Add for a nil agent or an agent without a tree.
	ErrNilTree = errors.New("agent has no tree")
	// ErrEmptyAgentID is returned by Add when the agent id is blank.
	ErrEmptyAgentID = errors.New("agent id is empty")
	// ErrAgentExists is returned by Add when the id is already taken.
	ErrAgentExists = errors.New("agent already registered")
)

// Tick errors, joined into the result of TickOnce
var (
	// ErrAgentPanic wraps a panic recovered from a leaf callback. The agent's tree is reset.
	ErrAgentPanic = errors.New("agent tick panicked")
	// ErrSensor wraps a sensor failure. The agent's tree is not ticked that pass.
	ErrSensor = errors.New("sensor update failed")
)

// Sensor refreshes an agent's values before its tree is ticked.
type Sensor interface {
	Name() string
	Update(ctx context.Context, values map[string]any, delta time.Duration) error
}

// SensorFunc adapts a function to the Sensor interface.
type SensorFunc struct {
	ID string
	Fn func(ctx context.Context, values map[string]any, delta time.Duration) error
}

// Name returns the sensor id used in logs and errors.
func (s SensorFunc) Name() string { return s.ID }

// Update calls Fn.
func (s SensorFunc) Update(ctx context.Context, values map[string]any, delta time.Duration) error {
	return s.Fn(ctx, values, delta)
}

// Agent is one ticked entity. Values is passed to the tree as TickContext.Values and is
// only touched by the worker that owns the agent.
type Agent struct {
	ID      string
	Tree    *bt.BehaviorTree
	Values  map[string]any
	Sensors []Sensor
}

// NewAgent returns an agent with an empty value map.
func NewAgent(id string, tree *bt.BehaviorTree, sensors ...Sensor) *Agent {
	return &Agent{ID: id, Tree: tree, Values: make(map[string]any), Sensors: sensors}
}

func (a *Agent) validate() error {
	if a.ID == "" {
		return ErrEmptyAgentID
	}
	if a.Tree == nil {
		return ErrNilTree
	}
	return nil
}

// TickEvent describes one agent tick. Snapshot is empty when the tick failed before the
// tree ran.
type TickEvent struct {
	AgentID  string          `json:"agent"`
	Tick     uint64          `json:"tick"`
	Status   bt.Status       `json:"status"`
	Snapshot bt.NodeSnapshot `json:"tree"`
	Err      error           `json:"-"`
	Error    string          `json:"error,omitempty"`
}

// Observer receives tick events. Workers call observers concurrently.
type Observer func(TickEvent)
