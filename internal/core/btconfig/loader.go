package btconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/zeusbt/internal/core/bt"
)

// Definition describes a tree as a flat set of named nodes. It is an authoring format:
// it carries structure and parameters only, never runtime progress.
type Definition struct {
	Root  string             `json:"root" yaml:"root"`
	Nodes map[string]NodeDef `json:"nodes" yaml:"nodes"`
}

// NodeDef describes one node. Composites list Children, decorators name a single Child,
// and leaves name a registered Action or Condition.
type NodeDef struct {
	Type      string         `json:"type" yaml:"type"`
	Children  []string       `json:"children,omitempty" yaml:"children,omitempty"`
	Child     string         `json:"child,omitempty" yaml:"child,omitempty"`
	Action    string         `json:"action,omitempty" yaml:"action,omitempty"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadJSON decodes a definition from JSON.
func LoadJSON(r io.Reader) (*Definition, error) {
	var d Definition
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadYAML decodes a definition from YAML.
func LoadYAML(r io.Reader) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Definition, error) {
	var decode func(io.Reader) (*Definition, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		decode = LoadJSON
	case ".yaml", ".yml":
		decode = LoadYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	def, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Build instantiates a fresh tree. Every call returns independent nodes, so one
// definition can drive many agents.
func (d *Definition) Build(reg *Registry, opts ...bt.TreeOption) (*bt.BehaviorTree, error) {
	root, err := d.BuildNode(reg)
	if err != nil {
		return nil, err
	}
	return bt.NewBehaviorTree(root, opts...)
}

// BuildNode instantiates the root node without wrapping it in a tree.
func (d *Definition) BuildNode(reg *Registry) (bt.Node, error) {
	if d.Root == "" {
		return nil, ErrMissingRoot
	}
	b := &nodeBuilder{def: d, reg: reg, state: make(map[string]visit, len(d.Nodes))}
	root, err := b.build(d.Root)
	if err != nil {
		return nil, err
	}
	if err = b.unreachable(); err != nil {
		return nil, err
	}
	return root, nil
}

type visit uint8

const (
	unvisited visit = iota
	visiting
	done
)

type nodeBuilder struct {
	def   *Definition
	reg   *Registry
	state map[string]visit
}

func (b *nodeBuilder) build(name string) (bt.Node, error) {
	nd, ok := b.def.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	switch b.state[name] {
	case visiting:
		return nil, fmt.Errorf("%w: %s", ErrCycle, name)
	case done:
		return nil, fmt.Errorf("%w: %s", ErrSharedNode, name)
	}
	b.state[name] = visiting
	n, err := b.create(name, nd)
	if err != nil {
		return nil, err
	}
	b.state[name] = done
	return n, nil
}

func (b *nodeBuilder) children(nd NodeDef) ([]bt.Node, error) {
	children := make([]bt.Node, 0, len(nd.Children))
	for _, chname := range nd.Children {
		ch, err := b.build(chname)
		if err != nil {
			return nil, err
		}
		children = append(children, ch)
	}
	return children, nil
}

func (b *nodeBuilder) child(name string, nd NodeDef) (bt.Node, error) {
	if nd.Child == "" || len(nd.Children) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDecoratorNeedChild, name)
	}
	return b.build(nd.Child)
}

func (b *nodeBuilder) create(name string, nd NodeDef) (bt.Node, error) {
	switch normalizeType(nd.Type) {
	case "sequence":
		children, err := b.children(nd)
		if err != nil {
			return nil, err
		}
		return bt.NewSequence(name, children...)
	case "selector":
		children, err := b.children(nd)
		if err != nil {
			return nil, err
		}
		return bt.NewSelector(name, children...)
	case "parallel":
		success, err := intParam(nd.Params, "success_threshold", bt.DefaultThreshold)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		failure, err := intParam(nd.Params, "failure_threshold", bt.DefaultThreshold)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		children, err := b.children(nd)
		if err != nil {
			return nil, err
		}
		return bt.NewParallel(name, success, failure, children...)
	case "inverter":
		ch, err := b.child(name, nd)
		if err != nil {
			return nil, err
		}
		return bt.NewInverter(name, ch)
	case "repeater":
		count, err := intParam(nd.Params, "count", bt.RepeatForever)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		ch, err := b.child(name, nd)
		if err != nil {
			return nil, err
		}
		return bt.NewRepeater(name, count, ch)
	case "untilfail":
		ch, err := b.child(name, nd)
		if err != nil {
			return nil, err
		}
		return bt.NewUntilFail(name, ch)
	case "succeeder":
		ch, err := b.child(name, nd)
		if err != nil {
			return nil, err
		}
		return bt.NewSucceeder(name, ch)
	case "wait":
		d, err := durationParam(nd.Params, "duration")
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return bt.NewWait(name, d)
	case "action":
		fn, err := b.reg.NewAction(nd.Action, nd.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return bt.NewAction(name, fn)
	case "condition":
		fn, err := b.reg.NewCondition(nd.Condition, nd.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return bt.NewCondition(name, fn)
	default:
		return nil, fmt.Errorf("%w: %s (node %s)", ErrUnknownType, nd.Type, name)
	}
}

func (b *nodeBuilder) unreachable() error {
	var errs []error
	names := make([]string, 0, len(b.def.Nodes))
	for name := range b.def.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if b.state[name] != done {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnreachableNode, name))
		}
	}
	return errors.Join(errs...)
}

// normalizeType accepts "Sequence", "sequence", "until_fail", "UntilFail" and so on.
func normalizeType(t string) string {
	return strings.ReplaceAll(strings.ToLower(t), "_", "")
}
