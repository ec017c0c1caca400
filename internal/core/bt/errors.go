package bt

import "errors"

// Construction errors
var (
	ErrNilCallback      = errors.New("callback is nil")
	ErrNilChild         = errors.New("child node is nil")
	ErrInvalidThreshold = errors.New("threshold must be at least 1")
	ErrInvalidCount     = errors.New("repeat count must be non-negative or RepeatForever")
	ErrInvalidDuration  = errors.New("duration must be non-negative")
)

// Builder errors
var (
	ErrUnbalancedTree    = errors.New("unbalanced tree: every composite must be closed with End exactly once")
	ErrNothingToDecorate = errors.New("decorator has no preceding node to wrap")
	ErrEmptyTree         = errors.New("tree has no root node")
	ErrRootAlreadySet    = errors.New("tree already has a root node")
	ErrBuilderUsed       = errors.New("builder already produced a tree")
)

// Must returns v or panics with err. It is meant for trees assembled from literals.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
