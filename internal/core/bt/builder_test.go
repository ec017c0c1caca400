package bt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yes(*TickContext) bool { return true }
func no(*TickContext) bool  { return false }

func TestBuilderSequenceWithTwoConditions(t *testing.T) {
	tree, err := NewBuilder().
		Sequence("s").
		Condition("c1", yes).
		Condition("c2", no).
		End().
		Build()
	require.NoError(t, err)

	seq, ok := tree.Root().(*Sequence)
	require.True(t, ok)
	assert.Equal(t, "s", seq.Name())
	require.Len(t, seq.Children(), 2)
	assert.Equal(t, "c1", seq.Children()[0].Name())
	assert.Equal(t, "c2", seq.Children()[1].Name())
	assert.Equal(t, StatusFailure, tree.Tick(nil))
}

func TestBuilderUnclosedCompositeFails(t *testing.T) {
	_, err := NewBuilder().Sequence("s").Build()
	assert.ErrorIs(t, err, ErrUnbalancedTree)
}

func TestBuilderExtraEndFails(t *testing.T) {
	b := NewBuilder().Sequence("s").End().End()
	assert.ErrorIs(t, b.Err(), ErrUnbalancedTree)
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrUnbalancedTree)
}

func TestBuilderEmptyFails(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.ErrorIs(t, err, ErrEmptyTree)
}

func TestBuilderDecoratorWithoutChildFails(t *testing.T) {
	_, err := NewBuilder().Sequence("s").Inverter("inv").End().Build()
	assert.ErrorIs(t, err, ErrNothingToDecorate)

	_, err = NewBuilder().Inverter("inv").Build()
	assert.ErrorIs(t, err, ErrNothingToDecorate)

	// opening a composite clears the slot even if the parent has children
	_, err = NewBuilder().
		Sequence("s").
		Condition("c", yes).
		Selector("sel").
		Repeater("rep", 2).
		Build()
	assert.ErrorIs(t, err, ErrNothingToDecorate)
}

func TestBuilderDecoratorWrapsLastChild(t *testing.T) {
	tree, err := NewBuilder().
		Sequence("s").
		Condition("c1", yes).
		Condition("c2", no).
		Inverter("not c2").
		End().
		Build()
	require.NoError(t, err)

	children := tree.Root().(Composite).Children()
	require.Len(t, children, 2)
	inv, ok := children[1].(*Inverter)
	require.True(t, ok)
	assert.Equal(t, "c2", inv.Child().Name())
	assert.Equal(t, StatusSuccess, tree.Tick(nil))
}

func TestBuilderStackedDecoratorsAndClosedComposite(t *testing.T) {
	tree, err := NewBuilder().
		Selector("root").
		Sequence("inner").
		Action("a", always(StatusSuccess)).
		End().
		Repeater("twice", 2).
		Succeeder("always").
		End().
		Build()
	require.NoError(t, err)

	children := tree.Root().(Composite).Children()
	require.Len(t, children, 1)
	succ, ok := children[0].(*Succeeder)
	require.True(t, ok)
	rep, ok := succ.Child().(*Repeater)
	require.True(t, ok)
	assert.Equal(t, 2, rep.Count())
	assert.Equal(t, "inner", rep.Child().Name())
}

func TestBuilderRootDecoratorFails(t *testing.T) {
	_, err := NewBuilder().Sequence("s").End().UntilFail("loop").Build()
	assert.ErrorIs(t, err, ErrNothingToDecorate)
}

func TestBuilderSecondRootFails(t *testing.T) {
	_, err := NewBuilder().
		Sequence("a").End().
		Sequence("b").End().
		Build()
	assert.ErrorIs(t, err, ErrRootAlreadySet)
}

func TestBuilderLeafRoot(t *testing.T) {
	tree, err := NewBuilder().Wait("idle", 0).Build()
	require.NoError(t, err)
	assert.Equal(t, KindWait, tree.Root().Kind())
	assert.Equal(t, StatusSuccess, tree.Tick(nil))
}

func TestBuilderPropagatesConstructionErrors(t *testing.T) {
	_, err := NewBuilder().Parallel("p", 0, 1).End().Build()
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewBuilder().Sequence("s").Action("a", nil).End().Build()
	assert.ErrorIs(t, err, ErrNilCallback)

	_, err = NewBuilder().Sequence("s").Action("a", always(StatusSuccess)).Repeater("r", -5).End().Build()
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestBuilderParallelDefaults(t *testing.T) {
	tree, err := NewBuilder().
		ParallelDefault("p").
		Action("run", always(StatusRunning)).
		Action("fail", always(StatusFailure)).
		End().
		Build()
	require.NoError(t, err)

	p := tree.Root().(*Parallel)
	s, f := p.Thresholds()
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, f)
	assert.Equal(t, StatusFailure, tree.Tick(nil))
}

func TestBuilderCannotBuildTwice(t *testing.T) {
	b := NewBuilder().Sequence("s").End()
	_, err := b.Build()
	require.NoError(t, err)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilderUsed)
}

func TestBuilderDepth(t *testing.T) {
	b := NewBuilder().Sequence("a").Selector("b")
	assert.Equal(t, 2, b.Depth())
	b.End()
	assert.Equal(t, 1, b.Depth())
}
