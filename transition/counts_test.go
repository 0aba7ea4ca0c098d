package transition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvmarkov/matrix"
	"github.com/katalvlaran/lvmarkov/transition"
)

func day(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }

func sample() []transition.Observation {
	// Deliberately unsorted.
	return []transition.Observation{
		{EntityID: "L2", Time: day(2), State: "delinq30"},
		{EntityID: "L1", Time: day(3), State: "performing"},
		{EntityID: "L1", Time: day(1), State: "performing"},
		{EntityID: "L2", Time: day(1), State: "performing"},
		{EntityID: "L1", Time: day(2), State: "delinq30"},
		{EntityID: "L2", Time: day(3), State: "default"},
		{EntityID: "L3", Time: day(1), State: "recovered"},
	}
}

func TestCountTransitions(t *testing.T) {
	c, err := transition.CountTransitions(sample())
	require.NoError(t, err)

	// L1: performing→delinq30→performing; L2: performing→delinq30→default.
	assert.Equal(t, 2, c.Count("performing", "delinq30"))
	assert.Equal(t, 1, c.Count("delinq30", "performing"))
	assert.Equal(t, 1, c.Count("delinq30", "default"))
	assert.Equal(t, 0, c.Count("default", "performing"))
	assert.Equal(t, 4, c.Total())
	assert.Equal(t, 2, c.Outgoing("delinq30"))
	assert.Equal(t, []string{"default", "delinq30", "performing", "recovered"}, c.States())
}

func TestCountTransitions_InvalidRecord(t *testing.T) {
	_, err := transition.CountTransitions([]transition.Observation{{EntityID: "", State: "x"}})
	require.ErrorIs(t, err, transition.ErrInvalidObservation)
	_, err = transition.CountTransitions([]transition.Observation{{EntityID: "a", State: ""}})
	require.ErrorIs(t, err, transition.ErrInvalidObservation)
}

func TestCountTransitions_DoesNotReorderInput(t *testing.T) {
	obs := sample()
	_, err := transition.CountTransitions(obs)
	require.NoError(t, err)
	assert.Equal(t, sample(), obs)
}

func TestMatrix_SelfLoopFallback(t *testing.T) {
	c, err := transition.CountTransitions(sample())
	require.NoError(t, err)

	P, states, err := c.Matrix(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"default", "delinq30", "performing", "recovered"}, states)
	require.NoError(t, matrix.ValidateRowStochastic(P, matrix.DefaultStochasticTolerance))

	assert.Equal(t, [][]float64{
		{1, 0, 0, 0},     // default: no outgoing → self-loop
		{0.5, 0, 0.5, 0}, // delinq30
		{0, 1, 0, 0},     // performing
		{0, 0, 0, 1},     // recovered: single record → self-loop
	}, P.ToRows())
}

func TestMatrix_ExplicitOrderAndUnknownLabel(t *testing.T) {
	c, err := transition.CountTransitions(sample())
	require.NoError(t, err)

	order := []string{"performing", "delinq30", "NPE", "default"}
	P, states, err := c.Matrix(order)
	require.NoError(t, err)
	assert.Equal(t, order, states)
	assert.Equal(t, [][]float64{
		{0, 1, 0, 0},
		{0.5, 0, 0, 0.5},
		{0, 0, 1, 0}, // never observed
		{0, 0, 0, 1},
	}, P.ToRows())

	_, _, err = c.Matrix([]string{"a", "a"})
	require.ErrorIs(t, err, transition.ErrDuplicateState)
	_, _, err = c.Matrix([]string{})
	require.ErrorIs(t, err, transition.ErrNoStates)
}
