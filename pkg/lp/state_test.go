package lp

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildState() *RelaxationState {
	return &RelaxationState{
		ColValues:    []float64{1.8, 2.8, 0},
		ReducedCosts: []float64{0, 0, 0.5},
		RowDuals:     []float64{-0.2, -0.6},
		ColBasis:     []BasisStatus{BasisBasic, BasisBasic, BasisAtLower},
		RowBasis:     []BasisStatus{BasisAtLower, BasisAtUpper},
		Objective:    -4.6,
	}
}

func TestStateValidate(t *testing.T) {
	m := buildModel()
	require.NoError(t, buildState().Validate(m))

	s := buildState()
	s.ColValues = s.ColValues[:2]
	assert.ErrorIs(t, s.Validate(m), ErrStateMismatch)

	s = buildState()
	s.ColBasis = nil
	s.RowBasis = nil
	assert.ErrorIs(t, s.Validate(m), ErrNoBasis)

	s = buildState()
	s.RowBasis = s.RowBasis[:1]
	assert.ErrorIs(t, s.Validate(m), ErrStateMismatch)
}

func TestStateRoundTrip(t *testing.T) {
	s := buildState()

	var buf bytes.Buffer
	require.NoError(t, s.Write(&buf))

	got, err := ReadState(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestStateFileRoundTrip(t *testing.T) {
	s := buildState()
	path := filepath.Join(t.TempDir(), "state.json")

	require.NoError(t, s.WriteFile(path))
	got, err := ReadStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestReadStateBadJSON(t *testing.T) {
	_, err := ReadState(bytes.NewBufferString("{not json"))
	assert.Error(t, err)

	_, err = ReadStateFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestBasisStatusString(t *testing.T) {
	assert.Equal(t, "L", BasisAtLower.String())
	assert.Equal(t, "B", BasisBasic.String())
	assert.Equal(t, "U", BasisAtUpper.String())
	assert.Equal(t, "F", BasisFree.String())
	assert.Equal(t, "?", BasisStatus(9).String())
}
