package mps

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const knapsackMPS = `* sample problem
NAME          KNAP2
ROWS
 N  COST
 L  CAP
 G  DEMAND
 E  BALANCE
COLUMNS
    MARKER                 'MARKER'                 'INTORG'
    X0        COST            -1.0   CAP              3.0
    X0        DEMAND           1.0
    X1        COST            -2.0   CAP              2.0
    X1        BALANCE          1.0
    MARKER                 'MARKER'                 'INTEND'
    Y         COST            -0.5   CAP              1.0
    Y         BALANCE         -1.0
RHS
    RHS       CAP             11.0   DEMAND           1.0
    RHS       BALANCE          0.0
RANGES
    RNG       CAP              4.0
BOUNDS
 UP BND       X0              10.0
 BV BND       X1
 MI BND       Y
ENDATA
`

func TestReadKnapsack(t *testing.T) {
	m, err := Read(strings.NewReader(knapsackMPS))
	require.NoError(t, err)

	assert.Equal(t, "KNAP2", m.Name)
	require.Equal(t, 3, m.NumCols())
	require.Equal(t, 3, m.NumRows())

	// Objective.
	assert.Equal(t, []float64{-1, -2, -0.5}, m.ColCosts)

	// Integrality from the marker span and BV.
	assert.Equal(t, []bool{true, true, false}, m.Integer)

	// Bounds.
	assert.Equal(t, 10.0, m.ColUpper[0])
	assert.Equal(t, 0.0, m.ColLower[1])
	assert.Equal(t, 1.0, m.ColUpper[1])
	assert.True(t, math.IsInf(m.ColLower[2], -1))
	assert.True(t, math.IsInf(m.ColUpper[2], 1))

	// Row senses: CAP is L with rhs 11 and range 4, DEMAND is G, BALANCE
	// is E with rhs 0.
	capRow := rowIndex(t, m.RowNames, "CAP")
	assert.Equal(t, 7.0, m.RowLower[capRow])
	assert.Equal(t, 11.0, m.RowUpper[capRow])

	demRow := rowIndex(t, m.RowNames, "DEMAND")
	assert.Equal(t, 1.0, m.RowLower[demRow])
	assert.True(t, math.IsInf(m.RowUpper[demRow], 1))

	balRow := rowIndex(t, m.RowNames, "BALANCE")
	assert.Equal(t, 0.0, m.RowLower[balRow])
	assert.Equal(t, 0.0, m.RowUpper[balRow])

	// Matrix content by row.
	cols, vals := m.ByRow().Vector(capRow)
	assert.Equal(t, []int{0, 1, 2}, cols)
	assert.Equal(t, []float64{3, 2, 1}, vals)

	require.NoError(t, m.Validate())
}

func rowIndex(t *testing.T, names []string, name string) int {
	t.Helper()
	for i, n := range names {
		if n == name {
			return i
		}
	}
	t.Fatalf("row %q not found", name)
	return -1
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.mps")
	require.NoError(t, os.WriteFile(path, []byte(knapsackMPS), 0o644))

	m, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, m.NumCols())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mps"))
	assert.Error(t, err)
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"unknown section", "GARBAGE\n", ErrBadFormat},
		{"data before section", " X0 COST 1.0\n", ErrBadFormat},
		{"bad row type", "ROWS\n ZZ R1\n", ErrBadFormat},
		{"unknown row", "ROWS\n N COST\nCOLUMNS\n X0 R9 1.0\n", ErrUnknownRow},
		{
			"unknown bound column",
			"ROWS\n N COST\nCOLUMNS\n X0 COST 1.0\nBOUNDS\n UP BND Z9 1.0\n",
			ErrUnknownColumn,
		},
		{"bad value", "ROWS\n N COST\nCOLUMNS\n X0 COST abc\n", ErrBadFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.src))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestReadComments(t *testing.T) {
	src := "* leading comment\nROWS\n N COST\nCOLUMNS\n X COST 1.0\nENDATA\n"
	m, err := Read(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumCols())
	assert.Equal(t, 0, m.NumRows())
}
