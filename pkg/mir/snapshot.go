package mir

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/mircut/mircut/pkg/lp"
)

// ErrNoBasis is returned by [NewSnapshot] when the relaxation state
// carries no warm-start basis.
var ErrNoBasis = errors.New("relaxation state has no basis")

// varFlags is the per-unified-index status record. Row flags (equality,
// boundedAbove, boundedBelow) are only meaningful on slack entries.
type varFlags struct {
	integer      bool
	basic        bool
	equality     bool
	boundedAbove bool
	boundedBelow bool
}

// Snapshot is a consistent read-only picture of one solved relaxation,
// indexed over the unified space: structural variables 0..NCol−1, then
// one slack variable per row at NCol..NCol+NRow−1. It is built once per
// generation call and never mutated afterwards.
type Snapshot struct {
	NCol, NRow int

	// LB, UB, X and RC cover the whole unified index space. For a slack
	// entry, X holds the derived slack value and RC the row dual price.
	LB, UB, X, RC []float64

	flags []varFlags

	// NIntegers counts integer variables, slacks of implied-integer rows
	// included.
	NIntegers int

	model *lp.Model
}

// IsInteger reports whether unified index idx is integer-constrained.
func (s *Snapshot) IsInteger(idx int) bool { return s.flags[idx].integer }

// IsBasic reports whether unified index idx is basic in the snapshot
// basis.
func (s *Snapshot) IsBasic(idx int) bool { return s.flags[idx].basic }

func (s *Snapshot) isEquality(idx int) bool     { return s.flags[idx].equality }
func (s *Snapshot) isBoundedAbove(idx int) bool { return s.flags[idx].boundedAbove }
func (s *Snapshot) isBoundedBelow(idx int) bool { return s.flags[idx].boundedBelow }

// Model returns the model this snapshot was built from.
func (s *Snapshot) Model() *lp.Model { return s.model }

// BasisFlags returns the basic/nonbasic partition as two bool slices,
// in the shape the factorization engine consumes.
func (s *Snapshot) BasisFlags() (colBasic, rowBasic []bool) {
	colBasic = make([]bool, s.NCol)
	rowBasic = make([]bool, s.NRow)
	for j := 0; j < s.NCol; j++ {
		colBasic[j] = s.flags[j].basic
	}
	for i := 0; i < s.NRow; i++ {
		rowBasic[i] = s.flags[s.NCol+i].basic
	}
	return colBasic, rowBasic
}

// NewSnapshot captures the relaxation described by state into a fresh
// Snapshot. Integer variable bounds are tightened to the nearest
// integers, slack values and bounds are derived per row, and rows whose
// data is entirely integral get an integer-flagged slack. The logger
// receives the negative-slack diagnostic; it may be nil.
func NewSnapshot(m *lp.Model, state *lp.RelaxationState, logger *log.Logger) (*Snapshot, error) {
	if err := state.Validate(m); err != nil {
		if errors.Is(err, lp.ErrNoBasis) {
			return nil, ErrNoBasis
		}
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	ncol, nrow := m.NumCols(), m.NumRows()
	n := ncol + nrow
	s := &Snapshot{
		NCol:  ncol,
		NRow:  nrow,
		LB:    make([]float64, n),
		UB:    make([]float64, n),
		X:     make([]float64, n),
		RC:    make([]float64, n),
		flags: make([]varFlags, n),
		model: m,
	}

	for j := 0; j < ncol; j++ {
		f := &s.flags[j]
		f.basic = state.ColBasis[j] == lp.BasisBasic

		s.LB[j] = m.ColLower[j]
		s.UB[j] = m.ColUpper[j]
		if m.Integer[j] {
			f.integer = true
			s.NIntegers++
			s.LB[j] = math.Ceil(m.ColLower[j])
			s.UB[j] = math.Floor(m.ColUpper[j])
		}
		s.X[j] = state.ColValues[j]
		s.RC[j] = state.ReducedCosts[j]
	}

	for i := 0; i < nrow; i++ {
		idx := ncol + i
		f := &s.flags[idx]
		rl, ru := m.RowLower[i], m.RowUpper[i]

		if math.Abs(ru-rl) <= boundTol {
			f.equality = true
		}
		if ru < math.Inf(1) {
			f.boundedAbove = true
		}
		if rl > math.Inf(-1) {
			f.boundedBelow = true
		}

		s.LB[idx] = 0
		if f.boundedAbove && f.boundedBelow {
			s.UB[idx] = ru - rl
		} else {
			s.UB[idx] = math.Inf(1)
		}

		activity := m.RowActivity(i, state.ColValues)
		if f.boundedAbove {
			s.X[idx] = ru - activity
		} else {
			s.X[idx] = activity - rl
		}
		if s.X[idx] < -nullSlackTol {
			// Diagnostic only; the original performs no remediation here.
			logger.Warn("row has negative slack",
				"row", i, "slack", s.X[idx], "activity", activity)
		}
		s.RC[idx] = state.RowDuals[i]
		f.basic = state.RowBasis[i] == lp.BasisBasic

		if impliedIntegerRow(m, s, i, f) {
			f.integer = true
			s.NIntegers++
		}
	}

	return s, nil
}

// impliedIntegerRow reports whether row i forces an integral slack: its
// active bound is integral and every nonzero coefficient is integral and
// sits on an integer variable.
func impliedIntegerRow(m *lp.Model, s *Snapshot, i int, f *varFlags) bool {
	if f.boundedAbove {
		if fracPart(m.RowUpper[i]) > integralityTol {
			return false
		}
	} else if fracPart(m.RowLower[i]) > integralityTol {
		return false
	}
	cols, vals := m.ByRow().Vector(i)
	for k, col := range cols {
		if fracPart(vals[k]) > integralityTol || !s.flags[col].integer {
			return false
		}
	}
	return true
}
