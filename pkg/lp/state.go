package lp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// BasisStatus describes the simplex status of a column or row in a
// warm-start basis, following the usual solver convention.
type BasisStatus int

const (
	// BasisAtLower marks a nonbasic variable sitting at its lower bound.
	BasisAtLower BasisStatus = iota
	// BasisBasic marks a basic variable.
	BasisBasic
	// BasisAtUpper marks a nonbasic variable sitting at its upper bound.
	BasisAtUpper
	// BasisFree marks a nonbasic free variable (superbasic).
	BasisFree
)

// String returns the single-letter form used in state files ("L", "B",
// "U", "F").
func (s BasisStatus) String() string {
	switch s {
	case BasisAtLower:
		return "L"
	case BasisBasic:
		return "B"
	case BasisAtUpper:
		return "U"
	case BasisFree:
		return "F"
	}
	return "?"
}

var (
	// ErrStateMismatch is returned by [RelaxationState.Validate] when the
	// state's slice lengths disagree with the model dimensions.
	ErrStateMismatch = errors.New("relaxation state does not match model dimensions")

	// ErrNoBasis is returned when a state carries no basis information,
	// which tableau-row cut generation requires.
	ErrNoBasis = errors.New("relaxation state has no basis")
)

// RelaxationState is the outcome of solving the LP relaxation of a
// [Model]: the optimal vertex, its duals, and the warm-start basis.
// Cut generation treats it as read-only.
type RelaxationState struct {
	// ColValues is the primal solution, one value per column.
	ColValues []float64 `json:"col_values"`

	// ReducedCosts holds the reduced cost of each column.
	ReducedCosts []float64 `json:"reduced_costs"`

	// RowDuals holds the dual price of each row.
	RowDuals []float64 `json:"row_duals"`

	// ColBasis and RowBasis hold the warm-start basis status per column
	// and per row (the row status refers to the row's logical variable).
	ColBasis []BasisStatus `json:"col_basis"`
	RowBasis []BasisStatus `json:"row_basis"`

	// Objective is the relaxation objective value, informational only.
	Objective float64 `json:"objective"`
}

// Validate checks the state against the model's dimensions and confirms
// a basis is present.
func (s *RelaxationState) Validate(m *Model) error {
	ncol, nrow := m.NumCols(), m.NumRows()
	if len(s.ColValues) != ncol || len(s.ReducedCosts) != ncol || len(s.RowDuals) != nrow {
		return fmt.Errorf("%w: model %dx%d, state %dx%d",
			ErrStateMismatch, ncol, nrow, len(s.ColValues), len(s.RowDuals))
	}
	if len(s.ColBasis) == 0 && len(s.RowBasis) == 0 {
		return ErrNoBasis
	}
	if len(s.ColBasis) != ncol || len(s.RowBasis) != nrow {
		return fmt.Errorf("%w: basis %d/%d entries", ErrStateMismatch, len(s.ColBasis), len(s.RowBasis))
	}
	return nil
}

// ReadState decodes a JSON relaxation state from r.
func ReadState(r io.Reader) (*RelaxationState, error) {
	var s RelaxationState
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode relaxation state: %w", err)
	}
	return &s, nil
}

// ReadStateFile decodes a JSON relaxation state from the named file.
func ReadStateFile(path string) (*RelaxationState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadState(f)
}

// Write encodes the state as indented JSON.
func (s *RelaxationState) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteFile writes the state to the named file.
func (s *RelaxationState) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
