package mir

// Family tags the base row kind and formula that produced a cut.
type Family int

const (
	// FamilyTableauMIR is a classic MIR cut from a tableau row.
	FamilyTableauMIR Family = iota
	// FamilyTableauTwoStep is a two-step MIR cut from a tableau row.
	FamilyTableauTwoStep
	// FamilyFormulationMIR is a classic MIR cut from a formulation row.
	FamilyFormulationMIR
	// FamilyFormulationTwoStep is a two-step MIR cut from a formulation row.
	FamilyFormulationTwoStep
)

// String returns a short family label for logs and reports.
func (f Family) String() string {
	switch f {
	case FamilyTableauMIR:
		return "tab-mir"
	case FamilyTableauTwoStep:
		return "tab-2step"
	case FamilyFormulationMIR:
		return "form-mir"
	case FamilyFormulationTwoStep:
		return "form-2step"
	}
	return "unknown"
}

// Cut is one generated inequality plus the provenance the driver may
// want: its family and the scale or split parameter that produced it
// (the integer scale t for MIR cuts, the chosen alpha for two-step).
type Cut struct {
	Constraint *Constraint
	Family     Family
	Param      float64
}

// CutList collects generated cuts. Order is not semantically meaningful:
// removal swaps the last entry into the removed slot.
type CutList struct {
	cuts []Cut
}

// Len returns the number of collected cuts.
func (l *CutList) Len() int { return len(l.cuts) }

// At returns cut i.
func (l *CutList) At(i int) Cut { return l.cuts[i] }

// Cuts returns the underlying slice for iteration. The list retains
// ownership; callers must not hold the slice across mutations.
func (l *CutList) Cuts() []Cut { return l.cuts }

// Add appends a cut, transferring ownership of the constraint to the
// list.
func (l *CutList) Add(c *Constraint, family Family, param float64) {
	l.cuts = append(l.cuts, Cut{Constraint: c, Family: family, Param: param})
}

// RemoveAt discards cut i by moving the last entry into its slot.
func (l *CutList) RemoveAt(i int) {
	last := len(l.cuts) - 1
	l.cuts[i] = l.cuts[last]
	l.cuts[last] = Cut{}
	l.cuts = l.cuts[:last]
}
