package lp

// Compressed is a sparse matrix stored in compressed-vector form: either
// row-major (CSR, one vector per row) or column-major (CSC, one vector
// per column), depending on how it was built. Vector i spans
// Indices[Starts[i]:Starts[i+1]] and Values over the same range.
type Compressed struct {
	Starts  []int
	Indices []int
	Values  []float64
}

// NumVectors returns the number of compressed vectors (rows for CSR,
// columns for CSC).
func (c *Compressed) NumVectors() int { return len(c.Starts) - 1 }

// Vector returns the index and value slices of vector i. The slices
// alias the underlying storage and must not be modified.
func (c *Compressed) Vector(i int) ([]int, []float64) {
	lo, hi := c.Starts[i], c.Starts[i+1]
	return c.Indices[lo:hi], c.Values[lo:hi]
}

// Len returns the number of stored entries in vector i.
func (c *Compressed) Len(i int) int { return c.Starts[i+1] - c.Starts[i] }

func compressByRow(entries []Nonzero, nrow int) *Compressed {
	return compress(entries, nrow, func(nz Nonzero) (int, int) { return nz.Row, nz.Col })
}

func compressByCol(entries []Nonzero, ncol int) *Compressed {
	return compress(entries, ncol, func(nz Nonzero) (int, int) { return nz.Col, nz.Row })
}

// compress bins triplets by major index using a counting pass, so entry
// order within a vector follows the original triplet order.
func compress(entries []Nonzero, n int, split func(Nonzero) (major, minor int)) *Compressed {
	c := &Compressed{
		Starts:  make([]int, n+1),
		Indices: make([]int, len(entries)),
		Values:  make([]float64, len(entries)),
	}
	for _, nz := range entries {
		major, _ := split(nz)
		c.Starts[major+1]++
	}
	for i := 0; i < n; i++ {
		c.Starts[i+1] += c.Starts[i]
	}
	next := make([]int, n)
	copy(next, c.Starts[:n])
	for _, nz := range entries {
		major, minor := split(nz)
		c.Indices[next[major]] = minor
		c.Values[next[major]] = nz.Val
		next[major]++
	}
	return c
}
