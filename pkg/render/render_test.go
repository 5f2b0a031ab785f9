package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mircut/mircut/pkg/lp"
)

func buildModel(t *testing.T) *lp.Model {
	t.Helper()
	m := &lp.Model{Name: "TINY"}
	// x0 integer, x1 continuous, x2 integer and only in the last row.
	m.AddCol(-1, 0, 10, true)
	m.AddCol(0, 0, lp.Inf(), false)
	m.AddCol(0, 0, 1, true)
	m.AddSparseRow(lp.NegInf(), []int{0, 1}, []float64{2, 1}, 8)
	m.AddSparseRow(3, []int{0, 1}, []float64{1, -1}, 3)
	m.AddSparseRow(1, []int{2}, []float64{1}, lp.Inf())
	require.NoError(t, m.Validate())
	return m
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(buildModel(t), Options{})

	assert.True(t, strings.HasPrefix(dot, "graph G {"))
	assert.Contains(t, dot, `"c0" [label="x0", shape=box, style=filled, fillcolor=lightgrey];`)
	assert.Contains(t, dot, `"c1" [label="x1", shape=box];`)
	assert.Contains(t, dot, `"r0" [label="r0", shape=ellipse];`)
	assert.Contains(t, dot, `"c0" -- "r0";`)
	assert.Contains(t, dot, `"c1" -- "r1";`)
	assert.Contains(t, dot, `"c2" -- "r2";`)
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(buildModel(t), Options{Detailed: true})

	assert.Contains(t, dot, "x0\\n[0, 10]")
	assert.Contains(t, dot, "x1\\n[0, inf]")
	assert.Contains(t, dot, "r0\\n<= 8")
	assert.Contains(t, dot, "r1\\n= 3")
	assert.Contains(t, dot, "r2\\n>= 1")
}

func TestToDOTMaxRows(t *testing.T) {
	dot := ToDOT(buildModel(t), Options{MaxRows: 2})

	assert.NotContains(t, dot, `"r2"`)
	// x2 only appears in the omitted row.
	assert.NotContains(t, dot, `"c2"`)
	assert.Contains(t, dot, `"c0"`)
}

func TestToDOTNamedModel(t *testing.T) {
	m := buildModel(t)
	m.ColNames = []string{"ship", "stock", "open"}
	m.RowNames = []string{"cap", "bal", "use"}

	dot := ToDOT(m, Options{})
	assert.Contains(t, dot, `label="ship"`)
	assert.Contains(t, dot, `label="cap"`)
}

func TestRenderDispatch(t *testing.T) {
	m := buildModel(t)

	out, err := Render(m, "dot", Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "graph G {")

	out, err = Render(m, "", Options{})
	require.NoError(t, err)
	assert.Contains(t, string(out), "graph G {")

	_, err = Render(m, "gif", Options{})
	assert.Error(t, err)
}

func TestSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz render in short mode")
	}

	svg, err := SVG(ToDOT(buildModel(t), Options{}))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Contains(t, string(svg), "x0")
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="10pt" height="20pt" viewBox="0.00 0.00 120.75 240.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	assert.Contains(t, out, `viewBox="0 0 120.75 240.00"`)
	assert.Contains(t, out, `width="121" height="240"`)
	assert.NotContains(t, out, "10pt")

	// SVGs without a viewBox pass through untouched.
	plain := []byte(`<svg xmlns="x"><g/></svg>`)
	assert.Equal(t, plain, normalizeViewBox(plain))
}
