// Package render visualizes problem structure as constraint graphs.
//
// # Overview
//
// This package produces bipartite diagrams of a problem: variable nodes
// connected to the constraint rows they appear in. The diagrams help
// inspect which rows a cut separator can work with, and how dense the
// coupling between integer and continuous variables is.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG:
//
//	dot := render.ToDOT(model, render.Options{})
//	svg, err := render.SVG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [SVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Integer variables are drawn as filled boxes, continuous variables as
// plain boxes, and constraint rows as ellipses.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/mircut/mircut/pkg/lp"
)

// Options configures constraint-graph rendering.
type Options struct {
	// Detailed includes bounds and row senses in node labels.
	// When false, only names are shown.
	Detailed bool

	// MaxRows caps the number of constraint rows drawn. Zero or
	// negative means all rows. Variables that appear only in omitted
	// rows are omitted too.
	MaxRows int
}

// ToDOT converts a model to Graphviz DOT format for constraint-graph
// visualization. The resulting DOT string can be rendered using [SVG].
func ToDOT(model *lp.Model, opts Options) string {
	nrow := model.NumRows()
	if opts.MaxRows > 0 && opts.MaxRows < nrow {
		nrow = opts.MaxRows
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	rows := model.ByRow()
	used := make([]bool, model.NumCols())
	for i := 0; i < nrow; i++ {
		cols, _ := rows.Vector(i)
		for _, j := range cols {
			used[j] = true
		}
	}

	for j := 0; j < model.NumCols(); j++ {
		if !used[j] {
			continue
		}
		label := model.ColName(j)
		if opts.Detailed {
			label += "\n" + fmtBounds(model.ColLower[j], model.ColUpper[j])
		}
		attrs := fmt.Sprintf("label=%q, shape=box", label)
		if model.Integer[j] {
			attrs += `, style=filled, fillcolor=lightgrey`
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", colID(j), attrs)
	}

	buf.WriteString("\n")
	for i := 0; i < nrow; i++ {
		label := model.RowName(i)
		if opts.Detailed {
			label += "\n" + fmtRowRange(model.RowLower[i], model.RowUpper[i])
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", rowID(i), label)
	}

	buf.WriteString("\n")
	for i := 0; i < nrow; i++ {
		cols, _ := rows.Vector(i)
		for _, j := range cols {
			fmt.Fprintf(&buf, "  %q -- %q;\n", colID(j), rowID(i))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func colID(j int) string { return fmt.Sprintf("c%d", j) }
func rowID(i int) string { return fmt.Sprintf("r%d", i) }

func fmtBounds(lb, ub float64) string {
	return fmt.Sprintf("[%s, %s]", fmtNum(lb), fmtNum(ub))
}

func fmtRowRange(lb, ub float64) string {
	switch {
	case lb == ub:
		return fmt.Sprintf("= %s", fmtNum(lb))
	case math.IsInf(lb, -1):
		return fmt.Sprintf("<= %s", fmtNum(ub))
	case math.IsInf(ub, 1):
		return fmt.Sprintf(">= %s", fmtNum(lb))
	}
	return fmtBounds(lb, ub)
}

func fmtNum(v float64) string {
	switch {
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsInf(v, 1):
		return "inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// SVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display.
func SVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render dispatches on format: "dot" returns DOT source, "svg" renders
// the graph via Graphviz.
func Render(model *lp.Model, format string, opts Options) ([]byte, error) {
	switch format {
	case "", "dot":
		return []byte(ToDOT(model, opts)), nil
	case "svg":
		return SVG(ToDOT(model, opts))
	}
	return nil, fmt.Errorf("unknown render format %q", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
