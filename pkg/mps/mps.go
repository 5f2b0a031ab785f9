// Package mps reads fixed- and free-format MPS files into an lp.Model.
// The reader accepts the common dialect: ROWS, COLUMNS with integrality
// markers, RHS, RANGES, BOUNDS, and ENDATA, with whitespace-separated
// fields. The first N row becomes the objective.
package mps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mircut/mircut/pkg/lp"
)

var (
	// ErrBadFormat is returned for a structurally invalid MPS file.
	ErrBadFormat = errors.New("malformed MPS file")

	// ErrUnknownRow is returned when COLUMNS, RHS, or RANGES reference a
	// row never declared in ROWS.
	ErrUnknownRow = errors.New("reference to undeclared row")

	// ErrUnknownColumn is returned when BOUNDS references a column never
	// seen in COLUMNS.
	ErrUnknownColumn = errors.New("reference to undeclared column")
)

type rowKind byte

const (
	rowObjective rowKind = 'N'
	rowLE        rowKind = 'L'
	rowGE        rowKind = 'G'
	rowEQ        rowKind = 'E'
)

type section int

const (
	secNone section = iota
	secRows
	secColumns
	secRHS
	secRanges
	secBounds
	secDone
)

// parser accumulates one model while scanning sections.
type parser struct {
	model *lp.Model

	rows    map[string]int // constraint rows only
	kinds   []rowKind
	objName string
	objRow  map[string]bool // every N row, extras are ignored

	cols    map[string]int
	integer bool // inside an INTORG/INTEND span

	line int
}

// Read parses an MPS model from r.
func Read(r io.Reader) (*lp.Model, error) {
	p := &parser{
		model:  &lp.Model{},
		rows:   make(map[string]int),
		objRow: make(map[string]bool),
		cols:   make(map[string]int),
	}

	sec := secNone
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '*' {
			continue
		}

		if line[0] != ' ' && line[0] != '\t' {
			var err error
			sec, err = p.enterSection(line)
			if err != nil {
				return nil, err
			}
			if sec == secDone {
				break
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var err error
		switch sec {
		case secRows:
			err = p.parseRow(fields)
		case secColumns:
			err = p.parseColumn(fields)
		case secRHS:
			err = p.parseRHS(fields)
		case secRanges:
			err = p.parseRange(fields)
		case secBounds:
			err = p.parseBound(fields)
		case secNone:
			err = p.errf("data before any section header")
		}
		if err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read MPS: %w", err)
	}

	if err := p.model.Validate(); err != nil {
		return nil, fmt.Errorf("MPS model: %w", err)
	}
	return p.model, nil
}

// ReadFile parses the named MPS file.
func ReadFile(path string) (*lp.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (p *parser) errf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrBadFormat, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) enterSection(line string) (section, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "NAME":
		if len(fields) > 1 {
			p.model.Name = fields[1]
		}
		return secNone, nil
	case "ROWS":
		return secRows, nil
	case "COLUMNS":
		return secColumns, nil
	case "RHS":
		return secRHS, nil
	case "RANGES":
		return secRanges, nil
	case "BOUNDS":
		return secBounds, nil
	case "OBJSENSE", "OBJSENSE:":
		// Tolerated and ignored; costs are stored as written.
		return secNone, nil
	case "ENDATA":
		return secDone, nil
	}
	return secNone, p.errf("unknown section %q", fields[0])
}

func (p *parser) parseRow(fields []string) error {
	if len(fields) != 2 {
		return p.errf("ROWS entries need a type and a name")
	}
	kind, name := rowKind(fields[0][0]), fields[1]
	if len(fields[0]) != 1 {
		return p.errf("bad row type %q", fields[0])
	}

	switch kind {
	case rowObjective:
		if p.objName == "" {
			p.objName = name
		}
		p.objRow[name] = true
		return nil
	case rowLE:
		p.model.RowLower = append(p.model.RowLower, lp.NegInf())
		p.model.RowUpper = append(p.model.RowUpper, 0)
	case rowGE:
		p.model.RowLower = append(p.model.RowLower, 0)
		p.model.RowUpper = append(p.model.RowUpper, lp.Inf())
	case rowEQ:
		p.model.RowLower = append(p.model.RowLower, 0)
		p.model.RowUpper = append(p.model.RowUpper, 0)
	default:
		return p.errf("bad row type %q", fields[0])
	}

	p.rows[name] = len(p.kinds)
	p.kinds = append(p.kinds, kind)
	p.model.RowNames = append(p.model.RowNames, name)
	return nil
}

func (p *parser) parseColumn(fields []string) error {
	// Integrality marker lines.
	if len(fields) >= 3 && fields[1] == "'MARKER'" {
		switch fields[2] {
		case "'INTORG'":
			p.integer = true
		case "'INTEND'":
			p.integer = false
		default:
			return p.errf("unknown marker %q", fields[2])
		}
		return nil
	}

	if len(fields) != 3 && len(fields) != 5 {
		return p.errf("COLUMNS entries need name plus 1 or 2 row/value pairs")
	}

	name := fields[0]
	col, ok := p.cols[name]
	if !ok {
		col = p.model.AddCol(0, 0, lp.Inf(), p.integer)
		p.model.ColNames = append(p.model.ColNames, name)
		p.cols[name] = col
	}

	for i := 1; i < len(fields); i += 2 {
		val, err := parseNumber(fields[i+1])
		if err != nil {
			return p.errf("bad value %q", fields[i+1])
		}
		rowName := fields[i]
		if p.objRow[rowName] {
			if rowName == p.objName {
				p.model.ColCosts[col] = val
			}
			continue
		}
		row, ok := p.rows[rowName]
		if !ok {
			return fmt.Errorf("%w: %q at line %d", ErrUnknownRow, rowName, p.line)
		}
		if val != 0 {
			p.model.Matrix = append(p.model.Matrix, lp.Nonzero{Row: row, Col: col, Val: val})
		}
	}
	return nil
}

func (p *parser) parseRHS(fields []string) error {
	if len(fields) != 3 && len(fields) != 5 {
		return p.errf("RHS entries need set name plus 1 or 2 row/value pairs")
	}
	for i := 1; i < len(fields); i += 2 {
		val, err := parseNumber(fields[i+1])
		if err != nil {
			return p.errf("bad value %q", fields[i+1])
		}
		rowName := fields[i]
		if p.objRow[rowName] {
			// Objective constant; irrelevant to cut generation.
			continue
		}
		row, ok := p.rows[rowName]
		if !ok {
			return fmt.Errorf("%w: %q at line %d", ErrUnknownRow, rowName, p.line)
		}
		switch p.kinds[row] {
		case rowLE:
			p.model.RowUpper[row] = val
		case rowGE:
			p.model.RowLower[row] = val
		case rowEQ:
			p.model.RowLower[row] = val
			p.model.RowUpper[row] = val
		}
	}
	return nil
}

func (p *parser) parseRange(fields []string) error {
	if len(fields) != 3 && len(fields) != 5 {
		return p.errf("RANGES entries need set name plus 1 or 2 row/value pairs")
	}
	for i := 1; i < len(fields); i += 2 {
		val, err := parseNumber(fields[i+1])
		if err != nil {
			return p.errf("bad value %q", fields[i+1])
		}
		rowName := fields[i]
		row, ok := p.rows[rowName]
		if !ok {
			return fmt.Errorf("%w: %q at line %d", ErrUnknownRow, rowName, p.line)
		}
		switch p.kinds[row] {
		case rowLE:
			p.model.RowLower[row] = p.model.RowUpper[row] - math.Abs(val)
		case rowGE:
			p.model.RowUpper[row] = p.model.RowLower[row] + math.Abs(val)
		case rowEQ:
			if val >= 0 {
				p.model.RowUpper[row] = p.model.RowLower[row] + val
			} else {
				p.model.RowLower[row] = p.model.RowUpper[row] + val
			}
		}
	}
	return nil
}

func (p *parser) parseBound(fields []string) error {
	if len(fields) != 4 && (len(fields) != 3 || !boundNeedsNoValue(fields[0])) {
		return p.errf("BOUNDS entries need type, set, column, and usually a value")
	}
	col, ok := p.cols[fields[2]]
	if !ok {
		return fmt.Errorf("%w: %q at line %d", ErrUnknownColumn, fields[2], p.line)
	}

	var val float64
	if len(fields) == 4 {
		var err error
		val, err = parseNumber(fields[3])
		if err != nil {
			return p.errf("bad value %q", fields[3])
		}
	}

	switch fields[0] {
	case "UP":
		p.model.ColUpper[col] = val
		// The old convention: a negative upper bound with no explicit
		// lower opens the lower bound.
		if val < 0 && p.model.ColLower[col] == 0 {
			p.model.ColLower[col] = lp.NegInf()
		}
	case "LO":
		p.model.ColLower[col] = val
	case "FX":
		p.model.ColLower[col] = val
		p.model.ColUpper[col] = val
	case "FR":
		p.model.ColLower[col] = lp.NegInf()
		p.model.ColUpper[col] = lp.Inf()
	case "MI":
		p.model.ColLower[col] = lp.NegInf()
	case "PL":
		p.model.ColUpper[col] = lp.Inf()
	case "BV":
		p.model.ColLower[col] = 0
		p.model.ColUpper[col] = 1
		p.model.Integer[col] = true
	case "UI":
		p.model.ColUpper[col] = val
		p.model.Integer[col] = true
	case "LI":
		p.model.ColLower[col] = val
		p.model.Integer[col] = true
	default:
		return p.errf("unknown bound type %q", fields[0])
	}
	return nil
}

func boundNeedsNoValue(kind string) bool {
	switch kind {
	case "FR", "MI", "PL", "BV":
		return true
	}
	return false
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("not a number")
	}
	return v, nil
}
