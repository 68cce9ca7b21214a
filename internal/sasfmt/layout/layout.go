// Package layout computes the per-row byte layout of a SAS7BDAT dataset
// and encodes observations into that layout.
package layout

import (
	"math"

	"github.com/hailam/sas7bdat/internal/binio"
	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
)

// NumericWidth is the fixed on-disk width of every numeric variable.
const NumericWidth = 8

// Layout derives the physical row layout from a variable list: all
// numerics occupy [0, 8*Nnum) in declaration order, then all characters
// at [8*Nnum, 8*Nnum + sum(char lengths)). rowLength rounds that total up
// to the next multiple of 8.
type Layout struct {
	variables       []ports.Variable
	physicalOffsets []int
	rowLength       int
	numericCount    int
}

// New validates vars and builds its Layout. vars must be non-empty;
// every NUMERIC variable must have length 8.
func New(vars []ports.Variable) (*Layout, error) {
	if len(vars) == 0 {
		return nil, sasfmterr.Argument("variable list must not be empty")
	}
	if len(vars) > math.MaxInt16 {
		return nil, sasfmterr.Statef("too many variables: %d exceeds the %d limit", len(vars), math.MaxInt16)
	}
	cp := make([]ports.Variable, len(vars))
	copy(cp, vars)

	numericCount := 0
	for _, v := range cp {
		if v.Type == ports.Numeric {
			if v.Length != NumericWidth {
				return nil, sasfmterr.Argumentf("variable %q: NUMERIC length must be %d, got %d", v.Name, NumericWidth, v.Length)
			}
			numericCount++
		}
	}

	offsets := make([]int, len(cp))
	numOff := 0
	charOff := numericCount * NumericWidth
	total := 0
	for i, v := range cp {
		switch v.Type {
		case ports.Numeric:
			offsets[i] = numOff
			numOff += NumericWidth
			total += NumericWidth
		case ports.Character:
			offsets[i] = charOff
			charOff += v.Length
			total += v.Length
		}
	}
	rowLength := total
	if rem := rowLength % 8; rem != 0 {
		rowLength += 8 - rem
	}

	return &Layout{
		variables:       cp,
		physicalOffsets: offsets,
		rowLength:       rowLength,
		numericCount:    numericCount,
	}, nil
}

// Variables returns the immutable variable list this layout was built from.
func (l *Layout) Variables() []ports.Variable { return l.variables }

// TotalVariables returns the number of variables.
func (l *Layout) TotalVariables() int { return len(l.variables) }

// NumericCount returns the number of NUMERIC variables.
func (l *Layout) NumericCount() int { return l.numericCount }

// PhysicalOffset returns the byte offset of variable i within a row.
func (l *Layout) PhysicalOffset(i int) int { return l.physicalOffsets[i] }

// RowLength returns the total row width in bytes.
func (l *Layout) RowLength() int { return l.rowLength }

// WriteObservation encodes values into buf at offset, per variable
// physical offsets. Fails if len(values) != TotalVariables() or if any
// cell is the wrong dynamic type for its variable.
func (l *Layout) WriteObservation(buf []byte, offset int, values ports.Observation) error {
	if len(values) != len(l.variables) {
		return sasfmterr.Argumentf("observation has %d values, expected %d", len(values), len(l.variables))
	}
	for i, v := range l.variables {
		dst := offset + l.physicalOffsets[i]
		switch v.Type {
		case ports.Numeric:
			bits, err := numericBits(values[i])
			if err != nil {
				return err
			}
			if err := binio.WriteU8(buf, dst, bits); err != nil {
				return err
			}
		case ports.Character:
			s, ok := values[i].(string)
			if !ok {
				return sasfmterr.Argumentf("variable %q: CHARACTER values must be string, got %T", v.Name, values[i])
			}
			if len(s) > v.Length {
				return sasfmterr.Argumentf("variable %q: value of %d UTF-8 bytes exceeds declared length %d", v.Name, len(s), v.Length)
			}
			if err := binio.WriteAscii(buf, dst, s, v.Length); err != nil {
				return err
			}
		}
	}
	return nil
}

// standardMissingBits is the on-disk encoding of a null numeric cell:
// MissingValue STANDARD.
const standardMissingBits uint64 = 0xFFFFFE0000000000

func numericBits(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case nil:
		return standardMissingBits, nil
	case ports.MissingValue:
		return v.RawLongBits(), nil
	case ports.CalendarDate:
		return math.Float64bits(v.Days()), nil
	case float64:
		return math.Float64bits(v), nil
	case float32:
		return math.Float64bits(float64(v)), nil
	case int:
		return math.Float64bits(float64(v)), nil
	case int32:
		return math.Float64bits(float64(v)), nil
	case int64:
		return math.Float64bits(float64(v)), nil
	default:
		return 0, sasfmterr.Argumentf("NUMERIC values must be null or MissingValue|date|number, got %T", value)
	}
}
