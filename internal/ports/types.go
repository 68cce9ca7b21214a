// Package ports holds the contracts the sas7bdat core consumes: the
// schema and observation data model, and the Sink a file is written to.
// Beyond the types it holds only small value helpers: format
// classification, missing-value bit patterns and SAS epoch conversion.
// The error taxonomy lives in internal/sasfmt/sasfmterr.
package ports

import "time"

// VariableType distinguishes a numeric column from a character column.
type VariableType int

const (
	Numeric VariableType = iota
	Character
)

// Format is a SAS informat/outformat: name (<=32 UTF-8 bytes), display
// width and decimal digits. A name starting with "$" is a character
// format; otherwise numeric. The zero value is UNSPECIFIED.
type Format struct {
	Name   string
	Width  int
	Digits int
}

// UnspecifiedFormat is the zero-value format used when a variable
// carries no input/output format.
var UnspecifiedFormat = Format{Name: "", Width: 0, Digits: 0}

// IsCharacter reports whether the format name is "$"-prefixed.
func (f Format) IsCharacter() bool {
	return len(f.Name) > 0 && f.Name[0] == '$'
}

// IsUnspecified reports whether f is the zero/UNSPECIFIED format.
func (f Format) IsUnspecified() bool {
	return f.Name == "" && f.Width == 0 && f.Digits == 0
}

// Variable is an immutable column definition.
type Variable struct {
	Name         string
	Type         VariableType
	Length       int
	Label        string
	InputFormat  Format
	OutputFormat Format
}

// MissingValueCode enumerates the 28 SAS special-missing codes.
type MissingValueCode int

const (
	MissingStandard MissingValueCode = iota
	MissingUnderscore
	MissingA
	MissingB
	MissingC
	MissingD
	MissingE
	MissingF
	MissingG
	MissingH
	MissingI
	MissingJ
	MissingK
	MissingL
	MissingM
	MissingN
	MissingO
	MissingP
	MissingQ
	MissingR
	MissingS
	MissingT
	MissingU
	MissingV
	MissingW
	MissingX
	MissingY
	MissingZ
)

// MissingValue wraps a MissingValueCode as an Observation cell value.
type MissingValue struct {
	Code MissingValueCode
}

// RawLongBits returns the IEEE-754 bit pattern 0xFFFF_XX_0000000000 for
// this missing value's code, per spec.md §6.
func (m MissingValue) RawLongBits() uint64 {
	var xx uint64
	switch m.Code {
	case MissingStandard:
		xx = 0xFE
	case MissingUnderscore:
		xx = 0xFF
	default:
		// A=0xFD, B=0xFC, ... Z=0xE4: descends by 1 per letter from A.
		letterIndex := uint64(m.Code - MissingA)
		xx = 0xFD - letterIndex
	}
	return 0xFFFF000000000000 | (xx << 40)
}

// CalendarDate represents a SAS date value: days since 1960-01-01.
type CalendarDate struct {
	Time time.Time
}

// Days returns the number of days between t and the SAS epoch.
func (c CalendarDate) Days() float64 {
	epoch := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	d := c.Time.UTC().Sub(epoch)
	return float64(d.Hours() / 24)
}

// SasEpoch is the SAS datetime zero point.
var SasEpoch = time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)

// SasEpochSeconds converts t to seconds since the SAS epoch.
func SasEpochSeconds(t time.Time) float64 {
	return t.UTC().Sub(SasEpoch).Seconds()
}

// Observation is a single row: one value per variable, in variable
// declaration order. Valid dynamic types per cell: nil, MissingValue,
// CalendarDate, int/int32/int64, float32/float64 for NUMERIC variables;
// string for CHARACTER variables.
type Observation []interface{}

// Sink is a sequential byte destination a sas7bdat file is written to.
type Sink interface {
	Write(p []byte) (n int, err error)
}
