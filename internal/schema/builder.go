// Package schema provides the fluent constructor surface callers use to
// describe a dataset before handing it to the sas7bdat writer — the
// external collaborator spec.md §1 calls out as outside the core.
package schema

import (
	"unicode/utf8"

	"github.com/hailam/sas7bdat/internal/ports"
	"github.com/hailam/sas7bdat/internal/sasfmt/sasfmterr"
)

const (
	maxNameBytes  = 32
	maxLabelBytes = 256
	maxLength     = 32767
)

// Builder accumulates variable definitions for one dataset. Build()
// validates everything at once and returns the immutable Variable list
// the writer consumes.
type Builder struct {
	datasetName string
	label       string
	vars        []ports.Variable
	err         error
}

// New starts a Builder for a dataset named name.
func New(name string) *Builder {
	return &Builder{datasetName: name}
}

// Label sets the dataset-level label.
func (b *Builder) Label(label string) *Builder {
	b.label = label
	return b
}

// DatasetName returns the dataset name this builder was created with.
func (b *Builder) DatasetName() string { return b.datasetName }

// DatasetLabel returns the dataset-level label set via Label.
func (b *Builder) DatasetLabel() string { return b.label }

// VariableBuilder accumulates one variable's attributes before Add()
// appends it to the parent Builder.
type VariableBuilder struct {
	parent *Builder
	v      ports.Variable
}

// Numeric starts a NUMERIC variable of the fixed 8-byte length.
func (b *Builder) Numeric(name string) *VariableBuilder {
	return &VariableBuilder{parent: b, v: ports.Variable{
		Name: name, Type: ports.Numeric, Length: 8,
		InputFormat: ports.UnspecifiedFormat, OutputFormat: ports.UnspecifiedFormat,
	}}
}

// Character starts a CHARACTER variable of the given declared length.
func (b *Builder) Character(name string, length int) *VariableBuilder {
	return &VariableBuilder{parent: b, v: ports.Variable{
		Name: name, Type: ports.Character, Length: length,
		InputFormat: ports.UnspecifiedFormat, OutputFormat: ports.UnspecifiedFormat,
	}}
}

// Label sets the variable's label.
func (vb *VariableBuilder) Label(label string) *VariableBuilder {
	vb.v.Label = label
	return vb
}

// Format sets both the input and output format to the same
// (name, width, digits) triple. Call InputFormat/OutputFormat instead
// when the two differ.
func (vb *VariableBuilder) Format(name string, width, digits int) *VariableBuilder {
	f := ports.Format{Name: name, Width: width, Digits: digits}
	vb.v.InputFormat = f
	vb.v.OutputFormat = f
	return vb
}

// InputFormat sets only the variable's input format.
func (vb *VariableBuilder) InputFormat(name string, width, digits int) *VariableBuilder {
	vb.v.InputFormat = ports.Format{Name: name, Width: width, Digits: digits}
	return vb
}

// OutputFormat sets only the variable's output format.
func (vb *VariableBuilder) OutputFormat(name string, width, digits int) *VariableBuilder {
	vb.v.OutputFormat = ports.Format{Name: name, Width: width, Digits: digits}
	return vb
}

// Add appends the variable to the parent Builder and returns it for
// chaining onto the next variable.
func (vb *VariableBuilder) Add() *Builder {
	vb.parent.vars = append(vb.parent.vars, vb.v)
	return vb.parent
}

func formatMatchesType(f ports.Format, t ports.VariableType) bool {
	if f.IsUnspecified() {
		return true
	}
	if f.IsCharacter() {
		return t == ports.Character
	}
	return t == ports.Numeric
}

// Build validates every accumulated variable and the dataset name, and
// returns the final Variable list. Errors are ArgumentErrors (spec.md §7).
func (b *Builder) Build() ([]ports.Variable, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.datasetName == "" {
		return nil, sasfmterr.Argument("dataset name must not be empty")
	}
	if len(b.datasetName) > maxNameBytes {
		return nil, sasfmterr.Argumentf("dataset name %q exceeds %d UTF-8 bytes", b.datasetName, maxNameBytes)
	}
	if len(b.label) > maxLabelBytes {
		return nil, sasfmterr.Argumentf("dataset label exceeds %d UTF-8 bytes", maxLabelBytes)
	}
	if len(b.vars) == 0 {
		return nil, sasfmterr.Argument("dataset must declare at least one variable")
	}

	seen := make(map[string]bool, len(b.vars))
	for _, v := range b.vars {
		if v.Name == "" {
			return nil, sasfmterr.Argument("variable name must not be empty")
		}
		if !utf8.ValidString(v.Name) || len(v.Name) > maxNameBytes {
			return nil, sasfmterr.Argumentf("variable name %q exceeds %d UTF-8 bytes", v.Name, maxNameBytes)
		}
		if seen[v.Name] {
			return nil, sasfmterr.Argumentf("duplicate variable name %q", v.Name)
		}
		seen[v.Name] = true
		if len(v.Label) > maxLabelBytes {
			return nil, sasfmterr.Argumentf("variable %q label exceeds %d UTF-8 bytes", v.Name, maxLabelBytes)
		}
		switch v.Type {
		case ports.Numeric:
			if v.Length != 8 {
				return nil, sasfmterr.Argumentf("variable %q: NUMERIC length must be 8, got %d", v.Name, v.Length)
			}
		case ports.Character:
			if v.Length < 1 || v.Length > maxLength {
				return nil, sasfmterr.Argumentf("variable %q: CHARACTER length %d out of range [1,%d]", v.Name, v.Length, maxLength)
			}
		}
		if !formatMatchesType(v.InputFormat, v.Type) {
			return nil, sasfmterr.Argumentf("variable %q: input format %q does not match its variable type", v.Name, v.InputFormat.Name)
		}
		if !formatMatchesType(v.OutputFormat, v.Type) {
			return nil, sasfmterr.Argumentf("variable %q: output format %q does not match its variable type", v.Name, v.OutputFormat.Name)
		}
	}

	cp := make([]ports.Variable, len(b.vars))
	copy(cp, b.vars)
	return cp, nil
}
