package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/sas7bdat/internal/ports"
)

func TestBuildRejectsEmptyDatasetName(t *testing.T) {
	_, err := New("").Numeric("X").Add().Build()
	require.Error(t, err)
}

func TestBuildRejectsNoVariables(t *testing.T) {
	_, err := New("CLAIMS").Build()
	require.Error(t, err)
}

func TestBuildHappyPath(t *testing.T) {
	vars, err := New("CLAIMS").
		Label("2025 claims extract").
		Numeric("AMOUNT").Label("Claim amount").Format("DOLLAR", 12, 2).Add().
		Character("STATE", 2).Add().
		Build()
	require.NoError(t, err)
	require.Len(t, vars, 2)
	require.Equal(t, "AMOUNT", vars[0].Name)
	require.Equal(t, ports.Numeric, vars[0].Type)
	require.Equal(t, 8, vars[0].Length)
	require.Equal(t, "DOLLAR", vars[0].OutputFormat.Name)
	require.Equal(t, "STATE", vars[1].Name)
	require.Equal(t, 2, vars[1].Length)
}

func TestBuildRejectsWrongNumericLength(t *testing.T) {
	b := New("D")
	b.vars = append(b.vars, ports.Variable{Name: "X", Type: ports.Numeric, Length: 4})
	_, err := b.Build()
	require.Error(t, err)
}

func TestBuildRejectsCharacterLengthOutOfRange(t *testing.T) {
	_, err := New("D").Character("X", 0).Add().Build()
	require.Error(t, err)
}

func TestBuildRejectsDuplicateVariableNames(t *testing.T) {
	_, err := New("D").
		Numeric("X").Add().
		Numeric("X").Add().
		Build()
	require.Error(t, err)
}

func TestBuildRejectsFormatTypeMismatch(t *testing.T) {
	_, err := New("D").Numeric("X").Format("$CHAR", 8, 0).Add().Build()
	require.Error(t, err)
}

func TestBuildRejectsOverlongLabel(t *testing.T) {
	_, err := New("D").Numeric("X").Label(strings.Repeat("a", 300)).Add().Build()
	require.Error(t, err)
}

func TestFailedBuildDoesNotCorruptSubsequentCalls(t *testing.T) {
	b := New("D").Character("X", 0).Add() // invalid length
	_, err := b.Build()
	require.Error(t, err)

	good, err := New("D").Numeric("Y").Add().Build()
	require.NoError(t, err)
	require.Len(t, good, 1)
}
