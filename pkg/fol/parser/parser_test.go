package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foltheorem/folprove/pkg/fol/ast"
)

func TestParseRelation(t *testing.T) {
	f, err := Parse("P(x, Y)")
	require.NoError(t, err)
	rel, ok := f.(*ast.Relation)
	require.True(t, ok)
	assert.Equal(t, "P", rel.Name)
	require.Len(t, rel.Args, 2)
	assert.Equal(t, "x", rel.Args[0].(*ast.Variable).Name)
	assert.Equal(t, "Y", rel.Args[1].(*ast.Constant).Name)
}

func TestParseNegation(t *testing.T) {
	f, err := Parse("!P(x)")
	require.NoError(t, err)
	_, ok := f.(*ast.Not)
	assert.True(t, ok)
}

func TestParseQuantifier(t *testing.T) {
	f, err := Parse("forall x (P(x))")
	require.NoError(t, err)
	q, ok := f.(*ast.Quantifier)
	require.True(t, ok)
	assert.Equal(t, ast.Forall, q.Kind)
	assert.Equal(t, "x", q.Var)
}

func TestParseBinaryPrecedence(t *testing.T) {
	// & binds tighter than |, so this should parse as (P | (Q & R)).
	f, err := Parse("P(x) | Q(x) & R(x)")
	require.NoError(t, err)
	bin, ok := f.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Or, bin.Op)
	right, ok := bin.Right.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.And, right.Op)
}

func TestParseLeftAssociative(t *testing.T) {
	f, err := Parse("P(x) & Q(x) & R(x)")
	require.NoError(t, err)
	bin, ok := f.(*ast.Binary)
	require.True(t, ok)
	left, ok := bin.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.And, left.Op)
}

func TestParseImpliesLowestPrecedence(t *testing.T) {
	f, err := Parse("P(x) & Q(x) -> R(x)")
	require.NoError(t, err)
	bin, ok := f.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Implies, bin.Op)
	_, ok = bin.Left.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseParentheses(t *testing.T) {
	f, err := Parse("(P(x) | Q(x)) & R(x)")
	require.NoError(t, err)
	bin, ok := f.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.And, bin.Op)
	_, ok = bin.Left.(*ast.Binary)
	assert.True(t, ok)
}

func TestParseNestedFunction(t *testing.T) {
	f, err := Parse("P(f(x, g(Y)))")
	require.NoError(t, err)
	rel := f.(*ast.Relation)
	fn, ok := rel.Args[0].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Args, 2)
	inner, ok := fn.Args[1].(*ast.Function)
	require.True(t, ok)
	assert.Equal(t, "g", inner.Name)
}

func TestParseRejectsUppercaseBoundVariable(t *testing.T) {
	_, err := Parse("forall X R(X)")
	assert.Error(t, err)
}

func TestParseRejectsArityZeroFunction(t *testing.T) {
	_, err := Parse("P(f())")
	assert.Error(t, err)
}

func TestParseRejectsUnclosedParen(t *testing.T) {
	_, err := Parse("(A")
	assert.Error(t, err)
}

func TestParseRejectsTrailingGarbage(t *testing.T) {
	_, err := Parse("P(x) Q(x)")
	assert.Error(t, err)
}

func TestParseRejectsEmptyInput(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)
}

func TestParseIffAndImplies(t *testing.T) {
	f, err := Parse("P(x) <-> Q(x) -> R(x)")
	require.NoError(t, err)
	// <-> and -> share the lowest precedence and are left-associative,
	// so this parses as ((P <-> Q) -> R).
	bin, ok := f.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Implies, bin.Op)
	left, ok := bin.Left.(*ast.Binary)
	require.True(t, ok)
	assert.Equal(t, ast.Iff, left.Op)
}
