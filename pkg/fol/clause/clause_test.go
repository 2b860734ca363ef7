package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foltheorem/folprove/pkg/fol/ast"
)

func x() ast.Term { return &ast.Variable{Name: "x"} }

func px() *ast.Relation  { return &ast.Relation{Name: "P", Args: []ast.Term{x()}} }
func npx() ast.Formula   { return &ast.Not{Arg: px()} }
func qx() *ast.Relation  { return &ast.Relation{Name: "Q", Args: []ast.Term{x()}} }

func TestLiteralKeyDistinguishesPolarity(t *testing.T) {
	pos := Literal{Name: "P", Args: []ast.Term{x()}}
	neg := pos.Negate()
	assert.NotEqual(t, pos.Key(), neg.Key())
	assert.Equal(t, pos.AtomKey(), neg.AtomKey())
}

func TestIsTautology(t *testing.T) {
	c := New(
		Literal{Name: "P", Args: []ast.Term{x()}},
		Literal{Name: "P", Args: []ast.Term{x()}, Negated: true},
	)
	assert.True(t, c.IsTautology())
}

func TestIsNotTautology(t *testing.T) {
	c := New(
		Literal{Name: "P", Args: []ast.Term{x()}},
		Literal{Name: "Q", Args: []ast.Term{x()}, Negated: true},
	)
	assert.False(t, c.IsTautology())
}

func TestEmptyClauseRendersAsContradictionSymbol(t *testing.T) {
	assert.Equal(t, "⊥", New().String())
}

func TestClauseDedupesIdenticalLiterals(t *testing.T) {
	c := New(
		Literal{Name: "P", Args: []ast.Term{x()}},
		Literal{Name: "P", Args: []ast.Term{x()}},
	)
	assert.Len(t, c.Literals(), 1)
}

func TestExtractAllSplitsConjunctionAndDisjunction(t *testing.T) {
	// (P(x) | Q(x)) & !P(x)
	f := &ast.Binary{
		Op:   ast.And,
		Left: &ast.Binary{Op: ast.Or, Left: px(), Right: qx()},
		Right: npx(),
	}
	clauses, err := ExtractAll(f)
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Len(t, clauses[0].Literals(), 2)
	assert.Len(t, clauses[1].Literals(), 1)
}

func TestExtractAllRejectsNonCNFInput(t *testing.T) {
	// A quantifier has no business appearing in clause-extraction input.
	f := &ast.Quantifier{Kind: ast.Forall, Var: "x", Arg: px()}
	_, err := ExtractAll(f)
	assert.Error(t, err)
}

func TestUnionMergesLiteralsFromBothClauses(t *testing.T) {
	a := New(Literal{Name: "P", Args: []ast.Term{x()}})
	b := New(Literal{Name: "Q", Args: []ast.Term{x()}})
	u := Union(a, b)
	assert.Len(t, u.Literals(), 2)
}

func TestClauseKeyIsOrderIndependent(t *testing.T) {
	a := New(
		Literal{Name: "P", Args: []ast.Term{x()}},
		Literal{Name: "Q", Args: []ast.Term{x()}},
	)
	b := New(
		Literal{Name: "Q", Args: []ast.Term{x()}},
		Literal{Name: "P", Args: []ast.Term{x()}},
	)
	assert.Equal(t, a.Key(), b.Key())
}
