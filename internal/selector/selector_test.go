package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/parser"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

func parseTestFormula(t *testing.T, src string) (ast.Formula, error) {
	t.Helper()
	f, err := parser.Parse(src)
	require.NoError(t, err)
	return f, err
}

func TestAllAxiomsSelectsEverything(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	_, err := s.AddAxiom("a1", "P(A)")
	require.NoError(t, err)
	_, err = s.AddAxiom("a2", "Q(A)")
	require.NoError(t, err)
	_, err = s.RestoreTheorem("t1", "R(A)")
	require.NoError(t, err)

	premises, err := AllAxioms{}.SelectPremises(s, nil)
	require.NoError(t, err)
	assert.Len(t, premises, 3)

	var sawAxiom, sawTheorem bool
	for _, p := range premises {
		if p.IsAxiom {
			sawAxiom = true
		} else {
			sawTheorem = true
		}
	}
	assert.True(t, sawAxiom)
	assert.True(t, sawTheorem)
}

func TestAllAxiomsOnEmptySessionSelectsNothing(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	premises, err := AllAxioms{}.SelectPremises(s, nil)
	require.NoError(t, err)
	assert.Empty(t, premises)
}

func TestStarlarkSelectsByDescriptionKeyword(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	_, err := s.AddAxiom("animals: all men are mortal", "forall x (Man(x) -> Mortal(x))")
	require.NoError(t, err)
	_, err = s.AddAxiom("unrelated fact", "Q(A)")
	require.NoError(t, err)

	script := `
def select(axiom_descriptions, theorem_descriptions, conjecture):
    keep = []
    for i in range(len(axiom_descriptions)):
        if "animals" in axiom_descriptions[i]:
            keep.append(i)
    return keep, []
`
	sel := Starlark{Script: script}
	f, _ := parseTestFormula(t, "Mortal(Socrates)")
	premises, err := sel.SelectPremises(s, f)
	require.NoError(t, err)
	require.Len(t, premises, 1)
	assert.Equal(t, 0, premises[0].SourceIndex)
	assert.True(t, premises[0].IsAxiom)
}

func TestStarlarkScriptMissingSelectFunctionErrors(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	sel := Starlark{Script: "x = 1\n"}
	f, _ := parseTestFormula(t, "P(A)")
	_, err := sel.SelectPremises(s, f)
	assert.Error(t, err)
}

func TestStarlarkInfiniteLoopIsKilledByStepBudget(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	_, err := s.AddAxiom("a1", "P(A)")
	require.NoError(t, err)

	script := `
def select(axiom_descriptions, theorem_descriptions, conjecture):
    while True:
        pass
    return [], []
`
	sel := Starlark{Script: script}
	f, _ := parseTestFormula(t, "P(A)")
	_, err = sel.SelectPremises(s, f)
	assert.Error(t, err)
}

func TestStarlarkOutOfRangeIndexErrors(t *testing.T) {
	s := session.New(AllAxioms{}, nil)
	_, err := s.AddAxiom("only axiom", "P(A)")
	require.NoError(t, err)

	script := `
def select(axiom_descriptions, theorem_descriptions, conjecture):
    return [5], []
`
	sel := Starlark{Script: script}
	f, _ := parseTestFormula(t, "P(A)")
	_, err = sel.SelectPremises(s, f)
	assert.Error(t, err)
}
