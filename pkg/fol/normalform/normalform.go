// Package normalform converts a parsed formula into Skolemized
// conjunctive normal form: a conjunction of disjunctions of literals,
// free of implication, quantifiers, and existential variables, ready
// for clause extraction.
//
// Convert runs six passes, each grounded on a distinct stage of the
// classical resolution pipeline: simplify connectives, push negations
// inward, standardize bound variable names apart, pull quantifiers to
// prenex position, Skolemize the existentials away, and distribute
// disjunction over conjunction.
package normalform

import (
	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/symbols"
)

// Convert reduces f to Skolemized CNF. mgr supplies the fresh Skolem
// function and standardized variable names; callers that convert many
// formulas over the lifetime of a session should share one Manager so
// minted names never collide across formulas.
func Convert(f ast.Formula, mgr *symbols.Manager) (ast.Formula, error) {
	mgr.ReserveNames(f)

	f = simplifyConnectives(f)
	f = moveNegationsInward(f)

	std := symbols.NewStandardizer(mgr)
	f = standardizeVariables(f, std)

	prefix, matrix := splitPrefix(moveQuantifiersOutward(f))
	matrix = skolemize(prefix, matrix, mgr)

	return toCNF(matrix), nil
}

// simplifyConnectives rewrites Implies and Iff in terms of Not, And,
// and Or: (A -> B) becomes (!A | B); (A <-> B) becomes
// ((!A | B) & (!B | A)).
func simplifyConnectives(f ast.Formula) ast.Formula {
	switch n := f.(type) {
	case *ast.Relation:
		return n
	case *ast.Not:
		return &ast.Not{Arg: simplifyConnectives(n.Arg)}
	case *ast.Quantifier:
		return &ast.Quantifier{Kind: n.Kind, Var: n.Var, Arg: simplifyConnectives(n.Arg)}
	case *ast.Binary:
		left := simplifyConnectives(n.Left)
		right := simplifyConnectives(n.Right)
		switch n.Op {
		case ast.And, ast.Or:
			return &ast.Binary{Op: n.Op, Left: left, Right: right}
		case ast.Implies:
			return &ast.Binary{Op: ast.Or, Left: &ast.Not{Arg: left}, Right: right}
		default: // Iff
			forward := &ast.Binary{Op: ast.Or, Left: &ast.Not{Arg: left}, Right: right}
			backward := &ast.Binary{Op: ast.Or, Left: &ast.Not{Arg: right}, Right: left}
			return &ast.Binary{Op: ast.And, Left: forward, Right: backward}
		}
	default:
		return f
	}
}

// moveNegationsInward pushes Not through And/Or (De Morgan), cancels
// double negation, and dualizes negated quantifiers, leaving Not
// applied only to relations (negation normal form).
func moveNegationsInward(f ast.Formula) ast.Formula {
	switch n := f.(type) {
	case *ast.Relation:
		return n
	case *ast.Binary:
		return &ast.Binary{Op: n.Op, Left: moveNegationsInward(n.Left), Right: moveNegationsInward(n.Right)}
	case *ast.Quantifier:
		return &ast.Quantifier{Kind: n.Kind, Var: n.Var, Arg: moveNegationsInward(n.Arg)}
	case *ast.Not:
		return pushNegation(n.Arg)
	default:
		return f
	}
}

func pushNegation(f ast.Formula) ast.Formula {
	switch n := f.(type) {
	case *ast.Relation:
		return &ast.Not{Arg: n}
	case *ast.Not:
		return moveNegationsInward(n.Arg)
	case *ast.Binary:
		dual := ast.And
		if n.Op == ast.And {
			dual = ast.Or
		}
		return &ast.Binary{Op: dual, Left: pushNegation(n.Left), Right: pushNegation(n.Right)}
	case *ast.Quantifier:
		dual := ast.Forall
		if n.Kind == ast.Forall {
			dual = ast.Exists
		}
		return &ast.Quantifier{Kind: dual, Var: n.Var, Arg: pushNegation(n.Arg)}
	default:
		return &ast.Not{Arg: f}
	}
}

// standardizeVariables renames every bound variable to a name unique
// across the whole conversion, so a later quantifier reordering or
// Skolem substitution can never capture a variable from an unrelated
// scope.
func standardizeVariables(f ast.Formula, std *symbols.Standardizer) ast.Formula {
	switch n := f.(type) {
	case *ast.Relation:
		args := make([]ast.Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = standardizeTerm(a, std)
		}
		return &ast.Relation{Name: n.Name, Args: args}
	case *ast.Not:
		return &ast.Not{Arg: standardizeVariables(n.Arg, std)}
	case *ast.Binary:
		return &ast.Binary{Op: n.Op, Left: standardizeVariables(n.Left, std), Right: standardizeVariables(n.Right, std)}
	case *ast.Quantifier:
		renamed, restore := std.Bind(n.Var)
		defer restore()
		return &ast.Quantifier{Kind: n.Kind, Var: renamed, Arg: standardizeVariables(n.Arg, std)}
	default:
		return f
	}
}

func standardizeTerm(t ast.Term, std *symbols.Standardizer) ast.Term {
	switch n := t.(type) {
	case *ast.Variable:
		return &ast.Variable{Name: std.Resolve(n.Name)}
	case *ast.Constant:
		return n
	case *ast.Function:
		args := make([]ast.Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = standardizeTerm(a, std)
		}
		return &ast.Function{Name: n.Name, Args: args}
	default:
		return t
	}
}

type quantSpec struct {
	kind ast.QuantifierKind
	v    string
}

// moveQuantifiersOutward pulls every quantifier in f to the front
// (prenex form). When combining two already-prenexed subformulas with
// a binary connective, the left subtree's quantifiers wrap the result
// first, followed by the right's: the left chain stays outermost, with
// its innermost quantifier enclosing the right chain, whose innermost
// quantifier in turn encloses the combined matrix.
func moveQuantifiersOutward(f ast.Formula) ast.Formula {
	prefix, matrix := prenex(f)
	return rebuildPrefix(prefix, matrix)
}

func prenex(f ast.Formula) ([]quantSpec, ast.Formula) {
	switch n := f.(type) {
	case *ast.Quantifier:
		inner, matrix := prenex(n.Arg)
		return append([]quantSpec{{n.Kind, n.Var}}, inner...), matrix
	case *ast.Binary:
		leftPrefix, leftMatrix := prenex(n.Left)
		rightPrefix, rightMatrix := prenex(n.Right)
		combined := append(append([]quantSpec{}, leftPrefix...), rightPrefix...)
		return combined, &ast.Binary{Op: n.Op, Left: leftMatrix, Right: rightMatrix}
	case *ast.Not:
		// Negation normal form guarantees Not wraps only a relation here.
		return nil, n
	default:
		return nil, f
	}
}

func rebuildPrefix(prefix []quantSpec, matrix ast.Formula) ast.Formula {
	result := matrix
	for i := len(prefix) - 1; i >= 0; i-- {
		result = &ast.Quantifier{Kind: prefix[i].kind, Var: prefix[i].v, Arg: result}
	}
	return result
}

// splitPrefix separates a prenexed formula's leading quantifier block
// (outermost first) from its quantifier-free matrix.
func splitPrefix(f ast.Formula) ([]quantSpec, ast.Formula) {
	var prefix []quantSpec
	for {
		q, ok := f.(*ast.Quantifier)
		if !ok {
			return prefix, f
		}
		prefix = append(prefix, quantSpec{q.Kind, q.Var})
		f = q.Arg
	}
}

// skolemize eliminates every existentially quantified variable in
// prefix, replacing its occurrences in matrix with a fresh function
// applied to the universally quantified variables in whose scope it
// was bound (or a fresh constant, if none enclose it).
func skolemize(prefix []quantSpec, matrix ast.Formula, mgr *symbols.Manager) ast.Formula {
	var universals []string
	subst := map[string]ast.Term{}
	for _, q := range prefix {
		if q.kind == ast.Forall {
			universals = append(universals, q.v)
			continue
		}
		var term ast.Term
		if len(universals) == 0 {
			term = &ast.Constant{Name: mgr.FreshSkolem()}
		} else {
			args := make([]ast.Term, len(universals))
			for i, v := range universals {
				args[i] = &ast.Variable{Name: v}
			}
			term = &ast.Function{Name: mgr.FreshSkolem(), Args: args}
		}
		subst[q.v] = term
	}
	return substituteFormula(matrix, subst)
}

func substituteFormula(f ast.Formula, subst map[string]ast.Term) ast.Formula {
	switch n := f.(type) {
	case *ast.Relation:
		args := make([]ast.Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteTerm(a, subst)
		}
		return &ast.Relation{Name: n.Name, Args: args}
	case *ast.Not:
		return &ast.Not{Arg: substituteFormula(n.Arg, subst)}
	case *ast.Binary:
		return &ast.Binary{Op: n.Op, Left: substituteFormula(n.Left, subst), Right: substituteFormula(n.Right, subst)}
	default:
		return f
	}
}

func substituteTerm(t ast.Term, subst map[string]ast.Term) ast.Term {
	switch n := t.(type) {
	case *ast.Variable:
		if rep, ok := subst[n.Name]; ok {
			return rep
		}
		return n
	case *ast.Constant:
		return n
	case *ast.Function:
		args := make([]ast.Term, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteTerm(a, subst)
		}
		return &ast.Function{Name: n.Name, Args: args}
	default:
		return t
	}
}

// toCNF distributes Or over And so that f becomes a conjunction of
// disjunctions of literals. Where both sides of an Or are themselves
// conjunctions, the side with more conjuncts is distributed first; ties
// favor the left, matching moveQuantifiersOutward's left-first bias.
func toCNF(f ast.Formula) ast.Formula {
	switch n := f.(type) {
	case *ast.Binary:
		left := toCNF(n.Left)
		right := toCNF(n.Right)
		if n.Op == ast.And {
			return &ast.Binary{Op: ast.And, Left: left, Right: right}
		}
		return distributeOr(left, right)
	default:
		return f
	}
}

func distributeOr(left, right ast.Formula) ast.Formula {
	leftAnd, lok := asAnd(left)
	rightAnd, rok := asAnd(right)
	switch {
	case lok && rok:
		if numConjunctions(right) > numConjunctions(left) {
			return &ast.Binary{Op: ast.And, Left: distributeOr(left, rightAnd.Left), Right: distributeOr(left, rightAnd.Right)}
		}
		return &ast.Binary{Op: ast.And, Left: distributeOr(leftAnd.Left, right), Right: distributeOr(leftAnd.Right, right)}
	case lok:
		return &ast.Binary{Op: ast.And, Left: distributeOr(leftAnd.Left, right), Right: distributeOr(leftAnd.Right, right)}
	case rok:
		return &ast.Binary{Op: ast.And, Left: distributeOr(left, rightAnd.Left), Right: distributeOr(left, rightAnd.Right)}
	default:
		return &ast.Binary{Op: ast.Or, Left: left, Right: right}
	}
}

func asAnd(f ast.Formula) (*ast.Binary, bool) {
	b, ok := f.(*ast.Binary)
	return b, ok && b.Op == ast.And
}

func numConjunctions(f ast.Formula) int {
	b, ok := f.(*ast.Binary)
	if !ok {
		return 0
	}
	n := numConjunctions(b.Left) + numConjunctions(b.Right)
	if b.Op == ast.And {
		n++
	}
	return n
}
