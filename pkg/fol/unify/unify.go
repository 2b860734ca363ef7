// Package unify computes most general unifiers over first-order terms,
// with an occurs-check to reject unifications that would build an
// infinite term.
package unify

import "github.com/foltheorem/folprove/pkg/fol/ast"

// Substitution maps variable names to the terms bound to them. A
// variable may be bound to another variable, forming a chain that
// Apply resolves to a fixed point.
type Substitution map[string]ast.Term

// MGU computes the most general unifier of two equal-length term
// lists, position by position, threading one substitution across all
// positions so that a binding made for an earlier pair constrains
// later pairs. It reports false if no unifier exists.
func MGU(left, right []ast.Term) (Substitution, bool) {
	if len(left) != len(right) {
		return nil, false
	}
	sub := Substitution{}
	for i := range left {
		if !unifyTerm(left[i], right[i], sub) {
			return nil, false
		}
	}
	return sub, true
}

func unifyTerm(a, b ast.Term, sub Substitution) bool {
	a = chase(sub, a)
	b = chase(sub, b)

	if av, ok := a.(*ast.Variable); ok {
		if bv, ok := b.(*ast.Variable); ok && bv.Name == av.Name {
			return true
		}
		if Apply(sub, b).Contains(av) {
			return false
		}
		sub[av.Name] = b
		return true
	}
	if bv, ok := b.(*ast.Variable); ok {
		if Apply(sub, a).Contains(bv) {
			return false
		}
		sub[bv.Name] = a
		return true
	}

	switch at := a.(type) {
	case *ast.Constant:
		bt, ok := b.(*ast.Constant)
		return ok && bt.Name == at.Name
	case *ast.Function:
		bt, ok := b.(*ast.Function)
		if !ok || bt.Name != at.Name || len(bt.Args) != len(at.Args) {
			return false
		}
		for i := range at.Args {
			if !unifyTerm(at.Args[i], bt.Args[i], sub) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// chase follows a chain of variable-to-variable (or variable-to-bound)
// links in sub without recursing into compound terms. It only reads
// sub: the bindings along the chain are not rewritten (no path
// compression), so a later lookup walks the same chain again.
func chase(sub Substitution, t ast.Term) ast.Term {
	for {
		v, ok := t.(*ast.Variable)
		if !ok {
			return t
		}
		rep, bound := sub[v.Name]
		if !bound {
			return t
		}
		t = rep
	}
}

// Apply fully resolves t under sub, substituting into every argument
// of a compound term so the result contains no variable sub binds.
func Apply(sub Substitution, t ast.Term) ast.Term {
	t = chase(sub, t)
	fn, ok := t.(*ast.Function)
	if !ok {
		return t
	}
	args := make([]ast.Term, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = Apply(sub, a)
	}
	return &ast.Function{Name: fn.Name, Args: args}
}
