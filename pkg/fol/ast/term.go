// Package ast defines the value types of the FOL term and formula model.
//
// Terms and formulas are immutable once constructed; equality is
// structural and every node can produce a canonical string key so it can
// be used inside a Go map (term slices make native map-key equality
// unavailable for Function).
package ast

import "strings"

// Term is a Variable, Constant, or Function. It is a disjoint type from
// Formula; mixing the two is a programming error.
type Term interface {
	isTerm()
	// Key returns a canonical string representation, suitable for use as
	// a map key and for structural equality comparisons.
	Key() string
	// Contains reports whether u occurs anywhere inside t (including t
	// itself). Used by the unifier's occurs-check.
	Contains(u Term) bool
	String() string
}

// Variable is a lowercase-initial bound or free variable.
type Variable struct {
	Name string
}

func (v *Variable) isTerm()       {}
func (v *Variable) Key() string   { return "v:" + v.Name }
func (v *Variable) String() string { return v.Name }
func (v *Variable) Contains(u Term) bool {
	other, ok := u.(*Variable)
	return ok && other.Name == v.Name
}

// Constant is a 0-ary symbol: uppercase-or-digit-initial when written in
// source, or a minted Skolem constant such as func_0.
type Constant struct {
	Name string
}

func (c *Constant) isTerm()        {}
func (c *Constant) Key() string    { return "c:" + c.Name }
func (c *Constant) String() string { return c.Name }
func (c *Constant) Contains(u Term) bool {
	other, ok := u.(*Constant)
	return ok && other.Name == c.Name
}

// Function is a named, arity>=1 function applied to ordered arguments.
// Arity-0 functions are forbidden by the parser; encode them as
// Constant instead.
type Function struct {
	Name string
	Args []Term
}

func (f *Function) isTerm() {}

func (f *Function) Key() string {
	var sb strings.Builder
	sb.WriteString("f:")
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Key())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (f *Function) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return f.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (f *Function) Contains(u Term) bool {
	if other, ok := u.(*Function); ok && other.Name == f.Name && sameArgs(other.Args, f.Args) {
		return true
	}
	for _, arg := range f.Args {
		if arg.Contains(u) {
			return true
		}
	}
	return false
}

func sameArgs(a, b []Term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}

// Equal reports whether two terms are structurally identical.
func Equal(a, b Term) bool {
	return a.Key() == b.Key()
}

// IsVariableName reports whether name should be parsed as a variable
// (lowercase-initial) as opposed to a constant/function (uppercase- or
// digit-initial).
func IsVariableName(name string) bool {
	if name == "" {
		return false
	}
	ch := name[0]
	return ch >= 'a' && ch <= 'z'
}
