// Package clause models ground and variable clauses extracted from
// Skolemized conjunctive normal form, as flat sets of literals rather
// than formula trees.
package clause

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foltheorem/folprove/pkg/fol/ast"
)

// Literal is a (possibly negated) atomic proposition.
type Literal struct {
	Name    string
	Negated bool
	Args    []ast.Term
}

// Key is a canonical string identifying this literal, including its
// polarity. Two literals with the same Key are structurally identical.
func (l Literal) Key() string {
	var sb strings.Builder
	if l.Negated {
		sb.WriteByte('!')
	}
	sb.WriteString(l.Name)
	sb.WriteByte('(')
	for i, a := range l.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Key())
	}
	sb.WriteByte(')')
	return sb.String()
}

// AtomKey identifies a literal's underlying atom, ignoring polarity.
// Two literals with the same AtomKey but opposite Negated values are
// complementary.
func (l Literal) AtomKey() string {
	var sb strings.Builder
	sb.WriteString(l.Name)
	sb.WriteByte('(')
	for i, a := range l.Args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.Key())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Negate returns the complement of l.
func (l Literal) Negate() Literal {
	return Literal{Name: l.Name, Negated: !l.Negated, Args: l.Args}
}

func (l Literal) String() string {
	parts := make([]string, len(l.Args))
	for i, a := range l.Args {
		parts[i] = a.String()
	}
	s := l.Name + "(" + strings.Join(parts, ", ") + ")"
	if l.Negated {
		return "!" + s
	}
	return s
}

// Clause is a set of literals, implicitly disjoined and implicitly
// universally quantified over every variable it contains. Keying by a
// literal's Key gives native map-based deduplication.
type Clause map[string]Literal

// New builds a Clause from lits, deduplicating by Key.
func New(lits ...Literal) Clause {
	c := make(Clause, len(lits))
	for _, l := range lits {
		c[l.Key()] = l
	}
	return c
}

// IsTautology reports whether c contains a literal and its complement,
// making it trivially true and useless as a resolution premise.
func (c Clause) IsTautology() bool {
	for _, l := range c {
		if _, ok := c[l.Negate().Key()]; ok {
			return true
		}
	}
	return false
}

// Literals returns c's members in a stable, deterministic order.
func (c Clause) Literals() []Literal {
	lits := make([]Literal, 0, len(c))
	for _, l := range c {
		lits = append(lits, l)
	}
	sort.Slice(lits, func(i, j int) bool { return lits[i].Key() < lits[j].Key() })
	return lits
}

// Key is a canonical string identifying c's literal set, independent
// of insertion order. Two clauses with the same Key are the same set
// of literals (though the variables inside may still need renaming
// apart before they can be resolved together).
func (c Clause) Key() string {
	lits := c.Literals()
	keys := make([]string, len(lits))
	for i, l := range lits {
		keys[i] = l.Key()
	}
	return strings.Join(keys, "|")
}

// Union returns a new Clause containing every literal of a and b,
// deduplicated.
func Union(a, b Clause) Clause {
	out := make(Clause, len(a)+len(b))
	for k, l := range a {
		out[k] = l
	}
	for k, l := range b {
		out[k] = l
	}
	return out
}

func (c Clause) String() string {
	if len(c) == 0 {
		return "⊥" // the empty clause: a contradiction
	}
	lits := c.Literals()
	parts := make([]string, len(lits))
	for i, l := range lits {
		parts[i] = l.String()
	}
	return strings.Join(parts, " | ")
}

// ExtractAll splits a Skolemized CNF formula into its conjuncts, each
// reduced to a Clause of literals.
func ExtractAll(f ast.Formula) ([]Clause, error) {
	var clauses []Clause
	var walk func(ast.Formula) error
	walk = func(f ast.Formula) error {
		if b, ok := f.(*ast.Binary); ok && b.Op == ast.And {
			if err := walk(b.Left); err != nil {
				return err
			}
			return walk(b.Right)
		}
		lits, err := extractDisjuncts(f, nil)
		if err != nil {
			return err
		}
		clauses = append(clauses, New(lits...))
		return nil
	}
	if err := walk(f); err != nil {
		return nil, err
	}
	return clauses, nil
}

func extractDisjuncts(f ast.Formula, into []Literal) ([]Literal, error) {
	if b, ok := f.(*ast.Binary); ok && b.Op == ast.Or {
		into, err := extractDisjuncts(b.Left, into)
		if err != nil {
			return nil, err
		}
		return extractDisjuncts(b.Right, into)
	}
	lit, err := literalOf(f)
	if err != nil {
		return nil, err
	}
	return append(into, lit), nil
}

func literalOf(f ast.Formula) (Literal, error) {
	switch n := f.(type) {
	case *ast.Relation:
		return Literal{Name: n.Name, Args: n.Args}, nil
	case *ast.Not:
		rel, ok := n.Arg.(*ast.Relation)
		if !ok {
			return Literal{}, fmt.Errorf("clause: negation does not wrap a relation: %s", f)
		}
		return Literal{Name: rel.Name, Negated: true, Args: rel.Args}, nil
	default:
		return Literal{}, fmt.Errorf("clause: expected a literal, got %s", f)
	}
}
