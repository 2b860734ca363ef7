// Package symbols mints the fresh names a normal-form conversion needs:
// Skolem functions and standardized bound-variable names. Both share one
// counter per Manager so that no minted name can collide with another,
// or with a name already present in the source formula.
package symbols

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/foltheorem/folprove/pkg/fol/ast"
)

// Manager mints fresh function and variable symbols for every
// normal-form conversion that shares it. It is not safe for concurrent use.
type Manager struct {
	counter  int
	reserved map[string]bool
}

// NewManager builds an empty Manager. Call ReserveNames for every
// formula that will share this Manager before minting any fresh names,
// so Skolem functions and renamed variables can never shadow a
// user-written symbol from any of them.
func NewManager() *Manager {
	return &Manager{reserved: map[string]bool{}}
}

// ReserveNames records every identifier used in f so future minted
// names avoid it. Safe to call repeatedly as new formulas join a
// session that shares this Manager.
func (m *Manager) ReserveNames(f ast.Formula) {
	collectNames(f, m.reserved)
}

// FreshSkolem mints a new, previously unused Skolem function name.
func (m *Manager) FreshSkolem() string {
	return m.fresh("func_")
}

// FreshVariable mints a new, previously unused variable name.
func (m *Manager) FreshVariable() string {
	return m.fresh("x_")
}

func (m *Manager) fresh(prefix string) string {
	for {
		name := prefix + strconv.Itoa(m.counter)
		m.counter++
		if !m.reserved[name] {
			m.reserved[name] = true
			return name
		}
	}
}

// Standardizer renames every bound variable of one formula to a symbol
// unique across the whole conversion, using scoped push/pop so that
// re-entering a quantifier's scope (e.g. while rebuilding prenex form)
// resolves to the same standardized name throughout that scope.
type Standardizer struct {
	mgr     *Manager
	binding map[string][]string // original name -> stack of renamed names, innermost last
}

// NewStandardizer creates a Standardizer drawing fresh names from mgr.
func NewStandardizer(mgr *Manager) *Standardizer {
	return &Standardizer{mgr: mgr, binding: map[string][]string{}}
}

// Bind introduces a new scope for the bound variable named orig,
// mapping it to a freshly minted name, and returns a restore function
// that pops the scope. Callers must defer or otherwise invoke restore
// exactly once per Bind, in LIFO order with any nested Binds.
func (s *Standardizer) Bind(orig string) (renamed string, restore func()) {
	renamed = s.mgr.FreshVariable()
	s.binding[orig] = append(s.binding[orig], renamed)
	return renamed, func() {
		stack := s.binding[orig]
		s.binding[orig] = stack[:len(stack)-1]
	}
}

// Resolve maps a variable's original name to its current standardized
// name if it is bound in an enclosing scope, or returns orig unchanged
// for a free variable.
func (s *Standardizer) Resolve(orig string) string {
	stack := s.binding[orig]
	if len(stack) == 0 {
		return orig
	}
	return stack[len(stack)-1]
}

func collectNames(f ast.Formula, into map[string]bool) {
	switch n := f.(type) {
	case *ast.Relation:
		into[n.Name] = true
		for _, a := range n.Args {
			collectTermNames(a, into)
		}
	case *ast.Not:
		collectNames(n.Arg, into)
	case *ast.Binary:
		collectNames(n.Left, into)
		collectNames(n.Right, into)
	case *ast.Quantifier:
		into[n.Var] = true
		collectNames(n.Arg, into)
	}
}

func collectTermNames(t ast.Term, into map[string]bool) {
	switch n := t.(type) {
	case *ast.Variable:
		into[n.Name] = true
	case *ast.Constant:
		into[n.Name] = true
	case *ast.Function:
		into[n.Name] = true
		for _, a := range n.Args {
			collectTermNames(a, into)
		}
	}
}

// DebugString renders a Manager's reserved-name set; useful only in
// tests, never on a hot path.
func (m *Manager) DebugString() string {
	names := make([]string, 0, len(m.reserved))
	for n := range m.reserved {
		names = append(names, n)
	}
	return fmt.Sprintf("reserved(%d): %s", len(names), strings.Join(names, ","))
}
