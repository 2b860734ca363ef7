// Package resolution runs given-clause saturation over a set of
// clauses, looking for the empty clause: a derived contradiction that
// proves the negated conjecture inconsistent with the premises.
package resolution

import (
	"context"
	"fmt"
	"time"

	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/clause"
	"github.com/foltheorem/folprove/pkg/fol/unify"
)

// Premise is one initial clause handed to Run, tagged with where it
// came from so a later proof can cite it back to the caller's axiom or
// theorem list.
type Premise struct {
	Clause      clause.Clause
	IsAxiom     bool
	SourceIndex int
}

// Record is one clause in the resolution log: either an initial
// premise (Parent1 and Parent2 both negative) or a resolvent derived
// from two earlier records.
type Record struct {
	Index       int
	Clause      clause.Clause
	IsAxiom     bool
	SourceIndex int
	Parent1     int
	Parent2     int
}

func (r Record) isPremise() bool { return r.Parent1 < 0 && r.Parent2 < 0 }

// Budget bounds a Run: MaxSteps caps the number of given clauses
// processed (0 means unlimited) and Deadline caps wall-clock time (the
// zero Time means unlimited).
type Budget struct {
	MaxSteps int
	Deadline time.Time
}

func (b Budget) exceeded(steps int, now time.Time) bool {
	if b.MaxSteps > 0 && steps >= b.MaxSteps {
		return true
	}
	if !b.Deadline.IsZero() && !now.Before(b.Deadline) {
		return true
	}
	return false
}

// Progress is called once per given clause processed, so a caller can
// drive a live view of the search. It must not retain log.
type Progress func(step int, pendingLen int, log []Record)

// Result reports the outcome of a saturation run.
type Result struct {
	// Closed is true if the empty clause was derived: the premises are
	// inconsistent and the conjecture they encode is proved.
	Closed bool
	// Empty is the index into Log of the derived empty clause, valid
	// only if Closed.
	Empty int
	// Log holds every clause considered, premises first in the order
	// given, then each accepted resolvent in derivation order.
	Log []Record
	// Steps is the number of given clauses processed.
	Steps int
}

// Exhausted reports whether the run ended because the search space was
// fully saturated without finding a contradiction (as opposed to
// running out of budget with pending work remaining).
func (r *Result) Exhausted() bool { return !r.Closed && len(r.Log) == r.Steps }

// Run saturates premises under the given-clause algorithm: each newly
// accepted clause is resolved in turn against every clause accepted
// before it, and any non-tautologous, not-yet-seen resolvent joins the
// pending queue. Run returns as soon as the empty clause is derived,
// the budget is exceeded, or the queue empties without one.
func Run(ctx context.Context, premises []Premise, budget Budget, progress Progress) (*Result, error) {
	var log []Record
	seen := map[string]int{}
	var pending []int
	renameCounter := 0

	admit := func(c clause.Clause, isAxiom bool, sourceIndex, p1, p2 int) (int, bool) {
		if c.IsTautology() {
			return -1, false
		}
		key := c.Key()
		if _, ok := seen[key]; ok {
			return -1, false
		}
		idx := len(log)
		log = append(log, Record{
			Index: idx, Clause: c, IsAxiom: isAxiom, SourceIndex: sourceIndex,
			Parent1: p1, Parent2: p2,
		})
		seen[key] = idx
		pending = append(pending, idx)
		return idx, true
	}

	for _, p := range premises {
		if idx, ok := admit(p.Clause, p.IsAxiom, p.SourceIndex, -1, -1); ok && len(log[idx].Clause) == 0 {
			return &Result{Closed: true, Empty: idx, Log: log, Steps: 0}, nil
		}
	}

	var processed []int
	steps := 0
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return &Result{Closed: false, Log: log, Steps: steps}, fmt.Errorf("resolution: %w", err)
		}
		if budget.exceeded(steps, time.Now()) {
			return &Result{Closed: false, Log: log, Steps: steps}, nil
		}

		given := pending[0]
		pending = pending[1:]
		givenRec := log[given]

		for _, otherIdx := range processed {
			other := log[otherIdx]
			for _, resolvent := range resolveClauses(givenRec.Clause, other.Clause, &renameCounter) {
				idx, ok := admit(resolvent, false, 0, given, otherIdx)
				if !ok {
					continue
				}
				if len(log[idx].Clause) == 0 {
					steps++
					return &Result{Closed: true, Empty: idx, Log: log, Steps: steps}, nil
				}
			}
		}
		processed = append(processed, given)
		steps++
		if progress != nil {
			progress(steps, len(pending), log)
		}
	}

	return &Result{Closed: false, Log: log, Steps: steps}, nil
}

// resolveClauses returns every non-tautologous resolvent of a and b.
// b's variables are renamed apart from a's before any unification is
// attempted, so a shared variable name between two unrelated clauses
// never causes an accidental, unintended binding.
func resolveClauses(a, b clause.Clause, renameCounter *int) []clause.Clause {
	bRenamed := renameApart(b, renameCounter)

	var resolvents []clause.Clause
	for _, la := range a.Literals() {
		for _, lb := range bRenamed.Literals() {
			if la.Name != lb.Name || la.Negated == lb.Negated {
				continue
			}
			sub, ok := unify.MGU(la.Args, lb.Args)
			if !ok {
				continue
			}
			var lits []clause.Literal
			for _, l := range a.Literals() {
				if l.Key() == la.Key() {
					continue
				}
				lits = append(lits, applySubLiteral(sub, l))
			}
			for _, l := range bRenamed.Literals() {
				if l.Key() == lb.Key() {
					continue
				}
				lits = append(lits, applySubLiteral(sub, l))
			}
			resolvents = append(resolvents, clause.New(lits...))
		}
	}
	return resolvents
}

func applySubLiteral(sub unify.Substitution, l clause.Literal) clause.Literal {
	args := make([]ast.Term, len(l.Args))
	for i, a := range l.Args {
		args[i] = unify.Apply(sub, a)
	}
	return clause.Literal{Name: l.Name, Negated: l.Negated, Args: args}
}

// renameApart returns a copy of c with every variable replaced by one
// unique to this call, so it shares no variable name with whatever
// clause it is about to be resolved against.
func renameApart(c clause.Clause, counter *int) clause.Clause {
	names := map[string]bool{}
	for _, l := range c {
		for _, a := range l.Args {
			collectVars(a, names)
		}
	}
	gen := *counter
	*counter++
	sub := unify.Substitution{}
	for name := range names {
		sub[name] = &ast.Variable{Name: fmt.Sprintf("r%d_%s", gen, name)}
	}

	lits := make([]clause.Literal, 0, len(c))
	for _, l := range c {
		lits = append(lits, applySubLiteral(sub, l))
	}
	return clause.New(lits...)
}

func collectVars(t ast.Term, into map[string]bool) {
	switch n := t.(type) {
	case *ast.Variable:
		into[n.Name] = true
	case *ast.Function:
		for _, a := range n.Args {
			collectVars(a, into)
		}
	}
}
