// Package selector provides premise-selection strategies for a
// session.Session: which axioms and already-proved theorems to hand to
// the resolution search for a given conjecture.
package selector

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/resolution"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

// AllAxioms selects every axiom and every already-proved theorem as a
// premise, unconditionally. It is the default when a session is not
// configured with anything narrower.
type AllAxioms struct{}

// SelectPremises implements session.Selector.
func (AllAxioms) SelectPremises(s *session.Session, _ ast.Formula) ([]resolution.Premise, error) {
	var premises []resolution.Premise
	for i, a := range s.Axioms() {
		for _, c := range a.Clauses {
			premises = append(premises, resolution.Premise{Clause: c, IsAxiom: true, SourceIndex: i})
		}
	}
	for i, t := range s.Theorems() {
		for _, c := range t.Clauses {
			premises = append(premises, resolution.Premise{Clause: c, IsAxiom: false, SourceIndex: i})
		}
	}
	return premises, nil
}

// maxExecutionSteps bounds how many Starlark bytecode steps a selector
// script may run before its thread aborts it. It guards against a
// misbehaving script (an infinite loop, say) hanging the prover.
const maxExecutionSteps = 1_000_000

// Starlark selects premises by running a sandboxed script against the
// session's axiom and theorem descriptions. The script must define a
// function:
//
//	def select(axiom_descriptions, theorem_descriptions, conjecture):
//	    return [indices of axioms to keep], [indices of theorems to keep]
//
// This lets a session narrow its premise set by naming convention,
// keyword match, or any other policy expressible in Starlark, without
// this package needing to know which.
type Starlark struct {
	Script string
}

// SelectPremises implements session.Selector.
func (s Starlark) SelectPremises(sess *session.Session, conjecture ast.Formula) ([]resolution.Premise, error) {
	axioms := sess.Axioms()
	theorems := sess.Theorems()

	axiomDescs := make([]starlark.Value, len(axioms))
	for i, a := range axioms {
		axiomDescs[i] = starlark.String(a.Description)
	}
	theoremDescs := make([]starlark.Value, len(theorems))
	for i, t := range theorems {
		theoremDescs[i] = starlark.String(t.Description)
	}

	thread := &starlark.Thread{Name: "selector"}
	thread.SetMaxExecutionSteps(maxExecutionSteps)
	globals, err := starlark.ExecFile(thread, "selector.star", s.Script, nil)
	if err != nil {
		return nil, fmt.Errorf("selector: loading script: %w", err)
	}

	selectFn, ok := globals["select"]
	if !ok {
		return nil, fmt.Errorf("selector: script does not define select()")
	}
	fn, ok := selectFn.(*starlark.Function)
	if !ok {
		return nil, fmt.Errorf("selector: select is not callable")
	}

	args := starlark.Tuple{
		starlark.NewList(axiomDescs),
		starlark.NewList(theoremDescs),
		starlark.String(conjecture.String()),
	}
	result, err := starlark.Call(thread, fn, args, nil)
	if err != nil {
		return nil, fmt.Errorf("selector: calling select(): %w", err)
	}

	tuple, ok := result.(starlark.Tuple)
	if !ok || len(tuple) != 2 {
		return nil, fmt.Errorf("selector: select() must return (axiom_indices, theorem_indices)")
	}
	axiomIdx, err := toIntSlice(tuple[0])
	if err != nil {
		return nil, fmt.Errorf("selector: axiom_indices: %w", err)
	}
	theoremIdx, err := toIntSlice(tuple[1])
	if err != nil {
		return nil, fmt.Errorf("selector: theorem_indices: %w", err)
	}

	var premises []resolution.Premise
	for _, i := range axiomIdx {
		if i < 0 || i >= len(axioms) {
			return nil, fmt.Errorf("selector: axiom index %d out of range", i)
		}
		for _, c := range axioms[i].Clauses {
			premises = append(premises, resolution.Premise{Clause: c, IsAxiom: true, SourceIndex: i})
		}
	}
	for _, i := range theoremIdx {
		if i < 0 || i >= len(theorems) {
			return nil, fmt.Errorf("selector: theorem index %d out of range", i)
		}
		for _, c := range theorems[i].Clauses {
			premises = append(premises, resolution.Premise{Clause: c, IsAxiom: false, SourceIndex: i})
		}
	}
	return premises, nil
}

func toIntSlice(v starlark.Value) ([]int, error) {
	iterable, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("expected a list of integers, got %s", v.Type())
	}
	var out []int
	it := iterable.Iterate()
	defer it.Done()
	var elem starlark.Value
	for it.Next(&elem) {
		n, ok := elem.(starlark.Int)
		if !ok {
			return nil, fmt.Errorf("expected an integer element, got %s", elem.Type())
		}
		i, ok := n.Int64()
		if !ok {
			return nil, fmt.Errorf("index %s out of range", n.String())
		}
		out = append(out, int(i))
	}
	return out, nil
}
