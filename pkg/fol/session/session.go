// Package session ties the FOL pipeline stages together into a
// stateful prover: a running set of axioms and proved theorems that
// new conjectures are checked against.
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foltheorem/folprove/pkg/fol/ast"
	"github.com/foltheorem/folprove/pkg/fol/clause"
	"github.com/foltheorem/folprove/pkg/fol/normalform"
	"github.com/foltheorem/folprove/pkg/fol/parser"
	"github.com/foltheorem/folprove/pkg/fol/proof"
	"github.com/foltheorem/folprove/pkg/fol/resolution"
	"github.com/foltheorem/folprove/pkg/fol/symbols"
)

// Axiom is a standing premise the session will draw on for every later
// proof attempt.
type Axiom struct {
	Description string
	Source      string
	Formula     ast.Formula
	Clauses     []clause.Clause
}

// Theorem is a conjecture the session has already proved. Its clauses
// are the ones derived from its own (non-negated) formula, so a later
// proof can cite it the same way it would cite an axiom.
type Theorem struct {
	Description string
	Source      string
	Formula     ast.Formula
	Clauses     []clause.Clause
}

// Selector chooses which of a session's axioms and already-proved
// theorems to hand to the resolution search for a given conjecture.
// The zero-effort choice is to hand over everything
// (internal/selector.AllAxioms); a session may instead plug in a
// narrower, scripted, or embedding-based strategy without this package
// needing to know which.
type Selector interface {
	SelectPremises(s *Session, conjecture ast.Formula) ([]resolution.Premise, error)
}

// Session is a running proof context: a symbol manager shared by every
// conversion so Skolem and standardized names never collide across
// formulas, a growing axiom and theorem base, and a pluggable premise
// selector.
type Session struct {
	mgr      *symbols.Manager
	selector Selector
	log      *slog.Logger

	axioms   []Axiom
	theorems []Theorem
}

// New creates an empty Session. A nil logger discards all log output,
// and a nil selector defaults to selecting every axiom and theorem.
func New(selector Selector, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(discardHandler{})
	}
	return &Session{
		mgr:      symbols.NewManager(),
		selector: selector,
		log:      log,
	}
}

// Axioms returns the session's axioms in the order they were added.
func (s *Session) Axioms() []Axiom { return append([]Axiom(nil), s.axioms...) }

// Theorems returns the session's proved theorems in the order they
// were proved.
func (s *Session) Theorems() []Theorem { return append([]Theorem(nil), s.theorems...) }

// AddAxiom parses src, reduces it to Skolemized CNF, and adds it to the
// session's standing premises. It returns the new axiom's index.
func (s *Session) AddAxiom(description, src string) (int, error) {
	f, err := parser.Parse(src)
	if err != nil {
		return -1, fmt.Errorf("session: parsing axiom %q: %w", description, err)
	}
	cnf, err := normalform.Convert(f, s.mgr)
	if err != nil {
		return -1, fmt.Errorf("session: normalizing axiom %q: %w", description, err)
	}
	clauses, err := clause.ExtractAll(cnf)
	if err != nil {
		return -1, fmt.Errorf("session: extracting clauses for axiom %q: %w", description, err)
	}
	idx := len(s.axioms)
	s.axioms = append(s.axioms, Axiom{Description: description, Source: src, Formula: f, Clauses: clauses})
	s.log.Info("axiom added", "index", idx, "description", description)
	return idx, nil
}

// RestoreTheorem re-adds an already-proved theorem to the session
// without re-running resolution against it: it trusts the caller that
// src was proved before, typically because it is reloading a session
// from persisted storage.
func (s *Session) RestoreTheorem(description, src string) (int, error) {
	f, err := parser.Parse(src)
	if err != nil {
		return -1, fmt.Errorf("session: parsing restored theorem %q: %w", description, err)
	}
	cnf, err := normalform.Convert(f, s.mgr)
	if err != nil {
		return -1, fmt.Errorf("session: normalizing restored theorem %q: %w", description, err)
	}
	clauses, err := clause.ExtractAll(cnf)
	if err != nil {
		return -1, fmt.Errorf("session: extracting clauses for restored theorem %q: %w", description, err)
	}
	idx := len(s.theorems)
	s.theorems = append(s.theorems, Theorem{Description: description, Source: src, Formula: f, Clauses: clauses})
	return idx, nil
}

// ProveResult reports the outcome of one Prove call.
type ProveResult struct {
	Proved bool
	// TheoremIndex is the index the conjecture was recorded under in
	// Theorems, valid only when Proved.
	TheoremIndex int
	// Proof is the minimal derivation of the contradiction, valid only
	// when Proved.
	Proof []*proof.Clause
	// Search is the full resolution run, useful for diagnostics even
	// when the conjecture was not proved.
	Search *resolution.Result
}

// NegatedConjectureSource marks a resolution.Premise as coming from the
// negation of the conjecture under test, rather than from any axiom or
// theorem index.
const NegatedConjectureSource = -1

// Prove attempts to prove the conjecture parsed from src. It negates
// the conjecture, asks the session's selector which axioms and
// theorems to reason from, and runs resolution over their clauses
// together with the negated conjecture's. On success, the conjecture
// (not its negation) is appended to the session's theorems so later
// proofs can cite it.
func (s *Session) Prove(ctx context.Context, description, src string, budget resolution.Budget, progress resolution.Progress) (*ProveResult, error) {
	f, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("session: parsing conjecture %q: %w", description, err)
	}

	negated := &ast.Not{Arg: f}
	negatedCNF, err := normalform.Convert(negated, s.mgr)
	if err != nil {
		return nil, fmt.Errorf("session: normalizing negated conjecture %q: %w", description, err)
	}
	negatedClauses, err := clause.ExtractAll(negatedCNF)
	if err != nil {
		return nil, fmt.Errorf("session: extracting clauses for negated conjecture %q: %w", description, err)
	}

	var premises []resolution.Premise
	if s.selector != nil {
		premises, err = s.selector.SelectPremises(s, f)
		if err != nil {
			return nil, fmt.Errorf("session: selecting premises for %q: %w", description, err)
		}
	} else {
		for i, a := range s.axioms {
			for _, c := range a.Clauses {
				premises = append(premises, resolution.Premise{Clause: c, IsAxiom: true, SourceIndex: i})
			}
		}
		for i, t := range s.theorems {
			for _, c := range t.Clauses {
				premises = append(premises, resolution.Premise{Clause: c, IsAxiom: false, SourceIndex: i})
			}
		}
	}
	for _, c := range negatedClauses {
		premises = append(premises, resolution.Premise{Clause: c, IsAxiom: false, SourceIndex: NegatedConjectureSource})
	}

	result, err := resolution.Run(ctx, premises, budget, progress)
	if err != nil {
		return &ProveResult{Proved: false, Search: result}, err
	}
	if !result.Closed {
		s.log.Info("proof attempt did not close", "description", description, "steps", result.Steps)
		return &ProveResult{Proved: false, Search: result}, nil
	}

	derivation, err := proof.Extract(result)
	if err != nil {
		return nil, fmt.Errorf("session: extracting proof for %q: %w", description, err)
	}

	ownCNF, err := normalform.Convert(f, s.mgr)
	if err != nil {
		return nil, fmt.Errorf("session: normalizing proved theorem %q: %w", description, err)
	}
	ownClauses, err := clause.ExtractAll(ownCNF)
	if err != nil {
		return nil, fmt.Errorf("session: extracting clauses for proved theorem %q: %w", description, err)
	}

	idx := len(s.theorems)
	s.theorems = append(s.theorems, Theorem{Description: description, Source: src, Formula: f, Clauses: ownClauses})
	s.log.Info("theorem proved", "index", idx, "description", description, "steps", result.Steps)

	return &ProveResult{Proved: true, TheoremIndex: idx, Proof: derivation, Search: result}, nil
}

// discardHandler is a slog.Handler that drops every record, used as
// the session's default logger so callers never need a nil check.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
