// Package proof extracts the minimal derivation of a contradiction
// from a resolution run's full log: the empty clause and every premise
// and resolvent that fed into it, transitively, with everything else
// the search generated along the way discarded.
package proof

import (
	"errors"
	"sort"

	"github.com/foltheorem/folprove/internal/dag"
	"github.com/foltheorem/folprove/pkg/fol/clause"
	"github.com/foltheorem/folprove/pkg/fol/resolution"
)

// ErrNoContradiction is returned by Extract when the run it is given
// did not close with the empty clause.
var ErrNoContradiction = errors.New("proof: resolution run did not derive a contradiction")

// Source describes where a proof's premise clause came from.
type Source struct {
	IsAxiom     bool
	SourceIndex int
}

// Clause is one step of an extracted proof, reindexed to a dense,
// stable 0..n-1 range in derivation order: every clause's parents have
// a strictly smaller Index than the clause itself.
type Clause struct {
	Index      int
	Literals   clause.Clause
	Source     Source // meaningful only when IsPremise reports true (both parents -1)
	Resolvents struct {
		Parent1 int
		Parent2 int
	}
}

// IsPremise reports whether c is an initial axiom or theorem clause
// rather than a derived resolvent.
func (c *Clause) IsPremise() bool {
	return c.Resolvents.Parent1 < 0 && c.Resolvents.Parent2 < 0
}

// Extract walks result's log backward from the empty clause, keeping
// only the ancestors that were actually used, and renumbers them so
// the returned slice is both minimal and topologically ordered.
func Extract(result *resolution.Result) ([]*Clause, error) {
	if !result.Closed {
		return nil, ErrNoContradiction
	}

	g := dag.NewGraph()
	for _, rec := range result.Log {
		g.AddNode(rec.Index)
	}
	for _, rec := range result.Log {
		if rec.Parent1 >= 0 {
			_ = g.AddEdge(rec.Parent1, rec.Index)
		}
		if rec.Parent2 >= 0 {
			_ = g.AddEdge(rec.Parent2, rec.Index)
		}
	}

	relevant := g.Ancestors(result.Empty)
	relevant = append(relevant, result.Empty)

	// The original log already places every premise before any
	// resolvent derived from it, and every resolvent after both its
	// parents, so sorting the relevant set by original log index is
	// both a stable (origin, original-index) ordering and a valid
	// topological order.
	sort.Ints(relevant)

	newIndex := make(map[int]int, len(relevant))
	for i, old := range relevant {
		newIndex[old] = i
	}

	out := make([]*Clause, 0, len(relevant))
	for i, old := range relevant {
		rec := result.Log[old]
		c := &Clause{
			Index:    i,
			Literals: rec.Clause,
			Source:   Source{IsAxiom: rec.IsAxiom, SourceIndex: rec.SourceIndex},
		}
		c.Resolvents.Parent1 = -1
		c.Resolvents.Parent2 = -1
		if rec.Parent1 >= 0 {
			c.Resolvents.Parent1 = newIndex[rec.Parent1]
		}
		if rec.Parent2 >= 0 {
			c.Resolvents.Parent2 = newIndex[rec.Parent2]
		}
		out = append(out, c)
	}
	return out, nil
}
