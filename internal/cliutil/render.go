// Package cliutil renders session and proof state to a terminal or a
// machine-readable stream, in the formats the folprove CLI exposes via
// --output: text, json, and markdown.
package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/foltheorem/folprove/pkg/fol/proof"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

var (
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
)

// RenderAxioms writes axioms in format ("json", "md"/"markdown", or
// anything else for a go-pretty table).
func RenderAxioms(w io.Writer, axioms []session.Axiom, format string) error {
	type row struct {
		Index       int    `json:"index"`
		Description string `json:"description"`
		Source      string `json:"source"`
	}
	rows := make([]row, len(axioms))
	for i, a := range axioms {
		rows[i] = row{i, a.Description, a.Source}
	}

	switch format {
	case "json":
		return encodeJSON(w, rows)
	case "md", "markdown":
		return renderMarkdownTable(w, []string{"Index", "Description", "Source"}, func() [][]string {
			out := make([][]string, len(rows))
			for i, r := range rows {
				out[i] = []string{fmt.Sprint(r.Index), r.Description, r.Source}
			}
			return out
		}())
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Index", "Description", "Source"})
		for _, r := range rows {
			t.AppendRow(table.Row{r.Index, r.Description, r.Source})
		}
		t.Render()
		return nil
	}
}

// RenderTheorems writes proved theorems in the same set of formats as
// RenderAxioms.
func RenderTheorems(w io.Writer, theorems []session.Theorem, format string) error {
	type row struct {
		Index       int    `json:"index"`
		Description string `json:"description"`
		Source      string `json:"source"`
	}
	rows := make([]row, len(theorems))
	for i, t := range theorems {
		rows[i] = row{i, t.Description, t.Source}
	}

	switch format {
	case "json":
		return encodeJSON(w, rows)
	case "md", "markdown":
		return renderMarkdownTable(w, []string{"Index", "Description", "Source"}, func() [][]string {
			out := make([][]string, len(rows))
			for i, r := range rows {
				out[i] = []string{fmt.Sprint(r.Index), r.Description, r.Source}
			}
			return out
		}())
	default:
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Index", "Description", "Source"})
		for _, r := range rows {
			tw.AppendRow(table.Row{r.Index, r.Description, r.Source})
		}
		tw.Render()
		return nil
	}
}

// RenderProveResult writes a success or failure banner followed by the
// proof steps (when successful) or search diagnostics (when not).
func RenderProveResult(w io.Writer, description string, res *session.ProveResult, format string) error {
	if format == "json" {
		type out struct {
			Description string          `json:"description"`
			Proved      bool            `json:"proved"`
			Steps       int             `json:"steps"`
			Proof       []*proof.Clause `json:"proof,omitempty"`
		}
		var steps int
		if res.Search != nil {
			steps = res.Search.Steps
		}
		return encodeJSON(w, out{Description: description, Proved: res.Proved, Steps: steps, Proof: res.Proof})
	}

	if res.Proved {
		_, _ = fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("proved: %s", description)))
		return RenderProof(w, res.Proof, format)
	}
	_, _ = fmt.Fprintln(w, failureStyle.Render(fmt.Sprintf("not proved: %s", description)))
	if res.Search != nil {
		if res.Search.Exhausted() {
			_, _ = fmt.Fprintf(w, "search exhausted after %d steps\n", res.Search.Steps)
		} else {
			_, _ = fmt.Fprintf(w, "budget reached after %d steps\n", res.Search.Steps)
		}
	}
	return nil
}

// ProofClauseString renders a single proof clause in the canonical
// printable form: "<index>. <clause> (Premise, Axiom <i>)",
// "(Premise, Theorem <i>)", "(Conclusion)", or "(Resolve <p1>, <p2>)".
// This exact spacing is normative: snapshot/golden tests compare
// against it byte for byte.
func ProofClauseString(c *proof.Clause) string {
	var origin string
	switch {
	case c.IsPremise() && c.Source.IsAxiom:
		origin = fmt.Sprintf("Premise, Axiom %d", c.Source.SourceIndex)
	case c.IsPremise() && c.Source.SourceIndex < 0:
		origin = "Conclusion"
	case c.IsPremise():
		origin = fmt.Sprintf("Premise, Theorem %d", c.Source.SourceIndex)
	default:
		origin = fmt.Sprintf("Resolve %d, %d", c.Resolvents.Parent1, c.Resolvents.Parent2)
	}
	return fmt.Sprintf("%d. %s (%s)", c.Index, c.Literals.String(), origin)
}

// RenderProof writes a derivation's clauses in derivation order. The
// text format is the ProofClauseString form, one clause per line; json
// and markdown formats keep a structured table for machine/doc
// consumption.
func RenderProof(w io.Writer, derivation []*proof.Clause, format string) error {
	if format == "json" {
		return encodeJSON(w, derivation)
	}

	if format == "md" || format == "markdown" {
		_, _ = fmt.Fprintln(w, headingStyle.Render("derivation"))
		return renderMarkdownTable(w, []string{"#", "Clause", "From"}, func() [][]string {
			out := make([][]string, len(derivation))
			for i, c := range derivation {
				out[i] = []string{fmt.Sprint(c.Index), c.Literals.String(), ProofClauseString(c)}
			}
			return out
		}())
	}

	_, _ = fmt.Fprintln(w, headingStyle.Render("derivation"))
	for _, c := range derivation {
		_, _ = fmt.Fprintln(w, ProofClauseString(c))
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderMarkdownTable(w io.Writer, header []string, rows [][]string) error {
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(header, " | "))
	seps := make([]string, len(header))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
	}
	return nil
}
