package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/foltheorem/folprove/internal/cliutil"
	"github.com/foltheorem/folprove/internal/config"
	"github.com/foltheorem/folprove/internal/store"
	"github.com/foltheorem/folprove/internal/tui"
	"github.com/foltheorem/folprove/pkg/fol/resolution"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

func newProveCommand() *cobra.Command {
	var description string
	var useTUI bool
	var allDir string

	cmd := &cobra.Command{
		Use:   "prove [formula]",
		Short: "Attempt to prove a conjecture from the session's axioms and theorems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)

			if allDir != "" {
				return runProveAll(cmd, cfg, allDir)
			}
			if len(args) != 1 {
				return fmt.Errorf("cli: prove requires a formula argument, or --all <dir>")
			}

			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			src := args[0]
			if description == "" {
				description = src
			}
			budget := budgetFromConfig(cfg)

			var pr *session.ProveResult
			var proveErr error
			runProve := func(progress resolution.Progress) (*resolution.Result, error) {
				pr, proveErr = sess.Prove(cmd.Context(), description, src, budget, progress)
				if pr != nil {
					return pr.Search, proveErr
				}
				return nil, proveErr
			}

			if useTUI {
				if _, err := tui.Run(description, budget, runProve); err != nil {
					return fmt.Errorf("cli: running progress view: %w", err)
				}
			} else {
				runProve(nil)
			}

			if proveErr != nil && pr == nil {
				return fmt.Errorf("cli: proving %q: %w", description, proveErr)
			}

			if err := cliutil.RenderProveResult(cmd.OutOrStdout(), description, pr, cfg.OutputFormat); err != nil {
				return err
			}

			if pr.Proved {
				if err := st.SaveTheorem(store.TheoremRecord{
					Index:       pr.TheoremIndex,
					Description: description,
					Source:      src,
					Steps:       pr.Search.Steps,
				}); err != nil {
					return fmt.Errorf("cli: persisting theorem: %w", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "human-readable description of the conjecture (defaults to its source text)")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "show a live progress view while searching")
	cmd.Flags().StringVar(&allDir, "all", "", "directory of .fol conjecture files to prove concurrently, each against its own forked session")
	return cmd
}

// proveAllResult is one conjecture file's outcome from runProveAll.
type proveAllResult struct {
	path   string
	result *session.ProveResult
}

// runProveAll forks one session per conjecture file in dir, each
// pre-seeded with the same persisted axiom base, and proves them
// concurrently via errgroup. Every forked session gets its own
// symbols.Manager (session.New always mints a fresh one), so Skolem
// names never collide across goroutines.
func runProveAll(cmd *cobra.Command, cfg *config.Config, allDir string) error {
	slogLog := loggerFrom(cmd)

	entries, err := os.ReadDir(allDir)
	if err != nil {
		return fmt.Errorf("cli: reading %s: %w", allDir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".fol" {
			continue
		}
		files = append(files, filepath.Join(allDir, e.Name()))
	}
	sort.Strings(files)

	// Load the shared axiom base once; each goroutine gets its own
	// Session built from the same records rather than sharing one
	// Session across goroutines.
	baseStore := store.NewSQLiteStore(slogLog)
	if err := baseStore.Open(cfg.StorePath); err != nil {
		return fmt.Errorf("cli: opening store: %w", err)
	}
	defer baseStore.Close()
	if err := baseStore.InitSchema(); err != nil {
		return fmt.Errorf("cli: initializing store: %w", err)
	}
	axioms, err := baseStore.ListAxioms()
	if err != nil {
		return fmt.Errorf("cli: listing axioms: %w", err)
	}
	theorems, err := baseStore.ListTheorems()
	if err != nil {
		return fmt.Errorf("cli: listing theorems: %w", err)
	}
	sel, err := selectorFromConfig(cfg)
	if err != nil {
		return err
	}
	budget := budgetFromConfig(cfg)

	results := make([]proveAllResult, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			sess := session.New(sel, slogLog)
			for _, a := range axioms {
				if _, err := sess.AddAxiom(a.Description, a.Source); err != nil {
					return fmt.Errorf("cli: seeding axiom %q: %w", a.Description, err)
				}
			}
			for _, t := range theorems {
				if _, err := sess.RestoreTheorem(t.Description, t.Source); err != nil {
					return fmt.Errorf("cli: seeding theorem %q: %w", t.Description, err)
				}
			}

			src, err := readFileTrimmed(path)
			if err != nil {
				return fmt.Errorf("cli: reading %s: %w", path, err)
			}
			res, err := sess.Prove(ctx, path, src, budget, nil)
			if err != nil {
				return fmt.Errorf("cli: proving %s: %w", path, err)
			}
			results[i] = proveAllResult{path: path, result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	proved := 0
	for _, r := range results {
		if err := cliutil.RenderProveResult(cmd.OutOrStdout(), r.path, r.result, cfg.OutputFormat); err != nil {
			return err
		}
		if r.result.Proved {
			proved++
		}
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d/%d proved\n", proved, len(results))
	return nil
}
