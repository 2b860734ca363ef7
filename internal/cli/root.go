// Package cli assembles folprove's command tree: axiom management,
// proof attempts, theorem listing and export/import, and an
// interactive REPL, all sharing one layered configuration and a
// SQLite-backed session store.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/foltheorem/folprove/internal/cli/commands"
	"github.com/foltheorem/folprove/internal/config"
	"github.com/foltheorem/folprove/internal/selector"
	"github.com/foltheorem/folprove/internal/store"
	"github.com/foltheorem/folprove/pkg/fol/resolution"
	"github.com/foltheorem/folprove/pkg/fol/session"
)

// disableColorIfNotATerminal forces lipgloss's default renderer to plain
// ASCII when stdout isn't an interactive terminal, so redirected or piped
// output (CI logs, `prove --all ... > out.txt`) doesn't carry escape
// codes.
func disableColorIfNotATerminal() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

type cfgKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, cfgKey{}, cfg)
}

func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(cfgKey{}).(*config.Config); ok {
		return cfg
	}
	return &config.Config{StorePath: config.DefaultStorePath, OutputFormat: config.DefaultOutputFormat, BudgetSteps: config.DefaultBudgetSteps, Selector: config.DefaultSelector}
}

func loggerFrom(cmd *cobra.Command) *slog.Logger {
	return config.GetLogger(cmd.Context())
}

// NewRootCommand builds the top-level "folprove" command.
func NewRootCommand(version string) *cobra.Command {
	var cfgFile string

	disableColorIfNotATerminal()

	root := &cobra.Command{
		Use:           "folprove",
		Short:         "A first-order logic resolution theorem prover",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("cli: loading configuration: %w", err)
			}
			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			ctx := config.WithLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a folprove.yaml config file")
	root.PersistentFlags().String("store-path", config.DefaultStorePath, "path to the session store database")
	root.PersistentFlags().Bool("verbose", false, "enable verbose logging")
	root.PersistentFlags().String("output", config.DefaultOutputFormat, "output format: text, json, or md")
	root.PersistentFlags().Int("budget-steps", config.DefaultBudgetSteps, "maximum given clauses to process before giving up (0 = unlimited)")
	root.PersistentFlags().Int("budget-seconds", 0, "maximum seconds to search before giving up (0 = unlimited)")
	root.PersistentFlags().String("selector", config.DefaultSelector, `premise selection strategy: "all" or "starlark"`)
	root.PersistentFlags().String("selector-script", "", "path to a Starlark script, required when --selector=starlark")

	root.AddCommand(commands.NewVersionCommand(version))
	root.AddCommand(newAxiomCommand())
	root.AddCommand(newProveCommand())
	root.AddCommand(newTheoremsCommand())
	root.AddCommand(newReplCommand())
	root.AddCommand(newSessionCommand())

	return root
}

// Version is the folprove release version, overridden at build time via
// -ldflags.
var Version = "0.1.0"

// Execute runs the root command against os.Args, printing any error to
// stderr.
func Execute() error {
	root := NewRootCommand(Version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

// budgetFromConfig translates a Config's flat budget fields into a
// resolution.Budget.
func budgetFromConfig(cfg *config.Config) resolution.Budget {
	b := resolution.Budget{MaxSteps: cfg.BudgetSteps}
	if cfg.BudgetSec > 0 {
		b.Deadline = time.Now().Add(time.Duration(cfg.BudgetSec) * time.Second)
	}
	return b
}

// selectorFromConfig builds the premise selector a Config asks for.
func selectorFromConfig(cfg *config.Config) (session.Selector, error) {
	switch cfg.Selector {
	case "", "all":
		return selector.AllAxioms{}, nil
	case "starlark":
		if cfg.SelectorScript == "" {
			return nil, fmt.Errorf(`cli: --selector=starlark requires --selector-script`)
		}
		src, err := os.ReadFile(cfg.SelectorScript)
		if err != nil {
			return nil, fmt.Errorf("cli: reading selector script: %w", err)
		}
		return selector.Starlark{Script: string(src)}, nil
	default:
		return nil, fmt.Errorf("cli: unknown selector %q", cfg.Selector)
	}
}

// openSession opens cfg's store, rebuilds a session.Session from its
// persisted axioms and theorems, and returns both. Callers must Close
// the store when done.
func openSession(cfg *config.Config, log *slog.Logger) (*session.Session, store.Store, error) {
	st := store.NewSQLiteStore(log)
	if err := st.Open(cfg.StorePath); err != nil {
		return nil, nil, fmt.Errorf("cli: opening store: %w", err)
	}
	if err := st.InitSchema(); err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("cli: initializing store: %w", err)
	}

	sel, err := selectorFromConfig(cfg)
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	sess := session.New(sel, log)

	axioms, err := st.ListAxioms()
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("cli: listing stored axioms: %w", err)
	}
	for _, a := range axioms {
		if _, err := sess.AddAxiom(a.Description, a.Source); err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("cli: restoring axiom %q: %w", a.Description, err)
		}
	}

	theorems, err := st.ListTheorems()
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("cli: listing stored theorems: %w", err)
	}
	for _, t := range theorems {
		if _, err := sess.RestoreTheorem(t.Description, t.Source); err != nil {
			_ = st.Close()
			return nil, nil, fmt.Errorf("cli: restoring theorem %q: %w", t.Description, err)
		}
	}

	return sess, st, nil
}
