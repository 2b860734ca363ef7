package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foltheorem/folprove/internal/cliutil"
	"github.com/foltheorem/folprove/internal/store"
)

func newTheoremsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theorems",
		Short: "List, export, and import proved theorems",
	}
	cmd.AddCommand(newTheoremsListCommand())
	cmd.AddCommand(newTheoremsExportCommand())
	cmd.AddCommand(newTheoremsImportCommand())
	return cmd
}

func newTheoremsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List proved theorems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()
			return cliutil.RenderTheorems(cmd.OutOrStdout(), sess.Theorems(), cfg.OutputFormat)
		},
	}
}

// theoremDoc is the on-disk YAML shape for exported/imported theorems.
type theoremDoc struct {
	Description string `yaml:"description"`
	Source      string `yaml:"source"`
	Steps       int    `yaml:"steps"`
}

func newTheoremsExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export proved theorems to a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			st := newStoreOnly(cfg, log)
			if err := st.Open(cfg.StorePath); err != nil {
				return fmt.Errorf("cli: opening store: %w", err)
			}
			defer st.Close()
			if err := st.InitSchema(); err != nil {
				return fmt.Errorf("cli: initializing store: %w", err)
			}

			records, err := st.ListTheorems()
			if err != nil {
				return fmt.Errorf("cli: listing theorems: %w", err)
			}
			docs := make([]theoremDoc, len(records))
			for i, r := range records {
				docs[i] = theoremDoc{Description: r.Description, Source: r.Source, Steps: r.Steps}
			}

			b, err := yaml.Marshal(docs)
			if err != nil {
				return fmt.Errorf("cli: encoding theorems: %w", err)
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(b)
				return err
			}
			return os.WriteFile(out, b, 0o644)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "file to write (defaults to stdout)")
	return cmd
}

func newTheoremsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import theorems from a YAML file, re-proving each against the current axiom base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("cli: reading %s: %w", args[0], err)
			}
			var docs []theoremDoc
			if err := yaml.Unmarshal(b, &docs); err != nil {
				return fmt.Errorf("cli: parsing %s: %w", args[0], err)
			}

			budget := budgetFromConfig(cfg)
			for _, d := range docs {
				res, err := sess.Prove(cmd.Context(), d.Description, d.Source, budget, nil)
				if err != nil {
					return fmt.Errorf("cli: re-proving imported theorem %q: %w", d.Description, err)
				}
				if !res.Proved {
					return fmt.Errorf("cli: imported theorem %q no longer provable against this axiom base", d.Description)
				}
				if err := st.SaveTheorem(store.TheoremRecord{
					Index:       res.TheoremIndex,
					Description: d.Description,
					Source:      d.Source,
					Steps:       res.Search.Steps,
				}); err != nil {
					return fmt.Errorf("cli: persisting imported theorem %q: %w", d.Description, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported theorem %d: %s\n", res.TheoremIndex, d.Description)
			}
			return nil
		},
	}
}
