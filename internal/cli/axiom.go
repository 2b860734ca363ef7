package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/foltheorem/folprove/internal/cliutil"
	"github.com/foltheorem/folprove/internal/store"
)

func newAxiomCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "axiom",
		Short: "Manage standing axioms",
	}
	cmd.AddCommand(newAxiomAddCommand())
	cmd.AddCommand(newAxiomListCommand())
	cmd.AddCommand(newAxiomWatchCommand())
	return cmd
}

func newAxiomAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <formula>",
		Short: "Add a standing axiom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			src := args[0]
			if description == "" {
				description = src
			}
			idx, err := sess.AddAxiom(description, src)
			if err != nil {
				return err
			}
			if err := st.SaveAxiom(store.AxiomRecord{Index: idx, Description: description, Source: src}); err != nil {
				return fmt.Errorf("cli: persisting axiom: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "axiom %d added: %s\n", idx, description)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "human-readable description of the axiom (defaults to its source text)")
	return cmd
}

func newAxiomListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List standing axioms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()
			return cliutil.RenderAxioms(cmd.OutOrStdout(), sess.Axioms(), cfg.OutputFormat)
		},
	}
}

func newAxiomWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory for .fol files and add each as an axiom",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			dir := args[0]
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("cli: creating watcher: %w", err)
			}
			defer watcher.Close()
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("cli: watching %s: %w", dir, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching %s for new .fol files (ctrl-c to stop)\n", dir)
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
						continue
					}
					if filepath.Ext(ev.Name) != ".fol" {
						continue
					}
					if err := addAxiomFromFile(sess, st, ev.Name); err != nil {
						log.Error("failed to add axiom from watched file", "path", ev.Name, "error", err)
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "axiom added from %s\n", ev.Name)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					log.Error("watcher error", "error", err)
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}
		},
	}
}

func addAxiomFromFile(sess interface {
	AddAxiom(description, src string) (int, error)
}, st store.Store, path string) error {
	src, err := readFileTrimmed(path)
	if err != nil {
		return err
	}
	idx, err := sess.AddAxiom(path, src)
	if err != nil {
		return err
	}
	return st.SaveAxiom(store.AxiomRecord{Index: idx, Description: path, Source: src})
}
