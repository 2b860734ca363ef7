package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/foltheorem/folprove/internal/cliutil"
	"github.com/foltheorem/folprove/internal/store"
)

func newReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session for adding axioms and proving conjectures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			historyFile := filepath.Join(filepath.Dir(cfg.StorePath), ".folprove_history")
			completer := readline.NewPrefixCompleter(
				readline.PcItem("axiom"),
				readline.PcItem("prove"),
				readline.PcItem("theorems"),
				readline.PcItem("axioms"),
				readline.PcItem(".help"),
				readline.PcItem(".quit"),
				readline.PcItem(".exit"),
			)
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "folprove> ",
				HistoryFile:     historyFile,
				AutoComplete:    completer,
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("cli: initializing repl: %w", err)
			}
			defer rl.Close()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "folprove interactive session (store:", cfg.StorePath+")")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "type .help for commands, .quit to exit")

			budget := budgetFromConfig(cfg)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				switch {
				case line == ".quit" || line == ".exit":
					return nil
				case line == ".help":
					printReplHelp(cmd.OutOrStdout())
				case line == "axioms":
					_ = cliutil.RenderAxioms(cmd.OutOrStdout(), sess.Axioms(), cfg.OutputFormat)
				case line == "theorems":
					_ = cliutil.RenderTheorems(cmd.OutOrStdout(), sess.Theorems(), cfg.OutputFormat)
				case strings.HasPrefix(line, "axiom "):
					src := strings.TrimSpace(strings.TrimPrefix(line, "axiom "))
					idx, err := sess.AddAxiom(src, src)
					if err != nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
						continue
					}
					if err := st.SaveAxiom(store.AxiomRecord{Index: idx, Description: src, Source: src}); err != nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error persisting axiom: %v\n", err)
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "axiom %d added\n", idx)
				case strings.HasPrefix(line, "prove "):
					src := strings.TrimSpace(strings.TrimPrefix(line, "prove "))
					res, err := sess.Prove(cmd.Context(), src, src, budget, nil)
					if err != nil {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
						continue
					}
					_ = cliutil.RenderProveResult(cmd.OutOrStdout(), src, res, cfg.OutputFormat)
					if res.Proved {
						if err := st.SaveTheorem(store.TheoremRecord{
							Index: res.TheoremIndex, Description: src, Source: src, Steps: res.Search.Steps,
						}); err != nil {
							_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "error persisting theorem: %v\n", err)
						}
					}
				default:
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "unrecognized command: %s (type .help for commands)\n", line)
				}
			}
		},
	}
}

func printReplHelp(w io.Writer) {
	help := `
commands:
  axiom <formula>   add a standing axiom
  prove <formula>   attempt to prove a conjecture
  axioms            list standing axioms
  theorems          list proved theorems
  .help             show this help message
  .quit / .exit     exit the session
`
	_, _ = fmt.Fprintln(w, help)
}
