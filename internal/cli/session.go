package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect the current session's store",
	}
	cmd.AddCommand(newSessionInfoCommand())
	return cmd
}

func newSessionInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number of axioms and theorems in the session store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			log := loggerFrom(cmd)
			sess, st, err := openSession(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "store: %s\n", cfg.StorePath)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "axioms: %d\n", len(sess.Axioms()))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "theorems: %d\n", len(sess.Theorems()))
			return nil
		},
	}
}
