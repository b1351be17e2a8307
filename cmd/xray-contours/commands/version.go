package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func versionCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "xray-contours %s\n", st.build.Version)
			fmt.Fprintf(w, "  Build time: %s\n", st.build.BuildTime)
			fmt.Fprintf(w, "  Git commit: %s\n", st.build.GitCommit)
		},
	}
}
