package commands

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/xray-contours/internal/server"
)

func serveCmd(st *state) *cobra.Command {
	var maxResults int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline as MCP tools over stdin/stdout",
		Long: `Serve runs an MCP (Model Context Protocol) server speaking JSON-RPC 2.0,
one request per line on stdin and one response per line on stdout.
Configure it as a stdio server in your MCP client.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st.log.Debug().
				Str("version", st.build.Version).
				Str("built", st.build.BuildTime).
				Str("commit", st.build.GitCommit).
				Msg("starting MCP server")

			srv := server.New(
				server.WithConfig(st.cfg.Pipeline),
				server.WithOutputDir(st.cfg.OutputDir),
				server.WithLogger(st.log),
				server.WithVersion(st.build.Version),
				server.WithMaxResults(maxResults),
			)
			return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&maxResults, "max-results", server.DefaultMaxResults, "pipeline results kept in memory for reuse")
	return cmd
}
