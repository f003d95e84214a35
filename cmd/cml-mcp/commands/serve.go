package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fivetwenty-io/cml-mcp/internal/tools"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the command running the MCP server over stdio.
func NewServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio",
		Long: `Run the CML Lab Builder MCP server on stdin/stdout.

When a server URL and credentials are configured the session is opened at
startup; otherwise the tool host must call initialize_client first. Logs
are written to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings()
			logger := cml.NewLogger(cmd.ErrOrStderr(), settings.Debug)

			// Address and credentials come from initialize_client.
			base := settings.Config(logger)
			base.ServerURL, base.Username, base.Password = "", "", ""

			opts := []tools.Option{
				tools.WithBaseConfig(*base),
				tools.WithLogger(logger),
				tools.WithVersion(version),
			}

			if settings.HasSession() {
				session, err := cmlclient.New(cmd.Context(), settings.Config(logger))
				if err != nil {
					return fmt.Errorf("failed to create client: %w", err)
				}

				logger.Info("Using configured CML session", map[string]interface{}{
					"url":        session.ServerURL(),
					"verify_ssl": settings.VerifySSL,
				})

				opts = append(opts, tools.WithSession(session))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tools.NewServer(opts...).ServeStdio(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
