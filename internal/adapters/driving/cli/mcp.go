package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formflow/internal/adapters/driving/mcp"
	"github.com/custodia-labs/formflow/internal/logger"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve over HTTP instead.

Tools:
  submit_form   Submit values to a form
  list_entries  List stored submissions

Resources:
  formflow://forms                   Form definitions
  formflow://forms/{formId}/entries  Stored submissions of a form

Form definition files are reloaded while the server runs.

Examples:
  formflow mcp
  formflow mcp --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	if submissionService == nil || formService == nil {
		return errors.New("services not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Submission: submissionService,
		Forms:      formService,
		Entries:    entryService,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if formWatcher != nil {
		go func() {
			if err := formWatcher(ctx); err != nil {
				logger.Warn("form reload stopped: %v", err)
			}
		}()
	}

	if mcpPort > 0 {
		addr := fmt.Sprintf(":%d", mcpPort)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
