package cli

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	mcpadapter "github.com/openkraft/dotcheck/internal/adapters/inbound/mcp"
	"github.com/openkraft/dotcheck/internal/logger"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Let coding assistants validate their own configuration",
		Long: "Serve dotcheck over the Model Context Protocol, so an assistant that edits agents, " +
			"skills, hooks or rules can check them and fix what it broke before handing the work back.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve validation tools and reports on stdio",
		Long: `Start an MCP server on stdin and stdout for the configuration tree at path
(default: the current directory).

Tools:
  dotcheck_validate          run every validator, optionally limited with "only"
  dotcheck_run_validator     run one validator by name
  dotcheck_list_validators   list built-in and plugin validators

Resources:
  dotcheck://summary             aggregate result for the whole tree
  dotcheck://validators/{name}   report of one validator

Logs go to stderr and never mix with protocol traffic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				projectPath = args[0]
			}
			abs, err := filepath.Abs(projectPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			ctx := cmd.Context()
			log := logger.G(ctx).WithField("path", abs)
			log.WithField("version", version).Info("serving MCP on stdio")

			s := mcpadapter.NewDotcheckMCPServer(NewValidateService(), abs, version)
			stdio := server.NewStdioServer(s)
			stdio.SetErrorLogger(stdlog.New(log.WriterLevel(logrus.ErrorLevel), "", 0))

			err = stdio.Listen(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path, same as the positional argument")

	return cmd
}
