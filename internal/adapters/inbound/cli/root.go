package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openkraft/dotcheck/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
)

// ErrValidationFailed is returned when a run completes with errors. The
// report has already been printed, so callers only set the exit status.
var ErrValidationFailed = errors.New("validation failed")

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DOTCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "dotcheck",
		Short: "Validate AI assistant configuration trees",
		Long: "dotcheck checks agents, skills, hooks, rules, commands and the links between them, " +
			"and exits non-zero when any of them is broken.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Configure(v.GetString("log-level"), v.GetString("log-format"))
		},
	}

	cmd.PersistentFlags().String("log-level", logger.DefaultLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", logger.DefaultFormat, "Log format (text, json)")
	_ = v.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log-format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI. Errors other than ErrValidationFailed are printed
// to stderr.
func Execute(ctx context.Context) error {
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
