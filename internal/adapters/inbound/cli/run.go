package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/domain"
)

func newRunCmd() *cobra.Command {
	var (
		opts  application.RunOptions
		quiet bool
	)

	cmd := &cobra.Command{
		Use:   "run <validator> [path]",
		Short: "Run a single validator",
		Long: "Run one validator and print its report, ending with the conventional " +
			"\"<Kind> validated: <n>, Errors: <n>\" line. Exits 1 when it reports an error.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 1 {
				path = args[1]
			}

			res, err := NewValidateService().RunOne(cmd.Context(), args[0], path, opts)
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}

			out := cmd.OutOrStdout()
			if res.ScriptError != "" {
				fmt.Fprintf(out, "%s %s: script error: %s\n", domain.MarkerError, res.Name, domain.FoldMarkers(res.ScriptError))
				return ErrValidationFailed
			}
			fmt.Fprint(out, tui.RenderValidatorReport(res.Report, quiet))

			if res.Status == domain.StatusFail {
				return ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Validator timeout (default from config, else 30s)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Omit OK lines for clean files")

	return cmd
}
