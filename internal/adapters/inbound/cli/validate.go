package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
	"github.com/openkraft/dotcheck/internal/application"
	"github.com/openkraft/dotcheck/internal/domain"
)

func newValidateCmd() *cobra.Command {
	var (
		opts       application.RunOptions
		jsonOutput bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Run every validator and print a summary",
		Long: "Run all applicable validators against the tree containing path (default: the current directory). " +
			"A file or sub-directory restricts validation to that part of the tree. Exits 1 when any error is found.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			agg, err := NewValidateService().ValidateAll(cmd.Context(), path, opts)
			if err != nil {
				return fmt.Errorf("validate: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if err := renderJSON(out, agg); err != nil {
					return err
				}
			} else {
				if !quiet {
					renderReports(out, agg)
				}
				fmt.Fprint(out, tui.RenderSummary(agg))
			}

			if !agg.Passed() {
				return ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Run only the named validators (comma-separated)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Per-validator timeout (default from config, else 30s)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "Maximum validators running at once (default from config, else 4)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the aggregate result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Print only the summary")

	return cmd
}

// renderReports prints the findings of each validator that has any, in
// summary order.
func renderReports(w io.Writer, agg *domain.AggregateResult) {
	for _, v := range agg.Validators {
		if v.Report == nil || (len(v.Report.Findings) == 0 && v.Report.Output == "") {
			continue
		}
		fmt.Fprintf(w, "── %s ──\n", v.Name)
		fmt.Fprint(w, tui.RenderValidatorReport(v.Report, true))
		fmt.Fprintln(w)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
