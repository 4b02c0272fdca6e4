package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/tui"
)

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "List registered validators",
		Long:  "List the built-in validators and any plugins found for the tree at path, with the directory each one owns.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			validators, err := NewValidateService().Validators(path)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			infos := make([]tui.ValidatorInfo, 0, len(validators))
			for _, v := range validators {
				infos = append(infos, tui.ValidatorInfo{Name: v.Name(), Kind: v.Kind(), Dir: v.Dir()})
			}

			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), infos)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderValidatorList(infos))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
