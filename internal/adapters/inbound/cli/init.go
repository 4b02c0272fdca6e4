package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openkraft/dotcheck/internal/adapters/outbound/config"
	"github.com/openkraft/dotcheck/internal/domain"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .dotcheck.yaml configuration file",
		Long:  "Create a .dotcheck.yaml holding the default settings, with the optional keys commented out.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			if err := os.WriteFile(dest, []byte(generateConfig(domain.DefaultConfig())), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .dotcheck.yaml")

	return cmd
}

func generateConfig(cfg domain.ProjectConfig) string {
	var b strings.Builder

	b.WriteString("# dotcheck configuration\n\n")
	fmt.Fprintf(&b, "timeout: %s\n", cfg.Timeout)
	fmt.Fprintf(&b, "parallel: %d\n\n", cfg.Parallel)

	b.WriteString("agents:\n  models:\n")
	for _, m := range cfg.Agents.Models {
		fmt.Fprintf(&b, "    - %s\n", m)
	}
	fmt.Fprintf(&b, "  min_body: %d\n\n", cfg.AgentMinBody())

	fmt.Fprintf(&b, "skills:\n  min_body: %d\n\n", cfg.SkillMinBody())

	fmt.Fprintf(&b, "plugins:\n  dir: %s\n\n", cfg.Plugins.Dir)

	b.WriteString(`# disable:
#   - links

# ignore:
#   - "**/drafts/**"

# hooks:
#   events:
#     - MyCustomEvent
`)

	return b.String()
}
