package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

var (
	targetsJSON  bool
	targetsLimit int
)

var targetsCmd = &cobra.Command{
	Use:   "targets <entity-id>",
	Short: "List the pages a page may link to",
	Long: `Resolves the eligible link targets of a page under the current
settings and lists them in priority order, with their relation to the page,
URL and candidate anchor texts.`,
	Args: cobra.ExactArgs(1),
	RunE: runTargets,
}

func init() {
	targetsCmd.Flags().BoolVar(&targetsJSON, "json", false, "output targets as JSON")
	targetsCmd.Flags().IntVarP(&targetsLimit, "limit", "n", 0, "maximum number of targets (0 = all)")
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	linker, err := loadLinker(cmd.Context())
	if err != nil {
		return err
	}

	targets, err := linker.Targets(cmd.Context(), domain.PageContext{EntityID: args[0]}, policy)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}
	if targetsLimit > 0 && len(targets) > targetsLimit {
		targets = targets[:targetsLimit]
	}

	if targetsJSON {
		return writeJSON(cmd.OutOrStdout(), targets)
	}

	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No eligible targets.")
		return nil
	}

	t := newTable("#", "Target", "Relation", "Priority", "URL", "Anchors")
	for i, target := range targets {
		t.Row(
			strconv.Itoa(i+1),
			target.ID,
			target.Relation.String(),
			strconv.Itoa(target.Priority),
			target.URL,
			joinOrDash(target.Anchors),
		)
	}

	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(fmt.Sprintf("Link targets for %s", args[0])))
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}
