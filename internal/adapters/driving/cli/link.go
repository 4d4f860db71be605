package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/core/domain"
)

var (
	linkJSON     bool
	linkStats    bool
	linkMaxLinks int
)

var linkCmd = &cobra.Command{
	Use:   "link <entity-id> [file]",
	Short: "Insert internal links into one page",
	Long: `Reads the HTML of the page for <entity-id> from [file], or from stdin
when no file is given, and writes the linked HTML to stdout.

Only text inside paragraph containers is linked. Headings, existing links,
code and other excluded elements are left untouched.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLink,
}

func init() {
	linkCmd.Flags().BoolVar(&linkJSON, "json", false, "output the full result as JSON")
	linkCmd.Flags().BoolVar(&linkStats, "stats", false, "print a summary to stderr")
	linkCmd.Flags().IntVar(&linkMaxLinks, "max-links", 0, "override the per-page link cap")
	rootCmd.AddCommand(linkCmd)
}

func runLink(cmd *cobra.Command, args []string) error {
	entityID := args[0]

	content, err := readInput(cmd, args[1:])
	if err != nil {
		return err
	}

	policy, err := loadPolicy()
	if err != nil {
		return err
	}
	if linkMaxLinks > 0 {
		policy.MaxLinksPerPage = linkMaxLinks
	}

	linker, err := loadLinker(cmd.Context())
	if err != nil {
		return err
	}

	result, err := linker.Link(cmd.Context(), content, domain.PageContext{EntityID: entityID}, policy)
	if err != nil {
		return fmt.Errorf("link failed: %w", err)
	}

	if linkJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	fmt.Fprint(cmd.OutOrStdout(), result.HTML)
	if linkStats {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d words, budget %d, %d targets, %d links inserted\n",
			entityID, result.WordCount, result.Budget, result.TargetsConsidered, result.LinksInserted)
		for _, url := range result.TargetURLs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  -> %s\n", url)
		}
	}
	return nil
}

// readInput reads the named file, or the command's stdin when none is given.
func readInput(cmd *cobra.Command, files []string) (string, error) {
	if len(files) == 0 || files[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(files[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", files[0], err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// joinOrDash joins values for table cells.
func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
