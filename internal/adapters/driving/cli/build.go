package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/services"
)

var (
	buildContentDir string
	buildOutDir     string
	buildWorkers    int
	buildDryRun     bool
	buildOnly       []string
	buildWatch      bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Link every page in a content directory",
	Long: `Links every <entity-id>.html page in --content-dir and writes the
result to --out-dir under the same file name. Pages are linked in parallel.

A page that cannot be read or linked is reported and skipped; the rest of
the build continues. With --watch, the build reruns for pages that change
until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildContentDir, "content-dir", "content", "directory holding page HTML files")
	buildCmd.Flags().StringVar(&buildOutDir, "out-dir", "public", "directory to write linked pages to")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", runtime.NumCPU(), "number of pages linked in parallel")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "link pages without writing output")
	buildCmd.Flags().StringSliceVar(&buildOnly, "only", nil, "only build these entity IDs")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "rebuild pages when they change")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	policy, err := loadPolicy()
	if err != nil {
		return err
	}

	linker, err := loadLinker(cmd.Context())
	if err != nil {
		return err
	}

	pages := filesystem.NewPageStore(buildContentDir, buildOutDir)
	defer pages.Close()

	builder := services.NewBuildService(linker, pages, policy)
	opts := domain.BuildOptions{
		Workers: buildWorkers,
		DryRun:  buildDryRun,
		Only:    buildOnly,
	}

	if buildWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", buildContentDir)
		return builder.Watch(ctx, opts, func(report *domain.BuildReport) {
			printBuildReport(cmd.OutOrStdout(), report, buildDryRun)
		})
	}

	report, err := builder.Run(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	printBuildReport(cmd.OutOrStdout(), report, buildDryRun)
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", report.Failed, len(report.Pages))
	}
	return nil
}

func printBuildReport(w io.Writer, report *domain.BuildReport, dryRun bool) {
	if len(report.Pages) == 0 {
		fmt.Fprintln(w, "No pages to build.")
		return
	}

	t := newTable("Page", "Links", "Targets", "Status")
	for _, page := range report.Pages {
		status := successStyle.Render("ok")
		if page.Failed() {
			status = errorStyle.Render(page.Error)
		} else if page.LinksInserted == 0 {
			status = mutedStyle.Render("unchanged")
		}
		t.Row(page.EntityID, strconv.Itoa(page.LinksInserted), joinOrDash(page.TargetURLs), status)
	}
	fmt.Fprintln(w, t.String())

	summary := fmt.Sprintf("Built %d pages, %d links inserted, %d failed in %s",
		len(report.Pages), report.LinksInserted, report.Failed, report.Duration.Round(time.Millisecond))
	if dryRun {
		summary += " (dry run, nothing written)"
	}
	if report.Failed > 0 {
		fmt.Fprintln(w, warningStyle.Render(summary))
	} else {
		fmt.Fprintln(w, summary)
	}
	fmt.Fprintln(w, mutedStyle.Render("Run "+report.RunID))
}
