package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/interlink/internal/core/services"
)

var (
	dataImportFrom string
	dataExportTo   string
	dataStrict     bool
)

// errNoCatalog is returned when a data command has nothing to read from.
var errNoCatalog = errors.New("no catalog source: set --data-dir or --from")

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage catalog data",
	Long:  `Commands for moving the category catalog between JSON files and SQLite, and for checking it.`,
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import JSON data files into the SQLite catalog",
	Long: `Reads categories.json, subcategories.json and anchors.json from --from
and replaces the contents of the SQLite catalog at --db
(default ~/.interlink/data/catalog.db).`,
	Args: cobra.NoArgs,
	RunE: runDataImport,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog as JSON data files",
	Long:  `Writes the current catalog to --to as categories.json, subcategories.json and anchors.json.`,
	Args:  cobra.NoArgs,
	RunE:  runDataExport,
}

var dataCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report catalog integrity problems",
	Long: `Loads the catalog and lists dangling parent and related references,
parent cycles, duplicate IDs and sibling slug collisions. Linking still works
with these problems; affected pages just get fewer links.`,
	Args: cobra.NoArgs,
	RunE: runDataCheck,
}

func init() {
	dataImportCmd.Flags().StringVar(&dataImportFrom, "from", "", "directory holding the JSON data files (default --data-dir)")
	dataExportCmd.Flags().StringVar(&dataExportTo, "to", "", "directory to write the JSON data files to")
	_ = dataExportCmd.MarkFlagRequired("to")
	dataCheckCmd.Flags().BoolVar(&dataStrict, "strict", false, "exit with an error when problems are found")

	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataCheckCmd)
	rootCmd.AddCommand(dataCmd)
}

func runDataImport(cmd *cobra.Command, _ []string) error {
	from := dataImportFrom
	if from == "" {
		from = dataDir
	}
	if from == "" {
		return errNoCatalog
	}

	source := jsonfile.NewStore(from)
	catalog := services.NewCatalogService(source, source)

	db, err := sqlite.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening catalog database: %w", err)
	}
	defer db.Close()

	n, err := catalog.CopyTo(cmd.Context(), db)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d entities from %s into %s\n", n, from, db.Path())
	return nil
}

func runDataExport(cmd *cobra.Command, _ []string) error {
	catalog, err := getCatalogService()
	if err != nil {
		return err
	}

	n, err := catalog.CopyTo(cmd.Context(), jsonfile.NewStore(dataExportTo))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	cmd.Printf("Exported %d entities to %s\n", n, dataExportTo)
	return nil
}

func runDataCheck(cmd *cobra.Command, _ []string) error {
	catalogs, err := getCatalogService()
	if err != nil {
		return err
	}

	catalog, err := catalogs.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	cmd.Printf("%d entities, %d with synonyms\n", catalog.Hierarchy.Len(), len(catalog.Vocabulary))

	if len(catalog.Issues) == 0 {
		cmd.Println(successStyle.Render("No integrity problems found."))
		return nil
	}

	t := newTable("Entity", "Problem")
	for _, issue := range catalog.Issues {
		t.Row(issue.EntityID, issue.Problem)
	}
	cmd.Println(t.String())

	if dataStrict {
		return fmt.Errorf("%d integrity problems found", len(catalog.Issues))
	}
	return nil
}
