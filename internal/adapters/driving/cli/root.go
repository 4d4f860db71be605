// Package cli provides the cobra command tree of the interlink binary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/adapters/driven/config/file"
	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
	"github.com/custodia-labs/interlink/internal/core/services"
	"github.com/custodia-labs/interlink/internal/logger"
)

// DefaultDataDir is where JSON data files are read from when --data-dir is not set.
const DefaultDataDir = "data"

// version is set at build time via SetVersion.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
	dbPath    string
)

// Driving ports used by commands. When nil, each command opens its own
// from the global flags; tests assign them directly.
var (
	settingsService driving.SettingsService
	catalogService  driving.CatalogService
)

// closers are released after each command.
var closers []io.Closer

var rootCmd = &cobra.Command{
	Use:   "interlink",
	Short: "Automated internal linking for category pages",
	Long: `Interlink inserts contextual links between category and subcategory
pages. It reads the page hierarchy and anchor vocabulary, finds eligible
targets for each page and wraps matching phrases in links, within a
per-page link budget.

Catalog data comes from JSON files in --data-dir, or from a SQLite
database when --db is set. Settings live in ~/.interlink/config.toml.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.interlink)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", DefaultDataDir, "directory holding categories.json, subcategories.json and anchors.json")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite catalog database; overrides --data-dir when set")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and releases any stores it opened,
// whether or not the command succeeded.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, closeAll())
}

// getSettingsService returns the settings service, opening the config store if none is set.
func getSettingsService() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}

	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

// getCatalogService returns the catalog service, opening the catalog stores if none is set.
func getCatalogService() (driving.CatalogService, error) {
	if catalogService != nil {
		return catalogService, nil
	}

	if dbPath != "" {
		store, err := sqlite.NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening catalog database: %w", err)
		}
		closers = append(closers, store)
		return services.NewCatalogService(store.EntityStore(), store.VocabularyStore()), nil
	}

	store := jsonfile.NewStore(dataDir)
	return services.NewCatalogService(store, store), nil
}

// loadPolicy returns the stored link policy.
func loadPolicy() (domain.LinkPolicy, error) {
	settings, err := getSettingsService()
	if err != nil {
		return domain.LinkPolicy{}, err
	}
	policy, err := settings.Get()
	if err != nil {
		return domain.LinkPolicy{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return *policy, nil
}

// loadLinker loads the catalog and returns a link service over it.
func loadLinker(ctx context.Context) (*services.LinkService, error) {
	catalogs, err := getCatalogService()
	if err != nil {
		return nil, err
	}
	catalog, err := catalogs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return services.NewLinkService(catalog), nil
}

func closeAll() error {
	var errs []error
	for _, c := range closers {
		errs = append(errs, c.Close())
	}
	closers = nil
	return errors.Join(errs...)
}
