package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/interlink/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/services"
)

// testEntities builds:
//
//	crm-software
//	├── crm-for-startups  (related: project-management, email-marketing)
//	│   └── free-crm
//	└── enterprise-crm
//	project-management
//	email-marketing
func testEntities() []domain.Entity {
	return []domain.Entity{
		domain.NewRootEntity("crm-software", "crm-software", "CRM Software"),
		domain.NewNestedEntity("crm-for-startups", "crm-software", "crm-for-startups", "CRM for Startups",
			"project-management", "email-marketing"),
		domain.NewNestedEntity("free-crm", "crm-for-startups", "free-crm", "Free CRM"),
		domain.NewNestedEntity("enterprise-crm", "crm-software", "enterprise-crm", "Enterprise CRM"),
		domain.NewRootEntity("project-management", "project-management", "Project Management"),
		domain.NewRootEntity("email-marketing", "email-marketing", "Email Marketing"),
	}
}

// startupsPage is a 250 word page that mentions every fixture title.
func startupsPage() string {
	return "<p>Unlike generic CRM Software, startups need project management tools. " + filler(116) + "</p>" +
		"<p>Pair Free CRM with email marketing platforms. " + filler(118) + "</p>"
}

func filler(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

// setupTestServices installs in-memory settings and catalog services and
// resets command state when the test ends.
func setupTestServices(t *testing.T) *memory.ConfigStore {
	t.Helper()

	oldSettings, oldCatalog := settingsService, catalogService
	config := memory.NewConfigStore()
	catalog := memory.NewCatalogStore(testEntities()...)
	settingsService = services.NewSettingsService(config)
	catalogService = services.NewCatalogService(catalog, catalog)

	t.Cleanup(func() {
		settingsService, catalogService = oldSettings, oldCatalog
		resetFlags()
	})
	return config
}

// resetFlags restores every flag to its default and clears its changed
// state, so required-flag checks see a fresh command tree.
func resetFlags() {
	resetCommandFlags(rootCmd)
}

func resetCommandFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if slice, ok := f.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCommandFlags(child)
	}
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := Execute(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
