package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/interlink/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage link settings",
	Long: `View and change the link policy used by link, targets, build and the
MCP server. Settings are stored under the [linking] table of config.toml.

Keys may be given with or without the "linking." prefix. List values are
comma separated.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. The value is validated against the whole policy
before it is stored.

Examples:
  interlink settings set max_links_per_page 8
  interlink settings set linking.exclude_relations parent,ancestor
  interlink settings set url_prefix /en`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, err := getSettingsService()
	if err != nil {
		return err
	}

	policy, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	defaults := settings.GetDefaults()

	t := newTable("Key", "Value", "Default")
	for _, key := range settings.Keys() {
		value := services.SettingValue(policy, key)
		def := services.SettingValue(&defaults, key)
		if value == def {
			def = mutedStyle.Render("=")
		}
		t.Row(key, displayValue(value), displayValue(def))
	}

	cmd.Println(titleStyle.Render("Link Settings"))
	cmd.Println(t.String())

	if err := policy.Validate(); err != nil {
		cmd.Println(warningStyle.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'interlink settings reset' to restore defaults.")
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	settings, err := getSettingsService()
	if err != nil {
		return err
	}

	policy, err := settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	key := args[0]
	if !knownSetting(settings.Keys(), key) {
		return fmt.Errorf("unknown setting %q", key)
	}

	fmt.Fprintln(cmd.OutOrStdout(), services.SettingValue(policy, key))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := getSettingsService()
	if err != nil {
		return err
	}

	if err := settings.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	settings, err := getSettingsService()
	if err != nil {
		return err
	}

	defaults := settings.GetDefaults()
	if err := settings.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func knownSetting(keys []string, key string) bool {
	for _, k := range keys {
		if k == key || k == "linking."+key {
			return true
		}
	}
	return false
}

func displayValue(v string) string {
	if v == "" {
		return mutedStyle.Render("(empty)")
	}
	return v
}
