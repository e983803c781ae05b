// Package config provides CLI commands for managing taskdesk configuration.
package config

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/errors"
	tuiconfig "github.com/Iron-Ham/taskdesk/internal/tui/config"
	"github.com/Iron-Ham/taskdesk/internal/tui/styles"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

// runInteractive is swapped in tests.
var runInteractive = tuiconfig.Run

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify taskdesk configuration",
	Long: `View or modify taskdesk configuration.

Without arguments, opens an interactive configuration UI.
Use 'config show' to display configuration non-interactively.
Use subcommands to modify settings or create a config file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInteractive,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Keys use dot notation, e.g.:
  taskdesk config set api.base_url https://tasks.example.com/api/v1
  taskdesk config set api.timeout 10s
  taskdesk config set tui.theme nord

Valid keys:
  api.base_url          - API root including the version prefix
  api.timeout           - Per-request timeout (e.g. 10s, 0s for none)
  app.environment       - production or development
  tui.theme             - Built-in or custom theme name
  tui.show_ids          - Add a task id column to the table (true/false)
  logging.enabled       - Write a log file (true/false)
  logging.level         - debug, info, warn or error
  logging.max_size_mb   - Log size that triggers rotation
  logging.max_backups   - Rotated log files to keep`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a commented default config file with all available options.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR, then $VISUAL, then falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  taskdesk config reset
  taskdesk config reset api.timeout`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// target is the file that writes go to: the file viper read, or the
// default location.
func target() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return appconfig.ConfigFile()
}

func runConfigInteractive(cmd *cobra.Command, _ []string) error {
	_, _ = styles.DiscoverCustomThemes()
	modified, err := runInteractive(viper.GetViper(), target())
	if err != nil {
		return err
	}
	if modified {
		fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", target())
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Config file: %s\n\n", used)
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n\n")
	}

	settings := make(map[string]any)
	for _, key := range appconfig.Keys() {
		section, name, _ := strings.Cut(key, ".")
		m, _ := settings[section].(map[string]any)
		if m == nil {
			m = make(map[string]any)
			settings[section] = m
		}
		m[name] = displayValue(viper.Get(key))
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(settings); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if _, err := appconfig.Load(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nWarning: configuration is invalid:\n%v\n", err)
	}
	return nil
}

// displayValue renders durations the way they are written in the file.
func displayValue(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	// custom themes must be registered before the theme options are built
	_, _ = styles.DiscoverCustomThemes()

	item, ok := tuiconfig.Lookup(key)
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'taskdesk config set --help' to see valid keys", key)
	}

	value, err := tuiconfig.ParseValue(item, raw)
	if err != nil {
		if len(item.Options) > 0 {
			return fmt.Errorf("invalid value for %s: %s\nValid options: %s", key, raw, strings.Join(item.Options, ", "))
		}
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	v := viper.GetViper()
	previous := v.Get(key)
	v.Set(key, value)
	if _, err := appconfig.LoadFrom(v); err != nil {
		v.Set(key, previous)
		return err
	}

	path := target()
	if err := writeConfig(v, path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, value)
	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}

func writeConfig(v *viper.Viper, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const configTemplate = `# taskdesk configuration
#
# Every key can be overridden with a TASKDESK_* environment variable, e.g.
# TASKDESK_API_BASE_URL for api.base_url. A .env file in the working
# directory is read too.

api:
  # API root including the version prefix
  base_url: %s
  # Per-request timeout such as 10s; 0s disables it
  timeout: %s

app:
  # production or development (development shows panic details)
  environment: %s

tui:
  # Built-in themes: %s
  theme: %s
  # Add a task id column to the table
  show_ids: %t

logging:
  enabled: %t
  # debug, info, warn or error
  level: %s
  # Rotate the log at this size and keep this many old files
  max_size_mb: %d
  max_backups: %d
`

func renderTemplate() string {
	d := appconfig.Default()
	return fmt.Sprintf(configTemplate,
		d.API.BaseURL, d.API.Timeout,
		d.App.Environment,
		strings.Join(styles.BuiltinThemes(), ", "), d.TUI.Theme, d.TUI.ShowIDs,
		d.Logging.Enabled, d.Logging.Level, d.Logging.MaxSizeMB, d.Logging.MaxBackups,
	)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	return initConfigFile(cmd.OutOrStdout(), appconfig.ConfigFile())
}

func initConfigFile(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'taskdesk config set' to modify values", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(renderTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(out, "Created config file at %s\n", path)
	fmt.Fprintln(out, "Edit this file to customize taskdesk.")
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", appconfig.ConfigFile())
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintf(out, "\nEnvironment variables: %s_* (e.g., %s_API_BASE_URL)\n", appconfig.EnvPrefix, appconfig.EnvPrefix)
	fmt.Fprintf(out, "Log file: %s\n", appconfig.LogFile())
	return nil
}

func findEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor, nil
	}
	for _, e := range []string{"vim", "nano", "vi"} {
		if _, err := execLookPath(e); err == nil {
			return e, nil
		}
	}
	return "", fmt.Errorf("no editor found. Set $EDITOR environment variable")
}

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := target()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(out, "Config file doesn't exist, creating with defaults...")
		if err := initConfigFile(out, path); err != nil {
			return err
		}
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}

	editorCmd := execCommand(editor, path)
	editorCmd.Stdin = cmd.InOrStdin()
	editorCmd.Stdout = out
	editorCmd.Stderr = cmd.ErrOrStderr()
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(out, "Config file saved: %s\n", path)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := viper.New()
	appconfig.SetDefaultsOn(defaults)

	v := viper.GetViper()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for _, key := range appconfig.Keys() {
			v.Set(key, defaults.Get(key))
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		if _, ok := tuiconfig.Lookup(key); !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'taskdesk config set --help' to see valid keys", key)
		}
		v.Set(key, defaults.Get(key))
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, displayValue(defaults.Get(key)))
	}

	path := target()
	if err := writeConfig(v, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}
