package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	configcmd "github.com/Iron-Ham/taskdesk/internal/cmd/config"
	"github.com/Iron-Ham/taskdesk/internal/config"
	"github.com/Iron-Ham/taskdesk/internal/errors"
	"github.com/Iron-Ham/taskdesk/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "taskdesk",
	Short: "Terminal client for the task API",
	Long: `taskdesk manages tasks held by a task REST API.

Run without arguments to open the interactive task screen: add tasks,
change their status, delete them and read their descriptions. The
subcommands do the same from scripts.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
}

var cfgFile string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx available to every
// subcommand through cmd.Context().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/taskdesk/config.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "task API base URL (overrides api.base_url)")
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))

	configcmd.Register(rootCmd)
}

// initConfig loads .env, then the config file and TASKDESK_* overrides into
// the global viper. Validation happens later so that "config" subcommands
// can repair an invalid file.
func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return errors.Wrapf(err, "loading .env")
	}
	if err := config.Configure(viper.GetViper(), cfgFile); err != nil {
		return errors.Wrapf(err, "reading config")
	}
	return nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	app := tui.New(rt.client, rt.cfg, rt.logger)
	if config.Watch(viper.GetViper(), app.ApplyConfig) {
		rt.logger.Debug("watching config file", "path", viper.ConfigFileUsed())
	}
	return app.Run(cmd.Context())
}
