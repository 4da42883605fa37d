// internal/commands/root.go
package hedlab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/mwiater/hedlab/internal/api"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/mwiater/hedlab/internal/logging"
	"github.com/mwiater/hedlab/internal/workbench"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it opens the interactive workbench.
var rootCmd = &cobra.Command{
	Use:           "hedlab",
	Short:         "hedlab — terminal workbench for HED annotation experiments",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range []string{"debug", "jsonMode"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}
		for _, name := range []string{"baseURL", "logFile", "defaultModel"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if !cmd.Flags().Changed("timeout") {
			_ = cmd.Flags().Set("timeout", strconv.Itoa(viper.GetInt("timeout")))
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return startGUI(cmd.Context(), GetConfig(), newSession())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logging.Close()
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("jsonMode", false, "print command results as JSON")
	rootCmd.PersistentFlags().String("baseURL", "", "experiment backend URL (default "+appconfig.DefaultBaseURL+")")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("defaultModel", "", "model the experiment form starts with")
	rootCmd.PersistentFlags().Int("timeout", 0, "backend request timeout in seconds (0 = default)")

	for _, name := range []string{"debug", "jsonMode", "baseURL", "logFile", "defaultModel", "timeout"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config and sets safe defaults. When the default
// path is missing, a config.json left in the working directory by older
// releases is used instead.
func ensureConfigLoaded() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfgFile != appconfig.DefaultConfigPath {
		return nil
	}
	return loadLegacyConfig()
}

// loadLegacyConfig points viper at the legacy config file when one exists.
func loadLegacyConfig() error {
	legacy, err := appconfig.Load("")
	if errors.Is(err, appconfig.ErrNoConfig) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	viper.SetConfigFile(legacy.ConfigPath)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfgFile = legacy.ConfigPath
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// JSONModeEnabled returns true if JSON mode is enabled.
func JSONModeEnabled() bool { return viper.GetBool("jsonMode") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// newSession builds a workbench session bound to the configured backend.
func newSession() *workbench.Session {
	cfg := GetConfig()
	return workbench.New(api.New(cfg), workbench.OptionsFromConfig(cfg))
}
