package hedlab

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/hedlab/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var showConfigDump bool

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			BaseURL:        viper.GetString("baseURL"),
			Debug:          viper.GetBool("debug"),
			JSONMode:       viper.GetBool("jsonMode"),
			TimeoutSeconds: viper.GetInt("timeout"),
			LogFile:        viper.GetString("logFile"),
			DefaultModel:   viper.GetString("defaultModel"),
		}
		if showConfigDump {
			cfg := GetConfig()
			if cfg == nil {
				cfg = &fallback
			}
			pp.Fprintln(cmd.OutOrStdout(), cfg)
			return
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), GetConfig(), fallback)
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showConfigCmd.Flags().BoolVar(&showConfigDump, "dump", false, "pretty-print the merged config struct")
}
