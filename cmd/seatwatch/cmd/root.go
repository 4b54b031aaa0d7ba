// Package cmd implements the CLI commands for seatwatch.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hmuraoka/seatwatch/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "seatwatch",
		Short: "Watch the Sunrise Seto/Izumo reservation page for open rooms",
		Long: "seatwatch polls the Sunrise Seto/Izumo sleeper train reservation page,\n" +
			"resolves per-room availability from icons, attributes, and row text,\n" +
			"records check history, and sends alerts when a room opens up.",
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initViper)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(versionCommand())
}

func initViper() {
	viper.SetEnvPrefix("SEATWATCH")
	viper.AutomaticEnv()
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
