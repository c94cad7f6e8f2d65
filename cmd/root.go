package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pickgraph",
	Short: "Cascading entity picker for catalog imports",
	Long: "pickgraph builds the relationship graph between topics, pipelines, spaces, " +
		"connected spaces, subjects and indicators, and keeps a picked-set consistent " +
		"as entities are toggled.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .pickgraph.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.StringP("source", "s", "", "source catalog file (.toml, .yaml, .json)")
	pf.StringP("destination", "d", "", "destination catalog file, used to flag existing entities")
	pf.String("scope", "", "candidate scope: full or topics")
	pf.String("filter-mode", "", "filter matcher: substring or fuzzy")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("journal", "", "append session events to this JSONL file")
}

// bindFlags maps the persistent flags onto config keys. It runs on every
// command initialization so the bindings survive a viper.Reset.
func bindFlags() {
	pf := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("source", pf.Lookup("source"))
	_ = viper.BindPFlag("destination", pf.Lookup("destination"))
	_ = viper.BindPFlag("scope", pf.Lookup("scope"))
	_ = viper.BindPFlag("filter.mode", pf.Lookup("filter-mode"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("journal", pf.Lookup("journal"))
}

func initConfig() {
	bindFlags()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pickgraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PICKGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
