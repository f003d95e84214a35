package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/cml-mcp/cmd/cml-mcp/commands"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cml-mcp",
	Short: "Cisco Modeling Labs MCP server and CLI",
	Long: `An MCP server exposing Cisco Modeling Labs to AI assistants.

Run "cml-mcp serve" from the tool host configuration. The remaining
commands talk to CML directly and are useful for checking a setup.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.cml-mcp/config.yml)")
	rootCmd.PersistentFlags().StringP("url", "u", "", "CML server URL")
	rootCmd.PersistentFlags().String("username", "", "CML username")
	rootCmd.PersistentFlags().String("password", "", "CML password")
	rootCmd.PersistentFlags().Bool("verify-ssl", true, "verify the server TLS certificate")
	rootCmd.PersistentFlags().Bool("skip-ssl-validation", false, "skip SSL certificate validation")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "log HTTP traffic to stderr")
	rootCmd.PersistentFlags().Int("retry-max", 0, "transport retries for 5xx, 429 and connection errors")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(commands.KeyURL, rootCmd.PersistentFlags().Lookup("url"))
	_ = viper.BindPFlag(commands.KeyUsername, rootCmd.PersistentFlags().Lookup("username"))
	_ = viper.BindPFlag(commands.KeyPassword, rootCmd.PersistentFlags().Lookup("password"))
	_ = viper.BindPFlag(commands.KeyVerifySSL, rootCmd.PersistentFlags().Lookup("verify-ssl"))
	_ = viper.BindPFlag(commands.KeySkipSSLValidation, rootCmd.PersistentFlags().Lookup("skip-ssl-validation"))
	_ = viper.BindPFlag(commands.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag(commands.KeyDebug, rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag(commands.KeyRetryMax, rootCmd.PersistentFlags().Lookup("retry-max"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewServeCommand(version))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewLabsCommand())
	rootCmd.AddCommand(commands.NewNodesCommand())
	rootCmd.AddCommand(commands.NewLinksCommand())
	rootCmd.AddCommand(commands.NewNodeDefinitionsCommand())
	rootCmd.AddCommand(commands.NewBuildCommand())
	rootCmd.AddCommand(commands.NewSTPConfigCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.cml-mcp/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// CML_URL, CML_USERNAME, CML_PASSWORD, CML_VERIFY_SSL, ...
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	// Stdout may be the MCP channel, so diagnostics go to stderr.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool(commands.KeyDebug) {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
