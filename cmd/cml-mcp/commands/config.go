package commands

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long:  "Inspect the configuration merged from flags, CML_* environment variables and the config file",
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Display the effective configuration with the password masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings().Masked()

			if done, err := writeStructured(cmd.OutOrStdout(), settings); done {
				return err
			}

			configFile := viper.ConfigFileUsed()
			if configFile == "" {
				configFile = "(none)"
			}

			return renderTable(cmd.OutOrStdout(), []string{"Setting", "Value"}, [][]string{
				{KeyURL, settings.URL},
				{KeyUsername, settings.Username},
				{KeyPassword, settings.Password},
				{KeyVerifySSL, strconv.FormatBool(settings.VerifySSL)},
				{KeyDebug, strconv.FormatBool(settings.Debug)},
				{KeyRetryMax, strconv.Itoa(settings.RetryMax)},
				{"config_file", configFile},
			})
		},
	}
}
