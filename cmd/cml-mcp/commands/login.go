package commands

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// NewLoginCommand creates the login command. It verifies the credentials
// and optionally stores the server and username in the config file. The
// password is never written.
func NewLoginCommand() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify CML credentials",
		Long:  "Authenticate against a CML server and optionally save the server and username",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings()
			reader := bufio.NewReader(cmd.InOrStdin())

			if settings.URL == "" {
				settings.URL = prompt(cmd, reader, "CML server URL: ")
			}

			if settings.URL == "" {
				return constants.ErrNoServerURL
			}

			if settings.Username == "" {
				settings.Username = prompt(cmd, reader, "Username: ")
			}

			if settings.Password == "" {
				password, err := readPassword(cmd, reader)
				if err != nil {
					return err
				}

				settings.Password = password
			}

			client, err := cmlclient.NewAuthenticated(cmd.Context(), settings.Config(cml.NewLogger(cmd.ErrOrStderr(), settings.Debug)))
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully authenticated with CML at %s\n", client.ServerURL())

			if !save {
				return nil
			}

			path, err := saveSettings(settings)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved server and username to %s\n", path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the server URL and username to the config file")

	return cmd
}

func prompt(cmd *cobra.Command, reader *bufio.Reader, label string) string {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), label)
	value, _ := reader.ReadString('\n')

	return strings.TrimSpace(value)
}

// readPassword reads without echo from a terminal and falls back to a
// plain line otherwise.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	if cmd.InOrStdin() != os.Stdin || !term.IsTerminal(int(syscall.Stdin)) {
		return prompt(cmd, reader, "Password: "), nil
	}

	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(password), nil
}

// savedSettings is the subset of Settings persisted by login --save.
type savedSettings struct {
	URL       string `yaml:"url"`
	Username  string `yaml:"username"`
	VerifySSL bool   `yaml:"verify_ssl"`
}

// ConfigFilePath returns $HOME/.cml-mcp/config.yml.
func ConfigFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

func saveSettings(settings Settings) (string, error) {
	path, err := ConfigFilePath()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(savedSettings{
		URL:       settings.URL,
		Username:  settings.Username,
		VerifySSL: settings.VerifySSL,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}

	return path, nil
}
