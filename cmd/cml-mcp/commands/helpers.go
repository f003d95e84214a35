package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Viper keys shared by the root flags, the environment and the config file.
const (
	KeyURL               = "url"
	KeyUsername          = "username"
	KeyPassword          = "password"
	KeyVerifySSL         = "verify_ssl"
	KeySkipSSLValidation = "skip-ssl-validation"
	KeyOutput            = "output"
	KeyDebug             = "debug"
	KeyRetryMax          = "retry_max"
)

// Common static errors used throughout the commands package.
var (
	ErrInvalidInstance = errors.New("invalid MST instance mapping, expected INSTANCE:VLAN[,VLAN...]")
)

type clientKey struct{}

// WithClient makes commands executed with ctx use client instead of
// building one from the configuration.
func WithClient(ctx context.Context, client cml.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// Settings is the effective connection configuration.
type Settings struct {
	URL       string `json:"url"        yaml:"url"`
	Username  string `json:"username"   yaml:"username"`
	Password  string `json:"password"   yaml:"password"`
	VerifySSL bool   `json:"verify_ssl" yaml:"verify_ssl"`
	Debug     bool   `json:"debug"      yaml:"debug"`
	RetryMax  int    `json:"retry_max"  yaml:"retry_max"`
}

// LoadSettings reads the settings merged from flags, environment and config file.
func LoadSettings() Settings {
	verify := true
	if viper.IsSet(KeyVerifySSL) {
		verify = viper.GetBool(KeyVerifySSL)
	}

	if viper.GetBool(KeySkipSSLValidation) {
		verify = false
	}

	return Settings{
		URL:       viper.GetString(KeyURL),
		Username:  viper.GetString(KeyUsername),
		Password:  viper.GetString(KeyPassword),
		VerifySSL: verify,
		Debug:     viper.GetBool(KeyDebug),
		RetryMax:  viper.GetInt(KeyRetryMax),
	}
}

// HasSession reports whether the settings are enough to open a session.
func (s Settings) HasSession() bool {
	return s.URL != "" && s.Username != "" && s.Password != ""
}

// Config converts the settings into a client configuration.
func (s Settings) Config(logger cml.Logger) *cml.Config {
	return &cml.Config{
		ServerURL:          s.URL,
		Username:           s.Username,
		Password:           s.Password,
		InsecureSkipVerify: !s.VerifySSL,
		RetryMax:           s.RetryMax,
		RetryWaitMin:       constants.DefaultRetryWaitMin,
		RetryWaitMax:       constants.DefaultRetryWaitMax,
		Debug:              s.Debug,
		Logger:             logger,
	}
}

// Masked returns a copy with the password hidden.
func (s Settings) Masked() Settings {
	if s.Password != "" {
		s.Password = constants.MaskedSecret
	}

	return s
}

func newClient(cmd *cobra.Command) (cml.Client, error) {
	if client, ok := cmd.Context().Value(clientKey{}).(cml.Client); ok {
		return client, nil
	}

	settings := LoadSettings()
	if settings.URL == "" {
		return nil, constants.ErrNoServerURL
	}

	if settings.Username == "" || settings.Password == "" {
		return nil, constants.ErrNoCredentials
	}

	client, err := cmlclient.New(cmd.Context(), settings.Config(cml.NewLogger(cmd.ErrOrStderr(), settings.Debug)))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func outputFormat() string {
	return viper.GetString(KeyOutput)
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	defer func() { _ = encoder.Close() }()

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// writeStructured handles the json and yaml formats and reports whether it did.
func writeStructured(w io.Writer, value any) (bool, error) {
	switch outputFormat() {
	case constants.FormatJSON:
		return true, writeJSON(w, value)
	case constants.FormatYAML:
		return true, writeYAML(w, value)
	default:
		return false, nil
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)

	header := make([]any, 0, len(headers))
	for _, h := range headers {
		header = append(header, h)
	}

	table.Header(header...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// writeCollection prints entities with one column per key.
func writeCollection(w io.Writer, collection cml.Collection, empty string, keys ...string) error {
	if done, err := writeStructured(w, collection); done {
		return err
	}

	if len(collection) == 0 {
		_, _ = fmt.Fprintln(w, empty)

		return nil
	}

	headers := append([]string{"ID"}, keys...)
	rows := make([][]string, 0, len(collection))

	for _, id := range collection.IDs() {
		row := []string{id}
		for _, key := range keys {
			row = append(row, collection[id].String(key, ""))
		}

		rows = append(rows, row)
	}

	return renderTable(w, headers, rows)
}

// writeEntity prints a single entity as a property table.
func writeEntity(w io.Writer, entity cml.Entity) error {
	if done, err := writeStructured(w, entity); done {
		return err
	}

	rows := make([][]string, 0, len(entity))
	for _, key := range sortedKeys(entity) {
		rows = append(rows, []string{key, entity.String(key, "")})
	}

	return renderTable(w, []string{"Property", "Value"}, rows)
}

func sortedKeys(entity cml.Entity) []string {
	keys := make([]string, 0, len(entity))
	for key := range entity {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// writeMessage prints text in table mode and {"message": text} otherwise.
func writeMessage(w io.Writer, text string) error {
	if done, err := writeStructured(w, map[string]string{"message": text}); done {
		return err
	}

	_, _ = fmt.Fprintln(w, text)

	return nil
}

func secondsFlag(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
