//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/fivetwenty-io/cml-mcp/pkg/cmlclient"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	URL        string
	Username   string
	Password   string
	VerifySSL  bool
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from the CML_* environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		URL:        os.Getenv("CML_URL"),
		Username:   os.Getenv("CML_USERNAME"),
		Password:   os.Getenv("CML_PASSWORD"),
		VerifySSL:  os.Getenv("CML_VERIFY_SSL") != "false",
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("CML_TEST_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the cml-mcp binary
func getBinaryPath() string {
	if path := os.Getenv("CML_MCP_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../cml-mcp",
		"./cml-mcp",
		"../cml-mcp",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "cml-mcp" // Fallback to PATH
}

// SkipIfMissingConfig skips the test when no CML server is configured
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.URL == "" || config.Username == "" || config.Password == "" {
		t.Skip("CML_URL, CML_USERNAME or CML_PASSWORD not set, skipping integration test")
	}
}

// SkipIfMissingBinary skips the test when the cml-mcp binary is not built
func (config *TestConfig) SkipIfMissingBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("cml-mcp binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// Client returns an authenticated client for the configured server
func (config *TestConfig) Client(t *testing.T) cml.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := cmlclient.NewAuthenticated(ctx, &cml.Config{
		ServerURL:          config.URL,
		Username:           config.Username,
		Password:           config.Password,
		InsecureSkipVerify: !config.VerifySSL,
	})
	if err != nil {
		t.Fatalf("failed to authenticate with %s: %v", config.URL, err)
	}

	return client
}

// CommandRunner provides utilities for running cml-mcp commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a cml-mcp command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = append(os.Environ(),
		"CML_URL="+runner.config.URL,
		"CML_USERNAME="+runner.config.Username,
		"CML_PASSWORD="+runner.config.Password,
		fmt.Sprintf("CML_VERIFY_SSL=%t", runner.config.VerifySSL),
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupLab deletes a test lab, stopping it first when running
func CleanupLab(t *testing.T, client cml.Client, labID string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := client.Labs().Delete(ctx, labID); err != nil {
		t.Logf("Cleanup warning for lab %s: %v", labID, err)
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
