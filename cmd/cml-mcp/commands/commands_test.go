package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/cmltest"
	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes cmd with args against fake and returns stdout.
func run(t *testing.T, cmd *cobra.Command, fake *cmltest.Fake, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.ExecuteContext(WithClient(context.Background(), fake))

	return out.String(), err
}

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	return names
}

func TestCommandGroups(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cmd         *cobra.Command
		use         string
		subcommands []string
	}{
		{NewLabsCommand(), "labs", []string{"create", "delete", "list", "show", "start", "stop", "topology", "wait"}},
		{NewNodesCommand(), "nodes", []string{"add", "list"}},
		{NewLinksCommand(), "links", []string{"create", "delete", "list"}},
		{NewNodeDefinitionsCommand(), "node-definitions", []string{"list"}},
		{NewBuildCommand(), "build", []string{"ospf", "simple-network", "stp"}},
		{NewConfigCommand(), "config", []string{"show"}},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.ElementsMatch(t, tt.subcommands, subcommandNames(tt.cmd))
		})
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLabsCommands(t *testing.T) {
	t.Parallel()

	t.Run("lifecycle", func(t *testing.T) {
		t.Parallel()

		fake := cmltest.NewFake()

		out, err := run(t, NewLabsCommand(), fake, "create", "--title", "Demo")
		require.NoError(t, err)
		assert.Equal(t, "Created lab 'Demo' with ID: lab-1\n", out)

		out, err = run(t, NewLabsCommand(), fake, "list")
		require.NoError(t, err)
		assert.Contains(t, out, "lab-1")
		assert.Contains(t, out, "Demo")

		out, err = run(t, NewLabsCommand(), fake, "start", "lab-1")
		require.NoError(t, err)
		assert.Equal(t, "Lab lab-1 started successfully\n", out)

		out, err = run(t, NewLabsCommand(), fake, "wait", "lab-1", "--timeout", "5")
		require.NoError(t, err)
		assert.Equal(t, "All nodes in the lab are initialized and ready\n", out)

		out, err = run(t, NewLabsCommand(), fake, "topology", "lab-1")
		require.NoError(t, err)
		assert.Contains(t, out, "Lab Topology: Demo\n")

		out, err = run(t, NewLabsCommand(), fake, "show", "lab-1")
		require.NoError(t, err)
		assert.Contains(t, out, "STARTED")

		_, err = run(t, NewLabsCommand(), fake, "stop", "lab-1")
		require.NoError(t, err)

		out, err = run(t, NewLabsCommand(), fake, "delete", "lab-1")
		require.NoError(t, err)
		assert.Equal(t, "Lab lab-1 deleted successfully\n", out)
		assert.Nil(t, fake.Lab("lab-1"))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, NewLabsCommand(), cmltest.NewFake(), "list")
		require.NoError(t, err)
		assert.Equal(t, "No labs found in CML.\n", out)
	})

	t.Run("missing lab", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, NewLabsCommand(), cmltest.NewFake(), "start", "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start lab")
	})

	t.Run("title is required", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, NewLabsCommand(), cmltest.NewFake(), "create")
		require.Error(t, err)
	})
}

func TestNodesAndLinksCommands(t *testing.T) {
	t.Parallel()

	fake := cmltest.NewFake()

	_, err := run(t, NewLabsCommand(), fake, "create", "--title", "Demo")
	require.NoError(t, err)

	out, err := run(t, NewNodesCommand(), fake, "add", "lab-1", "--label", "R1", "--definition", constants.NodeDefinitionRouter)
	require.NoError(t, err)
	assert.Equal(t, "Added node 'R1' with ID: node-2\n", out)

	_, err = run(t, NewNodesCommand(), fake, "add", "lab-1", "--label", "R2", "--definition", constants.NodeDefinitionRouter)
	require.NoError(t, err)

	out, err = run(t, NewNodesCommand(), fake, "list", "lab-1")
	require.NoError(t, err)
	assert.Contains(t, out, "R1")
	assert.Contains(t, out, "R2")

	out, err = run(t, NewLinksCommand(), fake, "create", "lab-1", "node-2", "node-3", "--nodes")
	require.NoError(t, err)
	assert.Equal(t, "Created link link-4 between interfaces node-2-i0 and node-3-i0\n", out)

	out, err = run(t, NewLinksCommand(), fake, "delete", "lab-1", "link-4")
	require.NoError(t, err)
	assert.Equal(t, "Link link-4 deleted successfully\n", out)
	assert.Empty(t, fake.LabLinks("lab-1"))
}

func TestNodeDefinitionsCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, NewNodeDefinitionsCommand(), cmltest.NewFake(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, constants.NodeDefinitionRouter)
	assert.Contains(t, out, constants.NodeDefinitionSwitch)
}

func TestBuildCommand(t *testing.T) {
	t.Parallel()

	fake := cmltest.NewFake()

	out, err := run(t, NewBuildCommand(), fake, "stp", "--switches", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Lab STP Test Lab (ID: lab-1)")
	assert.Len(t, fake.LabNodes("lab-1"), 2)
	assert.Len(t, fake.LabLinks("lab-1"), 1)
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, NewVersionCommand("1.2.3", "abc", "today"), cmltest.NewFake())
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "abc")
}
