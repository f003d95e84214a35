package commands

import (
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/cmltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSTPConfigCommand(t *testing.T) {
	t.Parallel()

	out, err := run(t, NewSTPConfigCommand(), cmltest.NewFake(),
		"SW1", "--mode", "rapid-pvst", "--role", "secondary", "--vlans", "10,20")
	require.NoError(t, err)
	assert.Contains(t, out, "spanning-tree mode rapid-pvst")
	assert.Contains(t, out, "spanning-tree vlan 10 priority 8192")
	assert.Contains(t, out, "spanning-tree vlan 20 priority 8192")
}

func TestParseInstances(t *testing.T) {
	t.Parallel()

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		mapping, err := parseInstances(nil)
		require.NoError(t, err)
		assert.Nil(t, mapping)
	})

	t.Run("several instances", func(t *testing.T) {
		t.Parallel()

		mapping, err := parseInstances([]string{"1:10,20", "2: 30"})
		require.NoError(t, err)
		assert.Equal(t, map[int][]int{1: {10, 20}, 2: {30}}, mapping)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for _, value := range []string{"1", "x:10", "1:ten"} {
			_, err := parseInstances([]string{value})
			require.ErrorIs(t, err, ErrInvalidInstance, value)
		}
	})
}
