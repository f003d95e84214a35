package configgen

import (
	"strings"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestGenerateSTP(t *testing.T) {
	t.Parallel()

	t.Run("mst root with defaults", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{SwitchName: "SW1", Mode: STPModeMST, Role: STPRoleRoot})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(config, "! SW1 Configuration\n!\nhostname SW1\n"))
		assert.NotContains(t, config, "vlan 1\n")
		assert.Contains(t, config, "vlan 10\n name VLAN10\n!")
		assert.Contains(t, config, "spanning-tree mode mst")
		assert.Contains(t, config, " name SW1-REGION\n revision 1")
		assert.Contains(t, config, " instance 1 vlan 10, 20\n instance 2 vlan 30, 40")
		assert.Contains(t, config, "spanning-tree mst 0 priority 4096")
		assert.Contains(t, config, "spanning-tree mst 2 priority 4096")
		assert.Contains(t, config, "interface Vlan1\n ip address 10.0.0.1 255.255.255.0")
		assert.True(t, strings.HasSuffix(config, "! End of configuration"))
	})

	t.Run("custom mst instances are sorted", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{
			SwitchName:   "SW2",
			Mode:         STPModeMST,
			Role:         STPRoleSecondary,
			MSTInstances: map[int][]int{3: {50}, 1: {10}},
		})
		require.NoError(t, err)

		first := strings.Index(config, " instance 1 vlan 10")
		second := strings.Index(config, " instance 3 vlan 50")
		require.NotEqual(t, -1, first)
		assert.Greater(t, second, first)
		assert.Contains(t, config, "spanning-tree mst 3 priority 8192")
		assert.NotContains(t, config, "spanning-tree mst 2 ")
	})

	t.Run("custom mapping joins vlans without spaces", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{
			SwitchName:   "SW3",
			Mode:         STPModeMST,
			Role:         STPRoleNormal,
			MSTInstances: map[int][]int{1: {10, 20, 30}},
		})
		require.NoError(t, err)
		assert.Contains(t, config, " instance 1 vlan 10,20,30\n")
	})

	t.Run("instance 0 in the mapping gets one priority", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{
			SwitchName:   "SW4",
			Mode:         STPModeMST,
			Role:         STPRoleRoot,
			MSTInstances: map[int][]int{0: {1}, 1: {10}},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(config, "spanning-tree mst 0 priority"))
		assert.Contains(t, config, "spanning-tree mst 1 priority 4096")
	})

	t.Run("rapid-pvst sets per vlan priority", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{SwitchName: "SW3", Mode: STPModeRapidPVST, Role: STPRoleNormal, VLANs: []int{20, 30}})
		require.NoError(t, err)

		assert.Contains(t, config, "spanning-tree mode rapid-pvst")
		assert.Contains(t, config, "spanning-tree vlan 20 priority 32768\nspanning-tree vlan 30 priority 32768")
		assert.Contains(t, config, " ip address 10.0.0.20 255.255.255.0")
		assert.NotContains(t, config, "spanning-tree mst")
	})

	t.Run("unknown mode and role fall back", func(t *testing.T) {
		t.Parallel()

		config, err := GenerateSTP(STPOptions{SwitchName: "SW4", Mode: "bogus", Role: "bogus", VLANs: []int{1}})
		require.NoError(t, err)

		assert.Contains(t, config, "spanning-tree mode pvst")
		assert.Contains(t, config, "spanning-tree vlan 1 priority 32768")
	})

	t.Run("empty vlan list", func(t *testing.T) {
		t.Parallel()

		_, err := GenerateSTP(STPOptions{SwitchName: "SW5", VLANs: []int{}})
		require.ErrorIs(t, err, constants.ErrNoVLANs)
	})

	t.Run("missing switch name", func(t *testing.T) {
		t.Parallel()

		_, err := GenerateSTP(STPOptions{})
		require.ErrorIs(t, err, constants.ErrInvalidArgument)
	})
}

func TestParseSTP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, STPModeMST, ParseSTPMode(" MST "))
	assert.Equal(t, STPModeRapidPVST, ParseSTPMode("rapid-pvst"))
	assert.Equal(t, STPModePVST, ParseSTPMode(""))
	assert.Equal(t, STPRoleRoot, ParseSTPRole("Root"))
	assert.Equal(t, STPRoleNormal, ParseSTPRole("leaf"))
	assert.Equal(t, SecondaryPriority, STPRoleSecondary.Priority())
}
