// Package configgen renders IOS-style configuration text for the nodes the
// lab workflows create.
package configgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
)

// STPMode selects the spanning-tree flavour.
type STPMode string

// STP modes.
const (
	STPModeMST       STPMode = "mst"
	STPModeRapidPVST STPMode = "rapid-pvst"
	STPModePVST      STPMode = "pvst"
)

// STPRole selects the bridge priority.
type STPRole string

// STP roles.
const (
	STPRoleRoot      STPRole = "root"
	STPRoleSecondary STPRole = "secondary"
	STPRoleNormal    STPRole = "normal"
)

// Bridge priorities per role.
const (
	RootPriority      = 4096
	SecondaryPriority = 8192
	NormalPriority    = 32768
)

// DefaultVLANs are configured when none are given.
var DefaultVLANs = []int{1, 10, 20, 30, 40}

// DefaultMSTInstances maps MST instances to VLANs when no mapping is given.
func DefaultMSTInstances() map[int][]int {
	return map[int][]int{
		1: {10, 20},
		2: {30, 40},
	}
}

// STPOptions describes one switch.
type STPOptions struct {
	SwitchName string
	Mode       STPMode
	Role       STPRole
	VLANs      []int
	// MSTInstances is only used in MST mode.
	MSTInstances map[int][]int
}

// ParseSTPMode maps a user supplied mode, falling back to PVST.
func ParseSTPMode(mode string) STPMode {
	switch STPMode(strings.ToLower(strings.TrimSpace(mode))) {
	case STPModeMST:
		return STPModeMST
	case STPModeRapidPVST:
		return STPModeRapidPVST
	default:
		return STPModePVST
	}
}

// ParseSTPRole maps a user supplied role, falling back to normal.
func ParseSTPRole(role string) STPRole {
	switch STPRole(strings.ToLower(strings.TrimSpace(role))) {
	case STPRoleRoot:
		return STPRoleRoot
	case STPRoleSecondary:
		return STPRoleSecondary
	default:
		return STPRoleNormal
	}
}

// Priority returns the bridge priority for the role.
func (r STPRole) Priority() int {
	switch r {
	case STPRoleRoot:
		return RootPriority
	case STPRoleSecondary:
		return SecondaryPriority
	default:
		return NormalPriority
	}
}

// GenerateSTP renders the spanning-tree configuration for a switch.
func GenerateSTP(opts STPOptions) (string, error) {
	if opts.SwitchName == "" {
		return "", fmt.Errorf("%w: switch name is required", constants.ErrInvalidArgument)
	}

	vlans := opts.VLANs
	if vlans == nil {
		vlans = DefaultVLANs
	}

	if len(vlans) == 0 {
		return "", constants.ErrNoVLANs
	}

	mode := ParseSTPMode(string(opts.Mode))
	role := ParseSTPRole(string(opts.Role))

	lines := []string{
		"! " + opts.SwitchName + " Configuration",
		"!",
		"hostname " + opts.SwitchName,
		"!",
		"! VLANs Configuration",
	}

	for _, vlan := range vlans {
		if vlan == 1 {
			continue
		}

		lines = append(lines, fmt.Sprintf("vlan %d", vlan), fmt.Sprintf(" name VLAN%d", vlan), "!")
	}

	lines = append(lines, "! Spanning-tree Configuration", "spanning-tree mode "+string(mode))

	if mode == STPModeMST {
		lines = append(lines, mstLines(opts.SwitchName, role, opts.MSTInstances)...)
	} else {
		for _, vlan := range vlans {
			lines = append(lines, fmt.Sprintf("spanning-tree vlan %d priority %d", vlan, role.Priority()))
		}
	}

	lines = append(lines,
		"!",
		"! Common STP features",
		"spanning-tree extend system-id",
		"spanning-tree portfast edge default",
		"spanning-tree portfast bpduguard default",
		"!",
		"! Configure interfaces",
		"!",
		"interface range GigabitEthernet0/0 - 7",
		" switchport trunk encapsulation dot1q",
		" switchport mode trunk",
		" switchport trunk allowed vlan all",
		" no shutdown",
		"!",
		"! Management interface",
		"interface Vlan1",
		fmt.Sprintf(" ip address 10.0.0.%d 255.255.255.0", vlans[0]),
		" no shutdown",
		"!",
		"! End of configuration",
	)

	return strings.Join(lines, "\n"), nil
}

func mstLines(switchName string, role STPRole, instances map[int][]int) []string {
	// The default mapping is written with ", ", custom ones with ",".
	separator := ","

	if len(instances) == 0 {
		instances = DefaultMSTInstances()
		separator = ", "
	}

	numbers := make([]int, 0, len(instances))
	for instance := range instances {
		numbers = append(numbers, instance)
	}

	sort.Ints(numbers)

	lines := []string{
		"!",
		"! Configure MST instance to VLAN mapping",
		"spanning-tree mst configuration",
		" name " + switchName + "-REGION",
		" revision 1",
	}

	for _, instance := range numbers {
		vlans := make([]string, 0, len(instances[instance]))
		for _, vlan := range instances[instance] {
			vlans = append(vlans, strconv.Itoa(vlan))
		}

		lines = append(lines, fmt.Sprintf(" instance %d vlan %s", instance, strings.Join(vlans, separator)))
	}

	switch role {
	case STPRoleRoot:
		lines = append(lines, "!", "! Set as MST root for instance 0 (CST)")
	case STPRoleSecondary:
		lines = append(lines, "!", "! Set as MST secondary root")
	default:
		lines = append(lines, "!", "! Normal switch (not root)")
	}

	// Instance 0 is the CST and always gets a priority.
	priorities := numbers
	if len(numbers) == 0 || numbers[0] != 0 {
		priorities = append([]int{0}, numbers...)
	}

	for _, instance := range priorities {
		lines = append(lines, fmt.Sprintf("spanning-tree mst %d priority %d", instance, role.Priority()))
	}

	return lines
}
