package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/cml-mcp/internal/configgen"
	"github.com/spf13/cobra"
)

// NewSTPConfigCommand creates the command printing spanning-tree
// configuration. It needs no server.
func NewSTPConfigCommand() *cobra.Command {
	var (
		mode      string
		role      string
		vlans     []int
		instances []string
	)

	cmd := &cobra.Command{
		Use:   "stp-config SWITCH_NAME",
		Short: "Generate spanning-tree configuration",
		Long: `Generate IOS spanning-tree configuration for a switch.

MST instances are given as INSTANCE:VLAN[,VLAN...], for example
--instance 1:10,20 --instance 2:30,40.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := parseInstances(instances)
			if err != nil {
				return err
			}

			config, err := configgen.GenerateSTP(configgen.STPOptions{
				SwitchName:   args[0],
				Mode:         configgen.ParseSTPMode(mode),
				Role:         configgen.ParseSTPRole(role),
				VLANs:        vlans,
				MSTInstances: mapping,
			})
			if err != nil {
				return fmt.Errorf("failed to generate configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), config)

			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(configgen.STPModeMST), "STP mode (mst, rapid-pvst, pvst)")
	cmd.Flags().StringVar(&role, "role", string(configgen.STPRoleRoot), "switch role (root, secondary, normal)")
	cmd.Flags().IntSliceVar(&vlans, "vlans", configgen.DefaultVLANs, "VLANs to configure")
	cmd.Flags().StringArrayVar(&instances, "instance", nil, "MST instance mapping INSTANCE:VLAN[,VLAN...] (repeatable)")

	return cmd
}

func parseInstances(values []string) (map[int][]int, error) {
	if len(values) == 0 {
		return nil, nil //nolint:nilnil // no mapping selects the default
	}

	mapping := make(map[int][]int, len(values))

	for _, value := range values {
		instancePart, vlanPart, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInstance, value)
		}

		instance, err := strconv.Atoi(strings.TrimSpace(instancePart))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInstance, value)
		}

		for _, field := range strings.Split(vlanPart, ",") {
			vlan, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidInstance, value)
			}

			mapping[instance] = append(mapping[instance], vlan)
		}
	}

	return mapping, nil
}
