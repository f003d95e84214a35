package commands

import (
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/spf13/cobra"
)

// NewNodesCommand creates the nodes command group.
func NewNodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "Manage lab nodes",
		Long:    "List and add nodes in a CML lab",
	}

	cmd.AddCommand(newNodesListCommand())
	cmd.AddCommand(newNodesAddCommand())

	return cmd
}

func newNodesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list LAB_ID",
		Short: "List nodes",
		Long:  "List the nodes of a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			nodes, err := client.Nodes().List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list nodes: %w", err)
			}

			return writeCollection(cmd.OutOrStdout(), nodes, "No nodes found", "label", "node_definition", "state")
		},
	}
}

func newNodesAddCommand() *cobra.Command {
	var (
		label              string
		definition         string
		x, y               int
		populateInterfaces bool
		parameters         map[string]string
	)

	cmd := &cobra.Command{
		Use:   "add LAB_ID",
		Short: "Add a node",
		Long:  "Add a node of the given node definition to a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			node, err := client.Nodes().Create(cmd.Context(), args[0], &cml.NodeCreateRequest{
				Label:              label,
				NodeDefinition:     definition,
				X:                  x,
				Y:                  y,
				Parameters:         parameters,
				PopulateInterfaces: populateInterfaces,
			})
			if err != nil {
				return fmt.Errorf("failed to add node: %w", err)
			}

			return writeMessage(cmd.OutOrStdout(), fmt.Sprintf("Added node '%s' with ID: %s", label, node.ID()))
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "node label")
	cmd.Flags().StringVar(&definition, "definition", "", "node definition, e.g. iosv or iosvl2")
	cmd.Flags().IntVar(&x, "x", 0, "X coordinate")
	cmd.Flags().IntVar(&y, "y", 0, "Y coordinate")
	cmd.Flags().BoolVar(&populateInterfaces, "populate-interfaces", true, "create the default interfaces")
	cmd.Flags().StringToStringVar(&parameters, "parameter", nil, "node definition parameter (key=value, repeatable)")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("definition")

	return cmd
}
