package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNodeDefinitionsCommand creates the node-definitions command group.
func NewNodeDefinitionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "node-definitions",
		Aliases: []string{"nd"},
		Short:   "Inspect node definitions",
		Long:    "Inspect the node definitions available on the CML server",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List node definitions",
		Long:  "List the node definitions available on the CML server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			definitions, err := client.NodeDefinitions().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list node definitions: %w", err)
			}

			return writeCollection(cmd.OutOrStdout(), definitions, "No node definitions found", "type", "description")
		},
	})

	return cmd
}
