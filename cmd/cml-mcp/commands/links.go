package commands

import (
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/spf13/cobra"
)

// NewLinksCommand creates the links command group.
func NewLinksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "links",
		Aliases: []string{"link"},
		Short:   "Manage lab links",
		Long:    "List, create and delete links between interfaces",
	}

	cmd.AddCommand(newLinksListCommand())
	cmd.AddCommand(newLinksCreateCommand())
	cmd.AddCommand(newLinksDeleteCommand())

	return cmd
}

func newLinksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list LAB_ID",
		Short: "List links",
		Long:  "List the links of a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			links, err := client.Links().List(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list links: %w", err)
			}

			return writeCollection(cmd.OutOrStdout(), links, "No links found", "src_node", "src_int", "dst_node", "dst_int")
		},
	}
}

func newLinksCreateCommand() *cobra.Command {
	var nodes bool

	cmd := &cobra.Command{
		Use:   "create LAB_ID A B",
		Short: "Create a link",
		Long: `Create a link between interfaces A and B. With --nodes, A and B are
node IDs and the first free physical interface of each is used.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var result *cml.LinkResult

			if nodes {
				result, err = client.Links().LinkNodes(cmd.Context(), args[0], args[1], args[2])
			} else {
				result, err = client.Links().Create(cmd.Context(), args[0], args[1], args[2])
			}

			if err != nil {
				return fmt.Errorf("failed to create link: %w", err)
			}

			if done, err := writeStructured(cmd.OutOrStdout(), result); done {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created link %s between interfaces %s and %s\n",
				result.LinkID, result.InterfaceA, result.InterfaceB)

			return nil
		},
	}

	cmd.Flags().BoolVar(&nodes, "nodes", false, "treat A and B as node IDs")

	return cmd
}

func newLinksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete LAB_ID LINK_ID",
		Short: "Delete a link",
		Long:  "Delete a link from a lab",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.Links().Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to delete link: %w", err)
			}

			return writeMessage(cmd.OutOrStdout(), fmt.Sprintf("Link %s deleted successfully", args[1]))
		},
	}
}
