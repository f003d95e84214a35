package commands

import (
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/spf13/cobra"
)

// NewLabsCommand creates the labs command group.
func NewLabsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "labs",
		Aliases: []string{"lab"},
		Short:   "Manage labs",
		Long:    "List, create, start, stop and delete CML labs",
	}

	cmd.AddCommand(newLabsListCommand())
	cmd.AddCommand(newLabsShowCommand())
	cmd.AddCommand(newLabsCreateCommand())
	cmd.AddCommand(newLabsActionCommand("delete", "Delete a lab, stopping it first when running", "Lab %s deleted successfully",
		func(cmd *cobra.Command, labs cml.LabsClient, id string) error { return labs.Delete(cmd.Context(), id) }))
	cmd.AddCommand(newLabsActionCommand("start", "Start a lab", "Lab %s started successfully",
		func(cmd *cobra.Command, labs cml.LabsClient, id string) error { return labs.Start(cmd.Context(), id) }))
	cmd.AddCommand(newLabsActionCommand("stop", "Stop a lab", "Lab %s stopped successfully",
		func(cmd *cobra.Command, labs cml.LabsClient, id string) error { return labs.Stop(cmd.Context(), id) }))
	cmd.AddCommand(newLabsWaitCommand())
	cmd.AddCommand(newLabsTopologyCommand())

	return cmd
}

func newLabsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labs",
		Long:  "List all labs visible to the user",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			labs, err := client.Labs().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list labs: %w", err)
			}

			// Labs report their title under either key.
			for _, lab := range labs {
				if !lab.Has("title") {
					lab["title"] = lab.String("lab_title", constants.Untitled)
				}
			}

			return writeCollection(cmd.OutOrStdout(), labs, "No labs found in CML.", "title", "state", "description")
		},
	}
}

func newLabsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show LAB_ID",
		Short: "Show lab details",
		Long:  "Display the details of a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			lab, err := client.Labs().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get lab: %w", err)
			}

			return writeEntity(cmd.OutOrStdout(), lab)
		},
	}
}

func newLabsCreateCommand() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a lab",
		Long:  "Create a new, empty lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			lab, err := client.Labs().Create(cmd.Context(), &cml.LabCreateRequest{Title: title, Description: description})
			if err != nil {
				return fmt.Errorf("failed to create lab: %w", err)
			}

			return writeMessage(cmd.OutOrStdout(), fmt.Sprintf("Created lab '%s' with ID: %s", title, lab.ID()))
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "lab title")
	cmd.Flags().StringVar(&description, "description", "", "lab description")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

type labAction func(cmd *cobra.Command, labs cml.LabsClient, id string) error

func newLabsActionCommand(name, short, confirmation string, action labAction) *cobra.Command {
	return &cobra.Command{
		Use:   name + " LAB_ID",
		Short: short,
		Long:  short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = action(cmd, client.Labs(), args[0])
			if err != nil {
				return fmt.Errorf("failed to %s lab: %w", name, err)
			}

			return writeMessage(cmd.OutOrStdout(), fmt.Sprintf(confirmation, args[0]))
		},
	}
}

func newLabsWaitCommand() *cobra.Command {
	var timeout int

	cmd := &cobra.Command{
		Use:   "wait LAB_ID",
		Short: "Wait for lab nodes",
		Long:  "Wait until every node of a started lab reports STARTED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Labs().WaitForNodes(cmd.Context(), args[0], secondsFlag(timeout))
			if err != nil {
				return fmt.Errorf("failed to wait for lab: %w", err)
			}

			if done, err := writeStructured(cmd.OutOrStdout(), result); done {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Message())

			return nil
		},
	}

	cmd.Flags().IntVar(&timeout, "timeout", int(constants.DefaultNodeWaitTimeout.Seconds()), "maximum time to wait in seconds")

	return cmd
}

func newLabsTopologyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "topology LAB_ID",
		Short: "Show lab topology",
		Long:  "Display the nodes and links of a lab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			topology, err := client.Labs().Topology(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get topology: %w", err)
			}

			if done, err := writeStructured(cmd.OutOrStdout(), topology); done {
				return err
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), topology.Summary())

			return nil
		},
	}
}
