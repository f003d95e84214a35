package commands

import (
	"fmt"
	"io"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/internal/workflows"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/spf13/cobra"
)

// NewBuildCommand creates the command group building complete labs.
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build complete labs",
		Long:  "Create ready made labs: a simple router and switch network, an OSPF pair or an STP switch fabric",
	}

	cmd.AddCommand(newBuildSimpleCommand())
	cmd.AddCommand(newBuildOSPFCommand())
	cmd.AddCommand(newBuildSTPCommand())

	return cmd
}

func addLabFlags(cmd *cobra.Command, title, description *string, defaultTitle, defaultDescription string) {
	cmd.Flags().StringVar(title, "title", defaultTitle, "lab title")
	cmd.Flags().StringVar(description, "description", defaultDescription, "lab description")
}

func newRunner(cmd *cobra.Command) (*workflows.Runner, error) {
	client, err := newClient(cmd)
	if err != nil {
		return nil, err
	}

	return workflows.NewRunner(client, cml.NewLogger(cmd.ErrOrStderr(), LoadSettings().Debug)), nil
}

func newBuildSimpleCommand() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "simple-network",
		Short: "Build a router and switch lab",
		Long:  "Create a lab with Router1 linked to an 8 port Switch1",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			result, err := runner.SimpleNetwork(cmd.Context(), title, description)
			if err != nil {
				return err
			}

			return writeBuildResult(cmd.OutOrStdout(), result, result.LabID, result.Title, result.LinkStatus)
		},
	}

	addLabFlags(cmd, &title, &description, "Simple Network", "A simple network with a router and switch")

	return cmd
}

func newBuildOSPFCommand() *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "ospf",
		Short: "Build an OSPF lab",
		Long:  "Create two routers linked and configured for OSPF area 0",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			result, err := runner.OSPFLab(cmd.Context(), title, description)
			if err != nil {
				return err
			}

			return writeBuildResult(cmd.OutOrStdout(), result, result.LabID, result.Title, result.Instructions)
		},
	}

	addLabFlags(cmd, &title, &description, "OSPF Network Lab", "Two routers connected via OSPF")

	return cmd
}

func newBuildSTPCommand() *cobra.Command {
	var (
		title, description string
		switches           int
		interfaces         int
	)

	cmd := &cobra.Command{
		Use:   "stp",
		Short: "Build an STP lab",
		Long:  "Create core, distribution and access switches joined by redundant links",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := newRunner(cmd)
			if err != nil {
				return err
			}

			result, err := runner.STPLab(cmd.Context(), title, description, switches, interfaces)
			if err != nil {
				return err
			}

			return writeBuildResult(cmd.OutOrStdout(), result, result.LabID, result.Title, result.Message)
		},
	}

	addLabFlags(cmd, &title, &description, "STP Test Lab", "Spanning Tree Protocol test lab with multiple STP versions")
	cmd.Flags().IntVar(&switches, "switches", 6, "number of switches (2, 4 or 6)")
	cmd.Flags().IntVar(&interfaces, "interfaces", constants.DefaultSwitchInterfaces, "interfaces per switch")

	return cmd
}

func writeBuildResult(w io.Writer, result any, labID, title, status string) error {
	if done, err := writeStructured(w, result); done {
		return err
	}

	_, _ = fmt.Fprintf(w, "Lab %s (ID: %s)\n%s\n", title, labID, status)

	return nil
}
