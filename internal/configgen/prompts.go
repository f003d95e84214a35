package configgen

import "fmt"

// Prompt names.
const (
	PromptDescribeTopology = "cml-describe-topology"
	PromptCreateLab        = "cml-create-lab"
)

// DescribeTopologyPrompt asks the model to analyse a lab.
func DescribeTopologyPrompt(labID string) string {
	return fmt.Sprintf(`Please analyze the following network topology from Cisco Modeling Labs (Lab ID: %s).
Describe the network elements, their connections, and the overall architecture.
Suggest any improvements or potential issues with the design.
`, labID)
}

// CreateLabPrompt walks the model through designing and building a lab.
// requirements replaces the placeholder when non-empty.
func CreateLabPrompt(requirements string) string {
	if requirements == "" {
		requirements = "{{requirements}}"
	}

	return fmt.Sprintf(`I need you to help me create a network lab in Cisco Modeling Labs.

Please design a lab that meets the following requirements:
%s

For each device, specify:
1. Device type (router, switch, etc.)
2. Basic configuration
3. Network connections

After designing the topology, you'll need to:
1. Create the lab in CML
2. Add the nodes
3. Create the links between nodes
4. Configure each node
5. Start the lab

Please walk through this process step by step.
`, requirements)
}
