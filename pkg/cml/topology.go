package cml

import (
	"fmt"
	"strings"
)

// Topology aggregates a lab with its nodes and links.
type Topology struct {
	Lab   Entity     `json:"lab"   yaml:"lab"`
	Nodes Collection `json:"nodes" yaml:"nodes"`
	Links Collection `json:"links" yaml:"links"`
}

// Summary renders the topology as human readable text.
func (t *Topology) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Lab Topology: %s\n", t.Lab.String("title", "Untitled"))
	fmt.Fprintf(&b, "State: %s\n", t.Lab.String("state", "unknown"))
	fmt.Fprintf(&b, "Description: %s\n\n", t.Lab.String("description", "None"))

	b.WriteString("Nodes:\n")

	for _, id := range t.Nodes.IDs() {
		node := t.Nodes[id]
		fmt.Fprintf(&b, "- %s (ID: %s)\n", node.String("label", "Unnamed"), id)
		fmt.Fprintf(&b, "  Type: %s\n", node.String("node_definition", "unknown"))
		fmt.Fprintf(&b, "  State: %s\n", node.String("state", "unknown"))
	}

	b.WriteString("\nLinks:\n")

	for _, id := range t.Links.IDs() {
		link := t.Links[id]
		srcInt := link.String("src_int", "unknown")
		dstInt := link.String("dst_int", "unknown")

		srcNode, srcKnown := t.Nodes[link.String("src_node", "")]
		dstNode, dstKnown := t.Nodes[link.String("dst_node", "")]

		if srcKnown && dstKnown {
			fmt.Fprintf(&b, "- Link %s: %s (%s) → %s (%s)\n",
				id, srcNode.String("label", "unknown"), srcInt, dstNode.String("label", "unknown"), dstInt)

			continue
		}

		fmt.Fprintf(&b, "- Link %s: %s:%s → %s:%s\n",
			id, link.String("src_node", "unknown"), srcInt, link.String("dst_node", "unknown"), dstInt)
	}

	return b.String()
}
