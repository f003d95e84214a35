package workflows

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
)

// Switch layers of the STP lab.
const (
	LayerCore         = "core"
	LayerDistribution = "distribution"
	LayerAccess       = "access"
)

type switchSlot struct {
	name  string
	layer string
	x, y  int
}

var stpLayout = []switchSlot{
	{name: "SW1-Core", layer: LayerCore, x: 100, y: 100},
	{name: "SW2-Core", layer: LayerCore, x: 300, y: 100},
	{name: "SW3-Distribution", layer: LayerDistribution, x: 50, y: 200},
	{name: "SW4-Distribution", layer: LayerDistribution, x: 350, y: 200},
	{name: "SW5-Access", layer: LayerAccess, x: 150, y: 300},
	{name: "SW6-Access", layer: LayerAccess, x: 250, y: 300},
}

// stpLinks lists the redundant links as indexes into stpLayout, grouped by
// the switch count that enables them.
var stpLinks = []struct {
	minSwitches int
	pairs       [][2]int
}{
	{minSwitches: 2, pairs: [][2]int{{0, 1}}},
	{minSwitches: 4, pairs: [][2]int{{0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}},
	{minSwitches: 6, pairs: [][2]int{{2, 4}, {2, 5}, {3, 4}, {3, 5}, {4, 5}}},
}

// STPSwitch is a switch created for the STP lab.
type STPSwitch struct {
	Name  string `json:"name"  yaml:"name"`
	ID    string `json:"id"    yaml:"id"`
	Layer string `json:"layer" yaml:"layer"`
}

// STPLink is one switch to switch link. ID is empty and Error set when
// linking failed.
type STPLink struct {
	From  string `json:"from"            yaml:"from"`
	To    string `json:"to"              yaml:"to"`
	ID    string `json:"id"              yaml:"id"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// STPLabResult describes the STP lab.
type STPLabResult struct {
	LabID    string      `json:"lab_id"   yaml:"lab_id"`
	Title    string      `json:"title"    yaml:"title"`
	Switches []STPSwitch `json:"switches" yaml:"switches"`
	Links    []STPLink   `json:"links"    yaml:"links"`
	Status   string      `json:"status"   yaml:"status"`
	Message  string      `json:"message"  yaml:"message"`
}

// STPSwitchCount rounds the requested count to the 2, 4 or 6 switch layout.
func STPSwitchCount(requested int) int {
	switch {
	case requested <= 2:
		return 2
	case requested <= 4:
		return 4
	default:
		return len(stpLayout)
	}
}

// STPLab creates core, distribution and access switches joined by
// redundant links.
func (r *Runner) STPLab(ctx context.Context, title, description string, numSwitches, interfacesPerSwitch int) (*STPLabResult, error) {
	if interfacesPerSwitch <= 0 {
		interfacesPerSwitch = constants.DefaultSwitchInterfaces
	}

	labID, err := r.createLab(ctx, title, description)
	if err != nil {
		return nil, err
	}

	layout := stpLayout[:STPSwitchCount(numSwitches)]
	switches := make([]STPSwitch, 0, len(layout))

	for _, slot := range layout {
		node, err := r.client.Nodes().CreateSwitch(ctx, labID, slot.name, interfacesPerSwitch, slot.x, slot.y)
		if err != nil {
			return nil, fmt.Errorf("failed to create switch %s: %w", slot.name, err)
		}

		switches = append(switches, STPSwitch{Name: slot.name, ID: node.ID(), Layer: slot.layer})
	}

	// Each link picks the next free interface.
	var links []STPLink

	for _, tier := range stpLinks {
		if len(switches) < tier.minSwitches {
			continue
		}

		for _, pair := range tier.pairs {
			links = append(links, r.linkSwitches(ctx, labID, switches[pair[0]], switches[pair[1]]))
		}
	}

	return &STPLabResult{
		LabID:    labID,
		Title:    title,
		Switches: switches,
		Links:    links,
		Status:   constants.StatusSuccess,
		Message:  fmt.Sprintf("Created STP lab with %d switches, each having %d interfaces", len(switches), interfacesPerSwitch),
	}, nil
}

func (r *Runner) linkSwitches(ctx context.Context, labID string, from, to STPSwitch) STPLink {
	link := STPLink{From: from.Name, To: to.Name}

	result, err := r.client.Links().LinkNodes(ctx, labID, from.ID, to.ID)
	if err != nil {
		r.logger.Warn("Linking switches failed", map[string]interface{}{
			"lab_id": labID,
			"from":   from.Name,
			"to":     to.Name,
			"error":  err.Error(),
		})

		link.Error = err.Error()

		return link
	}

	link.ID = result.LinkID

	return link
}
