package cml

import (
	"fmt"
	"sort"
	"time"
)

// Entity is an attribute mapping owned by the CML server. Labs, nodes,
// interfaces and links are all passed through as entities; only the
// attributes this package reads are interpreted.
type Entity map[string]any

// ID returns the "id" attribute.
func (e Entity) ID() string {
	return e.String("id", "")
}

// String returns the attribute as a string, or fallback when it is absent or null.
func (e Entity) String(key, fallback string) string {
	value, ok := e[key]
	if !ok || value == nil {
		return fallback
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprint(value)
}

// Has reports whether the attribute is present.
func (e Entity) Has(key string) bool {
	_, ok := e[key]

	return ok
}

// Bool returns the attribute as a bool. ok is false when the attribute is
// missing or not a boolean.
func (e Entity) Bool(key string) (value bool, ok bool) {
	raw, present := e[key]
	if !present {
		return false, false
	}

	value, ok = raw.(bool)

	return value, ok
}

// Collection is an identifier-keyed mapping of entities.
type Collection map[string]Entity

// IDs returns the collection keys in sorted order.
func (c Collection) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// LabCreateRequest is the payload for creating a lab.
type LabCreateRequest struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// NodeCreateRequest is the payload for adding a node to a lab.
type NodeCreateRequest struct {
	Label          string            `json:"label"               yaml:"label"`
	NodeDefinition string            `json:"node_definition"     yaml:"node_definition"`
	X              int               `json:"x"                   yaml:"x"`
	Y              int               `json:"y"                   yaml:"y"`
	Parameters     map[string]string `json:"parameters"          yaml:"parameters"`
	Tags           []string          `json:"tags"                yaml:"tags"`
	HideLinks      bool              `json:"hide_links"          yaml:"hide_links"`
	RAM            *int              `json:"ram,omitempty"       yaml:"ram,omitempty"`
	CPULimit       *int              `json:"cpu_limit,omitempty" yaml:"cpu_limit,omitempty"`

	// PopulateInterfaces is sent as a query parameter, not in the body.
	PopulateInterfaces bool `json:"-" yaml:"-"`
}

// InterfaceCreateRequest is the payload for creating an interface on a node.
type InterfaceCreateRequest struct {
	Node string `json:"node" yaml:"node"`
	Slot int    `json:"slot" yaml:"slot"`
}

// LinkResult describes a created link.
type LinkResult struct {
	LinkID     string `json:"link_id"     yaml:"link_id"`
	InterfaceA string `json:"interface_a" yaml:"interface_a"`
	InterfaceB string `json:"interface_b" yaml:"interface_b"`
	// Strategy names the payload shape the server accepted.
	Strategy string `json:"strategy" yaml:"strategy"`
	Details  Entity `json:"details"  yaml:"details"`
}

// ReadinessOutcome is the result of waiting for lab nodes.
type ReadinessOutcome string

const (
	// ReadinessReady means every node reported the ready state.
	ReadinessReady ReadinessOutcome = "ready"

	// ReadinessTimedOut means the deadline elapsed first.
	ReadinessTimedOut ReadinessOutcome = "timed_out"

	// ReadinessNotStarted means the lab itself was not started.
	ReadinessNotStarted ReadinessOutcome = "not_started"
)

// WaitResult reports the outcome of a readiness wait.
type WaitResult struct {
	Outcome  ReadinessOutcome `json:"outcome"           yaml:"outcome"`
	Attempts int              `json:"attempts"          yaml:"attempts"`
	Timeout  time.Duration    `json:"timeout"           yaml:"timeout"`
	Pending  []string         `json:"pending,omitempty" yaml:"pending,omitempty"`
}

// Message returns the status line shown to the tool host.
func (r *WaitResult) Message() string {
	switch r.Outcome {
	case ReadinessReady:
		return "All nodes in the lab are initialized and ready"
	case ReadinessNotStarted:
		return "Lab is not in STARTED state. Start the lab first."
	default:
		return fmt.Sprintf("Timeout reached (%d seconds). Some nodes may not be fully initialized.", int(r.Timeout.Seconds()))
	}
}
