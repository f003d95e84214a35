// Package cmltest provides an in-memory cml.Client for tests of the layers
// built on top of the resource clients.
package cmltest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
)

// Operation names accepted by FailOn.
const (
	OpAuthenticate     = "Authenticate"
	OpLabsList         = "Labs.List"
	OpLabsCreate       = "Labs.Create"
	OpLabsDelete       = "Labs.Delete"
	OpLabsStart        = "Labs.Start"
	OpLabsStop         = "Labs.Stop"
	OpNodeDefinitions  = "NodeDefinitions.List"
	OpNodesCreate      = "Nodes.Create"
	OpNodesConfigure   = "Nodes.Configure"
	OpInterfacesCreate = "Interfaces.Create"
	OpLinksCreate      = "Links.Create"
	OpLinksLinkNodes   = "Links.LinkNodes"
	OpLinksDelete      = "Links.Delete"
)

const (
	defaultFakeURL      = "https://cml.test"
	fakeInterfacePrefix = "-i"
)

// Fake is a goroutine safe in-memory CML server.
type Fake struct {
	mu sync.Mutex

	URL string

	labs       map[string]cml.Entity
	nodes      map[string]cml.Collection
	interfaces map[string]cml.Collection
	links      map[string]cml.Collection
	configs    map[string]string
	failures   map[string]error
	calls      []string
	sequence   int

	// Definitions is returned by NodeDefinitions().List.
	Definitions cml.Collection
}

// NewFake creates an empty fake.
func NewFake() *Fake {
	return &Fake{
		URL:        defaultFakeURL,
		labs:       map[string]cml.Entity{},
		nodes:      map[string]cml.Collection{},
		interfaces: map[string]cml.Collection{},
		links:      map[string]cml.Collection{},
		configs:    map[string]string{},
		failures:   map[string]error{},
		Definitions: cml.Collection{
			constants.NodeDefinitionRouter: {"id": constants.NodeDefinitionRouter, "description": "IOSv router"},
			constants.NodeDefinitionSwitch: {"id": constants.NodeDefinitionSwitch, "description": "IOSv L2 switch"},
		},
	}
}

var _ cml.Client = (*Fake)(nil)

// FailOn makes every later call of op return err. A nil err clears it.
func (f *Fake) FailOn(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.failures, op)

		return
	}

	f.failures[op] = err
}

// Calls returns the operations invoked so far.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

// Config returns the configuration pushed to a node.
func (f *Fake) Config(labID, nodeID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.configs[labID+"/"+nodeID]
}

// Lab returns a copy of the stored lab, or nil.
func (f *Fake) Lab(labID string) cml.Entity {
	f.mu.Lock()
	defer f.mu.Unlock()

	lab, ok := f.labs[labID]
	if !ok {
		return nil
	}

	return copyEntity(lab)
}

// LabNodes returns the nodes of a lab.
func (f *Fake) LabNodes(labID string) cml.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()

	return copyCollection(f.nodes[labID])
}

// LabLinks returns the links of a lab.
func (f *Fake) LabLinks(labID string) cml.Collection {
	f.mu.Lock()
	defer f.mu.Unlock()

	return copyCollection(f.links[labID])
}

// record notes the call and returns the configured failure. f.mu must be held.
func (f *Fake) record(op string) error {
	f.calls = append(f.calls, op)

	return f.failures[op]
}

func (f *Fake) nextID(prefix string) string {
	f.sequence++

	return prefix + "-" + strconv.Itoa(f.sequence)
}

func notFound(path string) error {
	return &cml.RequestError{Method: http.MethodGet, Path: path, StatusCode: http.StatusNotFound}
}

// Labs implements cml.Client.
func (f *Fake) Labs() cml.LabsClient { return fakeLabs{f} }

// NodeDefinitions implements cml.Client.
func (f *Fake) NodeDefinitions() cml.NodeDefinitionsClient { return fakeNodeDefinitions{f} }

// Nodes implements cml.Client.
func (f *Fake) Nodes() cml.NodesClient { return fakeNodes{f} }

// Interfaces implements cml.Client.
func (f *Fake) Interfaces() cml.InterfacesClient { return fakeInterfaces{f} }

// Links implements cml.Client.
func (f *Fake) Links() cml.LinksClient { return fakeLinks{f} }

// Authenticate implements cml.Client.
func (f *Fake) Authenticate(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.record(OpAuthenticate)
	if err != nil {
		return "", err
	}

	return "abc123", nil
}

// ServerURL implements cml.Client.
func (f *Fake) ServerURL() string {
	return f.URL
}

type fakeLabs struct{ f *Fake }

func (l fakeLabs) List(_ context.Context) (cml.Collection, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLabsList)
	if err != nil {
		return nil, err
	}

	labs := cml.Collection{}
	for id, lab := range l.f.labs {
		labs[id] = copyEntity(lab)
	}

	return labs, nil
}

func (l fakeLabs) Create(_ context.Context, request *cml.LabCreateRequest) (cml.Entity, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLabsCreate)
	if err != nil {
		return nil, err
	}

	id := l.f.nextID("lab")
	lab := cml.Entity{"id": id, "lab_title": request.Title, "title": request.Title, "description": request.Description, "state": "DEFINED_ON_CORE"}
	l.f.labs[id] = lab
	l.f.nodes[id] = cml.Collection{}
	l.f.links[id] = cml.Collection{}

	return copyEntity(lab), nil
}

func (l fakeLabs) Get(_ context.Context, labID string) (cml.Entity, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	lab, ok := l.f.labs[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID)
	}

	return copyEntity(lab), nil
}

func (l fakeLabs) Delete(_ context.Context, labID string) error {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLabsDelete)
	if err != nil {
		return err
	}

	if _, ok := l.f.labs[labID]; !ok {
		return notFound(constants.APIPathLabs + "/" + labID)
	}

	delete(l.f.labs, labID)
	delete(l.f.nodes, labID)
	delete(l.f.links, labID)

	return nil
}

func (l fakeLabs) Start(_ context.Context, labID string) error {
	return l.setState(OpLabsStart, labID, constants.StateStarted)
}

func (l fakeLabs) Stop(_ context.Context, labID string) error {
	return l.setState(OpLabsStop, labID, "STOPPED")
}

func (l fakeLabs) setState(op, labID, state string) error {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(op)
	if err != nil {
		return err
	}

	lab, ok := l.f.labs[labID]
	if !ok {
		return notFound(constants.APIPathLabs + "/" + labID)
	}

	lab["state"] = state
	for _, node := range l.f.nodes[labID] {
		node["state"] = state
	}

	return nil
}

func (l fakeLabs) WaitForNodes(_ context.Context, labID string, timeout time.Duration) (*cml.WaitResult, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	lab, ok := l.f.labs[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID)
	}

	if timeout <= 0 {
		timeout = constants.DefaultNodeWaitTimeout
	}

	if lab.String("state", "") != constants.StateStarted {
		return &cml.WaitResult{Outcome: cml.ReadinessNotStarted, Timeout: timeout}, nil
	}

	return &cml.WaitResult{Outcome: cml.ReadinessReady, Attempts: 1, Timeout: timeout}, nil
}

func (l fakeLabs) Topology(_ context.Context, labID string) (*cml.Topology, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	lab, ok := l.f.labs[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID)
	}

	return &cml.Topology{
		Lab:   copyEntity(lab),
		Nodes: copyCollection(l.f.nodes[labID]),
		Links: copyCollection(l.f.links[labID]),
	}, nil
}

type fakeNodeDefinitions struct{ f *Fake }

func (d fakeNodeDefinitions) List(_ context.Context) (cml.Collection, error) {
	d.f.mu.Lock()
	defer d.f.mu.Unlock()

	err := d.f.record(OpNodeDefinitions)
	if err != nil {
		return nil, err
	}

	return copyCollection(d.f.Definitions), nil
}

type fakeNodes struct{ f *Fake }

func (n fakeNodes) List(_ context.Context, labID string) (cml.Collection, error) {
	n.f.mu.Lock()
	defer n.f.mu.Unlock()

	nodes, ok := n.f.nodes[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID + "/nodes")
	}

	return copyCollection(nodes), nil
}

func (n fakeNodes) Get(_ context.Context, labID, nodeID string) (cml.Entity, error) {
	n.f.mu.Lock()
	defer n.f.mu.Unlock()

	node, ok := n.f.nodes[labID][nodeID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID + "/nodes/" + nodeID)
	}

	return copyEntity(node), nil
}

func (n fakeNodes) Create(_ context.Context, labID string, request *cml.NodeCreateRequest) (cml.Entity, error) {
	n.f.mu.Lock()
	defer n.f.mu.Unlock()

	err := n.f.record(OpNodesCreate)
	if err != nil {
		return nil, err
	}

	nodes, ok := n.f.nodes[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID)
	}

	id := n.f.nextID("node")
	node := cml.Entity{
		"id":              id,
		"label":           request.Label,
		"node_definition": request.NodeDefinition,
		"x":               request.X,
		"y":               request.Y,
		"state":           "DEFINED_ON_CORE",
	}
	nodes[id] = node

	count := 0
	if request.PopulateInterfaces {
		count = constants.DefaultSwitchInterfaces
	}

	if slots, err := strconv.Atoi(request.Parameters["slot1"]); err == nil {
		count = slots
	}

	interfaces := cml.Collection{}
	for slot := range count {
		ifaceID := id + fakeInterfacePrefix + strconv.Itoa(slot)
		interfaces[ifaceID] = cml.Entity{
			"id":           ifaceID,
			"node":         id,
			"slot":         slot,
			"label":        fmt.Sprintf("GigabitEthernet0/%d", slot),
			"type":         constants.InterfaceTypePhysical,
			"is_connected": false,
		}
	}

	n.f.interfaces[labID+"/"+id] = interfaces

	return copyEntity(node), nil
}

func (n fakeNodes) CreateRouter(ctx context.Context, labID, label string, x, y int) (cml.Entity, error) {
	return n.Create(ctx, labID, &cml.NodeCreateRequest{
		Label:              label,
		NodeDefinition:     constants.NodeDefinitionRouter,
		X:                  x,
		Y:                  y,
		PopulateInterfaces: true,
	})
}

func (n fakeNodes) CreateSwitch(ctx context.Context, labID, label string, interfaces, x, y int) (cml.Entity, error) {
	if interfaces <= 0 {
		interfaces = constants.DefaultSwitchInterfaces
	}

	return n.Create(ctx, labID, &cml.NodeCreateRequest{
		Label:          label,
		NodeDefinition: constants.NodeDefinitionSwitch,
		X:              x,
		Y:              y,
		Parameters:     map[string]string{"slot1": strconv.Itoa(interfaces)},
	})
}

func (n fakeNodes) GetConfig(_ context.Context, labID, nodeID string) (string, error) {
	n.f.mu.Lock()
	defer n.f.mu.Unlock()

	config, ok := n.f.configs[labID+"/"+nodeID]
	if !ok {
		return "", notFound(constants.APIPathLabs + "/" + labID + "/nodes/" + nodeID + "/config")
	}

	return config, nil
}

func (n fakeNodes) Configure(_ context.Context, labID, nodeID, config string) error {
	n.f.mu.Lock()
	defer n.f.mu.Unlock()

	err := n.f.record(OpNodesConfigure)
	if err != nil {
		return err
	}

	n.f.configs[labID+"/"+nodeID] = config

	return nil
}

type fakeInterfaces struct{ f *Fake }

func (i fakeInterfaces) List(_ context.Context, labID, nodeID string) ([]string, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()

	return i.f.interfaces[labID+"/"+nodeID].IDs(), nil
}

func (i fakeInterfaces) Get(_ context.Context, labID, interfaceID string, _ bool) (cml.Entity, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()

	iface := i.f.findInterface(labID, interfaceID)
	if iface == nil {
		return nil, notFound(constants.APIPathLabs + "/" + labID + "/interfaces/" + interfaceID)
	}

	return copyEntity(iface), nil
}

func (i fakeInterfaces) Physical(_ context.Context, labID, nodeID string) ([]cml.Entity, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()

	interfaces := i.f.interfaces[labID+"/"+nodeID]
	if len(interfaces) == 0 {
		return nil, constants.ErrNoInterfacesFound
	}

	physical := make([]cml.Entity, 0, len(interfaces))
	for _, id := range interfaces.IDs() {
		physical = append(physical, copyEntity(interfaces[id]))
	}

	return physical, nil
}

func (i fakeInterfaces) Create(_ context.Context, labID, nodeID string, slot int) (cml.Entity, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()

	err := i.f.record(OpInterfacesCreate)
	if err != nil {
		return nil, err
	}

	if i.f.labs[labID].String("state", "") == constants.StateStarted {
		return nil, constants.ErrLabRunning
	}

	key := labID + "/" + nodeID
	if i.f.interfaces[key] == nil {
		i.f.interfaces[key] = cml.Collection{}
	}

	id := nodeID + fakeInterfacePrefix + strconv.Itoa(slot)
	iface := cml.Entity{"id": id, "node": nodeID, "slot": slot, "type": constants.InterfaceTypePhysical, "is_connected": false}
	i.f.interfaces[key][id] = iface

	return copyEntity(iface), nil
}

func (i fakeInterfaces) FindAvailable(_ context.Context, labID, nodeID string) (string, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()

	return i.f.findAvailable(labID, nodeID)
}

// findAvailable requires f.mu.
func (f *Fake) findAvailable(labID, nodeID string) (string, error) {
	interfaces := f.interfaces[labID+"/"+nodeID]
	for _, id := range interfaces.IDs() {
		if connected, _ := interfaces[id].Bool("is_connected"); !connected {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w on node %s", constants.ErrNoAvailableInterface, nodeID)
}

// findInterface requires f.mu.
func (f *Fake) findInterface(labID, interfaceID string) cml.Entity {
	for key, interfaces := range f.interfaces {
		if !strings.HasPrefix(key, labID+"/") {
			continue
		}

		if iface, ok := interfaces[interfaceID]; ok {
			return iface
		}
	}

	return nil
}

type fakeLinks struct{ f *Fake }

func (l fakeLinks) List(_ context.Context, labID string) (cml.Collection, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	links, ok := l.f.links[labID]
	if !ok {
		return nil, notFound(constants.APIPathLabs + "/" + labID + "/links")
	}

	return copyCollection(links), nil
}

func (l fakeLinks) Create(_ context.Context, labID, interfaceA, interfaceB string) (*cml.LinkResult, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLinksCreate)
	if err != nil {
		return nil, err
	}

	return l.f.connect(labID, interfaceA, interfaceB)
}

func (l fakeLinks) LinkNodes(_ context.Context, labID, nodeA, nodeB string) (*cml.LinkResult, error) {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLinksLinkNodes)
	if err != nil {
		return nil, err
	}

	interfaceA, err := l.f.findAvailable(labID, nodeA)
	if err != nil {
		return nil, err
	}

	interfaceB, err := l.f.findAvailable(labID, nodeB)
	if err != nil {
		return nil, err
	}

	return l.f.connect(labID, interfaceA, interfaceB)
}

// connect requires f.mu.
func (f *Fake) connect(labID, interfaceA, interfaceB string) (*cml.LinkResult, error) {
	a := f.findInterface(labID, interfaceA)
	b := f.findInterface(labID, interfaceB)

	if a == nil || b == nil {
		return nil, &cml.RequestError{Method: http.MethodPost, Path: constants.APIPathLabs + "/" + labID + "/links", StatusCode: http.StatusBadRequest}
	}

	a["is_connected"] = true
	b["is_connected"] = true

	id := f.nextID("link")
	link := cml.Entity{
		"id":       id,
		"src_int":  interfaceA,
		"dst_int":  interfaceB,
		"src_node": a.String("node", ""),
		"dst_node": b.String("node", ""),
	}
	f.links[labID][id] = link

	return &cml.LinkResult{
		LinkID:     id,
		InterfaceA: interfaceA,
		InterfaceB: interfaceB,
		Strategy:   "src_int/dst_int",
		Details:    copyEntity(link),
	}, nil
}

func (l fakeLinks) Delete(_ context.Context, labID, linkID string) error {
	l.f.mu.Lock()
	defer l.f.mu.Unlock()

	err := l.f.record(OpLinksDelete)
	if err != nil {
		return err
	}

	if _, ok := l.f.links[labID][linkID]; !ok {
		return notFound(constants.APIPathLabs + "/" + labID + "/links/" + linkID)
	}

	delete(l.f.links[labID], linkID)

	return nil
}

func copyEntity(entity cml.Entity) cml.Entity {
	if entity == nil {
		return nil
	}

	result := make(cml.Entity, len(entity))
	for key, value := range entity {
		result[key] = value
	}

	return result
}

func copyCollection(collection cml.Collection) cml.Collection {
	result := make(cml.Collection, len(collection))
	for id, entity := range collection {
		result[id] = copyEntity(entity)
	}

	return result
}
