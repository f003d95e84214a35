package configgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	t.Parallel()

	all := Templates()
	require.Len(t, all, 3)
	assert.Equal(t, "basic-router", all[0].Name)
	assert.Equal(t, "cml://templates/basic-router", all[0].URI)
	assert.Equal(t, "ospf-config", all[2].Name)
	assert.Contains(t, all[2].Text, "router ospf {{process_id}}")

	assert.Equal(t, Template{}, LookupTemplate("missing"))
}

func TestOSPFRouter(t *testing.T) {
	t.Parallel()

	config := OSPFRouter("Router2", "10.0.0.2")
	assert.Contains(t, config, "! Basic Router2 Configuration with OSPF")
	assert.Contains(t, config, "hostname Router2\n")
	assert.Contains(t, config, " ip address 10.0.0.2 255.255.255.0\n")
	assert.Contains(t, config, "router ospf 1\n network 10.0.0.0 0.0.0.255 area 0\n")
}

func TestPrompts(t *testing.T) {
	t.Parallel()

	assert.Contains(t, DescribeTopologyPrompt("lab-9"), "(Lab ID: lab-9)")
	assert.Contains(t, CreateLabPrompt(""), "{{requirements}}")
	assert.Contains(t, CreateLabPrompt("two routers"), "requirements:\ntwo routers\n")
}
