package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeDefinitionsClient_List(t *testing.T) {
	t.Parallel()

	t.Run("list is keyed by id", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/node_definitions", http.StatusOK, []map[string]interface{}{
			{"id": "iosv", "general": map[string]string{"description": "IOSv"}},
			{"id": "iosvl2"},
		})

		definitions, err := fake.client().NodeDefinitions().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"iosv", "iosvl2"}, definitions.IDs())
		assert.Contains(t, definitions["iosv"], "general")
	})

	t.Run("mapping is reduced", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/node_definitions", http.StatusOK, map[string]interface{}{
			"iosv": map[string]interface{}{
				"description": "IOSv router",
				"type":        "router",
				"interfaces":  []string{"Gi0/0"},
				"extra":       true,
			},
			"bare": map[string]interface{}{},
		})

		definitions, err := fake.client().NodeDefinitions().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "IOSv router", definitions["iosv"].String("description", ""))
		assert.Equal(t, "router", definitions["iosv"].String("type", ""))
		assert.Equal(t, []interface{}{"Gi0/0"}, definitions["iosv"]["interfaces"])
		assert.NotContains(t, definitions["iosv"], "extra")
		assert.Equal(t, []interface{}{}, definitions["bare"]["interfaces"])
	})
}
