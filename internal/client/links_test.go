package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLinksClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("first strategy accepted", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("POST /api/v0/labs/{id}/links", http.StatusOK, map[string]string{"id": "l1"})

		result, err := fake.client().Links().Create(context.Background(), "lab-1", "ia", "ib")
		require.NoError(t, err)
		assert.Equal(t, "l1", result.LinkID)
		assert.Equal(t, "src_int/dst_int", result.Strategy)
		assert.Equal(t, "ia", result.InterfaceA)

		reqs := fake.requests(http.MethodPost, "/api/v0/labs/lab-1/links")
		require.Len(t, reqs, 1)
		assert.Equal(t, map[string]interface{}{"src_int": "ia", "dst_int": "ib"}, fake.decodeBody(reqs[0]))
	})

	t.Run("falls back to i1/i2", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.handle("POST /api/v0/labs/{id}/links", func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)

			if _, ok := body["i1"]; !ok {
				writeJSON(w, http.StatusBadRequest, map[string]string{"description": "i1 is required"})

				return
			}

			writeJSON(w, http.StatusOK, map[string]string{"id": "l2"})
		})

		result, err := fake.client().Links().Create(context.Background(), "lab-1", "ia", "ib")
		require.NoError(t, err)
		assert.Equal(t, "l2", result.LinkID)
		assert.Equal(t, "i1/i2", result.Strategy)
		assert.Len(t, fake.requests(http.MethodPost, "/api/v0/labs/lab-1/links"), 2)
	})

	t.Run("response without id tries the next strategy", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("POST /api/v0/labs/{id}/links", http.StatusOK, map[string]string{"status": "ok"})

		_, err := fake.client().Links().Create(context.Background(), "lab-1", "ia", "ib")
		require.ErrorIs(t, err, constants.ErrAllLinkStrategiesFailed)
		assert.True(t, cml.IsUnexpectedResponseShape(err))
		assert.Contains(t, err.Error(), "src_int/dst_int")
		assert.Contains(t, err.Error(), "i1/i2")
		assert.Len(t, fake.requests(http.MethodPost, "/api/v0/labs/lab-1/links"), 2)
	})

	t.Run("custom strategies in isolation", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("POST /api/v0/labs/{id}/links", http.StatusOK, map[string]string{"id": "l3"})

		only := []LinkPayloadStrategy{DefaultLinkStrategies[1]}

		result, err := fake.client().links.CreateWith(context.Background(), "lab-1", "ia", "ib", only)
		require.NoError(t, err)
		assert.Equal(t, "i1/i2", result.Strategy)

		reqs := fake.requests(http.MethodPost, "/api/v0/labs/lab-1/links")
		require.Len(t, reqs, 1)
		assert.Equal(t, map[string]interface{}{"i1": "ia", "i2": "ib"}, fake.decodeBody(reqs[0]))
	})
}

func TestLinksClient_LinkNodes(t *testing.T) {
	t.Parallel()

	fake := newFakeCML(t)
	fake.handle("GET /api/v0/labs/{id}/nodes/{node}/interfaces", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []string{r.PathValue("node") + "-i0"})
	})
	fake.respond("GET /api/v0/labs/{id}/interfaces/{iface}", http.StatusOK, map[string]interface{}{
		"type":         "physical",
		"is_connected": false,
	})
	fake.respond("POST /api/v0/labs/{id}/links", http.StatusOK, map[string]string{"id": "l1"})

	result, err := fake.client().Links().LinkNodes(context.Background(), "lab-1", "r1", "sw1")
	require.NoError(t, err)
	assert.Equal(t, "l1", result.LinkID)
	assert.Equal(t, "r1-i0", result.InterfaceA)
	assert.Equal(t, "sw1-i0", result.InterfaceB)
}

func TestLinksClient_ListDelete(t *testing.T) {
	t.Parallel()

	fake := newFakeCML(t)
	fake.respond("GET /api/v0/labs/{id}/links", http.StatusOK, []string{"l1", "l2"})
	fake.respond("DELETE /api/v0/labs/{id}/links/{link}", http.StatusNoContent, nil)

	links := fake.client().Links()

	collection, err := links.List(context.Background(), "lab-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"l1", "l2"}, collection.IDs())

	require.NoError(t, links.Delete(context.Background(), "lab-1", "l1"))
	assert.Len(t, fake.requests(http.MethodDelete, "/api/v0/labs/lab-1/links/l1"), 1)
}
