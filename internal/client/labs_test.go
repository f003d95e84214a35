package client

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLabsClient_List(t *testing.T) {
	t.Parallel()

	t.Run("list of ids is resolved", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs", http.StatusOK, []string{"lab-1", "lab-2"})
		fake.handle("GET /api/v0/labs/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("id"), "title": "Lab " + r.PathValue("id")})
		})

		labs, err := fake.client().Labs().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"lab-1", "lab-2"}, labs.IDs())
		assert.Equal(t, "Lab lab-2", labs["lab-2"].String("title", ""))
	})

	t.Run("keyed mapping", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs", http.StatusOK, map[string]interface{}{
			"lab-1": map[string]string{"title": "One"},
		})

		labs, err := fake.client().Labs().List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "One", labs["lab-1"].String("title", ""))
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs", http.StatusOK, []string{})

		labs, err := fake.client().Labs().List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, labs)
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs", http.StatusInternalServerError, map[string]string{"description": "boom"})

		_, err := fake.client().Labs().List(context.Background())
		require.Error(t, err)

		var reqErr *cml.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
		assert.Contains(t, err.Error(), "listing labs")
	})
}

func TestLabsClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("POST /api/v0/labs", http.StatusOK, map[string]string{"id": "lab-1", "title": "Demo"})

		lab, err := fake.client().Labs().Create(context.Background(), &cml.LabCreateRequest{Title: "Demo", Description: "d"})
		require.NoError(t, err)
		assert.Equal(t, "lab-1", lab.ID())

		reqs := fake.requests(http.MethodPost, "/api/v0/labs")
		require.Len(t, reqs, 1)
		assert.Equal(t, map[string]interface{}{"title": "Demo", "description": "d"}, fake.decodeBody(reqs[0]))
	})

	t.Run("missing id", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("POST /api/v0/labs", http.StatusOK, map[string]string{"title": "Demo"})

		_, err := fake.client().Labs().Create(context.Background(), &cml.LabCreateRequest{Title: "Demo"})
		require.Error(t, err)
		assert.True(t, cml.IsUnexpectedResponseShape(err))
	})
}

func TestLabsClient_Delete(t *testing.T) {
	t.Parallel()

	t.Run("running lab is stopped first", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("PUT /api/v0/labs/{id}/stop", http.StatusNoContent, nil)
		fake.respond("DELETE /api/v0/labs/{id}", http.StatusNoContent, nil)

		require.NoError(t, fake.client().Labs().Delete(context.Background(), "lab-1"))
		assert.Len(t, fake.requests(http.MethodPut, "/api/v0/labs/lab-1/stop"), 1)
		assert.Len(t, fake.requests(http.MethodDelete, "/api/v0/labs/lab-1"), 1)
	})

	t.Run("stopped lab is deleted directly", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STOPPED"})
		fake.respond("DELETE /api/v0/labs/{id}", http.StatusNoContent, nil)

		require.NoError(t, fake.client().Labs().Delete(context.Background(), "lab-1"))
		assert.Empty(t, fake.requests(http.MethodPut, "/api/v0/labs/lab-1/stop"))
	})

	t.Run("missing lab", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusNotFound, map[string]string{"description": "Lab not found"})

		err := fake.client().Labs().Delete(context.Background(), "nope")
		require.Error(t, err)
		assert.True(t, cml.IsNotFound(err))
	})
}

func TestLabsClient_StartStop(t *testing.T) {
	t.Parallel()

	fake := newFakeCML(t)
	fake.respond("PUT /api/v0/labs/{id}/start", http.StatusNoContent, nil)
	fake.respond("PUT /api/v0/labs/{id}/stop", http.StatusNoContent, nil)

	labs := fake.client().Labs()
	require.NoError(t, labs.Start(context.Background(), "lab-1"))
	require.NoError(t, labs.Stop(context.Background(), "lab-1"))

	assert.Len(t, fake.requests(http.MethodPut, "/api/v0/labs/lab-1/start"), 1)
	assert.Len(t, fake.requests(http.MethodPut, "/api/v0/labs/lab-1/stop"), 1)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestLabsClient_WaitForNodes(t *testing.T) {
	t.Parallel()

	t.Run("all nodes become ready", func(t *testing.T) {
		t.Parallel()

		var polls atomic.Int32

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []string{"n1", "n2"})
		fake.handle("GET /api/v0/labs/{id}/nodes/{node}", func(w http.ResponseWriter, r *http.Request) {
			state := "BOOTED"
			if r.PathValue("node") == "n1" || polls.Add(1) > 2 {
				state = "STARTED"
			}

			writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("node"), "state": state})
		})

		result, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", 5*time.Second)
		require.NoError(t, err)
		assert.Equal(t, cml.ReadinessReady, result.Outcome)
		assert.Equal(t, 3, result.Attempts)
		assert.Empty(t, result.Pending)
		assert.Len(t, fake.requests(http.MethodGet, "/api/v0/labs/lab-1/nodes/n1"), 3)
	})

	t.Run("node leaving STARTED is pending again", func(t *testing.T) {
		t.Parallel()

		var n1Polls, n2Polls atomic.Int32

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []string{"n1", "n2"})
		fake.handle("GET /api/v0/labs/{id}/nodes/{node}", func(w http.ResponseWriter, r *http.Request) {
			state := "BOOTED"

			switch r.PathValue("node") {
			case "n1":
				if n1Polls.Add(1) == 1 {
					state = "STARTED"
				}
			case "n2":
				if n2Polls.Add(1) >= 2 {
					state = "STARTED"
				}
			}

			writeJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("node"), "state": state})
		})

		result, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", 100*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, cml.ReadinessTimedOut, result.Outcome)
		assert.Equal(t, []string{"n1"}, result.Pending)
		assert.Greater(t, n1Polls.Load(), int32(1))
	})

	t.Run("timeout is not an error", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []string{"n1"})
		fake.respond("GET /api/v0/labs/{id}/nodes/{node}", http.StatusOK, map[string]string{"id": "n1", "state": "BOOTED"})

		result, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", 50*time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, cml.ReadinessTimedOut, result.Outcome)
		assert.Equal(t, []string{"n1"}, result.Pending)
		assert.Contains(t, result.Message(), "Timeout reached")
	})

	t.Run("lab not started", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STOPPED"})

		result, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", time.Second)
		require.NoError(t, err)
		assert.Equal(t, cml.ReadinessNotStarted, result.Outcome)
		assert.Empty(t, fake.requests(http.MethodGet, "/api/v0/labs/lab-1/nodes"))
	})

	t.Run("empty lab is ready", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []string{})

		result, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", time.Second)
		require.NoError(t, err)
		assert.Equal(t, cml.ReadinessReady, result.Outcome)
	})

	t.Run("transport error aborts", func(t *testing.T) {
		t.Parallel()

		fake := newFakeCML(t)
		fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "state": "STARTED"})
		fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []string{"n1"})
		fake.respond("GET /api/v0/labs/{id}/nodes/{node}", http.StatusBadGateway, nil)

		_, err := fake.client().Labs().WaitForNodes(context.Background(), "lab-1", 5*time.Second)
		require.Error(t, err)

		var reqErr *cml.RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
	})
}

func TestLabsClient_Topology(t *testing.T) {
	t.Parallel()

	fake := newFakeCML(t)
	fake.respond("GET /api/v0/labs/{id}", http.StatusOK, map[string]string{"id": "lab-1", "title": "Demo", "state": "STOPPED"})
	fake.respond("GET /api/v0/labs/{id}/nodes", http.StatusOK, []map[string]string{
		{"id": "n1", "label": "R1", "node_definition": "iosv"},
		{"id": "n2", "label": "SW1", "node_definition": "iosvl2"},
	})
	fake.respond("GET /api/v0/labs/{id}/links", http.StatusOK, []map[string]string{
		{"id": "l1", "src_node": "n1", "dst_node": "n2", "src_int": "Gi0/0", "dst_int": "Gi0/1"},
	})

	topology, err := fake.client().Labs().Topology(context.Background(), "lab-1")
	require.NoError(t, err)
	assert.Len(t, topology.Nodes, 2)
	assert.Contains(t, topology.Summary(), "Lab Topology: Demo")
	assert.Contains(t, topology.Summary(), "- Link l1: R1 (Gi0/0) → SW1 (Gi0/1)")
}
