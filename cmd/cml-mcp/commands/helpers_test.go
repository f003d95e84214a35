package commands

import (
	"bytes"
	"testing"

	"github.com/fivetwenty-io/cml-mcp/internal/constants"
	"github.com/fivetwenty-io/cml-mcp/pkg/cml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings(t *testing.T) {
	t.Parallel()

	settings := Settings{URL: "cml.lab", Username: "admin", Password: "secret", VerifySSL: false, RetryMax: 3}

	t.Run("config", func(t *testing.T) {
		t.Parallel()

		config := settings.Config(cml.NopLogger{})
		assert.Equal(t, "cml.lab", config.ServerURL)
		assert.True(t, config.InsecureSkipVerify)
		assert.Equal(t, 3, config.RetryMax)
		assert.True(t, settings.HasSession())
	})

	t.Run("masked", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, constants.MaskedSecret, settings.Masked().Password)
		assert.Equal(t, "secret", settings.Password)
		assert.Empty(t, Settings{}.Masked().Password)
		assert.False(t, Settings{URL: "cml.lab"}.HasSession())
	})
}

func TestWriters(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeJSON(&buf, cml.Entity{"id": "lab-1"}))
		assert.Equal(t, "{\n  \"id\": \"lab-1\"\n}\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeYAML(&buf, cml.Entity{"id": "lab-1"}))
		assert.Equal(t, "id: lab-1\n", buf.String())
	})

	t.Run("collection table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, writeCollection(&buf, cml.Collection{
			"n1": {"label": "R1", "state": "STARTED"},
		}, "none", "label", "state"))
		assert.Contains(t, buf.String(), "R1")
		assert.Contains(t, buf.String(), "STARTED")
	})
}
