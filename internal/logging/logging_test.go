package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	t.Run("json at info drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Setup(&buf, "info", FormatJSON))

		log.Debug().Msg("hidden")
		log.Info().Str("dataset", "patients").Msg("renamed")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
		assert.Equal(t, "renamed", rec["message"])
		assert.Equal(t, "patients", rec["dataset"])
		assert.Equal(t, "info", rec["level"])
	})

	t.Run("text format is human readable", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Setup(&buf, "debug", FormatText))

		log.Debug().Msg("propagated")
		assert.Contains(t, buf.String(), "propagated")
		assert.Contains(t, buf.String(), "DBG")
	})

	t.Run("empty level defaults to warn", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Setup(&buf, "", ""))

		log.Info().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, Setup(&buf, "loud", FormatJSON))
		assert.Error(t, Setup(&buf, "info", "xml"))
	})
}
