package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cashtrack/internal/logging"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, logging.Setup(&buf, "warn", "json"))

	slog.Info("hidden")
	slog.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestSetup_Invalid(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, logging.Setup(&buf, "loud", "console"))
	assert.Error(t, logging.Setup(&buf, "info", "xml"))
}
