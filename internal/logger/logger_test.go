package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("debug", "json", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	WithRental(12).Info("gap corrected", "period_id", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gap corrected", entry["msg"])
	assert.Equal(t, float64(12), entry["rental_id"])
	assert.Equal(t, float64(3), entry["period_id"])
}

func TestInitializeWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitializeWithWriter("warn", "text", &buf)
	t.Cleanup(func() { Initialize("info", "text") })

	EnterMethod("svc.Do")
	Info("ignored")
	assert.Empty(t, buf.String())

	ExitMethodWithError("svc.Do", errors.New("boom"))
	assert.Contains(t, buf.String(), "method=svc.Do")
	assert.Contains(t, buf.String(), "error=boom")
}
