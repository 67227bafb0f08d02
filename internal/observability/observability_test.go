package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := GetLogger()
	defer SetLogger(prev)

	SetLogger(zerolog.New(&buf))
	logger := Component(GetLogger(), "gesture")
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"gesture"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestRecordMetrics(t *testing.T) {
	before := testutil.ToFloat64(swipesDetected.WithLabelValues("swipe-left"))
	RecordSwipe("swipe-left")
	assert.Equal(t, before+1, testutil.ToFloat64(swipesDetected.WithLabelValues("swipe-left")))

	RecordFrame(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(handsVisible))

	rejected := testutil.ToFloat64(assistantRequests.WithLabelValues("summarize", "rejected"))
	RecordAssistantRequest("summarize", "rejected", time.Second)
	assert.Equal(t, rejected+1, testutil.ToFloat64(assistantRequests.WithLabelValues("summarize", "rejected")))

	runs := testutil.ToFloat64(pluginRuns.WithLabelValues("slide-keys", "ok"))
	RecordPluginRun("slide-keys", "ok")
	assert.Equal(t, runs+1, testutil.ToFloat64(pluginRuns.WithLabelValues("slide-keys", "ok")))
}
