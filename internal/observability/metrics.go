package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_frames_processed_total",
		Help: "Frames passed through hand detection",
	})

	handsVisible = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_hands_visible",
		Help: "Hands detected in the most recent frame",
	})

	detectorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mudra_detector_errors_total",
		Help: "Frames dropped because capture or detection failed",
	})

	gesturesTriggered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_gestures_triggered_total",
		Help: "Held poses that reached the hold duration",
	}, []string{"pose"})

	swipesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_swipes_total",
		Help: "Swipes detected",
	}, []string{"direction"})

	slideChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_slide_changes_total",
		Help: "Slide index changes",
	}, []string{"source"})

	assistantRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_assistant_requests_total",
		Help: "Text-generation requests by command and outcome",
	}, []string{"command", "status"})

	assistantLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mudra_assistant_latency_seconds",
		Help:    "Text-generation request latency",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	})

	websocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mudra_websocket_clients",
		Help: "Connected event stream clients",
	})

	pluginRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mudra_plugin_runs_total",
		Help: "Plugin executions by plugin and outcome",
	}, []string{"plugin", "status"})
)

// RecordFrame counts a processed frame and the hands found in it.
func RecordFrame(hands int) {
	framesProcessed.Inc()
	handsVisible.Set(float64(hands))
}

// RecordDetectorError counts a frame lost to a capture or detection error.
func RecordDetectorError() {
	detectorErrors.Inc()
}

// RecordGesture counts a fired hold.
func RecordGesture(pose string) {
	gesturesTriggered.WithLabelValues(pose).Inc()
}

// RecordSwipe counts a fired swipe.
func RecordSwipe(direction string) {
	swipesDetected.WithLabelValues(direction).Inc()
}

// RecordSlideChange counts a slide move; source is "gesture" or "manual".
func RecordSlideChange(source string) {
	slideChanges.WithLabelValues(source).Inc()
}

// RecordAssistantRequest records the outcome of a text-generation request.
// Status is "success", "error" or "rejected".
func RecordAssistantRequest(command, status string, d time.Duration) {
	assistantRequests.WithLabelValues(command, status).Inc()
	if status != "rejected" {
		assistantLatency.Observe(d.Seconds())
	}
}

// SetWebSocketClients reports the number of connected event clients.
func SetWebSocketClients(n int) {
	websocketClients.Set(float64(n))
}

// RecordPluginRun counts one plugin execution.
func RecordPluginRun(plugin, status string) {
	pluginRuns.WithLabelValues(plugin, status).Inc()
}
