package app

import (
	"errors"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/assistant"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/event"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/observability"
)

// runPipeline is the frame loop. Assistant results arrive on the same select
// so the engine is only ever driven from here or under engineMu.
//
// Per tick:
// 1. Read a frame (skip the tick on error)
// 2. Publish a JPEG preview if anyone is watching the stream
// 3. Detect hands (skip the tick on error)
// 4. Run the engine and route its events
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.config.FrameInterval)
	defer ticker.Stop()

	var results <-chan assistant.Result
	if a.dispatcher != nil {
		results = a.dispatcher.Results()
	}

	for {
		select {
		case <-stop:
			return
		case res := <-results:
			a.HandleResult(res)
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}
			a.processFrame()
		}
	}
}

func (a *App) processFrame() {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		observability.RecordDetectorError()
		a.log.Debug().Err(err).Msg("Error reading frame")
		return
	}
	defer frame.Close()

	if a.frames.Watching() {
		if buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame); err == nil {
			data := append([]byte(nil), buf.GetBytes()...)
			buf.Close()
			a.frames.Publish(data)
		}
	}

	if a.detector == nil {
		return
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		observability.RecordDetectorError()
		a.log.Warn().Err(err).Msg("Error detecting hands")
		return
	}

	observability.RecordFrame(len(hands))
	a.ProcessHands(hands, time.Now())
}

// ProcessHands runs one frame of detections through the engine and routes
// the resulting events: swipes move the slide, held poses ask the assistant.
func (a *App) ProcessHands(hands []detector.HandLandmarks, now time.Time) []gesture.Event {
	a.engineMu.Lock()
	events := a.engine.Process(hands, now)
	a.engineMu.Unlock()

	for _, ev := range events {
		switch ev.Kind {
		case gesture.EventSwipe:
			a.handleSwipe(ev)
		case gesture.EventGesture:
			a.handleGesture(ev)
		}
	}
	return events
}

func (a *App) handleSwipe(ev gesture.Event) {
	observability.RecordSwipe(string(ev.Direction))
	a.log.Info().Str("hand", ev.Hand).Str("direction", string(ev.Direction)).Msg("Swipe detected")

	a.publish(event.Event{
		Type:       event.TypeSwipeDetected,
		Hand:       ev.Hand,
		Direction:  string(ev.Direction),
		SlideIndex: a.navigator.Index(),
		SlideCount: a.navigator.Count(),
		Timestamp:  ev.At,
	})

	if _, moved := a.navigator.Apply(ev.Direction); moved {
		observability.RecordSlideChange("gesture")
		a.publishSlide(ev.Direction)
	}
}

func (a *App) handleGesture(ev gesture.Event) {
	observability.RecordGesture(string(ev.Pose))
	a.log.Info().Str("hand", ev.Hand).Str("pose", string(ev.Pose)).Msg("Gesture triggered")

	slide, loaded := a.navigator.Current()
	text := slide.Text()

	cmd, ok := assistant.CommandForPose(ev.Pose)
	a.publish(event.Event{
		Type:       event.TypeGestureTriggered,
		Hand:       ev.Hand,
		Gesture:    string(ev.Pose),
		Command:    string(cmd),
		Text:       text,
		SlideIndex: a.navigator.Index(),
		SlideCount: a.navigator.Count(),
		Timestamp:  ev.At,
	})
	if !ok || a.dispatcher == nil {
		return
	}

	if !loaded || text == "" {
		a.publish(event.Event{
			Type:    event.TypeAssistantError,
			Hand:    ev.Hand,
			Command: string(cmd),
			Text:    assistant.FallbackMessage,
			Error:   "no slide content",
		})
		a.resetHold(ev.Hand)
		return
	}

	err := a.dispatcher.Dispatch(cmd, ev.Hand, text)
	switch {
	case errors.Is(err, assistant.ErrBusy):
		observability.RecordAssistantRequest(string(cmd), "rejected", 0)
		a.log.Debug().Str("command", string(cmd)).Msg("Assistant busy, gesture ignored")
	case err != nil:
		a.log.Warn().Err(err).Msg("Dispatch failed")
	default:
		a.publish(event.Event{
			Type:       event.TypeAssistantStarted,
			Hand:       ev.Hand,
			Command:    string(cmd),
			SlideIndex: a.navigator.Index(),
			SlideCount: a.navigator.Count(),
		})
	}
}

// HandleResult publishes a finished assistant request and re-arms the hold
// tracker of the hand that asked for it.
func (a *App) HandleResult(res assistant.Result) {
	e := event.Event{
		Type:       event.TypeAssistantResponse,
		Hand:       res.Hand,
		Command:    string(res.Command),
		Text:       res.Text,
		SlideIndex: a.navigator.Index(),
		SlideCount: a.navigator.Count(),
	}
	status := "success"
	if res.Err != nil {
		status = "error"
		e.Type = event.TypeAssistantError
		e.Error = res.Err.Error()
	}
	observability.RecordAssistantRequest(string(res.Command), status, res.Duration)

	a.publish(e)
	a.resetHold(res.Hand)
}

func (a *App) resetHold(hand string) {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.engine.ResetHold(hand)
}
