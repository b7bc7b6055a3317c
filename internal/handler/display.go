package handler

import (
	"log/slog"

	"movierec/internal/domain/models"
	"movierec/internal/handler/sse"
	"movierec/internal/httputil"
)

// SSE event names of a turn response.
const (
	EventPlaceholder = "placeholder"
	EventTextDelta   = "text_delta"
	EventUI          = "ui"
	EventError       = "error"
	EventDone        = "done"
)

type textDelta struct {
	Delta string `json:"delta"`
}

// sseDisplay implements services.Display on an SSE stream. Write failures
// mean the client left; the turn keeps running and later events are dropped.
type sseDisplay struct {
	stream *sse.Writer
	logger *slog.Logger
}

func newSSEDisplay(stream *sse.Writer, logger *slog.Logger) *sseDisplay {
	return &sseDisplay{stream: stream, logger: logger}
}

func (d *sseDisplay) Update(entry models.UIEntry) {
	d.send(EventPlaceholder, entry)
}

func (d *sseDisplay) Delta(text string) {
	d.send(EventTextDelta, textDelta{Delta: text})
}

func (d *sseDisplay) Done(entry models.UIEntry) {
	d.send(EventUI, entry)
}

func (d *sseDisplay) fail(status int, detail string) {
	d.send(EventError, httputil.NewProblem(status, detail))
}

func (d *sseDisplay) send(event string, data any) {
	if d.stream.Closed() {
		return
	}
	if err := d.stream.WriteEvent(event, data); err != nil {
		d.logger.Info("client disconnected, dropping turn events", "event", event, "error", err)
	}
}
