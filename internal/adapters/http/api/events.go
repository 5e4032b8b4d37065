package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/healthfetch/internal/domain/progress"
	"github.com/okian/healthfetch/internal/domain/schedule"
	"github.com/okian/healthfetch/pkg/logger"
)

// rangeRequest is the body of POST /api/fetch/range.
type rangeRequest struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

// streamEmitter writes each event as one SSE frame and flushes it.
// After the first write error the client is gone and later events are dropped.
type streamEmitter struct {
	w      http.ResponseWriter
	rc     *http.ResponseController
	logger logger.Logger
	broken bool
}

func newStreamEmitter(w http.ResponseWriter, l logger.Logger) *streamEmitter {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	// A run outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})
	return &streamEmitter{w: w, rc: rc, logger: l}
}

func (e *streamEmitter) Emit(ctx context.Context, ev progress.Event) {
	if e.broken {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		e.logger.Error(ctx, "encoding event", logger.String("type", string(ev.Type)), logger.Error(err))
		return
	}
	if _, err := fmt.Fprintf(e.w, "data: %s\n\n", b); err != nil {
		e.broken = true
		e.logger.Warn(ctx, "client went away, run continues", logger.Error(err))
		return
	}
	if err := e.rc.Flush(); err != nil {
		e.broken = true
		e.logger.Warn(ctx, "flush failed", logger.Error(WrapKind("api.stream", ErrStreaming, err)))
	}
}

// HandleFetchToday handles GET /api/fetch/today.
func (s *Server) HandleFetchToday(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, s.svc.Today())
}

// HandleFetchRange handles POST /api/fetch/range. The range is validated
// before anything is streamed.
func (s *Server) HandleFetchRange(w http.ResponseWriter, r *http.Request) {
	const op = "api.fetch_range"
	var req rangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	dates, err := schedule.Range(req.FromDate, req.ToDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	s.stream(w, r, dates)
}

// stream runs dates to completion even if the subscriber disconnects; the
// per-date store guard makes the finished work visible to the next run.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, dates []string) {
	ctx := context.WithoutCancel(r.Context())
	emit := newStreamEmitter(w, s.logger)
	sum := s.svc.Run(ctx, dates, emit)
	s.logger.Info(ctx, "stream finished",
		logger.String("run_id", sum.RunID),
		logger.Int("dates", len(dates)),
		logger.Bool("client_gone", emit.broken),
	)
}
