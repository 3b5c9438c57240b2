package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	flushInterval = 5 * time.Second
	flushSize     = 50
)

// PGHandler is an slog.Handler that persists ERROR records into the
// system_logs table. Records are buffered and written in batches so a
// logging burst cannot stall request handling.
type PGHandler struct {
	db *gorm.DB

	mu      sync.Mutex
	pending []models.SystemLog

	ticker  *time.Ticker
	done    chan struct{}
	stopped chan struct{}
}

func NewPGHandler(db *gorm.DB) *PGHandler {
	h := &PGHandler{
		db:      db,
		pending: make([]models.SystemLog, 0, flushSize),
		ticker:  time.NewTicker(flushInterval),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *PGHandler) run() {
	defer close(h.stopped)
	for {
		select {
		case <-h.ticker.C:
			h.flush()
		case <-h.done:
			h.flush()
			return
		}
	}
}

func (h *PGHandler) flush() {
	h.mu.Lock()
	if len(h.pending) == 0 {
		h.mu.Unlock()
		return
	}
	batch := h.pending
	h.pending = make([]models.SystemLog, 0, flushSize)
	h.mu.Unlock()

	if err := h.db.CreateInBatches(batch, flushSize).Error; err != nil {
		slog.Info("system log flush failed", "error", err, "dropped", len(batch))
	}
}

// Stop halts the background writer and waits for the final flush.
func (h *PGHandler) Stop() {
	h.ticker.Stop()
	close(h.done)
	<-h.stopped
}

func (h *PGHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *PGHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	absorb := func(a slog.Attr) {
		switch a.Key {
		case "trace_id":
			entry.TraceID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		case "latency_ms":
			if v, ok := a.Value.Any().(int64); ok {
				entry.LatencyMs = int(v)
			}
		default:
			extra[a.Key] = a.Value.Any()
		}
	}

	record.Attrs(func(a slog.Attr) bool {
		absorb(a)
		return true
	})

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.mu.Lock()
	h.pending = append(h.pending, entry)
	full := len(h.pending) >= flushSize
	h.mu.Unlock()

	if full {
		go h.flush()
	}
	return nil
}

func (h *PGHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedBufferHandler{parent: h, preset: attrs}
}

func (h *PGHandler) WithGroup(string) slog.Handler {
	return h
}

// sharedBufferHandler routes records through the parent PGHandler's buffer
// while carrying its own preset attributes.
type sharedBufferHandler struct {
	parent *PGHandler
	preset []slog.Attr
}

func (s *sharedBufferHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return s.parent.Enabled(ctx, level)
}

func (s *sharedBufferHandler) Handle(ctx context.Context, record slog.Record) error {
	record = record.Clone()
	record.AddAttrs(s.preset...)
	return s.parent.Handle(ctx, record)
}

func (s *sharedBufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sharedBufferHandler{
		parent: s.parent,
		preset: append(append([]slog.Attr{}, s.preset...), attrs...),
	}
}

func (s *sharedBufferHandler) WithGroup(string) slog.Handler {
	return s
}
