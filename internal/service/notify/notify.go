// Package notify delivers user-facing notifications about asset writes and
// scheduled reports.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/assetvista/pkg/clients/webhook"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is one toast-style message.
type Notification struct {
	Level   Level     `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (n Notification) stamped() Notification {
	if n.At.IsZero() {
		n.At = time.Now().UTC()
	}
	return n
}

// Notifier delivers notifications. Delivery failures are the notifier's
// concern and never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Fanout delivers to every notifier in order. Every target sees the same
// timestamp.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, n Notification) {
	n = n.stamped()
	for _, target := range f {
		target.Notify(ctx, n)
	}
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	fields := []zap.Field{zap.String("title", n.Title), zap.String("message", n.Message)}
	if n.Level == LevelError {
		l.logger.Warn("notification", fields...)
		return
	}
	l.logger.Info("notification", fields...)
}

// WebhookNotifier forwards notifications to an HTTP endpoint.
type WebhookNotifier struct {
	client webhook.Client
	logger *zap.Logger
}

// NewWebhookNotifier builds a WebhookNotifier.
func NewWebhookNotifier(client webhook.Client, logger *zap.Logger) *WebhookNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookNotifier{client: client, logger: logger}
}

// Notify implements Notifier.
func (w *WebhookNotifier) Notify(ctx context.Context, n Notification) {
	err := w.client.Post(ctx, webhook.Event{Level: string(n.Level), Title: n.Title, Message: n.Message})
	if err != nil {
		w.logger.Error("failed to deliver notification", zap.String("title", n.Title), zap.Error(err))
	}
}

// Recorder keeps the most recent notifications for display.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

// NewRecorder keeps at most limit notifications.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 20
	}
	return &Recorder{limit: limit}
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = append(r.items, n.stamped())
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
}

// Recent returns the recorded notifications, newest first.
func (r *Recorder) Recent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	for i, n := range r.items {
		out[len(r.items)-1-i] = n
	}
	return out
}
