// Package notify carries short user-facing outcome messages ("Plan saved",
// "Failed to delete week") from the services to whoever displays them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notifier is the sink every component reports outcomes to.
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Warning(msg string)
	Info(msg string)
}

// Notification is one queued message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DefaultDuration is how long a message of the given level stays visible.
func DefaultDuration(l Level) time.Duration {
	if l == LevelError || l == LevelWarning {
		return 6 * time.Second
	}
	return 4 * time.Second
}

// Queue keeps notifications until they expire or are drained.
type Queue struct {
	mu    sync.Mutex
	items []Notification
	ttl   func(Level) time.Duration
	now   func() time.Time
}

type QueueOption func(*Queue)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) QueueOption {
	return func(q *Queue) { q.now = now }
}

// WithDurations overrides DefaultDuration.
func WithDurations(ttl func(Level) time.Duration) QueueOption {
	return func(q *Queue) { q.ttl = ttl }
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{ttl: DefaultDuration, now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Success(msg string) { q.Push(LevelSuccess, msg) }
func (q *Queue) Error(msg string)   { q.Push(LevelError, msg) }
func (q *Queue) Warning(msg string) { q.Push(LevelWarning, msg) }
func (q *Queue) Info(msg string)    { q.Push(LevelInfo, msg) }

// Push enqueues a message and returns its id.
func (q *Queue) Push(level Level, msg string) string {
	now := q.now()
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl(level)),
	}
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
	return n.ID
}

// Pending returns the messages that have not expired, oldest first.
func (q *Queue) Pending() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire()
	return append([]Notification(nil), q.items...)
}

// Drain returns the live messages and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.expire()
	out := q.items
	q.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Dismiss removes one message before it expires.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// expire must be called with mu held.
func (q *Queue) expire() {
	now := q.now()
	live := q.items[:0]
	for _, n := range q.items {
		if now.Before(n.ExpiresAt) {
			live = append(live, n)
		}
	}
	q.items = live
}

// LogNotifier writes every message to a zap logger.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("component", "notify"))}
}

func (l *LogNotifier) Success(msg string) { l.log.Info(msg, zap.String("level", string(LevelSuccess))) }
func (l *LogNotifier) Error(msg string)   { l.log.Error(msg) }
func (l *LogNotifier) Warning(msg string) { l.log.Warn(msg) }
func (l *LogNotifier) Info(msg string)    { l.log.Info(msg) }

type multi []Notifier

// Multi fans every message out to all of ns.
func Multi(ns ...Notifier) Notifier {
	return multi(ns)
}

func (m multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

func (m multi) Warning(msg string) {
	for _, n := range m {
		n.Warning(msg)
	}
}

func (m multi) Info(msg string) {
	for _, n := range m {
		n.Info(msg)
	}
}

// Discard drops every message.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}
func (discard) Warning(string) {}
func (discard) Info(string)    {}
