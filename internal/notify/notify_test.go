package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestQueueExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	q := NewQueue(WithClock(clock.now))

	q.Success("saved")
	q.Error("failed")

	clock.advance(5 * time.Second)
	pending := q.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, LevelError, pending[0].Level)

	clock.advance(time.Second)
	assert.Empty(t, q.Pending())
}

func TestQueueDrainAndDismiss(t *testing.T) {
	q := NewQueue()
	id := q.Push(LevelInfo, "one")
	q.Warning("two")

	assert.True(t, q.Dismiss(id))
	assert.False(t, q.Dismiss(id))

	drained := q.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, "two", drained[0].Message)
	assert.Empty(t, q.Drain())
}

func TestDefaultDuration(t *testing.T) {
	assert.Equal(t, 6*time.Second, DefaultDuration(LevelError))
	assert.Equal(t, 6*time.Second, DefaultDuration(LevelWarning))
	assert.Equal(t, 4*time.Second, DefaultDuration(LevelSuccess))
	assert.Equal(t, 4*time.Second, DefaultDuration(LevelInfo))
}

func TestMultiFansOut(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	q := NewQueue()
	n := Multi(q, NewLogNotifier(zap.New(core)), Discard)

	n.Error("boom")
	n.Success("ok")

	assert.Len(t, q.Pending(), 2)
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "boom", logs.All()[0].Message)
}
