package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	_, err := m.GeneratePresignedDownloadURL(ctx, "exports/a.json", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, m.PutObject(ctx, "exports/a.json", "application/json", []byte(`{}`)))
	body, ok := m.Object("exports/a.json")
	require.True(t, ok)
	assert.Equal(t, `{}`, string(body))

	url, err := m.GeneratePresignedDownloadURL(ctx, "exports/a.json", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory:///exports/a.json?expires="), url)

	require.NoError(t, m.DeleteObject(ctx, "exports/a.json"))
	_, ok = m.Object("exports/a.json")
	assert.False(t, ok)
	assert.NoError(t, m.DeleteObject(ctx, "exports/a.json"), "deleting twice is fine")
}
