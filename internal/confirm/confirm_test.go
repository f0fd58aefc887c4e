package confirm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := Prompt{In: strings.NewReader(tt.input), Out: &out}
			ok, err := p.Confirm(context.Background(), Request{Message: "Delete plan?", ConfirmText: "Delete"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Delete? [y/N]")
		})
	}
}

func TestStatic(t *testing.T) {
	ok, err := Static(true).Confirm(context.Background(), Request{})
	require.NoError(t, err)
	assert.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Static(true).Confirm(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}
