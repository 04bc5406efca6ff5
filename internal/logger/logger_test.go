package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewHandler_Levels(t *testing.T) {
	testCases := []struct {
		env       string
		wantDebug bool
		wantJSON  bool
	}{
		{"", false, false},
		{"development", true, false},
		{"staging", false, false},
		{"production", false, true},
	}

	for _, tc := range testCases {
		t.Run("BRAIN_ENV="+tc.env, func(t *testing.T) {
			t.Setenv("BRAIN_ENV", tc.env)

			h := newHandler(io.Discard)
			assert.Equal(t, tc.wantDebug, h.Enabled(context.Background(), slog.LevelDebug))
			assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))

			_, isJSON := h.(*slog.JSONHandler)
			assert.Equal(t, tc.wantJSON, isJSON)
		})
	}
}
