package browser

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		perMinute float64
		burst     int
		daily     int64
		calls     int
		wantErr   bool
	}{
		{
			name:      "allows calls within budget",
			perMinute: 6000,
			burst:     10,
			daily:     100,
			calls:     3,
		},
		{
			name:      "rejects when daily budget spent",
			perMinute: 6000,
			burst:     10,
			daily:     2,
			calls:     3,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewPacer(tt.perMinute, tt.burst, tt.daily)

			var lastErr error
			for range tt.calls {
				lastErr = p.Wait(context.Background())
				if lastErr != nil {
					break
				}
			}

			if tt.wantErr {
				require.Error(t, lastErr)
				assert.ErrorIs(t, lastErr, ErrDailyBudgetExhausted)
			} else {
				require.NoError(t, lastErr)
			}
		})
	}
}

func TestPacer_Remaining(t *testing.T) {
	t.Parallel()

	p := NewPacer(6000, 10, 5)

	assert.Equal(t, int64(5), p.Remaining())

	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))

	assert.Equal(t, int64(2), p.DailyCount())
	assert.Equal(t, int64(3), p.Remaining())
}

func TestPacer_DailyReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	currentTime := now

	p := NewPacer(6000, 10, 100, WithPacerNowFunc(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return currentTime
	}))

	require.NoError(t, p.Wait(context.Background()))
	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(2), p.DailyCount())

	// Advance past the 24-hour window.
	mu.Lock()
	currentTime = now.Add(25 * time.Hour)
	mu.Unlock()

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(1), p.DailyCount())
}

func TestPacer_ContextCanceled(t *testing.T) {
	t.Parallel()

	// One fetch per 10 minutes, burst 1: the second Wait has to block.
	p := NewPacer(0.1, 1, 100)

	require.NoError(t, p.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pacer wait")
}
