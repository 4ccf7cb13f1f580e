package schedule

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewTrigger(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{
			name:    "valid spec - daily at 2am",
			spec:    "0 2 * * *",
			wantErr: false,
		},
		{
			name:    "valid spec - every minute",
			spec:    "* * * * *",
			wantErr: false,
		},
		{
			name:    "valid spec - every descriptor",
			spec:    "@every 30s",
			wantErr: false,
		},
		{
			name:    "valid spec - hourly descriptor",
			spec:    "@hourly",
			wantErr: false,
		},
		{
			name:    "invalid spec - empty",
			spec:    "",
			wantErr: true,
		},
		{
			name:    "invalid spec - wrong format",
			spec:    "not a cron spec",
			wantErr: true,
		},
		{
			name:    "invalid spec - too few fields",
			spec:    "0 2 *",
			wantErr: true,
		},
		{
			name:    "invalid spec - invalid value",
			spec:    "60 2 * * *",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trigger, err := NewTrigger(tt.spec, func() error { return nil }, testLogger())

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidSpec)
				assert.Nil(t, trigger)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, trigger)
				assert.Equal(t, tt.spec, trigger.spec)
			}
		})
	}
}

func TestTrigger_NextRun(t *testing.T) {
	trigger, err := NewTrigger("0 2 * * *", func() error { return nil }, testLogger())
	require.NoError(t, err)

	nextRun := trigger.NextRun()
	assert.True(t, nextRun.After(time.Now()), "next run should be in the future")
	assert.Equal(t, 2, nextRun.Hour(), "next run should be at 2am")
	assert.Equal(t, 0, nextRun.Minute(), "next run should be at minute 0")
}

func TestTrigger_Start_CancellationStopsLoop(t *testing.T) {
	var runs atomic.Int32
	trigger, err := NewTrigger("* * * * *", func() error {
		runs.Add(1)
		return nil
	}, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	trigger.Start(ctx)

	// Give goroutine time to start
	time.Sleep(10 * time.Millisecond)
	cancel()
	time.Sleep(10 * time.Millisecond)

	// Cancelled before the first scheduled run
	assert.Equal(t, int32(0), runs.Load())
}

func TestTrigger_ExecuteRun(t *testing.T) {
	t.Run("runs the job", func(t *testing.T) {
		var runs atomic.Int32
		trigger, err := NewTrigger("@every 30s", func() error {
			runs.Add(1)
			return nil
		}, testLogger())
		require.NoError(t, err)

		trigger.executeRun()
		assert.Equal(t, int32(1), runs.Load())
	})

	t.Run("job errors are logged, not propagated", func(t *testing.T) {
		trigger, err := NewTrigger("@every 30s", func() error {
			return errors.New("push failed")
		}, testLogger())
		require.NoError(t, err)

		assert.NotPanics(t, func() { trigger.executeRun() })
	})
}
