package timeutils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearBackoff(t *testing.T) {
	delays := LinearBackoff(500*time.Millisecond, 3)
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond,
		1000 * time.Millisecond,
		1500 * time.Millisecond,
	}, delays)
}

func TestRetry(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")

	tests := []struct {
		name          string
		results       []error
		expectedCalls int
		expectedErr   error
	}{
		{
			name:          "first attempt succeeds",
			results:       []error{nil},
			expectedCalls: 1,
			expectedErr:   nil,
		},
		{
			name:          "transient then success",
			results:       []error{errTransient, nil},
			expectedCalls: 2,
			expectedErr:   nil,
		},
		{
			name:          "fatal stops immediately",
			results:       []error{errFatal},
			expectedCalls: 1,
			expectedErr:   errFatal,
		},
		{
			name:          "transient every attempt",
			results:       []error{errTransient, errTransient, errTransient},
			expectedCalls: 3,
			expectedErr:   ErrAllAttemptsFailed,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			calls := 0
			_, err := Retry(
				context.Background(),
				LinearBackoff(time.Millisecond, 3),
				func(ctx context.Context) (int, error) {
					err := test.results[calls]
					calls++
					return calls, err
				},
				func(_ int, err error) bool {
					return errors.Is(err, errTransient)
				},
			)
			assert.Equal(t, test.expectedCalls, calls)
			if test.expectedErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, test.expectedErr)
			}
		})
	}
}

func TestRetryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(
		ctx,
		LinearBackoff(time.Millisecond, 3),
		func(ctx context.Context) (int, error) {
			calls++
			return 0, nil
		},
		func(_ int, err error) bool { return true },
	)
	require.Error(t, err)
	assert.Zero(t, calls)
}
