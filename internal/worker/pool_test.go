package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReturnsValue(t *testing.T) {
	pool := New(2)

	value, err := pool.Submit(context.Background(), "ok", func() (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
}

func TestSubmitPropagatesError(t *testing.T) {
	pool := New(2)

	_, err := pool.Submit(context.Background(), "fails", func() (any, error) {
		return nil, fmt.Errorf("backend said no")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend said no")
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestSubmitRecoversPanics(t *testing.T) {
	pool := New(2)

	_, err := pool.Submit(context.Background(), "explodes", func() (any, error) {
		panic("unexpected nil")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explodes")
	assert.Contains(t, err.Error(), "unexpected nil")
}

func TestSubmitDeadlineBoundsBlockedCall(t *testing.T) {
	pool := New(2)
	block := make(chan struct{})
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := pool.Submit(ctx, "stuck", func() (any, error) {
		<-block
		return nil, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second, "caller must unblock at the deadline, not when the call finishes")
}

func TestSubmitCancellation(t *testing.T) {
	pool := New(1)
	block := make(chan struct{})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := pool.Submit(ctx, "cancelled", func() (any, error) {
		<-block
		return nil, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestSubmitEnforcesBound(t *testing.T) {
	pool := New(1)
	release := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_, _ = pool.Submit(context.Background(), "holder", func() (any, error) {
			close(started)
			<-release
			return nil, nil
		})
	}()
	<-started

	// The only slot is held, so a second submit times out waiting for one.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := pool.Submit(ctx, "queued", func() (any, error) { return nil, nil })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "waiting for a worker slot")

	close(release)
}

func TestSubmitReleasesSlotAfterAbandonedCallDrains(t *testing.T) {
	pool := New(1)
	release := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Submit(ctx, "abandoned", func() (any, error) {
		<-release
		return nil, nil
	})
	require.ErrorIs(t, err, ErrTimeout)

	// Let the abandoned call finish; its slot must come back.
	close(release)

	var ran atomic.Bool
	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()

	_, err = pool.Submit(ctx2, "next", func() (any, error) {
		ran.Store(true)
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestNewClampsSizeToOne(t *testing.T) {
	pool := New(0)

	value, err := pool.Submit(context.Background(), "ok", func() (any, error) {
		return "ran", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ran", value)
}
