package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (s *countingSweeper) SweepOverdue(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return s.n, s.err
}

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := New("every tuesday", &countingSweeper{})
	assert.Error(t, err)

	_, err = New("@hourly", &countingSweeper{})
	assert.NoError(t, err)
}

func TestSweepNow(t *testing.T) {
	s, err := New("@hourly", &countingSweeper{n: 4})
	require.NoError(t, err)

	n, err := s.SweepNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	failing, err := New("@hourly", &countingSweeper{err: errors.New("db down")})
	require.NoError(t, err)
	_, err = failing.SweepNow(context.Background())
	assert.Error(t, err)
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	sweeper := &countingSweeper{}
	s, err := New("@every 1s", sweeper)
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
}
