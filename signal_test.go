package sel

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalCoalesces(t *testing.T) {
	s := newSignal()
	defer s.release()
	s.Notify()
	s.Notify()
	s.Notify()

	notified, err := s.wait(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, notified)

	notified, err = s.wait(context.Background(), 5*time.Millisecond)
	require.NoError(t, err)
	require.False(t, notified, "three notifies wake once")
}

func TestSignalTimerReuse(t *testing.T) {
	s := newSignal()
	defer s.release()
	for i := 0; i < 3; i++ {
		notified, err := s.wait(context.Background(), time.Millisecond)
		require.NoError(t, err)
		require.False(t, notified)
	}
	s.Notify()
	notified, err := s.wait(context.Background(), time.Second)
	require.NoError(t, err)
	require.True(t, notified)
}

func TestSignalWaitCancelled(t *testing.T) {
	s := newSignal()
	defer s.release()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.wait(ctx, time.Second)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsNilChannel(t *testing.T) {
	var typedNil *Chan[int]
	require.True(t, isNilChannel(nil))
	require.True(t, isNilChannel(typedNil))
	require.False(t, isNilChannel(NewChan[int](1)))
}

func TestNewAppliesOptions(t *testing.T) {
	s := New("cfg",
		WithWaitTimeout(-1),
		WithSendGrace(-1),
		WithOverdue(0, nil),
		WithLogger(nil),
	)
	require.Equal(t, DefaultWaitTimeout, s.cfg.WaitTimeout)
	require.Zero(t, s.cfg.SendGrace)
	require.Zero(t, s.cfg.OverdueAfter)
	require.NotNil(t, s.cfg.Logger)
	require.Equal(t, "cfg", s.Name())
}
