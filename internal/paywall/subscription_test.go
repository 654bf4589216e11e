package paywall

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHost struct {
	*LocalHost
	removals int
}

func (h *countingHost) OnWindowClosed(fn func(WindowID)) func() {
	remove := h.LocalHost.OnWindowClosed(fn)
	return func() {
		h.removals++
		remove()
	}
}

func closed(s *Subscription) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

func TestSubscription_FiresOnTargetOnly(t *testing.T) {
	host := &countingHost{LocalHost: NewLocalHost()}
	other, _ := host.OpenModal(context.Background(), "u", Geometry{})
	mine, _ := host.OpenModal(context.Background(), "u", Geometry{})

	s := Watch(host)
	s.Target(mine)

	require.NoError(t, host.Close(other))
	assert.False(t, closed(s))
	assert.Equal(t, 1, host.ListenerCount())

	require.NoError(t, host.Close(mine))
	assert.True(t, closed(s))
	assert.Zero(t, host.ListenerCount())

	s.Cancel()
	assert.Equal(t, 1, host.removals)
}

func TestSubscription_ClosureBeforeTarget(t *testing.T) {
	host := NewLocalHost()
	s := Watch(host)

	id, _ := host.OpenModal(context.Background(), "u", Geometry{})
	require.NoError(t, host.Close(id))
	assert.False(t, closed(s))

	s.Target(id)
	assert.True(t, closed(s))
	assert.Zero(t, host.ListenerCount())
}

func TestSubscription_CancelRemovesOnce(t *testing.T) {
	host := &countingHost{LocalHost: NewLocalHost()}
	id, _ := host.OpenModal(context.Background(), "u", Geometry{})

	s := Watch(host)
	s.Target(id)
	s.Cancel()
	s.Cancel()
	assert.Equal(t, 1, host.removals)
	assert.Zero(t, host.ListenerCount())

	require.NoError(t, host.Close(id))
	assert.False(t, closed(s))
}

func TestLocalHost_CloseUnknownWindow(t *testing.T) {
	host := NewLocalHost()
	require.Error(t, host.Close(42))
}

func TestLocalHost_OnOpen(t *testing.T) {
	host := NewLocalHost()
	var got []Window
	host.OnOpen = func(w Window) { got = append(got, w) }

	g := Geometry{Width: 1, Height: 2, Left: 3, Top: 4}
	id, err := host.OpenModal(context.Background(), "https://pay", g)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, Window{ID: id, URL: "https://pay", Geometry: g}, got[0])
	assert.Len(t, host.Windows(), 1)
}

func TestLocalHost_OpenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocalHost().OpenModal(ctx, "u", Geometry{})
	require.ErrorIs(t, err, context.Canceled)
}
