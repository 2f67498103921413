package playback

import (
	"context"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/setlist/internal/sequence"
)

// drainStates collects the state changes buffered so far.
func drainStates(sub *Subscription) []State {
	var got []State
	for {
		select {
		case e := <-sub.StateChanged:
			got = append(got, e.Current)
		default:
			return got
		}
	}
}

func TestSurface_StatesWithAutoplay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		media := NewMockMedia()
		release := media.HoldStart()
		s := NewSurface(media, nil)
		defer s.Close()
		sub := s.Subscribe()

		_, err := s.Load(context.Background(), playable("a-1", "A"), play(0))
		require.NoError(t, err)
		synctest.Wait()
		assert.Equal(t, StateLoading, s.State())
		assert.True(t, s.State().IsActive(), "a loading song counts as active")

		release()
		synctest.Wait()
		s.Pause()
		s.Stop()

		assert.Equal(t, []State{StateLoading, StatePlaying, StatePaused, StateStopped}, drainStates(sub))
		assert.False(t, s.State().IsActive())
	})
}

func TestSurface_StatesWithoutAutoplay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		s := NewSurface(NewMockMedia(), nil)
		defer s.Close()
		sub := s.Subscribe()

		_, err := s.Load(context.Background(), playable("a-1", "A"), sequence.Transition{Index: 0, Changed: true})
		require.NoError(t, err)
		synctest.Wait()
		assert.True(t, s.State().IsActive(), "a paused song keeps its handle")

		s.Resume(context.Background())
		synctest.Wait()

		assert.Equal(t, []State{StatePaused, StateLoading, StatePlaying}, drainStates(sub))
	})
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Loading", StateLoading.String())
	assert.Equal(t, "Unknown", State(42).String())
}
