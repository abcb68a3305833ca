package audio

import (
	"testing"

	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.Play(SoundMatch)
	sm.OnMatch(match3.MatchEvent{ObstaclesCleared: true})
	sm.OnSessionEvent(session.Event{Kind: session.EventGameOver, State: session.State{Exploding: true}})
	sm.SetVolume(0.5)
	sm.Cleanup()
}

func TestSoundManagerVolumeClamped(t *testing.T) {
	sm := NewSoundManager()

	sm.SetVolume(3)
	if sm.volume != 1 {
		t.Errorf("volume = %f, want 1", sm.volume)
	}
	sm.SetVolume(-1)
	if sm.volume != 0 {
		t.Errorf("volume = %f, want 0", sm.volume)
	}
}
