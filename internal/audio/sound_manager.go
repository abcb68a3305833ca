package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/phyzzle/internal/match3"
	"github.com/vovakirdan/phyzzle/internal/session"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// MatchCues returns the sounds for a resolved swap.
func MatchCues(ev match3.MatchEvent) []SoundType {
	if ev.ObstaclesCleared {
		return []SoundType{SoundMatch, SoundZap}
	}
	return []SoundType{SoundMatch}
}

// SessionCue returns the sound for a session event, if it has one.
func SessionCue(ev session.Event) (SoundType, bool) {
	switch ev.Kind {
	case session.EventQuizAnswered, session.EventWordAnswered:
		if ev.Correct {
			return SoundCorrect, true
		}
		return SoundWrong, true
	case session.EventGameOver:
		if ev.State.Exploding {
			return SoundExplosion, true
		}
	}
	return 0, false
}

// SoundManager plays effects for engine and session events. It implements
// match3.Listener and session.Listener and is silent until Initialize succeeds.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewSoundManager creates a new sound manager at full volume.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: 1,
	}
}

// SetVolume sets the master volume in [0, 1].
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.volume = min(1, max(0, v))
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// Note: beep doesn't provide a Close() method for speaker,
	// but clearing all streamers ensures no audio artifacts
	sm.initialized = false
}

// Play mixes a sound effect into the output.
func (sm *SoundManager) Play(sound SoundType) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.volume == 0 {
		return
	}

	s := GetSoundEffect(sound, sampleRate, sm.volume)
	if s == nil {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// OnMatch plays the match chime, plus the zap sweep when obstacles went.
func (sm *SoundManager) OnMatch(ev match3.MatchEvent) {
	for _, s := range MatchCues(ev) {
		sm.Play(s)
	}
}

// OnSessionEvent plays answer and meltdown sounds.
func (sm *SoundManager) OnSessionEvent(ev session.Event) {
	if s, ok := SessionCue(ev); ok {
		sm.Play(s)
	}
}

var (
	_ match3.Listener  = (*SoundManager)(nil)
	_ session.Listener = (*SoundManager)(nil)
)
