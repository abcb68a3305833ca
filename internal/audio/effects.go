// Package audio synthesizes the PhyZzle sound effects with beep and plays
// them in reaction to match and session events.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// SoundType identifies a sound effect.
type SoundType int

const (
	SoundMatch SoundType = iota
	SoundZap
	SoundCorrect
	SoundWrong
	SoundExplosion
)

func (s SoundType) String() string {
	switch s {
	case SoundMatch:
		return "match"
	case SoundZap:
		return "zap"
	case SoundCorrect:
		return "correct"
	case SoundWrong:
		return "wrong"
	case SoundExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// oscillator generates raw audio waves, sweeping exponentially from freq to
// endFreq over its duration.
type oscillator struct {
	freq     float64
	endFreq  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a fixed-frequency oscillator.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, freq, duration, wave, rate)
}

// NewSweep creates an oscillator gliding from freq to endFreq.
func NewSweep(freq, endFreq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		endFreq:  endFreq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) current() float64 {
	if o.freq == o.endFreq || o.freq <= 0 || o.endFreq <= 0 || o.duration == 0 {
		return o.freq
	}
	t := float64(o.position) / float64(o.duration)
	return o.freq * math.Pow(o.endFreq/o.freq, t)
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.current() / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope scales a stream by gain(position).
type envelope struct {
	streamer beep.Streamer
	position int
	total    int
	gain     func(pos, total int) float64
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := range n {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := e.gain(e.position, e.total)
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// NewEnvelope applies a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	att := rate.N(attack)
	rel := rate.N(release)
	return &envelope{
		streamer: s,
		total:    rate.N(duration),
		gain: func(pos, total int) float64 {
			switch {
			case att > 0 && pos < att:
				return float64(pos) / float64(att)
			case rel > 0 && pos >= total-rel:
				return max(0, float64(total-pos)/float64(rel))
			}
			return 1
		},
	}
}

// NewDecay fades exponentially from 1 to floor over duration.
func NewDecay(s beep.Streamer, duration time.Duration, floor float64, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		total:    rate.N(duration),
		gain: func(pos, total int) float64 {
			return math.Pow(floor, float64(pos)/float64(total))
		},
	}
}

// NewFade fades linearly from 1 to 0 over duration.
func NewFade(s beep.Streamer, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		total:    rate.N(duration),
		gain: func(pos, total int) float64 {
			return 1 - float64(pos)/float64(total)
		},
	}
}

// lowpass is a one-pole filter whose cutoff sweeps exponentially.
type lowpass struct {
	streamer beep.Streamer
	from, to float64
	position int
	total    int
	rate     beep.SampleRate
	last     [2]float64
}

// NewLowpass filters s with a cutoff gliding from one frequency to another.
func NewLowpass(s beep.Streamer, from, to float64, duration time.Duration, rate beep.SampleRate) beep.Streamer {
	return &lowpass{streamer: s, from: from, to: to, total: rate.N(duration), rate: rate}
}

func (l *lowpass) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = l.streamer.Stream(samples)
	for i := range n {
		t := min(1, float64(l.position)/float64(max(1, l.total)))
		cutoff := l.from * math.Pow(l.to/l.from, t)
		dt := 1 / float64(l.rate)
		rc := 1 / (2 * math.Pi * cutoff)
		alpha := dt / (rc + dt)
		for ch := range 2 {
			l.last[ch] += alpha * (samples[i][ch] - l.last[ch])
			samples[i][ch] = l.last[ch]
		}
		l.position++
	}
	return n, ok
}

func (l *lowpass) Err() error { return l.streamer.Err() }

// Helper to create a volume effect safely
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// tone is a plain oscillator with an exponential fade, the basic chime voice.
func tone(freq float64, wave WaveType, d time.Duration, vol float64, rate beep.SampleRate) beep.Streamer {
	return newVolume(NewDecay(NewOscillator(freq, d, wave, rate), d, 0.1, rate), vol)
}

// after delays s by d.
func after(d time.Duration, s beep.Streamer, rate beep.SampleRate) beep.Streamer {
	return beep.Seq(beep.Silence(rate.N(d)), s)
}

// CreateMatchSound plays A4 then A5 50ms later.
func CreateMatchSound(rate beep.SampleRate) beep.Streamer {
	return beep.Mix(
		tone(440, WaveSine, 100*time.Millisecond, 0.05, rate),
		after(50*time.Millisecond, tone(880, WaveSine, 100*time.Millisecond, 0.05, rate), rate),
	)
}

// CreateZapSound sweeps a saw wave from 100 Hz to 1 kHz.
func CreateZapSound(rate beep.SampleRate) beep.Streamer {
	const d = 500 * time.Millisecond
	return newVolume(NewFade(NewSweep(100, 1000, d, WaveSaw, rate), d, rate), 0.1)
}

// CreateCorrectSound plays a rising C major arpeggio.
func CreateCorrectSound(rate beep.SampleRate) beep.Streamer {
	return beep.Mix(
		tone(523.25, WaveSine, 200*time.Millisecond, 0.1, rate),
		after(100*time.Millisecond, tone(659.25, WaveSine, 200*time.Millisecond, 0.1, rate), rate),
		after(200*time.Millisecond, tone(783.99, WaveSine, 400*time.Millisecond, 0.1, rate), rate),
	)
}

// CreateWrongSound plays two falling square buzzes.
func CreateWrongSound(rate beep.SampleRate) beep.Streamer {
	return beep.Mix(
		tone(150, WaveSquare, 300*time.Millisecond, 0.1, rate),
		after(100*time.Millisecond, tone(100, WaveSquare, 500*time.Millisecond, 0.1, rate), rate),
	)
}

// CreateExplosionSound is a low-passed noise burst.
func CreateExplosionSound(rate beep.SampleRate) beep.Streamer {
	const d = 1500 * time.Millisecond
	noise := NewOscillator(0, d, WaveNoise, rate)
	return newVolume(NewDecay(NewLowpass(noise, 1000, 40, d, rate), d, 0.03, rate), 0.3)
}

// GetSoundEffect returns the streamer for the given sound, scaled by volume.
func GetSoundEffect(sound SoundType, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch sound {
	case SoundMatch:
		s = CreateMatchSound(rate)
	case SoundZap:
		s = CreateZapSound(rate)
	case SoundCorrect:
		s = CreateCorrectSound(rate)
	case SoundWrong:
		s = CreateWrongSound(rate)
	case SoundExplosion:
		s = CreateExplosionSound(rate)
	default:
		return nil
	}
	if volume == 1 {
		return s
	}
	return newVolume(s, volume)
}
