package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Sawtooth
	Square
	Triangle
)

// Tone is a single oscillator with an exponential pitch sweep and an
// exponential gain ramp, both running over the tone's duration.
type Tone struct {
	Wave      Wave
	FromHz    float64
	ToHz      float64
	FromGain  float64
	ToGain    float64
	Duration  time.Duration
	StartedAt time.Duration
}

// toneStreamer renders a Tone sample by sample. It tracks phase rather than
// time so the sweep stays continuous.
type toneStreamer struct {
	tone  Tone
	sr    beep.SampleRate
	total int
	pos   int
	phase float64
}

// Streamer returns the tone, preceded by silence up to its start offset.
func (t Tone) Streamer(sr beep.SampleRate) beep.Streamer {
	ts := &toneStreamer{tone: t, sr: sr, total: sr.N(t.Duration)}
	if t.StartedAt <= 0 {
		return ts
	}
	return beep.Seq(beep.Silence(sr.N(t.StartedAt)), ts)
}

func (s *toneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.pos >= s.total {
			return i, true
		}
		frac := float64(s.pos) / float64(s.total)
		freq := expRamp(s.tone.FromHz, s.tone.ToHz, frac)
		gain := expRamp(s.tone.FromGain, s.tone.ToGain, frac)
		v := gain * oscillate(s.tone.Wave, s.phase)
		samples[i][0] = v
		samples[i][1] = v
		s.phase = math.Mod(s.phase+freq/float64(s.sr), 1)
		s.pos++
	}
	return len(samples), true
}

func (s *toneStreamer) Err() error {
	return nil
}

// expRamp moves from a to b geometrically; both must be positive.
func expRamp(a, b, frac float64) float64 {
	if a <= 0 || b <= 0 {
		return a + (b-a)*frac
	}
	return a * math.Pow(b/a, frac)
}

// oscillate evaluates a unit waveform at phase in [0,1).
func oscillate(w Wave, phase float64) float64 {
	switch w {
	case Sawtooth:
		return 2*phase - 1
	case Square:
		if phase < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		return 1 - 4*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}
