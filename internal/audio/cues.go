package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/verte-zerg/inkblade/internal/model"
)

// masterGain scales every cue.
const masterGain = 0.3

// victoryNotes is a C major arpeggio.
var victoryNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// Tones returns the oscillators that make up a cue.
func Tones(c model.Cue) []Tone {
	switch c {
	case model.CueType:
		return []Tone{{Wave: Sine, FromHz: 800, ToHz: 1200, FromGain: 0.1, ToGain: 0.01, Duration: 50 * time.Millisecond}}
	case model.CueAttack:
		return []Tone{{Wave: Sawtooth, FromHz: 150, ToHz: 0.01, FromGain: 0.3, ToGain: 0.01, Duration: 300 * time.Millisecond}}
	case model.CueDamage:
		return []Tone{{Wave: Square, FromHz: 100, ToHz: 50, FromGain: 0.3, ToGain: 0.01, Duration: 200 * time.Millisecond}}
	case model.CueVictory:
		tones := make([]Tone, len(victoryNotes))
		for i, hz := range victoryNotes {
			tones[i] = Tone{
				Wave:      Triangle,
				FromHz:    hz,
				ToHz:      hz,
				FromGain:  0.2,
				ToGain:    0.01,
				Duration:  500 * time.Millisecond,
				StartedAt: time.Duration(i) * 100 * time.Millisecond,
			}
		}
		return tones
	}
	return nil
}

// CueStreamer mixes a cue's tones at master gain. It returns nil for an
// unknown cue.
func CueStreamer(c model.Cue, sr beep.SampleRate) beep.Streamer {
	tones := Tones(c)
	if len(tones) == 0 {
		return nil
	}
	streamers := make([]beep.Streamer, len(tones))
	for i, t := range tones {
		streamers[i] = t.Streamer(sr)
	}
	return gain(beep.Mix(streamers...), masterGain)
}

type gainStreamer struct {
	s beep.Streamer
	g float64
}

func gain(s beep.Streamer, g float64) beep.Streamer {
	return &gainStreamer{s: s, g: g}
}

func (gs *gainStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := gs.s.Stream(samples)
	for i := range samples[:n] {
		samples[i][0] *= gs.g
		samples[i][1] *= gs.g
	}
	return n, ok
}

func (gs *gainStreamer) Err() error {
	return gs.s.Err()
}
