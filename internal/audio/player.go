// Package audio plays the synthesized combat cues through the system speaker.
// Audio is optional: when no device is available the player stays silent.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/verte-zerg/inkblade/internal/model"
)

const (
	sampleRate = beep.SampleRate(44100)
	queueSize  = 32
)

// Player is a session cue sink. Cue never blocks; cues arriving faster
// than they can be mixed are dropped. A closed player can be opened again.
type Player struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	queue   chan model.Cue
	done    chan struct{}
	wg      sync.WaitGroup
	started bool

	openDevice  func(beep.Streamer) error
	closeDevice func()
}

// New returns an uninitialized, silent player.
func New() *Player {
	return &Player{
		mixer:       &beep.Mixer{},
		queue:       make(chan model.Cue, queueSize),
		openDevice:  openSpeaker,
		closeDevice: speaker.Close,
	}
}

func openSpeaker(s beep.Streamer) error {
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}
	speaker.Play(s)
	return nil
}

// Init opens the speaker. Calling it twice is a no-op.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}
	if err := p.openDevice(p.mixer); err != nil {
		return err
	}
	p.started = true
	p.done = make(chan struct{})
	p.wg.Add(1)
	go p.loop(p.done)
	return nil
}

// Cue queues a sound unless muted or the speaker is not open.
func (p *Player) Cue(c model.Cue, muted bool) {
	if muted {
		return
	}
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return
	}
	select {
	case p.queue <- c:
	default:
	}
}

func (p *Player) loop(done <-chan struct{}) {
	defer p.wg.Done()
	for {
		select {
		case <-done:
			return
		case c := <-p.queue:
			s := CueStreamer(c, sampleRate)
			if s == nil {
				continue
			}
			speaker.Lock()
			p.mixer.Add(s)
			speaker.Unlock()
		}
	}
}

// Close stops playback. It is safe to call more than once and on a player
// that never started.
func (p *Player) Close() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	done := p.done
	p.mu.Unlock()

	close(done)
	p.wg.Wait()
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.closeDevice()
}
