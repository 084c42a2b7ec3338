package game

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// PulseKind distinguishes the feedback blips.
type PulseKind int

const (
	PulseSector  PulseKind = iota // drag entered a new sector
	PulseMode                     // control mode toggled
	PulseConfirm                  // command confirmed
)

// Pulser plays short feedback pulses. Calls are fire-and-forget: failures are
// swallowed, and no caller ever waits on playback.
type Pulser interface {
	Pulse(kind PulseKind)
}

// NopPulser is the headless Pulser.
type NopPulser struct{}

func (NopPulser) Pulse(PulseKind) {}

const pulseSampleRate = beep.SampleRate(44100)

// pulseFreqs maps each kind to its blip pitch in Hz.
var pulseFreqs = [...]float64{
	PulseSector:  880,
	PulseMode:    660,
	PulseConfirm: 990,
}

// BeepPulser renders pulses as short sine blips on the speaker.
type BeepPulser struct {
	ready bool
}

// NewBeepPulser initialises the speaker. If the audio device is unavailable
// the pulser silently degrades to a no-op.
func NewBeepPulser() *BeepPulser {
	err := speaker.Init(pulseSampleRate, pulseSampleRate.N(20*time.Millisecond))
	return &BeepPulser{ready: err == nil}
}

func (p *BeepPulser) Pulse(kind PulseKind) {
	if !p.ready || int(kind) >= len(pulseFreqs) {
		return
	}
	speaker.Play(newBlip(pulseFreqs[kind], 45*time.Millisecond))
}

// blip is a sine oscillator with a linear fade-out, just long enough to read
// as a tactile tick.
type blip struct {
	freq     float64
	phase    float64
	total    int
	position int
}

func newBlip(freq float64, d time.Duration) beep.Streamer {
	return &blip{freq: freq, total: pulseSampleRate.N(d)}
}

func (b *blip) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.position >= b.total {
			return i, false
		}
		fade := 1.0 - float64(b.position)/float64(b.total)
		v := math.Sin(2*math.Pi*b.phase) * 0.25 * fade
		samples[i][0] = v
		samples[i][1] = v
		b.phase += b.freq / float64(pulseSampleRate)
		b.phase -= math.Floor(b.phase)
		b.position++
	}
	return len(samples), true
}

func (b *blip) Err() error { return nil }
