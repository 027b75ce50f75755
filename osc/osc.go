// package osc provides wavetable oscillators.
package osc

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/interp"
)

// Oscillator plays a Table at a given frequency. It reads the table with a
// fractional phase and linearly interpolates between neighbouring points,
// which matters because the tables are far coarser than the steps needed for
// most pitches.
//
// An Oscillator is not safe for concurrent use, but many Oscillators can
// share a Table.
type Oscillator struct {
	tab        Table
	samplerate int
	freq       float64
	// phase is always in [0, len(tab)).
	phase float64
	step  float64
}

var _ synth.Source = &Oscillator{}

// New returns an Oscillator reading from tab. It is silent until
// SetFrequency is called; strictly it outputs tab.At(0) forever.
func New(samplerate int, tab Table) (*Oscillator, error) {
	if samplerate <= 0 {
		return nil, errors.Wrapf(synth.ErrInvalidConfig, "sample rate %d", samplerate)
	}
	if tab.Len() < 2 {
		return nil, errors.Wrapf(synth.ErrInvalidConfig, "table size %d", tab.Len())
	}
	return &Oscillator{tab: tab, samplerate: samplerate}, nil
}

// SetFrequency changes the pitch. The phase is left alone so the waveform
// carries on from where it was. Frequencies at or above half the sample rate
// are allowed, they will just alias.
func (o *Oscillator) SetFrequency(freq float64) error {
	if !(freq >= 0) || math.IsInf(freq, 0) {
		return errors.Wrapf(synth.ErrInvalidConfig, "frequency %v", freq)
	}
	// freq is in tables per second and we need table points per output
	// sample.
	step := freq * float64(o.tab.Len()) / float64(o.samplerate)
	if math.IsInf(step, 0) {
		return errors.Wrapf(synth.ErrInvalidConfig, "frequency %v overflows the phase increment", freq)
	}
	o.freq, o.step = freq, step
	return nil
}

// Sample returns the sample at the current phase and advances.
func (o *Oscillator) Sample() float32 {
	n := o.tab.Len()
	j := int(o.phase)
	k := (j + 1) % n
	c := float32(o.phase - float64(j))
	out := interp.L(o.tab.tab[j], o.tab.tab[k], c)

	o.phase = math.Mod(o.phase+o.step, float64(n))
	return out
}

// Next never runs out.
func (o *Oscillator) Next() (float32, bool) { return o.Sample(), true }

func (o *Oscillator) SampleRate() int { return o.samplerate }
func (o *Oscillator) Channels() int   { return 1 }

func (o *Oscillator) String() string {
	return fmt.Sprintf("osc.Oscillator(%v, %vHz)", o.tab, o.freq)
}

// Phase returns the current position in the table.
func (o *Oscillator) Phase() float64 { return o.phase }

// Increment returns how far the phase moves per sample.
func (o *Oscillator) Increment() float64 { return o.step }

// Frequency returns the last frequency set.
func (o *Oscillator) Frequency() float64 { return o.freq }

// MIDIFreq turns a (possibly fractional) MIDI note number into a frequency
// in Hz, with A4 (69) at 440.
func MIDIFreq(note float64) float64 {
	return math.Pow(2.0, (note-69)/12) * 440
}
