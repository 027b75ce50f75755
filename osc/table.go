package osc

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
)

// Table holds exactly one cycle of a periodic waveform. It never changes
// after construction, so a single Table can back any number of Oscillators,
// in any number of goroutines.
type Table struct {
	tab []float32
}

// NewTable makes a Table from a copy of vals. At least two values are
// needed to interpolate between.
func NewTable(vals []float32) (Table, error) {
	if len(vals) < 2 {
		return Table{}, errors.Wrapf(synth.ErrInvalidConfig, "table needs at least 2 values, got %d", len(vals))
	}
	tab := make([]float32, len(vals))
	copy(tab, vals)
	return Table{tab: tab}, nil
}

// Len returns the number of points in the table.
func (t Table) Len() int { return len(t.tab) }

// At returns the i'th point.
func (t Table) At(i int) float32 { return t.tab[i] }

// Values returns a copy of the table's points.
func (t Table) Values() []float32 {
	out := make([]float32, len(t.tab))
	copy(out, t.tab)
	return out
}

func (t Table) String() string { return fmt.Sprintf("Table(%d)", len(t.tab)) }

// build fills a new table of size n with f.
func build(n int, f func(i int) float32) (Table, error) {
	if n < 2 {
		return Table{}, errors.Wrapf(synth.ErrInvalidConfig, "table size %d", n)
	}
	tab := make([]float32, n)
	for i := range tab {
		tab[i] = f(i)
	}
	return Table{tab: tab}, nil
}

// Sine returns a table holding one cycle of a sine wave, starting at 0.
func Sine(n int) (Table, error) {
	return build(n, func(i int) float32 {
		return float32(math.Sin(2 * math.Pi * float64(i) / float64(n)))
	})
}

// Square returns a naive square wave: -1 up to and including the midpoint,
// then +1. It is not band limited so it aliases badly at high frequencies.
func Square(n int) (Table, error) {
	return build(n, func(i int) float32 {
		if i > n/2 {
			return 1
		}
		return -1
	})
}

// Saw returns a rising ramp from -1 to just under 1.
func Saw(n int) (Table, error) {
	return build(n, func(i int) float32 {
		return -1 + 2*float32(i)/float32(n)
	})
}

const defaultTaps uint16 = 0xd008

// Noise returns a table of pseudo random values from a 16 bit
// linear-feedback shift register. The same n always gives the same table.
func Noise(n int) (Table, error) {
	state := uint16(0xffff)
	return build(n, func(int) float32 {
		fb := state & 1
		state >>= 1
		if fb == 1 {
			state ^= defaultTaps
		}
		return float32(state)/float32(1<<15) - 1
	})
}
