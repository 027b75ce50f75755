// package env provides envelopes that shape the amplitude of a Source.
package env

import (
	"fmt"
	"time"

	"github.com/pfcm/synth"
)

type envState byte

const (
	active envState = iota
	exhausted
)

func (e envState) String() string {
	return []string{
		active:    "A",
		exhausted: "x",
	}[e]
}

// FadeOut wraps a Source, ramping its gain linearly from 1 down to 0 over a
// fixed duration and ending the stream once the duration is up. It also
// ends if the wrapped Source does.
type FadeOut struct {
	src   synth.Source
	dur   float64 // seconds
	n     int     // samples emitted
	rate  float64 // samples per second, all channels
	state envState
}

var _ synth.Source = &FadeOut{}

// NewFadeOut fades src out over d. A d of zero or less, or a src with no
// sample rate to measure d against, gives a stream that is already over.
func NewFadeOut(src synth.Source, d time.Duration) *FadeOut {
	f := &FadeOut{
		src:  src,
		dur:  d.Seconds(),
		rate: float64(src.SampleRate() * src.Channels()),
	}
	if !(f.rate > 0) {
		f.state = exhausted
	}
	return f
}

func (f *FadeOut) SampleRate() int { return f.src.SampleRate() }
func (f *FadeOut) Channels() int   { return f.src.Channels() }

func (f *FadeOut) String() string {
	return fmt.Sprintf("FadeOut(%v, %vs, %v)", f.src, f.dur, f.state)
}

// elapsed returns the time in seconds covered by the samples emitted so far.
func (f *FadeOut) elapsed() float64 {
	return float64(f.n) / f.rate
}

// Done reports whether the stream has ended.
func (f *FadeOut) Done() bool {
	if f.state == active && f.elapsed() >= f.dur {
		f.state = exhausted
	}
	return f.state == exhausted
}

// Gain returns the gain that will be applied to the next sample.
func (f *FadeOut) Gain() float32 {
	if f.Done() {
		return 0
	}
	return gain(f.elapsed(), f.dur)
}

func (f *FadeOut) Next() (float32, bool) {
	if f.Done() {
		return 0, false
	}
	g := gain(f.elapsed(), f.dur)
	s, ok := f.src.Next()
	if !ok {
		f.state = exhausted
		return 0, false
	}
	f.n++
	return g * s, true
}

// gain returns 1 - t/dur, clamped to [0, 1].
func gain(t, dur float64) float32 {
	return float32(min(1, max(0, 1-t/dur)))
}

// FadeIn wraps a Source, ramping its gain linearly from 0 up to 1 over a
// fixed duration. After that it passes samples through untouched until the
// wrapped Source ends.
type FadeIn struct {
	src  synth.Source
	dur  float64 // seconds
	n    int
	rate float64
}

var _ synth.Source = &FadeIn{}

// NewFadeIn fades src in over d. A d of zero or less passes src through. A
// src with no sample rate has no time to fade over and ends straight away.
func NewFadeIn(src synth.Source, d time.Duration) *FadeIn {
	return &FadeIn{
		src:  src,
		dur:  d.Seconds(),
		rate: float64(src.SampleRate() * src.Channels()),
	}
}

func (f *FadeIn) SampleRate() int { return f.src.SampleRate() }
func (f *FadeIn) Channels() int   { return f.src.Channels() }
func (f *FadeIn) String() string  { return fmt.Sprintf("FadeIn(%v, %vs)", f.src, f.dur) }

func (f *FadeIn) Next() (float32, bool) {
	if !(f.rate > 0) {
		return 0, false
	}
	s, ok := f.src.Next()
	if !ok {
		return 0, false
	}
	t := float64(f.n) / f.rate
	if t >= f.dur {
		return s, true
	}
	f.n++
	return (1 - gain(t, f.dur)) * s, true
}
