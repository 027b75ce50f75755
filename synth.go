// package synth generates audio from small wavetables.
package synth

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is returned (possibly wrapped) whenever something is
// constructed with parameters it can't work with.
var ErrInvalidConfig = errors.New("invalid configuration")

// Source is something that produces audio, one sample at a time.
type Source interface {
	// Next returns the next sample. Once it returns false the source is
	// exhausted and it must keep returning false.
	Next() (float32, bool)
	// SampleRate returns the number of frames per second.
	SampleRate() int
	// Channels returns the number of interleaved channels.
	Channels() int

	fmt.Stringer
}

// Samples returns the number of frames in d at the given rate. Partial
// frames are truncated.
func Samples(d time.Duration, rate int) int {
	return int(int64(d) * int64(rate) / int64(time.Second))
}

// Fill pulls samples from src into buf. It returns the number of samples
// written and false if src ran out before buf was full.
func Fill(src Source, buf []float32) (int, bool) {
	for i := range buf {
		s, ok := src.Next()
		if !ok {
			return i, false
		}
		buf[i] = s
	}
	return len(buf), true
}

// Collect pulls up to max samples from src. It stops early if src is
// exhausted.
func Collect(src Source, max int) []float32 {
	var out []float32
	for len(out) < max {
		s, ok := src.Next()
		if !ok {
			break
		}
		out = append(out, s)
	}
	return out
}

// Const is a Source that always produces the same value.
type Const struct {
	Val   float32
	Rate  int
	Chans int
}

var _ Source = Const{}

func (c Const) Next() (float32, bool) { return c.Val, true }
func (c Const) SampleRate() int       { return c.Rate }
func (c Const) String() string        { return fmt.Sprintf("Const(%v)", c.Val) }

func (c Const) Channels() int {
	if c.Chans == 0 {
		return 1
	}
	return c.Chans
}

// Amp is a Source that multiplies another by a constant.
type Amp struct {
	Source
	Gain float32
}

var _ Source = Amp{}

// Amplify returns src scaled by gain.
func Amplify(src Source, gain float32) Amp {
	return Amp{Source: src, Gain: gain}
}

func (a Amp) String() string { return fmt.Sprintf("Amp(%v, %v)", a.Source, a.Gain) }

func (a Amp) Next() (float32, bool) {
	s, ok := a.Source.Next()
	if !ok {
		return 0, false
	}
	return s * a.Gain, true
}

// Taken is a Source that stops after a fixed number of samples.
type Taken struct {
	src  Source
	left int
	dur  time.Duration
}

var _ Source = &Taken{}

// Take truncates src after d.
func Take(src Source, d time.Duration) *Taken {
	return &Taken{
		src:  src,
		left: max(0, Samples(d, src.SampleRate())*src.Channels()),
		dur:  d,
	}
}

func (t *Taken) SampleRate() int { return t.src.SampleRate() }
func (t *Taken) Channels() int   { return t.src.Channels() }
func (t *Taken) String() string  { return fmt.Sprintf("Take(%v, %v)", t.src, t.dur) }

func (t *Taken) Next() (float32, bool) {
	if t.left <= 0 {
		return 0, false
	}
	s, ok := t.src.Next()
	if !ok {
		t.left = 0
		return 0, false
	}
	t.left--
	return s, true
}

// Silence returns a mono Source of zeros that lasts for d.
func Silence(rate int, d time.Duration) *Taken {
	return Take(Const{Rate: rate}, d)
}

// Sped is a Source that reports a scaled sample rate. The samples themselves
// are untouched, so whatever plays it plays faster or slower.
type Sped struct {
	Source
	factor float64
}

// Speed scales the rate src claims to run at by factor, which must be
// positive. The scaled rate is truncated to whole frames per second and must
// come out between 1 and math.MaxInt32.
func Speed(src Source, factor float64) (*Sped, error) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "speed factor %v", factor)
	}
	if r := float64(src.SampleRate()) * factor; !(r >= 1) || r > math.MaxInt32 {
		return nil, errors.Wrapf(ErrInvalidConfig, "speed factor %v turns rate %d into %v", factor, src.SampleRate(), r)
	}
	return &Sped{Source: src, factor: factor}, nil
}

func (s *Sped) SampleRate() int { return int(float64(s.Source.SampleRate()) * s.factor) }
func (s *Sped) String() string  { return fmt.Sprintf("Speed(%v, %v)", s.Source, s.factor) }

// Seq plays a list of Sources one after the other.
type Seq struct {
	srcs  []Source
	pos   int
	rate  int
	chans int
}

var _ Source = &Seq{}

// Sequence joins srcs end to end. They must all agree on sample rate and
// channel count.
func Sequence(srcs ...Source) (*Seq, error) {
	if len(srcs) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "empty sequence")
	}
	rate, chans := srcs[0].SampleRate(), srcs[0].Channels()
	for _, s := range srcs[1:] {
		if s.SampleRate() != rate || s.Channels() != chans {
			return nil, errors.Wrapf(ErrInvalidConfig,
				"%v (%dHz, %d channels) doesn't match %v (%dHz, %d channels)",
				s, s.SampleRate(), s.Channels(), srcs[0], rate, chans)
		}
	}
	return &Seq{srcs: srcs, rate: rate, chans: chans}, nil
}

func (s *Seq) SampleRate() int { return s.rate }
func (s *Seq) Channels() int   { return s.chans }
func (s *Seq) String() string  { return fmt.Sprintf("Sequence(%v)", s.srcs) }

func (s *Seq) Next() (float32, bool) {
	for s.pos < len(s.srcs) {
		if v, ok := s.srcs[s.pos].Next(); ok {
			return v, true
		}
		s.pos++
	}
	return 0, false
}
