// package stream adapts Sources to the interfaces audio sinks expect.
package stream

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/pkg/errors"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/internal/buffer"
)

// Reader is an io.Reader of interleaved little-endian float32 samples.
type Reader struct {
	src  synth.Source
	done bool
}

var _ io.Reader = &Reader{}

func NewReader(src synth.Source) *Reader {
	return &Reader{src: src}
}

// Read fills p with as many whole samples as fit. It returns io.EOF once the
// Source is exhausted and everything before that has been read.
func (r *Reader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < 4 {
		return 0, io.ErrShortBuffer
	}
	samples := buffer.Get(len(p) / 4)
	defer buffer.Put(samples)

	n, ok := synth.Fill(r.src, samples)
	if !ok {
		r.done = true
	}
	for i, s := range samples[:n] {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s))
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n * 4, nil
}

// Streamer is a beep.Streamer playing a mono or stereo Source. Mono sources
// come out of both channels.
type Streamer struct {
	src  synth.Source
	done bool
}

var _ beep.Streamer = &Streamer{}

func NewStreamer(src synth.Source) (*Streamer, error) {
	if c := src.Channels(); c != 1 && c != 2 {
		return nil, errors.Wrapf(synth.ErrInvalidConfig, "%v has %d channels, beep only does 1 or 2", src, c)
	}
	return &Streamer{src: src}, nil
}

// Format returns the beep format to play s with.
func (s *Streamer) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(s.src.SampleRate()),
		NumChannels: 2,
		Precision:   4,
	}
}

func (s *Streamer) Stream(samples [][2]float64) (int, bool) {
	if s.done {
		return 0, false
	}
	stereo := s.src.Channels() == 2
	for i := range samples {
		l, ok := s.src.Next()
		if !ok {
			s.done = true
			return i, i > 0
		}
		r := l
		if stereo {
			if r, ok = s.src.Next(); !ok {
				// half a frame, drop it.
				s.done = true
				return i, i > 0
			}
		}
		samples[i][0] = float64(l)
		samples[i][1] = float64(r)
	}
	return len(samples), true
}

func (s *Streamer) Err() error { return nil }

// Stop ends the stream early. It must not be called at the same time as
// Stream.
func (s *Streamer) Stop() { s.done = true }

func (s *Streamer) String() string { return fmt.Sprintf("Streamer(%v)", s.src) }
