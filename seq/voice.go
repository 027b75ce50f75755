package seq

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/env"
	"github.com/pfcm/synth/osc"
)

// Voice is a monophonic line of notes played on one Table.
type Voice struct {
	Name  string
	Table osc.Table
	Notes []Note
}

// Length returns how long the voice takes to play.
func (v Voice) Length() time.Duration {
	var d time.Duration
	for _, n := range v.Notes {
		d += n.Dur
	}
	return d
}

// Source builds the voice's audio. Each note gets a fresh Oscillator that
// fades out over the length of the note, and rests are silence. The Table is
// shared, everything else belongs to the returned Source.
func (v Voice) Source(samplerate int) (synth.Source, error) {
	srcs := make([]synth.Source, 0, len(v.Notes))
	for i, n := range v.Notes {
		if n.Freq == 0 {
			srcs = append(srcs, synth.Silence(samplerate, n.Dur))
			continue
		}
		o, err := osc.New(samplerate, v.Table)
		if err != nil {
			return nil, errors.Wrapf(err, "voice %s", v.Name)
		}
		if err := o.SetFrequency(n.Freq); err != nil {
			return nil, errors.Wrapf(err, "voice %s, note %d", v.Name, i)
		}
		srcs = append(srcs, env.NewFadeOut(o, n.Dur))
	}
	s, err := synth.Sequence(srcs...)
	if err != nil {
		return nil, errors.Wrapf(err, "voice %s", v.Name)
	}
	return s, nil
}

func (v Voice) String() string {
	return fmt.Sprintf("%s(%v, %d notes)", v.Name, v.Table, len(v.Notes))
}

const (
	twinkleA = "C4:600 C4:600 G4:600 G4:600 A4:600 A4:600 G4:1200 " +
		"F4:600 F4:600 E4:600 E4:600 D4:600 D4:600 C4:1200 "
	twinkleB = "G4:600 G4:600 F4:600 F4:600 E4:600 E4:600 D4:1200 "
	// the bass comes in for the last phrase.
	twinkleBass = "R:24000 F2:1200 E2:1200 D2:1200 C2:1200"
)

// Twinkle returns a melody on a sine table and a bass line on a square
// table, both tables of the given size.
func Twinkle(tableSize int) ([]Voice, error) {
	sine, err := osc.Sine(tableSize)
	if err != nil {
		return nil, err
	}
	square, err := osc.Square(tableSize)
	if err != nil {
		return nil, err
	}
	melody, err := ParseScore(twinkleA + twinkleB + twinkleB + twinkleA)
	if err != nil {
		return nil, err
	}
	bass, err := ParseScore(twinkleBass)
	if err != nil {
		return nil, err
	}
	return []Voice{
		{Name: "melody", Table: sine, Notes: melody},
		{Name: "bass", Table: square, Notes: bass},
	}, nil
}
