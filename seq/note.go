// package seq turns notes into Sources and plays them.
package seq

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/osc"
)

// Note is a pitch held for a duration. A Freq of zero is a rest.
type Note struct {
	Freq float64
	Dur  time.Duration
}

func (n Note) String() string {
	if n.Freq == 0 {
		return fmt.Sprintf("rest(%v)", n.Dur)
	}
	return fmt.Sprintf("%.2fHz(%v)", n.Freq, n.Dur)
}

var semitones = map[byte]int{
	'C': 0,
	'D': 2,
	'E': 4,
	'F': 5,
	'G': 7,
	'A': 9,
	'B': 11,
}

// ParseNote returns the frequency of a note name in scientific pitch
// notation, like "C4" (middle C), "F#2" or "Bb3". "R" is a rest, with
// frequency 0.
func ParseNote(name string) (float64, error) {
	if name == "R" || name == "r" {
		return 0, nil
	}
	if len(name) < 2 {
		return 0, errors.Wrapf(synth.ErrInvalidConfig, "bad note %q", name)
	}
	semi, ok := semitones[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, errors.Wrapf(synth.ErrInvalidConfig, "bad note %q", name)
	}
	rest := name[1:]
	switch rest[0] {
	case '#':
		semi++
		rest = rest[1:]
	case 'b':
		semi--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, errors.Wrapf(synth.ErrInvalidConfig, "bad octave in note %q", name)
	}
	return osc.MIDIFreq(float64(12*(octave+1) + semi)), nil
}

// ParseScore parses a whitespace separated list of notes, each a note name
// and a duration in milliseconds separated by a colon:
//
//	C4:600 C4:600 G4:600 R:300 G4:1200
func ParseScore(score string) ([]Note, error) {
	var notes []Note
	for i, tok := range strings.Fields(score) {
		name, ms, ok := strings.Cut(tok, ":")
		if !ok {
			return nil, errors.Wrapf(synth.ErrInvalidConfig, "note %d (%q): missing duration", i, tok)
		}
		f, err := ParseNote(name)
		if err != nil {
			return nil, errors.Wrapf(err, "note %d", i)
		}
		d, err := strconv.Atoi(ms)
		if err != nil || d <= 0 {
			return nil, errors.Wrapf(synth.ErrInvalidConfig, "note %d (%q): bad duration", i, tok)
		}
		notes = append(notes, Note{Freq: f, Dur: time.Duration(d) * time.Millisecond})
	}
	if len(notes) == 0 {
		return nil, errors.Wrap(synth.ErrInvalidConfig, "empty score")
	}
	return notes, nil
}
