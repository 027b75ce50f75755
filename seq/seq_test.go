package seq

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/osc"
)

func TestParseNote(t *testing.T) {
	for _, c := range []struct {
		name string
		want float64
	}{
		{"A4", 440},
		{"a4", 440},
		{"C4", 261.63},
		{"G4", 392.00},
		{"F2", 87.31},
		{"C2", 65.41},
		{"F#4", 369.99},
		{"Gb4", 369.99},
		{"Bb3", 233.08},
		{"A-1", 13.75},
		{"R", 0},
	} {
		got, err := ParseNote(c.name)
		if err != nil {
			t.Errorf("ParseNote(%q): %v", c.name, err)
			continue
		}
		if math.Abs(got-c.want) > 0.01 {
			t.Errorf("ParseNote(%q) = %v, want: %v", c.name, got, c.want)
		}
	}
	for _, bad := range []string{"", "H4", "C", "C#", "Cx4", "4C"} {
		if _, err := ParseNote(bad); !errors.Is(err, synth.ErrInvalidConfig) {
			t.Errorf("ParseNote(%q) = %v, want: ErrInvalidConfig", bad, err)
		}
	}
}

func TestParseScore(t *testing.T) {
	got, err := ParseScore(" C4:600\tG4:1200\n R:300 ")
	if err != nil {
		t.Fatal(err)
	}
	want := []Note{
		{Freq: 261.6256, Dur: 600 * time.Millisecond},
		{Freq: 391.9954, Dur: 1200 * time.Millisecond},
		{Freq: 0, Dur: 300 * time.Millisecond},
	}
	if len(got) != len(want) {
		t.Fatalf("ParseScore = %v, want: %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i].Freq-want[i].Freq) > 1e-3 || got[i].Dur != want[i].Dur {
			t.Errorf("note %d = %v, want: %v", i, got[i], want[i])
		}
	}
	for _, bad := range []string{"", "   ", "C4", "C4:", "C4:abc", "C4:0", "C4:-5", "Q4:100"} {
		if _, err := ParseScore(bad); !errors.Is(err, synth.ErrInvalidConfig) {
			t.Errorf("ParseScore(%q) = %v, want: ErrInvalidConfig", bad, err)
		}
	}
}

func TestVoiceSource(t *testing.T) {
	sine, err := osc.Sine(64)
	if err != nil {
		t.Fatal(err)
	}
	v := Voice{Name: "test", Table: sine, Notes: []Note{
		{Freq: 250, Dur: 100 * time.Millisecond},
		{Freq: 0, Dur: 50 * time.Millisecond},
		{Freq: 200, Dur: 100 * time.Millisecond},
	}}
	if got := v.Length(); got != 250*time.Millisecond {
		t.Errorf("Length() = %v, want: 250ms", got)
	}
	src, err := v.Source(1000)
	if err != nil {
		t.Fatal(err)
	}
	if src.SampleRate() != 1000 || src.Channels() != 1 {
		t.Errorf("got %dHz with %d channels, want: 1000Hz mono", src.SampleRate(), src.Channels())
	}
	got := synth.Collect(src, 10000)
	if len(got) != 250 {
		t.Fatalf("got %d samples, want: 250", len(got))
	}
	// every note starts at phase 0 of a sine.
	for _, i := range []int{0, 100, 150} {
		if got[i] != 0 {
			t.Errorf("sample %d = %v, want: 0", i, got[i])
		}
	}
	for i := 100; i < 150; i++ {
		if got[i] != 0 {
			t.Fatalf("sample %d in the rest = %v, want: 0", i, got[i])
		}
	}
	// 250Hz at 1kHz puts the second sample on the peak of the sine, and the
	// fade has only just started.
	if want := float32(0.99); math.Abs(float64(got[1]-want)) > 1e-6 {
		t.Errorf("sample 1 = %v, want: %v", got[1], want)
	}
}

func TestVoiceSourceErrors(t *testing.T) {
	sine, err := osc.Sine(64)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []Voice{
		{Name: "empty", Table: sine},
		{Name: "no table", Notes: []Note{{Freq: 440, Dur: time.Second}}},
		{Name: "negative", Table: sine, Notes: []Note{{Freq: -440, Dur: time.Second}}},
	} {
		if _, err := v.Source(44100); !errors.Is(err, synth.ErrInvalidConfig) {
			t.Errorf("%s: Source = %v, want: ErrInvalidConfig", v.Name, err)
		}
	}
	v := Voice{Name: "rate", Table: sine, Notes: []Note{{Freq: 440, Dur: time.Second}}}
	if _, err := v.Source(0); !errors.Is(err, synth.ErrInvalidConfig) {
		t.Errorf("Source(0) = %v, want: ErrInvalidConfig", err)
	}
}

func TestTwinkle(t *testing.T) {
	voices, err := Twinkle(64)
	if err != nil {
		t.Fatal(err)
	}
	if len(voices) != 2 {
		t.Fatalf("got %d voices, want: 2", len(voices))
	}
	melody, bass := voices[0], voices[1]
	if len(melody.Notes) != 42 {
		t.Errorf("melody has %d notes, want: 42", len(melody.Notes))
	}
	if len(bass.Notes) != 5 {
		t.Errorf("bass has %d notes, want: 5", len(bass.Notes))
	}
	if melody.Length() != bass.Length() {
		t.Errorf("melody lasts %v and bass %v, want them equal", melody.Length(), bass.Length())
	}
	if math.Abs(bass.Notes[1].Freq-87.31) > 0.01 {
		t.Errorf("first bass note = %v, want: F2", bass.Notes[1])
	}
	if _, err := Twinkle(1); !errors.Is(err, synth.ErrInvalidConfig) {
		t.Errorf("Twinkle(1) = %v, want: ErrInvalidConfig", err)
	}
}

// recorder is a Player that drains Sources as fast as it can.
type recorder struct {
	mu      sync.Mutex
	samples map[string]int
	fail    string
}

func (r *recorder) Play(ctx context.Context, src synth.Source) error {
	name := src.String()
	if name == r.fail {
		return errors.New("device unplugged")
	}
	n := 0
	for {
		if _, ok := src.Next(); !ok {
			break
		}
		n++
		if n%1000 == 0 && ctx.Err() != nil {
			return nil
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples[name] = n
	return nil
}

// named renames a Source, so the recorder can tell voices apart.
type named struct {
	synth.Source
	name string
}

func (n named) String() string { return n.name }

func TestSequencer(t *testing.T) {
	voices, err := Twinkle(64)
	if err != nil {
		t.Fatal(err)
	}
	r := &recorder{samples: map[string]int{}}
	s := &Sequencer{
		Player: r,
		Log:    zap.NewNop(),
		Rate:   8000,
		Tap: func(v Voice, src synth.Source) synth.Source {
			return named{Source: src, name: v.Name}
		},
	}
	if err := s.Play(context.Background(), voices...); err != nil {
		t.Fatal(err)
	}
	want := synth.Samples(voices[0].Length(), 8000)
	for _, v := range []string{"melody", "bass"} {
		if got := r.samples[v]; got != want {
			t.Errorf("%s played %d samples, want: %d", v, got, want)
		}
	}
}

func TestSequencerError(t *testing.T) {
	voices, err := Twinkle(64)
	if err != nil {
		t.Fatal(err)
	}
	r := &recorder{samples: map[string]int{}, fail: "bass"}
	s := &Sequencer{
		Player: r,
		Rate:   8000,
		Tap: func(v Voice, src synth.Source) synth.Source {
			return named{Source: src, name: v.Name}
		},
	}
	if err := s.Play(context.Background(), voices...); err == nil {
		t.Error("Play with a failing voice = nil, want an error")
	}
}
