package osc

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
)

func TestSine(t *testing.T) {
	tab, err := Sine(4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 0, -1}
	for i, w := range want {
		if got := tab.At(i); math.Abs(float64(got)-w) > 1e-6 {
			t.Errorf("Sine(4)[%d] = %v, want: %v", i, got, w)
		}
	}
}

func TestSquare(t *testing.T) {
	for _, c := range []struct {
		n    int
		want []float32
	}{
		{2, []float32{-1, -1}},
		{3, []float32{-1, -1, 1}},
		{4, []float32{-1, -1, -1, 1}},
		{5, []float32{-1, -1, -1, 1, 1}},
		{8, []float32{-1, -1, -1, -1, -1, 1, 1, 1}},
	} {
		tab, err := Square(c.n)
		if err != nil {
			t.Fatal(err)
		}
		got := tab.Values()
		if len(got) != len(c.want) {
			t.Fatalf("Square(%d) has %d values, want: %d", c.n, len(got), len(c.want))
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("Square(%d) = %v, want: %v", c.n, got, c.want)
				break
			}
		}
	}
}

func TestSaw(t *testing.T) {
	tab, err := Saw(4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float32{-1, -0.5, 0, 0.5}
	for i, w := range want {
		if got := tab.At(i); got != w {
			t.Errorf("Saw(4)[%d] = %v, want: %v", i, got, w)
		}
	}
}

func TestNoise(t *testing.T) {
	a, err := Noise(256)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Noise(256)
	if err != nil {
		t.Fatal(err)
	}
	distinct := map[float32]bool{}
	for i := 0; i < a.Len(); i++ {
		v := a.At(i)
		if v < -1 || v >= 1 {
			t.Errorf("Noise(256)[%d] = %v, out of [-1, 1)", i, v)
		}
		if v != b.At(i) {
			t.Errorf("Noise(256)[%d] differs between calls: %v vs %v", i, v, b.At(i))
		}
		distinct[v] = true
	}
	if len(distinct) < 200 {
		t.Errorf("Noise(256) has only %d distinct values", len(distinct))
	}
}

func TestTooSmall(t *testing.T) {
	for name, f := range map[string]func(int) (Table, error){
		"Sine":   Sine,
		"Square": Square,
		"Saw":    Saw,
		"Noise":  Noise,
	} {
		for _, n := range []int{-1, 0, 1} {
			if _, err := f(n); !errors.Is(err, synth.ErrInvalidConfig) {
				t.Errorf("%s(%d) = %v, want: ErrInvalidConfig", name, n, err)
			}
		}
	}
	if _, err := NewTable([]float32{1}); !errors.Is(err, synth.ErrInvalidConfig) {
		t.Errorf("NewTable of one value = %v, want: ErrInvalidConfig", err)
	}
}

func TestNewTableCopies(t *testing.T) {
	vals := []float32{0, 0.5, 1}
	tab, err := NewTable(vals)
	if err != nil {
		t.Fatal(err)
	}
	vals[1] = 99
	if got := tab.At(1); got != 0.5 {
		t.Errorf("At(1) after changing input = %v, want: 0.5", got)
	}
	tab.Values()[2] = 99
	if got := tab.At(2); got != 1 {
		t.Errorf("At(2) after changing Values() = %v, want: 1", got)
	}
}
