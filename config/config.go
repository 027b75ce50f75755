// package config holds the settings for playing a score.
package config

import (
	"flag"
	"os"
	"slices"
	"strconv"

	"github.com/pkg/errors"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/io"
)

type Config struct {
	// Backend names the audio output, one of io.Backends.
	Backend    string
	SampleRate int
	// TableSize is the number of points in each wavetable.
	TableSize int
	// Score, if set, is played on a sine table instead of the built-in
	// tune. See seq.ParseScore.
	Score   string
	Verbose bool
	Profile bool
}

// Load parses args into a Config. Flags default to the SYNTH_BACKEND,
// SYNTH_RATE and SYNTH_TABLE environment variables where they are set.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	var c Config
	fs.StringVar(&c.Backend, "backend", getEnv("SYNTH_BACKEND", io.Backends[0]), "audio output, one of malgo, oto, beep or null")
	fs.IntVar(&c.SampleRate, "rate", getEnvInt("SYNTH_RATE", 44100), "sample rate in Hz")
	fs.IntVar(&c.TableSize, "table", getEnvInt("SYNTH_TABLE", 64), "wavetable size")
	fs.StringVar(&c.Score, "score", "", `notes to play instead of the built-in tune, like "C4:600 G4:600 R:300"`)
	fs.BoolVar(&c.Verbose, "v", false, "log debugging information")
	fs.BoolVar(&c.Profile, "profile", false, "whether to write pprof profiles to the current working directory")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the settings make sense together.
func (c *Config) Validate() error {
	if !slices.Contains(io.Backends, c.Backend) {
		return errors.Wrapf(synth.ErrInvalidConfig, "unknown backend %q", c.Backend)
	}
	if c.SampleRate <= 0 {
		return errors.Wrapf(synth.ErrInvalidConfig, "sample rate %d", c.SampleRate)
	}
	if c.TableSize < 2 {
		return errors.Wrapf(synth.ErrInvalidConfig, "table size %d", c.TableSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
