package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/config"
	"github.com/pfcm/synth/io"
	"github.com/pfcm/synth/osc"
	"github.com/pfcm/synth/seq"
)

func main() {
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		log.Fatalf("Creating logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Profile {
		p, err := startProfiles(".", logger)
		if err != nil {
			logger.Fatal("starting profiling", zap.Error(err))
		}
		defer func() {
			if err := p.finish(); err != nil {
				logger.Error("finishing profiles", zap.Error(err))
			}
		}()
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("playing", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	voices, err := loadVoices(cfg)
	if err != nil {
		return err
	}
	player, err := io.New(cfg.Backend, logger)
	if err != nil {
		return err
	}
	logger.Info("starting",
		zap.String("backend", cfg.Backend),
		zap.Int("rate", cfg.SampleRate),
		zap.Int("table", cfg.TableSize),
		zap.Int("voices", len(voices)))

	var (
		mu     sync.Mutex
		meters []*meter
	)
	s := &seq.Sequencer{
		Player: player,
		Log:    logger,
		Rate:   cfg.SampleRate,
		Tap: func(v seq.Voice, src synth.Source) synth.Source {
			m := newMeter(v.Name, src)
			mu.Lock()
			defer mu.Unlock()
			meters = append(meters, m)
			return m
		},
	}

	// Ctrl-C or a SIGTERM stops every voice; the players treat that as a
	// clean finish.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()
	g, ctx := errgroup.WithContext(sigCtx)
	playing, stop := context.WithCancel(ctx)
	g.Go(func() error {
		defer stop()
		return s.Play(ctx, voices...)
	})
	g.Go(func() error {
		t0 := time.Now()
		t := time.NewTicker(100 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-playing.Done():
				fmt.Fprintln(os.Stderr)
				return nil
			case <-t.C:
				var levels []string
				mu.Lock()
				for _, m := range meters {
					levels = append(levels, fmt.Sprintf("%s %.2f", m.name, m.getRMS()))
				}
				mu.Unlock()
				fmt.Fprintf(os.Stderr, "\r%.4f: %v", time.Since(t0).Seconds(), levels)
			}
		}
	})
	return g.Wait()
}

func loadVoices(cfg *config.Config) ([]seq.Voice, error) {
	if cfg.Score == "" {
		return seq.Twinkle(cfg.TableSize)
	}
	notes, err := seq.ParseScore(cfg.Score)
	if err != nil {
		return nil, errors.Wrap(err, "parsing score")
	}
	sine, err := osc.Sine(cfg.TableSize)
	if err != nil {
		return nil, err
	}
	return []seq.Voice{{Name: "score", Table: sine, Notes: notes}}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Encoding = "console"
	return zc.Build()
}

// meter passes samples through while keeping a running RMS level for the
// display.
type meter struct {
	synth.Source
	name string

	block []float32

	mu  sync.Mutex
	rms float32
}

func newMeter(name string, src synth.Source) *meter {
	return &meter{
		Source: src,
		name:   name,
		block:  make([]float32, 0, 1024),
	}
}

func (m *meter) Next() (float32, bool) {
	s, ok := m.Source.Next()
	if !ok {
		return 0, false
	}
	m.block = append(m.block, s)
	if len(m.block) == cap(m.block) {
		rms := float64(0)
		for _, v := range m.block {
			rms += float64(v) * float64(v)
		}
		rms /= float64(len(m.block))
		m.mu.Lock()
		m.rms = 0.01*m.rms + 0.99*float32(math.Sqrt(rms))
		m.mu.Unlock()
		m.block = m.block[:0]
	}
	return s, true
}

func (m *meter) getRMS() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rms
}

// profiles records a CPU profile for the whole run and a heap profile at the
// end of it, both into dir.
type profiles struct {
	log       *zap.Logger
	cpu, heap string
	cpuFile   *os.File
}

func startProfiles(dir string, logger *zap.Logger) (*profiles, error) {
	p := &profiles{
		log:  logger,
		cpu:  filepath.Join(dir, "cpu.pprof"),
		heap: filepath.Join(dir, "heap.pprof"),
	}
	f, err := os.Create(p.cpu)
	if err != nil {
		return nil, errors.Wrap(err, "creating cpu profile")
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "starting cpu profile")
	}
	p.cpuFile = f
	logger.Info("profiling", zap.String("cpu", p.cpu), zap.String("heap", p.heap))
	return p, nil
}

// finish stops the CPU profile and writes the heap profile.
func (p *profiles) finish() error {
	pprof.StopCPUProfile()
	if err := p.cpuFile.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", p.cpu)
	}
	f, err := os.Create(p.heap)
	if err != nil {
		return errors.Wrap(err, "creating heap profile")
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.Wrapf(err, "writing %s", p.heap)
	}
	p.log.Info("wrote profiles", zap.String("cpu", p.cpu), zap.String("heap", p.heap))
	return f.Close()
}
