package seq

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pfcm/synth"
)

// Player is where voices are sent. See package io for real ones.
type Player interface {
	Play(ctx context.Context, src synth.Source) error
}

// Sequencer plays voices at the same time, one goroutine and one Play call
// per voice. Nothing but the Tables is shared between voices.
type Sequencer struct {
	Player Player
	Log    *zap.Logger
	Rate   int
	// Tap, if set, gets to wrap each voice's Source before it is played.
	Tap func(Voice, synth.Source) synth.Source
}

// Play plays all the voices and waits for them to finish. If one fails the
// rest are cancelled.
func (s *Sequencer) Play(ctx context.Context, voices ...Voice) error {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	srcs := make([]synth.Source, len(voices))
	for i, v := range voices {
		src, err := v.Source(s.Rate)
		if err != nil {
			return err
		}
		if s.Tap != nil {
			src = s.Tap(v, src)
		}
		srcs[i] = src
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, v := range voices {
		i, v := i, v
		g.Go(func() error {
			log := log.With(zap.String("voice", v.Name))
			log.Info("voice starting",
				zap.Int("notes", len(v.Notes)),
				zap.Duration("length", v.Length()),
				zap.Stringer("table", v.Table))
			if err := s.Player.Play(ctx, srcs[i]); err != nil {
				return errors.Wrapf(err, "playing voice %s", v.Name)
			}
			log.Info("voice finished")
			return nil
		})
	}
	return g.Wait()
}
