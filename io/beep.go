package io

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/stream"
)

// speaker can only be initialised once.
var speakerShared struct {
	sync.Mutex
	rate beep.SampleRate
}

func initSpeaker(rate beep.SampleRate) error {
	speakerShared.Lock()
	defer speakerShared.Unlock()
	if speakerShared.rate != 0 {
		if rate != speakerShared.rate {
			return errors.Wrapf(synth.ErrInvalidConfig,
				"speaker is already running at %dHz, can't play %dHz", speakerShared.rate, rate)
		}
		return nil
	}
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return errors.Wrap(err, "initialising speaker")
	}
	speakerShared.rate = rate
	return nil
}

// Beep plays through beep's speaker package, which mixes everything being
// played onto one device.
type Beep struct {
	log *zap.Logger
}

var _ Player = &Beep{}

func (b *Beep) Play(ctx context.Context, src synth.Source) error {
	log := b.log.With(zap.Stringer("source", src))
	s, err := stream.NewStreamer(src)
	if err != nil {
		return err
	}
	if err := initSpeaker(s.Format().SampleRate); err != nil {
		return err
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() { close(done) })))
	log.Debug("playing", zap.Int("rate", src.SampleRate()), zap.Int("channels", src.Channels()))

	select {
	case <-ctx.Done():
		speaker.Lock()
		s.Stop()
		speaker.Unlock()
		log.Debug("cancelled")
	case <-done:
		log.Debug("finished")
	}
	return nil
}
