package io

import (
	"context"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/stream"
)

// oto only allows one context per process, and its format can't change
// once made.
var otoShared struct {
	sync.Mutex
	ctx         *oto.Context
	rate, chans int
}

func otoContext(rate, chans int) (*oto.Context, error) {
	otoShared.Lock()
	defer otoShared.Unlock()
	if otoShared.ctx != nil {
		if rate != otoShared.rate || chans != otoShared.chans {
			return nil, errors.Wrapf(synth.ErrInvalidConfig,
				"oto is already running at %dHz with %d channels, can't play %dHz with %d",
				otoShared.rate, otoShared.chans, rate, chans)
		}
		return otoShared.ctx, nil
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: chans,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating oto context")
	}
	<-ready
	otoShared.ctx, otoShared.rate, otoShared.chans = ctx, rate, chans
	return ctx, nil
}

// Oto plays through ebitengine's oto. All Players share one device, so
// everything played must have the same sample rate and channel count.
type Oto struct {
	log *zap.Logger
}

var _ Player = &Oto{}

func (o *Oto) Play(ctx context.Context, src synth.Source) error {
	log := o.log.With(zap.Stringer("source", src))
	octx, err := otoContext(src.SampleRate(), src.Channels())
	if err != nil {
		return err
	}
	p := octx.NewPlayer(stream.NewReader(src))
	defer p.Close()
	p.Play()
	log.Debug("playing", zap.Int("rate", src.SampleRate()), zap.Int("channels", src.Channels()))

	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			log.Debug("cancelled")
			return nil
		case <-t.C:
		}
	}
	log.Debug("finished")
	return errors.Wrap(p.Err(), "oto player")
}
