package io

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/internal/buffer"
)

// Null plays to nowhere, at roughly the speed a real device would. It is
// for machines without sound.
type Null struct {
	log *zap.Logger
}

var _ Player = &Null{}

const nullTick = 10 * time.Millisecond

func (n *Null) Play(ctx context.Context, src synth.Source) error {
	log := n.log.With(zap.Stringer("source", src))
	block := max(1, synth.Samples(nullTick, src.SampleRate())*src.Channels())
	buf := buffer.Get(block)
	defer buffer.Put(buf)

	t := time.NewTicker(nullTick)
	defer t.Stop()
	total := 0
	for {
		got, ok := synth.Fill(src, buf)
		total += got
		if !ok {
			log.Debug("finished", zap.Int("samples", total))
			return nil
		}
		select {
		case <-ctx.Done():
			log.Debug("cancelled", zap.Int("samples", total))
			return nil
		case <-t.C:
		}
	}
}
