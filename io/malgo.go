package io

import (
	"context"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfcm/synth"
	"github.com/pfcm/synth/stream"
)

// Malgo plays through miniaudio's default playback device. Every call to
// Play opens its own device.
type Malgo struct {
	log *zap.Logger
}

var _ Player = &Malgo{}

func (m *Malgo) Play(ctx context.Context, src synth.Source) error {
	log := m.log.With(zap.Stringer("source", src))
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		log.Debug("miniaudio", zap.String("msg", msg))
	})
	if err != nil {
		return errors.Wrap(err, "initialising miniaudio")
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = uint32(src.Channels())
	cfg.SampleRate = uint32(src.SampleRate())

	var (
		r    = stream.NewReader(src)
		done = make(chan struct{})
		once sync.Once
	)
	recv := func(out, _ []byte, framecount uint32) {
		if framecount == 0 {
			return
		}
		for len(out) > 0 {
			n, err := r.Read(out)
			out = out[n:]
			if err != nil {
				// the source is finished, pad with silence.
				for i := range out {
					out[i] = 0
				}
				once.Do(func() { close(done) })
				return
			}
		}
	}

	device, err := malgo.InitDevice(mctx.Context, cfg, malgo.DeviceCallbacks{
		Data: recv,
	})
	if err != nil {
		return errors.Wrap(err, "initialising playback device")
	}
	defer device.Uninit()
	if err := device.Start(); err != nil {
		return errors.Wrap(err, "starting playback device")
	}
	log.Debug("playing", zap.Int("rate", src.SampleRate()), zap.Int("channels", src.Channels()))

	select {
	case <-ctx.Done():
		log.Debug("cancelled")
	case <-done:
		log.Debug("finished")
	}
	return nil
}
