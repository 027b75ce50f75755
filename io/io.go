// package io plays Sources on audio devices.
package io

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pfcm/synth"
)

// Player sends a Source to some output. Play blocks until the Source is
// exhausted or ctx is cancelled, whichever comes first; cancelling is not an
// error. Players may be used from several goroutines at once, each Play
// getting its own output stream.
type Player interface {
	Play(ctx context.Context, src synth.Source) error
}

// Backends lists the names New accepts. The first is the default.
var Backends = []string{"malgo", "oto", "beep", "null"}

// New returns the named Player.
func New(name string, log *zap.Logger) (Player, error) {
	log = log.With(zap.String("backend", name))
	switch name {
	case "malgo", "":
		return &Malgo{log: log}, nil
	case "oto":
		return &Oto{log: log}, nil
	case "beep":
		return &Beep{log: log}, nil
	case "null":
		return &Null{log: log}, nil
	}
	return nil, errors.Wrapf(synth.ErrInvalidConfig, "unknown backend %q (want one of %v)", name, Backends)
}
