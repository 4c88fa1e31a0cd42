package history

import (
	"github.com/rs/zerolog"

	"github.com/llehouerou/sessionctl/internal/events"
	"github.com/llehouerou/sessionctl/internal/media"
)

// Source is the session a Recorder follows.
type Source interface {
	SessionID() string
	Media() media.Descriptor
	Seek(sec float64) error
}

// Recorder turns session events into history writes. Register Listen as a
// session listener.
type Recorder struct {
	store  *Store
	src    Source
	resume bool
	logger zerolog.Logger
}

// NewRecorder creates a recorder. With resume set, playback that starts on
// media with a saved position seeks to it.
func NewRecorder(store *Store, src Source, resume bool, logger zerolog.Logger) *Recorder {
	return &Recorder{store: store, src: src, resume: resume, logger: logger}
}

// Listen handles one session event. Write failures are logged, never
// returned to the session.
func (r *Recorder) Listen(e events.Event) {
	var err error
	switch e.Kind {
	case events.Load:
		err = r.store.Begin(r.src.SessionID(), r.src.Media())
	case events.Start:
		if r.resume {
			err = r.resumeCurrent()
		}
	case events.Progress:
		m := r.src.Media()
		r.store.SavePosition(Position{
			SessionID: r.src.SessionID(),
			MediaID:   m.ID,
			Position:  e.CurrentTime,
			Duration:  e.Duration,
		})
	case events.Finish:
		err = r.store.MarkFinished(r.src.SessionID(), r.src.Media().ID)
	case events.Error:
		if e.Err != nil {
			err = r.store.RecordError(r.src.SessionID(), r.src.Media(), e.Err.Kind.String())
		}
	case events.Unload:
		err = r.store.End(r.src.SessionID())
	default:
	}
	if err != nil {
		r.logger.Warn().Err(err).Stringer("event", e.Kind).Msg("history write failed")
	}
}

func (r *Recorder) resumeCurrent() error {
	m := r.src.Media()
	if m.IsLive {
		return nil
	}
	p, ok, err := r.store.Resume(m.ID)
	if err != nil || !ok || p.Position <= 0 {
		return err
	}
	r.logger.Debug().Str("media_id", m.ID).Float64("position", p.Position).Msg("resuming")
	return r.src.Seek(p.Position)
}
