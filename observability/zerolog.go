package observability

import (
	"context"

	"github.com/rs/zerolog"
)

// ZerologObserver emits events to a zerolog.Logger. Levels map the same way
// as SlogObserver, the event type becomes the message, and Data keys are
// written as top-level fields.
type ZerologObserver struct {
	logger zerolog.Logger
}

// NewZerologObserver creates a ZerologObserver that emits to the given logger.
func NewZerologObserver(logger zerolog.Logger) *ZerologObserver {
	return &ZerologObserver{logger: logger}
}

func (o *ZerologObserver) OnEvent(ctx context.Context, event Event) {
	e := o.logger.WithLevel(event.Level.ZerologLevel())
	if e == nil {
		return
	}
	e = e.Ctx(ctx).Str("source", event.Source)
	if !event.Timestamp.IsZero() {
		e = e.Time("event_time", event.Timestamp)
	}
	for k, v := range event.Data {
		e = e.Interface(k, v)
	}
	e.Msg(string(event.Type))
}

// ZerologLevel maps this level to the corresponding zerolog.Level.
func (l Level) ZerologLevel() zerolog.Level {
	switch {
	case l <= 4:
		return zerolog.TraceLevel
	case l <= 8:
		return zerolog.DebugLevel
	case l <= 12:
		return zerolog.InfoLevel
	case l <= 16:
		return zerolog.WarnLevel
	case l <= 20:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}
