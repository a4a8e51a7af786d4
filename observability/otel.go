package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tailored-agentic-units/localstate"

// Data key carrying the validation error kind on rejection events.
const DataErrorKind = "error_kind"

// OTelObserver records events as OpenTelemetry metrics. Every event
// increments localstate.events; events at LevelWarning or above that carry
// an error kind also increment localstate.rejections.
type OTelObserver struct {
	meter      metric.Meter
	events     metric.Int64Counter
	rejections metric.Int64Counter
}

// OTelOption configures an OTelObserver.
type OTelOption func(*OTelObserver)

// WithMeterProvider sets the meter provider. The global provider is used
// otherwise.
func WithMeterProvider(provider metric.MeterProvider) OTelOption {
	return func(o *OTelObserver) {
		o.meter = provider.Meter(instrumentationName)
	}
}

// NewOTelObserver creates an OTelObserver and its instruments.
func NewOTelObserver(opts ...OTelOption) (*OTelObserver, error) {
	obs := &OTelObserver{
		meter: otel.Meter(instrumentationName),
	}

	for _, opt := range opts {
		opt(obs)
	}

	var err error

	obs.events, err = obs.meter.Int64Counter(
		"localstate.events",
		metric.WithDescription("Number of state container events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	obs.rejections, err = obs.meter.Int64Counter(
		"localstate.rejections",
		metric.WithDescription("Number of rejected state container calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return obs, nil
}

func (o *OTelObserver) OnEvent(ctx context.Context, event Event) {
	o.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", string(event.Type)),
		attribute.String("event.source", event.Source),
		attribute.String("event.level", event.Level.String()),
	))

	if event.Level < LevelWarning {
		return
	}
	kind, ok := event.Data[DataErrorKind].(string)
	if !ok {
		return
	}
	o.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.kind", kind),
		attribute.String("event.source", event.Source),
	))
}
