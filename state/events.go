package state

import "github.com/tailored-agentic-units/localstate/observability"

const (
	EventStateCreate observability.EventType = "state.create"
	EventStateSet    observability.EventType = "state.set"
	EventStateSelect observability.EventType = "state.select"
	EventStateNotify observability.EventType = "state.notify"
	EventStateReject observability.EventType = "state.reject"
)
