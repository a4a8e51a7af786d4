package validate

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which contract a caller violated.
type Kind int

const (
	KindUnknown Kind = iota
	InitialRequired
	InitialType
	InitialContent
	HandlerType
	HandlersType
	SelectorType
	ChangeType
	ChangeField
)

const defaultMessage = "unexpected state error"

var messages = map[Kind]string{
	InitialRequired: "initial state is required",
	InitialType:     "initial state must be an object",
	InitialContent:  "initial state must have at least one field",
	HandlerType:     "handler must be a function or an object of functions",
	HandlersType:    "every handler in a handler object must be a function",
	SelectorType:    "selector must be a function",
	ChangeType:      "change must be an object or a function returning an object",
	ChangeField:     "change contains a field that is not part of the initial state",
}

var names = map[Kind]string{
	InitialRequired: "InitialRequired",
	InitialType:     "InitialType",
	InitialContent:  "InitialContent",
	HandlerType:     "HandlerType",
	HandlersType:    "HandlersType",
	SelectorType:    "SelectorType",
	ChangeType:      "ChangeType",
	ChangeField:     "ChangeField",
}

// String returns the kind name, e.g. "ChangeField".
func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return "Unknown"
}

// Message returns the fixed message for the kind. Unrecognized kinds
// resolve to a generic default.
func (k Kind) Message() string {
	if msg, ok := messages[k]; ok {
		return msg
	}
	return defaultMessage
}

// Error is returned by every validator. Detail carries optional context,
// such as the offending field name, and never alters the fixed message.
type Error struct {
	Kind   Kind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s)", e.Kind.Message(), e.Detail)
	}
	return e.Kind.Message()
}

// Is reports whether target is an *Error of the same kind, so the
// sentinels below match any detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrInitialRequired = &Error{Kind: InitialRequired}
	ErrInitialType     = &Error{Kind: InitialType}
	ErrInitialContent  = &Error{Kind: InitialContent}
	ErrHandlerType     = &Error{Kind: HandlerType}
	ErrHandlersType    = &Error{Kind: HandlersType}
	ErrSelectorType    = &Error{Kind: SelectorType}
	ErrChangeType      = &Error{Kind: ChangeType}
	ErrChangeField     = &Error{Kind: ChangeField}
)

// Fail builds the error for kind. Multiple detail strings are joined with
// ", ".
func Fail(kind Kind, detail ...string) *Error {
	return &Error{Kind: kind, Detail: strings.Join(detail, ", ")}
}

// KindOf extracts the Kind from err, looking through wrapping. It returns
// KindUnknown when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
