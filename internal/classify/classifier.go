// Package classify turns a LogEntry into an AppLogPayload through an
// ordered chain of shape recognisers. The first recogniser to accept an
// entry wins; the terminal recogniser accepts everything, so a fully
// built chain always produces a payload.
package classify

import "logrouter/internal/model"

// Recogniser matches one payload shape. Recognise returns ok=false when
// the entry is not this shape.
type Recogniser interface {
	Name() string
	Recognise(entry model.LogEntry) (model.AppLogPayload, bool)
}

// NoMatchError is returned by a chain built without the terminal
// recogniser. A default chain never produces it.
type NoMatchError struct{}

func (e *NoMatchError) Error() string {
	return "no recogniser matched the log entry"
}

// Chain is an ordered list of recognisers.
type Chain struct {
	recognisers []Recogniser
}

// NewChain builds a chain from the given recognisers, tried in order.
func NewChain(recognisers ...Recogniser) *Chain {
	return &Chain{recognisers: recognisers}
}

// DefaultChain returns the full recogniser chain: platform-specific shapes
// first, then the structured, text and terminal fallbacks.
func DefaultChain() *Chain {
	return NewChain(
		&GCEInstance{},
		&CloudFunction{},
		&CloudRunRevision{},
		&GAEApp{},
		&AuditLog{},
		&StructuredFallback{},
		&TextFallback{},
		&Terminal{},
	)
}

// Classify runs the entry through the chain.
func (c *Chain) Classify(entry model.LogEntry) (model.AppLogPayload, error) {
	for _, r := range c.recognisers {
		if payload, ok := r.Recognise(entry); ok {
			return payload, nil
		}
	}
	return model.AppLogPayload{}, &NoMatchError{}
}
