// Package alerter wires the pipeline: envelope decode, classification,
// the filter chain, rendering and dispatch.
package alerter

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"logrouter/internal/classify"
	"logrouter/internal/envelope"
	"logrouter/internal/filters"
	"logrouter/internal/model"
	"logrouter/internal/render"
)

// Outcome strings returned to the host.
const (
	OutcomeSent            = "Alert sent"
	OutcomeSkipped         = "Alert skipped"
	OutcomeInvalidEnvelope = "Alert sent (invalid envelope)"
)

// Dispatcher delivers a rendered message to the chat provider.
type Dispatcher interface {
	Send(ctx context.Context, message render.ChatMessage) error
}

// Alerter processes one inbound event end to end.
type Alerter struct {
	chain      *classify.Chain
	filters    *filters.Chain
	dispatcher Dispatcher
	project    string
	logger     zerolog.Logger
}

// New builds an Alerter with the default classifier and filter chains.
func New(dispatcher Dispatcher, project string, logger zerolog.Logger) *Alerter {
	return &Alerter{
		chain:      classify.DefaultChain(),
		filters:    filters.DefaultChain(),
		dispatcher: dispatcher,
		project:    project,
		logger:     logger,
	}
}

// NewWithChains builds an Alerter with explicit chains, for tests that
// need a controlled clock or a partial filter set.
func NewWithChains(chain *classify.Chain, filterChain *filters.Chain, dispatcher Dispatcher, project string, logger zerolog.Logger) *Alerter {
	return &Alerter{
		chain:      chain,
		filters:    filterChain,
		dispatcher: dispatcher,
		project:    project,
		logger:     logger,
	}
}

// Process handles one inbound event and returns the outcome string for
// the host response. Classification and delivery failures are fatal and
// propagate; a malformed envelope is downgraded to the bad-format alert.
func (a *Alerter) Process(ctx context.Context, event map[string]any) (string, error) {
	decoded, err := envelope.Decode(event)
	if err != nil {
		var invalid *envelope.InvalidError
		if !errors.As(err, &invalid) {
			return "", err
		}
		a.logger.Warn().Str("reason", invalid.Reason).Interface("event", event).
			Msg("received event with bad format")
		if err := a.dispatcher.Send(ctx, render.BadFormat(event, a.project)); err != nil {
			return "", err
		}
		return OutcomeInvalidEnvelope, nil
	}

	entry, err := a.assemble(decoded)
	if err != nil {
		return "", err
	}

	if name, skipped := a.filters.Skip(entry); skipped {
		a.logger.Info().Str("filter", name).Str("message", entry.Message).
			Msg("alert skipped")
		return OutcomeSkipped, nil
	}

	if err := a.dispatcher.Send(ctx, render.Build(entry, a.project)); err != nil {
		return "", err
	}
	return OutcomeSent, nil
}

func (a *Alerter) assemble(decoded envelope.Decoded) (*model.ProcessedLogEntry, error) {
	if decoded.IsRaw {
		return &model.ProcessedLogEntry{
			Message:  decoded.Raw,
			LogQuery: map[string]string{},
		}, nil
	}
	logEntry := envelope.ParseLogEntry(decoded.Structured)
	payload, err := a.chain.Classify(logEntry)
	if err != nil {
		return nil, err
	}
	return model.NewProcessedLogEntry(logEntry, payload), nil
}
