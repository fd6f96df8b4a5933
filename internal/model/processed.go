package model

import (
	"encoding/json"
	"time"
)

// AppLogPayload is the shape-recognised view of a log entry produced by the
// classifier chain. Data is either a string or a map[string]any.
type AppLogPayload struct {
	Message             string
	Data                any
	Platform            string
	Application         string
	LogQuery            map[string]string
	MostImportantValues []string
}

// ProcessedLogEntry is the canonical record flowing through the filter
// chain and the renderer. It is never mutated after construction.
type ProcessedLogEntry struct {
	Message             string
	Data                any
	Severity            string
	Platform            string
	Application         string
	LogName             string
	Timestamp           *time.Time
	LogQuery            map[string]string
	MostImportantValues []string

	dataJSON []byte
}

// NewProcessedLogEntry merges the envelope metadata of a LogEntry with its
// recognised payload into the canonical record.
func NewProcessedLogEntry(entry LogEntry, payload AppLogPayload) *ProcessedLogEntry {
	return &ProcessedLogEntry{
		Message:             payload.Message,
		Data:                payload.Data,
		Severity:            entry.Severity,
		Platform:            payload.Platform,
		Application:         payload.Application,
		LogName:             entry.LogName,
		Timestamp:           entry.Timestamp,
		LogQuery:            payload.LogQuery,
		MostImportantValues: payload.MostImportantValues,
	}
}

// DataMap returns the record's data as a mapping, if it is one.
func (p *ProcessedLogEntry) DataMap() (map[string]any, bool) {
	return AsMap(p.Data)
}

// DataJSON returns the JSON encoding of the record's data mapping, for
// dotted-path lookups. Returns nil when data is not a mapping. The
// encoding is computed once and cached; the record itself is immutable so
// the cache never goes stale.
func (p *ProcessedLogEntry) DataJSON() []byte {
	if p.dataJSON != nil {
		return p.dataJSON
	}
	m, ok := p.DataMap()
	if !ok {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	p.dataJSON = raw
	return raw
}
