package model

import "time"

// PayloadKind tags which payload variant a LogEntry carries.
type PayloadKind int

const (
	// PayloadNone means the entry had neither textPayload nor jsonPayload.
	// The whole parsed object is retained as the payload body.
	PayloadNone PayloadKind = iota
	// PayloadText means the entry carried a textPayload string.
	PayloadText
	// PayloadJSON means the entry carried a structured jsonPayload.
	PayloadJSON
)

// LogEntry is the parsed cloud-logging record. Optional string fields use
// the empty string as absent; Timestamp is nil when receiveTimestamp was
// missing or unparseable.
type LogEntry struct {
	ResourceType   string
	ResourceLabels map[string]string
	Labels         map[string]string
	PayloadKind    PayloadKind
	TextPayload    string
	JSONPayload    map[string]any
	Severity       string
	LogName        string
	Timestamp      *time.Time
}

// AsString returns v as a string if it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsMap returns v as a mapping if it is one.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// StringMap converts a decoded JSON mapping to string values, dropping
// entries whose values are not strings.
func StringMap(v any) map[string]string {
	m, ok := AsMap(v)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		if s, ok := AsString(val); ok {
			out[k] = s
		}
	}
	return out
}
