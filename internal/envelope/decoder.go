// Package envelope validates the pub/sub push envelope and parses the
// cloud-logging record it carries.
package envelope

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"logrouter/internal/model"
)

// PubSubMessageType is the only envelope type accepted.
const PubSubMessageType = "type.googleapis.com/google.pubsub.v1.PubsubMessage"

// InvalidError reports a malformed envelope. The orchestrator converts it
// into the bad-format alert path; it is never fatal.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string {
	return "invalid envelope: " + e.Reason
}

// Decoded is the result of a successful envelope decode. Exactly one of
// Raw or Structured is meaningful, selected by IsRaw.
type Decoded struct {
	IsRaw      bool
	Raw        string
	Structured map[string]any
}

// Decode validates the envelope and decodes its data field. The decoded
// bytes must be a JSON document; a JSON string yields a raw result, any
// other document a structured one.
func Decode(event map[string]any) (Decoded, error) {
	typeTag, present := event["@type"]
	if !present {
		return Decoded{}, &InvalidError{Reason: "Field '@type' is missing."}
	}
	if typeTag != PubSubMessageType {
		return Decoded{}, &InvalidError{Reason: fmt.Sprintf("Field '@type' is not a pubsub message type, got %v.", typeTag)}
	}
	data, present := event["data"]
	if !present {
		return Decoded{}, &InvalidError{Reason: "Field 'data' is missing."}
	}
	encoded, ok := model.AsString(data)
	if !ok {
		return Decoded{}, &InvalidError{Reason: "Field 'data' is not valid base64: not a string."}
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Decoded{}, &InvalidError{Reason: fmt.Sprintf("Field 'data' is not valid base64: %v.", err)}
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Decoded{}, &InvalidError{Reason: fmt.Sprintf("Field 'data' does not decode to a JSON document: %v.", err)}
	}
	if s, ok := model.AsString(doc); ok {
		return Decoded{IsRaw: true, Raw: s}, nil
	}
	obj, ok := model.AsMap(doc)
	if !ok {
		// Arrays and scalars get the same structured treatment as an
		// object with no recognisable fields.
		obj = map[string]any{}
	}
	return Decoded{Structured: obj}, nil
}

// ParseLogEntry converts a structured payload into a LogEntry. Fields with
// unexpected types are treated as absent.
func ParseLogEntry(obj map[string]any) model.LogEntry {
	entry := model.LogEntry{
		ResourceLabels: map[string]string{},
		Labels:         model.StringMap(obj["labels"]),
	}
	if resource, ok := model.AsMap(obj["resource"]); ok {
		entry.ResourceType, _ = model.AsString(resource["type"])
		entry.ResourceLabels = model.StringMap(resource["labels"])
	}
	switch {
	case obj["textPayload"] != nil:
		entry.PayloadKind = model.PayloadText
		entry.TextPayload, _ = model.AsString(obj["textPayload"])
	case obj["jsonPayload"] != nil:
		entry.PayloadKind = model.PayloadJSON
		if m, ok := model.AsMap(obj["jsonPayload"]); ok {
			entry.JSONPayload = m
		} else {
			entry.JSONPayload = map[string]any{}
		}
	default:
		// The whole parsed object is kept for the terminal recogniser.
		entry.PayloadKind = model.PayloadNone
		entry.JSONPayload = obj
	}
	entry.Severity, _ = model.AsString(obj["severity"])
	entry.LogName, _ = model.AsString(obj["logName"])
	if ts, ok := model.AsString(obj["receiveTimestamp"]); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			entry.Timestamp = &t
		}
	}
	return entry
}
