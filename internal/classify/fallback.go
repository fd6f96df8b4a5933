package classify

import "logrouter/internal/model"

// StructuredFallback accepts any remaining structured payload.
type StructuredFallback struct{}

func (r *StructuredFallback) Name() string { return "structured-fallback" }

func (r *StructuredFallback) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.PayloadKind != model.PayloadJSON {
		return model.AppLogPayload{}, false
	}
	return model.AppLogPayload{
		Message:  "Unknown JSON Error",
		Data:     entry.JSONPayload,
		Platform: entry.ResourceType,
		LogQuery: map[string]string{},
	}, true
}

// TextFallback accepts any remaining text payload.
type TextFallback struct{}

func (r *TextFallback) Name() string { return "text-fallback" }

func (r *TextFallback) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.PayloadKind != model.PayloadText {
		return model.AppLogPayload{}, false
	}
	return model.AppLogPayload{
		Message:  entry.TextPayload,
		Data:     map[string]any{},
		Platform: entry.ResourceType,
		LogQuery: map[string]string{},
	}, true
}

// Terminal accepts everything, guaranteeing the chain is total.
type Terminal struct{}

func (r *Terminal) Name() string { return "none-terminal" }

func (r *Terminal) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	var data any = entry.JSONPayload
	if entry.JSONPayload == nil {
		data = map[string]any{}
	}
	return model.AppLogPayload{
		Message:  "Unexpected Error",
		Data:     data,
		Platform: entry.ResourceType,
		LogQuery: map[string]string{},
	}, true
}
