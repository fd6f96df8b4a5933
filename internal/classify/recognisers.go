package classify

import "logrouter/internal/model"

// AuditLogType is the @type tag carried by cloud audit log payloads.
const AuditLogType = "type.googleapis.com/google.cloud.audit.AuditLog"

const unknownApplication = "[unknown]"

// copyWithout returns a copy of m with the given keys removed.
func copyWithout(m map[string]any, keys ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// GCEInstance recognises compute engine instance logs.
type GCEInstance struct{}

func (r *GCEInstance) Name() string { return "gce-instance" }

func (r *GCEInstance) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.ResourceType != "gce_instance" {
		return model.AppLogPayload{}, false
	}
	payload := model.AppLogPayload{
		Platform:            "gce_instance",
		LogQuery:            map[string]string{"resource.type": "gce_instance"},
		MostImportantValues: []string{"description", "event_type"},
	}
	if instanceID, ok := entry.ResourceLabels["instance_id"]; ok {
		payload.LogQuery["resource.labels.instance_id"] = instanceID
	}
	if entry.PayloadKind == model.PayloadText {
		payload.Message = entry.TextPayload
		payload.Data = ""
		payload.Application = applicationFromGCE(map[string]any{}, entry)
		return payload, true
	}
	body := entry.JSONPayload
	payload.Message, _ = model.AsString(body["message"])
	payload.Application = applicationFromGCE(body, entry)
	payload.Data = copyWithout(body, "message", "computer_name")
	return payload, true
}

func applicationFromGCE(body map[string]any, entry model.LogEntry) string {
	if name, ok := model.AsString(body["computer_name"]); ok && name != "" {
		return name
	}
	if name, ok := entry.Labels["instance_name"]; ok && name != "" {
		return name
	}
	if id, ok := entry.ResourceLabels["instance_id"]; ok && id != "" {
		return id
	}
	return unknownApplication
}

// CloudFunction recognises cloud function logs.
type CloudFunction struct{}

func (r *CloudFunction) Name() string { return "cloud-function" }

func (r *CloudFunction) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.ResourceType != "cloud_function" {
		return model.AppLogPayload{}, false
	}
	message, data := messageAndData(entry)
	application := entry.ResourceLabels["function_name"]
	if application == "" {
		application = unknownApplication
	}
	return model.AppLogPayload{
		Message:     message,
		Data:        data,
		Platform:    "cloud_function",
		Application: application,
		LogQuery:    map[string]string{"resource.type": "cloud_function"},
	}, true
}

// CloudRunRevision recognises cloud run revision logs.
type CloudRunRevision struct{}

func (r *CloudRunRevision) Name() string { return "cloud-run-revision" }

func (r *CloudRunRevision) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.ResourceType != "cloud_run_revision" {
		return model.AppLogPayload{}, false
	}
	message, data := messageAndData(entry)
	logQuery := map[string]string{"resource.type": "cloud_run_revision"}
	application := entry.ResourceLabels["service_name"]
	if application == "" {
		application = unknownApplication
	} else {
		logQuery["resource.labels.service_name"] = application
	}
	return model.AppLogPayload{
		Message:     message,
		Data:        data,
		Platform:    "cloud_run_revision",
		Application: application,
		LogQuery:    logQuery,
	}, true
}

// messageAndData derives the message and data for platforms whose payload
// has no shape of its own: structured payloads are forwarded as data with
// a placeholder message, text payloads become the message.
func messageAndData(entry model.LogEntry) (string, any) {
	switch entry.PayloadKind {
	case model.PayloadJSON:
		return "Unknown Error (see data)", entry.JSONPayload
	case model.PayloadText:
		return entry.TextPayload, ""
	default:
		return "Unknown Error", ""
	}
}

// GAEApp recognises app engine logs.
type GAEApp struct{}

func (r *GAEApp) Name() string { return "gae-app" }

func (r *GAEApp) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.ResourceType != "gae_app" {
		return model.AppLogPayload{}, false
	}
	body := entry.JSONPayload
	if body == nil {
		body = map[string]any{}
	}
	message, ok := model.AsString(body["message"])
	if !ok || message == "" {
		message = firstLineLogMessage(body)
	}
	if message == "" {
		message = "Unknown error"
	}
	application := entry.ResourceLabels["module_id"]
	if application == "" {
		application = unknownApplication
	}
	return model.AppLogPayload{
		Message:     message,
		Data:        copyWithout(body, "moduleId", "message", "line"),
		Platform:    "gae_app",
		Application: application,
		LogQuery:    map[string]string{"resource.type": "gae_app"},
	}, true
}

func firstLineLogMessage(body map[string]any) string {
	lines, ok := body["line"].([]any)
	if !ok || len(lines) == 0 {
		return ""
	}
	first, ok := model.AsMap(lines[0])
	if !ok {
		return ""
	}
	message, _ := model.AsString(first["logMessage"])
	return message
}

// AuditLog recognises cloud audit log payloads by their @type tag.
type AuditLog struct{}

func (r *AuditLog) Name() string { return "audit-log" }

func (r *AuditLog) Recognise(entry model.LogEntry) (model.AppLogPayload, bool) {
	if entry.PayloadKind != model.PayloadJSON {
		return model.AppLogPayload{}, false
	}
	typeTag, _ := model.AsString(entry.JSONPayload["@type"])
	if typeTag != AuditLogType {
		return model.AppLogPayload{}, false
	}
	statusMessage := ""
	if status, ok := model.AsMap(entry.JSONPayload["status"]); ok {
		statusMessage, _ = model.AsString(status["message"])
	}
	return model.AppLogPayload{
		Message:     "[AuditLog] " + statusMessage,
		Data:        entry.JSONPayload,
		Platform:    entry.ResourceType,
		Application: unknownApplication,
		LogQuery:    map[string]string{"protoPayload.@type": AuditLogType},
		MostImportantValues: []string{
			"serviceName",
			"methodName",
			"requestMetadata.callerIp",
			"requestMetadata.callerSuppliedUserAgent",
			"requestMetadata.requestAttributes.path",
			"requestMetadata.requestAttributes.host",
			"requestMetadata.requestAttributes.time",
			"httpRequest.requestUrl",
		},
	}, true
}
