package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logrouter/internal/model"
)

func classifyDefault(t *testing.T, entry model.LogEntry) model.AppLogPayload {
	t.Helper()
	payload, err := DefaultChain().Classify(entry)
	require.NoError(t, err)
	return payload
}

func TestGCEInstance_StructuredPayload(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType:   "gce_instance",
		ResourceLabels: map[string]string{"instance_id": "458491889528639951"},
		PayloadKind:    model.PayloadJSON,
		JSONPayload: map[string]any{
			"message":       "disk is full",
			"computer_name": "blaise-gusty-mgmt",
			"description":   "no space left on device",
		},
	})

	assert.Equal(t, "disk is full", payload.Message)
	assert.Equal(t, "gce_instance", payload.Platform)
	assert.Equal(t, "blaise-gusty-mgmt", payload.Application)
	assert.Equal(t, map[string]any{"description": "no space left on device"}, payload.Data)
	assert.Equal(t, map[string]string{
		"resource.type":               "gce_instance",
		"resource.labels.instance_id": "458491889528639951",
	}, payload.LogQuery)
	assert.Equal(t, []string{"description", "event_type"}, payload.MostImportantValues)
}

func TestGCEInstance_TextPayload(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType: "gce_instance",
		PayloadKind:  model.PayloadText,
		TextPayload:  "plain text error",
	})

	assert.Equal(t, "plain text error", payload.Message)
	assert.Equal(t, "", payload.Data)
	assert.Equal(t, "[unknown]", payload.Application)
}

func TestGCEInstance_ApplicationFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		entry model.LogEntry
		want  string
	}{
		{
			name: "labels instance_name",
			entry: model.LogEntry{
				ResourceType: "gce_instance",
				Labels:       map[string]string{"instance_name": "blaise-gusty-data-entry-1"},
				PayloadKind:  model.PayloadJSON,
				JSONPayload:  map[string]any{"message": "x"},
			},
			want: "blaise-gusty-data-entry-1",
		},
		{
			name: "resource instance_id",
			entry: model.LogEntry{
				ResourceType:   "gce_instance",
				ResourceLabels: map[string]string{"instance_id": "12345"},
				PayloadKind:    model.PayloadJSON,
				JSONPayload:    map[string]any{"message": "x"},
			},
			want: "12345",
		},
		{
			name: "nothing known",
			entry: model.LogEntry{
				ResourceType: "gce_instance",
				PayloadKind:  model.PayloadJSON,
				JSONPayload:  map[string]any{"message": "x"},
			},
			want: "[unknown]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyDefault(t, tt.entry).Application)
		})
	}
}

func TestCloudFunction_PayloadKinds(t *testing.T) {
	base := model.LogEntry{
		ResourceType:   "cloud_function",
		ResourceLabels: map[string]string{"function_name": "dqs-upload-file"},
	}

	structured := base
	structured.PayloadKind = model.PayloadJSON
	structured.JSONPayload = map[string]any{"err": "boom"}
	payload := classifyDefault(t, structured)
	assert.Equal(t, "Unknown Error (see data)", payload.Message)
	assert.Equal(t, map[string]any{"err": "boom"}, payload.Data)
	assert.Equal(t, "dqs-upload-file", payload.Application)

	text := base
	text.PayloadKind = model.PayloadText
	text.TextPayload = "function crashed"
	payload = classifyDefault(t, text)
	assert.Equal(t, "function crashed", payload.Message)
	assert.Equal(t, "", payload.Data)

	none := base
	none.PayloadKind = model.PayloadNone
	payload = classifyDefault(t, none)
	assert.Equal(t, "Unknown Error", payload.Message)
}

func TestCloudRunRevision_ServiceNameHint(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType:   "cloud_run_revision",
		ResourceLabels: map[string]string{"service_name": "nisra-case-mover-processor"},
		PayloadKind:    model.PayloadText,
		TextPayload:    "aborted",
	})

	assert.Equal(t, "nisra-case-mover-processor", payload.Application)
	assert.Equal(t, map[string]string{
		"resource.type":                "cloud_run_revision",
		"resource.labels.service_name": "nisra-case-mover-processor",
	}, payload.LogQuery)
}

func TestCloudRunRevision_NoServiceName(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType: "cloud_run_revision",
		PayloadKind:  model.PayloadNone,
	})

	assert.Equal(t, "[unknown]", payload.Application)
	assert.Equal(t, map[string]string{"resource.type": "cloud_run_revision"}, payload.LogQuery)
}

func TestGAEApp_MessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{
			name: "direct message",
			body: map[string]any{"message": "boom"},
			want: "boom",
		},
		{
			name: "first line logMessage",
			body: map[string]any{"line": []any{map[string]any{"logMessage": "line boom"}}},
			want: "line boom",
		},
		{
			name: "nothing",
			body: map[string]any{"other": "x"},
			want: "Unknown error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := classifyDefault(t, model.LogEntry{
				ResourceType: "gae_app",
				PayloadKind:  model.PayloadJSON,
				JSONPayload:  tt.body,
			})
			assert.Equal(t, tt.want, payload.Message)
		})
	}
}

func TestGAEApp_StripsKeysFromData(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType:   "gae_app",
		ResourceLabels: map[string]string{"module_id": "dqs"},
		PayloadKind:    model.PayloadJSON,
		JSONPayload: map[string]any{
			"message":  "boom",
			"moduleId": "dqs",
			"line":     []any{},
			"trace":    "abc",
		},
	})

	assert.Equal(t, "dqs", payload.Application)
	assert.Equal(t, map[string]any{"trace": "abc"}, payload.Data)
}

func TestAuditLog(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType: "audited_resource",
		PayloadKind:  model.PayloadJSON,
		JSONPayload: map[string]any{
			"@type":  AuditLogType,
			"status": map[string]any{"message": "Permission Denied."},
		},
	})

	assert.Equal(t, "[AuditLog] Permission Denied.", payload.Message)
	assert.Equal(t, "audited_resource", payload.Platform)
	assert.Equal(t, "[unknown]", payload.Application)
	assert.Equal(t, map[string]string{"protoPayload.@type": AuditLogType}, payload.LogQuery)
	assert.Contains(t, payload.MostImportantValues, "serviceName")
	assert.Contains(t, payload.MostImportantValues, "requestMetadata.callerIp")
}

func TestStructuredFallback(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		ResourceType: "some_new_platform",
		PayloadKind:  model.PayloadJSON,
		JSONPayload:  map[string]any{"oddity": true},
	})

	assert.Equal(t, "Unknown JSON Error", payload.Message)
	assert.Equal(t, map[string]any{"oddity": true}, payload.Data)
	assert.Equal(t, "some_new_platform", payload.Platform)
}

func TestTextFallback(t *testing.T) {
	payload := classifyDefault(t, model.LogEntry{
		PayloadKind: model.PayloadText,
		TextPayload: "just text",
	})

	assert.Equal(t, "just text", payload.Message)
	assert.Equal(t, map[string]any{}, payload.Data)
}

func TestTerminal_AlwaysAccepts(t *testing.T) {
	obj := map[string]any{"severity": "ERROR"}
	payload := classifyDefault(t, model.LogEntry{
		PayloadKind: model.PayloadNone,
		JSONPayload: obj,
	})

	assert.Equal(t, "Unexpected Error", payload.Message)
	assert.Equal(t, obj, payload.Data)
}

func TestChainWithoutTerminalReportsNoMatch(t *testing.T) {
	chain := NewChain(&GCEInstance{}, &CloudFunction{})

	_, err := chain.Classify(model.LogEntry{ResourceType: "gae_app"})

	var noMatch *NoMatchError
	assert.ErrorAs(t, err, &noMatch)
}
