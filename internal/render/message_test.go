package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logrouter/internal/model"
)

const testProject = "ons-blaise-v2-prod"

func TestBuild_Title(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "disk is full", Severity: "ERROR"}

	message := Build(entry, testProject)

	assert.Equal(t, "ERROR: disk is full", message.Title)
}

func TestBuild_TitleUnknownSeverity(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "This is a raw string message"}

	message := Build(entry, testProject)

	assert.Equal(t, "UNKNOWN: This is a raw string message", message.Title)
	assert.Equal(t, "{}", message.Content)
}

func TestBuild_TitleTruncation(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message:  strings.Repeat("x", 200),
		Severity: "ERROR",
	}

	message := Build(entry, testProject)

	assert.Len(t, message.Title, 148)
	assert.True(t, strings.HasSuffix(message.Title, "..."))
	// Truncation sets the full-message flag, so the content carries the
	// whole message.
	assert.Contains(t, message.Content, "**Error Message**")
	assert.Contains(t, message.Content, strings.Repeat("x", 200))
}

func TestBuild_TitleUsesFirstLine(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message:  "first line\nsecond line",
		Severity: "WARNING",
		Data:     map[string]any{"detail": "x"},
	}

	message := Build(entry, testProject)

	assert.Equal(t, "WARNING: first line", message.Title)
	assert.Contains(t, message.Content, "**Error Message**\nfirst line\nsecond line\n\n**Extra Content**\n")
}

func TestBuild_ShortSingleLineHasNoPrefix(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message:  "short",
		Severity: "ERROR",
		Data:     map[string]any{"detail": "x"},
	}

	message := Build(entry, testProject)

	assert.NotContains(t, message.Content, "**Error Message**")
}

func TestBuild_Fields(t *testing.T) {
	ts := time.Date(2025, 7, 25, 0, 30, 0, 0, time.UTC)
	entry := &model.ProcessedLogEntry{
		Message:     "boom",
		Severity:    "ERROR",
		Platform:    "gce_instance",
		Application: "blaise-gusty-mgmt",
		Timestamp:   &ts,
	}

	message := Build(entry, testProject)

	require.Len(t, message.Fields, 4)
	assert.Equal(t, Field{Label: "Platform", Value: "gce_instance"}, message.Fields[0])
	assert.Equal(t, Field{Label: "Application", Value: "blaise-gusty-mgmt"}, message.Fields[1])
	// 00:30 UTC renders as 01:30 London during British Summer Time.
	assert.Equal(t, Field{Label: "Log Time", Value: "2025-07-25 01:30:00"}, message.Fields[2])
	assert.Equal(t, Field{Label: "Project", Value: testProject}, message.Fields[3])
}

func TestBuild_MissingFieldsRenderUnknown(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "boom"}

	message := Build(entry, testProject)

	assert.Equal(t, "unknown", message.Fields[0].Value)
	assert.Equal(t, "unknown", message.Fields[1].Value)
	assert.Equal(t, "unknown", message.Fields[2].Value)
}

func TestBuild_ContentStringData(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "boom", Data: "plain detail"}

	assert.Equal(t, "plain detail", Build(entry, testProject).Content)
}

func TestBuild_ContentMapDataIndented(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message: "boom",
		Data:    map[string]any{"description": "no space left"},
	}

	assert.Equal(t, "{\n  \"description\": \"no space left\"\n}", Build(entry, testProject).Content)
}

func TestBuild_MostImportantValues(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message: "boom",
		Data: map[string]any{
			"description": "no space left",
			"event_type":  "disk",
			"noise":       "ignored",
		},
		MostImportantValues: []string{"description", "event_type", "missing.path"},
	}

	content := Build(entry, testProject).Content

	assert.Equal(t, "description: no space left\nevent_type: disk", content)
}

func TestBuild_MostImportantValuesNoneResolveFallsBack(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message:             "boom",
		Data:                map[string]any{"noise": "x"},
		MostImportantValues: []string{"missing"},
	}

	assert.Equal(t, "{\n  \"noise\": \"x\"\n}", Build(entry, testProject).Content)
}

func TestBuild_ContentLengthCap(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "boom", Data: strings.Repeat("y", 4000)}

	content := Build(entry, testProject).Content

	assert.True(t, strings.HasSuffix(content, "...\n[truncated]"))
	assert.LessOrEqual(t, len(content), 2900+len("...\n[truncated]"))
}

func TestBuild_ContentLineCap(t *testing.T) {
	entry := &model.ProcessedLogEntry{
		Message: "boom",
		Data:    strings.Repeat("line\n", 14),
	}

	content := Build(entry, testProject).Content

	assert.True(t, strings.HasSuffix(content, "...\n[truncated]"))
	body := strings.TrimSuffix(content, "...\n[truncated]")
	assert.Len(t, strings.Split(body, "\n"), 10)
}

func TestBuild_FootnoteWithTimestamp(t *testing.T) {
	ts := time.Date(2025, 7, 25, 0, 30, 0, 0, time.UTC)
	entry := &model.ProcessedLogEntry{
		Message:   "boom",
		Timestamp: &ts,
		LogQuery:  map[string]string{"resource.type": "gce_instance"},
	}

	footnote := Build(entry, testProject).Footnote

	assert.Contains(t, footnote, "*Next Steps*")
	assert.Contains(t, footnote, "3. <https://console.cloud.google.com/logs/query")
	assert.Contains(t, footnote, " | View the logs>")
	assert.Contains(t, footnote, defaultPlaybook)
}

func TestBuild_FootnoteWithoutTimestamp(t *testing.T) {
	entry := &model.ProcessedLogEntry{Message: "boom"}

	footnote := Build(entry, testProject).Footnote

	assert.Contains(t, footnote, "3. Determine the cause of the error")
}

func TestPlaybookSelection(t *testing.T) {
	tests := []struct {
		name  string
		entry *model.ProcessedLogEntry
		want  string
	}{
		{
			name:  "data delivery application",
			entry: &model.ProcessedLogEntry{Application: "deliver-mi-hub-reports"},
			want:  dataDeliveryPlaybook,
		},
		{
			name:  "totalmobile application",
			entry: &model.ProcessedLogEntry{Application: "totalmobile-gateway"},
			want:  totalMobilePlaybook,
		},
		{
			name:  "nisra application",
			entry: &model.ProcessedLogEntry{Application: "nisra-case-mover-trigger"},
			want:  nisraPlaybook,
		},
		{
			name: "scheduler job hint",
			entry: &model.ProcessedLogEntry{
				LogQuery: map[string]string{"resource.type": "cloud_scheduler_job"},
			},
			want: schedulerPlaybook,
		},
		{
			name:  "default",
			entry: &model.ProcessedLogEntry{Application: "anything-else"},
			want:  defaultPlaybook,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, playbookFor(tt.entry))
		})
	}
}

func TestBuildLogLink(t *testing.T) {
	ts := time.Date(2025, 7, 25, 0, 30, 0, 0, time.UTC)

	link := BuildLogLink(map[string]string{"resource.type": "gce_instance"}, ts, testProject)

	want := "https://console.cloud.google.com/logs/query" +
		";query=resource.type:%22gce_instance%22%20severity%3D%28WARNING%20OR%20ERROR%20OR%20CRITICAL%20OR%20ALERT%20OR%20EMERGENCY%20OR%20DEBUG%29" +
		";timeRange=2025-07-25T00:30:00Z%2F2025-07-25T00:30:00Z--PT1M" +
		"?referrer=search&project=ons-blaise-v2-prod"
	assert.Equal(t, want, link)
}

func TestBuildLogLink_ClauseOrderDeterministic(t *testing.T) {
	ts := time.Date(2025, 7, 25, 0, 30, 0, 0, time.UTC)
	query := map[string]string{
		"resource.type":               "gce_instance",
		"resource.labels.instance_id": "123",
	}

	link := BuildLogLink(query, ts, testProject)

	idx := strings.Index(link, "resource.labels.instance_id")
	idx2 := strings.Index(link, "resource.type")
	assert.Greater(t, idx2, idx, "clauses should be sorted by key")
}

func TestBadFormat(t *testing.T) {
	message := BadFormat(map[string]any{"attributes": map[string]any{}}, testProject)

	assert.Equal(t, "Error with bad format received", message.Title)
	assert.Equal(t, "unknown", message.Fields[0].Value)
	assert.Equal(t, "unknown", message.Fields[1].Value)
	assert.Equal(t, "unknown", message.Fields[2].Value)
	assert.Equal(t, testProject, message.Fields[3].Value)
	assert.Contains(t, message.Content, "\"attributes\"")
	assert.Contains(t, message.Footnote, "Extend the alerting system")
}
