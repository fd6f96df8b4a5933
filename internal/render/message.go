// Package render assembles the outbound chat message for a canonical log
// record: capped title, header fields, shaped content and the next-steps
// footnote.
package render

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"logrouter/internal/maintenance"
	"logrouter/internal/model"
)

const (
	maxTitleLen     = 150
	titleCutLen     = 145
	maxContentLen   = 2900
	maxContentLines = 10

	truncationMark = "...\n[truncated]"
)

// Field is one ordered key/value pair in the message header.
type Field struct {
	Label string
	Value string
}

// ChatMessage is the rendered outbound alert.
type ChatMessage struct {
	Title    string
	Fields   []Field
	Content  string
	Footnote string
}

// Build renders the canonical record into a chat message for the given
// project.
func Build(entry *model.ProcessedLogEntry, project string) ChatMessage {
	title, truncated := buildTitle(entry.Severity, entry.Message)
	fullMessage := truncated || strings.Contains(entry.Message, "\n")
	return ChatMessage{
		Title:    title,
		Fields:   buildFields(entry, project),
		Content:  buildContent(entry, fullMessage),
		Footnote: buildFootnote(entry, project),
	}
}

func buildTitle(severity, message string) (string, bool) {
	if severity == "" {
		severity = "UNKNOWN"
	}
	firstLine, _, _ := strings.Cut(message, "\n")
	title := severity + ": " + firstLine
	runes := []rune(title)
	if len(runes) <= maxTitleLen {
		return title, false
	}
	return string(runes[:titleCutLen]) + "...", true
}

func buildFields(entry *model.ProcessedLogEntry, project string) []Field {
	return []Field{
		{Label: "Platform", Value: orUnknown(entry.Platform)},
		{Label: "Application", Value: orUnknown(entry.Application)},
		{Label: "Log Time", Value: formatLogTime(entry)},
		{Label: "Project", Value: project},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func formatLogTime(entry *model.ProcessedLogEntry) string {
	if entry.Timestamp == nil {
		return "unknown"
	}
	return entry.Timestamp.In(maintenance.Location()).Format("2006-01-02 15:04:05")
}

func buildContent(entry *model.ProcessedLogEntry, fullMessage bool) string {
	body := importantValues(entry)
	if body == "" {
		body = Stringify(entry.Data)
	}
	content := body
	if fullMessage {
		content = "**Error Message**\n" + entry.Message + "\n\n**Extra Content**\n" + body
	}
	return capContent(content)
}

// importantValues projects the record's data mapping onto its
// most-important-values paths. Returns "" when the projection does not
// apply or resolves nothing, so the caller falls back to the full
// stringification.
func importantValues(entry *model.ProcessedLogEntry) string {
	if len(entry.MostImportantValues) == 0 {
		return ""
	}
	raw := entry.DataJSON()
	if raw == nil {
		return ""
	}
	var lines []string
	for _, path := range entry.MostImportantValues {
		value := gjson.GetBytes(raw, path)
		if !value.Exists() {
			continue
		}
		lines = append(lines, path+": "+value.String())
	}
	return strings.Join(lines, "\n")
}

// Stringify renders data for the message body: strings pass through,
// mappings (and absent data) become indented JSON.
func Stringify(data any) string {
	if s, ok := model.AsString(data); ok {
		return s
	}
	m, ok := model.AsMap(data)
	if !ok {
		m = map[string]any{}
	}
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(out)
}

func capContent(content string) string {
	truncated := false
	if lines := strings.Split(content, "\n"); len(lines) > maxContentLines {
		content = strings.Join(lines[:maxContentLines], "\n")
		truncated = true
	}
	if runes := []rune(content); len(runes) > maxContentLen {
		content = string(runes[:maxContentLen])
		truncated = true
	}
	if truncated {
		content += truncationMark
	}
	return content
}

// BadFormat renders the distinguished alert for an event whose envelope
// could not be decoded.
func BadFormat(event map[string]any, project string) ChatMessage {
	return ChatMessage{
		Title: "Error with bad format received",
		Fields: []Field{
			{Label: "Platform", Value: "unknown"},
			{Label: "Application", Value: "unknown"},
			{Label: "Log Time", Value: "unknown"},
			{Label: "Project", Value: project},
		},
		Content: Stringify(anyMap(event)),
		Footnote: "This event does not match the expected pub/sub envelope.\n" +
			"Extend the alerting system to handle it: <" + defaultPlaybook + " | Managing Prod Alerts>",
	}
}

func anyMap(event map[string]any) any {
	if event == nil {
		return map[string]any{}
	}
	return event
}
