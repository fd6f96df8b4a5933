package filters

import (
	"strings"

	"logrouter/internal/model"
)

const productionProject = "ons-blaise-v2-prod"

// formalEnvironments are the projects whose logs are eligible for
// alerting at all. Anything else (sandboxes, spikes) is noise.
var formalEnvironments = map[string]bool{
	"ons-blaise-v2-prod":     true,
	"ons-blaise-v2-preprod":  true,
	"ons-blaise-v2-training": true,
	"ons-blaise-v2-dev":      true,
}

const questionnaireInstallSentinel = "AUDIT_LOG: Failed to install questionnaire"

// logProject extracts the project segment from a log name of the form
// projects/<project>/logs/<id>.
func logProject(logName string) string {
	parts := strings.Split(logName, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Sandbox drops logs whose project is not a formal environment.
func Sandbox() Filter {
	return Filter{
		Name: "sandbox",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			if entry.LogName == "" {
				return false
			}
			return !formalEnvironments[logProject(entry.LogName)]
		},
	}
}

// PreProdTrainingException drops every non-production log, with one
// exception: questionnaire install failures in preprod and training are
// kept.
func PreProdTrainingException() Filter {
	return Filter{
		Name: "preprod-training-exception",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			if entry.LogName == "" {
				return false
			}
			if strings.Contains(entry.LogName, productionProject) {
				return false
			}
			exempt := containsAny(entry.LogName, "ons-blaise-v2-preprod", "ons-blaise-v2-training") &&
				strings.Contains(entry.Message, questionnaireInstallSentinel)
			return !exempt
		},
	}
}
