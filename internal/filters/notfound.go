package filters

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"logrouter/internal/model"
)

// noInstanceApplications are the cloud run services whose cold-start
// aborts are expected and retried by their callers.
var noInstanceApplications = map[string]bool{
	"create-daybatches":        true,
	"nisra-case-mover-trigger": true,
	"deliver-mi-hub-reports":   true,
}

const noInstanceSentinel = "The request was aborted because there was no available instance"

var genericNotFoundFetch = regexp.MustCompile(`generic::not_found: Failed to fetch "([0-9a-fA-F-]{36})"`)

// IPSpaceExhausted drops subnet exhaustion noise; capacity is managed by
// a scheduled resizer.
func IPSpaceExhausted() Filter {
	return Filter{
		Name: "ip-space-exhausted",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return strings.Contains(entry.Message, "IP_SPACE_EXHAUSTED")
		},
	}
}

// NoInstance drops cold-start aborts for the allow-listed cloud run
// services behind cloud functions.
func NoInstance() Filter {
	return Filter{
		Name: "no-instance",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == "cloud_run_revision" &&
				strings.Contains(entry.Message, noInstanceSentinel) &&
				noInstanceApplications[entry.Application] &&
				strings.Contains(entry.LogName, "cloudfunctions")
		},
	}
}

// RequestedEntityNotFound drops generic entity lookup failures.
func RequestedEntityNotFound() Filter {
	return Filter{
		Name: "requested-entity-not-found",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "Requested entity was not found")
		},
	}
}

// ExecuteSQL drops SQL execution errors surfaced by the database API;
// they are already alerted on by the owning service.
func ExecuteSQL() Filter {
	return Filter{
		Name: "execute-sql",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "Instances.ExecuteSql")
		},
	}
}

// Paramiko drops SSH transport chatter logged at error level.
func Paramiko() Filter {
	return Filter{
		Name: "paramiko",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return strings.Contains(entry.Message, "paramiko.transport")
		},
	}
}

// SocketException drops dropped-connection noise from instance agents.
func SocketException() Filter {
	return Filter{
		Name: "socket-exception",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "SocketException")
		},
	}
}

// GenericNotFound drops version and blob fetch misses: "latest" and
// "version_*" lookups, plus fetches of a bare UUID.
func GenericNotFound() Filter {
	return Filter{
		Name: "generic-not-found",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			if entry.Severity != "ERROR" {
				return false
			}
			if containsAny(entry.Message,
				`generic::not_found: Failed to fetch "latest`,
				`generic::not_found: Failed to fetch "version_`) {
				return true
			}
			m := genericNotFoundFetch.FindStringSubmatch(entry.Message)
			if m == nil {
				return false
			}
			return uuid.Validate(m[1]) == nil
		},
	}
}
