package filters

import (
	"strings"

	"logrouter/internal/maintenance"
	"logrouter/internal/model"
)

const gceInstancePlatform = "gce_instance"

// OpsConfigAgent drops OSConfigAgent errors raised on compute instances;
// the agent retries on its own.
func OpsConfigAgent() Filter {
	return Filter{
		Name: "ops-config-agent",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "OSConfigAgent Error")
		},
	}
}

// AgentConnect drops transient agent reconnect noise from compute
// instances.
func AgentConnect() Filter {
	return Filter{
		Name: "agent-connect",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "Agent connect error:")
		},
	}
}

// ReverseProxyLookupPolicy drops reverse proxy policy lookup failures on
// compute instances.
func ReverseProxyLookupPolicy() Filter {
	return Filter{
		Name: "reverse-proxy-lookup-policy",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				strings.Contains(entry.Message, "Reverse proxy") &&
				strings.Contains(entry.Message, "failed to lookup policy")
		},
	}
}

// MetadataInvalidCharacter drops metadata watcher decode noise.
func MetadataInvalidCharacter() Filter {
	return Filter{
		Name: "metadata-invalid-character",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				strings.Contains(entry.Message, "Error watching metadata") &&
				strings.Contains(entry.Message, "invalid character")
		},
	}
}

// Bootstrapper drops MTLS credential bootstrapper errors. The sentinel
// keeps the upstream agent's spelling.
func Bootstrapper() Filter {
	return Filter{
		Name: "bootstrapper",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "MTLS_MDS_Credential_Boostrapper")
		},
	}
}

// OSPatchMaintenance drops OS patch job errors raised while the weekly
// maintenance window is open.
func OSPatchMaintenance() Filter {
	return Filter{
		Name: "os-patch-maintenance",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				maintenance.InWindow(entry.Timestamp) &&
				strings.Contains(entry.LogName, "OSConfigAgent")
		},
	}
}

// FluentBitMaintenance drops ops-agent fluent-bit errors raised while the
// weekly maintenance window is open.
func FluentBitMaintenance() Filter {
	return Filter{
		Name: "fluent-bit-maintenance",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == gceInstancePlatform &&
				maintenance.InWindow(entry.Timestamp) &&
				strings.Contains(entry.LogName, "ops-agent-fluent-bit") &&
				containsAny(entry.Message, "No error", "broken connection")
		},
	}
}
