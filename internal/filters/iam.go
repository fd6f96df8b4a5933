package filters

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"logrouter/internal/model"
)

// loginAlertInterval is the minimum gap between invalid-login-attempt
// alerts from one process.
const loginAlertInterval = 5 * time.Minute

const invalidLoginSentinel = "You don't have permission to access this instance"

const dormantAccountsEmail = "dormant-accounts-manager@ons-gcp-monitoring-prod.iam.gserviceaccount.com"

var orgPolicyConstraints = []string{
	"constraints/compute.requireOsLogin",
	"constraints/compute.disableSerialPortAccess",
}

var serviceAccountKeyPattern = regexp.MustCompile(`[Ss]ervice account key [0-9a-f]{40} does not exist`)

// AuditLogStorage drops audit log records for the cloud storage service;
// bucket access denials are handled elsewhere.
func AuditLogStorage() Filter {
	return Filter{
		Name: "audit-log-storage",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return strings.HasPrefix(entry.Message, "[AuditLog]") &&
				dataString(entry, "serviceName") == "storage.googleapis.com"
		},
	}
}

// InvalidLoginAttempt rate-limits invalid login alerts to one per five
// minutes per process. The limiter token is only spent once the other
// conditions match, so unrelated records never consume it.
func InvalidLoginAttempt(limiter *rate.Limiter, now func() time.Time) Filter {
	var mu sync.Mutex
	return Filter{
		Name: "invalid-login-attempt",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			if entry.Severity != "ERROR" || !strings.Contains(entry.Message, invalidLoginSentinel) {
				return false
			}
			mu.Lock()
			defer mu.Unlock()
			return !limiter.AllowN(now(), 1)
		},
	}
}

// PermissionDeniedByIAM drops IAM denial noise.
func PermissionDeniedByIAM() Filter {
	return Filter{
		Name: "permission-denied-by-iam",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "Permission denied by IAM")
		},
	}
}

// OrgPolicyConstraintNotFound drops org policy lookups for the two
// constraints the platform never defines.
func OrgPolicyConstraintNotFound() Filter {
	return Filter{
		Name: "org-policy-constraint-not-found",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			if entry.Platform != "audited_resource" || entry.Severity != "ERROR" {
				return false
			}
			if dataString(entry, "serviceName") != "orgpolicy.googleapis.com" {
				return false
			}
			if !containsAny(entry.Message, "Requested entity was not found", "constraint not found") {
				return false
			}
			return containsAny(entry.Message, orgPolicyConstraints...)
		},
	}
}

// ServiceAccountKeyNotFound drops lookups of already-rotated service
// account keys.
func ServiceAccountKeyNotFound() Filter {
	return Filter{
		Name: "service-account-key-not-found",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				serviceAccountKeyPattern.MatchString(entry.Message)
		},
	}
}

// GetRole drops role lookup noise from IAM.
func GetRole() Filter {
	return Filter{
		Name: "get-role",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Severity == "ERROR" &&
				strings.Contains(entry.Message, "GetRole")
		},
	}
}

// DormantAccounts drops denials generated by the central dormant accounts
// scanner probing this project's service accounts.
func DormantAccounts() Filter {
	return Filter{
		Name: "dormant-accounts",
		Skip: func(entry *model.ProcessedLogEntry) bool {
			return entry.Platform == "service_account" &&
				entry.Severity == "ERROR" &&
				dataString(entry, "authenticationInfo.principalEmail") == dormantAccountsEmail
		},
	}
}
