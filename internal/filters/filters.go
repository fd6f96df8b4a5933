// Package filters holds the noise predicates run against every canonical
// record. A predicate returning true means "drop this event". Predicates
// never raise: a missing or mis-typed field makes the predicate false.
package filters

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"logrouter/internal/model"
)

// Filter is one named noise predicate.
type Filter struct {
	Name string
	Skip func(entry *model.ProcessedLogEntry) bool
}

// Chain is the ordered set of filters. The first filter to fire wins.
type Chain struct {
	filters []Filter
}

// NewChain builds a chain from the given filters, evaluated in order.
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: filters}
}

// DefaultChain returns the full filter set in its declared order, using
// the wall clock for the rate-limited invalid-login-attempt filter.
func DefaultChain() *Chain {
	return NewChain(DefaultFilters(time.Now)...)
}

// DefaultFilters returns the full filter set. The now function feeds the
// invalid-login-attempt rate limiter so tests can advance the clock.
func DefaultFilters(now func() time.Time) []Filter {
	return []Filter{
		Sandbox(),
		PreProdTrainingException(),
		OpsConfigAgent(),
		AuditLogStorage(),
		AgentConnect(),
		ReverseProxyLookupPolicy(),
		MetadataInvalidCharacter(),
		IPSpaceExhausted(),
		NoInstance(),
		InvalidLoginAttempt(rate.NewLimiter(rate.Every(loginAlertInterval), 1), now),
		RequestedEntityNotFound(),
		ExecuteSQL(),
		Paramiko(),
		Bootstrapper(),
		GenericNotFound(),
		PermissionDeniedByIAM(),
		OrgPolicyConstraintNotFound(),
		ServiceAccountKeyNotFound(),
		SocketException(),
		GetRole(),
		OSPatchMaintenance(),
		FluentBitMaintenance(),
		DormantAccounts(),
	}
}

// Skip returns the name of the first filter that fires, or ok=false when
// the record should be forwarded.
func (c *Chain) Skip(entry *model.ProcessedLogEntry) (string, bool) {
	for _, f := range c.filters {
		if f.Skip(entry) {
			return f.Name, true
		}
	}
	return "", false
}

// containsAny reports whether s contains at least one of the literals.
func containsAny(s string, literals ...string) bool {
	for _, lit := range literals {
		if strings.Contains(s, lit) {
			return true
		}
	}
	return false
}

// dataString resolves a dotted path inside the record's data mapping,
// returning "" unless the value exists and is a string.
func dataString(entry *model.ProcessedLogEntry, path string) string {
	raw := entry.DataJSON()
	if raw == nil {
		return ""
	}
	value := gjson.GetBytes(raw, path)
	if value.Type != gjson.String {
		return ""
	}
	return value.String()
}
