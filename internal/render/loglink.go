package render

import (
	"sort"
	"strings"
	"time"
)

const severityClause = `severity=(WARNING OR ERROR OR CRITICAL OR ALERT OR EMERGENCY OR DEBUG)`

// BuildLogLink constructs the console logs-query URL for the given query
// hints, centred on a one-minute range starting at ts.
func BuildLogLink(logQuery map[string]string, ts time.Time, project string) string {
	keys := make([]string, 0, len(logQuery))
	for k := range logQuery {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		clauses = append(clauses, k+`:"`+logQuery[k]+`"`)
	}
	clauses = append(clauses, severityClause)

	stamp := ts.UTC().Format(time.RFC3339)
	return "https://console.cloud.google.com/logs/query" +
		";query=" + percentEncode(strings.Join(clauses, " ")) +
		";timeRange=" + stamp + "%2F" + stamp + "--PT1M" +
		"?referrer=search&project=" + project
}

// percentEncode escapes s for the query segment, leaving '/', '@' and ':'
// unescaped alongside the unreserved characters.
func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9',
			c == '-', c == '_', c == '.', c == '~', c == '/', c == '@', c == ':':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
	}
	return b.String()
}
