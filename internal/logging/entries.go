// pattern: Functional Core

package logging

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// LogEntry is one decoded log line.
type LogEntry struct {
	Timestamp time.Time      // When the log was created
	Level     string         // DEBUG, INFO, WARN, ERROR
	Scope     string         // Logger scope (e.g., "fit", "gate")
	Message   string         // Log message
	Fields    map[string]any // Additional structured fields
}

// String renders the entry as "15:04:05 LEVEL [scope] msg k=v ...", fields
// in key order.
func (e LogEntry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Timestamp.Format("15:04:05"))
	sb.WriteString(" ")
	sb.WriteString(e.Level)
	sb.WriteString(" [")
	sb.WriteString(e.Scope)
	sb.WriteString("] ")
	sb.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Fields[k])
	}
	return sb.String()
}

// IsProblem reports whether the entry is a warning or an error.
func (e LogEntry) IsProblem() bool {
	return e.Level == "WARN" || e.Level == "ERROR"
}

// MatchesScope reports whether the entry's scope starts with prefix.
// An empty prefix matches everything.
func (e LogEntry) MatchesScope(prefix string) bool {
	return prefix == "" || strings.HasPrefix(e.Scope, prefix)
}

// ParseLevel normalizes a level string to upper case, "INFO" when unknown.
func ParseLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "DEBUG"
	case "info":
		return "INFO"
	case "warn", "warning":
		return "WARN"
	case "error":
		return "ERROR"
	default:
		return "INFO"
	}
}
