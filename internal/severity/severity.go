// Package severity provides severity level constants and utilities
// for issues reported by the checker and parser packages.
//
// All four severity levels are exported by each public package that uses them:
//   - SeverityInfo: Informational messages about choices made
//   - SeverityWarning: Best-practice violations or recommendations
//   - SeverityError: Violations that make the stack configuration invalid
//   - SeverityCritical: Artifacts that cannot be processed at all
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of an issue found while auditing
// stack configuration artifacts.
type Severity int

const (
	// SeverityError indicates a violation that makes the stack configuration invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates best-practice violations or recommendations
	// that don't prevent the stack from starting but should be addressed.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates an artifact that cannot be processed at all,
	// such as a compose file that fails to decode.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
