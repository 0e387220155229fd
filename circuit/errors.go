package circuit

import "fmt"

// ConfigError reports invalid construction parameters (widths, cutoffs,
// moduli). Builders return it synchronously at the call that detects the
// violation; invalid parameters are never silently clamped.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// NewConfigError formats a new ConfigError.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// FormatError reports a malformed Circuit, such as a gate referencing a qubit
// that belongs to no declared register.
type FormatError struct {
	GateIndex int // index of the offending gate, -1 if not gate-specific
	Reason    string
}

func (e *FormatError) Error() string {
	if e.GateIndex >= 0 {
		return fmt.Sprintf("malformed circuit: gate %d: %s", e.GateIndex, e.Reason)
	}
	return "malformed circuit: " + e.Reason
}
