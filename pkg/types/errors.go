// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConfigurationError reports an invalid pipeline parameter. It is always
// surfaced before any molecule is processed.
type ConfigurationError struct {
	// Param names the offending parameter (flag or config key).
	Param string

	// Reason says what is wrong with the value.
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}
