// Package lifecycle holds process-wide lifecycle constants shared by fx hooks.
package lifecycle

import "time"

// DefaultTimeout bounds start and stop hooks (DB ping, server shutdown).
const DefaultTimeout = 10 * time.Second
