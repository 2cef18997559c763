//go:build objc_verify

package objc

// Building with -tags=objc_verify makes DefaultConfig verify every message
// before sending it.

const verifyDefault = true
