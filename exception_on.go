//go:build objc_exception

package objc

// Building with -tags=objc_exception makes DefaultConfig intercept foreign
// exceptions raised during message sends.

const catchDefault = true
