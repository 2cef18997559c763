//go:build !objc_exception

package objc

const catchDefault = false
