//go:build !objc_verify

package objc

const verifyDefault = false
