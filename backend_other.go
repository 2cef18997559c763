//go:build !darwin && !linux && !freebsd

package objc

import "log/slog"

func openNative(log *slog.Logger) (Backend, error) {
	return nil, ErrNoNativeRuntime
}
