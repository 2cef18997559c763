//go:build linux || freebsd

package objc

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func TestOpenGNUstepUnreadable(t *testing.T) {
	path := t.TempDir() + "/libobjc.so.4"
	t.Setenv("OBJC_LIBRARY", path)
	_, _, err := openGNUstep(discard)
	if !errors.Is(err, ErrNoNativeRuntime) {
		t.Errorf("wrong error: want ErrNoNativeRuntime, have %v", err)
	}
	if !errors.Is(err, unix.ENOENT) {
		t.Errorf("error doesn't carry the access failure: %v", err)
	}
	if !strings.Contains(err.Error(), path+" is not readable") {
		t.Errorf("error doesn't name the skipped path: %v", err)
	}
}
