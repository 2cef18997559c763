//go:build linux || freebsd

package objc

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"runtime"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	"github.com/zephyrtronium/objc/internal/ffi"
)

// gnustepObjC lists the locations tried for the GNUstep runtime library, in
// order. The OBJC_LIBRARY environment variable replaces the list.
var gnustepObjC = []string{
	"libobjc.so.4",
	"/usr/lib/libobjc.so.4",
	"/usr/local/lib/libobjc.so.4",
	"/usr/lib/x86_64-linux-gnu/libobjc.so.4",
	"/usr/lib/aarch64-linux-gnu/libobjc.so.4",
	"/usr/lib/i386-linux-gnu/libobjc.so.4",
	"/usr/lib/arm-linux-gnueabihf/libobjc.so.4",
	"libobjc.so",
}

// gnustepRuntime is the Backend for the GNUstep Objective-C runtime. There is
// no objc_msgSend family; methods are looked up with objc_msg_lookup and
// their implementations called directly, so the dispatch entry is unused.
type gnustepRuntime struct {
	nativeLib
	objc_msg_lookup       func(receiver ID, sel Sel) uintptr
	objc_msg_lookup_super func(sup *Super, sel Sel) uintptr
}

func openNative(log *slog.Logger) (Backend, error) {
	objc, path, err := openGNUstep(log)
	if err != nil {
		return nil, err
	}
	libcName := "libc.so.6"
	if runtime.GOOS == "freebsd" {
		libcName = "libc.so.7"
	}
	libc, err := purego.Dlopen(libcName, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("objc: opening %s: %w", libcName, err)
	}
	rt := new(gnustepRuntime)
	if err := rt.load(objc, libc); err != nil {
		return nil, err
	}
	if err := bind(&rt.objc_msg_lookup, objc, "objc_msg_lookup"); err != nil {
		return nil, err
	}
	if err := bind(&rt.objc_msg_lookup_super, objc, "objc_msg_lookup_super"); err != nil {
		return nil, err
	}
	log.Debug("opened Objective-C runtime", slog.String("path", path), slog.String("arch", HostArch.String()))
	return rt, nil
}

// openGNUstep loads the first usable runtime library.
func openGNUstep(log *slog.Logger) (uintptr, string, error) {
	candidates := gnustepObjC
	if p := os.Getenv("OBJC_LIBRARY"); p != "" {
		candidates = []string{p}
	}
	var errs []error
	for _, path := range candidates {
		// Bare sonames go through the dynamic linker's search.
		if filepath.IsAbs(path) {
			if err := unix.Access(path, unix.R_OK); err != nil {
				errs = append(errs, fmt.Errorf("%s is not readable: %w", path, err))
				continue
			}
		}
		h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			log.Debug("could not open runtime candidate", slog.String("path", path), slog.Any("err", err))
			errs = append(errs, err)
			continue
		}
		return h, path, nil
	}
	if len(errs) == 0 {
		return 0, "", fmt.Errorf("%w: no libobjc among %v", ErrNoNativeRuntime, candidates)
	}
	return 0, "", fmt.Errorf("%w: %w", ErrNoNativeRuntime, errors.Join(errs...))
}

func (rt *gnustepRuntime) Invoke(c *Call) reflect.Value {
	var imp uintptr
	var sup *Super
	if c.IsSuper() {
		sup = &Super{Receiver: c.Receiver, Class: c.Superclass}
		imp = rt.objc_msg_lookup_super(sup, c.Sel)
	} else {
		imp = rt.objc_msg_lookup(c.Receiver, c.Sel)
	}
	args := make([]reflect.Value, 0, len(c.Args)+2)
	args = append(args, reflect.ValueOf(c.Receiver), reflect.ValueOf(c.Sel))
	args = append(args, c.Args...)
	r := ffi.Call(imp, c.Ret, args)
	runtime.KeepAlive(sup)
	return r
}
