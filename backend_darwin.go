package objc

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"

	"github.com/ebitengine/purego"

	"github.com/zephyrtronium/objc/internal/ffi"
)

const (
	appleObjC = "/usr/lib/libobjc.A.dylib"
	appleLibc = "/usr/lib/libSystem.B.dylib"
)

// appleRuntime is the Backend for the Apple Objective-C runtime. Messages are
// sent through the objc_msgSend family, with the variant chosen by the
// dispatch plan of the return type.
type appleRuntime struct {
	nativeLib
	entries [entryCount]uintptr
}

func openNative(log *slog.Logger) (Backend, error) {
	objc, err := purego.Dlopen(appleObjC, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("objc: opening %s: %w", appleObjC, err)
	}
	libc, err := purego.Dlopen(appleLibc, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("objc: opening %s: %w", appleLibc, err)
	}
	rt := new(appleRuntime)
	if err := rt.load(objc, libc); err != nil {
		return nil, err
	}
	for e := EntryPlain; e < entryCount; e++ {
		fn, err := purego.Dlsym(objc, e.String())
		if err != nil {
			// arm64 has no stret or fpret variants.
			log.Debug("dispatch entry point unavailable", slog.String("entry", e.String()), slog.String("arch", HostArch.String()))
			continue
		}
		rt.entries[e] = fn
	}
	if rt.entries[EntryPlain] == 0 || rt.entries[EntrySuper] == 0 {
		return nil, fmt.Errorf("objc: %s lacks %v or %v", appleObjC, EntryPlain, EntrySuper)
	}
	log.Debug("opened Objective-C runtime", slog.String("path", appleObjC), slog.String("arch", HostArch.String()))
	return rt, nil
}

func (rt *appleRuntime) Invoke(c *Call) reflect.Value {
	fn := rt.entries[c.Entry]
	if fn == 0 {
		panic(fmt.Errorf("objc: %v is not available on %v", c.Entry, HostArch))
	}
	args := make([]reflect.Value, 0, len(c.Args)+2)
	var sup *Super
	if c.IsSuper() {
		sup = &Super{Receiver: c.Receiver, Class: c.Superclass}
		args = append(args, reflect.ValueOf(sup))
	} else {
		args = append(args, reflect.ValueOf(c.Receiver))
	}
	args = append(args, reflect.ValueOf(c.Sel))
	args = append(args, c.Args...)
	r := ffi.Call(fn, c.Ret, args)
	runtime.KeepAlive(sup)
	return r
}
