//go:build darwin || linux || freebsd

package ffi

import (
	"reflect"
	"sync"

	"github.com/ebitengine/purego"
)

// bound maps key to the reflect.Value of a Go func bound to a C function.
var bound sync.Map

// Call calls the C function at fn with args and returns its result as a value
// of type ret. If ret is nil, the function is called as returning void and the
// result is the zero Value.
//
// Binding a function to a signature is done once per (fn, signature) pair.
// Concurrent first calls may bind redundantly; one binding wins.
func Call(fn uintptr, ret reflect.Type, args []reflect.Value) reflect.Value {
	k := key{fn: fn, sig: FuncType(ret, args)}
	f, ok := bound.Load(k)
	if !ok {
		p := reflect.New(k.sig)
		purego.RegisterFunc(p.Interface(), fn)
		f, _ = bound.LoadOrStore(k, p.Elem())
	}
	r := f.(reflect.Value).Call(args)
	if len(r) == 0 {
		return reflect.Value{}
	}
	return r[0]
}
