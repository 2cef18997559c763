// Package ffi calls C functions through untyped function pointers.
//
// This is the one place where a function pointer is reinterpreted as a
// function of a particular signature. Nothing here can check that the
// signature is the function's actual one; that is the caller's obligation.
package ffi

import "reflect"

// FuncType returns the Go function type with the given argument types and
// result type. ret may be nil for a function returning nothing.
func FuncType(ret reflect.Type, args []reflect.Value) reflect.Type {
	in := make([]reflect.Type, len(args))
	for i, a := range args {
		in[i] = a.Type()
	}
	var out []reflect.Type
	if ret != nil {
		out = []reflect.Type{ret}
	}
	return reflect.FuncOf(in, out, false)
}

// key identifies a bound function: a C function pointer together with the
// signature through which it is called.
type key struct {
	fn  uintptr
	sig reflect.Type
}
