package objc

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
)

// MaxArgs is the largest number of arguments a message may carry, not
// counting the receiver and selector.
const MaxArgs = 13

// Runtime sends messages through a Backend. A Runtime is safe for concurrent
// use, although the objects it messages generally are not.
type Runtime struct {
	b       Backend
	catcher Catcher
	verify  bool
	log     *slog.Logger
}

// New creates a Runtime which sends messages through b.
func New(b Backend, cfg Config) (*Runtime, error) {
	rt := &Runtime{b: b, verify: cfg.Verify, log: cfg.Logger}
	if rt.log == nil {
		rt.log = discard
	}
	if cfg.CatchExceptions {
		c, ok := b.(Catcher)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrCannotCatch, b)
		}
		rt.catcher = c
	}
	return rt, nil
}

// native is the process-wide native backend, opened once.
var native struct {
	once sync.Once
	b    Backend
	err  error
}

// OpenNative creates a Runtime using the platform's Objective-C runtime: the
// Apple runtime on darwin and the GNUstep runtime on linux and freebsd. The
// runtime library is loaded once per process.
func OpenNative(cfg Config) (*Runtime, error) {
	log := cfg.Logger
	if log == nil {
		log = discard
	}
	native.once.Do(func() {
		native.b, native.err = openNative(log)
	})
	if native.err != nil {
		return nil, native.err
	}
	return New(native.b, cfg)
}

// Backend returns the backend through which rt sends messages.
func (rt *Runtime) Backend() Backend {
	return rt.b
}

// Verifying reports whether rt verifies messages before sending them.
func (rt *Runtime) Verifying() bool {
	return rt.verify
}

// Sel registers a selector name.
func (rt *Runtime) Sel(name string) Sel {
	return rt.b.RegisterName(name)
}

// SelName returns the name of a selector.
func (rt *Runtime) SelName(sel Sel) string {
	return rt.b.SelName(sel)
}

// Class returns the class with the given name, or 0 if there is none.
func (rt *Runtime) Class(name string) Class {
	return rt.b.LookUpClass(name)
}

// ClassOf returns the class of an object, or 0 if obj is nil.
func (rt *Runtime) ClassOf(obj ID) Class {
	if obj == 0 {
		return 0
	}
	return rt.b.ObjectClass(obj)
}

// Send sends a message to receiver and returns its result as an R. Use
// struct{} as R for messages which return void.
//
// If receiver is nil and rt does not verify messages, Send returns the zero
// R without calling into the runtime, just as the runtime itself does for
// messages to nil. If rt verifies messages, a nil receiver is instead a
// *NilReceiverError, and a message which the receiver's class does not
// implement with matching return and argument types fails with the
// corresponding verification error; types without encodings are not checked.
//
// Without verification, sending a message whose argument or return types do
// not match the method is undefined behavior.
func Send[R any](rt *Runtime, receiver ID, sel Sel, args ...any) (R, error) {
	var r R
	p := planFor(typeOf[R]())
	if receiver == 0 {
		if rt.verify {
			return r, &NilReceiverError{Sel: rt.b.SelName(sel)}
		}
		return r, nil
	}
	vals, encs, err := arguments(args, rt.verify)
	if err != nil {
		return r, err
	}
	if rt.verify {
		cls := rt.b.ObjectClass(receiver)
		if err := rt.verifyMessage(cls, sel, p.enc, encs); err != nil {
			rt.log.Debug("message verification failed", slog.String("sel", rt.b.SelName(sel)), slog.Any("err", err))
			return r, err
		}
	}
	c := &Call{Entry: p.send, Receiver: receiver, Sel: sel, Args: vals, Ret: p.ret}
	return r, rt.invoke(c, reflect.ValueOf(&r).Elem())
}

// SendSuper sends a message to receiver, beginning method lookup at
// superclass rather than at the receiver's class. With verification, the
// method is verified against superclass. Neither the receiver nor the
// superclass may be nil.
func SendSuper[R any](rt *Runtime, receiver ID, superclass Class, sel Sel, args ...any) (R, error) {
	var r R
	if receiver == 0 {
		return r, ErrNilSuperReceiver
	}
	if superclass == 0 {
		return r, ErrNilSuperclass
	}
	p := planFor(typeOf[R]())
	vals, encs, err := arguments(args, rt.verify)
	if err != nil {
		return r, err
	}
	if rt.verify {
		if err := rt.verifyMessage(superclass, sel, p.enc, encs); err != nil {
			rt.log.Debug("message verification failed", slog.String("sel", rt.b.SelName(sel)), slog.Bool("super", true), slog.Any("err", err))
			return r, err
		}
	}
	c := &Call{Entry: p.super, Receiver: receiver, Superclass: superclass, Sel: sel, Args: vals, Ret: p.ret}
	return r, rt.invoke(c, reflect.ValueOf(&r).Elem())
}

// MustSend is like Send, but it panics on any error.
func MustSend[R any](rt *Runtime, receiver ID, sel Sel, args ...any) R {
	r, err := Send[R](rt, receiver, sel, args...)
	if err != nil {
		panic(err)
	}
	return r
}

// MustSendSuper is like SendSuper, but it panics on any error.
func MustSendSuper[R any](rt *Runtime, receiver ID, superclass Class, sel Sel, args ...any) R {
	r, err := SendSuper[R](rt, receiver, superclass, sel, args...)
	if err != nil {
		panic(err)
	}
	return r
}

// invoke performs c and stores its result in out, intercepting exceptions if
// rt is configured to do so.
func (rt *Runtime) invoke(c *Call, out reflect.Value) error {
	call := func() {
		v := rt.b.Invoke(c)
		if c.Ret != nil {
			out.Set(v)
		}
	}
	if rt.catcher == nil {
		call()
		return nil
	}
	exc, thrown := rt.catcher.Catch(call)
	if !thrown {
		return nil
	}
	err := &ExceptionError{Exception: exc, Sel: rt.b.SelName(c.Sel)}
	rt.log.Warn("exception raised during message send", slog.String("sel", err.Sel), slog.Uint64("exception", uint64(exc)))
	return err
}

// arguments converts message arguments to values for the backend and, if
// encode is true, computes their encodings. A nil argument is sent as a nil
// object.
func arguments(args []any, encode bool) ([]reflect.Value, []Encoding, error) {
	if len(args) > MaxArgs {
		return nil, nil, fmt.Errorf("%w: %d, limit is %d", ErrTooManyArguments, len(args), MaxArgs)
	}
	vals := make([]reflect.Value, len(args))
	var encs []Encoding
	if encode {
		encs = make([]Encoding, len(args))
	}
	for i, a := range args {
		if a == nil {
			a = ID(0)
		}
		vals[i] = reflect.ValueOf(a)
		if encode {
			// Types without encodings stay empty and match anything.
			encs[i], _ = EncodingOf(vals[i].Type())
		}
	}
	return vals, encs, nil
}

// typeOf returns the reflect.Type of T, including for interface types.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
