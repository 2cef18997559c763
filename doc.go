/*
Package objc sends messages to objects of the Objective-C runtime.

Objective-C dispatches every method call through a small set of runtime entry
points, most prominently objc_msgSend. Which entry point a call must use, and
how arguments and results pass through it, depends on the architecture and on
the size and kind of the return type. This package selects the entry point,
marshals the arguments, and optionally checks each message against the
method's declared type encodings before issuing it.

# Runtimes

A Runtime sends messages through a Backend. OpenNative returns a Runtime
using the Apple runtime on darwin or the GNUstep runtime on linux and freebsd,
loaded at run time without cgo. Package testutils provides an in-process stub
backend for tests.

	rt, err := objc.OpenNative(objc.DefaultConfig())
	if err != nil {
		// handle err
	}
	obj := objc.MustSend[objc.ID](rt, objc.ID(rt.Class("NSObject")), rt.Sel("new"))
	desc := objc.MustSend[objc.ID](rt, obj, rt.Sel("description"))

# Messages

Send and SendSuper take the type of the result as a type parameter. Use
struct{} for methods returning void. Arguments are passed as ordinary Go
values; nil is sent as a nil object. At most MaxArgs arguments may be sent.

As in Objective-C, a message to nil returns the zero value without calling
into the runtime at all. With verification enabled, a message to nil is
instead an error.

# Type encodings

Every argument and result type is described by an Encoding, the runtime's
textual type encoding. EncodingOf maps Go types to encodings: integers,
floats, and booleans to their C counterparts, ID, Class, and Sel to "@", "#",
and ":", pointers, arrays, and structs to the corresponding C types, and
ConstPtr to const pointers. Types can provide their own encodings by
implementing Encoder. Types without encodings can still be sent, but they are
not checked.

# Verification

When Config.Verify is set, each message is checked against the method
signature the receiver's class declares: the method must exist, the result
type must match, and the arguments must match in number and type. Failures
are reported as errors wrapping ErrVerification, and the message is not sent.
Without verification, a mismatched message is undefined behavior, exactly as
a mismatched cast of objc_msgSend is in C.

Building with -tags=objc_verify makes DefaultConfig enable verification, as
does setting OBJC_VERIFY=1 in the environment.

# Exceptions

Objective-C exceptions cannot unwind through Go frames. A Runtime whose
backend implements Catcher can intercept exceptions raised during a message
and return them as *ExceptionError; building with -tags=objc_exception
enables this in DefaultConfig. The native backends do not implement Catcher.
*/
package objc
