package objc

import (
	"reflect"
	"unsafe"
)

// Sel is a selector, the interned name of a message. Two selectors with the
// same name are always equal. Selectors are obtained only from a runtime.
type Sel uintptr

// Class is a class object owned by the foreign runtime. Classes live for the
// duration of the process. Equality is identity.
type Class uintptr

// ID is a reference to an instance of any Objective-C class. The zero ID is
// nil, and messages sent to it are handled as described by Send.
type ID uintptr

// Method is an opaque handle to a method description of a class.
type Method uintptr

// Ivar is an opaque handle to an instance variable description of a class.
type Ivar uintptr

// CString is a pointer to a NUL-terminated C string. Its encoding is "*".
type CString *byte

// Super is the receiver and starting class of a message to super. Its layout
// matches struct objc_super.
type Super struct {
	Receiver ID
	Class    Class
}

// ObjCEncoding returns "@".
func (ID) ObjCEncoding() Encoding { return EncObject }

// ObjCEncoding returns "#".
func (Class) ObjCEncoding() Encoding { return EncClass }

// ObjCEncoding returns ":".
func (Sel) ObjCEncoding() Encoding { return EncSel }

// Backend is the set of foreign runtime entry points on which message
// dispatch is built. Implementations exist for the Apple runtime, the GNUstep
// runtime, and an in-process stub in package testutils.
//
// Lookups which find nothing return the zero handle.
type Backend interface {
	// RegisterName interns a selector name. It must be safe for concurrent
	// use.
	RegisterName(name string) Sel
	// SelName returns the name of a selector.
	SelName(sel Sel) string
	// LookUpClass returns the class with the given name. It must be safe for
	// concurrent use.
	LookUpClass(name string) Class
	// ObjectClass returns the class of an object.
	ObjectClass(obj ID) Class
	// ClassName returns the name of a class.
	ClassName(cls Class) string
	// Superclass returns the superclass of a class, or 0 for a root class.
	Superclass(cls Class) Class

	// InstanceMethod finds the instance method of cls, or of any of its
	// superclasses, which responds to sel.
	InstanceMethod(cls Class, sel Sel) Method
	// MethodName returns the selector of a method.
	MethodName(m Method) Sel
	// MethodReturnType returns the encoding of a method's return type.
	MethodReturnType(m Method) Encoding
	// MethodArgumentType returns the encoding of the method's argument at
	// index, counting the receiver and selector as 0 and 1.
	MethodArgumentType(m Method, index int) (Encoding, bool)
	// MethodNumberOfArguments returns the number of arguments a method takes,
	// including the receiver and selector.
	MethodNumberOfArguments(m Method) int

	// InstanceVariable finds the instance variable of cls with the given name.
	InstanceVariable(cls Class, name string) Ivar
	// IvarTypeEncoding returns the declared encoding of an instance variable.
	IvarTypeEncoding(iv Ivar) Encoding
	// IvarPointer returns the address of an instance variable within an
	// object.
	IvarPointer(obj ID, iv Ivar) unsafe.Pointer

	// Invoke performs a message send. The result has type c.Ret, or is the
	// zero Value if c.Ret is nil.
	Invoke(c *Call) reflect.Value
}

// Catcher is implemented by backends which can intercept exceptions raised by
// the foreign runtime.
type Catcher interface {
	// Catch calls f. If a foreign exception is raised during f, Catch
	// returns the thrown object, which may be nil, and true.
	Catch(f func()) (exception ID, thrown bool)
}

// Call is a single message send with its entry point resolved.
type Call struct {
	// Entry is the dispatch entry point selected for the return type.
	Entry Entry
	// Receiver is the object receiving the message. It is never nil.
	Receiver ID
	// Superclass is the class at which method lookup begins for a message to
	// super. It is 0 for ordinary sends.
	Superclass Class
	// Sel is the message selector.
	Sel Sel
	// Args are the message arguments, not including the receiver and
	// selector.
	Args []reflect.Value
	// Ret is the return type, or nil if the message returns nothing.
	Ret reflect.Type
}

// IsSuper reports whether the call is a message to super.
func (c *Call) IsSuper() bool {
	return c.Superclass != 0
}
