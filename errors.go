package objc

import (
	"errors"
	"fmt"
)

var (
	// ErrVerification is the error wrapped by every error resulting from
	// message verification.
	ErrVerification = errors.New("objc: message verification failed")
	// ErrNilSuperReceiver is returned by SendSuper when the receiver is nil.
	ErrNilSuperReceiver = errors.New("objc: message to super with nil receiver")
	// ErrNilSuperclass is returned by SendSuper when the superclass is nil.
	ErrNilSuperclass = errors.New("objc: message to super with nil superclass")
	// ErrNilObject is returned by ivar accessors given a nil object.
	ErrNilObject = errors.New("objc: nil object")
	// ErrTooManyArguments is returned when a message has more than MaxArgs
	// arguments.
	ErrTooManyArguments = errors.New("objc: too many message arguments")
	// ErrCannotCatch is returned by New when exception interception is
	// requested from a backend which does not implement Catcher.
	ErrCannotCatch = errors.New("objc: backend cannot intercept exceptions")
	// ErrNoNativeRuntime is returned by OpenNative on platforms without a
	// supported Objective-C runtime.
	ErrNoNativeRuntime = errors.New("objc: no Objective-C runtime for this platform")
)

// NilReceiverError is the verification error for a message sent to nil.
type NilReceiverError struct {
	Sel string
}

func (err *NilReceiverError) Error() string {
	return fmt.Sprintf("objc: messaging %s to nil", err.Sel)
}

func (err *NilReceiverError) Unwrap() error { return ErrVerification }

// MethodNotFoundError is the verification error for a selector to which a
// class does not respond.
type MethodNotFoundError struct {
	Class string
	Sel   string
}

func (err *MethodNotFoundError) Error() string {
	return fmt.Sprintf("objc: method %s not found on class %s", err.Sel, err.Class)
}

func (err *MethodNotFoundError) Unwrap() error { return ErrVerification }

// MismatchedReturnError is the verification error for a return type which
// differs from the method's declared return type.
type MismatchedReturnError struct {
	// Method is the selector name of the method.
	Method string
	// Declared is the method's return type encoding.
	Declared Encoding
	// Actual is the encoding of the type the caller expected.
	Actual Encoding
}

func (err *MismatchedReturnError) Error() string {
	return fmt.Sprintf("objc: return type code %s does not match expected %s for method %s", err.Declared, err.Actual, err.Method)
}

func (err *MismatchedReturnError) Unwrap() error { return ErrVerification }

// MismatchedArgumentsCountError is the verification error for a message with
// the wrong number of arguments. Counts exclude the receiver and selector.
type MismatchedArgumentsCountError struct {
	Method   string
	Declared int
	Actual   int
}

func (err *MismatchedArgumentsCountError) Error() string {
	return fmt.Sprintf("objc: method %s accepts %d arguments, but %d were given", err.Method, err.Declared, err.Actual)
}

func (err *MismatchedArgumentsCountError) Unwrap() error { return ErrVerification }

// MismatchedArgumentError is the verification error for an argument whose
// type differs from the method's declared argument type. Index counts from
// the first argument after the selector.
type MismatchedArgumentError struct {
	Method   string
	Index    int
	Declared Encoding
	Actual   Encoding
}

func (err *MismatchedArgumentError) Error() string {
	return fmt.Sprintf("objc: method %s expected argument at index %d with type code %s but was given %s", err.Method, err.Index, err.Declared, err.Actual)
}

func (err *MismatchedArgumentError) Unwrap() error { return ErrVerification }

// ExceptionError is a foreign exception intercepted during a message send.
type ExceptionError struct {
	// Exception is the thrown object. It may be nil.
	Exception ID
	// Sel is the name of the message during which the exception was raised.
	Sel string
}

func (err *ExceptionError) Error() string {
	if err.Exception == 0 {
		return fmt.Sprintf("objc: unknown exception raised by %s", err.Sel)
	}
	return fmt.Sprintf("objc: exception %#x raised by %s", uintptr(err.Exception), err.Sel)
}

// IvarNotFoundError is returned by ivar accessors for a name which is not an
// instance variable of the object's class.
type IvarNotFoundError struct {
	Class string
	Name  string
}

func (err *IvarNotFoundError) Error() string {
	return fmt.Sprintf("objc: ivar %s not found on class %s", err.Name, err.Class)
}

// IvarTypeError is returned by ivar accessors when the accessed type does not
// match the ivar's declared type.
type IvarTypeError struct {
	Class    string
	Name     string
	Declared Encoding
	Actual   Encoding
}

func (err *IvarTypeError) Error() string {
	return fmt.Sprintf("objc: ivar %s of class %s has type code %s, not %s", err.Name, err.Class, err.Declared, err.Actual)
}
