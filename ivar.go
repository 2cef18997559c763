package objc

// IvarPtr returns a pointer to the instance variable of obj with the given
// name. It fails if obj is nil, if its class has no such instance variable, or
// if the encoding of T differs from the ivar's declared encoding. Types
// without encodings are not checked.
//
// The pointer refers to foreign memory and is valid only while obj is alive.
func IvarPtr[T any](rt *Runtime, obj ID, name string) (*T, error) {
	if obj == 0 {
		return nil, ErrNilObject
	}
	cls := rt.b.ObjectClass(obj)
	iv := rt.b.InstanceVariable(cls, name)
	if iv == 0 {
		return nil, &IvarNotFoundError{Class: rt.b.ClassName(cls), Name: name}
	}
	if want, ok := Encode[T](); ok {
		declared := rt.b.IvarTypeEncoding(iv)
		if !declared.Equal(want) {
			return nil, &IvarTypeError{Class: rt.b.ClassName(cls), Name: name, Declared: declared, Actual: want}
		}
	}
	return (*T)(rt.b.IvarPointer(obj, iv)), nil
}

// LoadIvar returns the value of an instance variable of obj.
func LoadIvar[T any](rt *Runtime, obj ID, name string) (T, error) {
	p, err := IvarPtr[T](rt, obj, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return *p, nil
}

// StoreIvar sets the value of an instance variable of obj.
func StoreIvar[T any](rt *Runtime, obj ID, name string, v T) error {
	p, err := IvarPtr[T](rt, obj, name)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MustLoadIvar is like LoadIvar, but it panics on any error.
func MustLoadIvar[T any](rt *Runtime, obj ID, name string) T {
	v, err := LoadIvar[T](rt, obj, name)
	if err != nil {
		panic(err)
	}
	return v
}
