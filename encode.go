package objc

import (
	"reflect"
	"sync"
	"unsafe"
)

// Encoder is implemented by types which provide their own type encoding.
// ObjCEncoding is called on the zero value of the type and must not depend on
// the receiver's contents.
type Encoder interface {
	ObjCEncoding() Encoding
}

// ConstPtr is a pointer to a constant T, encoded as "r^" followed by the
// encoding of T. Because it is a plain address, the caller must keep the
// pointee alive for the duration of any message send using it.
type ConstPtr[T any] uintptr

// Const returns a ConstPtr referring to p.
func Const[T any](p *T) ConstPtr[T] {
	return ConstPtr[T](unsafe.Pointer(p))
}

// ObjCEncoding returns the encoding of a const pointer to T.
func (ConstPtr[T]) ObjCEncoding() Encoding {
	e, ok := Encode[T]()
	if !ok {
		e = EncUnknown
	}
	return ConstPointerTo(e)
}

// Encode returns the encoding of T. The result is false if T has no
// encoding, in which case verification involving T is skipped.
func Encode[T any]() (Encoding, bool) {
	return EncodingOf(typeOf[T]())
}

// MustEncode is like Encode, but it panics if T has no encoding.
func MustEncode[T any]() Encoding {
	e, ok := Encode[T]()
	if !ok {
		panic("objc: no encoding for " + typeOf[T]().String())
	}
	return e
}

// EncodingOf returns the encoding of a Go type.
//
// Types implementing Encoder use their own encoding. Otherwise, booleans,
// integers, and floats map to their C counterparts, with int, uint, and
// uintptr having the size of a pointer. Strings and CString encode as C
// strings. A pointer to T encodes as "^" followed by the encoding of T, and
// unsafe.Pointer as "^v". Arrays and structs encode as C arrays and
// structures, with structs named after their Go type, and the empty struct
// encodes as void. Other types, or composites containing them, have no
// encoding.
func EncodingOf(t reflect.Type) (Encoding, bool) {
	if v, ok := encodingCache.Load(t); ok {
		r := v.(cachedEncoding)
		return r.enc, r.ok
	}
	enc, ok := encodingOf(t, nil)
	encodingCache.Store(t, cachedEncoding{enc, ok})
	return enc, ok
}

type cachedEncoding struct {
	enc Encoding
	ok  bool
}

// encodingCache maps reflect.Type to cachedEncoding. Racing writers store
// identical values.
var encodingCache sync.Map

var (
	encoderType = reflect.TypeOf((*Encoder)(nil)).Elem()
	cstringType = reflect.TypeOf(CString(nil))
)

// encodingOf computes the encoding of t. open is the list of struct types
// whose encodings are being computed, used to break cycles through pointers.
func encodingOf(t reflect.Type, open []reflect.Type) (Encoding, bool) {
	if k := t.Kind(); k != reflect.Pointer && k != reflect.Interface && t.Implements(encoderType) {
		return reflect.Zero(t).Interface().(Encoder).ObjCEncoding(), true
	}
	if t == cstringType {
		return EncCString, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return EncBool, true
	case reflect.Int8:
		return EncChar, true
	case reflect.Int16:
		return EncShort, true
	case reflect.Int32:
		return EncInt, true
	case reflect.Int64:
		return EncLongLong, true
	case reflect.Int:
		if t.Size() == 8 {
			return EncLongLong, true
		}
		return EncInt, true
	case reflect.Uint8:
		return EncUnsignedChar, true
	case reflect.Uint16:
		return EncUnsignedShort, true
	case reflect.Uint32:
		return EncUnsignedInt, true
	case reflect.Uint64:
		return EncUnsignedLongLong, true
	case reflect.Uint, reflect.Uintptr:
		if t.Size() == 8 {
			return EncUnsignedLongLong, true
		}
		return EncUnsignedInt, true
	case reflect.Float32:
		return EncFloat, true
	case reflect.Float64:
		return EncDouble, true
	case reflect.String:
		return EncCString, true
	case reflect.UnsafePointer:
		return PointerTo(EncVoid), true
	case reflect.Pointer:
		elem := t.Elem()
		for _, o := range open {
			if o == elem {
				// Recursive structure. Name it without its fields.
				return PointerTo(Encoding("{" + structName(elem) + "}")), true
			}
		}
		e, ok := encodingOf(elem, open)
		if !ok {
			return "", false
		}
		return PointerTo(e), true
	case reflect.Array:
		e, ok := encodingOf(t.Elem(), open)
		if !ok {
			return "", false
		}
		return ArrayOf(t.Len(), e), true
	case reflect.Struct:
		if t.NumField() == 0 {
			return EncVoid, true
		}
		open = append(open, t)
		fields := make([]Encoding, t.NumField())
		for i := range fields {
			e, ok := encodingOf(t.Field(i).Type, open)
			if !ok {
				return "", false
			}
			fields[i] = e
		}
		return StructOf(structName(t), fields...), true
	}
	return "", false
}

// structName returns the name to use for a struct type in its encoding.
func structName(t reflect.Type) string {
	if t.Name() == "" {
		return "?"
	}
	return t.Name()
}
