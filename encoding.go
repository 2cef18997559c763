package objc

import (
	"strconv"
	"strings"
)

// Encoding is a type encoding string as used by the Objective-C runtime to
// describe the types of method arguments, return values, and instance
// variables.
//
// Converting an arbitrary string to Encoding performs no validation; the
// caller is responsible for providing a well-formed encoding. Encodings must
// be compared with Equal rather than ==, because leading type qualifiers are
// not significant to equality.
//
// The empty Encoding denotes a type whose encoding is not known. It is
// treated as matching any encoding during verification.
type Encoding string

// Encodings of the primitive types.
const (
	EncChar             Encoding = "c"
	EncShort            Encoding = "s"
	EncInt              Encoding = "i"
	EncLong             Encoding = "l"
	EncLongLong         Encoding = "q"
	EncUnsignedChar     Encoding = "C"
	EncUnsignedShort    Encoding = "S"
	EncUnsignedInt      Encoding = "I"
	EncUnsignedLong     Encoding = "L"
	EncUnsignedLongLong Encoding = "Q"
	EncFloat            Encoding = "f"
	EncDouble           Encoding = "d"
	EncBool             Encoding = "B"
	EncVoid             Encoding = "v"
	EncCString          Encoding = "*"
	EncObject           Encoding = "@"
	EncClass            Encoding = "#"
	EncSel              Encoding = ":"
	EncUnknown          Encoding = "?"
)

// qualifiers are the type qualifier codes which may prefix an encoding:
// const, in, inout, out, bycopy, byref, and oneway.
const qualifiers = "rnNoORV"

// String returns the encoding text, including any qualifiers.
func (e Encoding) String() string {
	return string(e)
}

// Unqualified returns the encoding with leading type qualifiers removed.
func (e Encoding) Unqualified() Encoding {
	return Encoding(strings.TrimLeft(string(e), qualifiers))
}

// Equal reports whether two encodings describe the same type, ignoring
// leading type qualifiers. Neither encoding may be empty; use Matches to
// treat unknown encodings as wildcards.
func (e Encoding) Equal(other Encoding) bool {
	return e.Unqualified() == other.Unqualified()
}

// Matches is like Equal, but an empty encoding on either side matches
// anything.
func (e Encoding) Matches(other Encoding) bool {
	if e == "" || other == "" {
		return true
	}
	return e.Equal(other)
}

// Code returns the first type code of the encoding after any qualifiers, or 0
// if the encoding is empty.
func (e Encoding) Code() byte {
	u := e.Unqualified()
	if u == "" {
		return 0
	}
	return u[0]
}

// IsFloat reports whether the encoding is that of float or double.
func (e Encoding) IsFloat() bool {
	switch e.Unqualified() {
	case EncFloat, EncDouble:
		return true
	}
	return false
}

// Is64BitScalar reports whether the encoding is that of a 64-bit integer or a
// double. Such values are returned in a register pair on 32-bit ARM.
func (e Encoding) Is64BitScalar() bool {
	switch e.Unqualified() {
	case EncLongLong, EncUnsignedLongLong, EncDouble:
		return true
	}
	return false
}

// Prepend returns the encoding with prefix prepended to it.
func (e Encoding) Prepend(prefix string) Encoding {
	return Encoding(prefix + string(e))
}

// PointerTo returns the encoding of a pointer to a value with encoding e.
func PointerTo(e Encoding) Encoding {
	return e.Prepend("^")
}

// ConstPointerTo returns the encoding of a pointer to a constant value with
// encoding e.
func ConstPointerTo(e Encoding) Encoding {
	return PointerTo(e).Prepend("r")
}

// StructOf returns the encoding of a structure named name with the given
// field encodings. An empty name is encoded as "?".
func StructOf(name string, fields ...Encoding) Encoding {
	if name == "" {
		name = "?"
	}
	var b strings.Builder
	b.WriteByte('{')
	b.WriteString(name)
	b.WriteByte('=')
	for _, f := range fields {
		b.WriteString(string(f))
	}
	b.WriteByte('}')
	return Encoding(b.String())
}

// ArrayOf returns the encoding of an array of n elements of encoding e.
func ArrayOf(n int, e Encoding) Encoding {
	return Encoding("[" + strconv.Itoa(n) + string(e) + "]")
}
