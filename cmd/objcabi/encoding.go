package main

import (
	"go/types"

	"github.com/zephyrtronium/objc"
)

// objcPath is the import path of package objc, whose handle types encode as
// the runtime types they represent.
const objcPath = "github.com/zephyrtronium/objc"

// encoder computes encodings of Go types as they would be computed at run
// time on a particular architecture.
type encoder struct {
	sizes types.Sizes
}

// encoding returns the encoding of t, or false if t has none or its encoding
// can only be determined at run time.
func (e encoder) encoding(t types.Type) (objc.Encoding, bool) {
	return e.encodingOf(t, nil)
}

func (e encoder) encodingOf(t types.Type, open []*types.Named) (objc.Encoding, bool) {
	switch t := t.(type) {
	case *types.Named:
		if enc, ok, known := e.named(t); known {
			return enc, ok
		}
		if s, ok := t.Underlying().(*types.Struct); ok {
			return e.structOf(t.Obj().Name(), s, append(open, t))
		}
		return e.encodingOf(t.Underlying(), open)
	case *types.Alias:
		return e.encodingOf(types.Unalias(t), open)
	case *types.Basic:
		return e.basic(t)
	case *types.Pointer:
		if n, ok := t.Elem().(*types.Named); ok {
			for _, o := range open {
				if types.Identical(o, n) {
					return objc.PointerTo(objc.Encoding("{" + n.Obj().Name() + "}")), true
				}
			}
		}
		enc, ok := e.encodingOf(t.Elem(), open)
		if !ok {
			return "", false
		}
		return objc.PointerTo(enc), true
	case *types.Array:
		enc, ok := e.encodingOf(t.Elem(), open)
		if !ok {
			return "", false
		}
		return objc.ArrayOf(int(t.Len()), enc), true
	case *types.Struct:
		return e.structOf("", t, open)
	}
	return "", false
}

// named handles types with encodings of their own. known is false if t
// encodes as its underlying type.
func (e encoder) named(t *types.Named) (enc objc.Encoding, ok, known bool) {
	obj := t.Obj()
	if obj.Pkg() != nil && obj.Pkg().Path() == objcPath {
		switch obj.Name() {
		case "ID":
			return objc.EncObject, true, true
		case "Class":
			return objc.EncClass, true, true
		case "Sel":
			return objc.EncSel, true, true
		case "CString":
			return objc.EncCString, true, true
		case "ConstPtr":
			args := t.TypeArgs()
			if args == nil || args.Len() != 1 {
				return "", false, true
			}
			enc, ok := e.encoding(args.At(0))
			if !ok {
				enc = objc.EncUnknown
			}
			return objc.ConstPointerTo(enc), true, true
		}
	}
	// Other encoders compute their encodings at run time.
	ms := types.NewMethodSet(t)
	if ms.Lookup(nil, "ObjCEncoding") != nil {
		return "", false, true
	}
	return "", false, false
}

func (e encoder) structOf(name string, s *types.Struct, open []*types.Named) (objc.Encoding, bool) {
	if s.NumFields() == 0 {
		return objc.EncVoid, true
	}
	fields := make([]objc.Encoding, s.NumFields())
	for i := range fields {
		enc, ok := e.encodingOf(s.Field(i).Type(), open)
		if !ok {
			return "", false
		}
		fields[i] = enc
	}
	return objc.StructOf(name, fields...), true
}

func (e encoder) basic(t *types.Basic) (objc.Encoding, bool) {
	switch t.Kind() {
	case types.Bool:
		return objc.EncBool, true
	case types.Int8:
		return objc.EncChar, true
	case types.Int16:
		return objc.EncShort, true
	case types.Int32:
		return objc.EncInt, true
	case types.Int64:
		return objc.EncLongLong, true
	case types.Int:
		if e.sizes.Sizeof(t) == 8 {
			return objc.EncLongLong, true
		}
		return objc.EncInt, true
	case types.Uint8:
		return objc.EncUnsignedChar, true
	case types.Uint16:
		return objc.EncUnsignedShort, true
	case types.Uint32:
		return objc.EncUnsignedInt, true
	case types.Uint64:
		return objc.EncUnsignedLongLong, true
	case types.Uint, types.Uintptr:
		if e.sizes.Sizeof(t) == 8 {
			return objc.EncUnsignedLongLong, true
		}
		return objc.EncUnsignedInt, true
	case types.Float32:
		return objc.EncFloat, true
	case types.Float64:
		return objc.EncDouble, true
	case types.String:
		return objc.EncCString, true
	case types.UnsafePointer:
		return objc.PointerTo(objc.EncVoid), true
	}
	return "", false
}
