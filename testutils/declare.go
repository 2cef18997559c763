package testutils

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/zephyrtronium/objc"
)

// ClassBuilder declares a stub class. Its methods return the builder so that
// declarations can be chained; Register makes the class visible.
type ClassBuilder struct {
	s    *Stub
	cls  objc.Class
	c    *stubClass
	done bool
}

// Declare begins the declaration of a class with the given name and
// superclass. A zero superclass declares a root class. Declare panics if a
// class with the name already exists.
func (s *Stub) Declare(name string, super objc.Class) *ClassBuilder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classNames[name]; ok {
		panic(fmt.Errorf("testutils: class %s already exists", name))
	}
	c := &stubClass{
		name:    name,
		super:   super,
		ivars:   make(map[string]objc.Ivar),
		methods: make(map[objc.Sel]objc.Method),
	}
	if super != 0 && s.classes[super] == nil {
		panic(fmt.Errorf("testutils: no superclass %#x for %s", uintptr(super), name))
	}
	return &ClassBuilder{s: s, cls: objc.Class(s.next()), c: c}
}

// AddIvar adds an instance variable with a scalar, object, class, selector,
// or pointer encoding.
func (b *ClassBuilder) AddIvar(name string, enc objc.Encoding) *ClassBuilder {
	t, ok := typeForEncoding(enc)
	if !ok {
		panic(fmt.Errorf("testutils: no Go type for ivar encoding %s; use AddIvarType", enc))
	}
	return b.addIvar(name, enc, t)
}

// AddIvarType adds an instance variable holding values of Go type t, which
// must have an encoding.
func (b *ClassBuilder) AddIvarType(name string, t reflect.Type) *ClassBuilder {
	enc, ok := objc.EncodingOf(t)
	if !ok {
		panic(fmt.Errorf("testutils: %v has no encoding", t))
	}
	return b.addIvar(name, enc, t)
}

func (b *ClassBuilder) addIvar(name string, enc objc.Encoding, t reflect.Type) *ClassBuilder {
	b.check()
	if _, ok := b.c.ivars[name]; ok {
		panic(fmt.Errorf("testutils: class %s already has ivar %s", b.c.name, name))
	}
	b.s.mu.Lock()
	iv := objc.Ivar(b.s.next())
	b.s.ivars[iv] = &stubIvar{name: name, enc: enc, typ: t}
	b.s.mu.Unlock()
	b.c.ivars[name] = iv
	return b
}

// AddMethod adds an instance method. The method's type encodings are ret,
// then the receiver and selector, then args.
func (b *ClassBuilder) AddMethod(sel string, imp Imp, ret objc.Encoding, args ...objc.Encoding) *ClassBuilder {
	b.check()
	types := make([]objc.Encoding, 0, len(args)+3)
	types = append(types, ret, objc.EncObject, objc.EncSel)
	types = append(types, args...)
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	s := b.s.registerName(sel)
	m := objc.Method(b.s.next())
	b.s.methods[m] = &stubMethod{sel: s, types: types, imp: imp}
	b.c.methods[s] = m
	return b
}

// Register makes the class visible to lookups and returns it.
func (b *ClassBuilder) Register() objc.Class {
	b.check()
	b.done = true
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if _, ok := b.s.classNames[b.c.name]; ok {
		panic(fmt.Errorf("testutils: class %s already exists", b.c.name))
	}
	b.s.classes[b.cls] = b.c
	b.s.classNames[b.c.name] = b.cls
	return b.cls
}

func (b *ClassBuilder) check() {
	if b.done {
		panic(fmt.Errorf("testutils: class %s is already registered", b.c.name))
	}
}

// scalarTypes maps single-character encodings to the Go types the stub uses
// to store them.
var scalarTypes = map[objc.Encoding]reflect.Type{
	objc.EncChar:             reflect.TypeOf(int8(0)),
	objc.EncShort:            reflect.TypeOf(int16(0)),
	objc.EncInt:              reflect.TypeOf(int32(0)),
	objc.EncLong:             reflect.TypeOf(int32(0)),
	objc.EncLongLong:         reflect.TypeOf(int64(0)),
	objc.EncUnsignedChar:     reflect.TypeOf(uint8(0)),
	objc.EncUnsignedShort:    reflect.TypeOf(uint16(0)),
	objc.EncUnsignedInt:      reflect.TypeOf(uint32(0)),
	objc.EncUnsignedLong:     reflect.TypeOf(uint32(0)),
	objc.EncUnsignedLongLong: reflect.TypeOf(uint64(0)),
	objc.EncFloat:            reflect.TypeOf(float32(0)),
	objc.EncDouble:           reflect.TypeOf(float64(0)),
	objc.EncBool:             reflect.TypeOf(false),
	objc.EncObject:           reflect.TypeOf(objc.ID(0)),
	objc.EncClass:            reflect.TypeOf(objc.Class(0)),
	objc.EncSel:              reflect.TypeOf(objc.Sel(0)),
	objc.EncCString:          reflect.TypeOf(objc.CString(nil)),
}

// typeForEncoding returns the Go type used to store values of enc.
func typeForEncoding(enc objc.Encoding) (reflect.Type, bool) {
	u := enc.Unqualified()
	if t, ok := scalarTypes[u]; ok {
		return t, true
	}
	if u.Code() == '^' {
		return reflect.TypeOf(unsafe.Pointer(nil)), true
	}
	return nil, false
}
