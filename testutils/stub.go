package testutils

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/zephyrtronium/contains"

	"github.com/zephyrtronium/objc"
)

// Imp is the implementation of a stub method. self is the receiver, which is
// the original receiver even for messages to super. The result must have the
// method's return type or be convertible to it, or be the zero Value for void
// methods.
type Imp func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value

// Stub is an objc.Backend implemented entirely in Go. It models classes with
// single inheritance, instance variables allocated per object, and
// methods implemented by Go functions, so that dispatch can be tested without
// an Objective-C runtime. Stub records each message it receives.
//
// Stub implements objc.Catcher. Exceptions are raised with Throw, and the
// stub itself raises one for any message its receiver does not implement.
type Stub struct {
	mu sync.Mutex

	sels       map[string]objc.Sel
	selNames   map[objc.Sel]string
	classes    map[objc.Class]*stubClass
	classNames map[string]objc.Class
	methods    map[objc.Method]*stubMethod
	ivars      map[objc.Ivar]*stubIvar
	objects    map[objc.ID]*stubObject

	calls []Invocation
	// handle is the last handle allocated.
	handle uintptr

	// Root is the root class, NSObject.
	Root objc.Class
	// Exception is the class of exceptions the stub raises itself.
	Exception objc.Class
}

type stubClass struct {
	name    string
	super   objc.Class
	ivars   map[string]objc.Ivar
	methods map[objc.Sel]objc.Method
}

type stubMethod struct {
	sel   objc.Sel
	types []objc.Encoding
	imp   Imp
}

type stubIvar struct {
	name string
	enc  objc.Encoding
	typ  reflect.Type
}

type stubObject struct {
	class objc.Class
	// ivars holds a separately allocated value of each instance variable's
	// Go type, so that pointer ivars are visible to the garbage collector.
	ivars map[objc.Ivar]unsafe.Pointer
}

// Invocation is a record of a message received by a Stub.
type Invocation struct {
	Entry      objc.Entry
	Receiver   objc.ID
	Superclass objc.Class
	Sel        objc.Sel
	NumArgs    int
}

// exception is the panic value used to raise stub exceptions.
type exception struct {
	obj objc.ID
}

func (e exception) Error() string {
	return fmt.Sprintf("testutils: uncaught exception %#x", uintptr(e.obj))
}

// NewStub creates a stub runtime containing the root class NSObject and the
// exception class NSException.
func NewStub() *Stub {
	s := &Stub{
		sels:       make(map[string]objc.Sel),
		selNames:   make(map[objc.Sel]string),
		classes:    make(map[objc.Class]*stubClass),
		classNames: make(map[string]objc.Class),
		methods:    make(map[objc.Method]*stubMethod),
		ivars:      make(map[objc.Ivar]*stubIvar),
		objects:    make(map[objc.ID]*stubObject),
	}
	s.Root = s.Declare("NSObject", 0).Register()
	s.Exception = s.Declare("NSException", s.Root).Register()
	return s
}

// next allocates a handle. s.mu must be held.
func (s *Stub) next() uintptr {
	// Handles resemble aligned addresses, which makes them easier to tell
	// apart from small integers in test failures.
	s.handle += 0x10
	return 0x1000 + s.handle
}

// New creates an instance of cls with zeroed instance variables.
func (s *Stub) New(cls objc.Class) objc.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classes[cls] == nil {
		panic(fmt.Errorf("testutils: no class %#x", uintptr(cls)))
	}
	o := &stubObject{class: cls, ivars: make(map[objc.Ivar]unsafe.Pointer)}
	set := contains.Set{}
	for c := cls; c != 0 && set.Add(uintptr(c)); c = s.classes[c].super {
		for _, iv := range s.classes[c].ivars {
			o.ivars[iv] = reflect.New(s.ivars[iv].typ).UnsafePointer()
		}
	}
	obj := objc.ID(s.next())
	s.objects[obj] = o
	return obj
}

// Throw raises obj as a foreign exception.
func (s *Stub) Throw(obj objc.ID) {
	panic(exception{obj})
}

// Catch implements objc.Catcher.
func (s *Stub) Catch(f func()) (exc objc.ID, thrown bool) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(exception)
			if !ok {
				panic(r)
			}
			exc, thrown = e.obj, true
		}
	}()
	f()
	return 0, false
}

// Calls returns a copy of the record of messages the stub has received.
func (s *Stub) Calls() []Invocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Invocation(nil), s.calls...)
}

// CallCount returns the number of messages the stub has received.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// ResetCalls clears the record of received messages.
func (s *Stub) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// RegisterName implements objc.Backend.
func (s *Stub) RegisterName(name string) objc.Sel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerName(name)
}

// registerName interns a selector. s.mu must be held.
func (s *Stub) registerName(name string) objc.Sel {
	if sel, ok := s.sels[name]; ok {
		return sel
	}
	sel := objc.Sel(s.next())
	s.sels[name] = sel
	s.selNames[sel] = name
	return sel
}

// SelName implements objc.Backend.
func (s *Stub) SelName(sel objc.Sel) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selNames[sel]
}

// LookUpClass implements objc.Backend.
func (s *Stub) LookUpClass(name string) objc.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classNames[name]
}

// ObjectClass implements objc.Backend.
func (s *Stub) ObjectClass(obj objc.ID) objc.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.objects[obj]; o != nil {
		return o.class
	}
	return 0
}

// ClassName implements objc.Backend.
func (s *Stub) ClassName(cls objc.Class) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.classes[cls]; c != nil {
		return c.name
	}
	return "nil"
}

// Superclass implements objc.Backend.
func (s *Stub) Superclass(cls objc.Class) objc.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.classes[cls]; c != nil {
		return c.super
	}
	return 0
}

// InstanceMethod implements objc.Backend.
func (s *Stub) InstanceMethod(cls objc.Class, sel objc.Sel) objc.Method {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(cls, sel)
}

// lookup finds the method for sel on cls or its superclasses. s.mu must be
// held.
func (s *Stub) lookup(cls objc.Class, sel objc.Sel) objc.Method {
	set := contains.Set{}
	for cls != 0 && set.Add(uintptr(cls)) {
		c := s.classes[cls]
		if c == nil {
			return 0
		}
		if m, ok := c.methods[sel]; ok {
			return m
		}
		cls = c.super
	}
	return 0
}

// MethodName implements objc.Backend.
func (s *Stub) MethodName(m objc.Method) objc.Sel {
	return s.method(m).sel
}

// MethodReturnType implements objc.Backend.
func (s *Stub) MethodReturnType(m objc.Method) objc.Encoding {
	return s.method(m).types[0]
}

// MethodArgumentType implements objc.Backend.
func (s *Stub) MethodArgumentType(m objc.Method, index int) (objc.Encoding, bool) {
	t := s.method(m).types[1:]
	if index < 0 || index >= len(t) {
		return "", false
	}
	return t[index], true
}

// MethodNumberOfArguments implements objc.Backend.
func (s *Stub) MethodNumberOfArguments(m objc.Method) int {
	return len(s.method(m).types) - 1
}

func (s *Stub) method(m objc.Method) *stubMethod {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.methods[m]
	if r == nil {
		panic(fmt.Errorf("testutils: no method %#x", uintptr(m)))
	}
	return r
}

// InstanceVariable implements objc.Backend.
func (s *Stub) InstanceVariable(cls objc.Class, name string) objc.Ivar {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := contains.Set{}
	for cls != 0 && set.Add(uintptr(cls)) {
		c := s.classes[cls]
		if c == nil {
			return 0
		}
		if iv, ok := c.ivars[name]; ok {
			return iv
		}
		cls = c.super
	}
	return 0
}

// IvarTypeEncoding implements objc.Backend.
func (s *Stub) IvarTypeEncoding(iv objc.Ivar) objc.Encoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v := s.ivars[iv]; v != nil {
		return v.enc
	}
	return ""
}

// IvarPointer implements objc.Backend.
func (s *Stub) IvarPointer(obj objc.ID, iv objc.Ivar) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.objects[obj]
	if o == nil || o.ivars[iv] == nil {
		panic(fmt.Errorf("testutils: no ivar %#x on object %#x", uintptr(iv), uintptr(obj)))
	}
	return o.ivars[iv]
}

// Invoke implements objc.Backend. It records the message, then calls the
// implementation found starting from the superclass for messages to super
// or from the receiver's class otherwise. If no implementation exists, Invoke
// raises an exception.
func (s *Stub) Invoke(c *objc.Call) reflect.Value {
	s.mu.Lock()
	s.calls = append(s.calls, Invocation{
		Entry:      c.Entry,
		Receiver:   c.Receiver,
		Superclass: c.Superclass,
		Sel:        c.Sel,
		NumArgs:    len(c.Args),
	})
	start := c.Superclass
	if start == 0 {
		if o := s.objects[c.Receiver]; o != nil {
			start = o.class
		}
	}
	var imp Imp
	if m := s.methods[s.lookup(start, c.Sel)]; m != nil {
		imp = m.imp
	}
	s.mu.Unlock()
	if imp == nil {
		s.Throw(s.New(s.Exception))
	}
	r := imp(c.Receiver, c.Sel, c.Args)
	if c.Ret == nil {
		return reflect.Value{}
	}
	if !r.IsValid() {
		return reflect.Zero(c.Ret)
	}
	if r.Type() != c.Ret {
		if !r.Type().ConvertibleTo(c.Ret) {
			// This is where a real runtime would return garbage.
			panic(fmt.Errorf("testutils: %s returned %v, but the caller expected %v", s.SelName(c.Sel), r.Type(), c.Ret))
		}
		r = r.Convert(c.Ret)
	}
	return r
}

// ivarOf returns the address and type of the named ivar of obj.
func (s *Stub) ivarOf(obj objc.ID, name string) (unsafe.Pointer, reflect.Type) {
	iv := s.InstanceVariable(s.ObjectClass(obj), name)
	if iv == 0 {
		panic(fmt.Errorf("testutils: object %#x has no ivar %s", uintptr(obj), name))
	}
	s.mu.Lock()
	t := s.ivars[iv].typ
	s.mu.Unlock()
	return s.IvarPointer(obj, iv), t
}

// Getter returns an Imp which returns the value of the named ivar.
func (s *Stub) Getter(ivar string) Imp {
	return func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
		p, t := s.ivarOf(self, ivar)
		return reflect.NewAt(t, p).Elem()
	}
}

// Setter returns an Imp which sets the named ivar to its first argument.
func (s *Stub) Setter(ivar string) Imp {
	return func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
		p, t := s.ivarOf(self, ivar)
		reflect.NewAt(t, p).Elem().Set(args[0].Convert(t))
		return reflect.Value{}
	}
}
