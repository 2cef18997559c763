//go:build darwin || linux || freebsd

package objc

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"
)

// nativeLib holds the runtime introspection functions common to the Apple
// and GNUstep runtimes, bound with purego. It implements every Backend method
// except Invoke.
type nativeLib struct {
	sel_registerName            func(name string) Sel
	sel_getName                 func(sel Sel) string
	objc_lookUpClass            func(name string) Class
	object_getClass             func(obj ID) Class
	class_getName               func(cls Class) string
	class_getSuperclass         func(cls Class) Class
	class_getInstanceMethod     func(cls Class, sel Sel) Method
	method_getName              func(m Method) Sel
	method_copyReturnType       func(m Method) uintptr
	method_copyArgumentType     func(m Method, index uint32) uintptr
	method_getNumberOfArguments func(m Method) uint32
	class_getInstanceVariable   func(cls Class, name string) Ivar
	ivar_getOffset              func(iv Ivar) int
	ivar_getTypeEncoding        func(iv Ivar) string

	free func(p uintptr)
}

// load binds every function from the runtime library objc and free from the
// C library libc.
func (l *nativeLib) load(objc, libc uintptr) error {
	syms := []struct {
		fptr interface{}
		name string
	}{
		{&l.sel_registerName, "sel_registerName"},
		{&l.sel_getName, "sel_getName"},
		{&l.objc_lookUpClass, "objc_lookUpClass"},
		{&l.object_getClass, "object_getClass"},
		{&l.class_getName, "class_getName"},
		{&l.class_getSuperclass, "class_getSuperclass"},
		{&l.class_getInstanceMethod, "class_getInstanceMethod"},
		{&l.method_getName, "method_getName"},
		{&l.method_copyReturnType, "method_copyReturnType"},
		{&l.method_copyArgumentType, "method_copyArgumentType"},
		{&l.method_getNumberOfArguments, "method_getNumberOfArguments"},
		{&l.class_getInstanceVariable, "class_getInstanceVariable"},
		{&l.ivar_getOffset, "ivar_getOffset"},
		{&l.ivar_getTypeEncoding, "ivar_getTypeEncoding"},
	}
	for _, s := range syms {
		if err := bind(s.fptr, objc, s.name); err != nil {
			return err
		}
	}
	return bind(&l.free, libc, "free")
}

// bind binds the function named name in the library with handle lib to the
// func variable at fptr.
func bind(fptr interface{}, lib uintptr, name string) error {
	fn, err := purego.Dlsym(lib, name)
	if err != nil {
		return fmt.Errorf("objc: loading %s: %w", name, err)
	}
	purego.RegisterFunc(fptr, fn)
	return nil
}

func (l *nativeLib) RegisterName(name string) Sel { return l.sel_registerName(name) }

func (l *nativeLib) SelName(sel Sel) string { return l.sel_getName(sel) }

func (l *nativeLib) LookUpClass(name string) Class { return l.objc_lookUpClass(name) }

func (l *nativeLib) ObjectClass(obj ID) Class { return l.object_getClass(obj) }

func (l *nativeLib) ClassName(cls Class) string { return l.class_getName(cls) }

func (l *nativeLib) Superclass(cls Class) Class { return l.class_getSuperclass(cls) }

func (l *nativeLib) InstanceMethod(cls Class, sel Sel) Method {
	return l.class_getInstanceMethod(cls, sel)
}

func (l *nativeLib) MethodName(m Method) Sel { return l.method_getName(m) }

func (l *nativeLib) MethodReturnType(m Method) Encoding {
	return Encoding(l.copied(l.method_copyReturnType(m)))
}

func (l *nativeLib) MethodArgumentType(m Method, index int) (Encoding, bool) {
	p := l.method_copyArgumentType(m, uint32(index))
	if p == 0 {
		return "", false
	}
	return Encoding(l.copied(p)), true
}

func (l *nativeLib) MethodNumberOfArguments(m Method) int {
	return int(l.method_getNumberOfArguments(m))
}

func (l *nativeLib) InstanceVariable(cls Class, name string) Ivar {
	return l.class_getInstanceVariable(cls, name)
}

func (l *nativeLib) IvarTypeEncoding(iv Ivar) Encoding {
	return Encoding(l.ivar_getTypeEncoding(iv))
}

func (l *nativeLib) IvarPointer(obj ID, iv Ivar) unsafe.Pointer {
	return unsafe.Add(foreign(uintptr(obj)), l.ivar_getOffset(iv))
}

// copied converts a C string allocated by the runtime to a Go string and
// frees the original.
func (l *nativeLib) copied(p uintptr) string {
	if p == 0 {
		return ""
	}
	s := goString(p)
	l.free(p)
	return s
}

// foreign converts the address of foreign memory to a pointer.
func foreign(p uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&p))
}

// goString copies a NUL-terminated C string.
func goString(p uintptr) string {
	ptr := foreign(p)
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
