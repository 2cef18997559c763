package objc_test

import (
	"errors"
	"reflect"
	"runtime"
	"testing"

	"github.com/zephyrtronium/objc"
	"github.com/zephyrtronium/objc/testutils"
)

func TestIvar(t *testing.T) {
	rt, stub := testutils.NewTestingRuntime(t, objc.Config{})
	_, sub := testutils.Counter(stub)
	obj := stub.New(sub)
	if err := objc.StoreIvar(rt, obj, "_number", uint32(99)); err != nil {
		t.Fatalf("couldn't store inherited ivar: %v", err)
	}
	if r := objc.MustSendSuper[uint32](rt, obj, rt.Class("Counter"), rt.Sel("number")); r != 99 {
		t.Errorf("wrong number after store: want 99, have %d", r)
	}
	objc.MustSend[struct{}](rt, obj, rt.Sel("setNumber:"), uint32(4))
	if r := objc.MustLoadIvar[uint32](rt, obj, "_number"); r != 4 {
		t.Errorf("wrong ivar after setNumber: want 4, have %d", r)
	}
	p, err := objc.IvarPtr[uint32](rt, obj, "_number")
	if err != nil {
		t.Fatalf("couldn't get ivar pointer: %v", err)
	}
	*p = 6
	if r := objc.MustSend[uint32](rt, obj, rt.Sel("number")); r != 12 {
		t.Errorf("wrong number after write through pointer: want 12, have %d", r)
	}
}

func TestIvarErrors(t *testing.T) {
	rt, stub := testutils.NewTestingRuntime(t, objc.Config{})
	counter, _ := testutils.Counter(stub)
	obj := stub.New(counter)
	t.Run("nil", func(t *testing.T) {
		if _, err := objc.LoadIvar[uint32](rt, 0, "_number"); !errors.Is(err, objc.ErrNilObject) {
			t.Errorf("wrong error: want ErrNilObject, have %v", err)
		}
	})
	t.Run("missing", func(t *testing.T) {
		err := objc.StoreIvar(rt, obj, "_count", uint32(1))
		var e *objc.IvarNotFoundError
		if !errors.As(err, &e) {
			t.Fatalf("wrong error: want *IvarNotFoundError, have %#v", err)
		}
		if e.Class != "Counter" || e.Name != "_count" {
			t.Errorf("wrong error details: %+v", e)
		}
	})
	t.Run("type", func(t *testing.T) {
		_, err := objc.LoadIvar[float32](rt, obj, "_number")
		var e *objc.IvarTypeError
		if !errors.As(err, &e) {
			t.Fatalf("wrong error: want *IvarTypeError, have %#v", err)
		}
		if !e.Declared.Equal("I") || !e.Actual.Equal("f") {
			t.Errorf("wrong error details: %+v", e)
		}
	})
	t.Run("panic", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustLoadIvar of a missing ivar didn't panic")
			}
		}()
		objc.MustLoadIvar[uint32](rt, obj, "_count")
	})
}

func TestIvarStruct(t *testing.T) {
	rt, stub := testutils.NewTestingRuntime(t, objc.Config{})
	cls := stub.Declare("Shape", stub.Root).
		AddIvar("_sides", objc.EncUnsignedChar).
		AddIvarType("_frame", reflect.TypeOf(testutils.Rect{})).
		Register()
	obj := stub.New(cls)
	want := testutils.Rect{X: 1, Y: 2, W: 3, H: 4}
	if err := objc.StoreIvar(rt, obj, "_frame", want); err != nil {
		t.Fatalf("couldn't store struct ivar: %v", err)
	}
	if err := objc.StoreIvar(rt, obj, "_sides", uint8(4)); err != nil {
		t.Fatalf("couldn't store byte ivar: %v", err)
	}
	if got := objc.MustLoadIvar[testutils.Rect](rt, obj, "_frame"); got != want {
		t.Errorf("wrong frame: want %+v, have %+v", want, got)
	}
	if got := objc.MustLoadIvar[uint8](rt, obj, "_sides"); got != 4 {
		t.Errorf("wrong sides: want 4, have %d", got)
	}
	// Types without encodings are not checked.
	if _, err := objc.IvarPtr[[2]any](rt, obj, "_frame"); err != nil {
		t.Errorf("unencodable access failed: %v", err)
	}
}

func TestIvarPointerReferent(t *testing.T) {
	rt, stub := testutils.NewTestingRuntime(t, objc.Config{})
	cls := stub.Declare("Holder", stub.Root).
		AddIvar("_value", objc.PointerTo(objc.EncInt)).
		AddIvar("_name", objc.EncCString).
		Register()
	obj := stub.New(cls)
	func() {
		v := new(int32)
		*v = 42
		name := []byte("holder\x00")
		if err := objc.StoreIvar(rt, obj, "_value", v); err != nil {
			t.Fatalf("couldn't store pointer ivar: %v", err)
		}
		if err := objc.StoreIvar(rt, obj, "_name", objc.CString(&name[0])); err != nil {
			t.Fatalf("couldn't store string ivar: %v", err)
		}
	}()
	// The ivars hold the only references to their referents.
	runtime.GC()
	runtime.GC()
	if v := objc.MustLoadIvar[*int32](rt, obj, "_value"); *v != 42 {
		t.Errorf("pointer ivar referent changed: want 42, have %d", *v)
	}
	if c := objc.MustLoadIvar[objc.CString](rt, obj, "_name"); *c != 'h' {
		t.Errorf("string ivar referent changed: want 'h', have %q", *c)
	}
}
