// Package testutils provides a stub Objective-C runtime for testing message
// dispatch in Go.
package testutils

import (
	_ "embed"
	"log/slog"
	"reflect"
	"testing"

	"github.com/zephyrtronium/objc"
)

// NewTestingRuntime creates a stub and a Runtime using it. If cfg has no
// logger, the runtime logs to tb at debug level. The stub contains no
// classes besides NSObject and NSException; use Counter to add the standard
// fixture classes.
func NewTestingRuntime(tb testing.TB, cfg objc.Config) (*objc.Runtime, *Stub) {
	tb.Helper()
	s := NewStub()
	if cfg.Logger == nil {
		cfg.Logger = Logger(tb)
	}
	rt, err := objc.New(s, cfg)
	if err != nil {
		tb.Fatal("could not create runtime:", err)
	}
	return rt, s
}

// Logger returns a logger which writes debug and higher records to tb.
func Logger(tb testing.TB) *slog.Logger {
	return slog.New(slog.NewTextHandler(tbWriter{tb}, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type tbWriter struct {
	tb testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.tb.Helper()
	w.tb.Log(string(p))
	return len(p), nil
}

//go:embed counter.yaml
var counterFixture []byte

// Rect is the return type of Counter frame. Its encoding is {Rect=dddd}.
type Rect struct {
	X, Y, W, H float64
}

// Pair is the return type of Counter pair. Its encoding is {Pair=ii}.
type Pair struct {
	A, B int32
}

// Blob is the return type of Counter blob, a 17-byte aggregate. Its encoding
// is {Blob=[17C]}.
type Blob struct {
	B [17]uint8
}

// Counter declares the fixture classes Counter and SubCounter on s and
// returns them.
//
// Counter has an unsigned int ivar _number with accessors number and
// setNumber:. foo: takes an unsigned int and returns it plus _number. ratio
// returns _number divided by 4 as a double. pair returns a Pair of _number
// and its negation, frame returns a Rect with every field _number, and blob
// returns a Blob filled with the low byte of _number. raise: throws its
// argument.
//
// SubCounter overrides number to return twice _number.
func Counter(s *Stub) (counter, subCounter objc.Class) {
	classes, err := s.Load(counterFixture, CounterImps(s))
	if err != nil {
		panic(err)
	}
	return classes["Counter"], classes["SubCounter"]
}

// CounterImps returns the implementations used by the Counter fixture.
func CounterImps(s *Stub) map[string]Imp {
	number := func(self objc.ID) uint32 {
		p, _ := s.ivarOf(self, "_number")
		return *(*uint32)(p)
	}
	return map[string]Imp{
		"foo": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			return reflect.ValueOf(number(self) + uint32(args[0].Uint()))
		},
		"ratio": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			return reflect.ValueOf(float64(number(self)) / 4)
		},
		"pair": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			n := int32(number(self))
			return reflect.ValueOf(Pair{n, -n})
		},
		"frame": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			n := float64(number(self))
			return reflect.ValueOf(Rect{n, n, n, n})
		},
		"blob": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			var b Blob
			for i := range b.B {
				b.B[i] = uint8(number(self))
			}
			return reflect.ValueOf(b)
		},
		"raise": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			s.Throw(objc.ID(args[0].Uint()))
			return reflect.Value{}
		},
		"doubled": func(self objc.ID, cmd objc.Sel, args []reflect.Value) reflect.Value {
			return reflect.ValueOf(2 * number(self))
		},
	}
}
