package objc

import (
	"fmt"
	"reflect"
	"sync"
)

// Arch is a calling convention model for which the runtime provides message
// dispatch entry points. The architectures differ in how they return
// aggregates, and therefore in which entry point must be used for a given
// return type.
type Arch int

// Supported architectures.
const (
	// ArchX86 is 32-bit x86 (GOARCH=386).
	ArchX86 Arch = iota
	// ArchX86_64 is x86-64 (GOARCH=amd64).
	ArchX86_64
	// ArchARM is 32-bit ARM (GOARCH=arm).
	ArchARM
	// ArchARM64 is AArch64 (GOARCH=arm64).
	ArchARM64
)

// Arches lists every supported architecture.
var Arches = [...]Arch{ArchX86, ArchX86_64, ArchARM, ArchARM64}

var archNames = [...]string{"x86", "x86_64", "arm", "arm64"}

var archGOARCH = [...]string{"386", "amd64", "arm", "arm64"}

// String returns the conventional name of the architecture.
func (a Arch) String() string {
	if a < ArchX86 || a > ArchARM64 {
		return fmt.Sprintf("Arch(%d)", int(a))
	}
	return archNames[a]
}

// GOARCH returns the GOARCH value corresponding to a.
func (a Arch) GOARCH() string {
	if a < ArchX86 || a > ArchARM64 {
		return ""
	}
	return archGOARCH[a]
}

// ArchForGOARCH returns the architecture corresponding to a GOARCH value.
func ArchForGOARCH(goarch string) (Arch, bool) {
	for i, s := range archGOARCH {
		if s == goarch {
			return Arch(i), true
		}
	}
	return 0, false
}

// Entry identifies a message dispatch entry point of the runtime.
type Entry int

// Dispatch entry points.
const (
	// EntryPlain is objc_msgSend.
	EntryPlain Entry = iota
	// EntryStret is objc_msgSend_stret, which returns aggregates through a
	// hidden pointer argument.
	EntryStret
	// EntryFpret is objc_msgSend_fpret, which returns floating point values
	// on the x87 stack.
	EntryFpret
	// EntrySuper is objc_msgSendSuper.
	EntrySuper
	// EntrySuperStret is objc_msgSendSuper_stret.
	EntrySuperStret

	entryCount
)

var entryNames = [...]string{
	"objc_msgSend",
	"objc_msgSend_stret",
	"objc_msgSend_fpret",
	"objc_msgSendSuper",
	"objc_msgSendSuper_stret",
}

// String returns the symbol name of the entry point.
func (e Entry) String() string {
	if e < EntryPlain || e >= entryCount {
		return fmt.Sprintf("Entry(%d)", int(e))
	}
	return entryNames[e]
}

// SendEntry selects the entry point for an ordinary message send returning a
// value of the given size and encoding. enc may be empty if the return type
// has no encoding.
//
//   - x86_64: plain if size <= 16, else stret.
//   - x86: fpret for float and double; plain if size is 0, 1, 2, 4, or 8;
//     else stret.
//   - arm: plain if size <= 4 or the value is a 64-bit integer or double;
//     else stret.
//   - arm64: always plain.
func (a Arch) SendEntry(size uintptr, enc Encoding) Entry {
	switch a {
	case ArchX86_64:
		if size <= 16 {
			return EntryPlain
		}
		return EntryStret
	case ArchX86:
		if enc.IsFloat() {
			return EntryFpret
		}
		if registerSizeX86(size) {
			return EntryPlain
		}
		return EntryStret
	case ArchARM:
		if size <= 4 || enc.Is64BitScalar() {
			return EntryPlain
		}
		return EntryStret
	case ArchARM64:
		return EntryPlain
	}
	panic(fmt.Errorf("objc: invalid Arch: %v", a))
}

// SuperEntry selects the entry point for a message to super returning a value
// of the given size and encoding. The rules are those of SendEntry, except
// that there is no floating point variant on x86.
func (a Arch) SuperEntry(size uintptr, enc Encoding) Entry {
	switch a {
	case ArchX86_64:
		if size <= 16 {
			return EntrySuper
		}
		return EntrySuperStret
	case ArchX86:
		if registerSizeX86(size) {
			return EntrySuper
		}
		return EntrySuperStret
	case ArchARM:
		if size <= 4 || enc.Is64BitScalar() {
			return EntrySuper
		}
		return EntrySuperStret
	case ArchARM64:
		return EntrySuper
	}
	panic(fmt.Errorf("objc: invalid Arch: %v", a))
}

// HasStret reports whether the architecture has struct-return entry points.
func (a Arch) HasStret() bool {
	return a != ArchARM64
}

func registerSizeX86(size uintptr) bool {
	switch size {
	case 0, 1, 2, 4, 8:
		return true
	}
	return false
}

// dispatchPlan is the resolved encoding and entry points for a return type on
// the host architecture.
type dispatchPlan struct {
	// ret is the type passed to the backend, or nil for void.
	ret   reflect.Type
	enc   Encoding
	send  Entry
	super Entry
}

// plans maps reflect.Type to *dispatchPlan. Plans are computed at most a few
// times per type; concurrent first uses may compute the same plan
// redundantly.
var plans sync.Map

// planFor returns the dispatch plan for the return type t.
func planFor(t reflect.Type) *dispatchPlan {
	if p, ok := plans.Load(t); ok {
		return p.(*dispatchPlan)
	}
	enc, _ := EncodingOf(t)
	p := &dispatchPlan{
		ret:   t,
		enc:   enc,
		send:  HostArch.SendEntry(t.Size(), enc),
		super: HostArch.SuperEntry(t.Size(), enc),
	}
	if t.Size() == 0 {
		p.ret = nil
	}
	plans.Store(t, p)
	return p
}
