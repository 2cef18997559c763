package objc

import (
	"sync/atomic"

	"github.com/zephyrtronium/contains"
)

// CachedSel is a selector resolved from its name on first use. Concurrent
// first uses may each register the name; since registration is idempotent,
// they all obtain the same selector.
//
// A CachedSel must only be used with a single Runtime.
type CachedSel struct {
	name string
	sel  atomic.Uintptr
}

// NewCachedSel returns a CachedSel for the selector with the given name.
func NewCachedSel(name string) *CachedSel {
	return &CachedSel{name: name}
}

// Name returns the selector name.
func (c *CachedSel) Name() string {
	return c.name
}

// Get returns the selector, registering it with rt if it has not yet been
// resolved.
func (c *CachedSel) Get(rt *Runtime) Sel {
	if s := c.sel.Load(); s != 0 {
		return Sel(s)
	}
	s := rt.Sel(c.name)
	c.sel.Store(uintptr(s))
	return s
}

// CachedClass is a class looked up by name on first successful use. Like
// CachedSel, concurrent first uses may perform redundant lookups. A failed
// lookup is not cached, so a class registered later is found by a later Get.
//
// A CachedClass must only be used with a single Runtime.
type CachedClass struct {
	name string
	cls  atomic.Uintptr
}

// NewCachedClass returns a CachedClass for the class with the given name.
func NewCachedClass(name string) *CachedClass {
	return &CachedClass{name: name}
}

// Name returns the class name.
func (c *CachedClass) Name() string {
	return c.name
}

// Get returns the class, or 0 if no class with the name exists.
func (c *CachedClass) Get(rt *Runtime) Class {
	if cls := c.cls.Load(); cls != 0 {
		return Class(cls)
	}
	cls := rt.Class(c.name)
	if cls != 0 {
		c.cls.Store(uintptr(cls))
	}
	return cls
}

// IsSubclass reports whether cls is of or inherits from of. A malformed
// class hierarchy containing a cycle is treated as ending at the cycle.
func (rt *Runtime) IsSubclass(cls, of Class) bool {
	set := contains.Set{}
	for cls != 0 && set.Add(uintptr(cls)) {
		if cls == of {
			return true
		}
		cls = rt.b.Superclass(cls)
	}
	return false
}

// IsKindOf reports whether obj is an instance of cls or of a subclass of
// cls. A nil object is not of any kind.
func (rt *Runtime) IsKindOf(obj ID, cls Class) bool {
	if obj == 0 {
		return false
	}
	return rt.IsSubclass(rt.b.ObjectClass(obj), cls)
}

// Superclasses returns the superclass chain of cls, beginning with cls
// itself.
func (rt *Runtime) Superclasses(cls Class) []Class {
	var r []Class
	set := contains.Set{}
	for cls != 0 && set.Add(uintptr(cls)) {
		r = append(r, cls)
		cls = rt.b.Superclass(cls)
	}
	return r
}
