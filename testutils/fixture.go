package testutils

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/objc"
)

// Fixture is a YAML description of stub classes.
//
//	classes:
//	  - name: Counter
//	    superclass: NSObject
//	    ivars:
//	      - {name: _number, type: I}
//	    methods:
//	      - {selector: number, kind: getter, ivar: _number}
//	      - {selector: "setNumber:", kind: setter, ivar: _number}
//	      - {selector: "foo:", kind: impl, impl: foo, returns: I, arguments: [I]}
type Fixture struct {
	Classes []ClassFixture `yaml:"classes"`
}

// ClassFixture describes one class. An empty superclass means NSObject.
// Superclasses must be declared earlier in the fixture or already exist.
type ClassFixture struct {
	Name       string          `yaml:"name"`
	Superclass string          `yaml:"superclass"`
	Ivars      []IvarFixture   `yaml:"ivars"`
	Methods    []MethodFixture `yaml:"methods"`
}

// IvarFixture describes an instance variable.
type IvarFixture struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// MethodFixture describes a method. Kind is one of getter or setter, which
// synthesize an accessor for Ivar, or impl, which uses the implementation
// named by Impl with the types given by Returns and Arguments.
type MethodFixture struct {
	Selector  string   `yaml:"selector"`
	Kind      string   `yaml:"kind"`
	Ivar      string   `yaml:"ivar"`
	Impl      string   `yaml:"impl"`
	Returns   string   `yaml:"returns"`
	Arguments []string `yaml:"arguments"`
}

// Load declares the classes described by a YAML fixture. imps supplies the
// implementations named by impl methods. The result maps class names to the
// declared classes.
func (s *Stub) Load(data []byte, imps map[string]Imp) (map[string]objc.Class, error) {
	var f Fixture
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("testutils: parsing fixture: %w", err)
	}
	r := make(map[string]objc.Class, len(f.Classes))
	for _, cf := range f.Classes {
		cls, err := s.declareFixture(cf, imps)
		if err != nil {
			return r, fmt.Errorf("testutils: class %s: %w", cf.Name, err)
		}
		r[cf.Name] = cls
	}
	return r, nil
}

func (s *Stub) declareFixture(cf ClassFixture, imps map[string]Imp) (objc.Class, error) {
	super := s.Root
	if cf.Superclass != "" {
		super = s.LookUpClass(cf.Superclass)
		if super == 0 {
			return 0, fmt.Errorf("no superclass %s", cf.Superclass)
		}
	}
	if s.LookUpClass(cf.Name) != 0 {
		return 0, fmt.Errorf("class already exists")
	}
	b := s.Declare(cf.Name, super)
	types := make(map[string]objc.Encoding, len(cf.Ivars))
	for _, iv := range cf.Ivars {
		enc := objc.Encoding(iv.Type)
		if _, ok := typeForEncoding(enc); !ok {
			return 0, fmt.Errorf("ivar %s has unsupported type %q", iv.Name, iv.Type)
		}
		b.AddIvar(iv.Name, enc)
		types[iv.Name] = enc
	}
	for _, mf := range cf.Methods {
		switch mf.Kind {
		case "getter":
			enc, ok := types[mf.Ivar]
			if !ok {
				return 0, fmt.Errorf("getter %s for unknown ivar %s", mf.Selector, mf.Ivar)
			}
			b.AddMethod(mf.Selector, s.Getter(mf.Ivar), enc)
		case "setter":
			enc, ok := types[mf.Ivar]
			if !ok {
				return 0, fmt.Errorf("setter %s for unknown ivar %s", mf.Selector, mf.Ivar)
			}
			b.AddMethod(mf.Selector, s.Setter(mf.Ivar), objc.EncVoid, enc)
		case "impl":
			imp, ok := imps[mf.Impl]
			if !ok {
				return 0, fmt.Errorf("method %s uses unknown implementation %q", mf.Selector, mf.Impl)
			}
			ret := objc.Encoding(mf.Returns)
			if ret == "" {
				ret = objc.EncVoid
			}
			args := make([]objc.Encoding, len(mf.Arguments))
			for i, a := range mf.Arguments {
				args[i] = objc.Encoding(a)
			}
			b.AddMethod(mf.Selector, imp, ret, args...)
		default:
			return 0, fmt.Errorf("method %s has unknown kind %q", mf.Selector, mf.Kind)
		}
	}
	return b.Register(), nil
}
