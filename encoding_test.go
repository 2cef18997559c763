package objc

import (
	"reflect"
	"testing"
	"unsafe"
)

type point struct {
	X, Y float64
}

type node struct {
	Value int32
	Next  *node
}

type selfish struct{}

func (selfish) ObjCEncoding() Encoding { return "{CGSize=dd}" }

func TestEncodingOf(t *testing.T) {
	wordInt := EncLongLong
	wordUint := EncUnsignedLongLong
	if unsafe.Sizeof(uintptr(0)) == 4 {
		wordInt, wordUint = EncInt, EncUnsignedInt
	}
	cases := map[string]struct {
		typ reflect.Type
		enc Encoding
	}{
		"bool":     {reflect.TypeOf(false), "B"},
		"int8":     {reflect.TypeOf(int8(0)), "c"},
		"int16":    {reflect.TypeOf(int16(0)), "s"},
		"int32":    {reflect.TypeOf(int32(0)), "i"},
		"int64":    {reflect.TypeOf(int64(0)), "q"},
		"int":      {reflect.TypeOf(0), wordInt},
		"uint8":    {reflect.TypeOf(uint8(0)), "C"},
		"uint16":   {reflect.TypeOf(uint16(0)), "S"},
		"uint32":   {reflect.TypeOf(uint32(0)), "I"},
		"uint64":   {reflect.TypeOf(uint64(0)), "Q"},
		"uint":     {reflect.TypeOf(uint(0)), wordUint},
		"uintptr":  {reflect.TypeOf(uintptr(0)), wordUint},
		"float32":  {reflect.TypeOf(float32(0)), "f"},
		"float64":  {reflect.TypeOf(float64(0)), "d"},
		"string":   {reflect.TypeOf(""), "*"},
		"CString":  {reflect.TypeOf(CString(nil)), "*"},
		"ID":       {reflect.TypeOf(ID(0)), "@"},
		"Class":    {reflect.TypeOf(Class(0)), "#"},
		"Sel":      {reflect.TypeOf(Sel(0)), ":"},
		"unit":     {reflect.TypeOf(struct{}{}), "v"},
		"unsafe":   {reflect.TypeOf(unsafe.Pointer(nil)), "^v"},
		"ptr":      {reflect.TypeOf((*int32)(nil)), "^i"},
		"ptrptr":   {reflect.TypeOf((**int32)(nil)), "^^i"},
		"ptrptr3":  {reflect.TypeOf((***uint8)(nil)), "^^^C"},
		"objptr":   {reflect.TypeOf((*ID)(nil)), "^@"},
		"const":    {reflect.TypeOf(ConstPtr[float32](0)), "r^f"},
		"constobj": {reflect.TypeOf(ConstPtr[ID](0)), "r^@"},
		"constany": {reflect.TypeOf(ConstPtr[chan int](0)), "r^?"},
		"array":    {reflect.TypeOf([4]int16{}), "[4s]"},
		"struct":   {reflect.TypeOf(point{}), "{point=dd}"},
		"anon":     {reflect.TypeOf(struct{ A, B uint8 }{}), "{?=CC}"},
		"nested":   {reflect.TypeOf(struct{ P [2]point }{}), "{?=[2{point=dd}]}"},
		"recurse":  {reflect.TypeOf(node{}), "{node=i^{node}}"},
		"encoder":  {reflect.TypeOf(selfish{}), "{CGSize=dd}"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			enc, ok := EncodingOf(c.typ)
			if !ok {
				t.Fatalf("no encoding for %v", c.typ)
			}
			if enc != c.enc {
				t.Errorf("wrong encoding for %v: want %q, have %q", c.typ, c.enc, enc)
			}
			// Cached results must agree.
			if again, _ := EncodingOf(c.typ); again != enc {
				t.Errorf("cached encoding differs: first %q, then %q", enc, again)
			}
		})
	}
}

func TestEncodingOfUnencodable(t *testing.T) {
	cases := map[string]reflect.Type{
		"chan":      reflect.TypeOf(make(chan int)),
		"func":      reflect.TypeOf(func() {}),
		"map":       reflect.TypeOf(map[int]int{}),
		"slice":     reflect.TypeOf([]byte{}),
		"interface": reflect.TypeOf((*any)(nil)).Elem(),
		"ptrchan":   reflect.TypeOf((*chan int)(nil)),
		"field":     reflect.TypeOf(struct{ F func() }{}),
		"complex":   reflect.TypeOf(complex128(0)),
	}
	for name, typ := range cases {
		t.Run(name, func(t *testing.T) {
			if enc, ok := EncodingOf(typ); ok {
				t.Errorf("%v has encoding %q", typ, enc)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	if enc, ok := Encode[uint32](); !ok || enc != EncUnsignedInt {
		t.Errorf("wrong encoding for uint32: want %q, have %q (%t)", EncUnsignedInt, enc, ok)
	}
	if enc, ok := Encode[error](); ok {
		t.Errorf("error has encoding %q", enc)
	}
	if enc := MustEncode[*ID](); enc != "^@" {
		t.Errorf("wrong encoding for *ID: want %q, have %q", "^@", enc)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustEncode of unencodable type didn't panic")
		}
	}()
	MustEncode[[]int]()
}

func TestEncodingEqual(t *testing.T) {
	cases := map[string]struct {
		a, b  Encoding
		equal bool
	}{
		"same":        {"i", "i", true},
		"different":   {"i", "I", false},
		"oneway":      {"Vv", "v", true},
		"const":       {"rv", "v", true},
		"both":        {"r^v", "n^v", true},
		"many":        {"rnNoORVd", "d", true},
		"inner":       {"^rv", "^v", false},
		"struct":      {"r{point=dd}", "{point=dd}", true},
		"constptr":    {"r^{point=dd}", "^{point=dd}", true},
		"differentpp": {"^^i", "^i", false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if got := c.a.Equal(c.b); got != c.equal {
				t.Errorf("%q.Equal(%q): want %t, have %t", c.a, c.b, c.equal, got)
			}
			if got := c.b.Equal(c.a); got != c.equal {
				t.Errorf("%q.Equal(%q): want %t, have %t", c.b, c.a, c.equal, got)
			}
		})
	}
}

func TestEncodingMatches(t *testing.T) {
	if !Encoding("").Matches("i") || !Encoding("i").Matches("") {
		t.Error("empty encoding doesn't match")
	}
	if Encoding("i").Matches("d") {
		t.Error("i matches d")
	}
}

func TestEncodingBuilders(t *testing.T) {
	cases := map[string]struct {
		enc, want Encoding
	}{
		"pointer":  {PointerTo(EncChar), "^c"},
		"const":    {ConstPointerTo(EncChar), "r^c"},
		"struct":   {StructOf("CGPoint", EncDouble, EncDouble), "{CGPoint=dd}"},
		"anon":     {StructOf("", EncInt), "{?=i}"},
		"empty":    {StructOf("S"), "{S=}"},
		"array":    {ArrayOf(3, EncObject), "[3@]"},
		"nested":   {ArrayOf(2, StructOf("P", EncFloat)), "[2{P=f}]"},
		"ptrarray": {PointerTo(ArrayOf(8, EncUnsignedChar)), "^[8C]"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if c.enc != c.want {
				t.Errorf("want %q, have %q", c.want, c.enc)
			}
		})
	}
}

func TestEncodingCode(t *testing.T) {
	cases := map[Encoding]byte{
		"":      0,
		"r":     0,
		"i":     'i',
		"r^v":   '^',
		"{a=i}": '{',
		"Vv":    'v',
	}
	for enc, want := range cases {
		if got := enc.Code(); got != want {
			t.Errorf("%q.Code(): want %q, have %q", enc, want, got)
		}
	}
}

func BenchmarkEncodingOf(b *testing.B) {
	typ := reflect.TypeOf(node{})
	for i := 0; i < b.N; i++ {
		EncodingOf(typ)
	}
}
