package main

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"regexp"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/objc"
)

// source stands in for package objc along with some types to report.
const source = `package objc

import "unsafe"

type ID uintptr
type Class uintptr
type Sel uintptr
type CString *byte
type ConstPtr[T any] uintptr

type Point struct {
	X, Y float64
}

type Rect struct {
	Origin, Size Point
}

type Node struct {
	Value int32
	Next  *Node
}

type Message struct {
	Receiver ID
	Sel      Sel
	Class    Class
	Name     CString
}

type Word int
type Raw unsafe.Pointer
type Grid [3][2]uint8
type Unit struct{}
type Const struct{ P ConstPtr[Point] }
type Ratio float64
type Bytes []byte

type Custom int32

func (Custom) ObjCEncoding() string { return "i" }

type hidden int32
`

func checkSource(t *testing.T) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "objc.go", source, 0)
	if err != nil {
		t.Fatal(err)
	}
	conf := types.Config{Importer: importerFunc(func(path string) (*types.Package, error) {
		return types.Unsafe, nil
	})}
	pkg, err := conf.Check(objcPath, fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

type importerFunc func(path string) (*types.Package, error)

func (f importerFunc) Import(path string) (*types.Package, error) { return f(path) }

func TestEncoding(t *testing.T) {
	pkg := checkSource(t)
	cases := map[string]struct {
		enc64, enc32 objc.Encoding
	}{
		"ID":      {"@", "@"},
		"Class":   {"#", "#"},
		"Sel":     {":", ":"},
		"CString": {"*", "*"},
		"Point":   {"{Point=dd}", "{Point=dd}"},
		"Rect":    {"{Rect={Point=dd}{Point=dd}}", "{Rect={Point=dd}{Point=dd}}"},
		"Node":    {"{Node=i^{Node}}", "{Node=i^{Node}}"},
		"Message": {"{Message=@:#*}", "{Message=@:#*}"},
		"Word":    {"q", "i"},
		"Raw":     {"^v", "^v"},
		"Grid":    {"[3[2C]]", "[3[2C]]"},
		"Unit":    {"v", "v"},
		"Const":   {"{Const=r^{Point=dd}}", "{Const=r^{Point=dd}}"},
		"Ratio":   {"d", "d"},
	}
	e64 := encoder{sizes: types.SizesFor("gc", "amd64")}
	e32 := encoder{sizes: types.SizesFor("gc", "arm")}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			typ := pkg.Scope().Lookup(name).Type()
			if enc, ok := e64.encoding(typ); !ok || enc != c.enc64 {
				t.Errorf("wrong 64-bit encoding: want %q, have %q (%t)", c.enc64, enc, ok)
			}
			if enc, ok := e32.encoding(typ); !ok || enc != c.enc32 {
				t.Errorf("wrong 32-bit encoding: want %q, have %q (%t)", c.enc32, enc, ok)
			}
		})
	}
	for _, name := range []string{"Bytes", "Custom"} {
		t.Run(name, func(t *testing.T) {
			typ := pkg.Scope().Lookup(name).Type()
			if enc, ok := e64.encoding(typ); ok {
				t.Errorf("%s has encoding %q", name, enc)
			}
		})
	}
}

func TestReport(t *testing.T) {
	pkg := checkSource(t)
	tgts, err := targets([]objc.Arch{objc.ArchX86, objc.ArchX86_64, objc.ArchARM, objc.ArchARM64})
	if err != nil {
		t.Fatal(err)
	}
	r := report(pkg, tgts, regexp.MustCompile("."), regexp.MustCompile("^Raw$"))
	names := make([]string, len(r.Types))
	for i, tr := range r.Types {
		names[i] = tr.Name
	}
	// Bytes and Custom have no static encoding, ConstPtr is generic, Raw is
	// ignored, and hidden is unexported.
	want := "CString Class Const Grid ID Message Node Point Ratio Rect Sel Unit Word"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("wrong types:\nwant %s\nhave %s", want, got)
	}
	var rect TypeReport
	for _, tr := range r.Types {
		if tr.Name == "Rect" {
			rect = tr
		}
	}
	wantRect := []ArchReport{
		{Arch: "x86", Encoding: "{Rect={Point=dd}{Point=dd}}", Size: 32, Send: "objc_msgSend_stret", Super: "objc_msgSendSuper_stret"},
		{Arch: "x86_64", Encoding: "{Rect={Point=dd}{Point=dd}}", Size: 32, Send: "objc_msgSend_stret", Super: "objc_msgSendSuper_stret"},
		{Arch: "arm", Encoding: "{Rect={Point=dd}{Point=dd}}", Size: 32, Send: "objc_msgSend_stret", Super: "objc_msgSendSuper_stret"},
		{Arch: "arm64", Encoding: "{Rect={Point=dd}{Point=dd}}", Size: 32, Send: "objc_msgSend", Super: "objc_msgSendSuper"},
	}
	if len(rect.Arches) != len(wantRect) {
		t.Fatalf("wrong Rect report: %+v", rect)
	}
	for i, a := range rect.Arches {
		if a != wantRect[i] {
			t.Errorf("wrong Rect report for %s:\nwant %+v\nhave %+v", wantRect[i].Arch, wantRect[i], a)
		}
	}

	var buf bytes.Buffer
	if err := writeYAML(&buf, []Report{r}); err != nil {
		t.Fatal(err)
	}
	var back []Report
	if err := yaml.UnmarshalStrict(buf.Bytes(), &back); err != nil {
		t.Fatalf("couldn't read YAML report: %v", err)
	}
	if len(back) != 1 || back[0].Package != objcPath || len(back[0].Types) != len(r.Types) {
		t.Errorf("YAML report differs: %+v", back)
	}
	buf.Reset()
	if err := writeText(&buf, []Report{r}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "objc_msgSend_fpret") {
		t.Errorf("text report has no fpret entries:\n%s", buf.String())
	}
}

func TestParseArches(t *testing.T) {
	cases := map[string]struct {
		in   string
		want []objc.Arch
		ok   bool
	}{
		"names":  {"x86_64, arm64", []objc.Arch{objc.ArchX86_64, objc.ArchARM64}, true},
		"goarch": {"386,amd64", []objc.Arch{objc.ArchX86, objc.ArchX86_64}, true},
		"bad":    {"mips", nil, false},
		"empty":  {",", nil, false},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := parseArches(c.in)
			if (err == nil) != c.ok {
				t.Fatalf("wrong error: %v", err)
			}
			if len(got) != len(c.want) {
				t.Fatalf("wrong arches: want %v, have %v", c.want, got)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Errorf("wrong arch %d: want %v, have %v", i, c.want[i], got[i])
				}
			}
		})
	}
}
