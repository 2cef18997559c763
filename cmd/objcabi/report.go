package main

import (
	"fmt"
	"go/types"
	"io"
	"regexp"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v2"

	"github.com/zephyrtronium/objc"
)

// Report describes the dispatch of the types of one package.
type Report struct {
	Package string       `yaml:"package"`
	Types   []TypeReport `yaml:"types"`
}

// TypeReport describes the dispatch of one type on each architecture.
type TypeReport struct {
	Name   string       `yaml:"name"`
	Arches []ArchReport `yaml:"arches"`
}

// ArchReport describes how a message returning a type is sent on one
// architecture.
type ArchReport struct {
	Arch     string `yaml:"arch"`
	Encoding string `yaml:"encoding"`
	Size     int64  `yaml:"size"`
	Send     string `yaml:"send"`
	Super    string `yaml:"super"`
}

// target is an architecture with the sizes the gc compiler uses for it.
type target struct {
	arch objc.Arch
	enc  encoder
}

// targets returns the targets for arches.
func targets(arches []objc.Arch) ([]target, error) {
	r := make([]target, 0, len(arches))
	for _, a := range arches {
		sizes := types.SizesFor("gc", a.GOARCH())
		if sizes == nil {
			return nil, fmt.Errorf("no sizes for GOARCH %s", a.GOARCH())
		}
		r = append(r, target{arch: a, enc: encoder{sizes: sizes}})
	}
	return r, nil
}

// report describes the exported, non-generic named types in pkg which match
// mre and not ire. Types without encodings on some architecture are omitted.
func report(pkg *types.Package, tgts []target, mre, ire *regexp.Regexp) Report {
	r := Report{Package: pkg.Path()}
	for t := range find(pkg.Scope(), mre, ire) {
		tr, ok := describe(t, tgts)
		if ok {
			r.Types = append(r.Types, tr)
		}
	}
	sort.Slice(r.Types, func(i, j int) bool { return r.Types[i].Name < r.Types[j].Name })
	return r
}

// find sends the named types of a scope which should be reported.
func find(scope *types.Scope, mre, ire *regexp.Regexp) chan *types.TypeName {
	ch := make(chan *types.TypeName, 8)
	go func() {
		defer close(ch)
		for _, name := range scope.Names() {
			if !mre.MatchString(name) || ire.MatchString(name) {
				continue
			}
			t, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !t.Exported() {
				continue
			}
			if n, ok := t.Type().(*types.Named); ok && n.TypeParams().Len() != 0 {
				continue
			}
			ch <- t
		}
	}()
	return ch
}

func describe(t *types.TypeName, tgts []target) (TypeReport, bool) {
	tr := TypeReport{Name: t.Name(), Arches: make([]ArchReport, 0, len(tgts))}
	for _, tgt := range tgts {
		enc, ok := tgt.enc.encoding(t.Type())
		if !ok {
			return tr, false
		}
		size := tgt.enc.sizes.Sizeof(t.Type())
		if enc.Equal(objc.EncVoid) {
			size = 0
		}
		tr.Arches = append(tr.Arches, ArchReport{
			Arch:     tgt.arch.String(),
			Encoding: enc.String(),
			Size:     size,
			Send:     tgt.arch.SendEntry(uintptr(size), enc).String(),
			Super:    tgt.arch.SuperEntry(uintptr(size), enc).String(),
		})
	}
	return tr, true
}

// writeYAML writes reports as a YAML sequence.
func writeYAML(w io.Writer, reports []Report) error {
	b, err := yaml.Marshal(reports)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// writeText writes reports as a table.
func writeText(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tARCH\tENCODING\tSIZE\tSEND\tSUPER")
	for _, r := range reports {
		for _, t := range r.Types {
			for _, a := range t.Arches {
				fmt.Fprintf(tw, "%s.%s\t%s\t%s\t%d\t%s\t%s\n", r.Package, t.Name, a.Arch, a.Encoding, a.Size, a.Send, a.Super)
			}
		}
	}
	return tw.Flush()
}
