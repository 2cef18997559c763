// Command objcabi reports how messages returning the types of Go packages
// are dispatched on each architecture.
//
// Usage:
//
//	objcabi [-arch x86_64,arm64] [-format text|yaml] [-match re] [-ignore re] packages...
//
// For each exported named type with an Objective-C encoding, objcabi prints
// the encoding, the size, and the entry points used by ordinary messages and
// messages to super.
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/zephyrtronium/objc"
)

func main() {
	var match, ignore string
	var arches, format string
	flag.StringVar(&match, "match", ".", "include only types matching this regular expression")
	flag.StringVar(&ignore, "ignore", "$^", "exclude types matching this regular expression")
	flag.StringVar(&arches, "arch", "x86,x86_64,arm,arm64", "comma-separated list of architectures to report")
	flag.StringVar(&format, "format", "text", "output format, text or yaml")
	flag.Parse()
	mre, err := regexp.Compile(match)
	if err != nil {
		fail("error compiling match:", err)
	}
	ire, err := regexp.Compile(ignore)
	if err != nil {
		fail("error compiling ignore:", err)
	}
	as, err := parseArches(arches)
	if err != nil {
		fail(err)
	}
	tgts, err := targets(as)
	if err != nil {
		fail(err)
	}
	write := writeText
	switch format {
	case "text":
	case "yaml":
		write = writeYAML
	default:
		fail("unknown format", format)
	}

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"."}
	}
	config := packages.Config{Mode: packages.NeedName | packages.NeedTypes}
	pkgs, err := packages.Load(&config, args...)
	if err != nil {
		fail("error loading packages:", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		os.Exit(1)
	}
	reports := make([]Report, 0, len(pkgs))
	for _, pkg := range pkgs {
		reports = append(reports, report(pkg.Types, tgts, mre, ire))
	}
	if err := write(os.Stdout, reports); err != nil {
		fail("error writing report:", err)
	}
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

// parseArches parses a comma-separated list of architecture names, as
// printed by objc.Arch.String.
func parseArches(s string) ([]objc.Arch, error) {
	var r []objc.Arch
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		a, ok := archByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown architecture %q", name)
		}
		r = append(r, a)
	}
	if len(r) == 0 {
		return nil, fmt.Errorf("no architectures")
	}
	return r, nil
}

// archByName finds an architecture by its name or its GOARCH.
func archByName(name string) (objc.Arch, bool) {
	for _, a := range objc.Arches {
		if a.String() == name {
			return a, true
		}
	}
	return objc.ArchForGOARCH(name)
}
