// features.go - build-time feature flags, reported at startup.
//
// Grounded on features.go: a package var appended to by build-tag-gated
// init() functions (see rom_embed.go), printed alongside version/runtime
// info.
package main

import (
	"fmt"
	"runtime"
	"sort"
)

const Version = "0.1.0"

var compiledFeatures []string

func printFeatures() {
	fmt.Printf("NovaVM %s\n", Version)
	fmt.Printf("  Go version: %s\n", runtime.Version())
	fmt.Printf("  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
