//go:build embed_rom

package main

import _ "embed"

func init() {
	compiledFeatures = append(compiledFeatures, "rom:embedded")
	embeddedROM = romImage
}

// romImage is linked in only when building with -tags embed_rom; callers
// supply their own rom.bin next to this file (not part of this tree).
//
//go:embed rom.bin
var romImage []byte
