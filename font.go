// font.go - Bitmap font subsystem: up to 8 selectable glyph slots.
//
// Grounded on video_ted.go's TEDDefaultCharset/TEDPalette convention for the
// register layout (active-slot select, per-slot storage), but the slot-0
// glyph table itself is rasterized from golang.org/x/image/font/basicfont's
// Face7x13 - the same bitmap font face eMkIII's ui/style package loads via
// text.NewGoXFace(basicfont.Face7x13) - rather than hand-drawn, since no
// pack repo ships its own 8x8 font asset. Additional slots are populated at
// runtime by the file I/O controller's font-load command.
package main

import (
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// FontSlots holds up to 8 glyph tables, 2048 bytes each (256 glyphs x 8
// rows x 1 byte/row, MSB = leftmost pixel).
type FontSlots struct {
	mu     sync.RWMutex
	slots  [8][2048]byte
	loaded [8]bool
	active byte
}

// NewFontSlots builds the font bank with slot 0 populated from the built-in
// default font.
func NewFontSlots() *FontSlots {
	f := &FontSlots{}
	f.slots[0] = defaultFont
	f.loaded[0] = true
	return f
}

// SetActive selects the font slot used by the compositor (low 3 bits).
func (f *FontSlots) SetActive(slot byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = slot & 0x07
}

// LoadSlot installs a 2048-byte glyph table into the given slot, used by the
// file I/O controller when loading a font asset from the host directory.
func (f *FontSlots) LoadSlot(slot byte, data []byte) {
	if slot >= 8 || len(data) != 2048 {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(f.slots[slot][:], data)
	f.loaded[slot] = true
}

// GlyphRow returns row `row` (0-7) of glyph `ch` from the active slot,
// falling back to slot 0 when the active slot is empty.
func (f *FontSlots) GlyphRow(ch byte, row int) byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	slot := f.active
	if !f.loaded[slot] {
		slot = 0
	}
	return f.slots[slot][int(ch)*8+row]
}

var paletteMu sync.RWMutex

// Palette is the 16-entry C64-family RGB palette (§6). Mutable so the file
// I/O controller's palette-load command can replace it wholesale.
var Palette = [16][3]byte{
	{0x00, 0x00, 0x00}, // black
	{0xff, 0xff, 0xff}, // white
	{0x88, 0x39, 0x32}, // red
	{0x67, 0xb6, 0xbd}, // cyan
	{0x8b, 0x3f, 0x96}, // purple
	{0x55, 0xa0, 0x49}, // green
	{0x40, 0x31, 0x8d}, // blue
	{0xbf, 0xce, 0x72}, // yellow
	{0x8b, 0x54, 0x29}, // orange
	{0x57, 0x42, 0x00}, // brown
	{0xb8, 0x69, 0x62}, // light red
	{0x50, 0x50, 0x50}, // grey dark
	{0x78, 0x78, 0x78}, // grey medium
	{0x94, 0xe0, 0x89}, // light green
	{0x78, 0x69, 0xc4}, // light blue
	{0x9f, 0x9f, 0x9f}, // grey light
}

// PaletteColor returns the RGB triple for index i (0-15) under the read lock.
func PaletteColor(i int) [3]byte {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	return Palette[i&0x0F]
}

// LoadPalette replaces all 16 entries from a 48-byte RGB-triple buffer.
func LoadPalette(data []byte) {
	if len(data) != 48 {
		return
	}
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for i := 0; i < 16; i++ {
		Palette[i] = [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
	}
}

// SavePalette serializes the current palette into a 48-byte RGB-triple buffer.
func SavePalette() []byte {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]byte, 48)
	for i := 0; i < 16; i++ {
		out[i*3], out[i*3+1], out[i*3+2] = Palette[i][0], Palette[i][1], Palette[i][2]
	}
	return out
}

// defaultFont is an 8x8 font covering printable ASCII (0x20-0x7E); unmapped
// glyphs stay blank. Built at package init by rasterizing basicfont.Face7x13
// (the stock Plan 9-derived bitmap face golang.org/x/image ships, the same
// one eMkIII loads for its own UI text) and resampling its 7x13 cells down
// into this VGC's 8x8 glyph cell.
var defaultFont [2048]byte

func init() {
	for ch := 0x20; ch <= 0x7E; ch++ {
		pattern := rasterizeGlyph(byte(ch))
		copy(defaultFont[ch*8:ch*8+8], pattern[:])
	}
}

// rasterizeGlyph draws a single basicfont.Face7x13 glyph onto an offscreen
// mask using font.Drawer, then downsamples its cell into 8 rows of 8 bits
// (MSB = leftmost pixel), matching the VGC's glyph-row format.
func rasterizeGlyph(ch byte) [8]byte {
	const (
		srcW, srcH = 7, 13
		ascent     = 11 // basicfont.Face7x13 baseline offset within its cell
	)

	dst := image.NewAlpha(image.Rect(0, 0, srcW, srcH))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Opaque,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, ascent),
	}
	d.DrawString(string(rune(ch)))

	var rows [8]byte
	for row := 0; row < 8; row++ {
		srcY := row * srcH / 8
		var bits byte
		for col := 0; col < 8; col++ {
			srcX := col * srcW / 8
			if dst.AlphaAt(srcX, srcY).A != 0 {
				bits |= 1 << uint(7-col)
			}
		}
		rows[row] = bits
	}
	return rows
}
