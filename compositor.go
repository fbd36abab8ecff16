// compositor.go - Per-scanline video compositor: copper list, sprite
// rasterization, collision detection, and the text/graphics/sprite layer
// stack, producing a 640x200 BGRA8 framebuffer at 60Hz.
//
// Grounded on video_compositor.go's refresh-loop-driven composite() pass and
// video_ted.go's lock-free triple-buffered frame handoff (frameBufs[3],
// atomic shared index): one goroutine writes frames at a fixed cadence while
// a video output backend pulls the latest completed frame on its own
// schedule, same decoupling as TEDVideoEngine/EbitenOutput.
package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const (
	FrameWidth      = 640
	FrameHeight     = 200
	BytesPerPixel   = 4
	SpriteLineWidth = FrameWidth / 2
	textCellSize    = 8
	gfxScale        = FrameWidth / GfxWidth

	blinkHalfPeriodFrames = 30
)

// copperEvent is a single scheduled register write: "at scanline y, once x
// is reached, write value to addr."
type copperEvent struct {
	x, y  uint16
	addr  uint16
	value byte
}

// CopperList holds per-scanline buckets of pending register writes. Targets
// outside the writable set (mode, background color, scroll X/Y, and the
// sprite register bank) are rejected at AddEvent time rather than at replay
// time, matching the permissive-but-bounded command handling used elsewhere
// in the VGC.
type CopperList struct {
	mu      sync.Mutex
	buckets [FrameHeight][]copperEvent
}

func NewCopperList() *CopperList {
	return &CopperList{}
}

// AddEvent schedules a register write for scanline y. Events within a
// scanline are replayed in the order they were added.
func (cl *CopperList) AddEvent(y, x uint16, addr uint16, value byte) bool {
	if int(y) >= FrameHeight || !isWritableCopperTarget(addr) {
		return false
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.buckets[y] = append(cl.buckets[y], copperEvent{x: x, y: y, addr: addr, value: value})
	return true
}

// Clear empties every scanline bucket, used when a program loads a fresh list.
func (cl *CopperList) Clear() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for i := range cl.buckets {
		cl.buckets[i] = nil
	}
}

func (cl *CopperList) eventsFor(y int) []copperEvent {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if len(cl.buckets[y]) == 0 {
		return nil
	}
	out := make([]copperEvent, len(cl.buckets[y]))
	copy(out, cl.buckets[y])
	return out
}

func isSpriteRegAddr(addr uint16) bool {
	return inRange(addr, SpriteRegsStart, SpriteRegsEnd)
}

func isWritableCopperTarget(addr uint16) bool {
	switch addr {
	case VGCCoreStart + regMode, VGCCoreStart + regBgColor, VGCCoreStart + regScrollX, VGCCoreStart + regScrollY:
		return true
	}
	return isSpriteRegAddr(addr)
}

// Compositor renders one frame per tick from VGC state plus any scheduled
// copper events, producing a BGRA8 framebuffer consumed by a video output
// backend.
type Compositor struct {
	vgc    *VGC
	fonts  *FontSlots
	copper *CopperList

	frameBufs  [3][]byte
	writeIdx   int
	sharedIdx  atomic.Int32
	readingIdx int

	pendingSprite []copperEvent
	frameCount    int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewCompositor(vgc *VGC, fonts *FontSlots, copper *CopperList) *Compositor {
	c := &Compositor{vgc: vgc, fonts: fonts, copper: copper, done: make(chan struct{})}
	size := FrameWidth * FrameHeight * BytesPerPixel
	for i := range c.frameBufs {
		c.frameBufs[i] = make([]byte, size)
	}
	c.writeIdx = 0
	c.sharedIdx.Store(1)
	c.readingIdx = 2
	return c
}

// GetFrame returns the most recently completed frame without blocking the
// render loop: a lock-free buffer swap, same pattern as the triple-buffered
// frame handoff the teacher uses for its own video engine.
func (c *Compositor) GetFrame() []byte {
	idx := int(c.sharedIdx.Swap(int32(c.readingIdx)))
	c.readingIdx = idx
	return c.frameBufs[c.readingIdx]
}

// Run drives the compositor at a fixed 60Hz cadence until ctx is canceled.
func (c *Compositor) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.RenderFrame()
		}
	}
}

// Stop cancels the render loop and waits for it to exit.
func (c *Compositor) Stop() {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
}

// RenderFrame runs one full StartFrame/ProcessScanline.../FinishFrame pass.
func (c *Compositor) RenderFrame() {
	c.StartFrame()
	for y := 0; y < FrameHeight; y++ {
		c.ProcessScanline(y)
	}
	c.FinishFrame()
}

// StartFrame drops any sprite-register copper events left over from a
// truncated previous frame.
func (c *Compositor) StartFrame() {
	c.pendingSprite = c.pendingSprite[:0]
	c.fonts.SetActive(c.vgc.FontSelect())
}

// ProcessScanline renders one output row. Copper events targeting the
// sprite register bank take effect starting the following scanline; every
// other writable target takes effect at the pixel column it names.
func (c *Compositor) ProcessScanline(y int) {
	for _, ev := range c.pendingSprite {
		c.vgc.writeSpriteReg(ev.addr, ev.value)
	}
	c.pendingSprite = c.pendingSprite[:0]

	events := c.copper.eventsFor(y)

	var spriteLine [3][SpriteLineWidth]byte
	var ownerMask [SpriteLineWidth]byte
	c.rasterizeSprites(y, &spriteLine, &ownerMask)

	textRow := y / textCellSize
	gfxRow := y / gfxScale
	chars, colors := c.vgc.textRowBytes(textRow)
	gfxPixels := c.vgc.gfxRowBytes(gfxRow)
	st := c.vgc.rowState()

	buf := c.frameBufs[c.writeIdx]
	rowOff := y * FrameWidth * BytesPerPixel

	var spriteCollide, bgCollide byte
	evIdx := 0

	for x := 0; x < FrameWidth; x++ {
		for evIdx < len(events) && int(events[evIdx].x) <= x {
			ev := events[evIdx]
			evIdx++
			if isSpriteRegAddr(ev.addr) {
				c.pendingSprite = append(c.pendingSprite, ev)
				continue
			}
			c.vgc.writeCore(ev.addr, ev.value)
			st = c.vgc.rowState()
		}

		col := x / textCellSize
		gx := x / gfxScale
		sx := x / 2

		color := st.bg
		if spriteLine[0][sx] != 0 {
			color = spriteLine[0][sx]
		}

		drewGraphics := false
		if st.mode != ModeText && gfxPixels[gx] != 0 {
			color = gfxPixels[gx]
			drewGraphics = true
		} else {
			ch := chars[col]
			fg := colors[col]
			bit := (c.fonts.GlyphRow(ch, y%textCellSize) >> uint(7-x%textCellSize)) & 1
			on := bit == 1
			if col == int(st.cursorX) && textRow == int(st.cursorY) && c.blinkVisible() {
				on = !on
			}
			if on {
				color = fg
			} else {
				color = st.bg
			}
		}

		if mask := ownerMask[sx]; mask != 0 {
			if popcount(mask) > 1 {
				spriteCollide |= mask
			}
			if drewGraphics {
				bgCollide |= mask
			}
		}

		if spriteLine[1][sx] != 0 {
			color = spriteLine[1][sx]
		}
		if spriteLine[2][sx] != 0 {
			color = spriteLine[2][sx]
		}

		rgb := PaletteColor(int(color))
		off := rowOff + x*BytesPerPixel
		buf[off+0] = rgb[2]
		buf[off+1] = rgb[1]
		buf[off+2] = rgb[0]
		buf[off+3] = 0xFF
	}

	for ; evIdx < len(events); evIdx++ {
		ev := events[evIdx]
		if isSpriteRegAddr(ev.addr) {
			c.pendingSprite = append(c.pendingSprite, ev)
		} else {
			c.vgc.writeCore(ev.addr, ev.value)
		}
	}

	if spriteCollide != 0 {
		c.vgc.markSpriteCollision(spriteCollide)
	}
	if bgCollide != 0 {
		c.vgc.markSpriteBackgroundCollision(bgCollide)
	}
}

// rasterizeSprites fills the three priority-keyed line buffers (and the
// owner bitmask used for collision detection) for scanline y. Sprite
// vertical position is compared at quarter output resolution (same scale as
// the graphics bitmap); horizontal position addresses a half-resolution
// coordinate space, each entry covering two output pixels.
func (c *Compositor) rasterizeSprites(y int, lines *[3][SpriteLineWidth]byte, owner *[SpriteLineWidth]byte) {
	logicalRow := y / gfxScale
	for i := 0; i < SpriteCount; i++ {
		if !c.vgc.SpriteEnabled(i) {
			continue
		}
		sx, sy := c.vgc.SpritePos(i)
		if logicalRow < sy || logicalRow >= sy+16 {
			continue
		}
		rowInShape := logicalRow - sy
		shape := c.vgc.SpriteShapeOf(i)
		flip := c.vgc.SpriteFlipFlags(i)
		pri := c.vgc.SpritePriority(i)
		if pri > 2 {
			pri = 2
		}
		sampleY := rowInShape
		if flip&flagFlipY != 0 {
			sampleY = 15 - rowInShape
		}
		for px := 0; px < 16; px++ {
			sampleX := px
			if flip&flagFlipX != 0 {
				sampleX = 15 - px
			}
			color := c.vgc.ShapePixel(shape, sampleX, sampleY)
			if color == 0 {
				continue
			}
			outX := sx + px
			if outX < 0 || outX >= SpriteLineWidth {
				continue
			}
			lines[pri][outX] = color
			owner[outX] |= 1 << uint(i&7)
		}
	}
}

func (c *Compositor) blinkVisible() bool {
	return (c.frameCount/blinkHalfPeriodFrames)%2 == 0
}

// FinishFrame publishes the completed frame and advances the VGC's own
// frame counter / raster IRQ.
func (c *Compositor) FinishFrame() {
	finished := c.writeIdx
	prevShared := int(c.sharedIdx.Swap(int32(finished)))
	c.writeIdx = prevShared
	c.frameCount++
	c.vgc.AdvanceFrame()
}

func popcount(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}
