// dma.go - DMA and blitter: bulk and 2D strided copy/fill across named
// memory spaces.
//
// No teacher file implements a generic blitter; this is authored fresh,
// following file_io.go's byte-at-a-time bus loop for the RAM-facing path and
// coprocessor_manager.go's shadow command/status/error register dispatch
// style for the controller shape.
package main

// DMA register offsets within $BA50-$BA9F.
const (
	dmaRegCommand       = 0x00
	dmaRegStatus        = 0x01
	dmaRegErrorCode     = 0x02
	dmaRegSrcSpace      = 0x03
	dmaRegSrcAddrLo     = 0x04
	dmaRegSrcAddrHi     = 0x05
	dmaRegDstSpace      = 0x06
	dmaRegDstAddrLo     = 0x07
	dmaRegDstAddrHi     = 0x08
	dmaRegLengthLo      = 0x09
	dmaRegLengthHi      = 0x0A
	dmaRegSrcStrideLo   = 0x0B
	dmaRegSrcStrideHi   = 0x0C
	dmaRegDstStrideLo   = 0x0D
	dmaRegDstStrideHi   = 0x0E
	dmaRegWidthLo       = 0x0F
	dmaRegWidthHi       = 0x10
	dmaRegHeightLo      = 0x11
	dmaRegHeightHi      = 0x12
	dmaRegColorKeyOn    = 0x13
	dmaRegColorKeyValue = 0x14
	dmaRegFillValue     = 0x15
	dmaRegCountLo       = 0x16
	dmaRegCountHi       = 0x17
)

// Status values.
const (
	dmaStatusIdle  = 0
	dmaStatusOK    = 1
	dmaStatusError = 2
)

// Error codes.
const (
	dmaErrNone      = 0
	dmaErrBadCmd    = 1
	dmaErrBadSpace  = 2
	dmaErrRange     = 3
	dmaErrBadArgs   = 4
	dmaErrWriteProt = 5
)

// Commands.
const (
	dmaCmdCopy = 0x01
	dmaCmdFill = 0x02
	dmaCmdBlit = 0x03
)

// Space IDs.
const (
	spaceCPURAM       = 0
	spaceCharRAM      = 1
	spaceColorRAM     = 2
	spaceGraphics     = 3
	spaceSpriteShapes = 4
	spaceExtRAM       = 5
)

const extRAMSize = 65536

// DMA implements the bulk/2D-blitter controller.
type DMA struct {
	command   byte
	status    byte
	errCode   byte
	srcSpace  byte
	srcAddr   uint16
	dstSpace  byte
	dstAddr   uint16
	length    uint16
	srcStride uint16
	dstStride uint16
	width     uint16
	height    uint16
	colorKeyOn    byte
	colorKeyValue byte
	fillValue     byte
	count         uint16

	extRAM [extRAMSize]byte

	readRAM  func(addr uint16) byte
	writeRAM func(addr uint16, value byte)
	vgc      *VGC
}

// NewDMA builds a DMA/blitter controller wired to the bus's RAM closures and
// the VGC for its non-CPU address spaces.
func NewDMA(readRAM func(uint16) byte, writeRAM func(uint16, byte), vgc *VGC) *DMA {
	return &DMA{readRAM: readRAM, writeRAM: writeRAM, vgc: vgc}
}

// RegisterOn wires the DMA register block into the bus.
func (d *DMA) RegisterOn(b *Bus) {
	b.MapIO("dma", DMARegsStart, DMARegsEnd, d.read, d.write)
}

func (d *DMA) read(addr uint16) byte {
	switch addr - DMARegsStart {
	case dmaRegCommand:
		return d.command
	case dmaRegStatus:
		return d.status
	case dmaRegErrorCode:
		return d.errCode
	case dmaRegSrcSpace:
		return d.srcSpace
	case dmaRegSrcAddrLo:
		return byte(d.srcAddr)
	case dmaRegSrcAddrHi:
		return byte(d.srcAddr >> 8)
	case dmaRegDstSpace:
		return d.dstSpace
	case dmaRegDstAddrLo:
		return byte(d.dstAddr)
	case dmaRegDstAddrHi:
		return byte(d.dstAddr >> 8)
	case dmaRegLengthLo:
		return byte(d.length)
	case dmaRegLengthHi:
		return byte(d.length >> 8)
	case dmaRegSrcStrideLo:
		return byte(d.srcStride)
	case dmaRegSrcStrideHi:
		return byte(d.srcStride >> 8)
	case dmaRegDstStrideLo:
		return byte(d.dstStride)
	case dmaRegDstStrideHi:
		return byte(d.dstStride >> 8)
	case dmaRegWidthLo:
		return byte(d.width)
	case dmaRegWidthHi:
		return byte(d.width >> 8)
	case dmaRegHeightLo:
		return byte(d.height)
	case dmaRegHeightHi:
		return byte(d.height >> 8)
	case dmaRegColorKeyOn:
		return d.colorKeyOn
	case dmaRegColorKeyValue:
		return d.colorKeyValue
	case dmaRegFillValue:
		return d.fillValue
	case dmaRegCountLo:
		return byte(d.count)
	case dmaRegCountHi:
		return byte(d.count >> 8)
	}
	return 0
}

func (d *DMA) write(addr uint16, value byte) {
	switch addr - DMARegsStart {
	case dmaRegCommand:
		d.command = value
		d.exec(value)
		return
	case dmaRegSrcSpace:
		d.srcSpace = value
	case dmaRegSrcAddrLo:
		d.srcAddr = (d.srcAddr & 0xFF00) | uint16(value)
	case dmaRegSrcAddrHi:
		d.srcAddr = (d.srcAddr & 0x00FF) | uint16(value)<<8
	case dmaRegDstSpace:
		d.dstSpace = value
	case dmaRegDstAddrLo:
		d.dstAddr = (d.dstAddr & 0xFF00) | uint16(value)
	case dmaRegDstAddrHi:
		d.dstAddr = (d.dstAddr & 0x00FF) | uint16(value)<<8
	case dmaRegLengthLo:
		d.length = (d.length & 0xFF00) | uint16(value)
	case dmaRegLengthHi:
		d.length = (d.length & 0x00FF) | uint16(value)<<8
	case dmaRegSrcStrideLo:
		d.srcStride = (d.srcStride & 0xFF00) | uint16(value)
	case dmaRegSrcStrideHi:
		d.srcStride = (d.srcStride & 0x00FF) | uint16(value)<<8
	case dmaRegDstStrideLo:
		d.dstStride = (d.dstStride & 0xFF00) | uint16(value)
	case dmaRegDstStrideHi:
		d.dstStride = (d.dstStride & 0x00FF) | uint16(value)<<8
	case dmaRegWidthLo:
		d.width = (d.width & 0xFF00) | uint16(value)
	case dmaRegWidthHi:
		d.width = (d.width & 0x00FF) | uint16(value)<<8
	case dmaRegHeightLo:
		d.height = (d.height & 0xFF00) | uint16(value)
	case dmaRegHeightHi:
		d.height = (d.height & 0x00FF) | uint16(value)<<8
	case dmaRegColorKeyOn:
		d.colorKeyOn = value
	case dmaRegColorKeyValue:
		d.colorKeyValue = value
	case dmaRegFillValue:
		d.fillValue = value
	}
}

func (d *DMA) fail(code byte) {
	d.status = dmaStatusError
	d.errCode = code
}

func (d *DMA) ok() {
	d.status = dmaStatusOK
	d.errCode = dmaErrNone
}

// spaceSize returns the addressable length of a space, or 0 if unknown.
func spaceSize(space byte) int {
	switch space {
	case spaceCPURAM:
		return 65536
	case spaceCharRAM, spaceColorRAM:
		return TextCells
	case spaceGraphics:
		return GfxWidth * GfxHeight
	case spaceSpriteShapes:
		return 256 * 128
	case spaceExtRAM:
		return extRAMSize
	}
	return 0
}

func (d *DMA) readSpace(space byte, addr int) byte {
	switch space {
	case spaceCPURAM:
		return d.readRAM(uint16(addr))
	case spaceCharRAM:
		return d.vgc.readScreen(ScreenRAMStart + uint16(addr))
	case spaceColorRAM:
		return d.vgc.readColor(ColorRAMStart + uint16(addr))
	case spaceGraphics:
		return d.vgc.GfxPixel(addr%GfxWidth, addr/GfxWidth)
	case spaceSpriteShapes:
		return d.vgc.shapeByteAt(addr)
	case spaceExtRAM:
		return d.extRAM[addr]
	}
	return 0
}

// writeSpace writes a byte into the named space, returning false (and a
// write-prot error already latched) if the destination is read-only.
func (d *DMA) writeSpace(space byte, addr int, value byte) bool {
	switch space {
	case spaceCPURAM:
		if addr >= ROMStart && addr <= ROMEnd {
			d.fail(dmaErrWriteProt)
			return false
		}
		d.writeRAM(uint16(addr), value)
	case spaceCharRAM:
		d.vgc.writeScreen(ScreenRAMStart+uint16(addr), value)
	case spaceColorRAM:
		d.vgc.writeColor(ColorRAMStart+uint16(addr), value)
	case spaceGraphics:
		d.vgc.setGfxByte(addr, value)
	case spaceSpriteShapes:
		d.vgc.setShapeByteAt(addr, value)
	case spaceExtRAM:
		d.extRAM[addr] = value
	default:
		d.fail(dmaErrBadSpace)
		return false
	}
	return true
}

func (d *DMA) exec(opcode byte) {
	switch opcode {
	case dmaCmdCopy:
		d.execCopy()
	case dmaCmdFill:
		d.execFill()
	case dmaCmdBlit:
		d.execBlit()
	default:
		d.fail(dmaErrBadCmd)
	}
}

func (d *DMA) validSpace(space byte) bool {
	return spaceSize(space) > 0
}

func (d *DMA) execCopy() {
	if !d.validSpace(d.srcSpace) || !d.validSpace(d.dstSpace) {
		d.fail(dmaErrBadSpace)
		return
	}
	srcSize, dstSize := spaceSize(d.srcSpace), spaceSize(d.dstSpace)
	length := int(d.length)
	if length == 0 {
		length = 65536
	}
	if int(d.srcAddr)+length > srcSize || int(d.dstAddr)+length > dstSize {
		d.fail(dmaErrRange)
		return
	}
	for i := 0; i < length; i++ {
		v := d.readSpace(d.srcSpace, int(d.srcAddr)+i)
		if !d.writeSpace(d.dstSpace, int(d.dstAddr)+i, v) {
			return
		}
	}
	d.count = uint16(length % 65536)
	d.ok()
}

func (d *DMA) execFill() {
	if !d.validSpace(d.dstSpace) {
		d.fail(dmaErrBadSpace)
		return
	}
	dstSize := spaceSize(d.dstSpace)
	length := int(d.length)
	if length == 0 {
		length = 65536
	}
	if int(d.dstAddr)+length > dstSize {
		d.fail(dmaErrRange)
		return
	}
	for i := 0; i < length; i++ {
		if !d.writeSpace(d.dstSpace, int(d.dstAddr)+i, d.fillValue) {
			return
		}
	}
	d.count = uint16(length % 65536)
	d.ok()
}

// execBlit performs a 2D strided copy, optionally skipping pixels equal to
// the configured color-key value.
func (d *DMA) execBlit() {
	if !d.validSpace(d.srcSpace) || !d.validSpace(d.dstSpace) {
		d.fail(dmaErrBadSpace)
		return
	}
	if d.width == 0 || d.height == 0 {
		d.fail(dmaErrBadArgs)
		return
	}
	srcSize, dstSize := spaceSize(d.srcSpace), spaceSize(d.dstSpace)
	transferred := 0
	for row := 0; row < int(d.height); row++ {
		srcRow := int(d.srcAddr) + row*int(d.srcStride)
		dstRow := int(d.dstAddr) + row*int(d.dstStride)
		for col := 0; col < int(d.width); col++ {
			srcOff, dstOff := srcRow+col, dstRow+col
			if srcOff < 0 || srcOff >= srcSize || dstOff < 0 || dstOff >= dstSize {
				d.fail(dmaErrRange)
				return
			}
			v := d.readSpace(d.srcSpace, srcOff)
			if d.colorKeyOn != 0 && v == d.colorKeyValue {
				continue
			}
			if !d.writeSpace(d.dstSpace, dstOff, v) {
				return
			}
			transferred++
		}
	}
	d.count = uint16(transferred % 65536)
	d.ok()
}
