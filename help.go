// help.go - help bridge wired onto the bus's auxiliary help register.
//
// The help panel and documentation pipeline are an external collaborator
// out of this system's scope; this bridge is the nearest legitimate home
// for the help register's contract (§4.1: "Help register ($A020): route to
// help bridge"): writing a topic byte queues a short built-in blurb onto the
// character-in port, and the status byte this package reports back through
// Bus.MapHelp's read handler is read-clears like the VGC's other status
// registers.
package main

import "sync"

// HelpBridge answers topic lookups by queuing text into the VGC's
// character-in port, reusing the same delivery channel a running program
// already reads from.
type HelpBridge struct {
	mu      sync.Mutex
	vgc     *VGC
	topics  map[byte]string
	pending bool
}

func NewHelpBridge(vgc *VGC) *HelpBridge {
	return &HelpBridge{
		vgc: vgc,
		topics: map[byte]string{
			0x00: "topics: 1=vgc 2=sid 3=nic 4=dma 5=fio 6=timer\r",
			0x01: "vgc: $A000-$A01E core, $A020-$A03F aux, $A040-$A0BF sprites\r",
			0x02: "sid: $D400-$D41C, 3 voices, ADSR + 2-pole filter\r",
			0x03: "nic: 4 slots, 1-byte length-prefixed TCP framing\r",
			0x04: "dma: copy/fill/blit across cpu/char/color/gfx/sprite/ext spaces\r",
			0x05: "fio: save/load program/char/color/gfx/sprites/palette/font/mml\r",
			0x06: "timer: control, status, divisor lo/hi, ticked ~every 100 cycles\r",
		},
	}
}

func (h *HelpBridge) RegisterOn(b *Bus) {
	b.MapHelp(h.read, h.write)
}

func (h *HelpBridge) read(addr uint16) byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending {
		h.pending = false
		return 1
	}
	return 0
}

func (h *HelpBridge) write(addr uint16, value byte) {
	h.mu.Lock()
	text, ok := h.topics[value]
	h.mu.Unlock()
	if !ok {
		text = "no help for that topic\r"
	}
	h.vgc.PushCharIn([]byte(text)...)
	h.mu.Lock()
	h.pending = true
	h.mu.Unlock()
}
