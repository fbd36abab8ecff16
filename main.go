// main.go - NovaVM entry point.
//
// Grounded on main.go's boot sequence (construct bus + peripherals, MapIO
// each one, start backends, run): the 6502 CPU core and BASIC ROM are out of
// scope external collaborators (§1), so this entry point boots the bus with
// a reset-stub ROM and drives the timer's tick cadence and the compositor's
// frame cadence itself rather than from a CPU fetch-decode loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func boilerPlate() {
	fmt.Println("NovaVM - a memory-mapped 6502-class home computer, minus the 6502")
	fmt.Println("VGC video + command engine, SID-class audio, timer, file I/O, DMA, 4-slot NIC")
}

func main() {
	cfg := DefaultConfig()

	hostDir := flag.String("hostdir", cfg.HostDir, "host directory the file I/O controller may read/write")
	sampleRate := flag.Int("samplerate", cfg.SampleRate, "audio sample rate in Hz")
	console := flag.Bool("console", false, "run an interactive raw-mode terminal console alongside the window (or alone in a headless build)")
	showFeatures := flag.Bool("features", false, "print compiled features and exit")
	flag.Parse()

	cfg.HostDir = *hostDir
	cfg.SampleRate = *sampleRate

	if *showFeatures {
		printFeatures()
		return
	}

	boilerPlate()

	irq := &IRQLine{}
	bus := NewBus()

	vgc := NewVGC(irq)
	fonts := NewFontSlots()
	sid := NewSID(cfg.SampleRate)
	timer := NewTimer(irq)
	dma := NewDMA(bus.ReadRAM, bus.WriteRAM, vgc)
	nic := NewNIC(irq, bus.ReadRAM, bus.WriteRAM)
	fio := NewFIO(cfg.HostDir, bus.ReadRAM, bus.WriteRAM, vgc, fonts, sid)
	help := NewHelpBridge(vgc)

	vgc.RegisterOn(bus)
	sid.RegisterOn(bus)
	timer.RegisterOn(bus)
	dma.RegisterOn(bus)
	nic.RegisterOn(bus)
	fio.RegisterOn(bus)
	help.RegisterOn(bus)

	bus.Boot(BootROM(), []ControllerEntry{
		{Name: "vgc", Base: VGCCoreStart, Entry: VGCCoreStart},
		{Name: "sid", Base: SIDWindowStart, Entry: SIDWindowStart},
		{Name: "timer", Base: TimerRegsStart, Entry: TimerRegsStart},
		{Name: "dma", Base: DMARegsStart, Entry: DMARegsStart},
		{Name: "nic", Base: NICRegsStart, Entry: NICRegsStart},
		{Name: "fio", Base: FIORegsStart, Entry: FIORegsStart},
	})

	if cfg.RasterIRQ {
		bus.Write(VGCAuxStart+auxRasterIRQEnable, 1)
	}

	copper := NewCopperList()
	compositor := NewCompositor(vgc, fonts, copper)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go compositor.Run(ctx)
	go driveTimer(ctx, timer)

	stopBackends := startBackends(cfg, compositor, vgc, sid)
	defer stopBackends()

	if *console {
		go func() {
			if err := RunConsole(ctx, vgc); err != nil {
				logf("console: %v", err)
			}
		}()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

// driveTimer ticks the timer at the cadence the CPU execution loop would
// have, in its absence (§4.7: "ticked from the CPU execution loop at ~1-in-100
// CPU cycles").
func driveTimer(ctx context.Context, timer *Timer) {
	const virtualClockHz = 1000000
	interval := time.Second * 100 / virtualClockHz
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			timer.Tick()
		}
	}
}
