package main

import "testing"

func TestTimerTicksSilentlyWhenDisabled(t *testing.T) {
	irq := &IRQLine{}
	timer := NewTimer(irq)
	timer.write(TimerRegsStart+timerRegDivisorLo, 1)
	timer.Tick()
	timer.Tick()
	if irq.Pending() {
		t.Fatal("disabled timer must not raise IRQ")
	}
}

func TestTimerDivisorZeroNeverFires(t *testing.T) {
	irq := &IRQLine{}
	timer := NewTimer(irq)
	timer.write(TimerRegsStart+timerRegControl, timerCtrlEnable)
	for i := 0; i < 1000; i++ {
		timer.Tick()
	}
	if irq.Pending() {
		t.Fatal("a zero divisor must never fire")
	}
}

// TestTimerFiresAtDivisorAndStatusReadClears covers the IRQ/timer scenario:
// an enabled timer raises IRQ exactly when its counter reaches the divisor,
// and the status register clears itself on read.
func TestTimerFiresAtDivisorAndStatusReadClears(t *testing.T) {
	irq := &IRQLine{}
	timer := NewTimer(irq)
	timer.write(TimerRegsStart+timerRegDivisorLo, 3)
	timer.write(TimerRegsStart+timerRegControl, timerCtrlEnable)

	timer.Tick()
	timer.Tick()
	if irq.Pending() {
		t.Fatal("IRQ raised before reaching the divisor")
	}
	timer.Tick()
	if !irq.Pending() {
		t.Fatal("IRQ not raised on reaching the divisor")
	}

	if got := timer.read(TimerRegsStart + timerRegStatus); got&0x01 == 0 {
		t.Fatalf("status = 0x%02X, want bit 0 set", got)
	}
	if got := timer.read(TimerRegsStart + timerRegStatus); got != 0 {
		t.Fatalf("status after read = 0x%02X, want 0 (read-clears)", got)
	}
}

func TestTimerDisablingResetsCounter(t *testing.T) {
	timer := NewTimer(&IRQLine{})
	timer.write(TimerRegsStart+timerRegDivisorLo, 100)
	timer.write(TimerRegsStart+timerRegControl, timerCtrlEnable)
	timer.Tick()
	timer.Tick()
	timer.write(TimerRegsStart+timerRegControl, 0)
	if timer.counter != 0 {
		t.Fatalf("counter after disable = %d, want 0", timer.counter)
	}
}

func TestTimerDivisorRegisterRoundTrip(t *testing.T) {
	timer := NewTimer(&IRQLine{})
	timer.write(TimerRegsStart+timerRegDivisorLo, 0x34)
	timer.write(TimerRegsStart+timerRegDivisorHi, 0x12)
	if timer.divisor != 0x1234 {
		t.Fatalf("divisor = 0x%04X, want 0x1234", timer.divisor)
	}
	if got := timer.read(TimerRegsStart + timerRegDivisorLo); got != 0x34 {
		t.Fatalf("divisorLo readback = 0x%02X, want 0x34", got)
	}
}
