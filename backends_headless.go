//go:build headless

// backends_headless.go - no-op stand-in for backends_interactive.go when
// built without a window toolkit or audio device available (CI, servers).
package main

func startBackends(cfg Config, compositor *Compositor, vgc *VGC, sid *SID) func() {
	logf("running headless: no video window or audio device")
	return func() {}
}
