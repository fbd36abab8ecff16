//go:build !headless

// backends_interactive.go - wires the ebiten/oto backends into main.go's
// boot sequence. Split from videoout.go/audioout.go so main.go can call one
// name regardless of which build tag is active (see backends_headless.go).
package main

func startBackends(cfg Config, compositor *Compositor, vgc *VGC, sid *SID) func() {
	video := NewVideoOutput(compositor, vgc)
	if err := video.Start(); err != nil {
		logf("video output failed to start: %v", err)
		video = nil
	}

	audio, err := NewAudioOutput(cfg.SampleRate, sid)
	if err != nil {
		logf("audio output failed to start: %v", err)
		audio = nil
	} else {
		audio.Start()
	}

	return func() {
		if video != nil {
			video.Stop()
		}
		if audio != nil {
			audio.Stop()
			_ = audio.Close()
		}
	}
}
