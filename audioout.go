//go:build !headless

// audioout.go - oto/v3 pull-mode audio output, pulling PCM samples from the
// SID on demand.
//
// Grounded on audio_backend_oto.go's OtoPlayer: a context + single Player
// whose Read callback is invoked by oto's own audio thread. The SID here
// emits []int16 rather than the teacher's []float32, so the context uses
// oto.FormatSignedInt16LE and Read packs samples directly rather than going
// through the teacher's unsafe.Pointer float32 reinterpret.
package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

type AudioOutput struct {
	ctx     *oto.Context
	player  *oto.Player
	sid     *SID
	started bool
	mu      sync.Mutex
}

func NewAudioOutput(sampleRate int, sid *SID) (*AudioOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	out := &AudioOutput{ctx: ctx, sid: sid}
	out.player = ctx.NewPlayer(out)
	return out, nil
}

// Read implements io.Reader for oto.Context.NewPlayer: it is called from
// oto's own audio thread, pulling however many samples fill p.
func (a *AudioOutput) Read(p []byte) (int, error) {
	n := len(p) / 2
	samples := a.sid.GenerateSamples(n)
	for i, s := range samples {
		off := i * 2
		p[off] = byte(uint16(s))
		p[off+1] = byte(uint16(s) >> 8)
	}
	return len(samples) * 2, nil
}

func (a *AudioOutput) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.started {
		return
	}
	a.player.Play()
	a.started = true
}

func (a *AudioOutput) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.started {
		return
	}
	a.player.Pause()
	a.started = false
}

func (a *AudioOutput) Close() error {
	return a.player.Close()
}
