//go:build !headless

// videoout.go - ebiten-backed window presenting the compositor's framebuffer
// and forwarding keyboard input.
//
// Grounded on video_backend_ebiten.go's EbitenOutput: a fixed-size window
// image updated from the latest completed frame, vsync-gated Draw, and a
// key-forwarding Update() built on ebiten's input-polling API plus
// golang.design/x/clipboard for paste. Unlike the teacher, key events here
// do not become raw escape-sequence bytes: printable runes still become
// character-in bytes, but arrow keys become cursor-move edit commands and
// Enter triggers a "read line from screen" action, per this system's
// keyboard-input contract.
package main

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
)

const windowScale = 2

// VideoOutput is an ebiten window that mirrors the compositor's framebuffer
// and turns keyboard events into character-in bytes or cursor edit commands.
type VideoOutput struct {
	compositor *Compositor
	vgc        *VGC

	window     *ebiten.Image
	running    bool
	fullscreen bool
	vsyncChan  chan struct{}

	mu sync.RWMutex

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewVideoOutput(compositor *Compositor, vgc *VGC) *VideoOutput {
	return &VideoOutput{
		compositor: compositor,
		vgc:        vgc,
		vsyncChan:  make(chan struct{}, 1),
	}
}

func (vo *VideoOutput) Start() error {
	if vo.running {
		return nil
	}
	vo.running = true
	ebiten.SetWindowSize(FrameWidth*windowScale, FrameHeight*windowScale)
	ebiten.SetWindowTitle("NovaVM")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		if err := ebiten.RunGame(vo); err != nil {
			fmt.Printf("video output stopped: %v\n", err)
		}
	}()

	<-vo.vsyncChan
	return nil
}

func (vo *VideoOutput) Stop() {
	vo.running = false
}

func (vo *VideoOutput) Update() error {
	if !vo.running {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		vo.mu.Lock()
		vo.fullscreen = !vo.fullscreen
		ebiten.SetFullscreen(vo.fullscreen)
		vo.mu.Unlock()
	}
	vo.handleKeyboardInput()
	return nil
}

func (vo *VideoOutput) Draw(screen *ebiten.Image) {
	if vo.window == nil {
		vo.window = ebiten.NewImage(FrameWidth, FrameHeight)
	}
	vo.window.WritePixels(vo.compositor.GetFrame())
	screen.DrawImage(vo.window, nil)

	select {
	case vo.vsyncChan <- struct{}{}:
	default:
	}
}

func (vo *VideoOutput) Layout(_, _ int) (int, int) {
	return FrameWidth, FrameHeight
}

// handleKeyboardInput maps ebiten key/rune events onto this system's
// character-in port and cursor edit commands.
func (vo *VideoOutput) handleKeyboardInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		vo.handleClipboardPaste()
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r <= 0xFF {
			vo.vgc.PushCharIn(byte(r))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		vo.vgc.ReadCurrentLine()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		vo.vgc.PushCharIn(0x08)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		vo.vgc.MoveCursor(0, -1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		vo.vgc.MoveCursor(0, 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
		vo.vgc.MoveCursor(-1, 0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
		vo.vgc.MoveCursor(1, 0)
	}
}

func (vo *VideoOutput) handleClipboardPaste() {
	vo.clipboardOnce.Do(func() {
		vo.clipboardOK = clipboard.Init() == nil
	})
	if !vo.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	data = normalizePasteText(data)
	data = capPasteText(data, 4096)
	vo.vgc.PushCharIn(data...)
}

func normalizePasteText(raw []byte) []byte {
	norm := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' {
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			norm = append(norm, '\n')
			continue
		}
		norm = append(norm, raw[i])
	}
	return norm
}

func capPasteText(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}
