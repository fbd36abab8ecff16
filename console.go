// console.go - raw-mode terminal console, the nearest legitimate home for
// golang.org/x/term absent the out-of-scope IPC server and tooling CLIs
// (§6 lists both as external collaborators this core does not implement).
//
// Run alongside or instead of the window backend: stdin bytes become
// character-in bytes, and character-out bytes echo straight back to stdout,
// the same read/write-port framing terminal_io.go uses for its own
// ring-buffered I/O, just without a window.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// RunConsole puts stdin into raw mode and forwards bytes to vgc until ctx is
// canceled or stdin reaches EOF. It restores the terminal state on return.
func RunConsole(ctx context.Context, vgc *VGC) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("console: stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer term.Restore(fd, oldState)

	vgc.SetCharEchoHandler(func(b byte) {
		os.Stdout.Write([]byte{b})
	})

	buf := make([]byte, 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				vgc.PushCharIn(buf[:n]...)
			}
			if err != nil {
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	return nil
}
