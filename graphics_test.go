package main

import "testing"

// TestVGCPlotUnplotRoundTrip covers the plot/clear-graphics round trip
// scenario: a plotted pixel reads back its set color, an unplot clears it
// back to 0, and clear-graphics wipes the whole bitmap.
func TestVGCPlotUnplotRoundTrip(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(9)
	v.cmdPlot(10, 20)
	if got := v.GfxPixel(10, 20); got != 9 {
		t.Fatalf("GfxPixel(10,20) = %d, want 9", got)
	}
	v.cmdUnplot(10, 20)
	if got := v.GfxPixel(10, 20); got != 0 {
		t.Fatalf("GfxPixel(10,20) after unplot = %d, want 0", got)
	}

	v.cmdPlot(0, 0)
	v.cmdPlot(GfxWidth-1, GfxHeight-1)
	v.cmdClearGraphics()
	if v.GfxPixel(0, 0) != 0 || v.GfxPixel(GfxWidth-1, GfxHeight-1) != 0 {
		t.Fatal("cmdClearGraphics left pixels set")
	}
}

func TestVGCPlotOutOfBoundsIsNoOp(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(1)
	v.cmdPlot(GfxWidth, GfxHeight) // one past each edge
	if got := v.GfxPixel(GfxWidth, GfxHeight); got != 0 {
		t.Fatalf("out-of-bounds GfxPixel = %d, want 0", got)
	}
}

func TestVGCSetGraphicsColorMasksToFourBits(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(0xFF)
	if v.gfxColor != 0x0F {
		t.Fatalf("gfxColor = 0x%02X, want 0x0F", v.gfxColor)
	}
}

func TestVGCLineDrawsInclusiveEndpoints(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(3)
	v.cmdLine(0, 0, 5, 0)
	for x := 0; x <= 5; x++ {
		if got := v.GfxPixel(x, 0); got != 3 {
			t.Fatalf("GfxPixel(%d,0) = %d, want 3", x, got)
		}
	}
}

func TestVGCRectDrawsFourSides(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(4)
	v.cmdRect(2, 2, 6, 5)
	corners := [][2]int{{2, 2}, {6, 2}, {2, 5}, {6, 5}}
	for _, c := range corners {
		if got := v.GfxPixel(c[0], c[1]); got != 4 {
			t.Fatalf("GfxPixel%v = %d, want 4 (rect corner)", c, got)
		}
	}
	// interior should remain untouched by an unfilled rect.
	if got := v.GfxPixel(4, 3); got != 0 {
		t.Fatalf("GfxPixel(4,3) = %d, want 0 (rect interior untouched)", got)
	}
}

func TestVGCFillOrdersUnorderedCornersAndClamps(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(2)
	// deliberately reversed corners, and out of bounds on the high end.
	v.cmdFill(uint16(GfxWidth+50), uint16(GfxHeight+50), 5, 5)
	if got := v.GfxPixel(5, 5); got != 2 {
		t.Fatalf("GfxPixel(5,5) = %d, want 2", got)
	}
	if got := v.GfxPixel(GfxWidth-1, GfxHeight-1); got != 2 {
		t.Fatalf("GfxPixel at clamped corner = %d, want 2", got)
	}
}

func TestVGCCircleIsSymmetric(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(6)
	v.cmdCircle(40, 25, 10)
	pts := [][2]int{{50, 25}, {30, 25}, {40, 35}, {40, 15}}
	for _, p := range pts {
		if got := v.GfxPixel(p[0], p[1]); got != 6 {
			t.Fatalf("GfxPixel%v = %d, want 6 (circle cardinal point)", p, got)
		}
	}
}

func TestVGCExportImportGraphicsRoundTrip(t *testing.T) {
	v := newTestVGC()
	v.cmdSetGraphicsColor(8)
	v.cmdPlot(1, 1)
	data := v.ExportGraphics()

	v2 := newTestVGC()
	v2.ImportGraphics(data)
	if got := v2.GfxPixel(1, 1); got != 8 {
		t.Fatalf("GfxPixel after import = %d, want 8", got)
	}

	v2.ImportGraphics([]byte{1, 2}) // wrong length must be ignored
	if got := v2.GfxPixel(1, 1); got != 8 {
		t.Fatal("ImportGraphics with wrong length must be a no-op")
	}
}

func TestSetGfxByteBoundsCheck(t *testing.T) {
	v := newTestVGC()
	v.setGfxByte(-1, 5)
	v.setGfxByte(len(v.gfx), 5)
	v.setGfxByte(0, 7)
	if v.gfx[0] != 7 {
		t.Fatalf("gfx[0] = %d, want 7", v.gfx[0])
	}
}
