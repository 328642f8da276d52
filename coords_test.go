package dotter

import "testing"

func TestProjectionDimensions(t *testing.T) {
	type test struct {
		refLen, matchLen int
		zoom             float64
		resfac           int
		width, height    int
	}
	tests := []test{
		{20, 20, 1, 1, 20, 20},
		{21, 21, 1, 1, 24, 24},
		{18, 6, 1, 3, 8, 8},
		{100, 50, 2, 1, 52, 28},
		{10, 10, 3, 1, 4, 4},
	}
	for _, test := range tests {
		proj := mustProjection(t, Range{1, test.refLen}, Range{1, test.matchLen}, test.zoom, test.resfac)
		if proj.ImageWidth != test.width || proj.ImageHeight != test.height {
			t.Fatalf("dims for (%d,%d,zoom=%v,resfac=%d) = %dx%d, want %dx%d",
				test.refLen, test.matchLen, test.zoom, test.resfac,
				proj.ImageWidth, proj.ImageHeight, test.width, test.height)
		}
		if proj.ImageWidth%4 != 0 || proj.ImageHeight%4 != 0 {
			t.Fatalf("dims %dx%d are not multiples of 4", proj.ImageWidth, proj.ImageHeight)
		}
	}

	if _, err := NewProjection(Range{1, 10}, Range{1, 10}, 1, 2, false, false); err == nil {
		t.Fatalf("resfac=2 did not fail")
	}
	if _, err := NewProjection(Range{1, 10}, Range{1, 10}, 0, 1, false, false); err == nil {
		t.Fatalf("zoom=0 did not fail")
	}
}

// Mapping a screen position to sequence coordinates and back lands on the
// same pixel.
func TestScreenRoundTrip(t *testing.T) {
	for _, revH := range []bool{false, true} {
		for _, revV := range []bool{false, true} {
			proj, err := NewProjection(Range{101, 400}, Range{1, 120}, 2, 3, revH, revV)
			if err != nil {
				t.Fatalf("NewProjection caused: %s", err)
			}
			for x := 0; x < 50; x++ {
				for y := 0; y < 60; y++ {
					q, s := proj.MapScreenToSeq(x, y)
					if q < 101 || q > 400 || s < 1 || s > 120 {
						t.Fatalf("mapped (%d,%d) outside ranges: (%d,%d)", x, y, q, s)
					}
					x2, y2 := proj.MapSeqToScreen(q, s)
					if x2 != x || y2 != y {
						t.Fatalf("revH=%v revV=%v: round trip (%d,%d) -> (%d,%d) -> (%d,%d)",
							revH, revV, x, y, q, s, x2, y2)
					}
				}
			}
		}
	}
}

func TestPixmapIndex(t *testing.T) {
	proj := mustProjection(t, Range{1, 16}, Range{1, 8}, 1, 1)
	idx, err := proj.PixmapIndex(3, 2)
	if err != nil {
		t.Fatalf("PixmapIndex(3,2) caused: %s", err)
	}
	if idx != 2*16+3 {
		t.Fatalf("PixmapIndex(3,2) = %d, want %d", idx, 2*16+3)
	}
	for _, bad := range [][2]int{{-1, 0}, {16, 0}, {0, -1}, {0, 8}} {
		if _, err := proj.PixmapIndex(bad[0], bad[1]); err == nil {
			t.Fatalf("PixmapIndex(%d,%d) did not fail", bad[0], bad[1])
		}
	}
}

func TestProjectionBorders(t *testing.T) {
	proj := mustProjection(t, Range{1, 40}, Range{1, 40}, 1, 1)
	proj.LeftBorder = 30
	proj.TopBorder = 50

	x, y := proj.MapSeqToScreen(1, 1)
	if x != 30 || y != 50 {
		t.Fatalf("low corner maps to (%d,%d), want (30,50)", x, y)
	}
	q, s := proj.MapScreenToSeq(30, 50)
	if q != 1 || s != 1 {
		t.Fatalf("border origin maps back to (%d,%d), want (1,1)", q, s)
	}
}
