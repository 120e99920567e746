package tilefill

import (
	"testing"

	"github.com/canidlogic/lilac/internal/accum"
	"github.com/canidlogic/lilac/internal/gamma"
	"github.com/canidlogic/lilac/internal/isect"
	"github.com/canidlogic/lilac/internal/lblend"
)

const (
	opaqueRed = uint32(0xFFFF0000)
	transparent = uint32(0x00000000)
)

func newFixture(dim int) (*accum.Accumulator, *isect.Buffer, *lblend.Blender, []uint32) {
	buf := isect.New()
	a := accum.New(buf)
	a.BeginPath(0, 0, dim, dim)
	blend := lblend.New(gamma.New())
	tile := make([]uint32, dim*dim)
	return a, buf, blend, tile
}

// TestRectangleByLines covers WIND: a simple closed rectangle traced
// by four line segments fills exactly its interior under the
// non-zero rule, with the documented half-open right/bottom edge.
func TestRectangleByLines(t *testing.T) {
	const dim = 8
	a, buf, blend, tile := newFixture(dim)

	// Clockwise loop (in down-positive y): top, right-down, bottom,
	// left-up. Horizontal edges contribute nothing.
	mustLine(t, a, 2, 2, 6, 2)
	mustLine(t, a, 6, 2, 6, 6)
	mustLine(t, a, 6, 6, 2, 6)
	mustLine(t, a, 2, 6, 2, 2)

	f := New()
	if err := f.Fill(buf, a.Start(), dim, dim, dim, opaqueRed, blend, tile); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			inside := x >= 2 && x < 6 && y >= 2 && y < 6
			got := tile[y*dim+x]
			if inside && got != opaqueRed {
				t.Errorf("(%d,%d) = %#08x, want opaque red (interior)", x, y, got)
			}
			if !inside && got != transparent {
				t.Errorf("(%d,%d) = %#08x, want transparent (exterior)", x, y, got)
			}
		}
	}
}

// TestWindingCancellationDonut covers the classic donut test: two
// concentric clockwise squares leave the inner square filled at fill
// count +2 (still nonzero, so filled); reversing the inner square's
// direction cancels to fill count 0 and leaves it unfilled.
func TestWindingCancellationDonut(t *testing.T) {
	const dim = 16

	t.Run("both clockwise: inner stays filled", func(t *testing.T) {
		a, buf, blend, tile := newFixture(dim)
		squareClockwise(t, a, 1, 1, 14)
		squareClockwise(t, a, 5, 5, 6)

		f := New()
		if err := f.Fill(buf, a.Start(), dim, dim, dim, opaqueRed, blend, tile); err != nil {
			t.Fatalf("Fill: %v", err)
		}
		center := tile[8*dim+8]
		if center != opaqueRed {
			t.Errorf("center pixel = %#08x, want opaque red (fill count +2)", center)
		}
	})

	t.Run("inner reversed: donut hole unfilled", func(t *testing.T) {
		a, buf, blend, tile := newFixture(dim)
		squareClockwise(t, a, 1, 1, 14)
		squareCounterClockwise(t, a, 5, 5, 6)

		f := New()
		if err := f.Fill(buf, a.Start(), dim, dim, dim, opaqueRed, blend, tile); err != nil {
			t.Fatalf("Fill: %v", err)
		}
		center := tile[8*dim+8]
		if center != transparent {
			t.Errorf("center pixel = %#08x, want transparent (cancelled winding)", center)
		}
		ring := tile[2*dim+8]
		if ring != opaqueRed {
			t.Errorf("ring pixel = %#08x, want opaque red (outer square only)", ring)
		}
	})
}

func mustLine(t *testing.T, a *accum.Accumulator, x1, y1, x2, y2 float64) {
	t.Helper()
	if err := a.Line(x1, y1, x2, y2); err != nil {
		t.Fatalf("Line(%v,%v,%v,%v): %v", x1, y1, x2, y2, err)
	}
}

func squareClockwise(t *testing.T, a *accum.Accumulator, x, y, side float64) {
	t.Helper()
	mustLine(t, a, x, y, x+side, y)
	mustLine(t, a, x+side, y, x+side, y+side)
	mustLine(t, a, x+side, y+side, x, y+side)
	mustLine(t, a, x, y+side, x, y)
}

func squareCounterClockwise(t *testing.T, a *accum.Accumulator, x, y, side float64) {
	t.Helper()
	mustLine(t, a, x, y, x, y+side)
	mustLine(t, a, x, y+side, x+side, y+side)
	mustLine(t, a, x+side, y+side, x+side, y)
	mustLine(t, a, x+side, y, x, y)
}
