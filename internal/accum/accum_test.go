package accum

import (
	"math"
	"testing"

	"github.com/canidlogic/lilac/internal/isect"
)

func newAccum(tileX, tileY, tileW, tileH int) *Accumulator {
	a := New(isect.New())
	a.BeginPath(tileX, tileY, tileW, tileH)
	return a
}

func TestLineHorizontalIsNoOp(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Line(0, 3, 7, 3); err != nil {
		t.Fatalf("Line: %v", err)
	}
	for _, s := range a.Start() {
		if s != 0 {
			t.Fatalf("horizontal line produced nonzero start count: %v", a.Start())
		}
	}
	if a.buf.Len() != 0 {
		t.Fatalf("horizontal line produced buffer records: %d", a.buf.Len())
	}
}

func TestLineNonFiniteIsFatal(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Line(0, 0, math.NaN(), 5); err == nil {
		t.Fatal("expected error for NaN endpoint")
	}
	if err := a.Line(0, 0, math.Inf(1), 5); err == nil {
		t.Fatal("expected error for +Inf endpoint")
	}
}

func TestDotNonFiniteIsFatal(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Dot(math.NaN(), 0, 1); err == nil {
		t.Fatal("expected error for NaN center")
	}
	if err := a.Dot(0, 0, math.Inf(1)); err == nil {
		t.Fatal("expected error for +Inf radius")
	}
}

func TestDotBelowEpsilonIsSilentNoOp(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Dot(4, 4, CoordEpsilon/2); err != nil {
		t.Fatalf("Dot: %v", err)
	}
	for _, s := range a.Start() {
		if s != 0 {
			t.Fatalf("tiny-radius dot produced nonzero start count: %v", a.Start())
		}
	}
	if a.buf.Len() != 0 {
		t.Fatalf("tiny-radius dot produced buffer records: %d", a.buf.Len())
	}
}

// TestLineAtLeftEdgeBumpsStart checks that a vertical line left of
// the tile's left edge folds its crossings into the start-count array
// rather than the intersection buffer.
func TestLineAtLeftEdgeBumpsStart(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	// Downward line (y1 < y2) at x=-1, fully left of the tile: every
	// scanline crossing clamps to column 0.
	if err := a.Line(-1, 0, -1, 8); err != nil {
		t.Fatalf("Line: %v", err)
	}
	total := int32(0)
	for _, s := range a.Start() {
		total += s
	}
	if total == 0 {
		t.Fatalf("expected nonzero total start-count contribution, got %v", a.Start())
	}
	if a.buf.Len() != 0 {
		t.Fatalf("left-of-tile line should not touch the intersection buffer, got %d records", a.buf.Len())
	}
}

// TestLineInteriorAppendsIntersection checks that a line crossing
// strictly inside the tile produces intersection buffer records, not
// start-count contributions.
func TestLineInteriorAppendsIntersection(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	// Vertical line at x=4, spanning the whole tile height, moving
	// downward (y1 < y2) so direction is -1 (down).
	if err := a.Line(4, 0, 4, 8); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if a.buf.Len() == 0 {
		t.Fatalf("expected intersection buffer records for interior crossing")
	}
	for _, r := range a.buf.Records() {
		if isect.TileX(r) != 4 {
			t.Errorf("record tileX = %d, want 4", isect.TileX(r))
		}
		if isect.Direction(r) != -1 {
			t.Errorf("record direction = %d, want -1 (downward)", isect.Direction(r))
		}
	}
}

// TestLineOutsideRightEdgeIsDiscarded checks that a crossing at or
// beyond the tile's right edge (scan_end) contributes nothing.
func TestLineOutsideRightEdgeIsDiscarded(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Line(9, 0, 9, 8); err != nil {
		t.Fatalf("Line: %v", err)
	}
	for _, s := range a.Start() {
		if s != 0 {
			t.Fatalf("right-of-tile line touched start-count: %v", a.Start())
		}
	}
	if a.buf.Len() != 0 {
		t.Fatalf("right-of-tile line touched the intersection buffer: %d records", a.buf.Len())
	}
}

// TestDotProducesSymmetricCrossings checks that a centered dot
// produces up/down crossing pairs on scanlines through its interior.
func TestDotProducesSymmetricCrossings(t *testing.T) {
	a := newAccum(0, 0, 16, 16)
	if err := a.Dot(8, 8, 5); err != nil {
		t.Fatalf("Dot: %v", err)
	}
	total := int32(0)
	for _, s := range a.Start() {
		total += s
	}
	if total != 0 && a.buf.Len() == 0 {
		t.Fatalf("expected either balanced start contributions or buffer records, got start=%v buf=%d", a.Start(), a.buf.Len())
	}
	sawUp, sawDown := false, false
	for _, r := range a.buf.Records() {
		if isect.Direction(r) == 1 {
			sawUp = true
		} else {
			sawDown = true
		}
	}
	if !sawUp || !sawDown {
		t.Fatalf("expected both up and down crossings from a dot, sawUp=%v sawDown=%v", sawUp, sawDown)
	}
}

func TestBeginPathResetsState(t *testing.T) {
	a := newAccum(0, 0, 8, 8)
	if err := a.Line(4, 0, 4, 8); err != nil {
		t.Fatalf("Line: %v", err)
	}
	if a.buf.Len() == 0 {
		t.Fatalf("setup: expected buffer records before reset")
	}
	a.BeginPath(0, 0, 8, 8)
	if a.buf.Len() != 0 {
		t.Fatalf("BeginPath did not reset the intersection buffer")
	}
	for _, s := range a.Start() {
		if s != 0 {
			t.Fatalf("BeginPath did not reset the start-count array: %v", a.Start())
		}
	}
}

func TestStartOverflowIsFatal(t *testing.T) {
	a := newAccum(0, 0, 1, 1)
	a.start[0] = math.MaxInt32
	if err := a.bumpStart(0, true); err == nil {
		t.Fatal("expected overflow error at MaxInt32")
	}
}

func TestStartUnderflowIsFatal(t *testing.T) {
	a := newAccum(0, 0, 1, 1)
	a.start[0] = math.MinInt32
	if err := a.bumpStart(0, false); err == nil {
		t.Fatal("expected underflow error at MinInt32")
	}
}
