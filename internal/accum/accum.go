// Package accum implements the path accumulator: it turns line
// segments and dots in full-image coordinates into per-scanline
// winding contributions against the current tile, either folded into
// the tile's start-count array (column 0) or appended to the
// intersection buffer (columns 1..tileW-1).
package accum

import (
	"fmt"
	"math"

	"github.com/canidlogic/lilac/internal/isect"
)

// CoordEpsilon is the threshold below which a line's y-span (or a
// dot's radius) is treated as zero.
const CoordEpsilon = 1e-5

// CircleEpsilon keeps scanlines too close to a dot's top/bottom
// tangent out of the crossing computation (asin/cos blow up there).
const CircleEpsilon = 1e-5

// Accumulator holds the per-tile, per-path state: the start-count
// array and a handle to the shared intersection buffer.
type Accumulator struct {
	buf *isect.Buffer

	start []int32

	tileX, tileY, tileW, tileH int
}

// New creates an accumulator writing into the given intersection
// buffer. The buffer is owned by the caller (typically the tile
// engine) and reset independently.
func New(buf *isect.Buffer) *Accumulator {
	return &Accumulator{buf: buf}
}

// BeginPath resets the start-count array to zero and clears the
// intersection buffer for a new path against the given tile geometry.
func (a *Accumulator) BeginPath(tileX, tileY, tileW, tileH int) {
	a.tileX, a.tileY, a.tileW, a.tileH = tileX, tileY, tileW, tileH
	if cap(a.start) < tileH {
		a.start = make([]int32, tileH)
	} else {
		a.start = a.start[:tileH]
		for i := range a.start {
			a.start[i] = 0
		}
	}
	a.buf.Reset()
}

// Start returns the per-scanline start-count array for the current
// tile. Valid until the next BeginPath.
func (a *Accumulator) Start() []int32 {
	return a.start
}

// Line adds a line segment (x1,y1)->(x2,y2) in full-image coordinates
// to the current path. Coordinates need not fall inside the current
// tile.
func (a *Accumulator) Line(x1, y1, x2, y2 float64) error {
	if !finite(x1) || !finite(y1) || !finite(x2) || !finite(y2) {
		return fmt.Errorf("accum: line endpoints must be finite, got (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}
	if math.Abs(y2-y1) < CoordEpsilon {
		return nil
	}

	up := y1 > y2
	yMin, yMax := y1, y2
	if yMin > yMax {
		yMin, yMax = yMax, yMin
	}

	kLo, kHi := a.scanlineRange(yMin, yMax)
	for k := kLo; k <= kHi; k++ {
		scanY := float64(a.tileY+k) + 0.5
		t := (scanY - y1) / (y2 - y1)
		t = clamp01(t)
		ix := (1-t)*x1 + t*x2
		if err := a.insertCrossing(k, ix, up); err != nil {
			return err
		}
	}
	return nil
}

// Dot adds a circular dot (perimeter traversed clockwise) centered at
// (cx, cy) with radius r to the current path. Dots with r below
// CoordEpsilon are discarded silently (no-op, no diagnostic).
func (a *Accumulator) Dot(cx, cy, r float64) error {
	if !finite(cx) || !finite(cy) || !finite(r) {
		return fmt.Errorf("accum: dot arguments must be finite, got (%v,%v,%v)", cx, cy, r)
	}
	if r < CoordEpsilon {
		return nil
	}

	for k := 0; k < a.tileH; k++ {
		y := float64(a.tileY+k) + 0.5
		w := (y - cy) / r
		if math.Abs(w) > 1-CircleEpsilon {
			continue
		}
		ang := math.Asin(w)
		b := r * math.Cos(ang)

		xUp := cx - b
		xDown := cx + b
		if err := a.insertCrossing(k, xUp, true); err != nil {
			return err
		}
		if err := a.insertCrossing(k, xDown, false); err != nil {
			return err
		}
	}
	return nil
}

// scanlineRange computes the inclusive [kLo, kHi] range of tile
// scanlines whose y = tileY+k+0.5 falls within [yMin, yMax], clamped
// to the tile's own [0, tileH-1] range.
func (a *Accumulator) scanlineRange(yMin, yMax float64) (int, int) {
	kLo := int(math.Ceil(yMin - float64(a.tileY) - 0.5))
	kHi := int(math.Floor(yMax - float64(a.tileY) - 0.5))
	if kLo < 0 {
		kLo = 0
	}
	if kHi > a.tileH-1 {
		kHi = a.tileH - 1
	}
	return kLo, kHi
}

// insertCrossing clips, clamps, and routes a single scanline crossing
// at tile scanline k and full-image x coordinate ix to either the
// start-count array (column 0) or the intersection buffer.
func (a *Accumulator) insertCrossing(k int, ix float64, up bool) error {
	scanBegin := float64(a.tileX)
	scanEnd := float64(a.tileX + a.tileW)

	if ix >= scanEnd {
		return nil
	}
	if ix < scanBegin {
		ix = scanBegin
	}

	xt := int(math.Floor(ix - scanBegin))
	if xt < 0 {
		xt = 0
	}
	if xt > a.tileW-1 {
		xt = a.tileW - 1
	}

	if xt <= 0 {
		return a.bumpStart(k, up)
	}
	return a.buf.Append(xt, k, up)
}

func (a *Accumulator) bumpStart(k int, up bool) error {
	if up {
		if a.start[k] == math.MaxInt32 {
			return fmt.Errorf("accum: start-count overflow at scanline %d", k)
		}
		a.start[k]++
	} else {
		if a.start[k] == math.MinInt32 {
			return fmt.Errorf("accum: start-count underflow at scanline %d", k)
		}
		a.start[k]--
	}
	return nil
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
