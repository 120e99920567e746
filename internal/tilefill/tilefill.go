// Package tilefill implements the tile rasterizer: it sorts a path's
// intersection buffer, sweeps each tile scanline applying the
// non-zero winding rule, and blends the current fill color into the
// tile buffer wherever the running fill count is nonzero.
package tilefill

import (
	"fmt"
	"math"

	"github.com/canidlogic/lilac/internal/isect"
	"github.com/canidlogic/lilac/internal/lblend"
)

// Filler holds the reusable per-row delta array so repeated Fill
// calls across tiles and paths avoid reallocating it.
type Filler struct {
	delta []int64
}

// New creates an empty Filler.
func New() *Filler {
	return &Filler{}
}

// Fill sorts buf, then sweeps the tile row by row applying the
// non-zero winding rule and blending color over tileBuf wherever the
// running fill count is nonzero.
//
// start holds the per-scanline start count folded in from column 0
// (see internal/accum). tileBuf is row-major with pitch dim; only the
// [0,tileW)x[0,tileH) live region is touched, one scanline at a time
// starting at row offset 0 (the caller is responsible for indexing
// tileBuf at the tile's own offset within a larger image, if any).
func (f *Filler) Fill(buf *isect.Buffer, start []int32, tileW, tileH, dim int, color uint32, blend *lblend.Blender, tileBuf []uint32) error {
	buf.Sort()
	recs := buf.Records()

	if cap(f.delta) < tileW {
		f.delta = make([]int64, tileW)
	} else {
		f.delta = f.delta[:tileW]
	}

	cursor := 0
	for k := 0; k < tileH; k++ {
		for i := range f.delta {
			f.delta[i] = 0
		}
		f.delta[0] = int64(start[k])

		for cursor < len(recs) && isect.TileY(recs[cursor]) == k {
			tx := isect.TileX(recs[cursor])
			if tx < 0 || tx > tileW-1 {
				return fmt.Errorf("tilefill: intersection record tileX=%d out of [0,%d) range", tx, tileW)
			}
			dir := isect.Direction(recs[cursor])
			next := f.delta[tx] + int64(dir)
			if next > math.MaxInt32 || next < math.MinInt32 {
				return fmt.Errorf("tilefill: delta overflow at scanline %d column %d", k, tx)
			}
			f.delta[tx] = next
			cursor++
		}

		var fc int64
		rowBase := k * dim
		for x := 0; x < tileW; x++ {
			fc += f.delta[x]
			if fc != 0 {
				idx := rowBase + x
				tileBuf[idx] = blend.Blend(color, tileBuf[idx])
			}
		}
	}

	if cursor != len(recs) {
		return fmt.Errorf("tilefill: %d intersection records left unconsumed past tile height %d", len(recs)-cursor, tileH)
	}
	return nil
}
