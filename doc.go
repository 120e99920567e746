// Package lilac implements a tile-based 2D raster renderer and
// compositor. It rasterizes vector fill paths (lines and circular
// dots) under the non-zero winding rule, blends them over a
// background using premultiplied-linear sRGB compositing, and streams
// the result to a PNG raster sink.
//
// # Quick Start
//
//	import "github.com/canidlogic/lilac"
//
//	eng, err := lilac.Init(640, 480)
//	if err != nil {
//		// handled by the configured error callback before reaching here
//	}
//	for eng.TilesFinished() < eng.TileCount() {
//		_ = eng.BeginTile()
//		eng.SetColor(lilac.ARGB(255, 255, 0, 0))
//		_ = eng.BeginPath()
//		_ = eng.Dot(100, 100, 40)
//		_ = eng.EndPath()
//		_ = eng.EndTile()
//	}
//	_ = eng.Compile("output.png", nil)
//
// # Architecture
//
// The engine is a single-threaded, non-reentrant state machine
// (READY -> INIT -> TILE -> PATH/LOCK -> ... -> CLOSED) that owns a
// gamma table, a linear blender with a one-entry cache, an
// intersection buffer, a path accumulator, a tile rasterizer, and a
// memory-mapped backing store. Each subsystem lives in its own
// internal/ package; the Engine orchestrates them in tile-then-path
// order and streams the finished backing store to a RasterSink at
// compile.
//
// # Coordinate System
//
// Origin (0,0) at top-left, X increases right, Y increases down.
// Coordinates are full-image doubles; the engine maps them onto the
// current tile's local scanlines internally.
//
// # Scope
//
// Lilac does not parse any file format, does not anti-alias (fills
// are binary per pixel; callers supply their own coverage via alpha),
// and does not provide layers, undo, or transforms beyond what calls
// supply directly.
package lilac
