package lilac

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/canidlogic/lilac/internal/accum"
	"github.com/canidlogic/lilac/internal/gamma"
	"github.com/canidlogic/lilac/internal/isect"
	"github.com/canidlogic/lilac/internal/lblend"
	"github.com/canidlogic/lilac/internal/store"
	"github.com/canidlogic/lilac/internal/tilefill"
)

// State is the engine's global state variable (spec §3, §4.F).
type State int

const (
	StateReady State = iota
	StateInit
	StateTile
	StatePath
	StateLock
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateInit:
		return "INIT"
	case StateTile:
		return "TILE"
	case StatePath:
		return "PATH"
	case StateLock:
		return "LOCK"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

const (
	minDim       = 64
	maxDim       = 4096
	minDimension = 1
	maxDimension = 16384
)

// LockRecord is the loan handed out by Lock: a pointer into the
// current tile's live pixel buffer, its origin within the full image,
// and its layout (spec §6 "lock record layout").
type LockRecord struct {
	Pixels []uint32
	X      int
	Y      int
	Pitch  int
	W      int
	H      int
}

// Engine is the tile rendering state machine. It owns every buffer
// named in spec §3 exclusively for the duration from Init to Compile;
// it is not safe for concurrent use (spec §5).
type Engine struct {
	state State

	width, height int
	dim           int
	cols, rows    int
	tileCount     int
	finished      int

	background   PackedColor
	currentColor PackedColor

	errHandler  ErrorHandler
	warnHandler WarningHandler

	gammaTable *gamma.Table
	blender    *lblend.Blender
	isectBuf   *isect.Buffer
	accumul    *accum.Accumulator
	filler     *tilefill.Filler
	backing    *store.Store

	tileBuf                        []uint32
	curIndex                       int
	curTileX, curTileY, curW, curH int
	locked                         bool
}

// Init configures a new engine and transitions it to INIT. width and
// height must each be in [1, 16384].
func Init(width, height int, opts ...EngineOption) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		state:       StateReady,
		errHandler:  cfg.errHandler,
		warnHandler: cfg.warnHandler,
	}

	if width < minDimension || width > maxDimension || height < minDimension || height > maxDimension {
		return nil, e.fatalf("lilac: width/height must be in [%d,%d], got %dx%d", minDimension, maxDimension, width, height)
	}

	dim := cfg.dim
	if dim < minDim || dim > maxDim {
		return nil, e.fatalf("lilac: dim must be in [%d,%d], got %d", minDim, maxDim, dim)
	}
	largerSide := width
	if height > largerSide {
		largerSide = height
	}
	if largerSide < dim {
		dim = largerSide
		if dim < minDim {
			dim = minDim
		}
	}

	backing, err := store.New(width, height)
	if err != nil {
		return nil, e.fatal(err)
	}

	e.width = width
	e.height = height
	e.dim = dim
	e.cols = ceilDiv(width, dim)
	e.rows = ceilDiv(height, dim)
	e.tileCount = e.cols * e.rows
	e.background = cfg.background
	e.currentColor = Black
	e.gammaTable = gamma.New()
	if verifyErr := e.gammaTable.Verify(); verifyErr != nil {
		return nil, e.fatal(verifyErr)
	}
	e.blender = lblend.New(e.gammaTable)
	e.isectBuf = isect.New()
	e.accumul = accum.New(e.isectBuf)
	e.filler = tilefill.New()
	e.backing = backing
	e.tileBuf = make([]uint32, dim*dim)
	e.state = StateInit

	Logger().Debug("engine initialized",
		"width", width, "height", height, "dim", dim, "tiles", e.tileCount,
		"backing_store_size", humanize.Bytes(uint64(width)*uint64(height)*4), //nolint:gosec // width/height bounded to 16384
	)

	return e, nil
}

// Width returns the configured image width.
func (e *Engine) Width() int { return e.width }

// Height returns the configured image height.
func (e *Engine) Height() int { return e.height }

// TileCount returns the total number of tiles the engine will render.
func (e *Engine) TileCount() int { return e.tileCount }

// TilesFinished returns the number of tiles closed via EndTile so far.
func (e *Engine) TilesFinished() int { return e.finished }

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// SetColor sets the current fill color, consulted only at EndPath;
// direct pixel writes through the lock record do not use it. Legal in
// INIT, TILE, PATH, and LOCK states.
func (e *Engine) SetColor(c PackedColor) error {
	switch e.state {
	case StateInit, StateTile, StatePath, StateLock:
		e.currentColor = c
		return nil
	default:
		return e.fatalf("lilac: color() invalid in state %s", e.state)
	}
}

// Color returns the current fill color.
func (e *Engine) Color() PackedColor { return e.currentColor }

// BeginTile opens the next tile in row-major order, initializing its
// buffer to the background color. Requires state INIT.
func (e *Engine) BeginTile() error {
	if e.state != StateInit {
		return e.fatalf("lilac: begin_tile() invalid in state %s (requires INIT)", e.state)
	}
	if e.finished >= e.tileCount {
		return e.fatalf("lilac: begin_tile() called after all %d tiles already rendered", e.tileCount)
	}

	row := e.finished / e.cols
	col := e.finished % e.cols
	e.curIndex = e.finished
	e.curTileX = col * e.dim
	e.curTileY = row * e.dim
	e.curW = minInt(e.dim, e.width-e.curTileX)
	e.curH = minInt(e.dim, e.height-e.curTileY)

	fillUint32(e.tileBuf, uint32(e.background))

	e.state = StateTile
	return nil
}

// EndTile writes the current tile's live region to the backing store
// and returns to INIT.
func (e *Engine) EndTile() error {
	if e.state != StateTile {
		return e.fatalf("lilac: end_tile() invalid in state %s (requires TILE)", e.state)
	}
	if err := e.backing.WriteTile(e.curTileX, e.curTileY, e.curW, e.curH, e.dim, e.tileBuf); err != nil {
		return e.fatal(err)
	}
	e.finished++
	e.state = StateInit
	return nil
}

// BeginPath opens a new path against the current tile, resetting the
// start-count array and intersection buffer. Requires state TILE.
func (e *Engine) BeginPath() error {
	if e.state != StateTile {
		return e.fatalf("lilac: begin_path() invalid in state %s (requires TILE)", e.state)
	}
	e.accumul.BeginPath(e.curTileX, e.curTileY, e.curW, e.curH)
	e.state = StatePath
	return nil
}

// Line adds a line segment to the current path. Requires state PATH.
func (e *Engine) Line(x1, y1, x2, y2 float64) error {
	if e.state != StatePath {
		return e.fatalf("lilac: line() invalid in state %s (requires PATH)", e.state)
	}
	if err := e.accumul.Line(x1, y1, x2, y2); err != nil {
		return e.fatal(err)
	}
	return nil
}

// Dot adds a circular dot to the current path. Requires state PATH
// and radius > 0 (spec §6 parameter constraints); radii below the
// accumulator's coordinate epsilon are silently discarded deeper in
// the pipeline, but a non-positive radius is a parameter-domain error.
func (e *Engine) Dot(cx, cy, r float64) error {
	if e.state != StatePath {
		return e.fatalf("lilac: dot() invalid in state %s (requires PATH)", e.state)
	}
	if !(r > 0) || math.IsNaN(r) {
		return e.fatalf("lilac: dot() radius must be > 0, got %v", r)
	}
	if err := e.accumul.Dot(cx, cy, r); err != nil {
		return e.fatal(err)
	}
	return nil
}

// EndPath runs the tile rasterizer (§4.E) over the accumulated path
// and returns to TILE.
func (e *Engine) EndPath() error {
	if e.state != StatePath {
		return e.fatalf("lilac: end_path() invalid in state %s (requires PATH)", e.state)
	}
	err := e.filler.Fill(e.isectBuf, e.accumul.Start(), e.curW, e.curH, e.dim, uint32(e.currentColor), e.blender, e.tileBuf)
	if err != nil {
		return e.fatal(err)
	}
	e.state = StateTile
	return nil
}

// Lock hands out a loan into the current tile's live pixel buffer.
// Requires state TILE.
func (e *Engine) Lock() (LockRecord, error) {
	if e.state != StateTile {
		return LockRecord{}, e.fatalf("lilac: lock() invalid in state %s (requires TILE)", e.state)
	}
	e.locked = true
	e.state = StateLock
	return LockRecord{
		Pixels: e.tileBuf,
		X:      e.curTileX,
		Y:      e.curTileY,
		Pitch:  e.dim,
		W:      e.curW,
		H:      e.curH,
	}, nil
}

// Unlock releases a loan taken with Lock. Requires state LOCK.
func (e *Engine) Unlock() error {
	if e.state != StateLock {
		return e.fatalf("lilac: unlock() invalid in state %s (requires LOCK)", e.state)
	}
	e.locked = false
	e.state = StateTile
	return nil
}

// Blend is a stateless utility exposing the engine's premultiplied-
// linear sRGB source-over compositor. It does not touch engine state
// and may be called in any state.
func (e *Engine) Blend(over, under PackedColor) PackedColor {
	return PackedColor(e.blender.Blend(uint32(over), uint32(under)))
}

// Compile streams the backing store to sink scanline by scanline and
// transitions to CLOSED. Requires state INIT with every tile finished.
// If sink is nil, a default PNG sink is used.
func (e *Engine) Compile(path string, sink RasterSink) error {
	if e.state != StateInit {
		return e.fatalf("lilac: compile() invalid in state %s (requires INIT)", e.state)
	}
	if e.finished != e.tileCount {
		return e.fatalf("lilac: compile() called with %d/%d tiles finished", e.finished, e.tileCount)
	}

	if sink == nil {
		sink = newPNGSink()
	}
	if err := sink.Open(path, e.width, e.height); err != nil {
		return e.fatal(err)
	}

	for y := 0; y < e.height; y++ {
		row := sink.ScanlineBuffer()
		if err := e.backing.ReadScanline(y, row); err != nil {
			e.closeSinkAndBacking(sink)
			return e.fatal(err)
		}
		if err := sink.CommitScanline(); err != nil {
			e.closeSinkAndBacking(sink)
			return e.fatal(err)
		}
	}

	if err := sink.Close(); err != nil {
		if closeErr := e.backing.Close(); closeErr != nil {
			e.warn(closeErr)
		}
		return e.fatal(err)
	}

	if err := e.backing.Close(); err != nil {
		e.warn(err)
	}

	e.state = StateClosed
	Logger().Info("compile finished", "path", path, "width", e.width, "height", e.height)
	return nil
}

// closeSinkAndBacking closes sink and releases the mmap-backed store.
// Used on the cleanup branches of Compile, where compile has already
// failed and both closes are non-essential: failures are reported
// through the warning handler rather than escalated to fatal.
func (e *Engine) closeSinkAndBacking(sink RasterSink) {
	if err := sink.Close(); err != nil {
		e.warn(err)
	}
	if err := e.backing.Close(); err != nil {
		e.warn(err)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// fillUint32 fills buf with v using a doubling copy so large tile
// buffers don't pay for a scalar loop over every element.
func fillUint32(buf []uint32, v uint32) {
	if len(buf) == 0 {
		return
	}
	buf[0] = v
	filled := 1
	for filled < len(buf) {
		n := copy(buf[filled:], buf[:filled])
		filled += n
	}
}
