package lilac

// EngineOption configures an Engine during Init. Use functional
// options to customize tile size, background color, and diagnostics
// handlers.
//
// Example:
//
//	eng, err := lilac.Init(800, 600,
//		lilac.WithDim(128),
//		lilac.WithBackground(lilac.White),
//	)
type EngineOption func(*engineConfig)

// engineConfig holds optional configuration for Engine creation.
type engineConfig struct {
	dim         int
	background  PackedColor
	errHandler  ErrorHandler
	warnHandler WarningHandler
}

// defaultEngineConfig returns the default engine options: a 256-pixel
// tile side, fully transparent background, and the built-in
// print-and-exit / print-and-continue diagnostics handlers.
func defaultEngineConfig() engineConfig {
	return engineConfig{
		dim:         256,
		background:  Transparent,
		errHandler:  defaultErrorHandler,
		warnHandler: defaultWarningHandler,
	}
}

// WithDim sets the tile side length. Must be in [64, 4096]; the
// engine further clamps it down if the image is smaller than the
// requested tile side (see spec §6 parameter constraints).
func WithDim(dim int) EngineOption {
	return func(o *engineConfig) {
		o.dim = dim
	}
}

// WithBackground sets the color every tile buffer is initialized to
// at begin_tile, before any path is composited over it.
func WithBackground(c PackedColor) EngineOption {
	return func(o *engineConfig) {
		o.background = c
	}
}

// WithErrorHandler overrides the fatal-error callback. The handler is
// required not to return (e.g. it should exit the process or unwind
// via panic); the built-in default prints the diagnostic and exits.
func WithErrorHandler(h ErrorHandler) EngineOption {
	return func(o *engineConfig) {
		if h != nil {
			o.errHandler = h
		}
	}
}

// WithWarningHandler overrides the non-fatal warning callback. Unlike
// the error handler, it is expected to return so the engine can
// proceed.
func WithWarningHandler(h WarningHandler) EngineOption {
	return func(o *engineConfig) {
		if h != nil {
			o.warnHandler = h
		}
	}
}
