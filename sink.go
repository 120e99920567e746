package lilac

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// RasterSink is the external collaborator the engine streams its
// finished backing store to at Compile (spec §4.H). The core treats
// the sink as opaque: it does not retain any state across a Compile
// call beyond what a single RasterSink value holds.
type RasterSink interface {
	// Open begins a new output, sized width x height. path's last four
	// bytes must match ".png" case-insensitively.
	Open(path string, width, height int) error
	// ScanlineBuffer returns a buffer of exactly width packed ARGB
	// pixels for the caller to fill with the next scanline.
	ScanlineBuffer() []uint32
	// CommitScanline finalizes the buffer most recently returned by
	// ScanlineBuffer as the next scanline in top-to-bottom order.
	CommitScanline() error
	// Close finishes encoding and releases any resources.
	Close() error
}

// pngSink is the built-in RasterSink: it accumulates scanlines into
// an in-memory image and encodes it with the standard library's PNG
// encoder at Close.
type pngSink struct {
	path   string
	width  int
	height int
	pixels []uint32
	row    int
	buf    []uint32
	file   *os.File
}

func newPNGSink() *pngSink {
	return &pngSink{}
}

func (s *pngSink) Open(path string, width, height int) error {
	if !strings.HasSuffix(strings.ToLower(path), ".png") {
		return errors.Errorf("lilac: output path %q must end in .png", path)
	}
	f, err := os.Create(path) //nolint:gosec // path is caller-provided intentionally
	if err != nil {
		return errors.Wrap(err, "lilac: failed to create output file")
	}
	s.path = path
	s.width = width
	s.height = height
	s.pixels = make([]uint32, width*height)
	s.buf = make([]uint32, width)
	s.row = 0
	s.file = f
	return nil
}

func (s *pngSink) ScanlineBuffer() []uint32 {
	return s.buf
}

func (s *pngSink) CommitScanline() error {
	if s.row >= s.height {
		return errors.Errorf("lilac: commit_scanline called after all %d scanlines already committed", s.height)
	}
	copy(s.pixels[s.row*s.width:(s.row+1)*s.width], s.buf)
	s.row++
	return nil
}

func (s *pngSink) Close() error {
	defer func() { _ = s.file.Close() }()
	img := &packedImage{width: s.width, height: s.height, pixels: s.pixels}
	if err := png.Encode(s.file, img); err != nil {
		return errors.Wrap(err, "lilac: PNG encode failed")
	}
	return nil
}

// packedImage adapts a row-major packed-ARGB pixel slice to
// image.Image so it can be handed to the standard library's PNG
// encoder without a separate conversion pass.
type packedImage struct {
	width, height int
	pixels        []uint32
}

func (p *packedImage) ColorModel() color.Model { return color.NRGBAModel }

func (p *packedImage) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

func (p *packedImage) At(x, y int) color.Color {
	c := p.pixels[y*p.width+x]
	return color.NRGBA{
		R: uint8(c >> 16), //nolint:gosec // byte-masked by construction
		G: uint8(c >> 8),  //nolint:gosec // byte-masked by construction
		B: uint8(c),       //nolint:gosec // byte-masked by construction
		A: uint8(c >> 24), //nolint:gosec // byte-masked by construction
	}
}
