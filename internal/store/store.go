// Package store implements the engine's backing store: a
// byte-addressable, random-access region sized to exactly
// width*height*4 bytes, backed by a memory-mapped temporary file so
// large images do not need to live entirely in the Go heap. The file
// is unlinked immediately after mapping: on POSIX systems its inode
// (and the mapped pages) survive until the mapping is closed, while no
// named file is ever visible on disk for longer than the allocation
// call.
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store is the random-access packed-pixel backing region written tile
// by tile at end_tile and streamed scanline by scanline at compile.
type Store struct {
	file       *os.File
	region     mmap.Map
	width      int
	height     int
	allocBytes int64
}

// New allocates a temp-file-backed mapping sized width*height*4 bytes.
// Each call uses a uuid-qualified file name so independent Store
// instances (one per Engine, per spec §5) never collide even when
// created concurrently in the same temp directory.
func New(width, height int) (*Store, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("store: width and height must be positive, got %d x %d", width, height)
	}
	size := int64(width) * int64(height) * 4

	name := filepath.Join(os.TempDir(), fmt.Sprintf("lilac-%s.tmp", uuid.New().String()))
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // uuid-qualified temp path
	if err != nil {
		return nil, errors.Wrap(err, "store: failed to create backing temp file")
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return nil, errors.Wrap(err, "store: failed to size backing temp file")
	}

	region, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(name)
		return nil, errors.Wrap(err, "store: mmap of backing temp file failed")
	}

	// The mapping and the open file descriptor keep the storage alive;
	// the directory entry is no longer needed once both exist. Best
	// effort: a failed unlink here just leaves a stray temp file, which
	// is a non-essential I/O warning, not a fatal condition.
	_ = os.Remove(name)

	return &Store{file: f, region: region, width: width, height: height, allocBytes: size}, nil
}

// WriteTile writes a tile's live region into the store at (tileX,
// tileY). tileBuf is row-major with pitch dim; only the top-left
// tileW x tileH live region of each row is written, per spec §4.G.
func (s *Store) WriteTile(tileX, tileY, tileW, tileH, dim int, tileBuf []uint32) error {
	if tileX < 0 || tileY < 0 || tileX+tileW > s.width || tileY+tileH > s.height {
		return fmt.Errorf("store: tile (%d,%d)+(%d,%d) out of bounds for %dx%d store", tileX, tileY, tileW, tileH, s.width, s.height)
	}
	for row := 0; row < tileH; row++ {
		offset := (tileY+row)*s.width*4 + tileX*4
		rowBase := row * dim
		for col := 0; col < tileW; col++ {
			binary.LittleEndian.PutUint32(s.region[offset+col*4:], tileBuf[rowBase+col])
		}
	}
	return nil
}

// ReadScanline reads one full-width scanline y into out, which must
// have length >= width. Used at compile to stream the store to the
// raster sink.
func (s *Store) ReadScanline(y int, out []uint32) error {
	if y < 0 || y >= s.height {
		return fmt.Errorf("store: scanline %d out of range [0,%d)", y, s.height)
	}
	if len(out) < s.width {
		return fmt.Errorf("store: scanline buffer length %d shorter than width %d", len(out), s.width)
	}
	offset := y * s.width * 4
	for x := 0; x < s.width; x++ {
		out[x] = binary.LittleEndian.Uint32(s.region[offset+x*4:])
	}
	return nil
}

// Width returns the store's configured width in pixels.
func (s *Store) Width() int { return s.width }

// Height returns the store's configured height in pixels.
func (s *Store) Height() int { return s.height }

// AllocBytes returns the size in bytes of the backing mapping.
func (s *Store) AllocBytes() int64 { return s.allocBytes }

// Close unmaps the backing region and releases the underlying file
// descriptor. The Store must not be used afterward.
func (s *Store) Close() error {
	unmapErr := s.region.Unmap()
	closeErr := s.file.Close()
	if unmapErr != nil {
		return errors.Wrap(unmapErr, "store: unmap failed")
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "store: close failed")
	}
	return nil
}
