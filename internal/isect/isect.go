// Package isect implements the append-only intersection buffer used by
// the path accumulator and consumed by the tile rasterizer.
//
// Records are packed 32-bit unsigned integers: bit 0 is direction (1 =
// upward/+1, 0 = downward/-1), bits 1-15 are tileX, bits 16-30 are
// tileY, bit 31 is always 0. This layout is deliberate: ordinary
// ascending unsigned-integer sort already yields the required
// ordering (primary tileY, secondary tileX, tertiary direction); do
// not replace Sort with a tuple comparator unless the layout changes.
package isect

import (
	"fmt"
	"slices"
)

// InitialCapacity is the buffer's starting record capacity.
const InitialCapacity = 64

// MaxCapacity is the ceiling a buffer may grow to; exceeding it is a
// fatal capacity-exhaustion error (spec §7 kind 3).
const MaxCapacity = 1 << 20 // 1,048,576

// Buffer is an append-only, sortable sequence of packed intersection
// records for the current path within the current tile.
type Buffer struct {
	records []uint32
}

// New creates an empty buffer at InitialCapacity.
func New() *Buffer {
	return &Buffer{records: make([]uint32, 0, InitialCapacity)}
}

// Reset clears the buffer for a new path (called at begin_path),
// retaining its current backing capacity.
func (b *Buffer) Reset() {
	b.records = b.records[:0]
}

// Len returns the number of records currently appended.
func (b *Buffer) Len() int { return len(b.records) }

// Pack encodes a single intersection record. tileX and tileY must each
// fit in 15 bits (satisfied by dim's [64, 4096] range).
func Pack(tileX, tileY int, up bool) uint32 {
	var dir uint32
	if up {
		dir = 1
	}
	return dir | uint32(tileX)<<1 | uint32(tileY)<<16 //nolint:gosec // tileX/tileY bounded to dim-1 by callers
}

// TileX extracts the tileX field from a packed record.
func TileX(r uint32) int { return int((r >> 1) & 0x7FFF) }

// TileY extracts the tileY field from a packed record.
func TileY(r uint32) int { return int((r >> 16) & 0x7FFF) }

// Direction extracts the signed winding contribution (+1 or -1) from a
// packed record.
func Direction(r uint32) int {
	if r&1 != 0 {
		return 1
	}
	return -1
}

// Append adds a packed intersection record, doubling the backing
// capacity when full. Returns an error once MaxCapacity would be
// exceeded; per spec this is fatal and must propagate to the error
// handler, not be silently dropped.
func (b *Buffer) Append(tileX, tileY int, up bool) error {
	if len(b.records) == cap(b.records) {
		if cap(b.records) >= MaxCapacity {
			return fmt.Errorf("isect: intersection buffer exceeded ceiling of %d records", MaxCapacity)
		}
		newCap := cap(b.records) * 2
		if newCap > MaxCapacity {
			newCap = MaxCapacity
		}
		grown := make([]uint32, len(b.records), newCap)
		copy(grown, b.records)
		b.records = grown
	}
	b.records = append(b.records, Pack(tileX, tileY, up))
	return nil
}

// Sort orders the buffer ascending as unsigned 32-bit integers, which
// the packing above guarantees is (tileY, tileX, direction) order.
func (b *Buffer) Sort() {
	slices.Sort(b.records)
}

// Records returns the buffer's current records. The slice is owned by
// the Buffer and is only valid until the next Reset or Append.
func (b *Buffer) Records() []uint32 {
	return b.records
}
