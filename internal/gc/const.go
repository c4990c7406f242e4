// Package gc implements a conservative mark-and-sweep collector over a
// single fixed-size heap region. Roots are discovered by scanning the call
// stack for values that look like interior pointers into the region; the
// mutator is stopped for the full duration of a collection cycle.
package gc

import "unsafe"

const (
	// chunkSize is the total size of the managed heap region.
	chunkSize = 1 << 20 // 1 MiB

	// allocUnit is the minimum allocation granularity; every block occupies
	// an integral number of consecutive slots of this size.
	allocUnit = 16

	// cellCount is the number of ALLOC_UNIT slots in the region. Slot 0 is
	// permanently reserved as the null-offset sentinel.
	cellCount = chunkSize / allocUnit

	// maxIndex bounds the 16-bit offset encoding.
	maxIndex = (1 << 16) - 1

	// poisonByte fills freshly allocated payloads to catch uninitialized
	// reads.
	poisonByte = 0x7F

	// pageSize is used to round the stack-scan upper bound up from the
	// caller-supplied frame hint.
	pageSize = 4096

	// markBit / noMarkBit mirror the source's GC_MARK / GC_NO_MARK tags.
	markBit   = 2
	noMarkBit = 0
)

// header is the on-heap metadata prefixing every block, free or used. It
// must fit within a single allocUnit-sized slot; headerSize is asserted
// against allocUnit at package init below in place of a compile-time
// static_assert.
type header struct {
	size uint16 // total block size in slots, including this header slot
	next uint16 // offset of the next block on whichever list owns this cell
	conf uint16 // (size * 7) mod 2^16, a structural sanity check
	used uint8
	mark uint8
}

const headerSize = unsafe.Sizeof(header{})

func init() {
	if headerSize > allocUnit {
		panic("gc: cell header does not fit in one allocation unit")
	}
}

// confOf computes the confirmation tag for a block of the given size.
func confOf(size uint16) uint16 {
	return uint16(7 * uint32(size))
}
