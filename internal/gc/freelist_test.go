package gc

import (
	"testing"
	"unsafe"
)

// freeListSlice walks the free list into a plain slice of offsets, for
// assertions that want to inspect shape directly.
func (h *Heap) freeListSlice() []uint16 {
	var out []uint16
	for cur := h.freeList; cur != 0; {
		out = append(out, cur)
		cur = h.cell(cur).next
	}

	return out
}

func TestInsertFreeCoalescesBothNeighbors(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	// Start from a clean three-block free list: [1,5) [5,9) [9,13), each 4
	// slots, with the middle one removed so only the two flanks remain.
	h.freeList = 0

	left := h.cell(1)
	left.size = 4
	left.conf = confOf(4)

	right := h.cell(9)
	right.size = 4
	right.conf = confOf(4)
	right.next = 0

	left.next = 9
	h.freeList = 1

	mid := h.cell(5)
	mid.size = 4
	mid.conf = confOf(4)

	h.insertFree(5)

	if h.freeList != 1 {
		t.Fatalf("freeList = %d, want 1 after merge", h.freeList)
	}

	merged := h.cell(1)
	if merged.size != 12 {
		t.Fatalf("merged.size = %d, want 12", merged.size)
	}

	if merged.next != 0 {
		t.Fatalf("merged.next = %d, want 0 (single block left)", merged.next)
	}

	if !validConf(merged) {
		t.Fatal("merged block fails its own conf check")
	}
}

func TestInsertFreeKeepsAscendingOrder(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	h.freeList = 0

	a := h.cell(100)
	a.size = 4
	a.conf = confOf(4)
	a.next = 0
	h.freeList = 100

	b := h.cell(10)
	b.size = 4
	b.conf = confOf(4)
	h.insertFree(10)

	got := h.freeListSlice()
	want := []uint16{10, 100}

	if len(got) != len(want) {
		t.Fatalf("freeListSlice = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("freeListSlice = %v, want %v", got, want)
		}
	}
}

func TestFirstFitSkipsTooSmallBlocks(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	h.freeList = 0

	small := h.cell(1)
	small.size = 2
	small.conf = confOf(2)
	small.next = 20
	h.freeList = 1

	big := h.cell(20)
	big.size = 10
	big.conf = confOf(10)
	big.next = 0

	found, off, _, ok := h.firstFit(5)
	if !ok {
		t.Fatal("firstFit did not find the large enough block")
	}

	if off != 20 || found.size != 10 {
		t.Fatalf("firstFit returned offset %d size %d, want 20/10", off, found.size)
	}
}
