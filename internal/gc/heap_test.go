package gc

import (
	"testing"
	"unsafe"
)

// newTestHeap takes frameHint from the caller's own frame, not a helper
// several calls deeper: stackTop must sit above every local variable the
// calling test still reads after a Collect, and a deeper frame gives no
// such guarantee.
func newTestHeap(t *testing.T, frameHint unsafe.Pointer) *Heap {
	t.Helper()

	h, err := NewHeap(frameHint)
	if err != nil {
		t.Fatalf("NewHeap: %v", err)
	}

	t.Cleanup(func() {
		if h.release != nil {
			h.release()
		}
	})

	return h
}

func TestNewHeap(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	t.Run("SingleInitialFreeBlock", func(t *testing.T) {
		if h.freeList != 1 {
			t.Fatalf("freeList = %d, want 1", h.freeList)
		}

		if h.usedList != 0 {
			t.Fatalf("usedList = %d, want 0", h.usedList)
		}

		root := h.cell(1)
		if root.size != cellCount-1 {
			t.Fatalf("root.size = %d, want %d", root.size, cellCount-1)
		}

		if root.next != 0 {
			t.Fatalf("root.next = %d, want 0", root.next)
		}
	})

	t.Run("RootConfValid", func(t *testing.T) {
		root := h.cell(1)
		if !validConf(root) {
			t.Fatal("initial free block fails its own conf check")
		}
	})
}

func TestAllocBasic(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	ptr := h.Alloc(64)
	if ptr == nil {
		t.Fatal("Alloc returned nil")
	}

	data := (*[64]byte)(ptr)
	for i := range data {
		data[i] = byte(i)
	}

	for i := range data {
		if data[i] != byte(i) {
			t.Fatalf("data corrupted at %d", i)
		}
	}

	if h.blocksAllocated != 1 {
		t.Fatalf("blocksAllocated = %d, want 1", h.blocksAllocated)
	}

	if h.usedList == 0 {
		t.Fatal("usedList empty after allocation")
	}
}

func TestAllocPoisonsFreshMemory(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	ptr := h.Alloc(32)
	data := (*[32]byte)(ptr)

	for i, b := range data {
		if b != poisonByte {
			t.Fatalf("byte %d = %#x, want poison %#x", i, b, poisonByte)
		}
	}
}

func TestPointQueryFindsAllocatedBlock(t *testing.T) {
	var frame byte
	h := newTestHeap(t, unsafe.Pointer(&frame))

	ptr := h.Alloc(40)

	off, ok := h.pointQuery(uintptr(ptr))
	if !ok {
		t.Fatal("pointQuery did not find the allocation at its own start")
	}

	c := h.cell(off)
	if c.used != 1 {
		t.Fatal("pointQuery returned a block not marked used")
	}

	// An address one byte past the payload must not resolve to this block.
	hi := uintptr(ptr) + payloadCapacity(c.size)
	if _, ok := h.pointQuery(hi); ok {
		t.Fatal("pointQuery matched one-past-the-end address")
	}

	// An interior address should still resolve to the same block.
	interior := uintptr(ptr) + 4
	interiorOff, ok := h.pointQuery(interior)
	if !ok || interiorOff != off {
		t.Fatalf("pointQuery(interior) = (%d, %v), want (%d, true)", interiorOff, ok, off)
	}
}
