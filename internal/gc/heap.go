package gc

import (
	"fmt"
	"os"
	"unsafe"
)

// Heap is the process-wide state for one collected region: the region
// base, both list heads, the stack-scan upper bound, and the four
// counters. Lifecycle: created once by NewHeap/Init and held for as long
// as the program runs; there is no explicit teardown (individual
// allocations are reclaimed by collection, not by a client-visible free).
type Heap struct {
	base     uintptr
	pin      []byte // keeps the region reachable to Go's own GC; nil on OS-backed regions
	release  func()
	freeList uint16
	usedList uint16
	stackTop uintptr

	bytesAllocated  uintptr
	bytesFreed      uintptr
	blocksAllocated uint64
	blocksFreed     uint64

	onOOM func(nBytes uintptr)
}

// Config holds the handful of knobs NewHeap accepts. The structural
// tunables (chunk size, allocation unit, max offset, poison byte, page
// size) stay package constants, not Config fields — they define the wire
// format of the region and are not meant to vary per heap.
type Config struct {
	onOOM func(nBytes uintptr)
}

// Option mutates a Config using the standard functional-options pattern.
type Option func(*Config)

// WithOOMHandler overrides what runs when a second allocation attempt
// fails after a full collection. Alloc prints stats to stdout before the
// handler runs, whichever handler is set; the default handler then writes
// an "oom @ malloc(n)" diagnostic line to stderr and exits the process.
func WithOOMHandler(f func(nBytes uintptr)) Option {
	return func(c *Config) { c.onOOM = f }
}

func defaultConfig() *Config {
	return &Config{onOOM: nil}
}

// NewHeap reserves a fresh region, builds the initial all-of-the-heap free
// block, and records stackTop: the page-aligned address strictly above
// frameHint, which callers pass as the address of a local variable near
// the base of their call stack.
func NewHeap(frameHint unsafe.Pointer, opts ...Option) (*Heap, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	base, pin, release, err := acquireRegion(chunkSize)
	if err != nil {
		return nil, err
	}

	zeroRegion(base, chunkSize)

	h := &Heap{
		base:    base,
		pin:     pin,
		release: release,
		onOOM:   cfg.onOOM,
	}
	if h.onOOM == nil {
		h.onOOM = h.defaultOnOOM
	}

	root := h.cell(1)
	root.size = cellCount - 1
	root.conf = confOf(cellCount - 1)
	root.next = 0
	h.freeList = 1
	h.usedList = 0

	h.stackTop = pageAlignAbove(uintptr(frameHint))

	return h, nil
}

// cell resolves an offset to its header within this heap's region.
func (h *Heap) cell(off uint16) *header {
	return cellAt(h.base, off)
}

// pageAlignAbove rounds addr up to the next page boundary strictly above
// it, matching the source's `pages = addr/4096 + 1; stack_top = pages*4096`.
func pageAlignAbove(addr uintptr) uintptr {
	return (addr/pageSize + 1) * pageSize
}

func zeroRegion(base uintptr, n uintptr) {
	buf := (*[1 << 20]byte)(unsafe.Pointer(base))[:n:n]
	for i := range buf {
		buf[i] = 0
	}
}

func (h *Heap) defaultOnOOM(nBytes uintptr) {
	fmt.Fprintf(os.Stderr, "oom @ malloc(%d)\n", nBytes)
	os.Exit(1)
}

// --- package-level convenience wrappers around a single process-wide
// heap, for callers that don't want to thread a *Heap through their code. ---

var defaultHeap *Heap

// Init initializes the process-wide heap and stack-top. It must be called
// exactly once before any other entry point; calling it twice returns an
// error rather than silently reinitializing a live heap out from under any
// allocations a caller may already be holding.
func Init(frameHint unsafe.Pointer, opts ...Option) error {
	if defaultHeap != nil {
		return errAlreadyInitialized()
	}

	h, err := NewHeap(frameHint, opts...)
	if err != nil {
		return err
	}

	defaultHeap = h

	return nil
}

// Default returns the process-wide heap created by Init, or nil if Init
// has not run yet.
func Default() *Heap {
	return defaultHeap
}

// Alloc allocates from the process-wide heap. It panics if Init has not
// been called.
func Alloc(nBytes uintptr) unsafe.Pointer {
	if defaultHeap == nil {
		panic(errNotInitialized())
	}

	return defaultHeap.Alloc(nBytes)
}

// Collect runs a full collection cycle on the process-wide heap.
func Collect() {
	if defaultHeap == nil {
		panic(errNotInitialized())
	}

	defaultHeap.Collect()
}

// PrintStats emits the process-wide heap's counters and list summaries.
func PrintStats() {
	if defaultHeap == nil {
		panic(errNotInitialized())
	}

	defaultHeap.PrintStats()
}

// PrintInfo emits the header fields of the block containing addr.
func PrintInfo(addr unsafe.Pointer) {
	if defaultHeap == nil {
		panic(errNotInitialized())
	}

	defaultHeap.PrintInfo(addr)
}
