package gc

import "unsafe"

// pointerStride is the platform's pointer size; stack words are scanned at
// this granularity.
const pointerStride = unsafe.Sizeof(uintptr(0))

// mark establishes a low-water-mark stack address from a local variable
// declared at the top of this function, then scans from there up to the
// heap's recorded stack top.
//
// Two caveats come from running this design inside a Go goroutine rather
// than a native thread: first, Go makes no guarantee about when
// callee-saved registers are spilled to the stack, so a value that exists
// only in a register at the moment mark is called is invisible to this
// scan — callers that need a value to survive a collection must keep it
// live via a stack-resident variable (or runtime.KeepAlive) before calling
// Collect. Second, Go goroutine stacks can move on growth; this
// implementation assumes Init/Alloc/Collect are always invoked from the
// same, single mutator goroutine and that a collection's own stack usage
// stays flat enough not to trigger a growth copy while
// [low water mark, stackTop) is being read. That is also why markRange
// below is an explicit worklist rather than a recursive walk: unbounded
// recursion depth here would also put the scan window itself at risk of a
// mid-scan stack move.
func (h *Heap) mark() {
	var probe byte

	lowWater := uintptr(unsafe.Pointer(&probe))
	h.markRange(lowWater, h.stackTop)
}

// markRange scans [lo, hi) at pointer stride. Every aligned word that looks
// like an interior (or exactly client-start) pointer into a used-list
// block marks that block and schedules its payload range for the same
// scan. Each block is descended into at most once per cycle because only
// an unmarked→marked transition pushes new work.
func (h *Heap) markRange(lo, hi uintptr) {
	var worklist []uint16

	scan := func(lo, hi uintptr) {
		for addr := lo; addr+pointerStride <= hi; addr += pointerStride {
			w := *(*uintptr)(unsafe.Pointer(addr))

			off, ok := h.pointQuery(w)
			if !ok {
				continue
			}

			c := h.cell(off)
			if c.mark != noMarkBit {
				continue
			}

			c.mark = markBit
			worklist = append(worklist, off)
		}
	}

	scan(lo, hi)

	for len(worklist) > 0 {
		off := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		c := h.cell(off)
		addr := toAddr(h.base, off)
		payloadLo := clientAddr(addr)
		payloadHi := payloadLo + payloadCapacity(c.size)

		scan(payloadLo, payloadHi)
	}
}
