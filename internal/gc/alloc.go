package gc

import "unsafe"

// Alloc allocates nBytes of zero-poisoned storage, retrying once after a
// full collection on failure. On persistent OOM it prints stats and calls
// the heap's OOM handler; the default handler terminates the process, and
// if a handler returns instead, Alloc returns nil.
func (h *Heap) Alloc(nBytes uintptr) unsafe.Pointer {
	if addr, ok := h.alloc1(nBytes); ok {
		return unsafe.Pointer(addr)
	}

	h.Collect()

	if addr, ok := h.alloc1(nBytes); ok {
		return unsafe.Pointer(addr)
	}

	h.PrintStats()
	h.onOOM(nBytes)

	return nil
}

// alloc1 is the single-shot first-fit allocator: find, split, register,
// poison. It returns ok == false both when no block fits and when the
// owning link's offset would end up at or beyond maxIndex. That
// overflow guard fires after the counters below have already been
// updated; forward progress on persistent near-overflow comes from the
// retry-after-collect path in Alloc, not from rolling these back.
func (h *Heap) alloc1(nBytes uintptr) (clientPtr uintptr, ok bool) {
	units := unitsFor(nBytes)

	h.bytesAllocated += uintptr(units) * allocUnit
	h.blocksAllocated++

	blk, off, pred, found := h.firstFit(units)
	if !found {
		return 0, false
	}

	oldSize := blk.size
	if oldSize > units {
		remainder := oldSize - units
		newOff := off + units

		rem := h.cell(newOff)
		rem.size = remainder
		rem.conf = confOf(remainder)
		rem.next = blk.next

		pred.advance(units)
	} else {
		pred.set(blk.next)
	}

	if pred.get() >= maxIndex {
		return 0, false
	}

	setSize(blk, units)
	blk.mark = noMarkBit

	h.pushUsed(off)

	clientPtr = clientAddr(toAddr(h.base, off))
	poison(clientPtr, nBytes)

	return clientPtr, true
}

// unitsFor converts a byte count to the slot count needed to hold a header
// plus that many payload bytes.
func unitsFor(nBytes uintptr) uint16 {
	total := nBytes + headerSize
	units := total / allocUnit
	if total%allocUnit != 0 {
		units++
	}

	return uint16(units)
}

// poison fills n bytes at addr with the debug poison byte, catching reads
// of uninitialized client memory.
func poison(addr, n uintptr) {
	if n == 0 {
		return
	}

	buf := (*[1 << 30]byte)(unsafe.Pointer(addr))[:n:n]
	for i := range buf {
		buf[i] = poisonByte
	}
}
