package gc

// The free list is an address-sorted singly-linked list of header-prefixed
// blocks with used == 0. insertFree restores both invariants it must hold
// on every return: ascending order and maximal coalescing (no two free
// blocks are ever left adjacent).

// insertFree returns block iOff to the free list, coalescing with its
// left and right neighbors wherever they turn out to be adjacent.
func (h *Heap) insertFree(iOff uint16) {
	item := h.cell(iOff)

	h.bytesFreed += uintptr(item.size) * allocUnit
	h.blocksFreed++

	pOff := h.freeList
	cOff := h.freeList

	for cOff != 0 && cOff < iOff {
		pOff = cOff
		cOff = h.cell(cOff).next
	}

	if pOff == cOff {
		// Inserting at (or before) the current head.
		if cOff != 0 && iOff+item.size == cOff {
			c := h.cell(cOff)
			item.size += c.size
			item.conf = confOf(item.size)
			item.next = c.next
		} else {
			item.next = cOff
		}

		h.freeList = iOff

		return
	}

	p := h.cell(pOff)

	adjPrev := pOff+p.size == iOff
	adjNext := cOff != 0 && iOff+item.size == cOff

	switch {
	case adjPrev && adjNext:
		c := h.cell(cOff)
		p.size += item.size + c.size
		p.conf = confOf(p.size)
		p.next = c.next
	case adjPrev:
		p.size += item.size
		p.conf = confOf(p.size)
		p.next = cOff
	case adjNext:
		c := h.cell(cOff)
		item.size += c.size
		item.conf = confOf(item.size)
		item.next = c.next
		p.next = iOff
	default:
		p.next = iOff
		item.next = cOff
	}
}

// firstFit walks the free list looking for the first block with size >=
// units, returning the link that threads it into the list (either the list
// head or a predecessor's next field) so the caller can splice or advance
// it directly.
func (h *Heap) firstFit(units uint16) (found *header, foundOff uint16, pred link, ok bool) {
	pred = headLink(&h.freeList)
	off := h.freeList

	for off != 0 {
		c := h.cell(off)
		if c.size >= units {
			return c, off, pred, true
		}

		pred = nextLink(c)
		off = c.next
	}

	return nil, 0, link{}, false
}
