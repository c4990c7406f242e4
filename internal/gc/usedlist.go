package gc

// The used list is an unsorted singly-linked list of header-prefixed
// blocks with used == 1. It exists for two reasons: the sweep phase needs
// to walk every live-or-unmarked allocation, and the mark phase needs to
// test arbitrary stack words against it in pointQuery.

// pushUsed links item onto the head of the used list.
func (h *Heap) pushUsed(off uint16) {
	item := h.cell(off)
	item.used = 1
	item.next = h.usedList
	h.usedList = off
}

// pointQuery reports whether w lies within the client payload of some
// used-list block. The lower bound is inclusive (a word equal to the
// client's first byte counts), the upper bound is strict (a word exactly
// one-past-the-end does not).
func (h *Heap) pointQuery(w uintptr) (off uint16, ok bool) {
	for cur := h.usedList; cur != 0; {
		c := h.cell(cur)

		addr := toAddr(h.base, cur)
		lo := clientAddr(addr)
		hi := lo + payloadCapacity(c.size)

		if w >= lo && w < hi {
			return cur, true
		}

		cur = c.next
	}

	return 0, false
}

// unmarkAll clears the mark bit on every used-list block. Run at the start
// of each collection cycle so a block only survives sweep if this cycle's
// mark phase actually reached it.
func (h *Heap) unmarkAll() {
	for cur := h.usedList; cur != 0; {
		c := h.cell(cur)
		c.mark = noMarkBit
		cur = c.next
	}
}
