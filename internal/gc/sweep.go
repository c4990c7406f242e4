package gc

// sweep walks the used list and returns every unmarked block to the free
// list. It maintains a pointer-to-link the whole way through, rather than
// unlinking by overwriting through a stale predecessor, so unlinking a
// victim mid-traversal never disturbs the rest of the list.
func (h *Heap) sweep() {
	pred := headLink(&h.usedList)
	off := h.usedList

	for off != 0 {
		c := h.cell(off)
		next := c.next

		if c.mark == noMarkBit {
			pred.set(next)
			c.used = 0
			h.insertFree(off)
		} else {
			pred = nextLink(c)
		}

		off = next
	}
}
