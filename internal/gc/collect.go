package gc

// Collect runs a full mark-and-sweep cycle immediately: unmark every
// used-list block, trace reachability from the call stack, then reclaim
// whatever was not reached. It is invoked automatically on allocation
// failure and is also exposed here for deterministic testing.
func (h *Heap) Collect() {
	h.unmarkAll()
	h.mark()
	h.sweep()
}
