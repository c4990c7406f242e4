package gc

// These small helpers name the cell operations that recur across the
// package (client-address conversion, payload capacity, the conf check,
// size updates); other code also writes header fields directly.

// clientAddr returns the address handed to the client for a cell at addr:
// immediately past the header.
func clientAddr(addr uintptr) uintptr {
	return addr + headerSize
}

// cellFromClient recovers a cell's header address from a client pointer.
func cellFromClient(clientPtr uintptr) uintptr {
	return clientPtr - headerSize
}

// payloadCapacity returns the number of bytes available to the client in a
// block of the given slot size.
func payloadCapacity(size uint16) uintptr {
	return uintptr(size)*allocUnit - headerSize
}

// validConf reports whether a cell's conf tag matches its size, the cheap
// structural check performed whenever a block is inspected.
func validConf(h *header) bool {
	return h.conf == confOf(h.size)
}

// setSize updates size and recomputes conf in lockstep; the two fields must
// never be allowed to drift apart.
func setSize(h *header, size uint16) {
	h.size = size
	h.conf = confOf(size)
}
