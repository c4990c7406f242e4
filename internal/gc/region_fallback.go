//go:build !unix && !windows

package gc

// acquireRegion falls back to a plain heap-backed slice for platforms
// without a dedicated mmap/VirtualAlloc path, rounding its address up to
// the required alignment and over-allocating enough slack to guarantee an
// aligned size-byte sub-range exists within it. Unlike the OS-backed paths,
// this memory IS visible to the Go runtime's own collector, so the
// returned pin must be kept reachable by the caller for as long as base is
// in use.
func acquireRegion(size uintptr) (base uintptr, pin []byte, release func(), err error) {
	buf := make([]byte, 2*size)
	aligned := alignUp(addrOf(buf), size)
	offset := aligned - addrOf(buf)
	region := buf[offset : offset+size : offset+size]

	release = func() {}

	return addrOf(region), region, release, nil
}
