//go:build unix

package gc

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// acquireRegion reserves a size-byte region aligned to size, backed by an
// anonymous mmap. It over-maps by 2x and trims the unaligned head/tail, the
// same trick the source's aligned_alloc(CHUNK_SIZE, CHUNK_SIZE) performs
// under the hood.
func acquireRegion(size uintptr) (base uintptr, pin []byte, release func(), err error) {
	raw, err := unix.Mmap(-1, 0, int(2*size), unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("gc: mmap region: %w", err)
	}

	rawBase := addrOf(raw)
	aligned := alignUp(rawBase, size)
	headSlack := aligned - rawBase
	tailSlack := 2*size - headSlack - size

	if headSlack > 0 {
		if err := unix.Munmap(raw[:headSlack]); err != nil {
			return 0, nil, nil, fmt.Errorf("gc: trim head: %w", err)
		}
	}

	if tailSlack > 0 {
		if err := unix.Munmap(raw[headSlack+size:]); err != nil {
			return 0, nil, nil, fmt.Errorf("gc: trim tail: %w", err)
		}
	}

	region := raw[headSlack : headSlack+size : headSlack+size]
	base = addrOf(region)

	release = func() {
		_ = unix.Munmap(region)
	}

	// Memory mapped directly from the OS is invisible to the Go runtime's
	// own collector, so there is nothing to pin here unlike the fallback
	// path in region_fallback.go.
	return base, nil, release, nil
}
