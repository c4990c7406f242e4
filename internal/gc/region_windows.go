//go:build windows

package gc

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// acquireRegion reserves a size-byte region from the system. VirtualAlloc's
// MEM_RESERVE granularity (64 KiB on Windows) is finer than the CHUNK_SIZE
// alignment the region needs, so it over-maps as on unix: reserve 2x and
// return the aligned sub-range. Unlike unix, the slack is not trimmed.
func acquireRegion(size uintptr) (base uintptr, pin []byte, release func(), err error) {
	raw, err := windows.VirtualAlloc(0, 2*size, windows.MEM_RESERVE|windows.MEM_COMMIT,
		windows.PAGE_READWRITE)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("gc: VirtualAlloc region: %w", err)
	}

	aligned := alignUp(raw, size)

	release = func() {
		_ = windows.VirtualFree(raw, 0, windows.MEM_RELEASE)
	}

	// VirtualFree can only release a region at its original reservation
	// base, so unlike the unix path the slack cannot be trimmed back to the
	// OS individually; it simply goes unused within the 2x reservation.
	// As with the unix path, OS-backed memory is invisible to the Go
	// runtime's collector, so no pin is required.
	return aligned, nil, release, nil
}
