// Command cellgc-inspect is a small diagnostic tool for embedders: it
// checks that the collector's API version satisfies a required
// constraint, runs a short scripted allocation sequence, and prints the
// resulting header and heap statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/cellgc-project/cellgc/internal/gc"
)

func main() {
	var (
		constraint string
		allocSize  uintptr
	)

	flag.StringVar(&constraint, "require", ">="+gc.APIVersion, "semver constraint the running collector must satisfy")
	flag.Func("alloc", "bytes to allocate before inspecting (default 64)", func(s string) error {
		var n uint64

		if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
			return err
		}

		allocSize = uintptr(n)

		return nil
	})
	flag.Parse()

	if allocSize == 0 {
		allocSize = 64
	}

	if err := gc.RequireVersion(constraint); err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-inspect:", err)
		os.Exit(1)
	}

	fmt.Printf("cellgc-inspect: api version %s satisfies %q\n", gc.APIVersion, constraint)

	var frame byte
	if err := gc.Init(unsafe.Pointer(&frame)); err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-inspect:", err)
		os.Exit(1)
	}

	ptr := gc.Alloc(allocSize)

	fmt.Println("-- header before collect --")
	gc.PrintInfo(ptr)

	gc.Collect()

	fmt.Println("-- header after collect (block is still reachable from this frame) --")
	gc.PrintInfo(ptr)

	fmt.Println()
	gc.PrintStats()
}
