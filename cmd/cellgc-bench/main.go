// Command cellgc-bench runs an allocation workload against the collector
// and re-runs it automatically whenever the workload file is edited.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"github.com/fsnotify/fsnotify"

	"github.com/cellgc-project/cellgc/internal/gc"
)

// a workload file is a newline-separated list of directives:
//
//	alloc <bytes>    allocate and discard <bytes> of payload
//	hold <bytes>     allocate and keep the result alive for the rest of the run
//	collect          run a collection cycle immediately
//	stats            print current counters
//
// blank lines and lines starting with # are ignored.
func main() {
	var (
		workloadPath string
		watch        bool
	)

	flag.StringVar(&workloadPath, "workload", "", "path to a workload directive file")
	flag.BoolVar(&watch, "watch", false, "re-run the workload each time the file is saved")
	flag.Parse()

	if workloadPath == "" {
		fmt.Fprintln(os.Stderr, "cellgc-bench: -workload is required")
		os.Exit(1)
	}

	var frame byte
	if err := gc.Init(unsafe.Pointer(&frame)); err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-bench:", err)
		os.Exit(1)
	}

	if err := runWorkload(workloadPath); err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-bench:", err)
		os.Exit(1)
	}

	if !watch {
		return
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-bench: watcher:", err)
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Add(workloadPath); err != nil {
		fmt.Fprintln(os.Stderr, "cellgc-bench: watch:", err)
		os.Exit(1)
	}

	fmt.Println("cellgc-bench: watching", workloadPath, "for changes (ctrl-c to stop)")

	var lastRun time.Time

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}

			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// Coalesce the burst of events editors tend to emit per save.
			if since := time.Since(lastRun); since < 100*time.Millisecond {
				continue
			}

			lastRun = time.Now()

			if err := runWorkload(workloadPath); err != nil {
				fmt.Fprintln(os.Stderr, "cellgc-bench:", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}

			fmt.Fprintln(os.Stderr, "cellgc-bench: watch error:", err)
		}
	}
}

// maxHeld bounds the number of simultaneous hold directives one workload
// file can issue. held is a fixed-size stack array, not a slice growing
// onto the Go heap: the conservative scanner only walks the call stack, so
// a hold directive only keeps its allocation alive if the pointer is
// actually resident in this frame while later collections run.
const maxHeld = 4096

func runWorkload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var held [maxHeld]unsafe.Pointer

	nHeld := 0
	lineNo := 0
	sc := bufio.NewScanner(f)

	for sc.Scan() {
		lineNo++

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)

		switch fields[0] {
		case "alloc":
			n, err := directiveSize(fields, lineNo)
			if err != nil {
				return err
			}

			gc.Alloc(n)
		case "hold":
			n, err := directiveSize(fields, lineNo)
			if err != nil {
				return err
			}

			if nHeld >= maxHeld {
				return fmt.Errorf("line %d: more than %d hold directives in one run", lineNo, maxHeld)
			}

			held[nHeld] = gc.Alloc(n)
			nHeld++
		case "collect":
			gc.Collect()
		case "stats":
			gc.PrintStats()
		default:
			return fmt.Errorf("line %d: unknown directive %q", lineNo, fields[0])
		}
	}

	keepHeld(held[:nHeld])

	return sc.Err()
}

// keepHeld exists so the held array is read after the scanning loop ends,
// keeping the compiler from considering its slots dead before the last
// collect directive in the file has run.
func keepHeld(held []unsafe.Pointer) {
	for _, p := range held {
		if p == nil {
			panic("cellgc-bench: held a nil allocation")
		}
	}
}

func directiveSize(fields []string, lineNo int) (uintptr, error) {
	if len(fields) != 2 {
		return 0, fmt.Errorf("line %d: expected one size argument", lineNo)
	}

	n, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", lineNo, err)
	}

	return uintptr(n), nil
}
