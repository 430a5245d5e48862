// cpurunner drives the CPU/Bus core directly against a ROM, without a
// display, for conformance testing and trace debugging. It detects
// completion through the memory-mapped protocol Blargg's test ROMs use in
// place of a serial link (see internal/gb/conformance.go), since serial
// transfer is out of scope.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gbcore/dmgcore/internal/gb"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	bootPath := flag.String("bootrom", "", "optional DMG boot ROM to run from 0x0000")
	maxFrames := flag.Int("frames", 2000, "max frames to run before giving up")
	trace := flag.Bool("trace", false, "print one line per instruction fetch")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s); 0 disables")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}
	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read rom: %v", err)
	}
	var boot []byte
	if *bootPath != "" {
		if boot, err = os.ReadFile(*bootPath); err != nil {
			log.Fatalf("read bootrom: %v", err)
		}
	}

	m := gb.New(gb.Config{Trace: *trace})
	if err := m.LoadCartridge(rom, boot); err != nil {
		log.Fatalf("load cart: %v", err)
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}

	for i := 0; i < *maxFrames; i++ {
		m.StepFrame()
		for _, d := range m.Diagnostics() {
			log.Printf("diagnostic: %s %#04x", d.Kind, d.Addr)
		}

		if done, passed, text := m.BlarggStatus(); done {
			fmt.Printf("%s\n", text)
			elapsed := time.Since(start).Truncate(time.Millisecond)
			fmt.Printf("\nDone: frames=%d elapsed=%s passed=%t\n", i+1, elapsed, passed)
			if passed {
				os.Exit(0)
			}
			os.Exit(1)
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			fmt.Printf("\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			os.Exit(2)
		}
	}
	fmt.Printf("\nDone: frames=%d elapsed=%s (no completion signature seen)\n",
		*maxFrames, time.Since(start).Truncate(time.Millisecond))
	os.Exit(2)
}
