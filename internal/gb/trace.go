package gb

import (
	"log"

	"github.com/gbcore/dmgcore/internal/cpu"
)

// logTrace prints one instruction's register snapshot, mirroring the
// teacher's cpurunner -trace flag, gated by Config.Trace instead of a
// global.
func logTrace(c *cpu.CPU) {
	log.Println(c.TraceLine())
}
