// Package gb owns the Machine: the single linear composition root that
// wires Bus, CPU, and (through the Bus) PPU/Timer/Joypad/Interrupts
// together and drives the step_frame loop described in spec.md §2/§5.
// This replaces the original C++ source's cyclic component back-references
// (bus.h <-> cpu.h <-> ...) with one owner holding one-directional
// references, per spec.md §9's redesign note.
package gb

import (
	"fmt"

	"github.com/gbcore/dmgcore/internal/bus"
	"github.com/gbcore/dmgcore/internal/cart"
	"github.com/gbcore/dmgcore/internal/cpu"
	"github.com/gbcore/dmgcore/internal/joypad"
)

// cyclesPerFrame is 70224 CPU clocks: 154 scanlines * 456 dots, at
// 4.194304 MHz / 59.73 Hz, per spec.md §2.
const cyclesPerFrame = 70224

// Config holds emulation behavior switches that don't belong on any single
// component. It is threaded through construction rather than living as a
// package-level global, per spec.md §9's note on the source's module-level
// mutable globals (skip_boot_rom, the error collector).
type Config struct {
	// Trace, when set, logs every CPU instruction fetch through the
	// standard logger — the same opt-in debug-trace pattern the teacher's
	// bus.go uses for its timer trace (GB_DEBUG_TIMER).
	Trace bool
}

// Diagnostic is a recoverable error accumulated during emulation: an
// unmapped bus access or an illegal opcode, per spec.md §7. Fatal errors
// (unsupported cartridge type, truncated ROM) are returned directly from
// LoadCartridge instead of being logged here.
type Diagnostic struct {
	Kind string // "unmapped-read", "unmapped-write", "illegal-opcode"
	Addr uint16
}

// FatalError wraps a cartridge load failure that the core cannot recover
// from, per spec.md §7's two-tier error model.
type FatalError struct{ Err error }

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Machine is the emulation core: one Bus, one CPU, and the Config/
// diagnostic sink the rest of the components don't own individually.
type Machine struct {
	cfg Config

	bus    *bus.Bus
	cpu    *cpu.CPU
	header *cart.Header

	diagnostics []Diagnostic
}

// New creates an unloaded Machine. Call LoadCartridge before StepFrame.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// LoadCartridge parses rom's header, constructs the matching MBC, and
// resets the CPU either into the supplied boot ROM (if exactly 256 bytes)
// or directly to the documented DMG post-boot state (spec.md §6). An
// unsupported cartridge type is a fatal error per spec.md §7; a boot ROM
// of the wrong size is a recoverable fallback to skip-boot mode, not an
// error.
func (m *Machine) LoadCartridge(rom []byte, boot []byte) error {
	c, h, err := cart.New(rom)
	if err != nil {
		return &FatalError{Err: fmt.Errorf("load cartridge: %w", err)}
	}
	m.header = h
	m.bus = bus.NewWithCartridge(c)
	m.cpu = cpu.New(m.bus)

	if len(boot) == 0x100 {
		m.bus.SetBootROM(boot)
		m.cpu.SetPC(0x0000)
		return nil
	}
	m.resetSkipBoot()
	return nil
}

// resetSkipBoot applies the documented power-on register values for
// running without a boot ROM (spec.md §6): CPU registers, IF, LCDC, STAT,
// BGP, DIV, TAC, and JOYP.
func (m *Machine) resetSkipBoot() {
	m.cpu.ResetNoBoot() // AF=01B0 BC=0013 DE=00D8 HL=014D SP=FFFE PC=0100

	m.bus.Write(0xFF0F, 0xE1) // IF
	m.bus.Write(0xFF07, 0xF8) // TAC
	m.bus.Write(0xFF00, 0xCF) // JOYP
	m.bus.Timer().InitSkipBootDIV(0xAB00)
	m.bus.PPU().InitSkipBootRegisters(0x91, 0x85, 0xFC)
}

// Header returns the parsed cartridge header, or nil before LoadCartridge.
func (m *Machine) Header() *cart.Header { return m.header }

// Bus exposes the wired Bus for tools/tests that need direct memory access
// (headless runners, conformance test harnesses).
func (m *Machine) Bus() *bus.Bus { return m.bus }

// CPU exposes the wired CPU for tools/tests that need instruction-level
// control (trace dumps, single-stepping).
func (m *Machine) CPU() *cpu.CPU { return m.cpu }

// StepFrame runs the core for one frame's worth of cycles (spec.md §2's
// data flow): service pending interrupts, step the CPU, tick Timer and PPU
// by the cycles consumed, until 70224 cycles have elapsed. Joypad has no
// cycle-driven state of its own; button edges apply immediately via
// Press/Release and IRQ at the time of the call.
func (m *Machine) StepFrame() {
	total := 0
	for total < cyclesPerFrame {
		cycles := m.cpu.ServiceInterrupts()
		if cycles == 0 {
			if m.cfg.Trace {
				logTrace(m.cpu)
			}
			cycles = m.cpu.Step()
		}
		m.bus.Tick(cycles)
		total += cycles
	}
	m.drainDiagnostics()
}

func (m *Machine) drainDiagnostics() {
	for _, u := range m.bus.UnmappedAccesses() {
		kind := "unmapped-read"
		if u.Write {
			kind = "unmapped-write"
		}
		m.diagnostics = append(m.diagnostics, Diagnostic{Kind: kind, Addr: u.Addr})
	}
	for _, op := range m.cpu.IllegalOpcodes() {
		m.diagnostics = append(m.diagnostics, Diagnostic{Kind: "illegal-opcode", Addr: uint16(op)})
	}
}

// Diagnostics drains and returns the recoverable-error log accumulated
// since the last call, per spec.md §7.
func (m *Machine) Diagnostics() []Diagnostic {
	out := m.diagnostics
	m.diagnostics = nil
	return out
}

// Framebuffer returns the last fully-rendered frame as a 160x144 RGB byte
// buffer (3 bytes/pixel, row-major), per spec.md §6's output contract.
func (m *Machine) Framebuffer() []byte {
	fb := m.bus.PPU().Framebuffer()
	out := make([]byte, 160*144*3)
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			px := fb[y][x]
			out[i], out[i+1], out[i+2] = px.R, px.G, px.B
			i += 3
		}
	}
	return out
}

// FramebufferRGBA is a convenience for hosts (internal/ui) that want an
// alpha-padded buffer suitable for ebiten.Image.WritePixels.
func (m *Machine) FramebufferRGBA() []byte {
	fb := m.bus.PPU().Framebuffer()
	out := make([]byte, 160*144*4)
	i := 0
	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			px := fb[y][x]
			out[i], out[i+1], out[i+2], out[i+3] = px.R, px.G, px.B, 0xFF
			i += 4
		}
	}
	return out
}

// Press marks a button held down, raising the Joypad interrupt.
func (m *Machine) Press(b joypad.Button) { m.bus.Joypad().Press(b) }

// Release marks a button released.
func (m *Machine) Release(b joypad.Button) { m.bus.Joypad().Release(b) }
