// Package bus implements the DMG address-space demultiplexer: it routes
// 16-bit CPU reads/writes to cartridge, VRAM/OAM (via the PPU), WRAM,
// HRAM, the timer, the joypad, and the interrupt controller, and it owns
// the boot-ROM overlay and OAM DMA.
package bus

import (
	"github.com/gbcore/dmgcore/internal/cart"
	"github.com/gbcore/dmgcore/internal/interrupt"
	"github.com/gbcore/dmgcore/internal/joypad"
	"github.com/gbcore/dmgcore/internal/ppu"
	"github.com/gbcore/dmgcore/internal/timer"
)

// Bus wires the full CPU-visible address space together. It is the one
// component every other piece of state hangs off of; CPU holds a Bus
// reference and nothing else, eliminating the mutual back-references a
// naive port of a C++ original would otherwise carry.
type Bus struct {
	cart cart.Cartridge

	wram [0x2000]byte // 0xC000-0xDFFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	ppu *ppu.PPU
	tmr *timer.Timer
	joy *joypad.Joypad
	irq *interrupt.Controller

	dma byte // FF46, last written value

	serialData    byte // FF01 (SB), storage only: no serial transfer
	serialControl byte // FF02 (SC), storage only: no serial transfer

	bootROM     []byte
	bootEnabled bool

	unmapped []UnmappedAccess // diagnostic log of unmapped reads/writes
}

// UnmappedAccess records a read or write outside every known region, per
// spec.md §7's recoverable-error diagnostic log.
type UnmappedAccess struct {
	Addr  uint16
	Write bool
}

// New builds a Bus around a ROM image, parsing its header through
// cart.New; an unparsable or unsupported-type ROM falls back to a
// ROM-only cartridge rather than failing a Bus constructor that has no
// error return — callers that need the fatal-on-unsupported-type
// behavior mandated by spec.md §7 should call cart.New themselves and use
// NewWithCartridge.
func New(rom []byte) *Bus {
	c, _, err := cart.New(rom)
	if err != nil {
		c = cart.NewROMOnly(rom)
	}
	return NewWithCartridge(c)
}

// NewWithCartridge wires a pre-constructed Cartridge into a fresh Bus.
func NewWithCartridge(c cart.Cartridge) *Bus {
	b := &Bus{cart: c}
	b.irq = &interrupt.Controller{}
	b.ppu = ppu.New(func(bit int) { b.irq.Request(bit) })
	b.tmr = timer.New(b.irq)
	b.joy = joypad.New(b.irq)
	return b
}

func (b *Bus) PPU() *ppu.PPU                   { return b.ppu }
func (b *Bus) Timer() *timer.Timer             { return b.tmr }
func (b *Bus) Joypad() *joypad.Joypad          { return b.joy }
func (b *Bus) Interrupts() *interrupt.Controller { return b.irq }
func (b *Bus) Cart() cart.Cartridge            { return b.cart }

// UnmappedAccesses returns and clears the recoverable-access diagnostic log.
func (b *Bus) UnmappedAccesses() []UnmappedAccess {
	out := b.unmapped
	b.unmapped = nil
	return out
}

// SetBootROM loads a DMG boot ROM to be mapped at 0x0000-0x00FF until
// disabled by a write to 0xFF50. A buffer that isn't exactly 256 bytes is
// rejected (skip-boot mode), per spec.md §6.
func (b *Bus) SetBootROM(data []byte) {
	b.bootROM = nil
	b.bootEnabled = false
	if len(data) == 0x100 {
		b.bootROM = make([]byte, 0x100)
		copy(b.bootROM, data)
		b.bootEnabled = true
	}
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000:
		if b.bootEnabled && addr < 0x0100 {
			return b.bootROM[addr]
		}
		return b.cart.Read(addr)
	case addr >= 0x8000 && addr <= 0x9FFF:
		return b.ppu.CPURead(addr)
	case addr >= 0xA000 && addr <= 0xBFFF:
		return b.cart.Read(addr)
	case addr >= 0xC000 && addr <= 0xDFFF:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr <= 0xFDFF:
		return b.wram[addr-0x2000-0xC000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		return b.ppu.CPURead(addr)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		return 0xFF
	case addr >= 0xFF80 && addr <= 0xFFFE:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.irq.ReadIE()
	case addr == 0xFF0F:
		return b.irq.ReadIF()
	case addr == 0xFF00:
		return b.joy.ReadJOYP()
	case addr == 0xFF04:
		return b.tmr.ReadDIV()
	case addr == 0xFF05:
		return b.tmr.ReadTIMA()
	case addr == 0xFF06:
		return b.tmr.ReadTMA()
	case addr == 0xFF07:
		return b.tmr.ReadTAC()
	case addr == 0xFF46:
		return b.dma
	case addr == 0xFF01:
		return b.serialData
	case addr == 0xFF02:
		return b.serialControl
	case addr == 0xFF50:
		return 0xFF
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		return b.ppu.CPURead(addr)
	default:
		b.unmapped = append(b.unmapped, UnmappedAccess{Addr: addr})
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, value byte) {
	switch {
	case addr < 0x8000:
		b.cart.Write(addr, value)
	case addr >= 0x8000 && addr <= 0x9FFF:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xA000 && addr <= 0xBFFF:
		b.cart.Write(addr, value)
	case addr >= 0xC000 && addr <= 0xDFFF:
		b.wram[addr-0xC000] = value
	case addr >= 0xE000 && addr <= 0xFDFF:
		b.wram[addr-0x2000-0xC000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		b.ppu.CPUWrite(addr, value)
	case addr >= 0xFEA0 && addr <= 0xFEFF:
		// unusable region, writes ignored
	case addr >= 0xFF80 && addr <= 0xFFFE:
		b.hram[addr-0xFF80] = value
	case addr == 0xFFFF:
		b.irq.WriteIE(value)
	case addr == 0xFF0F:
		b.irq.WriteIF(value)
	case addr == 0xFF00:
		b.joy.WriteJOYP(value)
	case addr == 0xFF04:
		b.tmr.WriteDIV(value)
	case addr == 0xFF05:
		b.tmr.WriteTIMA(value)
	case addr == 0xFF06:
		b.tmr.WriteTMA(value)
	case addr == 0xFF07:
		b.tmr.WriteTAC(value)
	case addr == 0xFF46:
		b.doOAMDMA(value)
	case addr == 0xFF01:
		b.serialData = value
	case addr == 0xFF02:
		b.serialControl = value
	case addr == 0xFF50:
		if value != 0x00 {
			b.bootEnabled = false
		}
	case addr == 0xFF40, addr == 0xFF41, addr == 0xFF42, addr == 0xFF43,
		addr == 0xFF44, addr == 0xFF45,
		addr == 0xFF47, addr == 0xFF48, addr == 0xFF49,
		addr == 0xFF4A, addr == 0xFF4B:
		b.ppu.CPUWrite(addr, value)
	default:
		b.unmapped = append(b.unmapped, UnmappedAccess{Addr: addr, Write: true})
	}
}

// doOAMDMA copies 160 bytes from value<<8 into OAM as a single atomic
// operation, per spec.md §3/§4.1: the transfer is instantaneous, all
// cycles charged on this one write, and it reads through the Bus's own
// Read so any source region (ROM, WRAM, ...) is traversed normally.
func (b *Bus) doOAMDMA(value byte) {
	b.dma = value
	src := uint16(value) << 8
	for i := 0; i < 0xA0; i++ {
		v := b.Read(src + uint16(i))
		b.ppu.WriteOAMByte(byte(i), v)
	}
}

// Tick advances the timer and PPU by cycles CPU clocks. Joypad has no
// cycle-driven state; button edges are applied directly via Press/Release.
func (b *Bus) Tick(cycles int) {
	b.tmr.Tick(cycles)
	b.ppu.Tick(cycles)
}
