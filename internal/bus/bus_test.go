package bus

import (
	"testing"

	"github.com/gbcore/dmgcore/internal/joypad"
)

func TestBus_ROMAndRAM(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0100] = 0x42
	b := New(rom)

	if got := b.Read(0x0100); got != 0x42 {
		t.Fatalf("ROM read got %02x, want 42", got)
	}

	b.Write(0xC000, 0x99)
	if got := b.Read(0xC000); got != 0x99 {
		t.Fatalf("RAM read got %02x, want 99", got)
	}

	b.Write(0xE000, 0x55)
	if got := b.Read(0xC000); got != 0x55 {
		t.Fatalf("Echo write did not mirror to WRAM: got %02x", got)
	}
	if got := b.Read(0xE000); got != 0x55 {
		t.Fatalf("Echo read did not mirror from WRAM: got %02x", got)
	}

	b.Write(0xFF80, 0xAB)
	if got := b.Read(0xFF80); got != 0xAB {
		t.Fatalf("HRAM read got %02x, want AB", got)
	}

	if got := b.Read(0xA123); got != 0xFF {
		t.Fatalf("Ext RAM (ROM-only) got %02x, want FF", got)
	}

	if got := b.Read(0xFEA0); got != 0xFF {
		t.Fatalf("unusable region got %02x, want FF", got)
	}
}

func TestBus_VRAM_OAM_InterruptRegs(t *testing.T) {
	b := New(make([]byte, 0x8000))

	b.Write(0x8000, 0x11)
	if got := b.Read(0x8000); got != 0x11 {
		t.Fatalf("VRAM read got %02x, want 11", got)
	}

	b.Write(0xFE00, 0x22)
	if got := b.Read(0xFE00); got != 0x22 {
		t.Fatalf("OAM read got %02x, want 22", got)
	}

	b.Write(0xFF0F, 0x3F)
	if got := b.Read(0xFF0F); got != 0xE0|0x1F {
		t.Fatalf("IF read got %02x, want E0|1F", got)
	}

	b.Write(0xFFFF, 0x1B)
	if got := b.Read(0xFFFF); got != 0x1B {
		t.Fatalf("IE read got %02x, want 1B", got)
	}
}

func TestBus_JOYP_And_Timers(t *testing.T) {
	b := New(make([]byte, 0x8000))

	if got := b.Read(0xFF00); got&0x0F != 0x0F {
		t.Fatalf("JOYP default lower bits got %02x want 0x0F", got)
	}

	b.Write(0xFF00, 0x20) // select D-Pad (bit4=0)
	b.Joypad().Press(joypad.Right)
	b.Joypad().Press(joypad.Up)
	got := b.Read(0xFF00)
	if got&0x0F != 0x0A {
		t.Fatalf("JOYP D-Pad got %02x want 0x0A", got&0x0F)
	}

	b.Write(0xFF04, 0x12) // DIV write resets to 0
	if got := b.Read(0xFF04); got != 0x00 {
		t.Fatalf("DIV got %02x want 00", got)
	}
	b.Write(0xFF05, 0x77)
	if got := b.Read(0xFF05); got != 0x77 {
		t.Fatalf("TIMA got %02x want 77", got)
	}
	b.Write(0xFF06, 0x88)
	if got := b.Read(0xFF06); got != 0x88 {
		t.Fatalf("TMA got %02x want 88", got)
	}
	b.Write(0xFF07, 0xFD)
	if got := b.Read(0xFF07); got != (0xF8 | (0xFD & 0x07)) {
		t.Fatalf("TAC got %02x want %02x", got, 0xF8|(0xFD&0x07))
	}
}

func TestBus_BootROMOverlayAndDisable(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x0000] = 0xAA
	b := New(rom)
	boot := make([]byte, 0x100)
	boot[0] = 0xBB
	b.SetBootROM(boot)

	if got := b.Read(0x0000); got != 0xBB {
		t.Fatalf("expected boot ROM overlay, got %02x", got)
	}
	b.Write(0xFF50, 0x01)
	if got := b.Read(0x0000); got != 0xAA {
		t.Fatalf("expected cartridge ROM after boot disable, got %02x", got)
	}
}

func TestBus_UnmappedAccessIsLoggedAndReturnsFF(t *testing.T) {
	b := New(make([]byte, 0x8000))
	if got := b.Read(0xFF10); got != 0xFF {
		t.Fatalf("unmapped read got %02x want FF", got)
	}
	log := b.UnmappedAccesses()
	if len(log) != 1 || log[0].Addr != 0xFF10 {
		t.Fatalf("expected one logged unmapped access at FF10, got %+v", log)
	}
}
