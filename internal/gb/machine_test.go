package gb

import (
	"errors"
	"testing"

	"github.com/gbcore/dmgcore/internal/cart"
	"github.com/gbcore/dmgcore/internal/joypad"
)

// romOnlyROM builds a minimal, header-valid ROM-only cartridge image large
// enough to parse, with a tight JP self-loop program at its entry point.
func romOnlyROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM ONLY
	rom[0x0148] = 0x00 // 32KB/2 banks
	rom[0x0149] = 0x00 // no RAM
	// JP 0x0100 (infinite self-loop) at the entry point.
	rom[0x0100] = 0xC3
	rom[0x0101] = 0x00
	rom[0x0102] = 0x01
	return rom
}

func TestMachine_LoadCartridge_SkipBoot(t *testing.T) {
	m := New(Config{})
	if err := m.LoadCartridge(romOnlyROM(), nil); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	if m.CPU().PC != 0x0100 {
		t.Fatalf("PC after skip-boot reset got %#04x want 0x0100", m.CPU().PC)
	}
	if got := m.Bus().Read(0xFF40); got != 0x91 {
		t.Fatalf("LCDC got %#02x want 0x91", got)
	}
	if got := m.Bus().Read(0xFF41); got != 0x85 {
		t.Fatalf("STAT got %#02x want 0x85", got)
	}
	if got := m.Bus().Read(0xFF47); got != 0xFC {
		t.Fatalf("BGP got %#02x want 0xFC", got)
	}
	if got := m.Bus().Read(0xFF0F); got != 0xE1 {
		t.Fatalf("IF got %#02x want 0xE1", got)
	}
	if got := m.Bus().Read(0xFF00); got != 0xCF {
		t.Fatalf("JOYP got %#02x want 0xCF", got)
	}
}

func TestMachine_LoadCartridge_UnsupportedTypeIsFatal(t *testing.T) {
	rom := romOnlyROM()
	rom[0x0147] = 0x06 // MBC2, unsupported here
	m := New(Config{})
	err := m.LoadCartridge(rom, nil)
	if err == nil {
		t.Fatal("expected a fatal error for unsupported cart type")
	}
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FatalError, got %T: %v", err, err)
	}
	var utErr *cart.UnsupportedCartTypeError
	if !errors.As(fe.Err, &utErr) {
		t.Fatalf("expected wrapped *cart.UnsupportedCartTypeError, got %v", fe.Err)
	}
}

func TestMachine_StepFrame_AdvancesAndRenders(t *testing.T) {
	m := New(Config{})
	if err := m.LoadCartridge(romOnlyROM(), nil); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	m.StepFrame()

	fb := m.Framebuffer()
	if len(fb) != 160*144*3 {
		t.Fatalf("Framebuffer length got %d want %d", len(fb), 160*144*3)
	}
	fbRGBA := m.FramebufferRGBA()
	if len(fbRGBA) != 160*144*4 {
		t.Fatalf("FramebufferRGBA length got %d want %d", len(fbRGBA), 160*144*4)
	}
}

func TestMachine_PressRaisesJoypadInterrupt(t *testing.T) {
	m := New(Config{})
	if err := m.LoadCartridge(romOnlyROM(), nil); err != nil {
		t.Fatalf("LoadCartridge: %v", err)
	}
	m.Bus().Write(0xFFFF, 0x10) // enable Joypad interrupt only
	m.Press(joypad.A)
	if got := m.Bus().Read(0xFF0F) & 0x10; got == 0 {
		t.Fatal("expected Joypad IF bit set after Press")
	}
}
