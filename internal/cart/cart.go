package cart

import "fmt"

// Cartridge is the minimal interface the Bus needs for ROM/RAM banking.
// Addresses are CPU addresses; Read/Write cover both the ROM window
// (0x0000-0x7FFF, where writes are bank-control register writes) and the
// external RAM window (0xA000-0xBFFF).
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// UnsupportedCartTypeError is fatal per spec.md §7: the header names a
// cartridge type no MBC here implements.
type UnsupportedCartTypeError struct {
	CartType byte
}

func (e *UnsupportedCartTypeError) Error() string {
	return fmt.Sprintf("unsupported cartridge type 0x%02X", e.CartType)
}

// New parses the ROM header and constructs the matching Cartridge
// implementation. Unsupported types are a fatal error, per spec.md §6 —
// only ROM-only, MBC1, and MBC3 variants are implemented here.
func New(rom []byte) (Cartridge, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, fmt.Errorf("parse cartridge header: %w", err)
	}
	switch h.CartType {
	case 0x00:
		return NewROMOnly(rom), h, nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(rom, h.RAMSizeBytes), h, nil
	case 0x0F, 0x10, 0x11, 0x12, 0x13:
		return NewMBC3(rom, h.RAMSizeBytes), h, nil
	default:
		return nil, h, &UnsupportedCartTypeError{CartType: h.CartType}
	}
}
