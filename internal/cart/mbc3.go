package cart

// MBC3 implements ROM/RAM banking. The real chip also carries a
// battery-backed real-time clock selectable via ram_bank_or_rtc_select
// values 0x08-0x0C; per spec.md Non-goals the RTC itself is stubbed: those
// select values fall back to RAM bank 0 rather than exposing a fake clock.
//
// - 0000-1FFF: RAM/RTC enable (0x0A in low nibble)
// - 2000-3FFF: ROM bank, 7 bits (0 maps to 1)
// - 4000-5FFF: 0x00-0x03 selects RAM bank; 0x08-0x0C selects an RTC
//   register (stubbed to RAM bank 0)
// - 6000-7FFF: RTC latch (stubbed, ignored)
// - A000-BFFF: external RAM, when enabled
type MBC3 struct {
	rom      []byte
	ram      []byte
	romBanks int
	ramBanks int

	ramEnabled bool
	romBank    byte // 7 bits (1..127)
	ramBank    byte // 0..3
}

func NewMBC3(rom []byte, ramSize int) *MBC3 {
	m := &MBC3{rom: rom, romBanks: len(rom) / 0x4000}
	if m.romBanks == 0 {
		m.romBanks = 1
	}
	if ramSize > 0 {
		m.ram = make([]byte, ramSize)
		m.ramBanks = ramSize / 0x2000
	}
	m.romBank = 1
	return m
}

func (m *MBC3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		if int(addr) < len(m.rom) {
			return m.rom[addr]
		}
		return 0xFF
	case addr < 0x8000:
		bank := int(m.romBank&0x7F) % m.romBanks
		off := bank*0x4000 + int(addr-0x4000)
		if off >= 0 && off < len(m.rom) {
			return m.rom[off]
		}
		return 0xFF
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBanks == 0 {
			return 0xFF
		}
		off := int(m.ramBank%byte(m.ramBanks))*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			return m.ram[off]
		}
		return 0xFF
	default:
		return 0xFF
	}
}

func (m *MBC3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = (value & 0x0F) == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x03 {
			m.ramBank = value
		} else {
			m.ramBank = 0 // RTC register select (0x08-0x0C), stubbed
		}
	case addr < 0x8000:
		// RTC latch: stubbed, no clock to latch.
	case addr >= 0xA000 && addr <= 0xBFFF:
		if !m.ramEnabled || len(m.ram) == 0 || m.ramBanks == 0 {
			return
		}
		off := int(m.ramBank%byte(m.ramBanks))*0x2000 + int(addr-0xA000)
		if off >= 0 && off < len(m.ram) {
			m.ram[off] = value
		}
	}
}
