package gb

import "strings"

// BlarggStatus polls the memory-mapped completion protocol Blargg's test
// ROMs use in the absence of a serial link (serial transfer is out of
// scope): a magic signature at 0xA001-0xA003, a status byte at 0xA000
// (0x80 while running, 0x00 on pass, nonzero on fail), and a
// NUL-terminated ASCII report starting at 0xA004.
func (m *Machine) BlarggStatus() (done, passed bool, report string) {
	b := m.Bus()
	if b.Read(0xA001) != 0xDE || b.Read(0xA002) != 0xB0 || b.Read(0xA003) != 0x61 {
		return false, false, ""
	}
	status := b.Read(0xA000)
	if status == 0x80 {
		return false, false, ""
	}
	var sb strings.Builder
	for addr := uint16(0xA004); addr < 0xA800; addr++ {
		ch := b.Read(addr)
		if ch == 0 {
			break
		}
		sb.WriteByte(ch)
	}
	return true, status == 0x00, sb.String()
}
