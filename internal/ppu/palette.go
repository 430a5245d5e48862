package ppu

// RGB is one fixed DMG shade.
type RGB struct{ R, G, B byte }

// Shades is the fixed four-entry DMG color ramp (lightest to darkest), a
// green-tinted set in the absence of any "correct" DMG color.
var Shades = [4]RGB{
	{154, 158, 63},
	{73, 107, 34},
	{14, 69, 11},
	{27, 42, 9},
}

// applyPalette maps a 2-bit color index through a BGP/OBPn register's
// four 2-bit palette slots to a shade index.
func applyPalette(reg byte, ci byte) byte {
	return (reg >> (ci * 2)) & 0x03
}
