// Package interrupt implements the DMG's 5-bit IF/IE interrupt register
// file and its fixed priority order.
package interrupt

// Bit positions shared by IF and IE.
const (
	VBlank = 0
	LCD    = 1
	Timer  = 2
	Serial = 3
	Joypad = 4

	// Mask covers the five implemented interrupt sources.
	Mask byte = 0x1F
)

// Vectors holds the fixed service address for each bit, in priority order.
var Vectors = [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}

// Controller owns the IF (requested) and IE (enabled) registers. It has no
// notion of IME; that flag lives on the CPU per spec.md §3.
type Controller struct {
	IF byte
	IE byte
}

// Request sets the IF bit for the given source (0..4).
func (c *Controller) Request(bit int) {
	c.IF |= 1 << uint(bit)
}

// ReadIF returns the bus-observable IF value: upper three bits read as 1.
func (c *Controller) ReadIF() byte { return 0xE0 | (c.IF & Mask) }

// WriteIF stores only the low five bits.
func (c *Controller) WriteIF(v byte) { c.IF = v & Mask }

// ReadIE returns the stored IE byte. WriteIE keeps only the low five bits,
// so the upper three bits read back as 0.
func (c *Controller) ReadIE() byte { return c.IE }

// WriteIE stores only the low five bits.
func (c *Controller) WriteIE(v byte) { c.IE = v & Mask }

// Pending returns the bits that are both requested and enabled.
func (c *Controller) Pending() byte {
	return c.IF & c.IE & Mask
}

// HighestPending returns the lowest-numbered (highest priority) pending
// interrupt bit, in VBlank..Joypad order.
func (c *Controller) HighestPending() (bit int, ok bool) {
	p := c.Pending()
	if p == 0 {
		return 0, false
	}
	for b := 0; b < 5; b++ {
		if p&(1<<uint(b)) != 0 {
			return b, true
		}
	}
	return 0, false
}

// Ack clears the IF bit for a serviced interrupt.
func (c *Controller) Ack(bit int) {
	c.IF &^= 1 << uint(bit)
}
