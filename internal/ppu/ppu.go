// Package ppu implements the DMG picture processing unit: VRAM/OAM
// storage, the LCDC/STAT/scroll/palette register file, the OAM-scan /
// pixel-transfer / HBlank / VBlank mode timing state machine, and
// background/window/sprite compositing into an RGB framebuffer.
package ppu

// InterruptRequester raises an IF bit (0:VBlank, 1:STAT, ...).
type InterruptRequester func(bit int)

// LineRegs captures register state latched at the start of pixel transfer
// for one scanline, for callers that need it after the fact (tests, a
// line-based renderer that runs after Tick rather than during it).
type LineRegs struct {
	WinLine byte
}

// PPU models VRAM/OAM, LCDC/STAT regs, LY/LYC, timing, and rendering.
// It exposes CPU-facing Read/Write for VRAM/OAM and PPU IO regs.
type PPU struct {
	vram [0x2000]byte // 0x8000-0x9FFF
	oam  [0xA0]byte   // 0xFE00-0xFE9F

	lcdc byte // FF40
	stat byte // FF41 (mode bits 0-1, coincidence flag bit2, enables bits3-6)
	scy  byte // FF42
	scx  byte // FF43
	ly   byte // FF44
	lyc  byte // FF45
	bgp  byte // FF47
	obp0 byte // FF48
	obp1 byte // FF49
	wy   byte // FF4A
	wx   byte // FF4B

	dot int // dots within current line [0..455]

	winLineCounter byte
	lineRegs       [144]LineRegs
	fb             [144][160]RGB

	req InterruptRequester
}

func New(req InterruptRequester) *PPU { return &PPU{req: req} }

// InitSkipBootRegisters assigns LCDC/STAT/BGP directly, bypassing the
// toggle-detection and bit-masking that CPUWrite applies. It exists solely
// for skip-boot initialization (spec.md §6), where STAT's mode bits must
// land on the documented post-boot value (0x85, mid-VBlank) rather than
// whatever a normal LCDC-enable write would produce.
func (p *PPU) InitSkipBootRegisters(lcdc, stat, bgp byte) {
	p.lcdc = lcdc
	p.stat = stat
	p.bgp = bgp
}

// Read implements VRAMReader for the fetcher/sprite-compositing helpers,
// reading VRAM directly without the CPU-facing mode restrictions.
func (p *PPU) Read(addr uint16) byte {
	if addr >= 0x8000 && addr < 0xA000 {
		return p.vram[addr-0x8000]
	}
	return 0xFF
}

// CPURead returns bytes for VRAM, OAM, and PPU IO registers. Returns 0xFF for others.
func (p *PPU) CPURead(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if (p.stat & 0x03) == 3 {
			return 0xFF
		}
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.stat & 0x03
		if m == 2 || m == 3 {
			return 0xFF
		}
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F)
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// CPUWrite handles writes to VRAM, OAM, and PPU IO regs. Others are ignored here.
func (p *PPU) CPUWrite(addr uint16, value byte) {
	switch {
	case addr >= 0x8000 && addr <= 0x9FFF:
		if (p.stat & 0x03) == 3 {
			return
		}
		p.vram[addr-0x8000] = value
	case addr >= 0xFE00 && addr <= 0xFE9F:
		m := p.stat & 0x03
		if m == 2 || m == 3 {
			return
		}
		p.oam[addr-0xFE00] = value
	case addr == 0xFF40:
		prev := p.lcdc
		p.lcdc = value
		if (p.lcdc&0x80) == 0 && (prev&0x80) != 0 {
			p.ly = 0
			p.dot = 0
			p.winLineCounter = 0
			p.setMode(0)
			p.updateLYC()
		} else if (p.lcdc&0x80) != 0 && (prev&0x80) == 0 {
			p.ly = 0
			p.dot = 0
			p.winLineCounter = 0
			p.setMode(2)
			p.updateLYC()
		}
	case addr == 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case addr == 0xFF42:
		p.scy = value
	case addr == 0xFF43:
		p.scx = value
	case addr == 0xFF44:
		p.ly = 0
		p.dot = 0
		p.updateLYC()
		if (p.lcdc & 0x80) != 0 {
			p.setMode(2)
		}
	case addr == 0xFF45:
		p.lyc = value
		p.updateLYC()
	case addr == 0xFF47:
		p.bgp = value
	case addr == 0xFF48:
		p.obp0 = value
	case addr == 0xFF49:
		p.obp1 = value
	case addr == 0xFF4A:
		p.wy = value
	case addr == 0xFF4B:
		p.wx = value
	}
}

// WriteOAMByte is used by the bus's instantaneous OAM DMA to land bytes
// directly, bypassing the mode-2/3 access lockout that CPUWrite enforces
// (DMA itself is the only writer active during those modes).
func (p *PPU) WriteOAMByte(index byte, value byte) {
	p.oam[index] = value
}

// Tick advances PPU state by the given number of dots (CPU cycles).
func (p *PPU) Tick(cycles int) {
	if cycles <= 0 {
		return
	}
	for i := 0; i < cycles; i++ {
		if (p.lcdc & 0x80) == 0 {
			continue
		}
		prevMode := p.stat & 0x03
		p.dot++

		var mode byte
		if p.ly >= 144 {
			mode = 1
		} else {
			switch {
			case p.dot < 80:
				mode = 2
			case p.dot < 80+172:
				mode = 3
			default:
				mode = 0
			}
		}
		p.setMode(mode)
		if mode == 3 && prevMode != 3 {
			p.renderLine()
		}

		if p.dot >= 456 {
			p.dot = 0
			p.ly++
			if p.ly == 144 {
				if p.req != nil {
					p.req(0) // VBlank IF
				}
				if (p.stat&(1<<4)) != 0 && p.req != nil {
					p.req(1) // STAT VBlank
				}
			} else if p.ly > 153 {
				p.ly = 0
				p.winLineCounter = 0
			}
			p.updateLYC()
			if p.ly >= 144 {
				p.setMode(1)
			} else {
				p.setMode(2)
			}
		}
	}
}

func (p *PPU) setMode(mode byte) {
	prev := p.stat & 0x03
	if prev == mode {
		return
	}
	p.stat = (p.stat &^ 0x03) | (mode & 0x03)
	switch mode {
	case 0:
		if (p.stat&(1<<3)) != 0 && p.req != nil {
			p.req(1)
		}
	case 2:
		if (p.stat&(1<<5)) != 0 && p.req != nil {
			p.req(1)
		}
	}
}

func (p *PPU) updateLYC() {
	if p.ly == p.lyc {
		p.stat |= 1 << 2
		if (p.stat&(1<<6)) != 0 && p.req != nil {
			p.req(1)
		}
	} else {
		p.stat &^= 1 << 2
	}
}

// windowVisible reports whether the window layer contributes to the
// current scanline, per spec.md §4.6: LY >= WY and WX < 167.
func (p *PPU) windowVisible() bool {
	return p.lcdc&0x20 != 0 && p.ly >= p.wy && p.wx < 167
}

// renderLine composes BG, window, and sprite layers for the current LY
// into the framebuffer, and latches LineRegs for the row. Called once per
// scanline, at the mode 2 -> 3 transition (the real moment pixel fetching
// begins).
func (p *PPU) renderLine() {
	ly := p.ly
	if ly >= 144 {
		return
	}

	var bgci [160]byte
	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x9800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x9C00
		}
		tileData8000 := p.lcdc&0x10 != 0
		bgci = RenderBGScanlineUsingFetcher(p, mapBase, tileData8000, p.scx, p.scy, ly)
	}

	var winLine byte
	if p.windowVisible() {
		winLine = p.winLineCounter
		mapBase := uint16(0x9800)
		if p.lcdc&0x40 != 0 {
			mapBase = 0x9C00
		}
		tileData8000 := p.lcdc&0x10 != 0
		wxStart := int(p.wx) - 7
		winOut := RenderWindowScanlineUsingFetcher(p, mapBase, tileData8000, wxStart, winLine)
		start := wxStart
		if start < 0 {
			start = 0
		}
		for x := start; x < 160; x++ {
			bgci[x] = winOut[x]
		}
		p.winLineCounter++
	}
	p.lineRegs[ly] = LineRegs{WinLine: winLine}

	var spriteCI, spritePal [160]byte
	if p.lcdc&0x02 != 0 {
		sprites := scanOAMForLine(&p.oam, ly, p.lcdc&0x04 != 0)
		spriteCI, spritePal = composeSpriteLine(p, sprites, ly, bgci, p.lcdc&0x04 != 0)
	}

	for x := 0; x < 160; x++ {
		if spriteCI[x] != 0 {
			reg := p.obp0
			if spritePal[x] == 1 {
				reg = p.obp1
			}
			p.fb[ly][x] = Shades[applyPalette(reg, spriteCI[x])]
			continue
		}
		p.fb[ly][x] = Shades[applyPalette(p.bgp, bgci[x])]
	}
}

// LineRegs returns the registers latched for scanline ly during its pixel
// transfer. Only valid once that line has entered mode 3.
func (p *PPU) LineRegs(ly byte) LineRegs {
	if int(ly) >= len(p.lineRegs) {
		return LineRegs{}
	}
	return p.lineRegs[ly]
}

// Framebuffer returns the last fully-rendered 160x144 RGB frame. Callers
// must not retain it across a frame boundary without copying.
func (p *PPU) Framebuffer() *[144][160]RGB { return &p.fb }

func (p *PPU) BGP() byte  { return p.bgp }
func (p *PPU) OBP0() byte { return p.obp0 }
func (p *PPU) OBP1() byte { return p.obp1 }
func (p *PPU) LCDC() byte { return p.lcdc }
func (p *PPU) SCY() byte  { return p.scy }
func (p *PPU) SCX() byte  { return p.scx }
func (p *PPU) WY() byte   { return p.wy }
func (p *PPU) WX() byte   { return p.wx }
