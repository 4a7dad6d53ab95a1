package mos6502

// Addressing modes.
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	modeImplicit = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX
	modeIndirectY
)

type opcode struct {
	name   string
	mode   uint8
	bytes  uint8
	cycles uint8
	exec   func(c *CPU, mode uint8)
}

var opcodeTable [256]opcode

func def(b uint8, name string, mode, bytes, cycles uint8, fn func(c *CPU, mode uint8)) {
	opcodeTable[b] = opcode{name: name, mode: mode, bytes: bytes, cycles: cycles, exec: fn}
}

func init() {
	// Load/store.
	def(0xA9, "LDA", modeImmediate, 2, 2, (*CPU).lda)
	def(0xA5, "LDA", modeZeroPage, 2, 3, (*CPU).lda)
	def(0xB5, "LDA", modeZeroPageX, 2, 4, (*CPU).lda)
	def(0xAD, "LDA", modeAbsolute, 3, 4, (*CPU).lda)
	def(0xBD, "LDA", modeAbsoluteX, 3, 4, (*CPU).lda)
	def(0xB9, "LDA", modeAbsoluteY, 3, 4, (*CPU).lda)
	def(0xA1, "LDA", modeIndirectX, 2, 6, (*CPU).lda)
	def(0xB1, "LDA", modeIndirectY, 2, 5, (*CPU).lda)

	def(0xA2, "LDX", modeImmediate, 2, 2, (*CPU).ldx)
	def(0xA6, "LDX", modeZeroPage, 2, 3, (*CPU).ldx)
	def(0xB6, "LDX", modeZeroPageY, 2, 4, (*CPU).ldx)
	def(0xAE, "LDX", modeAbsolute, 3, 4, (*CPU).ldx)
	def(0xBE, "LDX", modeAbsoluteY, 3, 4, (*CPU).ldx)

	def(0xA0, "LDY", modeImmediate, 2, 2, (*CPU).ldy)
	def(0xA4, "LDY", modeZeroPage, 2, 3, (*CPU).ldy)
	def(0xB4, "LDY", modeZeroPageX, 2, 4, (*CPU).ldy)
	def(0xAC, "LDY", modeAbsolute, 3, 4, (*CPU).ldy)
	def(0xBC, "LDY", modeAbsoluteX, 3, 4, (*CPU).ldy)

	def(0x85, "STA", modeZeroPage, 2, 3, (*CPU).sta)
	def(0x95, "STA", modeZeroPageX, 2, 4, (*CPU).sta)
	def(0x8D, "STA", modeAbsolute, 3, 4, (*CPU).sta)
	def(0x9D, "STA", modeAbsoluteX, 3, 5, (*CPU).sta)
	def(0x99, "STA", modeAbsoluteY, 3, 5, (*CPU).sta)
	def(0x81, "STA", modeIndirectX, 2, 6, (*CPU).sta)
	def(0x91, "STA", modeIndirectY, 2, 6, (*CPU).sta)

	def(0x86, "STX", modeZeroPage, 2, 3, (*CPU).stx)
	def(0x96, "STX", modeZeroPageY, 2, 4, (*CPU).stx)
	def(0x8E, "STX", modeAbsolute, 3, 4, (*CPU).stx)

	def(0x84, "STY", modeZeroPage, 2, 3, (*CPU).sty)
	def(0x94, "STY", modeZeroPageX, 2, 4, (*CPU).sty)
	def(0x8C, "STY", modeAbsolute, 3, 4, (*CPU).sty)

	// Transfers.
	def(0xAA, "TAX", modeImplicit, 1, 2, (*CPU).tax)
	def(0xA8, "TAY", modeImplicit, 1, 2, (*CPU).tay)
	def(0xBA, "TSX", modeImplicit, 1, 2, (*CPU).tsx)
	def(0x8A, "TXA", modeImplicit, 1, 2, (*CPU).txa)
	def(0x9A, "TXS", modeImplicit, 1, 2, (*CPU).txs)
	def(0x98, "TYA", modeImplicit, 1, 2, (*CPU).tya)

	// Stack.
	def(0x48, "PHA", modeImplicit, 1, 3, (*CPU).pha)
	def(0x08, "PHP", modeImplicit, 1, 3, (*CPU).php)
	def(0x68, "PLA", modeImplicit, 1, 4, (*CPU).pla)
	def(0x28, "PLP", modeImplicit, 1, 4, (*CPU).plp)

	// Logic.
	def(0x29, "AND", modeImmediate, 2, 2, (*CPU).and)
	def(0x25, "AND", modeZeroPage, 2, 3, (*CPU).and)
	def(0x35, "AND", modeZeroPageX, 2, 4, (*CPU).and)
	def(0x2D, "AND", modeAbsolute, 3, 4, (*CPU).and)
	def(0x3D, "AND", modeAbsoluteX, 3, 4, (*CPU).and)
	def(0x39, "AND", modeAbsoluteY, 3, 4, (*CPU).and)
	def(0x21, "AND", modeIndirectX, 2, 6, (*CPU).and)
	def(0x31, "AND", modeIndirectY, 2, 5, (*CPU).and)

	def(0x49, "EOR", modeImmediate, 2, 2, (*CPU).eor)
	def(0x45, "EOR", modeZeroPage, 2, 3, (*CPU).eor)
	def(0x55, "EOR", modeZeroPageX, 2, 4, (*CPU).eor)
	def(0x4D, "EOR", modeAbsolute, 3, 4, (*CPU).eor)
	def(0x5D, "EOR", modeAbsoluteX, 3, 4, (*CPU).eor)
	def(0x59, "EOR", modeAbsoluteY, 3, 4, (*CPU).eor)
	def(0x41, "EOR", modeIndirectX, 2, 6, (*CPU).eor)
	def(0x51, "EOR", modeIndirectY, 2, 5, (*CPU).eor)

	def(0x09, "ORA", modeImmediate, 2, 2, (*CPU).ora)
	def(0x05, "ORA", modeZeroPage, 2, 3, (*CPU).ora)
	def(0x15, "ORA", modeZeroPageX, 2, 4, (*CPU).ora)
	def(0x0D, "ORA", modeAbsolute, 3, 4, (*CPU).ora)
	def(0x1D, "ORA", modeAbsoluteX, 3, 4, (*CPU).ora)
	def(0x19, "ORA", modeAbsoluteY, 3, 4, (*CPU).ora)
	def(0x01, "ORA", modeIndirectX, 2, 6, (*CPU).ora)
	def(0x11, "ORA", modeIndirectY, 2, 5, (*CPU).ora)

	def(0x24, "BIT", modeZeroPage, 2, 3, (*CPU).bit)
	def(0x2C, "BIT", modeAbsolute, 3, 4, (*CPU).bit)

	// Arithmetic.
	def(0x69, "ADC", modeImmediate, 2, 2, (*CPU).adc)
	def(0x65, "ADC", modeZeroPage, 2, 3, (*CPU).adc)
	def(0x75, "ADC", modeZeroPageX, 2, 4, (*CPU).adc)
	def(0x6D, "ADC", modeAbsolute, 3, 4, (*CPU).adc)
	def(0x7D, "ADC", modeAbsoluteX, 3, 4, (*CPU).adc)
	def(0x79, "ADC", modeAbsoluteY, 3, 4, (*CPU).adc)
	def(0x61, "ADC", modeIndirectX, 2, 6, (*CPU).adc)
	def(0x71, "ADC", modeIndirectY, 2, 5, (*CPU).adc)

	def(0xE9, "SBC", modeImmediate, 2, 2, (*CPU).sbc)
	def(0xE5, "SBC", modeZeroPage, 2, 3, (*CPU).sbc)
	def(0xF5, "SBC", modeZeroPageX, 2, 4, (*CPU).sbc)
	def(0xED, "SBC", modeAbsolute, 3, 4, (*CPU).sbc)
	def(0xFD, "SBC", modeAbsoluteX, 3, 4, (*CPU).sbc)
	def(0xF9, "SBC", modeAbsoluteY, 3, 4, (*CPU).sbc)
	def(0xE1, "SBC", modeIndirectX, 2, 6, (*CPU).sbc)
	def(0xF1, "SBC", modeIndirectY, 2, 5, (*CPU).sbc)

	def(0xC9, "CMP", modeImmediate, 2, 2, (*CPU).cmp)
	def(0xC5, "CMP", modeZeroPage, 2, 3, (*CPU).cmp)
	def(0xD5, "CMP", modeZeroPageX, 2, 4, (*CPU).cmp)
	def(0xCD, "CMP", modeAbsolute, 3, 4, (*CPU).cmp)
	def(0xDD, "CMP", modeAbsoluteX, 3, 4, (*CPU).cmp)
	def(0xD9, "CMP", modeAbsoluteY, 3, 4, (*CPU).cmp)
	def(0xC1, "CMP", modeIndirectX, 2, 6, (*CPU).cmp)
	def(0xD1, "CMP", modeIndirectY, 2, 5, (*CPU).cmp)

	def(0xE0, "CPX", modeImmediate, 2, 2, (*CPU).cpx)
	def(0xE4, "CPX", modeZeroPage, 2, 3, (*CPU).cpx)
	def(0xEC, "CPX", modeAbsolute, 3, 4, (*CPU).cpx)

	def(0xC0, "CPY", modeImmediate, 2, 2, (*CPU).cpy)
	def(0xC4, "CPY", modeZeroPage, 2, 3, (*CPU).cpy)
	def(0xCC, "CPY", modeAbsolute, 3, 4, (*CPU).cpy)

	// Inc/dec.
	def(0xE6, "INC", modeZeroPage, 2, 5, (*CPU).inc)
	def(0xF6, "INC", modeZeroPageX, 2, 6, (*CPU).inc)
	def(0xEE, "INC", modeAbsolute, 3, 6, (*CPU).inc)
	def(0xFE, "INC", modeAbsoluteX, 3, 7, (*CPU).inc)
	def(0xE8, "INX", modeImplicit, 1, 2, (*CPU).inx)
	def(0xC8, "INY", modeImplicit, 1, 2, (*CPU).iny)

	def(0xC6, "DEC", modeZeroPage, 2, 5, (*CPU).dec)
	def(0xD6, "DEC", modeZeroPageX, 2, 6, (*CPU).dec)
	def(0xCE, "DEC", modeAbsolute, 3, 6, (*CPU).dec)
	def(0xDE, "DEC", modeAbsoluteX, 3, 7, (*CPU).dec)
	def(0xCA, "DEX", modeImplicit, 1, 2, (*CPU).dex)
	def(0x88, "DEY", modeImplicit, 1, 2, (*CPU).dey)

	// Shifts.
	def(0x0A, "ASL", modeAccumulator, 1, 2, (*CPU).asl)
	def(0x06, "ASL", modeZeroPage, 2, 5, (*CPU).asl)
	def(0x16, "ASL", modeZeroPageX, 2, 6, (*CPU).asl)
	def(0x0E, "ASL", modeAbsolute, 3, 6, (*CPU).asl)
	def(0x1E, "ASL", modeAbsoluteX, 3, 7, (*CPU).asl)

	def(0x4A, "LSR", modeAccumulator, 1, 2, (*CPU).lsr)
	def(0x46, "LSR", modeZeroPage, 2, 5, (*CPU).lsr)
	def(0x56, "LSR", modeZeroPageX, 2, 6, (*CPU).lsr)
	def(0x4E, "LSR", modeAbsolute, 3, 6, (*CPU).lsr)
	def(0x5E, "LSR", modeAbsoluteX, 3, 7, (*CPU).lsr)

	def(0x2A, "ROL", modeAccumulator, 1, 2, (*CPU).rol)
	def(0x26, "ROL", modeZeroPage, 2, 5, (*CPU).rol)
	def(0x36, "ROL", modeZeroPageX, 2, 6, (*CPU).rol)
	def(0x2E, "ROL", modeAbsolute, 3, 6, (*CPU).rol)
	def(0x3E, "ROL", modeAbsoluteX, 3, 7, (*CPU).rol)

	def(0x6A, "ROR", modeAccumulator, 1, 2, (*CPU).ror)
	def(0x66, "ROR", modeZeroPage, 2, 5, (*CPU).ror)
	def(0x76, "ROR", modeZeroPageX, 2, 6, (*CPU).ror)
	def(0x6E, "ROR", modeAbsolute, 3, 6, (*CPU).ror)
	def(0x7E, "ROR", modeAbsoluteX, 3, 7, (*CPU).ror)

	// Jumps/calls.
	def(0x4C, "JMP", modeAbsolute, 3, 3, (*CPU).jmp)
	def(0x6C, "JMP", modeIndirect, 3, 5, (*CPU).jmp)
	def(0x20, "JSR", modeAbsolute, 3, 6, (*CPU).jsr)
	def(0x60, "RTS", modeImplicit, 1, 6, (*CPU).rts)
	def(0x40, "RTI", modeImplicit, 1, 6, (*CPU).rti)

	// Branches.
	def(0x90, "BCC", modeRelative, 2, 2, (*CPU).bcc)
	def(0xB0, "BCS", modeRelative, 2, 2, (*CPU).bcs)
	def(0xF0, "BEQ", modeRelative, 2, 2, (*CPU).beq)
	def(0x30, "BMI", modeRelative, 2, 2, (*CPU).bmi)
	def(0xD0, "BNE", modeRelative, 2, 2, (*CPU).bne)
	def(0x10, "BPL", modeRelative, 2, 2, (*CPU).bpl)
	def(0x50, "BVC", modeRelative, 2, 2, (*CPU).bvc)
	def(0x70, "BVS", modeRelative, 2, 2, (*CPU).bvs)

	// Status flags.
	def(0x18, "CLC", modeImplicit, 1, 2, (*CPU).clc)
	def(0xD8, "CLD", modeImplicit, 1, 2, (*CPU).cld)
	def(0x58, "CLI", modeImplicit, 1, 2, (*CPU).cli)
	def(0xB8, "CLV", modeImplicit, 1, 2, (*CPU).clv)
	def(0x38, "SEC", modeImplicit, 1, 2, (*CPU).sec)
	def(0xF8, "SED", modeImplicit, 1, 2, (*CPU).sed)
	def(0x78, "SEI", modeImplicit, 1, 2, (*CPU).sei)

	// System.
	def(0x00, "BRK", modeImplicit, 1, 7, (*CPU).brk)
	def(0xEA, "NOP", modeImplicit, 1, 2, (*CPU).nop)

	// Unofficial opcodes exercised by common test ROMs.
	// LAX: load A and X from the same operand.
	def(0xA7, "LAX", modeZeroPage, 2, 3, (*CPU).lax)
	def(0xB7, "LAX", modeZeroPageY, 2, 4, (*CPU).lax)
	def(0xAF, "LAX", modeAbsolute, 3, 4, (*CPU).lax)
	def(0xBF, "LAX", modeAbsoluteY, 3, 4, (*CPU).lax)
	def(0xA3, "LAX", modeIndirectX, 2, 6, (*CPU).lax)
	def(0xB3, "LAX", modeIndirectY, 2, 5, (*CPU).lax)

	// SAX: store A AND X.
	def(0x87, "SAX", modeZeroPage, 2, 3, (*CPU).sax)
	def(0x97, "SAX", modeZeroPageY, 2, 4, (*CPU).sax)
	def(0x8F, "SAX", modeAbsolute, 3, 4, (*CPU).sax)
	def(0x83, "SAX", modeIndirectX, 2, 6, (*CPU).sax)

	// DCP: DEC then CMP.
	def(0xC7, "DCP", modeZeroPage, 2, 5, (*CPU).dcp)
	def(0xD7, "DCP", modeZeroPageX, 2, 6, (*CPU).dcp)
	def(0xCF, "DCP", modeAbsolute, 3, 6, (*CPU).dcp)
	def(0xDF, "DCP", modeAbsoluteX, 3, 7, (*CPU).dcp)
	def(0xDB, "DCP", modeAbsoluteY, 3, 7, (*CPU).dcp)
	def(0xC3, "DCP", modeIndirectX, 2, 8, (*CPU).dcp)
	def(0xD3, "DCP", modeIndirectY, 2, 8, (*CPU).dcp)

	// ISC: INC then SBC.
	def(0xE7, "ISC", modeZeroPage, 2, 5, (*CPU).isc)
	def(0xF7, "ISC", modeZeroPageX, 2, 6, (*CPU).isc)
	def(0xEF, "ISC", modeAbsolute, 3, 6, (*CPU).isc)
	def(0xFF, "ISC", modeAbsoluteX, 3, 7, (*CPU).isc)
	def(0xFB, "ISC", modeAbsoluteY, 3, 7, (*CPU).isc)
	def(0xE3, "ISC", modeIndirectX, 2, 8, (*CPU).isc)
	def(0xF3, "ISC", modeIndirectY, 2, 8, (*CPU).isc)

	// SLO: ASL then ORA.
	def(0x07, "SLO", modeZeroPage, 2, 5, (*CPU).slo)
	def(0x17, "SLO", modeZeroPageX, 2, 6, (*CPU).slo)
	def(0x0F, "SLO", modeAbsolute, 3, 6, (*CPU).slo)
	def(0x1F, "SLO", modeAbsoluteX, 3, 7, (*CPU).slo)
	def(0x1B, "SLO", modeAbsoluteY, 3, 7, (*CPU).slo)
	def(0x03, "SLO", modeIndirectX, 2, 8, (*CPU).slo)
	def(0x13, "SLO", modeIndirectY, 2, 8, (*CPU).slo)

	// RLA: ROL then AND.
	def(0x27, "RLA", modeZeroPage, 2, 5, (*CPU).rla)
	def(0x37, "RLA", modeZeroPageX, 2, 6, (*CPU).rla)
	def(0x2F, "RLA", modeAbsolute, 3, 6, (*CPU).rla)
	def(0x3F, "RLA", modeAbsoluteX, 3, 7, (*CPU).rla)
	def(0x3B, "RLA", modeAbsoluteY, 3, 7, (*CPU).rla)
	def(0x23, "RLA", modeIndirectX, 2, 8, (*CPU).rla)
	def(0x33, "RLA", modeIndirectY, 2, 8, (*CPU).rla)

	// SRE: LSR then EOR.
	def(0x47, "SRE", modeZeroPage, 2, 5, (*CPU).sre)
	def(0x57, "SRE", modeZeroPageX, 2, 6, (*CPU).sre)
	def(0x4F, "SRE", modeAbsolute, 3, 6, (*CPU).sre)
	def(0x5F, "SRE", modeAbsoluteX, 3, 7, (*CPU).sre)
	def(0x5B, "SRE", modeAbsoluteY, 3, 7, (*CPU).sre)
	def(0x43, "SRE", modeIndirectX, 2, 8, (*CPU).sre)
	def(0x53, "SRE", modeIndirectY, 2, 8, (*CPU).sre)

	// RRA: ROR then ADC.
	def(0x67, "RRA", modeZeroPage, 2, 5, (*CPU).rra)
	def(0x77, "RRA", modeZeroPageX, 2, 6, (*CPU).rra)
	def(0x6F, "RRA", modeAbsolute, 3, 6, (*CPU).rra)
	def(0x7F, "RRA", modeAbsoluteX, 3, 7, (*CPU).rra)
	def(0x7B, "RRA", modeAbsoluteY, 3, 7, (*CPU).rra)
	def(0x63, "RRA", modeIndirectX, 2, 8, (*CPU).rra)
	def(0x73, "RRA", modeIndirectY, 2, 8, (*CPU).rra)
}

// operandAddr resolves the effective address for mode, advancing PC
// past any operand bytes it consumes and reporting whether the
// addressing calculation crossed a page boundary (relevant to a
// handful of read instructions' extra cycle).
func (c *CPU) operandAddr(mode uint8) (addr uint16, crossed bool) {
	switch mode {
	case modeImmediate:
		addr = c.PC
		c.PC++
	case modeZeroPage:
		addr = uint16(c.read(c.PC))
		c.PC++
	case modeZeroPageX:
		addr = uint16(c.read(c.PC) + c.X)
		c.PC++
	case modeZeroPageY:
		addr = uint16(c.read(c.PC) + c.Y)
		c.PC++
	case modeAbsolute:
		addr = c.read16(c.PC)
		c.PC += 2
	case modeAbsoluteX:
		base := c.read16(c.PC)
		addr = base + uint16(c.X)
		crossed = pageCrossed(base, addr)
		c.PC += 2
	case modeAbsoluteY:
		base := c.read16(c.PC)
		addr = base + uint16(c.Y)
		crossed = pageCrossed(base, addr)
		c.PC += 2
	case modeIndirect:
		ptr := c.read16(c.PC)
		addr = c.read16bug(ptr)
		c.PC += 2
	case modeIndirectX:
		zp := c.read(c.PC) + c.X
		addr = uint16(c.read(uint16(zp))) | uint16(c.read(uint16(zp+1)))<<8
		c.PC++
	case modeIndirectY:
		zp := c.read(c.PC)
		base := uint16(c.read(uint16(zp))) | uint16(c.read(uint16(zp+1)))<<8
		addr = base + uint16(c.Y)
		crossed = pageCrossed(base, addr)
		c.PC++
	case modeRelative:
		off := int8(c.read(c.PC))
		c.PC++
		addr = uint16(int32(c.PC) + int32(off))
	}
	return addr, crossed
}

func (c *CPU) addExtraCycle() { c.extra++ }

// --- Load/store ---

func (c *CPU) lda(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.A = c.read(addr)
	c.setZN(c.A)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) ldx(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.X = c.read(addr)
	c.setZN(c.X)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) ldy(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.Y = c.read(addr)
	c.setZN(c.Y)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) sta(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.write(addr, c.A)
}

func (c *CPU) stx(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.write(addr, c.X)
}

func (c *CPU) sty(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.write(addr, c.Y)
}

// --- Transfers ---

func (c *CPU) tax(uint8) { c.X = c.A; c.setZN(c.X) }
func (c *CPU) tay(uint8) { c.Y = c.A; c.setZN(c.Y) }
func (c *CPU) tsx(uint8) { c.X = c.SP; c.setZN(c.X) }
func (c *CPU) txa(uint8) { c.A = c.X; c.setZN(c.A) }
func (c *CPU) txs(uint8) { c.SP = c.X }
func (c *CPU) tya(uint8) { c.A = c.Y; c.setZN(c.A) }

// --- Stack ---

func (c *CPU) pha(uint8) { c.pushByte(c.A) }
func (c *CPU) php(uint8) { c.pushByte(c.P | FlagUnused | FlagBreak) }
func (c *CPU) pla(uint8) { c.A = c.popByte(); c.setZN(c.A) }
func (c *CPU) plp(uint8) {
	c.P = (c.popByte() &^ FlagBreak) | FlagUnused
}

// --- Logic ---

func (c *CPU) and(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.A &= c.read(addr)
	c.setZN(c.A)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) eor(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.A ^= c.read(addr)
	c.setZN(c.A)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) ora(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.A |= c.read(addr)
	c.setZN(c.A)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) bit(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagZero, c.A&v == 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// --- Arithmetic ---

func (c *CPU) addWithCarry(v uint8) {
	sum := uint16(c.A) + uint16(v)
	if c.flag(FlagCarry) {
		sum++
	}
	result := uint8(sum)
	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (c.A^v)&0x80 == 0 && (c.A^result)&0x80 != 0)
	c.A = result
	c.setZN(c.A)
}

func (c *CPU) adc(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.addWithCarry(c.read(addr))
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) sbc(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.addWithCarry(^c.read(addr))
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) compare(reg, v uint8) {
	diff := reg - v
	c.setFlag(FlagCarry, reg >= v)
	c.setZN(diff)
}

func (c *CPU) cmp(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.compare(c.A, c.read(addr))
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) cpx(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.compare(c.X, c.read(addr))
}

func (c *CPU) cpy(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.compare(c.Y, c.read(addr))
}

// --- Inc/dec ---

func (c *CPU) inc(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) inx(uint8) { c.X++; c.setZN(c.X) }
func (c *CPU) iny(uint8) { c.Y++; c.setZN(c.Y) }

func (c *CPU) dec(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) dex(uint8) { c.X--; c.setZN(c.X) }
func (c *CPU) dey(uint8) { c.Y--; c.setZN(c.Y) }

// --- Shifts ---

func (c *CPU) asl(mode uint8) {
	if mode == modeAccumulator {
		c.setFlag(FlagCarry, c.A&0x80 != 0)
		c.A <<= 1
		c.setZN(c.A)
		return
	}
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) lsr(mode uint8) {
	if mode == modeAccumulator {
		c.setFlag(FlagCarry, c.A&0x01 != 0)
		c.A >>= 1
		c.setZN(c.A)
		return
	}
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) rol(mode uint8) {
	var oldCarry uint8
	if c.flag(FlagCarry) {
		oldCarry = 1
	}
	if mode == modeAccumulator {
		c.setFlag(FlagCarry, c.A&0x80 != 0)
		c.A = c.A<<1 | oldCarry
		c.setZN(c.A)
		return
	}
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = v<<1 | oldCarry
	c.write(addr, v)
	c.setZN(v)
}

func (c *CPU) ror(mode uint8) {
	var oldCarry uint8
	if c.flag(FlagCarry) {
		oldCarry = 0x80
	}
	if mode == modeAccumulator {
		c.setFlag(FlagCarry, c.A&0x01 != 0)
		c.A = c.A>>1 | oldCarry
		c.setZN(c.A)
		return
	}
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = v>>1 | oldCarry
	c.write(addr, v)
	c.setZN(v)
}

// --- Jumps/calls ---

func (c *CPU) jmp(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.PC = addr
}

func (c *CPU) jsr(uint8) {
	addr := c.read16(c.PC)
	c.pushAddr(c.PC + 1)
	c.PC = addr
}

func (c *CPU) rts(uint8) {
	c.PC = c.popAddr() + 1
}

func (c *CPU) rti(uint8) {
	c.P = (c.popByte() &^ FlagBreak) | FlagUnused
	c.PC = c.popAddr()
}

// --- Branches ---

func (c *CPU) branch(mode uint8, cond bool) {
	addr, _ := c.operandAddr(mode)
	if !cond {
		return
	}
	oldPC := c.PC
	c.PC = addr
	c.addExtraCycle()
	if pageCrossed(oldPC, addr) {
		c.addExtraCycle()
	}
}

func (c *CPU) bcc(mode uint8) { c.branch(mode, !c.flag(FlagCarry)) }
func (c *CPU) bcs(mode uint8) { c.branch(mode, c.flag(FlagCarry)) }
func (c *CPU) beq(mode uint8) { c.branch(mode, c.flag(FlagZero)) }
func (c *CPU) bmi(mode uint8) { c.branch(mode, c.flag(FlagNegative)) }
func (c *CPU) bne(mode uint8) { c.branch(mode, !c.flag(FlagZero)) }
func (c *CPU) bpl(mode uint8) { c.branch(mode, !c.flag(FlagNegative)) }
func (c *CPU) bvc(mode uint8) { c.branch(mode, !c.flag(FlagOverflow)) }
func (c *CPU) bvs(mode uint8) { c.branch(mode, c.flag(FlagOverflow)) }

// --- Status flags ---

func (c *CPU) clc(uint8) { c.setFlag(FlagCarry, false) }
func (c *CPU) cld(uint8) { c.setFlag(FlagDecimal, false) }
func (c *CPU) cli(uint8) { c.setFlag(FlagInterruptDisable, false) }
func (c *CPU) clv(uint8) { c.setFlag(FlagOverflow, false) }
func (c *CPU) sec(uint8) { c.setFlag(FlagCarry, true) }
func (c *CPU) sed(uint8) { c.setFlag(FlagDecimal, true) }
func (c *CPU) sei(uint8) { c.setFlag(FlagInterruptDisable, true) }

// --- System ---

func (c *CPU) brk(uint8) {
	c.PC++
	c.pushAddr(c.PC)
	c.pushByte(c.P | FlagUnused | FlagBreak)
	c.setFlag(FlagInterruptDisable, true)
	c.PC = c.read16(vectorIRQ)
}

func (c *CPU) nop(uint8) {}

// --- Unofficial opcodes ---

func (c *CPU) lax(mode uint8) {
	addr, crossed := c.operandAddr(mode)
	c.A = c.read(addr)
	c.X = c.A
	c.setZN(c.A)
	if crossed {
		c.addExtraCycle()
	}
}

func (c *CPU) sax(mode uint8) {
	addr, _ := c.operandAddr(mode)
	c.write(addr, c.A&c.X)
}

func (c *CPU) dcp(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr) - 1
	c.write(addr, v)
	c.compare(c.A, v)
}

func (c *CPU) isc(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr) + 1
	c.write(addr, v)
	c.addWithCarry(^v)
}

func (c *CPU) slo(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v <<= 1
	c.write(addr, v)
	c.A |= v
	c.setZN(c.A)
}

func (c *CPU) rla(mode uint8) {
	addr, _ := c.operandAddr(mode)
	var oldCarry uint8
	if c.flag(FlagCarry) {
		oldCarry = 1
	}
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x80 != 0)
	v = v<<1 | oldCarry
	c.write(addr, v)
	c.A &= v
	c.setZN(c.A)
}

func (c *CPU) sre(mode uint8) {
	addr, _ := c.operandAddr(mode)
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v >>= 1
	c.write(addr, v)
	c.A ^= v
	c.setZN(c.A)
}

func (c *CPU) rra(mode uint8) {
	addr, _ := c.operandAddr(mode)
	var oldCarry uint8
	if c.flag(FlagCarry) {
		oldCarry = 0x80
	}
	v := c.read(addr)
	c.setFlag(FlagCarry, v&0x01 != 0)
	v = v>>1 | oldCarry
	c.write(addr, v)
	c.addWithCarry(v)
}
