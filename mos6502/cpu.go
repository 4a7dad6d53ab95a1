// Package mos6502 implements the NES's 6502-derived CPU: a full
// instruction-set interpreter with cycle accounting and NMI entry.
// https://en.wikipedia.org/wiki/MOS_Technology_6502
package mos6502

import (
	"fmt"
	"strings"

	"github.com/golang/glog"
)

// 6502 interrupt vectors.
// https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	vectorNMI   = 0xFFFA
	vectorReset = 0xFFFC
	vectorIRQ   = 0xFFFE
)

// Processor status flags.
// https://www.nesdev.org/obelisk-6502-guide/registers.html
const (
	FlagCarry            = 1 << 0 // C
	FlagZero             = 1 << 1 // Z
	FlagInterruptDisable = 1 << 2 // I
	FlagDecimal          = 1 << 3 // D - never affects arithmetic on the NES's 6502 variant
	FlagBreak            = 1 << 4 // B
	FlagUnused           = 1 << 5 // always 1
	FlagOverflow         = 1 << 6 // V
	FlagNegative         = 1 << 7 // N
)

const stackPage = 0x0100

// Bus is the 16-bit address space the CPU reads and writes
// instructions and operands through. The concrete implementation
// (owned by the console package) dispatches to RAM, PPU registers,
// the controller port and the cartridge mapper.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
}

// CPU holds the full architectural state of the 6502: registers,
// flags, and a cycle-accurate pending-work counter driven one CPU
// clock at a time by Run.
type CPU struct {
	bus Bus

	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	// pending is the number of CPU clocks still owed for the
	// instruction (or stall) currently in flight; step decrements
	// it and only fetches a new instruction once it reaches 0.
	// Widened past uint8 so a single OAM DMA's 513-cycle stall (added
	// mid-instruction, via extra) never overflows.
	pending uint16
	Cycles  uint64

	// extra accumulates page-cross/branch-taken penalties and OAM DMA
	// stalls reported by the instruction currently executing; step()
	// folds it into pending once the instruction returns, so anything
	// added here (even mid-exec, by AddStallCycles) survives step()'s
	// own overwrite of pending.
	extra uint16

	nmiPending bool

	loggedUnknown map[uint8]bool
}

// New creates a CPU wired to bus. Call Reset before running it.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, loggedUnknown: make(map[uint8]bool)}
}

// Reset loads PC from the reset vector, sets SP to 0xFD and flags to
// 0x24 (I set, U set), matching 6502 power-on/reset behavior.
func (c *CPU) Reset() {
	c.SP = 0xFD
	c.P = FlagUnused | FlagInterruptDisable
	c.PC = c.read16(vectorReset)
	c.pending = 0
}

// TriggerNMI marks an NMI as pending. It is serviced at the next
// instruction boundary, never mid-instruction.
func (c *CPU) TriggerNMI() {
	c.nmiPending = true
}

// AddStallCycles accounts for CPU cycles consumed by something other
// than instruction execution - currently only OAM DMA (513 cycles per
// $4014 write). It is called from within the triggering instruction's
// exec (via the bus Write that reaches $4014), so it folds into extra
// rather than pending directly: step() overwrites pending with
// op.cycles-1+extra right after exec returns, which would otherwise
// discard a stall applied any other way.
func (c *CPU) AddStallCycles(n int) {
	c.extra += uint16(n)
}

// Tick advances the CPU by exactly one clock cycle. Exported for
// callers (the console's orchestrator) that need to interleave CPU
// and PPU clocks dot-for-dot rather than run the CPU in cycle-budget
// batches.
func (c *CPU) Tick() { c.step() }

// Run ticks the CPU one clock at a time until at least budget cycles
// have elapsed *and* the in-flight instruction has finished - it never
// returns mid-instruction. It returns the number of cycles actually
// consumed.
func (c *CPU) Run(budget uint64) uint64 {
	var consumed uint64
	for consumed < budget || c.pending > 0 {
		c.step()
		consumed++
	}
	return consumed
}

// step advances the CPU by exactly one clock cycle.
func (c *CPU) step() {
	c.Cycles++

	if c.pending > 0 {
		c.pending--
		return
	}

	if c.nmiPending {
		c.nmiPending = false
		c.serviceNMI()
		return
	}

	opb := c.bus.Read(c.PC)
	op := opcodeTable[opb]
	if op.exec == nil {
		if !c.loggedUnknown[opb] {
			c.loggedUnknown[opb] = true
			glog.Warningf("unknown opcode %#02x at pc=%#04x, treating as NOP", opb, c.PC)
		}
		c.PC++
		c.pending = 1 // NOP is 2 cycles total, this one included
		return
	}

	c.PC++
	startPC := c.PC
	c.extra = 0
	op.exec(c, op.mode)

	if c.PC == startPC {
		c.PC += uint16(op.bytes) - 1
	}
	c.pending = uint16(op.cycles) - 1 + c.extra
}

// serviceNMI pushes PC and status (B clear, U set), sets I, and jumps
// through the NMI vector. Costs 7 cycles total.
func (c *CPU) serviceNMI() {
	c.pushAddr(c.PC)
	c.pushByte((c.P | FlagUnused) &^ FlagBreak)
	c.setFlag(FlagInterruptDisable, true)
	c.PC = c.read16(vectorNMI)
	c.pending = 6
}

func (c *CPU) read(addr uint16) uint8          { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, val uint8)    { c.bus.Write(addr, val) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hi := uint16(c.read(addr + 1))
	return hi<<8 | lo
}

// read16bug reproduces the indirect-JMP page-wrap bug: if addr's low
// byte is 0xFF, the high byte is fetched from the start of the same
// page rather than the next one.
func (c *CPU) read16bug(addr uint16) uint16 {
	lo := uint16(c.read(addr))
	hiAddr := (addr & 0xFF00) | ((addr + 1) & 0x00FF)
	hi := uint16(c.read(hiAddr))
	return hi<<8 | lo
}

func (c *CPU) stackAddr() uint16 { return stackPage + uint16(c.SP) }

func (c *CPU) pushByte(v uint8) {
	c.write(c.stackAddr(), v)
	c.SP--
}

func (c *CPU) popByte() uint8 {
	c.SP++
	return c.read(c.stackAddr())
}

func (c *CPU) pushAddr(addr uint16) {
	c.pushByte(uint8(addr >> 8))
	c.pushByte(uint8(addr & 0xFF))
}

func (c *CPU) popAddr() uint16 {
	lo := uint16(c.popByte())
	hi := uint16(c.popByte())
	return hi<<8 | lo
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

func (c *CPU) flag(mask uint8) bool { return c.P&mask != 0 }

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// pageCrossed reports whether a and b fall in different 256-byte pages.
func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

var flagLetters = []struct {
	mask uint8
	ch   byte
}{
	{FlagNegative, 'N'}, {FlagOverflow, 'V'}, {FlagUnused, '-'}, {FlagBreak, 'B'},
	{FlagDecimal, 'D'}, {FlagInterruptDisable, 'I'}, {FlagZero, 'Z'}, {FlagCarry, 'C'},
}

func (c *CPU) statusString() string {
	var sb strings.Builder
	for _, f := range flagLetters {
		if c.P&f.mask != 0 {
			sb.WriteByte(f.ch)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (c *CPU) String() string {
	return fmt.Sprintf("A:%02x X:%02x Y:%02x PC:%04x SP:%02x P:%s", c.A, c.X, c.Y, c.PC, c.SP, c.statusString())
}
