package pipeline

import (
	"fmt"

	"github.com/sarchlab/mipslite/emu"
	"github.com/sarchlab/mipslite/isa"
)

// FetchStage reads the next instruction word from memory.
type FetchStage struct {
	memory *emu.Memory
}

// NewFetchStage creates a new fetch stage.
func NewFetchStage(memory *emu.Memory) *FetchStage {
	return &FetchStage{memory: memory}
}

// Fetch reads the word at pc and wraps it in a bare instruction record
// (Word and PC only — Decode fills the rest at ID). ok is false when pc is
// outside the loaded image, in which case the caller must not advance PC.
func (s *FetchStage) Fetch(pc uint32) (rec *isa.Record, ok bool, err error) {
	if !s.memory.InBounds(pc) {
		return nil, false, nil
	}

	word, err := s.memory.ReadWord(pc)
	if err != nil {
		return nil, false, err
	}

	return &isa.Record{Word: word, PC: pc, Stage: isa.IF}, true, nil
}

// DecodeStage decodes the occupant of the ID slot and, in pipelined modes,
// invokes the hazard unit against later-stage producers.
type DecodeStage struct {
	hazard    *HazardUnit
	pipelined bool
}

// NewDecodeStage creates a new decode stage.
func NewDecodeStage(hazard *HazardUnit, pipelined bool) *DecodeStage {
	return &DecodeStage{hazard: hazard, pipelined: pipelined}
}

// Decode fills rec's decoded fields in place and resolves hazards against
// the rest of the latch array. It reports whether the pipeline must stall.
func (s *DecodeStage) Decode(rec *isa.Record, latch *Latch) (stall bool, err error) {
	if err := rec.Decode(); err != nil {
		return false, fmt.Errorf("decode: pc 0x%08x: %w", rec.PC, err)
	}

	if !s.pipelined {
		return false, nil
	}

	return s.hazard.Resolve(rec, latch), nil
}

// ExecuteOutcome reports the control-flow side effects of an EX-stage
// visit: whether a branch or jump was taken and to where, and whether the
// instruction halted the machine.
type ExecuteOutcome struct {
	BranchTaken  bool
	BranchTarget uint32
	Halted       bool
}

// ExecuteStage performs ALU operations, effective-address computation, and
// control-flow resolution.
type ExecuteStage struct {
	regs *emu.RegFile
}

// NewExecuteStage creates a new execute stage.
func NewExecuteStage(regs *emu.RegFile) *ExecuteStage {
	return &ExecuteStage{regs: regs}
}

// Execute reads rec's operands (applying any active forwarding
// annotation), computes rec.ALUOut, and resolves control flow for J-type
// instructions.
func (s *ExecuteStage) Execute(rec *isa.Record) ExecuteOutcome {
	rsVal := s.regs.Read(rec.Rs)
	rtVal := s.regs.Read(rec.Rt)

	if rec.Forward.Active {
		switch rec.Forward.Target {
		case isa.TargetRS:
			rsVal = rec.Forward.Value
			if rec.Rt == rec.Rs {
				rtVal = rec.Forward.Value
			}
		case isa.TargetRT:
			rtVal = rec.Forward.Value
		}
	}

	var outcome ExecuteOutcome

	switch rec.Type {
	case isa.TypeR:
		rec.ALUOut = alu(rsVal, rtVal, rec.Op)
	case isa.TypeImmediate:
		rec.ALUOut = alu(rsVal, uint32(rec.Imm), rec.Op)
	case isa.TypeMemory:
		rec.ALUOut = rsVal + uint32(rec.Imm)
	case isa.TypeJump:
		outcome = controlFlow(rec, rsVal, rtVal)
		rec.Stage = isa.DONE
	}

	return outcome
}

// alu applies op to a and b. All MIPS Lite ALU operations are defined over
// the full 32-bit range and wrap on overflow; op is assumed to already be
// one of the twelve arithmetic/logical opcodes (the R-type and I-immediate
// variants of each of the six operations share the same ALU behavior).
func alu(a, b uint32, op isa.Opcode) uint32 {
	switch op {
	case isa.ADD, isa.ADDI:
		return a + b
	case isa.SUB, isa.SUBI:
		return a - b
	case isa.MUL, isa.MULI:
		return a * b
	case isa.OR, isa.ORI:
		return a | b
	case isa.AND, isa.ANDI:
		return a & b
	case isa.XOR, isa.XORI:
		return a ^ b
	default:
		return 0
	}
}

// controlFlow evaluates a J-type instruction's branch or halt condition.
// rec.ALUOut already holds the precomputed PC-relative target for BZ/BEQ,
// computed at decode time.
func controlFlow(rec *isa.Record, rsVal, rtVal uint32) ExecuteOutcome {
	switch rec.Op {
	case isa.BZ:
		if rsVal == 0 {
			return ExecuteOutcome{BranchTaken: true, BranchTarget: rec.ALUOut}
		}
	case isa.BEQ:
		if rsVal == rtVal {
			return ExecuteOutcome{BranchTaken: true, BranchTarget: rec.ALUOut}
		}
	case isa.JR:
		return ExecuteOutcome{BranchTaken: true, BranchTarget: rsVal}
	case isa.HALT:
		return ExecuteOutcome{BranchTaken: true, Halted: true}
	}
	return ExecuteOutcome{}
}

// MemoryStage performs LDW/STW memory access. STW reads its store value
// directly from the register file at MEM time rather than from a value
// carried on the record — by the time a STW reaches MEM, any producer
// close enough to matter has already completed WB earlier in the same
// tick (writeback runs before memory access in tick order), so the
// architectural register file is always current.
type MemoryStage struct {
	memory *emu.Memory
	regs   *emu.RegFile
}

// NewMemoryStage creates a new memory stage.
func NewMemoryStage(memory *emu.Memory, regs *emu.RegFile) *MemoryStage {
	return &MemoryStage{memory: memory, regs: regs}
}

// Access performs rec's memory operation, if any.
func (s *MemoryStage) Access(rec *isa.Record) error {
	if rec.Type != isa.TypeMemory {
		return nil
	}

	switch rec.Op {
	case isa.LDW:
		word, err := s.memory.ReadWord(rec.ALUOut)
		if err != nil {
			return fmt.Errorf("memory: pc 0x%08x: %w", rec.PC, err)
		}
		rec.MDR = word
	case isa.STW:
		value := s.regs.Read(rec.Rt)
		if err := s.memory.WriteWord(rec.ALUOut, value); err != nil {
			return fmt.Errorf("memory: pc 0x%08x: %w", rec.PC, err)
		}
	}

	return nil
}

// WritebackStage commits a result to the register file.
type WritebackStage struct {
	regs *emu.RegFile
}

// NewWritebackStage creates a new writeback stage.
func NewWritebackStage(regs *emu.RegFile) *WritebackStage {
	return &WritebackStage{regs: regs}
}

// Writeback writes rec's result register, if it has one. STW and J-type
// instructions write nothing back.
func (s *WritebackStage) Writeback(rec *isa.Record) {
	switch rec.Type {
	case isa.TypeR:
		s.regs.Write(rec.Rd, rec.ALUOut)
	case isa.TypeImmediate:
		s.regs.Write(rec.Rt, rec.ALUOut)
	case isa.TypeMemory:
		if rec.Op == isa.LDW {
			s.regs.Write(rec.Rt, rec.MDR)
		}
	}
}
