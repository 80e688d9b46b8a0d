// Package pipeline provides the MIPS Lite 5-stage pipeline model for
// cycle-accurate timing simulation.
//
// The pipeline implements the classic 5-stage design:
//   - Fetch (IF): read the next instruction word from memory
//   - Decode (ID): decode fields, read registers, detect hazards
//   - Execute (EX): ALU operations, effective-address computation, branch
//     resolution
//   - Memory (MEM): load/store memory access
//   - Writeback (WB): commit a result to the register file
//
// Three operating modes share this one implementation: non-pipelined
// (instructions execute one at a time, never overlapping), pipelined
// without forwarding (hazards always stall), and pipelined with forwarding
// (hazards resolve via operand forwarding where possible, otherwise
// stall). The difference between them is entirely captured by how the
// Latch array advances occupants and whether the hazard unit forwards.
package pipeline

import (
	"fmt"
	"io"

	"github.com/sarchlab/mipslite/emu"
	"github.com/sarchlab/mipslite/isa"
)

// Mode selects one of the simulator's three operating modes.
type Mode uint8

// The three operating modes.
const (
	NonPipelined Mode = iota
	PipelinedNoForwarding
	PipelinedForwarding
)

func (m Mode) String() string {
	switch m {
	case NonPipelined:
		return "non-pipelined"
	case PipelinedNoForwarding:
		return "pipelined, no forwarding"
	case PipelinedForwarding:
		return "pipelined, forwarding"
	default:
		return "?"
	}
}

// Pipelined reports whether m overlaps instruction execution at all.
func (m Mode) Pipelined() bool {
	return m != NonPipelined
}

// Counts tallies retired instructions by class, plus a running total.
// Only instructions that actually execute EX are counted — a squashed
// branch-shadow instruction never reaches EX (it is discarded directly out
// of IF or ID), so it contributes to no counter.
type Counts struct {
	Total      uint32
	Arithmetic uint32
	Logical    uint32
	Memory     uint32
	Control    uint32
}

// Pipeline drives the five stage functions over a shared latch array and
// architectural state, implementing all three operating modes.
type Pipeline struct {
	mode Mode

	regs   *emu.RegFile
	memory *emu.Memory

	latch  *Latch
	hazard *HazardUnit

	fetch   *FetchStage
	decode  *DecodeStage
	execute *ExecuteStage
	mem     *MemoryStage
	wb      *WritebackStage

	pc     uint32
	clock  uint64
	halted bool
	counts Counts

	trace io.Writer
}

// Option is a functional option for configuring a Pipeline.
type Option func(*Pipeline)

// WithTrace enables a per-tick pipeline-occupancy trace written to w,
// supplementing the spec with the verbose diagnostic output the C
// reference's DEBUG build printed via print_pipeline_state.
func WithTrace(w io.Writer) Option {
	return func(p *Pipeline) {
		p.trace = w
	}
}

// New creates a Pipeline in the given mode, wired to the given register
// file and memory.
func New(mode Mode, regs *emu.RegFile, memory *emu.Memory, opts ...Option) *Pipeline {
	hazard := NewHazardUnit(mode == PipelinedForwarding)

	p := &Pipeline{
		mode:    mode,
		regs:    regs,
		memory:  memory,
		latch:   NewLatch(mode.Pipelined()),
		hazard:  hazard,
		fetch:   NewFetchStage(memory),
		decode:  NewDecodeStage(hazard, mode.Pipelined()),
		execute: NewExecuteStage(regs),
		mem:     NewMemoryStage(memory, regs),
		wb:      NewWritebackStage(regs),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SetPC sets the program counter (entry point), which must be done before
// the first Tick.
func (p *Pipeline) SetPC(pc uint32) {
	p.pc = pc
}

// PC returns the current program counter.
func (p *Pipeline) PC() uint32 {
	return p.pc
}

// Mode returns the pipeline's operating mode.
func (p *Pipeline) Mode() Mode {
	return p.mode
}

// Clock returns the number of ticks executed so far.
func (p *Pipeline) Clock() uint64 {
	return p.clock
}

// Halted reports whether a HALT instruction has executed.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Done reports whether the pipeline holds no further in-flight work.
func (p *Pipeline) Done() bool {
	return p.latch.Empty()
}

// Counts returns the current per-class instruction counts.
func (p *Pipeline) Counts() Counts {
	return p.counts
}

// TotalStalls returns the cumulative number of stall cycles inserted.
func (p *Pipeline) TotalStalls() uint64 {
	return p.latch.TotalStalls()
}

// Stats summarizes a completed run for the final report.
type Stats struct {
	Clock   uint64
	Counts  Counts
	Stalls  uint64
	FinalPC uint32
	CPI     float64
}

// Stats computes the final report's performance summary.
func (p *Pipeline) Stats() Stats {
	s := Stats{
		Clock:   p.clock,
		Counts:  p.counts,
		Stalls:  p.latch.TotalStalls(),
		FinalPC: p.pc,
	}
	if s.Counts.Total > 0 {
		s.CPI = float64(s.Clock) / float64(s.Counts.Total)
	}
	return s
}

// slotFor maps a logical stage to the physical latch slot that stage's
// occupant lives in: its own slot in pipelined modes, always IF in
// non-pipelined mode (where a single record's Stage field cycles through
// all five phases without ever moving slots).
func (p *Pipeline) slotFor(stage isa.Stage) isa.Stage {
	if p.mode.Pipelined() {
		return stage
	}
	return isa.IF
}

// occupant returns the record currently performing the given logical
// stage, or nil if no record is at that phase right now.
func (p *Pipeline) occupant(stage isa.Stage) *isa.Record {
	rec := p.latch.Peek(p.slotFor(stage))
	if rec == nil || rec.Stage != stage {
		return nil
	}
	return rec
}

// Run ticks the pipeline until it has drained and nothing remains to
// fetch: either a HALT has executed (no further fetches) or the PC has
// left the loaded image. Instructions already ahead of a HALT still run
// to completion before Run returns.
func (p *Pipeline) Run() error {
	for {
		if err := p.Tick(); err != nil {
			return err
		}
		if p.Done() && (p.halted || !p.memory.InBounds(p.pc)) {
			return nil
		}
	}
}

// CorrectPC adjusts the reported program counter for instructions that
// were speculatively fetched but never reached EX when the machine
// stopped — each slot still occupied strictly before EX represents one
// fetch (one PC += 4) that never corresponded to an instruction that
// actually executed. Non-pipelined mode never has more than one
// instruction in flight and always retires it before fetching the next,
// so its PC is already exact and this is a no-op.
func (p *Pipeline) CorrectPC() {
	if !p.mode.Pipelined() {
		return
	}
	for _, s := range []isa.Stage{isa.IF, isa.ID} {
		if p.latch.Peek(s) != nil {
			p.pc -= 4
		}
	}
}

// Tick advances the pipeline by one cycle: the five stage functions run in
// reverse order (WB, MEM, EX, ID, IF) so that a value a downstream stage
// writes this tick is never re-read by an upstream stage in the same
// tick, then the latch array advances and the clock increments.
func (p *Pipeline) Tick() error {
	if rec := p.occupant(isa.WB); rec != nil {
		p.wb.Writeback(rec)
	}

	if rec := p.occupant(isa.MEM); rec != nil {
		if err := p.mem.Access(rec); err != nil {
			return err
		}
	}

	if rec := p.occupant(isa.EX); rec != nil {
		outcome := p.execute.Execute(rec)
		p.count(rec)

		if outcome.Halted {
			p.halted = true
		}
		if outcome.BranchTaken {
			// HALT reports BranchTaken too (so any speculatively fetched
			// upstream instructions are flushed the same way), but it
			// never redirects the PC. Instead it takes back the PC
			// advance of each fetch it squashes, so the final PC is the
			// one just past the HALT, as in non-pipelined mode.
			if !outcome.Halted {
				p.pc = outcome.BranchTarget
			} else if p.mode.Pipelined() {
				for _, s := range []isa.Stage{isa.IF, isa.ID} {
					if p.latch.Peek(s) != nil {
						p.pc -= 4
					}
				}
			}
			if p.mode.Pipelined() {
				p.latch.Flush(isa.EX)
			}
		}
	}

	if rec := p.occupant(isa.ID); rec != nil {
		stall, err := p.decode.Decode(rec, p.latch)
		if err != nil {
			return err
		}
		if stall {
			p.latch.Stall()
		}
	}

	if p.latch.Peek(isa.IF) == nil && !p.halted {
		rec, ok, err := p.fetch.Fetch(p.pc)
		if err != nil {
			return err
		}
		if ok {
			p.latch.FetchIn(rec)
			p.pc += 4
		}
	}

	p.writeTrace()
	p.latch.Advance()
	p.clock++

	return nil
}

// count tallies rec into the running instruction counts. Only called for
// a record that just executed EX, so a squashed shadow instruction —
// retired without ever reaching EX — is never counted.
func (p *Pipeline) count(rec *isa.Record) {
	p.counts.Total++
	switch rec.Class() {
	case isa.ClassArithmetic:
		p.counts.Arithmetic++
	case isa.ClassLogical:
		p.counts.Logical++
	case isa.ClassMemory:
		p.counts.Memory++
	case isa.ClassControl:
		p.counts.Control++
	}
}

// writeTrace prints one line of pipeline occupancy if tracing is enabled.
func (p *Pipeline) writeTrace() {
	if p.trace == nil {
		return
	}

	stages := []isa.Stage{isa.IF, isa.ID, isa.EX, isa.MEM, isa.WB}
	fmt.Fprintf(p.trace, "cycle %4d  pc=0x%08x ", p.clock, p.pc)
	for _, stage := range stages {
		rec := p.occupant(stage)
		if rec == nil {
			fmt.Fprintf(p.trace, " %-4s:--------", stage)
			continue
		}
		fmt.Fprintf(p.trace, " %-4s:0x%08x", stage, rec.Word)
	}
	fmt.Fprintln(p.trace)
}
