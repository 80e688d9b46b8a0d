// Package machine wraps the pipeline with the architectural state and the
// final report the simulator prints at termination. It is the top-level
// object cmd/mipslite drives: run an image (loaded by the loader package)
// to completion, then report.
package machine

import (
	"github.com/sarchlab/mipslite/emu"
	"github.com/sarchlab/mipslite/timing/pipeline"
)

// Machine owns the architectural state and pipeline for one simulation run.
type Machine struct {
	regs     *emu.RegFile
	memory   *emu.Memory
	pipeline *pipeline.Pipeline
}

// New creates a Machine in the given mode with an empty register file and
// memory. Load a program into Memory() (see the loader package) before Run.
func New(mode pipeline.Mode, opts ...pipeline.Option) *Machine {
	regs := &emu.RegFile{}
	memory := &emu.Memory{}
	return &Machine{
		regs:     regs,
		memory:   memory,
		pipeline: pipeline.New(mode, regs, memory, opts...),
	}
}

// NewWithMemory creates a Machine in the given mode wired to an
// already-loaded memory image (see the loader package).
func NewWithMemory(mode pipeline.Mode, memory *emu.Memory, opts ...pipeline.Option) *Machine {
	regs := &emu.RegFile{}
	return &Machine{
		regs:     regs,
		memory:   memory,
		pipeline: pipeline.New(mode, regs, memory, opts...),
	}
}

// Run drives the pipeline to completion (see pipeline.Run) and applies
// the PC correction (spec §4.4).
func (m *Machine) Run() error {
	if err := m.pipeline.Run(); err != nil {
		return err
	}
	m.pipeline.CorrectPC()
	return nil
}

// Report summarizes a completed run for the final output (spec §6).
type Report struct {
	Clock     uint64
	FinalPC   uint32
	Stalls    uint64
	Pipelined bool
	Counts    pipeline.Counts
	CPI       float64
	Halted    bool

	Registers []RegisterValue
	Memory    []MemoryValue
}

// RegisterValue pairs a register index with its final value.
type RegisterValue struct {
	Index uint8
	Value uint32
}

// MemoryValue pairs a memory word index with its final value.
type MemoryValue struct {
	Index int
	Value uint32
}

// Report builds the final report from the machine's current state. Call
// it after Run returns.
func (m *Machine) Report() Report {
	stats := m.pipeline.Stats()

	report := Report{
		Clock:     stats.Clock,
		FinalPC:   stats.FinalPC,
		Stalls:    stats.Stalls,
		Pipelined: m.pipeline.Mode().Pipelined(),
		Counts:    stats.Counts,
		CPI:       stats.CPI,
		Halted:    m.pipeline.Halted(),
	}

	for _, idx := range m.regs.ModifiedIndices() {
		report.Registers = append(report.Registers, RegisterValue{Index: idx, Value: m.regs.Read(idx)})
	}
	for _, idx := range m.memory.ModifiedIndices() {
		word, _ := m.memory.ReadWord(uint32(idx) * 4)
		report.Memory = append(report.Memory, MemoryValue{Index: idx, Value: word})
	}

	return report
}

// Registers returns the machine's register file, for tests that need to
// inspect architectural state directly.
func (m *Machine) Registers() *emu.RegFile {
	return m.regs
}

// Memory returns the machine's memory, for tests that need to inspect
// architectural state directly.
func (m *Machine) Memory() *emu.Memory {
	return m.memory
}

// Pipeline returns the underlying pipeline, for tests and callers that
// need lower-level access (e.g. tracing options already configured via New).
func (m *Machine) Pipeline() *pipeline.Pipeline {
	return m.pipeline
}
