// Package emu provides the MIPS Lite architectural state: the register
// file and word-addressable memory that the pipeline reads and writes.
package emu

// NumRegs is the number of architectural registers.
const NumRegs = 32

// RegFile is the MIPS Lite register file. R0 has no hardwired-zero
// semantic; it behaves like any other register (spec §3).
type RegFile struct {
	values  [NumRegs]uint32
	written [NumRegs]bool
}

// Read returns the current value of register reg.
func (r *RegFile) Read(reg uint8) uint32 {
	return r.values[reg]
}

// Write sets register reg to value and marks it as ever-written. The
// modified flag, once set, is never cleared (spec invariant 4).
func (r *RegFile) Write(reg uint8, value uint32) {
	r.values[reg] = value
	r.written[reg] = true
}

// Written reports whether reg has ever been written.
func (r *RegFile) Written(reg uint8) bool {
	return r.written[reg]
}

// ModifiedIndices returns, in ascending order, the indices of every
// register ever written — the subset the final report prints.
func (r *RegFile) ModifiedIndices() []uint8 {
	var out []uint8
	for i := 0; i < NumRegs; i++ {
		if r.written[i] {
			out = append(out, uint8(i))
		}
	}
	return out
}
