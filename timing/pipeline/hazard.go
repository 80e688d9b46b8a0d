package pipeline

import "github.com/sarchlab/mipslite/isa"

// HazardUnit detects read-after-write hazards at decode time and decides
// between installing a forwarding annotation and stalling the pipeline.
// It is only consulted in pipelined modes — non-pipelined mode has at most
// one instruction in flight, so no RAW hazard can occur.
type HazardUnit struct {
	forwardingEnabled bool
}

// NewHazardUnit returns a hazard unit. forwardingEnabled selects mode 2
// (pipelined with forwarding) over mode 1 (pipelined, stall-only).
func NewHazardUnit(forwardingEnabled bool) *HazardUnit {
	return &HazardUnit{forwardingEnabled: forwardingEnabled}
}

// readSet reports which of rs/rt the instruction actually reads as a
// register operand. STW reads both: rs as the base address and rt as the
// value it stores to memory (open question #2 — STW is a hazard consumer
// of rt even though it is not a hazard producer).
func readSet(cur *isa.Record) (readsRs, readsRt bool) {
	switch cur.Type {
	case isa.TypeR:
		return true, true
	case isa.TypeImmediate:
		return true, false
	case isa.TypeMemory:
		if cur.Op == isa.STW {
			return true, true
		}
		return true, false
	case isa.TypeJump:
		switch cur.Op {
		case isa.BEQ:
			return true, true
		case isa.BZ, isa.JR:
			return true, false
		default: // HALT reads no registers
			return false, false
		}
	}
	return false, false
}

// dest reports the register a producer instruction writes, if any. STW
// writes memory, not a register, so it is never a hazard producer. A
// J-type instruction produces no register result.
func dest(prod *isa.Record) (reg uint8, ok bool) {
	switch prod.Type {
	case isa.TypeR:
		return prod.Rd, true
	case isa.TypeImmediate:
		return prod.Rt, true
	case isa.TypeMemory:
		if prod.Op == isa.LDW {
			return prod.Rt, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Resolve inspects the EX and MEM slots, in that order, for the closest
// in-flight producer of a register cur is about to read. It installs a
// forwarding annotation on cur and returns false, or reports that the
// caller must stall (true). Only the first matching producer is
// considered; once a hazard is found and handled, later slots are not
// examined — at most one stall or forward per ID visit.
//
// A producer sitting in WB is never a hazard source: tick order runs WB
// before ID, so by the time this check runs, that producer's result is
// already committed to the register file — reading it there at EX (next
// tick) is already correct without forwarding or stalling.
func (h *HazardUnit) Resolve(cur *isa.Record, latch *Latch) (stall bool) {
	readsRs, readsRt := readSet(cur)
	if !readsRs && !readsRt {
		return false
	}

	for _, stage := range []isa.Stage{isa.EX, isa.MEM} {
		prod := latch.Peek(stage)
		if prod == nil || prod.Stage != stage {
			continue
		}

		reg, ok := dest(prod)
		if !ok {
			continue
		}

		var target isa.ForwardTarget
		switch {
		case readsRs && reg == cur.Rs:
			target = isa.TargetRS
		case readsRt && reg == cur.Rt:
			target = isa.TargetRT
		default:
			continue
		}

		if !h.forwardingEnabled {
			return true
		}

		isLoad := prod.Type == isa.TypeMemory && prod.Op == isa.LDW
		if isLoad && stage == isa.EX {
			// Load-use hazard: the loaded value is not ready until the
			// producer reaches MEM, one tick after this check.
			return true
		}

		value := prod.ALUOut
		if isLoad {
			value = prod.MDR
		}
		cur.Forward = isa.Forward{Active: true, Value: value, Target: target}
		return false
	}

	return false
}
