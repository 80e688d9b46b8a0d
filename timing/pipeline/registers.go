// Package pipeline provides the MIPS Lite 5-stage pipeline model for
// cycle-accurate timing simulation.
package pipeline

import "github.com/sarchlab/mipslite/isa"

// Latch is the pipeline latch array: a fixed set of five slots, one per
// stage, each holding at most one in-flight instruction record. Unlike a
// named register per stage boundary, the latch array lets a single
// instruction record travel through all five slots in place, carrying its
// own Stage field as ground truth for where it is.
type Latch struct {
	slots [5]*isa.Record

	// pipelined selects whether Advance physically moves an occupant into
	// its new slot (pipelined modes) or leaves it in the IF slot with only
	// its Stage field advancing (non-pipelined mode, where only one
	// instruction is ever in flight).
	pipelined bool

	stalledThisTick bool
	totalStalls     uint64
}

// NewLatch returns an empty latch array. pipelined selects whether Advance
// moves occupants between slots (true) or holds every occupant in the IF
// slot while its Stage field advances through the five phases (false).
func NewLatch(pipelined bool) *Latch {
	return &Latch{pipelined: pipelined}
}

// FetchIn places rec in the IF slot if it is empty. It is a no-op
// otherwise — the caller (the IF stage) is expected to check Peek(isa.IF)
// first and only fetch a new word when it returns nil.
func (l *Latch) FetchIn(rec *isa.Record) {
	if l.slots[isa.IF] == nil {
		l.slots[isa.IF] = rec
	}
}

// Peek returns the occupant physically in the given slot, or nil if the
// slot is empty. In non-pipelined mode every stage's occupant lives in the
// IF slot; callers distinguish which phase it represents by comparing
// rec.Stage, not by which slot it was found in.
func (l *Latch) Peek(stage isa.Stage) *isa.Record {
	return l.slots[stage]
}

// Stall records that this tick's ID stage detected a hazard it could not
// resolve with forwarding: the IF and ID slots hold in place for one tick
// instead of advancing.
func (l *Latch) Stall() {
	l.stalledThisTick = true
	l.totalStalls++
}

// TotalStalls reports the cumulative number of stall cycles inserted.
func (l *Latch) TotalStalls() uint64 {
	return l.totalStalls
}

// Flush marks every occupant in a slot strictly earlier than fromStage as
// DONE, so it is discarded (retired without side effects) on the next
// Advance instead of continuing to execute. Used when a branch or jump
// resolves in EX and the instructions speculatively fetched behind it must
// be squashed.
func (l *Latch) Flush(fromStage isa.Stage) {
	for s := isa.IF; s < fromStage; s++ {
		if rec := l.slots[s]; rec != nil {
			rec.Stage = isa.DONE
		}
	}
}

// Advance moves every occupant one stage forward, from WB down to IF so
// that a move into a higher slot never overwrites an occupant not yet
// processed this tick. An occupant already at WB, or marked DONE, is
// retired (its slot freed) instead of advanced. If this tick's ID stage
// called Stall, an occupant at ID or IF holds its slot instead of moving.
// Advance reports whether the latch array is empty once it returns.
func (l *Latch) Advance() bool {
	for i := int(isa.WB); i >= int(isa.IF); i-- {
		stage := isa.Stage(i)
		rec := l.slots[stage]
		if rec == nil {
			continue
		}

		if rec.Stage == isa.WB || rec.Stage == isa.DONE {
			l.slots[stage] = nil
			continue
		}

		if l.stalledThisTick && rec.Stage <= isa.ID {
			continue
		}

		rec.Stage++
		if l.pipelined {
			l.slots[stage] = nil
			l.slots[rec.Stage] = rec
		}
	}

	l.stalledThisTick = false
	return l.Empty()
}

// Empty reports whether all five slots are unoccupied.
func (l *Latch) Empty() bool {
	for _, s := range l.slots {
		if s != nil {
			return false
		}
	}
	return true
}
