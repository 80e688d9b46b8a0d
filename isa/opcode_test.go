package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipslite/isa"
)

var _ = Describe("Lookup", func() {
	DescribeTable("known opcodes",
		func(op isa.Opcode, mnemonic string, typ isa.Type, class isa.Class) {
			m, ty, cl, err := isa.Lookup(op)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(Equal(mnemonic))
			Expect(ty).To(Equal(typ))
			Expect(cl).To(Equal(class))
		},
		Entry("ADD", isa.ADD, "ADD", isa.TypeR, isa.ClassArithmetic),
		Entry("ADDI", isa.ADDI, "ADDI", isa.TypeImmediate, isa.ClassArithmetic),
		Entry("SUB", isa.SUB, "SUB", isa.TypeR, isa.ClassArithmetic),
		Entry("MUL", isa.MUL, "MUL", isa.TypeR, isa.ClassArithmetic),
		Entry("OR", isa.OR, "OR", isa.TypeR, isa.ClassLogical),
		Entry("ANDI", isa.ANDI, "ANDI", isa.TypeImmediate, isa.ClassLogical),
		Entry("XOR", isa.XOR, "XOR", isa.TypeR, isa.ClassLogical),
		Entry("LDW", isa.LDW, "LDW", isa.TypeMemory, isa.ClassMemory),
		Entry("STW", isa.STW, "STW", isa.TypeMemory, isa.ClassMemory),
		Entry("BZ", isa.BZ, "BZ", isa.TypeJump, isa.ClassControl),
		Entry("BEQ", isa.BEQ, "BEQ", isa.TypeJump, isa.ClassControl),
		Entry("JR", isa.JR, "JR", isa.TypeJump, isa.ClassControl),
		Entry("HALT", isa.HALT, "HALT", isa.TypeJump, isa.ClassControl),
	)

	It("rejects opcodes outside the table", func() {
		_, _, _, err := isa.Lookup(isa.Opcode(0x1F))
		Expect(err).To(HaveOccurred())
	})
})
