package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipslite/isa"
)

// encodeR builds a raw R-type word: opcode[30:26] rs[25:21] rt[20:16] rd[15:11].
func encodeR(op isa.Opcode, rs, rt, rd uint8) uint32 {
	return uint32(op)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11
}

// encodeI builds a raw non-R-type word: opcode[30:26] rs[25:21] rt[20:16] imm16[15:0].
func encodeI(op isa.Opcode, rs, rt uint8, imm int16) uint32 {
	return uint32(op)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(uint16(imm))
}

var _ = Describe("Decode", func() {
	It("decodes R-type fields", func() {
		word := encodeR(isa.ADD, 1, 2, 3)
		rec, err := isa.Decode(word, 0x100)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Op).To(Equal(isa.ADD))
		Expect(rec.Type).To(Equal(isa.TypeR))
		Expect(rec.Rs).To(Equal(uint8(1)))
		Expect(rec.Rt).To(Equal(uint8(2)))
		Expect(rec.Rd).To(Equal(uint8(3)))
	})

	It("sign-extends a negative immediate", func() {
		word := encodeI(isa.ADDI, 1, 2, -5)
		rec, err := isa.Decode(word, 0x100)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Imm).To(Equal(int32(-5)))
	})

	It("precomputes the branch target for non-R types", func() {
		word := encodeI(isa.BZ, 1, 0, 2)
		rec, err := isa.Decode(word, 0x100)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.ALUOut).To(Equal(uint32(0x100 + 2*4)))
	})

	It("masks bit 31 out of the opcode but records that it was set", func() {
		word := encodeR(isa.ADD, 1, 2, 3) | (1 << 31)
		rec, err := isa.Decode(word, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Op).To(Equal(isa.ADD))
		Expect(rec.Bit31Set).To(BeTrue())
	})

	It("rejects an unknown opcode", func() {
		word := uint32(0x1F) << 26
		_, err := isa.Decode(word, 0)
		Expect(err).To(HaveOccurred())
	})

	It("reports its instruction class", func() {
		rec, err := isa.Decode(encodeR(isa.XOR, 0, 0, 0), 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Class()).To(Equal(isa.ClassLogical))
	})
})
