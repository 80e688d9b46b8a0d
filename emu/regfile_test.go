package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipslite/emu"
)

var _ = Describe("RegFile", func() {
	var rf *emu.RegFile

	BeforeEach(func() {
		rf = &emu.RegFile{}
	})

	It("reads zero before any write", func() {
		Expect(rf.Read(0)).To(Equal(uint32(0)))
		Expect(rf.Written(0)).To(BeFalse())
	})

	It("R0 has no hardwired-zero semantic", func() {
		rf.Write(0, 42)
		Expect(rf.Read(0)).To(Equal(uint32(42)))
		Expect(rf.Written(0)).To(BeTrue())
	})

	It("keeps the modified flag set once written, even after another write", func() {
		rf.Write(5, 1)
		rf.Write(5, 2)
		Expect(rf.Written(5)).To(BeTrue())
		Expect(rf.Read(5)).To(Equal(uint32(2)))
	})

	It("reports modified indices in ascending order", func() {
		rf.Write(3, 1)
		rf.Write(1, 1)
		rf.Write(9, 1)
		Expect(rf.ModifiedIndices()).To(Equal([]uint8{1, 3, 9}))
	})
})
