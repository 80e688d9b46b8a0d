package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mipslite/emu"
)

var _ = Describe("Memory", func() {
	var mem *emu.Memory

	BeforeEach(func() {
		mem = &emu.Memory{}
	})

	It("starts with size zero", func() {
		Expect(mem.Size()).To(Equal(0))
	})

	It("loads words at successive indices and tracks size", func() {
		mem.LoadWord(0, 0x11111111)
		mem.LoadWord(1, 0x22222222)
		Expect(mem.Size()).To(Equal(2))
		w, err := mem.ReadWord(4)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(0x22222222)))
	})

	It("marks a word written by WriteWord but not by LoadWord", func() {
		mem.LoadWord(0, 0xAAAA)
		Expect(mem.Written(0)).To(BeFalse())

		Expect(mem.WriteWord(4, 0xBEEF)).To(Succeed())
		Expect(mem.Written(1)).To(BeTrue())
	})

	It("rejects an out-of-range address", func() {
		_, err := mem.ReadWord(uint32(emu.Capacity) * 4)
		Expect(err).To(HaveOccurred())

		err = mem.WriteWord(uint32(emu.Capacity)*4, 1)
		Expect(err).To(HaveOccurred())
	})

	It("reports modified indices in ascending order", func() {
		Expect(mem.WriteWord(12, 1)).To(Succeed())
		Expect(mem.WriteWord(4, 1)).To(Succeed())
		Expect(mem.ModifiedIndices()).To(Equal([]int{1, 3}))
	})

	It("reports InBounds relative to the loaded image size, not capacity", func() {
		mem.LoadWord(0, 1)
		Expect(mem.InBounds(0)).To(BeTrue())
		Expect(mem.InBounds(4)).To(BeFalse())
	})
})
