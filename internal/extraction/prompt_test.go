package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PromptSpec", func() {
	categories := []string{"Materials", "Fuel", "Tools"}

	When("building the extended schema", func() {
		var instruction string

		BeforeEach(func() {
			instruction = PromptSpec{Fields: ExtendedFields, Categories: categories}.Build()
		})

		It("requests every field by name", func() {
			for _, field := range ExtendedFields {
				Expect(instruction).To(ContainSubstring(`"` + field + `"`))
			}
		})

		It("enumerates the closed category set", func() {
			Expect(instruction).To(ContainSubstring("[Materials, Fuel, Tools]"))
		})

		It("spells out the VAT reporting rule", func() {
			Expect(instruction).To(ContainSubstring("vat_noted"))
		})

		It("is deterministic", func() {
			again := PromptSpec{Fields: ExtendedFields, Categories: categories}.Build()
			Expect(again).To(Equal(instruction))
		})
	})

	When("building the minimal schema", func() {
		var instruction string

		BeforeEach(func() {
			instruction = PromptSpec{Fields: MinimalFields, Categories: categories}.Build()
		})

		It("omits the VAT and summary fields", func() {
			Expect(instruction).NotTo(ContainSubstring(`"vat"`))
			Expect(instruction).NotTo(ContainSubstring(`"summary"`))
		})

		It("still enumerates the category set", func() {
			Expect(instruction).To(ContainSubstring("[Materials, Fuel, Tools]"))
		})
	})
})
