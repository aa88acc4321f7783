package ledger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zinct/zinct/internal/extraction"
)

var _ = Describe("Normalizer", func() {
	var (
		n   Normalizer
		raw *extraction.RawFields
		rec Record
	)

	BeforeEach(func() {
		n = NewNormalizer()
		raw = &extraction.RawFields{}
	})

	JustBeforeEach(func() {
		rec = n.Normalize(raw)
	})

	When("normalizing a complete capture", func() {
		BeforeEach(func() {
			raw = &extraction.RawFields{
				Merchant: "Screwfix",
				Date:     "2025-01-01",
				Total:    45.50,
				VAT:      7.58,
				Category: "Materials",
				Summary:  "Screws and wall plugs",
			}
		})

		It("passes the fields through", func() {
			Expect(rec.Merchant).To(Equal("Screwfix"))
			Expect(rec.Date).To(Equal("2025-01-01"))
			Expect(rec.TotalPence).To(Equal(int64(4550)))
			Expect(rec.VATPence).To(Equal(int64(758)))
			Expect(rec.Category).To(Equal("Materials"))
			Expect(rec.Summary).To(Equal("Screws and wall plugs"))
		})
	})

	When("everything is missing", func() {
		It("fills every default", func() {
			Expect(rec.Merchant).To(Equal("Unknown"))
			Expect(rec.Date).To(Equal(""))
			Expect(rec.TotalPence).To(BeZero())
			Expect(rec.VATPence).To(BeZero())
			Expect(rec.Category).To(Equal(FallbackCategory))
			Expect(rec.Summary).To(Equal(""))
		})
	})

	When("the date is malformed", func() {
		BeforeEach(func() {
			raw.Date = "01/13/2025 maybe"
		})

		It("is preserved verbatim", func() {
			Expect(rec.Date).To(Equal("01/13/2025 maybe"))
		})
	})

	Describe("total coercion", func() {
		When("the total is a string with a currency sign", func() {
			BeforeEach(func() {
				raw.Total = "£1,204.99"
			})

			It("coerces it to pence", func() {
				Expect(rec.TotalPence).To(Equal(int64(120499)))
			})
		})

		When("the total is not numeric", func() {
			BeforeEach(func() {
				raw.Total = "about forty quid"
			})

			It("defaults to zero", func() {
				Expect(rec.TotalPence).To(BeZero())
			})
		})

		When("the total is negative", func() {
			BeforeEach(func() {
				raw.Total = -12.50
			})

			It("clamps to zero", func() {
				Expect(rec.TotalPence).To(BeZero())
			})
		})
	})

	Describe("VAT inference", func() {
		When("an explicit VAT amount is reported", func() {
			BeforeEach(func() {
				raw.Total = 120.00
				raw.VAT = 15.00
				raw.VATNoted = true
			})

			It("uses the amount verbatim", func() {
				Expect(rec.VATPence).To(Equal(int64(1500)))
			})
		})

		When("a VAT indicator appears without an amount", func() {
			BeforeEach(func() {
				raw.Total = 120.00
				raw.VAT = nil
				raw.VATNoted = true
			})

			It("derives one sixth of the total", func() {
				Expect(rec.VATPence).To(Equal(int64(2000)))
			})
		})

		When("a VAT indicator appears and the derived amount needs rounding", func() {
			BeforeEach(func() {
				raw.Total = 1.00
				raw.VATNoted = true
			})

			It("rounds to the nearest penny", func() {
				// 100 / 6 = 16.67 pence
				Expect(rec.VATPence).To(Equal(int64(17)))
			})
		})

		When("there is no VAT indicator at all", func() {
			BeforeEach(func() {
				raw.Total = 120.00
			})

			It("defaults to zero", func() {
				Expect(rec.VATPence).To(BeZero())
			})
		})

		When("the reported VAT is negative", func() {
			BeforeEach(func() {
				raw.Total = 50.00
				raw.VAT = -3.00
			})

			It("clamps to zero", func() {
				Expect(rec.VATPence).To(BeZero())
			})
		})
	})

	Describe("category containment", func() {
		When("the category is in the configured set", func() {
			BeforeEach(func() {
				raw.Category = "Plant Hire"
			})

			It("passes through", func() {
				Expect(rec.Category).To(Equal("Plant Hire"))
			})
		})

		When("the category differs only in case", func() {
			BeforeEach(func() {
				raw.Category = "fuel"
			})

			It("maps onto the canonical casing", func() {
				Expect(rec.Category).To(Equal("Fuel"))
			})
		})

		When("the category is outside the set", func() {
			BeforeEach(func() {
				raw.Category = "Crypto"
			})

			It("is coerced to the fallback label", func() {
				Expect(rec.Category).To(Equal(FallbackCategory))
			})
		})

		When("a custom category set is configured", func() {
			BeforeEach(func() {
				n = Normalizer{Categories: []string{"Groceries", "Travel"}}
				raw.Category = "Travel"
			})

			It("uses the configured set", func() {
				Expect(rec.Category).To(Equal("Travel"))
			})
		})
	})

	It("never produces negative amounts for arbitrary loose values", func() {
		for _, v := range []any{nil, "", "-99", -1.0, true, []any{1.0}, map[string]any{"a": 1.0}} {
			rec := n.Normalize(&extraction.RawFields{Total: v, VAT: v})
			Expect(rec.TotalPence).To(BeNumerically(">=", 0))
			Expect(rec.VATPence).To(BeNumerically(">=", 0))
		}
	})
})
