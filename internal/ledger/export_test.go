package ledger

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CSV export", func() {
	records := []Record{
		{Date: "2025-01-01", Merchant: "Screwfix", Category: "Materials", TotalPence: 4550, VATPence: 758, Summary: "Screws and wall plugs"},
		{Date: "2025-01-02", Merchant: "Shell", Category: "Fuel", TotalPence: 6001, VATPence: 1000, Summary: ""},
		{Date: "", Merchant: "Greasy Spoon, Leeds", Category: "Subsistence", TotalPence: 850, VATPence: 0, Summary: `Breakfast "meal deal"`},
	}

	It("writes a header row first", func() {
		var buf bytes.Buffer
		Expect(WriteCSV(&buf, records)).To(Succeed())

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		Expect(lines[0]).To(Equal("date,merchant,category,total,vat,summary"))
		Expect(lines).To(HaveLen(4))
	})

	It("renders monetary values with exactly two decimals", func() {
		var buf bytes.Buffer
		Expect(WriteCSV(&buf, records)).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("45.50,7.58"))
		Expect(buf.String()).To(ContainSubstring("60.01,10.00"))
		Expect(buf.String()).To(ContainSubstring("8.50,0.00"))
	})

	It("round-trips records field for field", func() {
		var buf bytes.Buffer
		Expect(WriteCSV(&buf, records)).To(Succeed())

		parsed, err := ReadCSV(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal([]Record{
			{Date: "2025-01-01", Merchant: "Screwfix", Category: "Materials", TotalPence: 4550, VATPence: 758, Summary: "Screws and wall plugs"},
			{Date: "2025-01-02", Merchant: "Shell", Category: "Fuel", TotalPence: 6001, VATPence: 1000, Summary: ""},
			{Date: "", Merchant: "Greasy Spoon, Leeds", Category: "Subsistence", TotalPence: 850, VATPence: 0, Summary: `Breakfast "meal deal"`},
		}))
	})

	It("exports an empty ledger as just the header", func() {
		var buf bytes.Buffer
		Expect(WriteCSV(&buf, nil)).To(Succeed())
		Expect(strings.TrimSpace(buf.String())).To(Equal("date,merchant,category,total,vat,summary"))

		parsed, err := ReadCSV(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(BeEmpty())
	})

	It("rejects a table with the wrong column count", func() {
		_, err := ReadCSV(strings.NewReader("date,merchant\n2025-01-01,Screwfix\n"))
		Expect(err).To(HaveOccurred())
	})
})
