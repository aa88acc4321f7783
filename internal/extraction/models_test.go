package extraction

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SelectModel", func() {
	var (
		catalog []ModelInfo
		name    string
		err     error
	)

	JustBeforeEach(func() {
		name, err = SelectModel(catalog)
	})

	When("a fast variant supports generation", func() {
		BeforeEach(func() {
			catalog = []ModelInfo{
				{Name: "models/gemini-1.5-pro", Capabilities: []string{"generateContent"}},
				{Name: "models/gemini-1.5-flash", Capabilities: []string{"generateContent"}},
				{Name: "models/embedding-001", Capabilities: []string{"embedContent"}},
			}
		})

		It("prefers the fast variant", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("models/gemini-1.5-flash"))
		})
	})

	When("several fast variants qualify", func() {
		BeforeEach(func() {
			catalog = []ModelInfo{
				{Name: "models/gemini-2.0-flash", Capabilities: []string{"generateContent"}},
				{Name: "models/gemini-1.5-flash", Capabilities: []string{"generateContent"}},
			}
		})

		It("picks the first by catalog order", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("models/gemini-2.0-flash"))
		})
	})

	When("no fast variant qualifies", func() {
		BeforeEach(func() {
			catalog = []ModelInfo{
				{Name: "models/embedding-001", Capabilities: []string{"embedContent"}},
				{Name: "models/gemini-1.5-pro", Capabilities: []string{"generateContent"}},
				{Name: "models/gemini-ultra", Capabilities: []string{"generateContent"}},
			}
		})

		It("falls back to the first model supporting generation", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("models/gemini-1.5-pro"))
		})
	})

	When("a fast variant exists but cannot generate", func() {
		BeforeEach(func() {
			catalog = []ModelInfo{
				{Name: "models/gemini-1.5-flash", Capabilities: []string{"embedContent"}},
				{Name: "models/gemini-1.5-pro", Capabilities: []string{"generateContent"}},
			}
		})

		It("skips it", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("models/gemini-1.5-pro"))
		})
	})

	When("no model supports generation", func() {
		BeforeEach(func() {
			catalog = []ModelInfo{
				{Name: "models/embedding-001", Capabilities: []string{"embedContent"}},
				{Name: "models/aqa", Capabilities: []string{}},
			}
		})

		It("fails with NoUsableModel", func() {
			var selErr *SelectionError
			Expect(errors.As(err, &selErr)).To(BeTrue())
			Expect(selErr.Kind).To(Equal(NoUsableModel))
		})
	})

	When("the catalog is empty", func() {
		BeforeEach(func() {
			catalog = nil
		})

		It("fails with NoUsableModel", func() {
			var selErr *SelectionError
			Expect(errors.As(err, &selErr)).To(BeTrue())
			Expect(selErr.Kind).To(Equal(NoUsableModel))
		})
	})
})
