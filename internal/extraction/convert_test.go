package extraction

import (
	"bytes"
	"image"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// encodePNG renders a 1x1 image so the decode path sees real pixel data.
func encodePNG() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("PrepareImage", func() {
	When("the upload is already a PNG", func() {
		It("passes the bytes through untouched", func() {
			data := encodePNG()
			out, err := PrepareImage(data, "image/png")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(data))
		})
	})

	When("the upload is labeled as another image format", func() {
		It("re-encodes it to a decodable PNG", func() {
			out, err := PrepareImage(encodePNG(), "image/jpeg")
			Expect(err).NotTo(HaveOccurred())

			img, err := png.Decode(bytes.NewReader(out))
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Bounds().Dx()).To(Equal(1))
		})
	})

	When("no content type is given", func() {
		It("still decodes by sniffing the bytes", func() {
			out, err := PrepareImage(encodePNG(), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeEmpty())
		})
	})

	When("the bytes are not a decodable image", func() {
		It("returns a conversion error", func() {
			_, err := PrepareImage([]byte("not an image"), "image/jpeg")
			Expect(err).To(MatchError(ContainSubstring("converting image to PNG")))
		})
	})
})
