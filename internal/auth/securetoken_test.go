package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Secure tokens", func() {
	ginkgo.Describe("GenerateSecureToken", func() {
		ginkgo.It("should produce hex output twice the byte length", func() {
			token, err := GenerateSecureToken(32)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token).To(gomega.HaveLen(64))
			gomega.Expect(token).To(gomega.MatchRegexp("^[0-9a-f]+$"))
		})

		ginkgo.It("should fall back to the default length for non-positive input", func() {
			token, err := GenerateSecureToken(0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(token).To(gomega.HaveLen(DefaultTokenBytes * 2))
		})

		ginkgo.It("should not repeat", func() {
			a, err := GenerateSecureToken(32)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			b, err := GenerateSecureToken(32)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(a).ToNot(gomega.Equal(b))
		})
	})

	ginkgo.Describe("HashToken and CompareToken", func() {
		ginkgo.It("should verify a matching secret", func() {
			hash := HashToken("some-secret")
			gomega.Expect(CompareToken("some-secret", hash)).To(gomega.BeTrue())
		})

		ginkgo.It("should reject a different secret", func() {
			hash := HashToken("some-secret")
			gomega.Expect(CompareToken("another-secret", hash)).To(gomega.BeFalse())
		})

		ginkgo.It("should never store the secret itself", func() {
			gomega.Expect(HashToken("some-secret")).ToNot(gomega.ContainSubstring("some-secret"))
		})
	})
})
