package rest

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("OpenAPI document", func() {
	loadDoc := func() *openapi3.T {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromFile("../../../api/openapi.yml")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return doc
	}

	ginkgo.It("should be a valid OpenAPI 3 document", func() {
		doc := loadDoc()
		gomega.Expect(doc.Validate(context.Background())).To(gomega.Succeed())
	})

	ginkgo.It("should describe every auth endpoint", func() {
		doc := loadDoc()
		for _, path := range []string{
			"/auth/login",
			"/auth/refresh-token",
			"/auth/logout",
			"/auth/forgot-password",
			"/auth/reset-password",
			"/users/me",
			"/users",
			"/health",
		} {
			gomega.Expect(doc.Paths.Find(path)).ToNot(gomega.BeNil(), "missing path %s", path)
		}
	})
})
