package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hendrawanp/pos-management/internal"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	const secret = "test-secret-key-0123456789abcdef"

	var generator *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		generator = NewJWTTokenGenerator(secret, 15*time.Minute)
	})

	ginkgo.It("should round-trip user and tenant identity", func() {
		tokenString, err := generator.GenerateAccessToken(42, 7)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := generator.ValidateAccessToken(tokenString)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
		gomega.Expect(claims.TenantID).To(gomega.Equal(int64(7)))
		gomega.Expect(claims.Subject).To(gomega.Equal("42"))
	})

	ginkgo.It("should reject an expired token with the expiry error", func() {
		expired := NewJWTTokenGenerator(secret, time.Minute)
		expired.AccessTokenTTL = -time.Minute

		tokenString, err := expired.GenerateAccessToken(42, 7)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = generator.ValidateAccessToken(tokenString)
		gomega.Expect(err).To(gomega.Equal(internal.ErrTokenExpired))
	})

	ginkgo.It("should reject a token signed with a different secret", func() {
		other := NewJWTTokenGenerator("another-secret-key-fedcba98765432", 15*time.Minute)
		tokenString, err := other.GenerateAccessToken(42, 7)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = generator.ValidateAccessToken(tokenString)
		gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
	})

	ginkgo.It("should reject an unsigned token", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			UserID:   42,
			TenantID: 7,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = generator.ValidateAccessToken(tokenString)
		gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
	})

	ginkgo.It("should reject a token without an expiry claim", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 42, TenantID: 7})
		tokenString, err := token.SignedString([]byte(secret))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = generator.ValidateAccessToken(tokenString)
		gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
	})

	ginkgo.It("should reject garbage input", func() {
		_, err := generator.ValidateAccessToken("not.a.jwt")
		gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
	})
})
