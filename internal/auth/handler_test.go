package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/hendrawanp/pos-management/internal"
)

// Mock ServiceAPI with pluggable behavior per test.
type mockAuthService struct {
	authenticateFn  func(ctx context.Context, dto LoginDTO, tenantID int64, ipAddress, userAgent string) (*LoginResult, error)
	refreshFn       func(ctx context.Context, compositeToken, ipAddress, userAgent string) (*AuthTokens, error)
	validateFn      func(tokenString string) (*Claims, error)
	getUserFn       func(ctx context.Context, userID, tenantID int64) (*AuthenticatedUser, error)
	resetFn         func(ctx context.Context, dto ResetPasswordDTO) error
	loggedOutTokens []string
	forgotEmails    []string
}

func (m *mockAuthService) Authenticate(ctx context.Context, dto LoginDTO, tenantID int64, ipAddress, userAgent string) (*LoginResult, error) {
	return m.authenticateFn(ctx, dto, tenantID, ipAddress, userAgent)
}

func (m *mockAuthService) Refresh(ctx context.Context, compositeToken, ipAddress, userAgent string) (*AuthTokens, error) {
	return m.refreshFn(ctx, compositeToken, ipAddress, userAgent)
}

func (m *mockAuthService) Logout(_ context.Context, compositeToken string) {
	m.loggedOutTokens = append(m.loggedOutTokens, compositeToken)
}

func (m *mockAuthService) ForgotPassword(_ context.Context, _ int64, email string) {
	m.forgotEmails = append(m.forgotEmails, email)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	return m.resetFn(ctx, dto)
}

func (m *mockAuthService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateFn(tokenString)
}

func (m *mockAuthService) GetAuthenticatedUser(ctx context.Context, userID, tenantID int64) (*AuthenticatedUser, error) {
	return m.getUserFn(ctx, userID, tenantID)
}

func refreshCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var _ = ginkgo.Describe("AuthHandler", func() {
	const cookieName = "refreshToken"

	var (
		handler *Handler
		service *mockAuthService
	)

	ginkgo.BeforeEach(func() {
		service = &mockAuthService{}
		handler = NewHandler(service, cookieName, 24*time.Hour, false)
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should set the refresh cookie and return the access token", func() {
			service.authenticateFn = func(_ context.Context, dto LoginDTO, tenantID int64, _, _ string) (*LoginResult, error) {
				gomega.Expect(tenantID).To(gomega.Equal(int64(10)))
				gomega.Expect(dto.Email).To(gomega.Equal("cashier@example.com"))
				return &LoginResult{
					User: &AuthenticatedUser{ID: 1, TenantID: 10, Email: dto.Email},
					Tokens: AuthTokens{
						AccessToken:  "access-jwt",
						RefreshToken: "record-id.secret",
					},
				}, nil
			}

			body := strings.NewReader(`{"email":"cashier@example.com","password":"correct_password"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			req = req.WithContext(internal.ContextWithTenantID(req.Context(), 10))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("access-jwt"))
			gomega.Expect(w.Body.String()).ToNot(gomega.ContainSubstring("record-id.secret"))

			cookie := refreshCookie(w, cookieName)
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.Equal("record-id.secret"))
			gomega.Expect(cookie.HttpOnly).To(gomega.BeTrue())
			gomega.Expect(cookie.SameSite).To(gomega.Equal(http.SameSiteLaxMode))
		})

		ginkgo.It("should fail with an internal error when tenant context is missing", func() {
			body := strings.NewReader(`{"email":"cashier@example.com","password":"x"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
		})

		ginkgo.It("should pass through the generic unauthorized error", func() {
			service.authenticateFn = func(_ context.Context, _ LoginDTO, _ int64, _, _ string) (*LoginResult, error) {
				return nil, internal.ErrInvalidCredentials
			}

			body := strings.NewReader(`{"email":"cashier@example.com","password":"wrong"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			req = req.WithContext(internal.ContextWithTenantID(req.Context(), 10))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("invalid email or password"))
			gomega.Expect(refreshCookie(w, cookieName)).To(gomega.BeNil())
		})

		ginkgo.It("should reject a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{"))
			w := httptest.NewRecorder()

			handler.Login(w, req)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("RefreshToken", func() {
		ginkgo.It("should rotate the cookie on success", func() {
			service.refreshFn = func(_ context.Context, compositeToken, _, _ string) (*AuthTokens, error) {
				gomega.Expect(compositeToken).To(gomega.Equal("old-id.old-secret"))
				return &AuthTokens{AccessToken: "new-access", RefreshToken: "new-id.new-secret"}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
			req.AddCookie(&http.Cookie{Name: cookieName, Value: "old-id.old-secret"})
			w := httptest.NewRecorder()

			handler.RefreshToken(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("new-access"))

			cookie := refreshCookie(w, cookieName)
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.Equal("new-id.new-secret"))
		})

		ginkgo.It("should reject a request without the cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
			w := httptest.NewRecorder()

			handler.RefreshToken(w, req)
			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should clear the cookie when rotation fails", func() {
			service.refreshFn = func(_ context.Context, _, _, _ string) (*AuthTokens, error) {
				return nil, internal.ErrInvalidRefreshToken
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/refresh-token", nil)
			req.AddCookie(&http.Cookie{Name: cookieName, Value: "stolen-id.stolen-secret"})
			w := httptest.NewRecorder()

			handler.RefreshToken(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			cookie := refreshCookie(w, cookieName)
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.Value).To(gomega.BeEmpty())
			gomega.Expect(cookie.MaxAge).To(gomega.BeNumerically("<", 0))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should revoke the token and clear the cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: cookieName, Value: "some-id.some-secret"})
			w := httptest.NewRecorder()

			handler.Logout(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.loggedOutTokens).To(gomega.ConsistOf("some-id.some-secret"))

			cookie := refreshCookie(w, cookieName)
			gomega.Expect(cookie).ToNot(gomega.BeNil())
			gomega.Expect(cookie.MaxAge).To(gomega.BeNumerically("<", 0))
		})

		ginkgo.It("should succeed even without a cookie", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			w := httptest.NewRecorder()

			handler.Logout(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(service.loggedOutTokens).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("ForgotPassword", func() {
		ginkgo.It("should return the same generic message for any email", func() {
			body := strings.NewReader(`{"email":"anyone@example.com"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", body)
			req = req.WithContext(internal.ContextWithTenantID(req.Context(), 10))
			w := httptest.NewRecorder()

			handler.ForgotPassword(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("if the email exists"))
			gomega.Expect(service.forgotEmails).To(gomega.ConsistOf("anyone@example.com"))
		})

		ginkgo.It("should reject an invalid email before touching the service", func() {
			body := strings.NewReader(`{"email":"not-an-email"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", body)
			req = req.WithContext(internal.ContextWithTenantID(req.Context(), 10))
			w := httptest.NewRecorder()

			handler.ForgotPassword(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusBadRequest))
			gomega.Expect(service.forgotEmails).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("AuthMiddleware", func() {
		var (
			nextUser   *AuthenticatedUser
			nextTenant int64
			nextCalled bool
			protected  http.Handler
		)

		ginkgo.BeforeEach(func() {
			nextUser = nil
			nextTenant = 0
			nextCalled = false
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				nextUser, _ = UserFromContext(r.Context())
				nextTenant, _ = internal.TenantIDFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
		})

		ginkgo.It("should attach the user and tenant for a valid token", func() {
			service.validateFn = func(tokenString string) (*Claims, error) {
				gomega.Expect(tokenString).To(gomega.Equal("valid-jwt"))
				return &Claims{UserID: 1, TenantID: 10}, nil
			}
			service.getUserFn = func(_ context.Context, userID, tenantID int64) (*AuthenticatedUser, error) {
				return &AuthenticatedUser{ID: userID, TenantID: tenantID, Email: "cashier@example.com"}, nil
			}

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer valid-jwt")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(nextCalled).To(gomega.BeTrue())
			gomega.Expect(nextUser.Email).To(gomega.Equal("cashier@example.com"))
			gomega.Expect(nextTenant).To(gomega.Equal(int64(10)))
		})

		ginkgo.It("should reject a request without a bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(nextCalled).To(gomega.BeFalse())
		})

		ginkgo.It("should distinguish an expired token from an invalid one", func() {
			service.validateFn = func(string) (*Claims, error) {
				return nil, internal.ErrTokenExpired
			}

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer stale-jwt")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("TOKEN_EXPIRED"))
		})

		ginkgo.It("should fail closed when the user cannot be loaded", func() {
			service.validateFn = func(string) (*Claims, error) {
				return &Claims{UserID: 1, TenantID: 10}, nil
			}
			service.getUserFn = func(_ context.Context, _, _ int64) (*AuthenticatedUser, error) {
				return nil, internal.ErrAuthFailed
			}

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", "Bearer valid-jwt")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(nextCalled).To(gomega.BeFalse())
		})
	})
})
