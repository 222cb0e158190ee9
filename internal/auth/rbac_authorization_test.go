package auth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac     *RBACAuthorization
		okCalled bool
		okNext   http.Handler
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	requestAs := func(user *AuthenticatedUser) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if user != nil {
			req = req.WithContext(ContextWithUser(req.Context(), user))
		}
		return req
	}

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(testLogger, false)
		okCalled = false
		okNext = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			okCalled = true
			w.WriteHeader(http.StatusOK)
		})
	})

	ginkgo.Describe("RequirePermissions", func() {
		ginkgo.It("should pass when every required permission is held", func() {
			guard := rbac.RequirePermissions("sale:create", "sale:read")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(&AuthenticatedUser{
				ID:          1,
				Permissions: []string{"sale:create", "sale:read", "product:read"},
			}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(okCalled).To(gomega.BeTrue())
		})

		ginkgo.It("should deny when any required permission is missing", func() {
			guard := rbac.RequirePermissions("sale:create", "sale:refund")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(&AuthenticatedUser{
				ID:          1,
				Permissions: []string{"sale:create"},
			}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(okCalled).To(gomega.BeFalse())
			gomega.Expect(w.Body.String()).To(gomega.ContainSubstring("INSUFFICIENT_PERMISSIONS"))
		})

		ginkgo.It("should treat a missing authenticated context as an internal error", func() {
			guard := rbac.RequirePermissions("sale:create")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(okCalled).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("RequireAnyRole", func() {
		ginkgo.It("should pass when the user holds one of the roles", func() {
			guard := rbac.RequireAnyRole("Admin", "Manager")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(&AuthenticatedUser{
				ID:    1,
				Roles: []string{"Manager"},
			}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(okCalled).To(gomega.BeTrue())
		})

		ginkgo.It("should deny when no role matches", func() {
			guard := rbac.RequireAnyRole("Admin")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(&AuthenticatedUser{
				ID:    1,
				Roles: []string{"Cashier"},
			}))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(okCalled).To(gomega.BeFalse())
		})

		ginkgo.It("should treat a missing authenticated context as an internal error", func() {
			guard := rbac.RequireAnyRole("Admin")(okNext)
			w := httptest.NewRecorder()

			guard.ServeHTTP(w, requestAs(nil))

			gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
		})
	})
})
