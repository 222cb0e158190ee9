package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
)

var _ = ginkgo.Describe("ResolveAccess", func() {
	ginkgo.It("should union permissions across roles without duplicates", func() {
		u := &userdm.User{
			Roles: []userdm.Role{
				{Name: "Cashier", Permissions: []userdm.Permission{
					{Key: "sale:create"}, {Key: "sale:read"},
				}},
				{Name: "Stock", Permissions: []userdm.Permission{
					{Key: "sale:read"}, {Key: "product:read"},
				}},
			},
		}

		permissions, _ := ResolveAccess(u)
		gomega.Expect(permissions).To(gomega.Equal([]string{"product:read", "sale:create", "sale:read"}))
	})

	ginkgo.It("should collapse locations to the wildcard when any role grants all", func() {
		u := &userdm.User{
			Roles: []userdm.Role{
				{Name: "Cashier"},
				{Name: "Admin", GrantsAllLocations: true},
			},
			Locations: []userdm.Location{{ID: 3}, {ID: 5}},
		}

		_, locations := ResolveAccess(u)
		gomega.Expect(locations).To(gomega.Equal([]string{WildcardLocation}))
	})

	ginkgo.It("should list explicit location grants otherwise", func() {
		u := &userdm.User{
			Roles:     []userdm.Role{{Name: "Cashier"}},
			Locations: []userdm.Location{{ID: 5}, {ID: 3}},
		}

		_, locations := ResolveAccess(u)
		gomega.Expect(locations).To(gomega.Equal([]string{"3", "5"}))
	})

	ginkgo.It("should return empty sets for a user without roles", func() {
		permissions, locations := ResolveAccess(&userdm.User{})
		gomega.Expect(permissions).To(gomega.BeEmpty())
		gomega.Expect(locations).To(gomega.BeEmpty())
	})
})

var _ = ginkgo.Describe("AuthenticatedUser", func() {
	user := &AuthenticatedUser{
		Roles:              []string{"Cashier"},
		Permissions:        []string{"sale:create", "sale:read"},
		AllowedLocationIDs: []string{"3"},
	}

	ginkgo.It("should check all required permissions", func() {
		gomega.Expect(user.HasAllPermissions([]string{"sale:create", "sale:read"})).To(gomega.BeTrue())
		gomega.Expect(user.HasAllPermissions([]string{"sale:create", "sale:refund"})).To(gomega.BeFalse())
	})

	ginkgo.It("should report the missing delta", func() {
		gomega.Expect(user.MissingPermissions([]string{"sale:create", "sale:refund"})).To(gomega.Equal([]string{"sale:refund"}))
	})

	ginkgo.It("should match any of the required roles", func() {
		gomega.Expect(user.HasAnyRole([]string{"Admin", "Cashier"})).To(gomega.BeTrue())
		gomega.Expect(user.HasAnyRole([]string{"Admin"})).To(gomega.BeFalse())
	})

	ginkgo.It("should honor explicit and wildcard location grants", func() {
		gomega.Expect(user.CanAccessLocation("3")).To(gomega.BeTrue())
		gomega.Expect(user.CanAccessLocation("4")).To(gomega.BeFalse())

		admin := &AuthenticatedUser{AllowedLocationIDs: []string{WildcardLocation}}
		gomega.Expect(admin.CanAccessLocation("4")).To(gomega.BeTrue())
	})
})
