package auth

import (
	"sort"
	"strconv"

	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
)

// ResolveAccess computes the effective permission set and allowed locations
// for a loaded user graph. Pure function, recomputed per request; nothing
// here is cached.
//
// Permissions are the union across all assigned roles. Locations are either
// the wildcard (any role with GrantsAllLocations set) or the explicitly
// granted location IDs.
func ResolveAccess(u *userdm.User) (permissions []string, allowedLocationIDs []string) {
	permSet := make(map[string]struct{})
	allLocations := false

	for _, role := range u.Roles {
		if role.GrantsAllLocations {
			allLocations = true
		}
		for _, perm := range role.Permissions {
			permSet[perm.Key] = struct{}{}
		}
	}

	permissions = make([]string, 0, len(permSet))
	for key := range permSet {
		permissions = append(permissions, key)
	}
	sort.Strings(permissions)

	if allLocations {
		return permissions, []string{WildcardLocation}
	}

	allowedLocationIDs = make([]string, 0, len(u.Locations))
	for _, loc := range u.Locations {
		allowedLocationIDs = append(allowedLocationIDs, strconv.FormatInt(loc.ID, 10))
	}
	sort.Strings(allowedLocationIDs)

	return permissions, allowedLocationIDs
}

// BuildAuthenticatedUser projects the datamodel graph into the per-request
// identity attached to the context.
func BuildAuthenticatedUser(u *userdm.User) *AuthenticatedUser {
	permissions, locations := ResolveAccess(u)

	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, role.Name)
	}

	return &AuthenticatedUser{
		ID:                 u.ID,
		TenantID:           u.TenantID,
		Email:              u.Email,
		Name:               u.Name,
		Roles:              roles,
		Permissions:        permissions,
		AllowedLocationIDs: locations,
	}
}
