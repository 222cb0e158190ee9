package user

import "time"

// User is the API view of an account within a tenant.
type User struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the richer shape returned for the current user, including the
// computed access attributes the middleware already resolved.
type Profile struct {
	User
	Permissions        []string `json:"permissions"`
	AllowedLocationIDs []string `json:"allowed_location_ids"`
}
