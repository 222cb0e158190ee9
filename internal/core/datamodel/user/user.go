package user

import "time"

// User is tenant-scoped; email is unique per tenant, not globally.
type User struct {
	ID           int64     `gorm:"primaryKey"`
	TenantID     int64     `gorm:"column:tenant_id;not null;uniqueIndex:idx_users_tenant_email"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:idx_users_tenant_email"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`

	Roles     []Role     `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	Locations []Location `gorm:"many2many:user_locations;joinForeignKey:UserID;joinReferences:LocationID"`
}

func (User) TableName() string {
	return "users"
}

// Role bundles permissions per tenant. GrantsAllLocations replaces admin
// role-name matching: any role with the flag set gives the user access to
// every location in the tenant. IsSystem protects seeded roles from deletion.
type Role struct {
	ID                 int64     `gorm:"primaryKey"`
	TenantID           int64     `gorm:"column:tenant_id;not null;uniqueIndex:idx_roles_tenant_name"`
	Name               string    `gorm:"column:name;not null;uniqueIndex:idx_roles_tenant_name"`
	Description        string    `gorm:"column:description"`
	IsSystem           bool      `gorm:"column:is_system;default:false"`
	GrantsAllLocations bool      `gorm:"column:grants_all_locations;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at;default:now()"`

	Permissions []Permission `gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`
}

func (Role) TableName() string {
	return "roles"
}

// Permission is global reference data, seeded once. Key is the stable
// identifier checked by authorization, e.g. "product:create".
type Permission struct {
	ID          int64     `gorm:"primaryKey"`
	Key         string    `gorm:"column:key;uniqueIndex;not null"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;default:now()"`
}

func (Permission) TableName() string {
	return "permissions"
}

type UserRole struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleID    int64     `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type RolePermission struct {
	RoleID       int64     `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	PermissionID int64     `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type Location struct {
	ID        int64     `gorm:"primaryKey"`
	TenantID  int64     `gorm:"column:tenant_id;not null"`
	Name      string    `gorm:"column:name;not null"`
	Address   string    `gorm:"column:address"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Location) TableName() string {
	return "locations"
}

type UserLocation struct {
	UserID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	LocationID int64     `gorm:"column:location_id;primaryKey;autoIncrement:false"`
	CreatedAt  time.Time `gorm:"column:created_at;default:now()"`
}

func (UserLocation) TableName() string {
	return "user_locations"
}
