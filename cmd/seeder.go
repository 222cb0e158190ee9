package cmd

import (
	"fmt"
	"log"

	tenantdm "github.com/hendrawanp/pos-management/internal/core/datamodel/tenant"
	userdm "github.com/hendrawanp/pos-management/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		seedPermissions(db)
		tenantID := seedTenant(db, "Kopi Nusantara", "kopi-nusantara")
		locationIDs := seedLocations(db, tenantID)
		adminRoleID := seedRole(db, tenantID, "Admin", "full access to every location", true, true, permissionCatalog())
		cashierRoleID := seedRole(db, tenantID, "Cashier", "sales operations at assigned locations", true, false, []string{
			"sale:create", "sale:read", "product:read", "user:read",
		})

		seedUser(db, tenantID, "owner@kopinusantara.id", "Owner", adminRoleID, nil)
		seedUser(db, tenantID, "kasir@kopinusantara.id", "Kasir Satu", cashierRoleID, locationIDs[:1])

		fmt.Println("Seed complete")
	},
}

func permissionCatalog() []string {
	return []string{
		"user:read", "user:create", "user:update", "user:delete",
		"role:read", "role:create", "role:update", "role:delete",
		"product:read", "product:create", "product:update", "product:delete",
		"sale:read", "sale:create", "sale:refund",
		"location:read", "location:create", "location:update",
		"report:read",
	}
}

func clearSeedData(db *gorm.DB) {
	tables := []string{
		"user_locations", "user_roles", "role_permissions",
		"refresh_tokens", "password_reset_tokens",
		"users", "roles", "locations", "permissions", "tenants",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedPermissions(db *gorm.DB) {
	for _, key := range permissionCatalog() {
		var existing userdm.Permission
		err := db.Where("key = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to look up permission %s: %v", key, err)
		}
		if err := db.Create(&userdm.Permission{Key: key}).Error; err != nil {
			log.Fatalf("failed to insert permission %s: %v", key, err)
		}
	}
	fmt.Println("Seeded permission catalog")
}

func seedTenant(db *gorm.DB, name, slug string) int64 {
	var existing tenantdm.Tenant
	err := db.Where("slug = ?", slug).First(&existing).Error
	if err == nil {
		fmt.Println("tenant already exists:", slug)
		return existing.ID
	}
	if err != gorm.ErrRecordNotFound {
		log.Fatalf("failed to look up tenant %s: %v", slug, err)
	}

	t := tenantdm.Tenant{Name: name, Slug: slug, IsActive: true}
	if err := db.Create(&t).Error; err != nil {
		log.Fatalf("failed to insert tenant %s: %v", slug, err)
	}
	fmt.Println("Seeded tenant:", slug)
	return t.ID
}

func seedLocations(db *gorm.DB, tenantID int64) []int64 {
	names := []string{"Pusat", "Cabang Selatan"}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		var existing userdm.Location
		err := db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&existing).Error
		if err == nil {
			ids = append(ids, existing.ID)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to look up location %s: %v", name, err)
		}

		loc := userdm.Location{TenantID: tenantID, Name: name, IsActive: true}
		if err := db.Create(&loc).Error; err != nil {
			log.Fatalf("failed to insert location %s: %v", name, err)
		}
		fmt.Println("Seeded location:", name)
		ids = append(ids, loc.ID)
	}
	return ids
}

func seedRole(db *gorm.DB, tenantID int64, name, description string, isSystem, grantsAllLocations bool, permissionKeys []string) int64 {
	var role userdm.Role
	err := db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&role).Error
	if err == gorm.ErrRecordNotFound {
		role = userdm.Role{
			TenantID:           tenantID,
			Name:               name,
			Description:        description,
			IsSystem:           isSystem,
			GrantsAllLocations: grantsAllLocations,
		}
		if err := db.Create(&role).Error; err != nil {
			log.Fatalf("failed to insert role %s: %v", name, err)
		}
		fmt.Println("Seeded role:", name)
	} else if err != nil {
		log.Fatalf("failed to look up role %s: %v", name, err)
	}

	for _, key := range permissionKeys {
		var perm userdm.Permission
		if err := db.Where("key = ?", key).First(&perm).Error; err != nil {
			log.Fatalf("permission not found %s: %v", key, err)
		}

		var existing userdm.RolePermission
		err := db.Where("role_id = ? AND permission_id = ?", role.ID, perm.ID).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to look up role permission: %v", err)
		}
		if err := db.Create(&userdm.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error; err != nil {
			log.Fatalf("failed to grant %s to role %s: %v", key, name, err)
		}
	}
	return role.ID
}

func seedUser(db *gorm.DB, tenantID int64, email, name string, roleID int64, locationIDs []int64) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

	var u userdm.User
	err := db.Where("tenant_id = ? AND email = ?", tenantID, email).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		u = userdm.User{
			TenantID:     tenantID,
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			IsActive:     true,
		}
		if err := db.Create(&u).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", email, err)
		}
		fmt.Println("Seeded user:", email)
	} else if err != nil {
		log.Fatalf("failed to look up user %s: %v", email, err)
	}

	var existingRole userdm.UserRole
	if err := db.Where("user_id = ? AND role_id = ?", u.ID, roleID).First(&existingRole).Error; err == gorm.ErrRecordNotFound {
		if err := db.Create(&userdm.UserRole{UserID: u.ID, RoleID: roleID}).Error; err != nil {
			log.Fatalf("failed to assign role to %s: %v", email, err)
		}
	}

	for _, locID := range locationIDs {
		var existingLoc userdm.UserLocation
		if err := db.Where("user_id = ? AND location_id = ?", u.ID, locID).First(&existingLoc).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&userdm.UserLocation{UserID: u.ID, LocationID: locID}).Error; err != nil {
				log.Fatalf("failed to assign location to %s: %v", email, err)
			}
		}
	}
}
