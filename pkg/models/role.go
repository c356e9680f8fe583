package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Permission codenames.
const (
	PermissionEditBooks    = "can_edit_books"
	PermissionEditAuthors  = "can_edit_authors"
	PermissionCreateCopy   = "can_create_copy"
	PermissionMarkReturned = "can_mark_returned"
	PermissionEditSite     = "can_edit_site"
	PermissionManageUsers  = "can_manage_users"
)

// CatalogPermissions are the permissions a librarian needs to run the desk.
var CatalogPermissions = []string{
	PermissionEditBooks,
	PermissionEditAuthors,
	PermissionCreateCopy,
	PermissionMarkReturned,
}

// AllPermissions lists every known codename.
var AllPermissions = append(append([]string{}, CatalogPermissions...), PermissionEditSite, PermissionManageUsers)

// Predefined role names.
const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          int           `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Name        string        `bun:",nullzero" json:"name"`
	IsSystem    bool          `json:"is_system"`
	Permissions []*Permission `bun:"rel:has-many,join:id=role_id" json:"permissions,omitempty"`
}

type Permission struct {
	bun.BaseModel `bun:"table:permissions,alias:p"`

	ID       int    `bun:",pk,nullzero" json:"id"`
	RoleID   int    `json:"role_id"`
	Codename string `json:"codename"`
}

// HasPermission checks if the role grants the given codename.
func (r *Role) HasPermission(codename string) bool {
	for _, p := range r.Permissions {
		if p.Codename == codename {
			return true
		}
	}
	return false
}

// IsKnownPermission reports whether codename is one of AllPermissions.
func IsKnownPermission(codename string) bool {
	for _, p := range AllPermissions {
		if p == codename {
			return true
		}
	}
	return false
}
