package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles. Admin unlocks user management; everyone else only gets the
// clinical/meal endpoints.
const (
	RoleAdmin       = "admin"
	RoleCoordinator = "coordinadora"
	RoleKitchenAux  = "auxiliar"
	RoleHeadNurse   = "jefe_enfermeria"
)

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleKitchenAux, RoleHeadNurse:
		return true
	}
	return false
}

// User is a staff account used by the auth service. Patients are not users;
// their identifiers live on the Patient row.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"uniqueIndex;size:150" json:"username"`
	Name     string `gorm:"column:nombre;size:255" json:"name"`
	Email    string `gorm:"size:150" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never serialized
	Role     string `gorm:"size:20" json:"role"`
	Active   bool   `gorm:"column:activo;default:true" json:"activo"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "usuarios" }
