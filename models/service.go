package models

// Service is a top-level hospital department (cardiología, medicina interna, ...).
// Deactivating a service cascades down to its rooms, beds and patients; the
// cascade itself lives in services.HierarchyService.
type Service struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"column:nombre;size:255" json:"nombre"`
	Active bool   `gorm:"column:activo;default:true" json:"activo"`

	Rooms []Room `gorm:"foreignKey:ServiceID" json:"habitaciones,omitempty"`
}

func (Service) TableName() string { return "servicios" }
