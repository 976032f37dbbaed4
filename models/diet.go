package models

// Diet is a prescribable feeding regime. Many-to-many with Patient; it can
// only be deactivated or deleted while no active patient references it.
type Diet struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:nombre;uniqueIndex;size:255" json:"nombre"`
	Description string `gorm:"column:descripcion;type:text" json:"descripcion"`
	Active      bool   `gorm:"column:activo;default:true" json:"activo"`
}

func (Diet) TableName() string { return "dietas" }
