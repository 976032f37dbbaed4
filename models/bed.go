package models

// Bed is the unit a patient occupies. Bed names repeat across rooms, so
// uniqueness is scoped to (nombre, habitacion_id).
type Bed struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"column:nombre;size:50;uniqueIndex:idx_cama_habitacion" json:"nombre"`
	RoomID uint   `gorm:"column:habitacion_id;uniqueIndex:idx_cama_habitacion" json:"habitacion_id"`
	Active bool   `gorm:"column:activo;default:true" json:"activo"`

	Room Room `gorm:"foreignKey:RoomID" json:"habitacion,omitempty"`
}

func (Bed) TableName() string { return "camas" }
