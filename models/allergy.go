package models

// Allergy follows the same lifecycle rules as Diet.
type Allergy struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"column:nombre;uniqueIndex;size:255" json:"nombre"`
	Description string `gorm:"column:descripcion;type:text" json:"descripcion"`
	Active      bool   `gorm:"column:activo;default:true" json:"activo"`
}

func (Allergy) TableName() string { return "alergias" }
