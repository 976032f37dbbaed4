package models

import "time"

// Patient is one admission of a person. The surrogate ID identifies the row;
// the business identity is the cedula (national ID), which repeats across
// admissions: discharging a patient deactivates the row and a later admission
// with the same cedula creates a new one with AdmissionCount+1 and the
// username suffixed accordingly. Rows are never merged or deleted on
// discharge.
type Patient struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	NationalID     string `gorm:"column:cedula;size:20;index" json:"cedula"`
	Name           string `gorm:"column:nombre;size:100" json:"name"`
	Username       string `gorm:"column:username;size:150;index" json:"username"`
	Email          string `gorm:"column:email;size:150" json:"email"`
	BedID          uint   `gorm:"column:cama_id;index" json:"cama_id"`
	AdmissionCount int    `gorm:"column:ingreso_count;default:1" json:"ingreso_count"`
	Active         bool   `gorm:"column:activo;default:true" json:"activo"`

	Bed       Bed       `gorm:"foreignKey:BedID" json:"cama,omitempty"`
	Diets     []Diet    `gorm:"many2many:paciente_dietas" json:"dietas"`
	Allergies []Allergy `gorm:"many2many:paciente_alergias" json:"alergias"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (Patient) TableName() string { return "pacientes" }
