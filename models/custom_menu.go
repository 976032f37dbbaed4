package models

import (
	"time"

	"gorm.io/datatypes"
)

// CustomMenu is the per-patient daily selection sheet filled in at the
// bedside: grouped checkbox selections (desayuno, almuerzo, algo, onces, ...)
// plus a daily extra and a signature flag.
type CustomMenu struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Date       time.Time         `gorm:"column:fecha;type:date" json:"fecha"`
	PatientID  uint              `gorm:"column:paciente_id;index" json:"paciente_id"`
	DailyExtra string            `gorm:"column:adicional_diario;size:50" json:"adicional_diario"`
	Notes      string            `gorm:"column:observaciones;type:text" json:"observaciones"`
	Signed     bool              `gorm:"column:firma;default:false" json:"firma"`
	Selections datatypes.JSONMap `gorm:"column:selecciones" json:"selecciones"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"paciente,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (CustomMenu) TableName() string { return "menus_personalizados" }
