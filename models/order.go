package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order (pedido) lifecycle states. Status is maintained by explicit PATCHes
// and is independent from the per-section completion map; the two can
// diverge and callers reconcile them.
const (
	OrderStatusPending    = "pendiente"
	OrderStatusInProcess  = "en_proceso"
	OrderStatusCompleted  = "completado"
	SectionStateCompleted = "completado"
)

// RequiredSections are the section keys that must all be "completado" for an
// order to count as fully completed.
var RequiredSections = []string{
	"desayuno",
	"almuerzo",
	"cena",
	"bebidas_calientes",
	"bebidas_frias",
	"snacks",
}

type Order struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PatientID uint `gorm:"column:paciente_id;index" json:"-"`
	MenuID    uint `gorm:"column:menu_id;index" json:"-"`

	Status        string            `gorm:"column:status;size:20;default:pendiente" json:"status"`
	Additional    datatypes.JSONMap `gorm:"column:adicionales" json:"adicionales"`
	SectionStatus datatypes.JSONMap `gorm:"column:section_status" json:"sectionStatus"`
	Notes         string            `gorm:"column:observaciones;type:text" json:"observaciones"`

	Patient Patient           `gorm:"foreignKey:PatientID" json:"paciente,omitempty"`
	Menu    Menu              `gorm:"foreignKey:MenuID" json:"menu,omitempty"`
	Options []OrderMenuOption `gorm:"foreignKey:OrderID" json:"opciones"`

	OrderedAt time.Time `gorm:"column:fecha_pedido;autoCreateTime" json:"fecha_pedido"`
}

func (Order) TableName() string { return "pedidos" }

// IsFullyCompleted reports whether every required section is marked
// completed. An empty or partial map is never complete. Derived on every
// read, never persisted.
func (o *Order) IsFullyCompleted() bool {
	if len(o.SectionStatus) == 0 {
		return false
	}
	for _, section := range RequiredSections {
		v, ok := o.SectionStatus[section].(string)
		if !ok || v != SectionStateCompleted {
			return false
		}
	}
	return true
}

// OrderMenuOption records one catalog option chosen for an order. The whole
// set is replaced on every update that carries options; it is never diffed.
type OrderMenuOption struct {
	ID           uint `gorm:"primaryKey" json:"-"`
	OrderID      uint `gorm:"column:pedido_id;index" json:"-"`
	MenuOptionID uint `gorm:"column:menu_option_id;index" json:"-"`
	Selected     bool `gorm:"column:selected;default:false" json:"selected"`

	MenuOption MenuOption `gorm:"foreignKey:MenuOptionID" json:"menu_option"`
}

func (OrderMenuOption) TableName() string { return "pedido_menu_options" }
