package models

// Room belongs to exactly one Service. A room can only be active while its
// service is active.
type Room struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"column:nombre;uniqueIndex;size:255" json:"nombre"`
	ServiceID uint   `gorm:"column:servicio_id;index" json:"servicio_id"`
	Active    bool   `gorm:"column:activo;default:true" json:"activo"`

	Service Service `gorm:"foreignKey:ServiceID" json:"servicio,omitempty"`
	Beds    []Bed   `gorm:"foreignKey:RoomID" json:"camas,omitempty"`
}

func (Room) TableName() string { return "habitaciones" }
