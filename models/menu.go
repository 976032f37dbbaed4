package models

// Menu is a read-mostly reference tree: Menu -> MenuSection -> MenuOption.
// Orders point into it but never mutate it.
type Menu struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"column:nombre;size:255" json:"nombre"`

	Sections []MenuSection `gorm:"foreignKey:MenuID" json:"sections"`
}

func (Menu) TableName() string { return "menus" }

type MenuSection struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	MenuID uint   `gorm:"column:menu_id;index" json:"-"`
	Title  string `gorm:"column:titulo;size:255" json:"titulo"`

	Options []MenuOption `gorm:"foreignKey:SectionID" json:"-"`
}

func (MenuSection) TableName() string { return "menu_sections" }

type MenuOption struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	SectionID uint   `gorm:"column:section_id;index" json:"-"`
	Text      string `gorm:"column:texto;size:255" json:"texto"`
	Type      string `gorm:"column:tipo;size:50" json:"tipo"`
}

func (MenuOption) TableName() string { return "menu_options" }

// Option categories used to group options inside a section for presentation.
var MenuOptionTypes = []string{
	"entrada",
	"huevos",
	"acompanante",
	"toppings",
	"bebidas",
	"media_manana_fit",
	"media_manana_tradicional",
	"bebidas_calientes",
	"bebidas_frias",
	"sopa_del_dia",
	"plato_principal",
	"vegetariano",
	"vegetales",
	"postre",
	"refrigerio_fit",
	"refrigerio_tradicional",
	"adicionales",
}

func ValidMenuOptionType(t string) bool {
	for _, v := range MenuOptionTypes {
		if v == t {
			return true
		}
	}
	return false
}
