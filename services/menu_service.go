package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// MenuService manages the menu -> section -> option reference tree. Writes
// take the full nested payload: sections and options are
// upserted in place and anything absent from the payload is pruned.
type MenuService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewMenuService(db *gorm.DB, audit *AuditService) *MenuService {
	return &MenuService{DB: db, Audit: audit}
}

type MenuOptionInput struct {
	ID   uint   `json:"id"`
	Text string `json:"texto" binding:"required"`
}

type MenuSectionInput struct {
	ID    uint   `json:"id"`
	Title string `json:"titulo" binding:"required"`
	// Options grouped by tipo, exactly as they are presented.
	Options map[string][]MenuOptionInput `json:"opciones"`
}

type MenuInput struct {
	Name     string             `json:"nombre" binding:"required"`
	Sections []MenuSectionInput `json:"sections"`
}

// MenuSectionView is the read shape: options grouped by tipo.
type MenuSectionView struct {
	ID      uint                           `json:"id"`
	Title   string                         `json:"titulo"`
	Options map[string][]models.MenuOption `json:"opciones"`
}

type MenuView struct {
	ID       uint              `json:"id"`
	Name     string            `json:"nombre"`
	Sections []MenuSectionView `json:"sections"`
}

func (s *MenuService) List() ([]MenuView, error) {
	var menus []models.Menu
	if err := s.DB.Preload("Sections.Options").Find(&menus).Error; err != nil {
		return nil, err
	}
	views := make([]MenuView, 0, len(menus))
	for i := range menus {
		views = append(views, buildMenuView(menus[i]))
	}
	return views, nil
}

func (s *MenuService) Get(id uint) (MenuView, error) {
	var menu models.Menu
	if err := s.DB.Preload("Sections.Options").First(&menu, id).Error; err != nil {
		if IsNotFound(err) {
			return MenuView{}, NewNotFound(fmt.Sprintf("menú %d no existe", id))
		}
		return MenuView{}, err
	}
	return buildMenuView(menu), nil
}

func (s *MenuService) Create(actorID *uint, in MenuInput) (MenuView, error) {
	var menuID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		menu := models.Menu{Name: in.Name}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		menuID = menu.ID
		for _, sec := range in.Sections {
			section := models.MenuSection{MenuID: menu.ID, Title: sec.Title}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}
			if err := createOptions(tx, section.ID, sec.Options); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return MenuView{}, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Menu", &menuID, map[string]interface{}{
		"nombre": in.Name,
	})
	return s.Get(menuID)
}

// Update rewrites the tree from the payload: sections and options carrying a
// known id are updated, new ones are created, and rows missing from the
// payload are deleted.
func (s *MenuService) Update(actorID *uint, id uint, in MenuInput) (MenuView, error) {
	if _, err := s.Get(id); err != nil {
		return MenuView{}, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Menu{}).Where("id = ?", id).
			Update("nombre", in.Name).Error; err != nil {
			return err
		}

		keptSections := make([]uint, 0, len(in.Sections))
		for _, sec := range in.Sections {
			var section models.MenuSection
			if sec.ID != 0 {
				err := tx.Where("id = ? AND menu_id = ?", sec.ID, id).First(&section).Error
				if err != nil && !IsNotFound(err) {
					return err
				}
			}
			if section.ID == 0 {
				section = models.MenuSection{MenuID: id, Title: sec.Title}
				if err := tx.Create(&section).Error; err != nil {
					return err
				}
			} else if err := tx.Model(&section).Update("titulo", sec.Title).Error; err != nil {
				return err
			}
			keptSections = append(keptSections, section.ID)

			if err := upsertOptions(tx, section.ID, sec.Options); err != nil {
				return err
			}
		}

		// Prune sections (and their options) dropped from the payload.
		orphans := tx.Model(&models.MenuSection{}).Select("id").Where("menu_id = ?", id)
		if len(keptSections) > 0 {
			orphans = orphans.Where("id NOT IN ?", keptSections)
		}
		if err := tx.Where("section_id IN (?)", orphans).
			Delete(&models.MenuOption{}).Error; err != nil {
			return err
		}
		q := tx.Where("menu_id = ?", id)
		if len(keptSections) > 0 {
			q = q.Where("id NOT IN ?", keptSections)
		}
		return q.Delete(&models.MenuSection{}).Error
	})
	if err != nil {
		return MenuView{}, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Menu", &id, map[string]interface{}{
		"nombre": in.Name,
	})
	return s.Get(id)
}

func (s *MenuService) Delete(actorID *uint, id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		sectionIDs := tx.Model(&models.MenuSection{}).Select("id").Where("menu_id = ?", id)
		if err := tx.Where("section_id IN (?)", sectionIDs).
			Delete(&models.MenuOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", id).Delete(&models.MenuSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Menu{}, id).Error
	})
	if err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionDelete, "Menu", &id, nil)
	return nil
}

func createOptions(tx *gorm.DB, sectionID uint, grouped map[string][]MenuOptionInput) error {
	for tipo, opts := range grouped {
		if !models.ValidMenuOptionType(tipo) {
			return NewValidation(fmt.Sprintf("tipo de opción desconocido: %q", tipo))
		}
		for _, opt := range opts {
			option := models.MenuOption{SectionID: sectionID, Text: opt.Text, Type: tipo}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func upsertOptions(tx *gorm.DB, sectionID uint, grouped map[string][]MenuOptionInput) error {
	kept := []uint{}
	for tipo, opts := range grouped {
		if !models.ValidMenuOptionType(tipo) {
			return NewValidation(fmt.Sprintf("tipo de opción desconocido: %q", tipo))
		}
		for _, opt := range opts {
			if opt.ID != 0 {
				var existing models.MenuOption
				err := tx.Where("id = ? AND section_id = ?", opt.ID, sectionID).
					First(&existing).Error
				if err == nil {
					if err := tx.Model(&existing).Updates(map[string]interface{}{
						"texto": opt.Text, "tipo": tipo,
					}).Error; err != nil {
						return err
					}
					kept = append(kept, existing.ID)
					continue
				}
				if !IsNotFound(err) {
					return err
				}
			}
			option := models.MenuOption{SectionID: sectionID, Text: opt.Text, Type: tipo}
			if err := tx.Create(&option).Error; err != nil {
				return err
			}
			kept = append(kept, option.ID)
		}
	}

	q := tx.Where("section_id = ?", sectionID)
	if len(kept) > 0 {
		q = q.Where("id NOT IN ?", kept)
	}
	return q.Delete(&models.MenuOption{}).Error
}

func buildMenuView(menu models.Menu) MenuView {
	view := MenuView{ID: menu.ID, Name: menu.Name}
	for _, sec := range menu.Sections {
		sv := MenuSectionView{ID: sec.ID, Title: sec.Title, Options: map[string][]models.MenuOption{}}
		for _, opt := range sec.Options {
			sv.Options[opt.Type] = append(sv.Options[opt.Type], opt)
		}
		view.Sections = append(view.Sections, sv)
	}
	return view
}
