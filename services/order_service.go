package services

import (
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// OrderService owns meal orders. The status field and the per-section
// completion map are maintained by different call paths and may diverge;
// is_fully_completed is derived from the section map on every read and is
// never persisted.
type OrderService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewOrderService(db *gorm.DB, audit *AuditService) *OrderService {
	return &OrderService{DB: db, Audit: audit}
}

type OrderOptionInput struct {
	ID       uint `json:"id"`
	Selected bool `json:"selected"`
}

type OrderInput struct {
	PatientID     uint                   `json:"paciente_id" binding:"required"`
	MenuID        uint                   `json:"menu_id" binding:"required"`
	Options       []OrderOptionInput     `json:"opciones"`
	Additional    map[string]interface{} `json:"adicionales"`
	SectionStatus map[string]interface{} `json:"sectionStatus"`
	Notes         string                 `json:"observaciones"`
}

// OrderUpdate is a partial update. When Options is non-empty the stored
// selection set is deleted and recreated wholesale; callers must always
// resend the complete selection.
type OrderUpdate struct {
	PatientID     *uint                   `json:"paciente_id"`
	MenuID        *uint                   `json:"menu_id"`
	Status        *string                 `json:"status"`
	Options       []OrderOptionInput      `json:"opciones"`
	Additional    *map[string]interface{} `json:"adicionales"`
	SectionStatus *map[string]interface{} `json:"sectionStatus"`
	Notes         *string                 `json:"observaciones"`
}

// OrderStatusUpdate is the PATCH /pedidos/:id/status payload, restricted to
// the two completion tracks.
type OrderStatusUpdate struct {
	Status        *string                 `json:"status"`
	SectionStatus *map[string]interface{} `json:"sectionStatus"`
}

// OrderFilters narrows the order listing.
type OrderFilters struct {
	Status    string
	PatientID string
	DateFrom  string
	DateTo    string
}

// OrderView decorates an order with its derived completion flag.
type OrderView struct {
	models.Order
	IsFullyCompleted bool `json:"is_fully_completed"`
}

func toView(o models.Order) OrderView {
	return OrderView{Order: o, IsFullyCompleted: o.IsFullyCompleted()}
}

func validStatus(s string) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusInProcess, models.OrderStatusCompleted:
		return true
	}
	return false
}

func (s *OrderService) preloaded() *gorm.DB {
	return s.DB.
		Preload("Patient.Bed.Room.Service").
		Preload("Patient.Diets").
		Preload("Patient.Allergies").
		Preload("Menu.Sections.Options").
		Preload("Options.MenuOption")
}

func (s *OrderService) List(f OrderFilters) ([]OrderView, error) {
	q := s.preloaded().Order("fecha_pedido DESC")

	switch {
	case f.Status == models.OrderStatusPending:
		// "Pendiente" in the listing means not fully worked: an empty
		// section map or any status short of completado qualifies.
		q = q.Where("status <> ? OR section_status IS NULL OR section_status = ?",
			models.OrderStatusCompleted, "{}")
	case f.Status != "":
		q = q.Where("status = ?", f.Status)
	}
	if f.PatientID != "" {
		q = q.Where("paciente_id = ?", f.PatientID)
	}
	if f.DateFrom != "" {
		q = q.Where("fecha_pedido >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("fecha_pedido <= ?", f.DateTo)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, toView(orders[i]))
	}
	return views, nil
}

// ListCompleted returns orders whose status field is completado, optionally
// for a single patient. Status, not the section map, is what counts here.
func (s *OrderService) ListCompleted(patientID string) ([]OrderView, error) {
	q := s.preloaded().Where("status = ?", models.OrderStatusCompleted)
	if patientID != "" {
		q = q.Where("paciente_id = ?", patientID)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, toView(orders[i]))
	}
	return views, nil
}

func (s *OrderService) Get(id uint) (OrderView, error) {
	var order models.Order
	if err := s.preloaded().First(&order, id).Error; err != nil {
		if IsNotFound(err) {
			return OrderView{}, NewNotFound(fmt.Sprintf("pedido %d no existe", id))
		}
		return OrderView{}, err
	}
	return toView(order), nil
}

// Create persists a new order plus one join row per selected catalog option.
// Unknown option ids are skipped silently, as are duplicates; that leniency
// is the documented contract, not a bug.
func (s *OrderService) Create(actorID *uint, in OrderInput) (OrderView, error) {
	var patient models.Patient
	if err := s.DB.First(&patient, in.PatientID).Error; err != nil {
		if IsNotFound(err) {
			return OrderView{}, NewValidation("el paciente indicado no existe")
		}
		return OrderView{}, err
	}
	if !patient.Active {
		return OrderView{}, NewValidation("no se puede crear un pedido para un paciente inactivo")
	}
	var menu models.Menu
	if err := s.DB.First(&menu, in.MenuID).Error; err != nil {
		if IsNotFound(err) {
			return OrderView{}, NewValidation("el menú indicado no existe")
		}
		return OrderView{}, err
	}

	if in.Additional == nil {
		in.Additional = map[string]interface{}{}
	}
	if in.SectionStatus == nil {
		in.SectionStatus = map[string]interface{}{}
	}

	order := models.Order{
		PatientID:     in.PatientID,
		MenuID:        in.MenuID,
		Status:        models.OrderStatusPending,
		Additional:    datatypes.JSONMap(in.Additional),
		SectionStatus: datatypes.JSONMap(in.SectionStatus),
		Notes:         in.Notes,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return createOrderOptions(tx, order.ID, in.Options)
	})
	if err != nil {
		return OrderView{}, err
	}

	s.Audit.Record(actorID, models.ActionCreate, "Pedido", &order.ID, map[string]interface{}{
		"paciente_id": in.PatientID,
		"menu_id":     in.MenuID,
		"status":      order.Status,
	})
	return s.Get(order.ID)
}

// Update applies a partial edit. A non-empty Options slice replaces the
// entire stored selection (delete-all-then-recreate); partial lists silently
// drop prior selections that were not resent.
func (s *OrderService) Update(actorID *uint, id uint, in OrderUpdate) (OrderView, error) {
	current, err := s.Get(id)
	if err != nil {
		return OrderView{}, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}

		// An order stuck on an inactive patient silently keeps it;
		// pointing at a new inactive patient is rejected.
		if in.PatientID != nil && *in.PatientID != current.PatientID {
			if current.Patient.Active {
				var target models.Patient
				if err := tx.First(&target, *in.PatientID).Error; err != nil {
					if IsNotFound(err) {
						return NewValidation("el paciente indicado no existe")
					}
					return err
				}
				if !target.Active {
					return NewValidation("no se puede crear un pedido para un paciente inactivo")
				}
				updates["paciente_id"] = *in.PatientID
			}
		}
		if in.MenuID != nil {
			var menu models.Menu
			if err := tx.First(&menu, *in.MenuID).Error; err != nil {
				if IsNotFound(err) {
					return NewValidation("el menú indicado no existe")
				}
				return err
			}
			updates["menu_id"] = *in.MenuID
		}
		if in.Status != nil {
			if !validStatus(*in.Status) {
				return NewValidation(fmt.Sprintf("status inválido: %q", *in.Status))
			}
			updates["status"] = *in.Status
		}
		if in.Additional != nil {
			updates["adicionales"] = datatypes.JSONMap(*in.Additional)
		}
		if in.SectionStatus != nil {
			updates["section_status"] = datatypes.JSONMap(*in.SectionStatus)
		}
		if in.Notes != nil {
			updates["observaciones"] = *in.Notes
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Order{}).Where("id = ?", id).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		if len(in.Options) > 0 {
			if err := tx.Where("pedido_id = ?", id).
				Delete(&models.OrderMenuOption{}).Error; err != nil {
				return err
			}
			return createOrderOptions(tx, id, in.Options)
		}
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Pedido", &id, map[string]interface{}{
		"status":        in.Status,
		"sectionStatus": in.SectionStatus,
	})
	return s.Get(id)
}

// UpdateStatus is the restricted PATCH: only status and sectionStatus move.
func (s *OrderService) UpdateStatus(actorID *uint, id uint, in OrderStatusUpdate) (OrderView, error) {
	if _, err := s.Get(id); err != nil {
		return OrderView{}, err
	}

	updates := map[string]interface{}{}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return OrderView{}, NewValidation(fmt.Sprintf("status inválido: %q", *in.Status))
		}
		updates["status"] = *in.Status
	}
	if in.SectionStatus != nil {
		updates["section_status"] = datatypes.JSONMap(*in.SectionStatus)
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&models.Order{}).Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return OrderView{}, err
		}
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Pedido", &id, map[string]interface{}{
		"status":        in.Status,
		"sectionStatus": in.SectionStatus,
	})
	return s.Get(id)
}

func (s *OrderService) Delete(actorID *uint, id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).
			Delete(&models.OrderMenuOption{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewNotFound(fmt.Sprintf("pedido %d no existe", id))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionDelete, "Pedido", &id, nil)
	return nil
}

func createOrderOptions(tx *gorm.DB, orderID uint, options []OrderOptionInput) error {
	seen := map[uint]bool{}
	for _, opt := range options {
		if opt.ID == 0 || seen[opt.ID] {
			continue
		}
		var menuOption models.MenuOption
		if err := tx.First(&menuOption, opt.ID).Error; err != nil {
			if IsNotFound(err) {
				continue // unknown catalog ids are skipped, not rejected
			}
			return err
		}
		row := models.OrderMenuOption{
			OrderID:      orderID,
			MenuOptionID: menuOption.ID,
			Selected:     opt.Selected,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		seen[opt.ID] = true
	}
	return nil
}
