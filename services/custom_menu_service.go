package services

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// CustomMenuService is plain CRUD over the daily bedside selection sheets.
type CustomMenuService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewCustomMenuService(db *gorm.DB, audit *AuditService) *CustomMenuService {
	return &CustomMenuService{DB: db, Audit: audit}
}

type CustomMenuInput struct {
	Date       string                 `json:"fecha" binding:"required"`
	PatientID  uint                   `json:"paciente_id" binding:"required"`
	DailyExtra string                 `json:"adicional_diario"`
	Notes      string                 `json:"observaciones"`
	Signed     bool                   `json:"firma"`
	Selections map[string]interface{} `json:"selecciones"`
}

func (s *CustomMenuService) List(patientID string) ([]models.CustomMenu, error) {
	q := s.DB.Preload("Patient").Order("fecha DESC")
	if patientID != "" {
		q = q.Where("paciente_id = ?", patientID)
	}
	var out []models.CustomMenu
	err := q.Find(&out).Error
	return out, err
}

func (s *CustomMenuService) Get(id uint) (models.CustomMenu, error) {
	var cm models.CustomMenu
	if err := s.DB.Preload("Patient").First(&cm, id).Error; err != nil {
		if IsNotFound(err) {
			return cm, NewNotFound(fmt.Sprintf("menú personalizado %d no existe", id))
		}
		return cm, err
	}
	return cm, nil
}

func (s *CustomMenuService) Create(actorID *uint, in CustomMenuInput) (models.CustomMenu, error) {
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return models.CustomMenu{}, NewValidation("fecha inválida, formato esperado AAAA-MM-DD")
	}
	var patient models.Patient
	if err := s.DB.First(&patient, in.PatientID).Error; err != nil {
		if IsNotFound(err) {
			return models.CustomMenu{}, NewValidation("el paciente indicado no existe")
		}
		return models.CustomMenu{}, err
	}
	if !patient.Active {
		return models.CustomMenu{}, NewValidation("no se puede registrar un menú para un paciente inactivo")
	}
	if in.Selections == nil {
		in.Selections = map[string]interface{}{}
	}
	cm := models.CustomMenu{
		Date:       date,
		PatientID:  in.PatientID,
		DailyExtra: in.DailyExtra,
		Notes:      in.Notes,
		Signed:     in.Signed,
		Selections: datatypes.JSONMap(in.Selections),
	}
	if err := s.DB.Create(&cm).Error; err != nil {
		return cm, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "MenuPersonalizado", &cm.ID, map[string]interface{}{
		"paciente_id": cm.PatientID, "fecha": in.Date,
	})
	return s.Get(cm.ID)
}

func (s *CustomMenuService) Update(actorID *uint, id uint, in CustomMenuInput) (models.CustomMenu, error) {
	if _, err := s.Get(id); err != nil {
		return models.CustomMenu{}, err
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return models.CustomMenu{}, NewValidation("fecha inválida, formato esperado AAAA-MM-DD")
	}
	updates := map[string]interface{}{
		"fecha":            date,
		"adicional_diario": in.DailyExtra,
		"observaciones":    in.Notes,
		"firma":            in.Signed,
	}
	if in.Selections != nil {
		updates["selecciones"] = datatypes.JSONMap(in.Selections)
	}
	if err := s.DB.Model(&models.CustomMenu{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return models.CustomMenu{}, err
	}
	s.Audit.Record(actorID, models.ActionUpdate, "MenuPersonalizado", &id, map[string]interface{}{
		"firma": in.Signed,
	})
	return s.Get(id)
}

func (s *CustomMenuService) Delete(actorID *uint, id uint) error {
	res := s.DB.Delete(&models.CustomMenu{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFound(fmt.Sprintf("menú personalizado %d no existe", id))
	}
	s.Audit.Record(actorID, models.ActionDelete, "MenuPersonalizado", &id, nil)
	return nil
}
