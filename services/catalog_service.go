package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// CatalogService manages the diet and allergy reference tables. Neither can
// be deactivated or deleted while an active patient references it; that is a
// conflict, never a cascade.
type CatalogService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewCatalogService(db *gorm.DB, audit *AuditService) *CatalogService {
	return &CatalogService{DB: db, Audit: audit}
}

type CatalogInput struct {
	Name        string `json:"nombre" binding:"required"`
	Description string `json:"descripcion"`
	Active      *bool  `json:"activo"`
}

// -------------------------------------------------------------------- diets

func (s *CatalogService) ListDiets() ([]models.Diet, error) {
	var out []models.Diet
	err := s.DB.Find(&out).Error
	return out, err
}

func (s *CatalogService) GetDiet(id uint) (models.Diet, error) {
	var d models.Diet
	if err := s.DB.First(&d, id).Error; err != nil {
		if IsNotFound(err) {
			return d, NewNotFound(fmt.Sprintf("dieta %d no existe", id))
		}
		return d, err
	}
	return d, nil
}

func (s *CatalogService) CreateDiet(actorID *uint, in CatalogInput) (models.Diet, error) {
	d := models.Diet{Name: in.Name, Description: in.Description, Active: true}
	if err := s.DB.Create(&d).Error; err != nil {
		if IsDuplicateEntry(err) {
			return d, NewConflict(fmt.Sprintf("ya existe una dieta con el nombre %q", in.Name))
		}
		return d, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Dieta", &d.ID, map[string]interface{}{
		"nombre": d.Name,
	})
	return d, nil
}

func (s *CatalogService) UpdateDiet(actorID *uint, id uint, in CatalogInput) (models.Diet, error) {
	d, err := s.GetDiet(id)
	if err != nil {
		return d, err
	}
	if in.Active != nil && !*in.Active && d.Active {
		if err := s.guardActivePatients("dieta", "Diets", id); err != nil {
			return d, err
		}
	}
	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["nombre"] = in.Name
	}
	updates["descripcion"] = in.Description
	if in.Active != nil {
		updates["activo"] = *in.Active
	}
	if err := s.DB.Model(&models.Diet{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if IsDuplicateEntry(err) {
			return d, NewConflict(fmt.Sprintf("ya existe una dieta con el nombre %q", in.Name))
		}
		return d, err
	}
	s.Audit.Record(actorID, models.ActionUpdate, "Dieta", &id, map[string]interface{}{
		"nombre": in.Name, "activo": in.Active,
	})
	return s.GetDiet(id)
}

func (s *CatalogService) DeleteDiet(actorID *uint, id uint) error {
	if _, err := s.GetDiet(id); err != nil {
		return err
	}
	if err := s.guardActivePatients("dieta", "Diets", id); err != nil {
		return err
	}
	if err := s.DB.Delete(&models.Diet{}, id).Error; err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionDelete, "Dieta", &id, nil)
	return nil
}

// ----------------------------------------------------------------- allergies

func (s *CatalogService) ListAllergies() ([]models.Allergy, error) {
	var out []models.Allergy
	err := s.DB.Find(&out).Error
	return out, err
}

func (s *CatalogService) GetAllergy(id uint) (models.Allergy, error) {
	var a models.Allergy
	if err := s.DB.First(&a, id).Error; err != nil {
		if IsNotFound(err) {
			return a, NewNotFound(fmt.Sprintf("alergia %d no existe", id))
		}
		return a, err
	}
	return a, nil
}

func (s *CatalogService) CreateAllergy(actorID *uint, in CatalogInput) (models.Allergy, error) {
	a := models.Allergy{Name: in.Name, Description: in.Description, Active: true}
	if err := s.DB.Create(&a).Error; err != nil {
		if IsDuplicateEntry(err) {
			return a, NewConflict(fmt.Sprintf("ya existe una alergia con el nombre %q", in.Name))
		}
		return a, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Alergia", &a.ID, map[string]interface{}{
		"nombre": a.Name,
	})
	return a, nil
}

func (s *CatalogService) UpdateAllergy(actorID *uint, id uint, in CatalogInput) (models.Allergy, error) {
	a, err := s.GetAllergy(id)
	if err != nil {
		return a, err
	}
	if in.Active != nil && !*in.Active && a.Active {
		if err := s.guardActivePatients("alergia", "Allergies", id); err != nil {
			return a, err
		}
	}
	updates := map[string]interface{}{}
	if in.Name != "" {
		updates["nombre"] = in.Name
	}
	updates["descripcion"] = in.Description
	if in.Active != nil {
		updates["activo"] = *in.Active
	}
	if err := s.DB.Model(&models.Allergy{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if IsDuplicateEntry(err) {
			return a, NewConflict(fmt.Sprintf("ya existe una alergia con el nombre %q", in.Name))
		}
		return a, err
	}
	s.Audit.Record(actorID, models.ActionUpdate, "Alergia", &id, map[string]interface{}{
		"nombre": in.Name, "activo": in.Active,
	})
	return s.GetAllergy(id)
}

func (s *CatalogService) DeleteAllergy(actorID *uint, id uint) error {
	if _, err := s.GetAllergy(id); err != nil {
		return err
	}
	if err := s.guardActivePatients("alergia", "Allergies", id); err != nil {
		return err
	}
	if err := s.DB.Delete(&models.Allergy{}, id).Error; err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionDelete, "Alergia", &id, nil)
	return nil
}

// guardActivePatients rejects the mutation while active patients still
// reference the catalog entry, naming up to three of them plus the total.
func (s *CatalogService) guardActivePatients(kind, assoc string, id uint) error {
	join := "paciente_dietas"
	fk := "diet_id"
	if assoc == "Allergies" {
		join = "paciente_alergias"
		fk = "allergy_id"
	}

	var patients []models.Patient
	err := s.DB.
		Joins(fmt.Sprintf("JOIN %s j ON j.patient_id = pacientes.id", join)).
		Where(fmt.Sprintf("j.%s = ? AND pacientes.activo = ?", fk), id, true).
		Find(&patients).Error
	if err != nil {
		return err
	}
	if len(patients) == 0 {
		return nil
	}

	sample := make([]string, 0, 3)
	for i, p := range patients {
		if i == 3 {
			break
		}
		sample = append(sample, p.Name)
	}
	return NewConflict(fmt.Sprintf(
		"no se puede modificar la %s porque hay %d paciente(s) activo(s) que la tienen asignada (ej: %s...)",
		kind, len(patients), strings.Join(sample, ", ")))
}
