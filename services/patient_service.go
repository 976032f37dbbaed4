package services

import (
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JuCalll/menu-clinica/models"
)

// PatientService owns admissions: first admissions, re-admissions keyed by
// cedula, discharges (which release the bed) and the diet/allergy bindings.
type PatientService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewPatientService(db *gorm.DB, audit *AuditService) *PatientService {
	return &PatientService{DB: db, Audit: audit}
}

// PatientInput is the registration payload. Username is the requested base
// identifier; on re-admission the service suffixes it with the new admission
// count.
type PatientInput struct {
	NationalID string `json:"cedula" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email"`
	BedID      uint   `json:"cama_id" binding:"required"`
	DietIDs    []uint `json:"dietas_ids"`
	AllergyIDs []uint `json:"alergias_ids"`
}

// PatientUpdate carries a partial update; nil fields are left untouched.
type PatientUpdate struct {
	NationalID *string `json:"cedula"`
	Name       *string `json:"name"`
	Username   *string `json:"username"`
	Email      *string `json:"email"`
	BedID      *uint   `json:"cama_id"`
	Active     *bool   `json:"activo"`
	DietIDs    []uint  `json:"dietas_ids"`
	AllergyIDs []uint  `json:"alergias_ids"`
}

// List returns active patients only, with their location and catalog
// associations loaded.
func (s *PatientService) List() ([]models.Patient, error) {
	var out []models.Patient
	err := s.DB.Where("activo = ?", true).
		Preload("Bed.Room.Service").
		Preload("Diets").
		Preload("Allergies").
		Find(&out).Error
	return out, err
}

func (s *PatientService) Get(id uint) (models.Patient, error) {
	var p models.Patient
	err := s.DB.Preload("Bed.Room.Service").
		Preload("Diets").
		Preload("Allergies").
		First(&p, id).Error
	if err != nil {
		if IsNotFound(err) {
			return p, NewNotFound(fmt.Sprintf("paciente %d no existe", id))
		}
		return p, err
	}
	return p, nil
}

// Register admits a patient. If an inactive row with the same cedula exists
// this is a re-admission: the new row gets the previous max admission count
// plus one and the username is suffixed with that number. Otherwise an
// active duplicate on email, cedula or username is a conflict and the row is
// created as a first admission. The whole sequence runs in one transaction;
// on MySQL the cedula group is row-locked to serialize concurrent
// re-admissions of the same person.
func (s *PatientService) Register(actorID *uint, in PatientInput) (models.Patient, error) {
	var created models.Patient
	var isReentry bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		prevQuery := tx.Where("cedula = ? AND activo = ?", in.NationalID, false).
			Order("ingreso_count DESC")
		if tx.Dialector.Name() == "mysql" {
			prevQuery = prevQuery.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		admissionCount := 1
		username := in.Username

		var prev models.Patient
		err := prevQuery.First(&prev).Error
		switch {
		case err == nil:
			isReentry = true
			admissionCount = prev.AdmissionCount + 1
			username = in.Username + strconv.Itoa(admissionCount)
		case IsNotFound(err):
			var dup models.Patient
			dupErr := tx.Where("activo = ? AND (email = ? OR cedula = ? OR username = ?)",
				true, in.Email, in.NationalID, in.Username).First(&dup).Error
			if dupErr == nil {
				return NewConflict("ya existe un paciente activo con este email, cédula o nombre de usuario")
			}
			if !IsNotFound(dupErr) {
				return dupErr
			}
		default:
			return err
		}

		bed, err := loadBedChain(tx, in.BedID)
		if err != nil {
			return err
		}
		if err := checkBedChainActive(bed); err != nil {
			return err
		}

		diets, allergies, err := loadCatalogRefs(tx, in.DietIDs, in.AllergyIDs)
		if err != nil {
			return err
		}

		created = models.Patient{
			NationalID:     in.NationalID,
			Name:           in.Name,
			Username:       username,
			Email:          in.Email,
			BedID:          in.BedID,
			AdmissionCount: admissionCount,
			Active:         true,
			Diets:          diets,
			Allergies:      allergies,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return created, err
	}

	tipo := "nuevo"
	if isReentry {
		tipo = "reingreso"
	}
	s.Audit.Record(actorID, models.ActionCreate, "Paciente", &created.ID, map[string]interface{}{
		"name":          created.Name,
		"cedula":        created.NationalID,
		"username":      created.Username,
		"ingreso_count": created.AdmissionCount,
		"tipo":          tipo,
	})
	return s.Get(created.ID)
}

// Update applies a partial edit. Discharge (active true -> false) first
// renames email/username with a temporary suffix so the identifiers are free
// for a future re-admission, then persists the requested changes and
// releases the bed. Reactivation re-validates the bed chain; it never
// reactivates the bed itself.
func (s *PatientService) Update(actorID *uint, id uint, in PatientUpdate) (models.Patient, error) {
	patient, err := s.Get(id)
	if err != nil {
		return patient, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		deactivating := in.Active != nil && !*in.Active && patient.Active
		activating := in.Active != nil && *in.Active && !patient.Active

		if deactivating {
			suffix := fmt.Sprintf("_temp_%d", time.Now().UnixNano())
			renames := map[string]interface{}{
				"email":    patient.Email + suffix,
				"username": patient.Username + suffix,
			}
			if err := tx.Model(&models.Patient{}).Where("id = ?", id).
				Updates(renames).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		if in.NationalID != nil {
			updates["cedula"] = *in.NationalID
		}
		if in.Name != nil {
			updates["nombre"] = *in.Name
		}
		if in.Username != nil {
			updates["username"] = *in.Username
		}
		if in.Email != nil {
			updates["email"] = *in.Email
		}

		targetBed := patient.BedID
		if in.BedID != nil {
			updates["cama_id"] = *in.BedID
			targetBed = *in.BedID
		}

		if activating || (in.BedID != nil && patient.Active && !deactivating) {
			bed, err := loadBedChain(tx, targetBed)
			if err != nil {
				return err
			}
			if err := checkBedChainActive(bed); err != nil {
				return err
			}
		}
		if activating {
			updates["activo"] = true
		}
		if deactivating {
			updates["activo"] = false
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Patient{}).Where("id = ?", id).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		// Discharge releases the bed. This is the only upward edge in the
		// hierarchy; reactivating a patient never reactivates a bed.
		if deactivating {
			if err := tx.Model(&models.Bed{}).Where("id = ?", patient.BedID).
				Update("activo", false).Error; err != nil {
				return err
			}
		}

		if in.DietIDs != nil || in.AllergyIDs != nil {
			diets, allergies, err := loadCatalogRefs(tx, in.DietIDs, in.AllergyIDs)
			if err != nil {
				return err
			}
			target := models.Patient{ID: id}
			if in.DietIDs != nil {
				if err := tx.Model(&target).Association("Diets").Replace(diets); err != nil {
					return err
				}
			}
			if in.AllergyIDs != nil {
				if err := tx.Model(&target).Association("Allergies").Replace(allergies); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return patient, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Paciente", &id, map[string]interface{}{
		"activo": in.Active,
	})
	return s.Get(id)
}

// Discharge deactivates the patient and releases their bed.
func (s *PatientService) Discharge(actorID *uint, id uint) (models.Patient, error) {
	inactive := false
	return s.Update(actorID, id, PatientUpdate{Active: &inactive})
}

func (s *PatientService) Delete(actorID *uint, id uint) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		patient := models.Patient{ID: id}
		if err := tx.Model(&patient).Association("Diets").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&patient).Association("Allergies").Clear(); err != nil {
			return err
		}
		res := tx.Delete(&models.Patient{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NewNotFound(fmt.Sprintf("paciente %d no existe", id))
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionDelete, "Paciente", &id, nil)
	return nil
}

// loadBedChain fetches a bed with its room and service for chain checks.
func loadBedChain(tx *gorm.DB, bedID uint) (models.Bed, error) {
	var bed models.Bed
	if err := tx.Preload("Room.Service").First(&bed, bedID).Error; err != nil {
		if IsNotFound(err) {
			return bed, NewValidation("la cama indicada no existe")
		}
		return bed, err
	}
	return bed, nil
}

// checkBedChainActive enforces the top-down gate: a patient can only be
// active while its bed, room and service are all active.
func checkBedChainActive(bed models.Bed) error {
	if !bed.Active {
		return NewStateConflict("no se puede activar un paciente porque la cama no está activa")
	}
	if !bed.Room.Active {
		return NewStateConflict("no se puede activar un paciente porque la habitación no está activa")
	}
	if !bed.Room.Service.Active {
		return NewStateConflict("no se puede activar un paciente porque el servicio no está activo")
	}
	return nil
}

func loadCatalogRefs(tx *gorm.DB, dietIDs, allergyIDs []uint) ([]models.Diet, []models.Allergy, error) {
	var diets []models.Diet
	if len(dietIDs) > 0 {
		if err := tx.Where("id IN ?", dietIDs).Find(&diets).Error; err != nil {
			return nil, nil, err
		}
		if len(diets) != len(dietIDs) {
			return nil, nil, NewValidation("una o más dietas indicadas no existen")
		}
	}
	var allergies []models.Allergy
	if len(allergyIDs) > 0 {
		if err := tx.Where("id IN ?", allergyIDs).Find(&allergies).Error; err != nil {
			return nil, nil, err
		}
		if len(allergies) != len(allergyIDs) {
			return nil, nil, NewValidation("una o más alergias indicadas no existen")
		}
	}
	return diets, allergies, nil
}
