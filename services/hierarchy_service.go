package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// HierarchyService owns the facility tree (service -> room -> bed) and its
// activation state machine. Deactivation cascades downward in one
// transaction; activation only checks the direct parent and never
// reactivates descendants.
type HierarchyService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewHierarchyService(db *gorm.DB, audit *AuditService) *HierarchyService {
	return &HierarchyService{DB: db, Audit: audit}
}

// ---------------------------------------------------------------- services

func (s *HierarchyService) ListServices() ([]models.Service, error) {
	var out []models.Service
	err := s.DB.Find(&out).Error
	return out, err
}

func (s *HierarchyService) GetService(id uint) (models.Service, error) {
	var svc models.Service
	if err := s.DB.Preload("Rooms").First(&svc, id).Error; err != nil {
		if IsNotFound(err) {
			return svc, NewNotFound(fmt.Sprintf("servicio %d no existe", id))
		}
		return svc, err
	}
	return svc, nil
}

func (s *HierarchyService) CreateService(actorID *uint, svc models.Service) (models.Service, error) {
	svc.ID = 0
	svc.Active = true
	if svc.Name == "" {
		return svc, NewValidation("el nombre del servicio es obligatorio")
	}
	if err := s.DB.Create(&svc).Error; err != nil {
		return svc, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Servicio", &svc.ID, map[string]interface{}{
		"nombre": svc.Name,
	})
	return svc, nil
}

// UpdateService applies name changes and routes activation flips through the
// state machine. Deactivation cascades; reactivation touches only the
// service itself.
func (s *HierarchyService) UpdateService(actorID *uint, id uint, name *string, active *bool) (models.Service, error) {
	svc, err := s.GetService(id)
	if err != nil {
		return svc, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if name != nil && *name != "" {
			if err := tx.Model(&models.Service{}).Where("id = ?", id).
				Update("nombre", *name).Error; err != nil {
				return err
			}
		}
		if active != nil && *active != svc.Active {
			if *active {
				if err := tx.Model(&models.Service{}).Where("id = ?", id).
					Update("activo", true).Error; err != nil {
					return err
				}
			} else if err := cascadeServiceDeactivation(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return svc, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Servicio", &id, map[string]interface{}{
		"nombre": name, "activo": active,
	})
	return s.GetService(id)
}

// DeactivateService forces the whole subtree inactive. Idempotent: setting
// activo=false on already inactive rows is harmless and produces no extra
// side effects.
func (s *HierarchyService) DeactivateService(actorID *uint, id uint) error {
	if _, err := s.GetService(id); err != nil {
		return err
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return cascadeServiceDeactivation(tx, id)
	})
	if err != nil {
		return err
	}
	s.Audit.Record(actorID, models.ActionUpdate, "Servicio", &id, map[string]interface{}{
		"activo": false, "cascada": true,
	})
	return nil
}

func (s *HierarchyService) DeleteService(actorID *uint, id uint) error {
	res := s.DB.Delete(&models.Service{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFound(fmt.Sprintf("servicio %d no existe", id))
	}
	s.Audit.Record(actorID, models.ActionDelete, "Servicio", &id, nil)
	return nil
}

// cascadeServiceDeactivation bulk-updates the subtree in parent->child
// order: rooms, then beds in those rooms, then patients in those beds. Pure
// flag updates; nothing is deleted and inactive descendants are not
// re-validated.
func cascadeServiceDeactivation(tx *gorm.DB, serviceID uint) error {
	if err := tx.Model(&models.Service{}).Where("id = ?", serviceID).
		Update("activo", false).Error; err != nil {
		return err
	}
	roomIDs := tx.Model(&models.Room{}).Select("id").Where("servicio_id = ?", serviceID)
	if err := tx.Model(&models.Room{}).Where("servicio_id = ?", serviceID).
		Update("activo", false).Error; err != nil {
		return err
	}
	bedIDs := tx.Model(&models.Bed{}).Select("id").Where("habitacion_id IN (?)", roomIDs)
	if err := tx.Model(&models.Bed{}).Where("habitacion_id IN (?)", roomIDs).
		Update("activo", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.Patient{}).Where("cama_id IN (?)", bedIDs).
		Update("activo", false).Error
}

// ------------------------------------------------------------------- rooms

func (s *HierarchyService) ListRooms() ([]models.Room, error) {
	var out []models.Room
	err := s.DB.Preload("Service").Find(&out).Error
	return out, err
}

func (s *HierarchyService) GetRoom(id uint) (models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("Service").Preload("Beds").First(&room, id).Error; err != nil {
		if IsNotFound(err) {
			return room, NewNotFound(fmt.Sprintf("habitación %d no existe", id))
		}
		return room, err
	}
	return room, nil
}

func (s *HierarchyService) CreateRoom(actorID *uint, room models.Room) (models.Room, error) {
	if room.Name == "" {
		return room, NewValidation("el nombre de la habitación es obligatorio")
	}
	var svc models.Service
	if err := s.DB.First(&svc, room.ServiceID).Error; err != nil {
		if IsNotFound(err) {
			return room, NewValidation("el servicio indicado no existe")
		}
		return room, err
	}
	room.ID = 0
	room.Active = true
	if !svc.Active {
		return room, NewStateConflict(
			fmt.Sprintf("no se puede activar la habitación %q porque el servicio %q no está activo", room.Name, svc.Name))
	}
	if err := s.DB.Create(&room).Error; err != nil {
		if IsDuplicateEntry(err) {
			return room, NewConflict(fmt.Sprintf("ya existe una habitación con el nombre %q", room.Name))
		}
		return room, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Habitacion", &room.ID, map[string]interface{}{
		"nombre": room.Name, "servicio_id": room.ServiceID, "activo": room.Active,
	})
	return s.GetRoom(room.ID)
}

// UpdateRoom handles renames, reparenting and activation flips. Activating a
// room requires its service to be active; it does not reactivate beds.
func (s *HierarchyService) UpdateRoom(actorID *uint, id uint, name *string, serviceID *uint, active *bool) (models.Room, error) {
	room, err := s.GetRoom(id)
	if err != nil {
		return room, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if name != nil && *name != "" {
			updates["nombre"] = *name
		}
		targetService := room.ServiceID
		if serviceID != nil {
			var svc models.Service
			if err := tx.First(&svc, *serviceID).Error; err != nil {
				if IsNotFound(err) {
					return NewValidation("el servicio indicado no existe")
				}
				return err
			}
			updates["servicio_id"] = *serviceID
			targetService = *serviceID
		}
		if active != nil && *active != room.Active {
			if *active {
				var svc models.Service
				if err := tx.First(&svc, targetService).Error; err != nil {
					return err
				}
				if !svc.Active {
					return NewStateConflict(
						fmt.Sprintf("no se puede activar la habitación %q porque el servicio %q no está activo", room.Name, svc.Name))
				}
				updates["activo"] = true
			} else {
				if len(updates) > 0 {
					if err := tx.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
						if IsDuplicateEntry(err) {
							return NewConflict(fmt.Sprintf("ya existe una habitación con el nombre %q", *name))
						}
						return err
					}
				}
				return cascadeRoomDeactivation(tx, id)
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if IsDuplicateEntry(err) {
				return NewConflict(fmt.Sprintf("ya existe una habitación con el nombre %q", *name))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return room, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Habitacion", &id, map[string]interface{}{
		"nombre": name, "activo": active,
	})
	return s.GetRoom(id)
}

func (s *HierarchyService) DeleteRoom(actorID *uint, id uint) error {
	res := s.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFound(fmt.Sprintf("habitación %d no existe", id))
	}
	s.Audit.Record(actorID, models.ActionDelete, "Habitacion", &id, nil)
	return nil
}

func cascadeRoomDeactivation(tx *gorm.DB, roomID uint) error {
	if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
		Update("activo", false).Error; err != nil {
		return err
	}
	bedIDs := tx.Model(&models.Bed{}).Select("id").Where("habitacion_id = ?", roomID)
	if err := tx.Model(&models.Bed{}).Where("habitacion_id = ?", roomID).
		Update("activo", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.Patient{}).Where("cama_id IN (?)", bedIDs).
		Update("activo", false).Error
}

// -------------------------------------------------------------------- beds

func (s *HierarchyService) ListBeds() ([]models.Bed, error) {
	var out []models.Bed
	err := s.DB.Preload("Room.Service").Find(&out).Error
	return out, err
}

func (s *HierarchyService) GetBed(id uint) (models.Bed, error) {
	var bed models.Bed
	if err := s.DB.Preload("Room.Service").First(&bed, id).Error; err != nil {
		if IsNotFound(err) {
			return bed, NewNotFound(fmt.Sprintf("cama %d no existe", id))
		}
		return bed, err
	}
	return bed, nil
}

func (s *HierarchyService) CreateBed(actorID *uint, bed models.Bed) (models.Bed, error) {
	if bed.Name == "" {
		return bed, NewValidation("el nombre de la cama es obligatorio")
	}
	var room models.Room
	if err := s.DB.First(&room, bed.RoomID).Error; err != nil {
		if IsNotFound(err) {
			return bed, NewValidation("la habitación indicada no existe")
		}
		return bed, err
	}
	if !room.Active {
		return bed, NewStateConflict(
			fmt.Sprintf("no se puede activar la cama %q porque la habitación %q no está activa", bed.Name, room.Name))
	}
	bed.ID = 0
	bed.Active = true
	if err := s.DB.Create(&bed).Error; err != nil {
		if IsDuplicateEntry(err) {
			return bed, NewConflict(
				fmt.Sprintf("ya existe una cama %q en la habitación %q", bed.Name, room.Name))
		}
		return bed, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Cama", &bed.ID, map[string]interface{}{
		"nombre": bed.Name, "habitacion_id": bed.RoomID, "activo": bed.Active,
	})
	return s.GetBed(bed.ID)
}

func (s *HierarchyService) UpdateBed(actorID *uint, id uint, name *string, roomID *uint, active *bool) (models.Bed, error) {
	bed, err := s.GetBed(id)
	if err != nil {
		return bed, err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if name != nil && *name != "" {
			updates["nombre"] = *name
		}
		targetRoom := bed.RoomID
		if roomID != nil {
			var room models.Room
			if err := tx.First(&room, *roomID).Error; err != nil {
				if IsNotFound(err) {
					return NewValidation("la habitación indicada no existe")
				}
				return err
			}
			updates["habitacion_id"] = *roomID
			targetRoom = *roomID
		}
		if active != nil && *active != bed.Active {
			if *active {
				var room models.Room
				if err := tx.First(&room, targetRoom).Error; err != nil {
					return err
				}
				if !room.Active {
					return NewStateConflict(
						fmt.Sprintf("no se puede activar la cama %q porque la habitación %q no está activa", bed.Name, room.Name))
				}
				updates["activo"] = true
			} else {
				if len(updates) > 0 {
					if err := tx.Model(&models.Bed{}).Where("id = ?", id).Updates(updates).Error; err != nil {
						if IsDuplicateEntry(err) {
							return NewConflict("ya existe una cama con ese nombre en la habitación")
						}
						return err
					}
				}
				return cascadeBedDeactivation(tx, id)
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Bed{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if IsDuplicateEntry(err) {
				return NewConflict("ya existe una cama con ese nombre en la habitación")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return bed, err
	}

	s.Audit.Record(actorID, models.ActionUpdate, "Cama", &id, map[string]interface{}{
		"nombre": name, "activo": active,
	})
	return s.GetBed(id)
}

func (s *HierarchyService) DeleteBed(actorID *uint, id uint) error {
	res := s.DB.Delete(&models.Bed{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFound(fmt.Sprintf("cama %d no existe", id))
	}
	s.Audit.Record(actorID, models.ActionDelete, "Cama", &id, nil)
	return nil
}

func cascadeBedDeactivation(tx *gorm.DB, bedID uint) error {
	if err := tx.Model(&models.Bed{}).Where("id = ?", bedID).
		Update("activo", false).Error; err != nil {
		return err
	}
	return tx.Model(&models.Patient{}).Where("cama_id = ?", bedID).
		Update("activo", false).Error
}
