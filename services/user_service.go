package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// UserService manages staff accounts. Admin-only surface.
type UserService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewUserService(db *gorm.DB, audit *AuditService) *UserService {
	return &UserService{DB: db, Audit: audit}
}

type UserInput struct {
	Username string `json:"username" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"activo"`
}

// List returns active accounts and audits the read; it is the one read path
// that lands in the audit trail.
func (s *UserService) List(actorID *uint) ([]models.User, error) {
	var users []models.User
	if err := s.DB.Where("activo = ?", true).Find(&users).Error; err != nil {
		return nil, err
	}
	s.Audit.Record(actorID, models.ActionList, "Usuario", nil, map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

func (s *UserService) Get(id uint) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if IsNotFound(err) {
			return user, NewNotFound(fmt.Sprintf("usuario %d no existe", id))
		}
		return user, err
	}
	return user, nil
}

func (s *UserService) Create(actorID *uint, in UserInput) (models.User, error) {
	if !models.ValidRole(in.Role) {
		return models.User{}, NewValidation(fmt.Sprintf("rol desconocido: %q", in.Role))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		Username: in.Username,
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     in.Role,
		Active:   true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if IsDuplicateEntry(err) {
			return user, NewConflict(fmt.Sprintf("ya existe un usuario con el nombre %q", in.Username))
		}
		return user, err
	}
	s.Audit.Record(actorID, models.ActionCreate, "Usuario", &user.ID, map[string]interface{}{
		"username": user.Username, "role": user.Role,
	})
	return user, nil
}

func (s *UserService) Update(actorID *uint, id uint, in UserUpdate) (models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return user, err
	}
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["nombre"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Role != nil {
		if !models.ValidRole(*in.Role) {
			return user, NewValidation(fmt.Sprintf("rol desconocido: %q", *in.Role))
		}
		updates["role"] = *in.Role
	}
	if in.Active != nil {
		updates["activo"] = *in.Active
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return user, err
		}
		updates["password"] = string(hash)
	}
	if len(updates) > 0 {
		if err := s.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return user, err
		}
	}
	s.Audit.Record(actorID, models.ActionUpdate, "Usuario", &id, map[string]interface{}{
		"role": in.Role, "activo": in.Active,
	})
	return s.Get(id)
}

func (s *UserService) Delete(actorID *uint, id uint) error {
	res := s.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NewNotFound(fmt.Sprintf("usuario %d no existe", id))
	}
	s.Audit.Record(actorID, models.ActionDelete, "Usuario", &id, nil)
	return nil
}
