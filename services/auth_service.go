package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// AuthService issues, refreshes and revokes JWT pairs for staff accounts.
// The rest of the system only depends on Authenticate/Refresh/Revoke and the
// middleware's claim parsing; token mechanics stay contained here.
type AuthService struct {
	DB         *gorm.DB
	Audit      *AuditService
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewAuthService(db *gorm.DB, audit *AuditService, secret []byte) *AuthService {
	return &AuthService{
		DB:         db,
		Audit:      audit,
		Secret:     secret,
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

// Claims carried by both token kinds; Kind distinguishes access from
// refresh so one cannot stand in for the other.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Role    string `json:"role"`
	Name    string `json:"name"`
}

var errInvalidCredentials = &APIError{
	Status: http.StatusBadRequest, Code: CodeValidation,
	Message: "credenciales inválidas o usuario inactivo",
}

// Authenticate verifies credentials and returns a fresh token pair.
func (s *AuthService) Authenticate(username, password string) (TokenPair, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		if IsNotFound(err) {
			s.Audit.Record(nil, models.ActionLoginFailed, "Usuario", nil, map[string]interface{}{
				"username": username, "reason": "unknown user",
			})
			return TokenPair{}, errInvalidCredentials
		}
		return TokenPair{}, err
	}
	if !user.Active || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		s.Audit.Record(nil, models.ActionLoginFailed, "Usuario", nil, map[string]interface{}{
			"username": username, "reason": "invalid credentials or user inactive",
		})
		return TokenPair{}, errInvalidCredentials
	}

	access, err := s.issue(user, "access", s.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issue(user, "refresh", s.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}

	s.Audit.Record(&user.ID, models.ActionLogin, "Usuario", &user.ID, map[string]interface{}{
		"username": user.Username, "role": user.Role,
	})
	return TokenPair{Access: access, Refresh: refresh, Role: user.Role, Name: user.Name}, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parse(refreshToken, "refresh")
	if err != nil {
		return "", err
	}
	revoked, err := s.isRevoked(claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", NewValidation("token inválido o expirado")
	}

	var user models.User
	if err := s.DB.First(&user, claims.UserID).Error; err != nil {
		if IsNotFound(err) {
			return "", NewValidation("token inválido o expirado")
		}
		return "", err
	}
	if !user.Active {
		return "", NewValidation("usuario inactivo")
	}

	access, err := s.issue(user, "access", s.AccessTTL)
	if err != nil {
		return "", err
	}
	s.Audit.Record(&user.ID, models.ActionTokenRefresh, "Token", &user.ID, map[string]interface{}{
		"status": "success",
	})
	return access, nil
}

// Revoke blacklists a refresh token by jti. Idempotent.
func (s *AuthService) Revoke(refreshToken string) error {
	claims, err := s.parse(refreshToken, "refresh")
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.RefreshTTL)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	row := models.RevokedToken{JTI: claims.ID, UserID: claims.UserID, ExpiresAt: expires}
	if err := s.DB.Create(&row).Error; err != nil && !IsDuplicateEntry(err) {
		return err
	}
	s.Audit.Record(&claims.UserID, models.ActionLogout, "Usuario", &claims.UserID, map[string]interface{}{
		"status": "success",
	})
	return nil
}

// ParseAccess validates an access token for the auth middleware.
func (s *AuthService) ParseAccess(token string) (Claims, error) {
	claims, err := s.parse(token, "access")
	if err != nil {
		return Claims{}, err
	}
	return *claims, nil
}

func (s *AuthService) issue(user models.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *AuthService) parse(raw, kind string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, NewValidation("token inválido o expirado")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Kind != kind {
		return nil, NewValidation("token inválido o expirado")
	}
	return claims, nil
}

func (s *AuthService) isRevoked(jti string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}
