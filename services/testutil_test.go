package services

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JuCalll/menu-clinica/config"
	"github.com/JuCalll/menu-clinica/models"
)

// setupTestDB opens a private in-memory store per test and runs the full
// migration set against it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func newTestAudit(db *gorm.DB) *AuditService {
	return NewAuditService(db, zap.NewNop())
}

func fmtUint(v uint) string { return strconv.FormatUint(uint64(v), 10) }

// seedHierarchy creates one active service/room/bed chain and returns it.
func seedHierarchy(t *testing.T, db *gorm.DB, suffix string) (models.Service, models.Room, models.Bed) {
	t.Helper()
	svc := models.Service{Name: "Servicio " + suffix, Active: true}
	require.NoError(t, db.Create(&svc).Error)
	room := models.Room{Name: "Habitacion " + suffix, ServiceID: svc.ID, Active: true}
	require.NoError(t, db.Create(&room).Error)
	bed := models.Bed{Name: "Cama " + suffix, RoomID: room.ID, Active: true}
	require.NoError(t, db.Create(&bed).Error)
	return svc, room, bed
}

// seedPatient admits an active patient into the given bed.
func seedPatient(t *testing.T, db *gorm.DB, bedID uint, cedula string) models.Patient {
	t.Helper()
	p := models.Patient{
		NationalID:     cedula,
		Name:           "Paciente " + cedula,
		Username:       "paciente" + cedula,
		Email:          "p" + cedula + "@clinica.local",
		BedID:          bedID,
		AdmissionCount: 1,
		Active:         true,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

// seedMenu creates a menu with one section holding the given options under
// tipo plato_principal, returning the option ids in order.
func seedMenu(t *testing.T, db *gorm.DB, name, sectionTitle string, optionTexts ...string) (models.Menu, models.MenuSection, []uint) {
	t.Helper()
	menu := models.Menu{Name: name}
	require.NoError(t, db.Create(&menu).Error)
	section := models.MenuSection{MenuID: menu.ID, Title: sectionTitle}
	require.NoError(t, db.Create(&section).Error)
	ids := make([]uint, 0, len(optionTexts))
	for _, text := range optionTexts {
		opt := models.MenuOption{SectionID: section.ID, Text: text, Type: "plato_principal"}
		require.NoError(t, db.Create(&opt).Error)
		ids = append(ids, opt.ID)
	}
	return menu, section, ids
}
