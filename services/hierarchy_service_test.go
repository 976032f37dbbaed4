package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuCalll/menu-clinica/models"
)

func boolPtr(b bool) *bool { return &b }

func TestServiceDeactivationCascadesWholeSubtree(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svcA, roomA, bedA := seedHierarchy(t, db, "A")
	_, _, bedB := seedHierarchy(t, db, "B")
	patientA := seedPatient(t, db, bedA.ID, "100")
	patientB := seedPatient(t, db, bedB.ID, "200")

	_, err := h.UpdateService(nil, svcA.ID, nil, boolPtr(false))
	require.NoError(t, err)

	var got models.Service
	require.NoError(t, db.First(&got, svcA.ID).Error)
	assert.False(t, got.Active)

	var gotRoom models.Room
	require.NoError(t, db.First(&gotRoom, roomA.ID).Error)
	assert.False(t, gotRoom.Active)

	var gotBed models.Bed
	require.NoError(t, db.First(&gotBed, bedA.ID).Error)
	assert.False(t, gotBed.Active)

	var gotPatient models.Patient
	require.NoError(t, db.First(&gotPatient, patientA.ID).Error)
	assert.False(t, gotPatient.Active)

	// the sibling tree is untouched; fresh destinations so gorm does not
	// carry the previous row's primary key into the lookup
	var siblingBed models.Bed
	require.NoError(t, db.First(&siblingBed, bedB.ID).Error)
	assert.True(t, siblingBed.Active)
	var siblingPatient models.Patient
	require.NoError(t, db.First(&siblingPatient, patientB.ID).Error)
	assert.True(t, siblingPatient.Active)
}

func TestServiceDeactivationIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc, _, bed := seedHierarchy(t, db, "A")
	seedPatient(t, db, bed.ID, "100")

	require.NoError(t, h.DeactivateService(nil, svc.ID))
	require.NoError(t, h.DeactivateService(nil, svc.ID))

	var inactiveBeds int64
	require.NoError(t, db.Model(&models.Bed{}).Where("activo = ?", false).Count(&inactiveBeds).Error)
	assert.Equal(t, int64(1), inactiveBeds)
}

func TestRoomDeactivationStopsAtItsOwnBeds(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc, room, bed := seedHierarchy(t, db, "A")
	otherRoom := models.Room{Name: "Habitacion A2", ServiceID: svc.ID, Active: true}
	require.NoError(t, db.Create(&otherRoom).Error)
	otherBed := models.Bed{Name: "Cama A2", RoomID: otherRoom.ID, Active: true}
	require.NoError(t, db.Create(&otherBed).Error)
	patient := seedPatient(t, db, bed.ID, "100")

	_, err := h.UpdateRoom(nil, room.ID, nil, nil, boolPtr(false))
	require.NoError(t, err)

	var gotSvc models.Service
	require.NoError(t, db.First(&gotSvc, svc.ID).Error)
	assert.True(t, gotSvc.Active, "deactivation never travels upward")

	var gotBed models.Bed
	require.NoError(t, db.First(&gotBed, bed.ID).Error)
	assert.False(t, gotBed.Active)
	var gotOtherBed models.Bed
	require.NoError(t, db.First(&gotOtherBed, otherBed.ID).Error)
	assert.True(t, gotOtherBed.Active)

	var gotPatient models.Patient
	require.NoError(t, db.First(&gotPatient, patient.ID).Error)
	assert.False(t, gotPatient.Active)
}

func TestRoomActivationRequiresActiveService(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc, room, _ := seedHierarchy(t, db, "A")
	require.NoError(t, h.DeactivateService(nil, svc.ID))

	_, err := h.UpdateRoom(nil, room.ID, nil, nil, boolPtr(true))
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateConflict, apiErr.Code)
}

func TestBedActivationRequiresActiveRoom(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	_, room, bed := seedHierarchy(t, db, "A")
	_, err := h.UpdateRoom(nil, room.ID, nil, nil, boolPtr(false))
	require.NoError(t, err)

	_, err = h.UpdateBed(nil, bed.ID, nil, nil, boolPtr(true))
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateConflict, apiErr.Code)
}

func TestServiceReactivationDoesNotReactivateDescendants(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc, room, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "100")
	require.NoError(t, h.DeactivateService(nil, svc.ID))

	_, err := h.UpdateService(nil, svc.ID, nil, boolPtr(true))
	require.NoError(t, err)

	var gotSvc models.Service
	require.NoError(t, db.First(&gotSvc, svc.ID).Error)
	assert.True(t, gotSvc.Active)

	var gotRoom models.Room
	require.NoError(t, db.First(&gotRoom, room.ID).Error)
	assert.False(t, gotRoom.Active, "activation only affects the node itself")

	var gotBed models.Bed
	require.NoError(t, db.First(&gotBed, bed.ID).Error)
	assert.False(t, gotBed.Active)

	var gotPatient models.Patient
	require.NoError(t, db.First(&gotPatient, patient.ID).Error)
	assert.False(t, gotPatient.Active)
}

func TestCreateRoomRejectsDuplicateName(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc := models.Service{Name: "UCI", Active: true}
	require.NoError(t, db.Create(&svc).Error)

	_, err := h.CreateRoom(nil, models.Room{Name: "101", ServiceID: svc.ID})
	require.NoError(t, err)

	_, err = h.CreateRoom(nil, models.Room{Name: "101", ServiceID: svc.ID})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
}

func TestRenameRoomToDuplicateWhileDeactivatingIsConflict(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc := models.Service{Name: "UCI", Active: true}
	require.NoError(t, db.Create(&svc).Error)
	_, err := h.CreateRoom(nil, models.Room{Name: "101", ServiceID: svc.ID})
	require.NoError(t, err)
	room, err := h.CreateRoom(nil, models.Room{Name: "102", ServiceID: svc.ID})
	require.NoError(t, err)

	name := "101"
	_, err = h.UpdateRoom(nil, room.ID, &name, nil, boolPtr(false))
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
}

func TestMoveBedOntoDuplicateNameWhileDeactivatingIsConflict(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	svc := models.Service{Name: "UCI", Active: true}
	require.NoError(t, db.Create(&svc).Error)
	roomA := models.Room{Name: "101", ServiceID: svc.ID, Active: true}
	require.NoError(t, db.Create(&roomA).Error)
	roomB := models.Room{Name: "102", ServiceID: svc.ID, Active: true}
	require.NoError(t, db.Create(&roomB).Error)
	bedA := models.Bed{Name: "C1", RoomID: roomA.ID, Active: true}
	require.NoError(t, db.Create(&bedA).Error)
	bedB := models.Bed{Name: "C1", RoomID: roomB.ID, Active: true}
	require.NoError(t, db.Create(&bedB).Error)

	_, err := h.UpdateBed(nil, bedB.ID, nil, &roomA.ID, boolPtr(false))
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
}

func TestCreateBedRejectsInactiveRoom(t *testing.T) {
	db := setupTestDB(t)
	h := NewHierarchyService(db, newTestAudit(db))

	_, room, _ := seedHierarchy(t, db, "A")
	_, err := h.UpdateRoom(nil, room.ID, nil, nil, boolPtr(false))
	require.NoError(t, err)

	_, err = h.CreateBed(nil, models.Bed{Name: "C9", RoomID: room.ID})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateConflict, apiErr.Code)
}

// Full walkthrough: admit a patient, lose the service, bring the chain back
// level by level.
func TestHierarchyLifecycleScenario(t *testing.T) {
	db := setupTestDB(t)
	audit := newTestAudit(db)
	h := NewHierarchyService(db, audit)
	p := NewPatientService(db, audit)

	svc, room, bed := seedHierarchy(t, db, "A")
	patient, err := p.Register(nil, PatientInput{
		NationalID: "900", Name: "Luz Marina", Username: "luzm",
		Email: "luzm@clinica.local", BedID: bed.ID,
	})
	require.NoError(t, err)

	require.NoError(t, h.DeactivateService(nil, svc.ID))

	// the patient cannot come back while the chain is down
	_, err = p.Update(nil, patient.ID, PatientUpdate{Active: boolPtr(true)})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeStateConflict, apiErr.Code)

	// bring the chain back: service, then room, then bed
	_, err = h.UpdateService(nil, svc.ID, nil, boolPtr(true))
	require.NoError(t, err)
	_, err = h.UpdateRoom(nil, room.ID, nil, nil, boolPtr(true))
	require.NoError(t, err)
	_, err = h.UpdateBed(nil, bed.ID, nil, nil, boolPtr(true))
	require.NoError(t, err)

	got, err := p.Update(nil, patient.ID, PatientUpdate{Active: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Active)
}
