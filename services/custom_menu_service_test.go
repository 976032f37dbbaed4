package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuCalll/menu-clinica/models"
)

func TestCreateCustomMenu(t *testing.T) {
	db := setupTestDB(t)
	cm := NewCustomMenuService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")

	got, err := cm.Create(nil, CustomMenuInput{
		Date:       "2026-09-01",
		PatientID:  patient.ID,
		DailyExtra: "gelatina",
		Signed:     true,
		Selections: map[string]interface{}{
			"desayuno": []interface{}{"caldo", "huevos"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "gelatina", got.DailyExtra)
	assert.True(t, got.Signed)
	assert.Equal(t, patient.ID, got.PatientID)
	assert.NotNil(t, got.Selections["desayuno"])
}

func TestCreateCustomMenuRejectsBadDateAndInactivePatient(t *testing.T) {
	db := setupTestDB(t)
	cm := NewCustomMenuService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")

	_, err := cm.Create(nil, CustomMenuInput{Date: "01/09/2026", PatientID: patient.ID})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, apiErr.Code)

	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", patient.ID).
		Update("activo", false).Error)
	_, err = cm.Create(nil, CustomMenuInput{Date: "2026-09-01", PatientID: patient.ID})
	apiErr, ok = AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, apiErr.Code)
}

func TestListCustomMenusFiltersByPatient(t *testing.T) {
	db := setupTestDB(t)
	cm := NewCustomMenuService(db, newTestAudit(db))
	_, _, bedA := seedHierarchy(t, db, "A")
	_, _, bedB := seedHierarchy(t, db, "B")
	patientA := seedPatient(t, db, bedA.ID, "1")
	patientB := seedPatient(t, db, bedB.ID, "2")

	for _, pid := range []uint{patientA.ID, patientB.ID} {
		_, err := cm.Create(nil, CustomMenuInput{Date: "2026-09-01", PatientID: pid})
		require.NoError(t, err)
	}

	out, err := cm.List(fmtUint(patientA.ID))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, patientA.ID, out[0].PatientID)
}

func TestUpdateCustomMenuSignature(t *testing.T) {
	db := setupTestDB(t)
	cm := NewCustomMenuService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")

	created, err := cm.Create(nil, CustomMenuInput{Date: "2026-09-01", PatientID: patient.ID})
	require.NoError(t, err)
	require.False(t, created.Signed)

	got, err := cm.Update(nil, created.ID, CustomMenuInput{
		Date: "2026-09-01", PatientID: patient.ID, Signed: true,
	})
	require.NoError(t, err)
	assert.True(t, got.Signed)
}
