package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuCalll/menu-clinica/models"
)

func TestUpdateDietBlockedByActivePatients(t *testing.T) {
	db := setupTestDB(t)
	cat := NewCatalogService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")

	diet, err := cat.CreateDiet(nil, CatalogInput{Name: "Hiposódica"})
	require.NoError(t, err)

	for _, cedula := range []string{"1", "2", "3", "4"} {
		patient := seedPatient(t, db, bed.ID, cedula)
		require.NoError(t, db.Model(&patient).Association("Diets").Append(&diet))
	}

	_, err = cat.UpdateDiet(nil, diet.ID, CatalogInput{Name: "Hiposódica", Active: boolPtr(false)})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
	assert.Contains(t, apiErr.Message, "4 paciente(s) activo(s)")

	// a plain rename is fine while assigned
	got, err := cat.UpdateDiet(nil, diet.ID, CatalogInput{Name: "Hiposódica estricta"})
	require.NoError(t, err)
	assert.Equal(t, "Hiposódica estricta", got.Name)
}

func TestDeactivateDietAllowedOnceAssigneesInactive(t *testing.T) {
	db := setupTestDB(t)
	cat := NewCatalogService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")

	diet, err := cat.CreateDiet(nil, CatalogInput{Name: "Hiposódica"})
	require.NoError(t, err)
	patient := seedPatient(t, db, bed.ID, "1")
	require.NoError(t, db.Model(&patient).Association("Diets").Append(&diet))

	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", patient.ID).
		Update("activo", false).Error)

	got, err := cat.UpdateDiet(nil, diet.ID, CatalogInput{Name: "Hiposódica", Active: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestDeleteAllergyBlockedByActivePatients(t *testing.T) {
	db := setupTestDB(t)
	cat := NewCatalogService(db, newTestAudit(db))
	_, _, bed := seedHierarchy(t, db, "A")

	allergy, err := cat.CreateAllergy(nil, CatalogInput{Name: "Maní"})
	require.NoError(t, err)
	patient := seedPatient(t, db, bed.ID, "1")
	require.NoError(t, db.Model(&patient).Association("Allergies").Append(&allergy))

	err = cat.DeleteAllergy(nil, allergy.ID)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
}

func TestCreateDietDuplicateNameConflict(t *testing.T) {
	db := setupTestDB(t)
	cat := NewCatalogService(db, newTestAudit(db))

	_, err := cat.CreateDiet(nil, CatalogInput{Name: "Blanda"})
	require.NoError(t, err)
	_, err = cat.CreateDiet(nil, CatalogInput{Name: "Blanda"})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeConflict, apiErr.Code)
}
