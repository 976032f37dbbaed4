package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuCalll/menu-clinica/models"
)

func strPtr(s string) *string { return &s }

func completedSections() map[string]interface{} {
	m := map[string]interface{}{}
	for _, s := range models.RequiredSections {
		m[s] = models.SectionStateCompleted
	}
	return m
}

func TestCreateOrderSkipsUnknownAndDuplicateOptions(t *testing.T) {
	db := setupTestDB(t)
	audit := newTestAudit(db)
	o := NewOrderService(db, audit)

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, optIDs := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado", "Pescado")

	got, err := o.Create(nil, OrderInput{
		PatientID: patient.ID,
		MenuID:    menu.ID,
		Options: []OrderOptionInput{
			{ID: optIDs[0], Selected: true},
			{ID: 99999, Selected: true},     // unknown: skipped
			{ID: optIDs[0], Selected: true}, // duplicate: skipped
			{ID: optIDs[1], Selected: false},
		},
	})
	require.NoError(t, err)
	assert.Len(t, got.Options, 2)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.False(t, got.IsFullyCompleted)
}

func TestCreateOrderRejectsInactivePatient(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", patient.ID).
		Update("activo", false).Error)
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	_, err := o.Create(nil, OrderInput{PatientID: patient.ID, MenuID: menu.ID})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, apiErr.Code)
}

func TestUpdateOrderReplacesOptionSetWholesale(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, optIDs := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado", "Pescado", "Sopa")

	created, err := o.Create(nil, OrderInput{
		PatientID: patient.ID,
		MenuID:    menu.ID,
		Options: []OrderOptionInput{
			{ID: optIDs[0], Selected: true},
			{ID: optIDs[1], Selected: true},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Options, 2)

	// resending a single option drops the rest
	got, err := o.Update(nil, created.ID, OrderUpdate{
		Options: []OrderOptionInput{{ID: optIDs[2], Selected: true}},
	})
	require.NoError(t, err)
	require.Len(t, got.Options, 1)
	assert.Equal(t, "Sopa", got.Options[0].MenuOption.Text)
}

func TestUpdateOrderKeepsInactivePatientButRejectsNewOne(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bedA := seedHierarchy(t, db, "A")
	_, _, bedB := seedHierarchy(t, db, "B")
	current := seedPatient(t, db, bedA.ID, "1")
	inactive := seedPatient(t, db, bedB.ID, "2")
	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", inactive.ID).
		Update("activo", false).Error)
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	order, err := o.Create(nil, OrderInput{PatientID: current.ID, MenuID: menu.ID})
	require.NoError(t, err)

	// pointing at a newly inactive patient is rejected
	_, err = o.Update(nil, order.ID, OrderUpdate{PatientID: &inactive.ID})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, apiErr.Code)

	// but an order whose own patient went inactive is still editable
	require.NoError(t, db.Model(&models.Patient{}).Where("id = ?", current.ID).
		Update("activo", false).Error)
	got, err := o.Update(nil, order.ID, OrderUpdate{Notes: strPtr("sin sal")})
	require.NoError(t, err)
	assert.Equal(t, "sin sal", got.Notes)
	assert.Equal(t, current.ID, got.PatientID)
}

func TestUpdateStatusOnlyMovesCompletionTracks(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	order, err := o.Create(nil, OrderInput{
		PatientID: patient.ID, MenuID: menu.ID, Notes: "puré aparte",
	})
	require.NoError(t, err)

	sections := completedSections()
	got, err := o.UpdateStatus(nil, order.ID, OrderStatusUpdate{
		Status:        strPtr(models.OrderStatusCompleted),
		SectionStatus: &sections,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, got.Status)
	assert.True(t, got.IsFullyCompleted)
	assert.Equal(t, "puré aparte", got.Notes, "PATCH must not touch other fields")
}

func TestUpdateStatusRejectsUnknownState(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")
	order, err := o.Create(nil, OrderInput{PatientID: patient.ID, MenuID: menu.ID})
	require.NoError(t, err)

	_, err = o.UpdateStatus(nil, order.ID, OrderStatusUpdate{Status: strPtr("listo")})
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, apiErr.Code)
}

func TestListPendingIncludesEmptySectionMap(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	pending, err := o.Create(nil, OrderInput{PatientID: patient.ID, MenuID: menu.ID})
	require.NoError(t, err)

	// status says done but the section map is still empty: counts as pendiente
	statusOnly, err := o.Create(nil, OrderInput{PatientID: patient.ID, MenuID: menu.ID})
	require.NoError(t, err)
	_, err = o.UpdateStatus(nil, statusOnly.ID, OrderStatusUpdate{
		Status: strPtr(models.OrderStatusCompleted),
	})
	require.NoError(t, err)

	sections := completedSections()
	done, err := o.Create(nil, OrderInput{
		PatientID: patient.ID, MenuID: menu.ID, SectionStatus: sections,
	})
	require.NoError(t, err)
	_, err = o.UpdateStatus(nil, done.ID, OrderStatusUpdate{
		Status: strPtr(models.OrderStatusCompleted),
	})
	require.NoError(t, err)

	out, err := o.List(OrderFilters{Status: models.OrderStatusPending})
	require.NoError(t, err)
	ids := make([]uint, 0, len(out))
	for _, v := range out {
		ids = append(ids, v.ID)
	}
	assert.Contains(t, ids, pending.ID)
	assert.Contains(t, ids, statusOnly.ID)
	assert.NotContains(t, ids, done.ID)
}

func TestListCompletedFiltersByStatusAndPatient(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bedA := seedHierarchy(t, db, "A")
	_, _, bedB := seedHierarchy(t, db, "B")
	patientA := seedPatient(t, db, bedA.ID, "1")
	patientB := seedPatient(t, db, bedB.ID, "2")
	menu, _, _ := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	for _, pid := range []uint{patientA.ID, patientB.ID} {
		order, err := o.Create(nil, OrderInput{PatientID: pid, MenuID: menu.ID})
		require.NoError(t, err)
		_, err = o.UpdateStatus(nil, order.ID, OrderStatusUpdate{
			Status: strPtr(models.OrderStatusCompleted),
		})
		require.NoError(t, err)
	}
	_, err := o.Create(nil, OrderInput{PatientID: patientA.ID, MenuID: menu.ID})
	require.NoError(t, err)

	out, err := o.ListCompleted("")
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = o.ListCompleted(fmtUint(patientA.ID))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, patientA.ID, out[0].PatientID)
}

func TestDeleteOrderRemovesOptionRows(t *testing.T) {
	db := setupTestDB(t)
	o := NewOrderService(db, newTestAudit(db))

	_, _, bed := seedHierarchy(t, db, "A")
	patient := seedPatient(t, db, bed.ID, "1")
	menu, _, optIDs := seedMenu(t, db, "Menú General", "Almuerzo", "Pollo asado")

	order, err := o.Create(nil, OrderInput{
		PatientID: patient.ID, MenuID: menu.ID,
		Options: []OrderOptionInput{{ID: optIDs[0], Selected: true}},
	})
	require.NoError(t, err)

	require.NoError(t, o.Delete(nil, order.ID))

	var count int64
	require.NoError(t, db.Model(&models.OrderMenuOption{}).
		Where("pedido_id = ?", order.ID).Count(&count).Error)
	assert.Zero(t, count)

	err = o.Delete(nil, order.ID)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, apiErr.Code)
}
