package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type PatientController struct {
	Patients *services.PatientService
}

func NewPatientController(p *services.PatientService) *PatientController {
	return &PatientController{Patients: p}
}

// List (GET /api/pacientes) returns active patients only.
func (ctl *PatientController) List(c *gin.Context) {
	out, err := ctl.Patients.List()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/pacientes/:id)
func (ctl *PatientController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	patient, err := ctl.Patients.Get(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// Register (POST /api/pacientes). A cédula already known from a previous,
// now inactive stay is re-admitted with a bumped ingreso_count.
func (ctl *PatientController) Register(c *gin.Context) {
	var in services.PatientInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	patient, err := ctl.Patients.Register(middleware.ActorID(c), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, patient)
}

// Update (PUT /api/pacientes/:id)
func (ctl *PatientController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.PatientUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	patient, err := ctl.Patients.Update(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// Discharge (POST /api/pacientes/:id/discharge) deactivates the patient and
// frees the bed.
func (ctl *PatientController) Discharge(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	patient, err := ctl.Patients.Discharge(middleware.ActorID(c), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

// Delete (DELETE /api/pacientes/:id)
func (ctl *PatientController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Patients.Delete(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "paciente eliminado"})
}
