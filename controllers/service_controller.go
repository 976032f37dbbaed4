package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/models"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type ServiceController struct {
	Hierarchy *services.HierarchyService
}

func NewServiceController(h *services.HierarchyService) *ServiceController {
	return &ServiceController{Hierarchy: h}
}

type serviceCreateRequest struct {
	Name string `json:"nombre" binding:"required"`
}

type serviceUpdateRequest struct {
	Name   *string `json:"nombre"`
	Active *bool   `json:"activo"`
}

// List (GET /api/servicios)
func (ctl *ServiceController) List(c *gin.Context) {
	out, err := ctl.Hierarchy.ListServices()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/servicios/:id)
func (ctl *ServiceController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	svc, err := ctl.Hierarchy.GetService(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// Create (POST /api/servicios)
func (ctl *ServiceController) Create(c *gin.Context) {
	var req serviceCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	svc, err := ctl.Hierarchy.CreateService(middleware.ActorID(c), models.Service{Name: req.Name, Active: true})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

// Update (PUT /api/servicios/:id). Flipping activo to false cascades down to
// rooms, beds and patients.
func (ctl *ServiceController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var req serviceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	svc, err := ctl.Hierarchy.UpdateService(middleware.ActorID(c), id, req.Name, req.Active)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

// Delete (DELETE /api/servicios/:id)
func (ctl *ServiceController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Hierarchy.DeleteService(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "servicio eliminado"})
}
