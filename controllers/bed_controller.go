package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/models"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type BedController struct {
	Hierarchy *services.HierarchyService
}

func NewBedController(h *services.HierarchyService) *BedController {
	return &BedController{Hierarchy: h}
}

type bedCreateRequest struct {
	Name   string `json:"nombre" binding:"required"`
	RoomID uint   `json:"habitacion_id" binding:"required"`
}

type bedUpdateRequest struct {
	Name   *string `json:"nombre"`
	RoomID *uint   `json:"habitacion_id"`
	Active *bool   `json:"activo"`
}

// List (GET /api/camas)
func (ctl *BedController) List(c *gin.Context) {
	out, err := ctl.Hierarchy.ListBeds()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/camas/:id)
func (ctl *BedController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	bed, err := ctl.Hierarchy.GetBed(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bed)
}

// Create (POST /api/camas). The target room must be active.
func (ctl *BedController) Create(c *gin.Context) {
	var req bedCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	bed, err := ctl.Hierarchy.CreateBed(middleware.ActorID(c), models.Bed{
		Name:   req.Name,
		RoomID: req.RoomID,
		Active: true,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bed)
}

// Update (PUT /api/camas/:id)
func (ctl *BedController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var req bedUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	bed, err := ctl.Hierarchy.UpdateBed(middleware.ActorID(c), id, req.Name, req.RoomID, req.Active)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, bed)
}

// Delete (DELETE /api/camas/:id)
func (ctl *BedController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Hierarchy.DeleteBed(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cama eliminada"})
}
