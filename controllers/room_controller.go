package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/models"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type RoomController struct {
	Hierarchy *services.HierarchyService
}

func NewRoomController(h *services.HierarchyService) *RoomController {
	return &RoomController{Hierarchy: h}
}

type roomCreateRequest struct {
	Name      string `json:"nombre" binding:"required"`
	ServiceID uint   `json:"servicio_id" binding:"required"`
}

type roomUpdateRequest struct {
	Name      *string `json:"nombre"`
	ServiceID *uint   `json:"servicio_id"`
	Active    *bool   `json:"activo"`
}

// List (GET /api/habitaciones)
func (ctl *RoomController) List(c *gin.Context) {
	out, err := ctl.Hierarchy.ListRooms()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/habitaciones/:id)
func (ctl *RoomController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	room, err := ctl.Hierarchy.GetRoom(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// Create (POST /api/habitaciones)
func (ctl *RoomController) Create(c *gin.Context) {
	var req roomCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	room, err := ctl.Hierarchy.CreateRoom(middleware.ActorID(c), models.Room{
		Name:      req.Name,
		ServiceID: req.ServiceID,
		Active:    true,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// Update (PUT /api/habitaciones/:id)
func (ctl *RoomController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var req roomUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	room, err := ctl.Hierarchy.UpdateRoom(middleware.ActorID(c), id, req.Name, req.ServiceID, req.Active)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// Delete (DELETE /api/habitaciones/:id)
func (ctl *RoomController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Hierarchy.DeleteRoom(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "habitación eliminada"})
}
