package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type CustomMenuController struct {
	Menus *services.CustomMenuService
}

func NewCustomMenuController(m *services.CustomMenuService) *CustomMenuController {
	return &CustomMenuController{Menus: m}
}

// List (GET /api/menus-personalizados?paciente_id=)
func (ctl *CustomMenuController) List(c *gin.Context) {
	out, err := ctl.Menus.List(c.Query("paciente_id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/menus-personalizados/:id)
func (ctl *CustomMenuController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	menu, err := ctl.Menus.Get(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// Create (POST /api/menus-personalizados)
func (ctl *CustomMenuController) Create(c *gin.Context) {
	var in services.CustomMenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	menu, err := ctl.Menus.Create(middleware.ActorID(c), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

// Update (PUT /api/menus-personalizados/:id)
func (ctl *CustomMenuController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.CustomMenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	menu, err := ctl.Menus.Update(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// Delete (DELETE /api/menus-personalizados/:id)
func (ctl *CustomMenuController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Menus.Delete(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "menú personalizado eliminado"})
}
