package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type MenuController struct {
	Menus *services.MenuService
}

func NewMenuController(m *services.MenuService) *MenuController {
	return &MenuController{Menus: m}
}

// List (GET /api/menus)
func (ctl *MenuController) List(c *gin.Context) {
	out, err := ctl.Menus.List()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/menus/:id)
func (ctl *MenuController) Get(c *gin.Context) {
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

// Create (POST /api/menus) accepts the full nested shape: sections with
// options grouped by tipo.
func (ctl *MenuController) Create(c *gin.Context) {
	var in services.MenuInput
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

// Update (PUT /api/menus/:id) upserts sections and options by id and prunes
// whatever the payload no longer mentions.
func (ctl *MenuController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.MenuInput
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

// Delete (DELETE /api/menus/:id)
func (ctl *MenuController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Menus.Delete(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "menú eliminado"})
}
