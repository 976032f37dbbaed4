package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

// CatalogController serves the diet and allergy catalogs.
type CatalogController struct {
	Catalog *services.CatalogService
}

func NewCatalogController(cat *services.CatalogService) *CatalogController {
	return &CatalogController{Catalog: cat}
}

// ------------------------------------------------------------------- dietas

func (ctl *CatalogController) ListDiets(c *gin.Context) {
	out, err := ctl.Catalog.ListDiets()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (ctl *CatalogController) GetDiet(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	diet, err := ctl.Catalog.GetDiet(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

func (ctl *CatalogController) CreateDiet(c *gin.Context) {
	var in services.CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	diet, err := ctl.Catalog.CreateDiet(middleware.ActorID(c), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, diet)
}

func (ctl *CatalogController) UpdateDiet(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	diet, err := ctl.Catalog.UpdateDiet(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, diet)
}

func (ctl *CatalogController) DeleteDiet(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Catalog.DeleteDiet(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dieta eliminada"})
}

// ----------------------------------------------------------------- alergias

func (ctl *CatalogController) ListAllergies(c *gin.Context) {
	out, err := ctl.Catalog.ListAllergies()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (ctl *CatalogController) GetAllergy(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	allergy, err := ctl.Catalog.GetAllergy(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, allergy)
}

func (ctl *CatalogController) CreateAllergy(c *gin.Context) {
	var in services.CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	allergy, err := ctl.Catalog.CreateAllergy(middleware.ActorID(c), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, allergy)
}

func (ctl *CatalogController) UpdateAllergy(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.CatalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	allergy, err := ctl.Catalog.UpdateAllergy(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, allergy)
}

func (ctl *CatalogController) DeleteAllergy(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Catalog.DeleteAllergy(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "alergia eliminada"})
}
