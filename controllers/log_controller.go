package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type LogController struct {
	Audit *services.AuditService
}

func NewLogController(audit *services.AuditService) *LogController {
	return &LogController{Audit: audit}
}

// List (GET /api/logs?limit=) returns the newest audit entries.
func (ctl *LogController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := ctl.Audit.Entries(limit)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
