package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/services"
)

// HandleError writes the response for a service-layer error: APIErrors keep
// their status and machine code, anything else is an opaque 500.
func HandleError(c *gin.Context, err error) {
	if apiErr, ok := services.AsAPIError(err); ok {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "error interno del servidor",
		"code":  "internal",
	})
}

// BindError reports a malformed payload with field detail.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "payload inválido",
		"code":    services.CodeValidation,
		"details": err.Error(),
	})
}

// ParseID reads the :id path param; on failure it writes the 400 itself and
// returns ok=false.
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "id inválido",
			"code":  services.CodeValidation,
		})
		return 0, false
	}
	return uint(id), true
}
