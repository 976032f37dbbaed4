package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/services"
	"github.com/JuCalll/menu-clinica/utils"
)

type OrderController struct {
	Orders  *services.OrderService
	Printer *services.PrintService
}

func NewOrderController(o *services.OrderService, p *services.PrintService) *OrderController {
	return &OrderController{Orders: o, Printer: p}
}

// List (GET /api/pedidos) supports status, paciente_id and date-range
// filters. status=pendiente also matches orders whose section map never got
// past empty.
func (ctl *OrderController) List(c *gin.Context) {
	filters := services.OrderFilters{
		Status:    c.Query("status"),
		PatientID: c.Query("paciente_id"),
		DateFrom:  c.Query("fecha_inicio"),
		DateTo:    c.Query("fecha_fin"),
	}
	out, err := ctl.Orders.List(filters)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListCompleted (GET /api/pedidos/completados?paciente=)
func (ctl *OrderController) ListCompleted(c *gin.Context) {
	out, err := ctl.Orders.ListCompleted(c.Query("paciente"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get (GET /api/pedidos/:id)
func (ctl *OrderController) Get(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	order, err := ctl.Orders.Get(id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create (POST /api/pedidos)
func (ctl *OrderController) Create(c *gin.Context) {
	var in services.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	order, err := ctl.Orders.Create(middleware.ActorID(c), in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Update (PUT /api/pedidos/:id)
func (ctl *OrderController) Update(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.OrderUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	order, err := ctl.Orders.Update(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateStatus (PATCH /api/pedidos/:id/status) only touches the two
// completion tracks.
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	var in services.OrderStatusUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BindError(c, err)
		return
	}
	order, err := ctl.Orders.UpdateStatus(middleware.ActorID(c), id, in)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete (DELETE /api/pedidos/:id)
func (ctl *OrderController) Delete(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Orders.Delete(middleware.ActorID(c), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pedido eliminado"})
}

// Print (POST /api/pedidos/:id/print?section_title=) renders the section
// receipt and sends it to the kitchen printer.
func (ctl *OrderController) Print(c *gin.Context) {
	id, ok := utils.ParseID(c)
	if !ok {
		return
	}
	if err := ctl.Printer.PrintOrder(middleware.ActorID(c), id, c.Query("section_title")); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pedido enviado a impresión"})
}
