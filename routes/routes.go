package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JuCalll/menu-clinica/controllers"
	"github.com/JuCalll/menu-clinica/middleware"
	"github.com/JuCalll/menu-clinica/models"
	"github.com/JuCalll/menu-clinica/services"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// Controllers groups the handler instances SetupRouter wires up.
type Controllers struct {
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Services   *controllers.ServiceController
	Rooms      *controllers.RoomController
	Beds       *controllers.BedController
	Patients   *controllers.PatientController
	Catalog    *controllers.CatalogController
	Menus      *controllers.MenuController
	Orders     *controllers.OrderController
	CustomMenu *controllers.CustomMenuController
	Logs       *controllers.LogController
}

func SetupRouter(ctl Controllers, auth *services.AuthService, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Open endpoints: credentials in, tokens out.
	api.POST("/auth/login", ctl.Auth.Login)
	api.POST("/auth/token/refresh", ctl.Auth.Refresh)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(auth))
	{
		protected.POST("/auth/logout", ctl.Auth.Logout)

		admin := protected.Group("/auth")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/register", ctl.Users.Register)
			admin.GET("/users", ctl.Users.List)
			admin.GET("/users/:id", ctl.Users.Get)
			admin.PUT("/users/:id", ctl.Users.Update)
			admin.PATCH("/users/:id", ctl.Users.Update)
			admin.DELETE("/users/:id", ctl.Users.Delete)
		}

		logs := protected.Group("/logs")
		logs.Use(middleware.RequireRole(models.RoleAdmin))
		logs.GET("", ctl.Logs.List)

		servicios := protected.Group("/servicios")
		{
			servicios.GET("", ctl.Services.List)
			servicios.POST("", ctl.Services.Create)
			servicios.GET("/:id", ctl.Services.Get)
			servicios.PUT("/:id", ctl.Services.Update)
			servicios.PATCH("/:id", ctl.Services.Update)
			servicios.DELETE("/:id", ctl.Services.Delete)
		}

		habitaciones := protected.Group("/habitaciones")
		{
			habitaciones.GET("", ctl.Rooms.List)
			habitaciones.POST("", ctl.Rooms.Create)
			habitaciones.GET("/:id", ctl.Rooms.Get)
			habitaciones.PUT("/:id", ctl.Rooms.Update)
			habitaciones.PATCH("/:id", ctl.Rooms.Update)
			habitaciones.DELETE("/:id", ctl.Rooms.Delete)
		}

		camas := protected.Group("/camas")
		{
			camas.GET("", ctl.Beds.List)
			camas.POST("", ctl.Beds.Create)
			camas.GET("/:id", ctl.Beds.Get)
			camas.PUT("/:id", ctl.Beds.Update)
			camas.PATCH("/:id", ctl.Beds.Update)
			camas.DELETE("/:id", ctl.Beds.Delete)
		}

		pacientes := protected.Group("/pacientes")
		{
			pacientes.GET("", ctl.Patients.List)
			pacientes.POST("", ctl.Patients.Register)
			pacientes.GET("/:id", ctl.Patients.Get)
			pacientes.PUT("/:id", ctl.Patients.Update)
			pacientes.PATCH("/:id", ctl.Patients.Update)
			pacientes.POST("/:id/discharge", ctl.Patients.Discharge)
			pacientes.DELETE("/:id", ctl.Patients.Delete)
		}

		dietas := protected.Group("/dietas")
		{
			dietas.GET("", ctl.Catalog.ListDiets)
			dietas.POST("", ctl.Catalog.CreateDiet)
			dietas.GET("/:id", ctl.Catalog.GetDiet)
			dietas.PUT("/:id", ctl.Catalog.UpdateDiet)
			dietas.PATCH("/:id", ctl.Catalog.UpdateDiet)
			dietas.DELETE("/:id", ctl.Catalog.DeleteDiet)
		}

		alergias := protected.Group("/alergias")
		{
			alergias.GET("", ctl.Catalog.ListAllergies)
			alergias.POST("", ctl.Catalog.CreateAllergy)
			alergias.GET("/:id", ctl.Catalog.GetAllergy)
			alergias.PUT("/:id", ctl.Catalog.UpdateAllergy)
			alergias.PATCH("/:id", ctl.Catalog.UpdateAllergy)
			alergias.DELETE("/:id", ctl.Catalog.DeleteAllergy)
		}

		menus := protected.Group("/menus")
		{
			menus.GET("", ctl.Menus.List)
			menus.POST("", ctl.Menus.Create)
			menus.GET("/:id", ctl.Menus.Get)
			menus.PUT("/:id", ctl.Menus.Update)
			menus.DELETE("/:id", ctl.Menus.Delete)
		}

		pedidos := protected.Group("/pedidos")
		{
			// fixed path before /:id so "completados" never parses as an id
			pedidos.GET("/completados", ctl.Orders.ListCompleted)
			pedidos.GET("", ctl.Orders.List)
			pedidos.POST("", ctl.Orders.Create)
			pedidos.GET("/:id", ctl.Orders.Get)
			pedidos.PUT("/:id", ctl.Orders.Update)
			pedidos.PATCH("/:id/status", ctl.Orders.UpdateStatus)
			pedidos.POST("/:id/print", ctl.Orders.Print)
			pedidos.DELETE("/:id", ctl.Orders.Delete)
		}

		personalizados := protected.Group("/menus-personalizados")
		{
			personalizados.GET("", ctl.CustomMenu.List)
			personalizados.POST("", ctl.CustomMenu.Create)
			personalizados.GET("/:id", ctl.CustomMenu.Get)
			personalizados.PUT("/:id", ctl.CustomMenu.Update)
			personalizados.DELETE("/:id", ctl.CustomMenu.Delete)
		}
	}

	return r
}
