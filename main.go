package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JuCalll/menu-clinica/config"
	"github.com/JuCalll/menu-clinica/controllers"
	"github.com/JuCalll/menu-clinica/routes"
	"github.com/JuCalll/menu-clinica/services"
)

func main() {
	// .env is optional; deployments set real environment variables.
	_ = godotenv.Load()

	log, err := config.InitLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	settings := config.LoadSettings()

	if err := config.ConnectDatabase(); err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	db := config.DB

	audit := services.NewAuditService(db, log)
	hierarchy := services.NewHierarchyService(db, audit)
	patients := services.NewPatientService(db, audit)
	catalog := services.NewCatalogService(db, audit)
	menus := services.NewMenuService(db, audit)
	orders := services.NewOrderService(db, audit)
	auth := services.NewAuthService(db, audit, []byte(settings.JWTSecret))
	users := services.NewUserService(db, audit)
	customMenus := services.NewCustomMenuService(db, audit)

	printer := services.NewEscposPrinter(services.PrinterConfig{
		Host:        settings.PrinterHost,
		Port:        settings.PrinterPort,
		DialTimeout: settings.PrinterDialTimeout,
	})
	printing := services.NewPrintService(orders, audit, printer, settings.PrinterRetries)

	router := routes.SetupRouter(routes.Controllers{
		Auth:       controllers.NewAuthController(auth),
		Users:      controllers.NewUserController(users),
		Services:   controllers.NewServiceController(hierarchy),
		Rooms:      controllers.NewRoomController(hierarchy),
		Beds:       controllers.NewBedController(hierarchy),
		Patients:   controllers.NewPatientController(patients),
		Catalog:    controllers.NewCatalogController(catalog),
		Menus:      controllers.NewMenuController(menus),
		Orders:     controllers.NewOrderController(orders, printing),
		CustomMenu: controllers.NewCustomMenuController(customMenus),
		Logs:       controllers.NewLogController(audit),
	}, auth, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
