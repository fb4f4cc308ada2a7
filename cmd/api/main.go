package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/saralbooks/saral-api/internal/application/service"
	"github.com/saralbooks/saral-api/internal/config"
	"github.com/saralbooks/saral-api/internal/infrastructure/database"
	"github.com/saralbooks/saral-api/internal/infrastructure/repository"
	"github.com/saralbooks/saral-api/internal/presentation/http/handler"
	"github.com/saralbooks/saral-api/internal/presentation/http/routes"
	"github.com/saralbooks/saral-api/pkg/printer"
	"github.com/saralbooks/saral-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	billRepo := repository.NewBillRepository(db)
	billItemRepo := repository.NewBillItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Options{
		Type:        cfg.Printer.Type,
		USBPath:     cfg.Printer.USBPath,
		Address:     cfg.Printer.Address,
		DeviceName:  cfg.Printer.DeviceName,
		ScanTimeout: cfg.Printer.ScanTimeout,
		ChunkSize:   cfg.Printer.ChunkSize,
		WriteDelay:  cfg.Printer.WriteDelay,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	customerService := service.NewCustomerService(customerRepo)
	productService := service.NewProductService(productRepo)
	billService := service.NewBillService(billRepo, billItemRepo, productRepo, customerRepo, paymentRepo, settingsRepo, userRepo)
	reportService := service.NewReportService(reportRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	printerService := service.NewPrinterService(thermalPrinter, billRepo, settingsRepo, cfg.Printer.PaperWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Bill:     handler.NewBillHandler(billService),
		Product:  handler.NewProductHandler(productService),
		Customer: handler.NewCustomerHandler(customerService),
		Report:   handler.NewReportHandler(reportService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup router and start server
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager: jwtManager,
		Cfg:        cfg,
	})

	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
