package main

import (
	"time"

	"staybook/internal/availability"
	"staybook/internal/carts"
	"staybook/internal/inventory/repository"
	"staybook/internal/reservations/handler"
	resrepository "staybook/internal/reservations/repository"
	"staybook/internal/reservations/service"
	"staybook/internal/reservations/validator"
	"staybook/pkg/app"
	"staybook/pkg/client"
	"staybook/pkg/config"
	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
	"staybook/pkg/model"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	cartValidator := validator.NewCartValidator(cfg.Log)

	serverApp := app.NewApplication()
	reservationService := initServices(cfg, serverApp, cartValidator)
	serverApp.SetApp(cfg, handler.NewReservationHandler(reservationService, cartValidator, cfg.Log))
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

func initServices(cfg *config.Config, serverApp *app.Application, cartValidator *validator.CartValidator) service.ReservationService {
	roomRepo := repository.NewMongoRoomInventoryRepository(cfg)
	serviceRepo := repository.NewMongoServiceInventoryRepository(cfg)
	bookingRepo := resrepository.NewMongoBookingRepository(cfg)

	calc := availability.NewCalculator(
		model.TimeKey(cfg.DefaultSlotStart),
		model.TimeKey(cfg.DefaultSlotEnd),
		time.Duration(cfg.DefaultSlotStepMin)*time.Minute,
		cfg.DefaultSlotCapacity,
	)

	cartStore := carts.NewStore(cfg.CartTTL, cfg.DefaultCurrency)
	serverApp.OnShutdown(cartStore.Stop)

	var catalog service.Catalog
	if cfg.CatalogBaseURL != "" {
		catalogClient := client.NewCatalogClient(cfg.CatalogBaseURL)
		if err := catalogClient.WaitForHealthy(30 * time.Second); err != nil {
			cfg.Log.Fatal("Catalog service did not become healthy", "base_url", cfg.CatalogBaseURL, "error", err)
		}
		catalog = catalogClient
		cfg.Log.Info("Using remote catalog", "base_url", cfg.CatalogBaseURL)
	} else {
		catalog = service.NewRepositoryCatalog(roomRepo, serviceRepo)
	}

	var producer service.EventPublisher
	if cfg.EventsEnabled {
		kafkaProducer, err := kafka.NewProducer(kafka_config.Load(), cfg.EventsTopic, cfg.EventsDLQ)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize event producer", "error", err)
		}
		serverApp.OnShutdown(func() {
			if err := kafkaProducer.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		})
		producer = kafkaProducer
	}

	reservationService := service.NewReservationService(
		cfg,
		bookingRepo,
		roomRepo,
		serviceRepo,
		cartStore,
		calc,
		catalog,
		cartValidator,
		producer,
		cfg.Log,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
