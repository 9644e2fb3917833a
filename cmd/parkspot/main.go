package main

import (
	bookingshandler "parkspot/internal/bookings/handler"
	bookingsrepo "parkspot/internal/bookings/repository"
	bookingsservice "parkspot/internal/bookings/service"
	bookingsvalidator "parkspot/internal/bookings/validator"
	spotshandler "parkspot/internal/spots/handler"
	spotsrepo "parkspot/internal/spots/repository"
	spotsservice "parkspot/internal/spots/service"
	spotsvalidator "parkspot/internal/spots/validator"
	vehicleshandler "parkspot/internal/vehicles/handler"
	vehiclesrepo "parkspot/internal/vehicles/repository"
	vehiclesservice "parkspot/internal/vehicles/service"
	"parkspot/pkg/app"
	"parkspot/pkg/clock"
	"parkspot/pkg/config"
	"parkspot/pkg/events"
	"parkspot/pkg/qr"
)

const ServiceName = "parkspot"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting parkspot service")

	clk := clock.New(cfg.TimeZone)
	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaBookingTopic, ServiceName, cfg.Log)

	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewBookingLockRepository(cfg)
	spotRepo := spotsrepo.NewMongoSpotRepository(cfg)
	vehicleRepo := vehiclesrepo.NewMongoVehicleRepository(cfg)

	spotService := spotsservice.NewSpotService(
		spotRepo,
		bookingRepo,
		spotsvalidator.NewSpotValidator(cfg.Log),
		clk,
		cfg,
	)
	vehicleService := vehiclesservice.NewVehicleService(vehicleRepo, cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		spotService,
		vehicleService,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		qr.NewEncoder(),
		publisher,
		clk,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp := app.NewApplication(cfg)
	serverApp.SetPublisher(publisher)
	serverApp.SetApp(
		spotshandler.NewSpotHandler(spotService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		vehicleshandler.NewVehicleHandler(vehicleService, cfg.Log),
	)
	serverApp.Run()
}
