package main

import (
	"innkeep/internal/availability"
	reshandler "innkeep/internal/reservations/handler"
	resrepository "innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/service"
	roomshandler "innkeep/internal/rooms/handler"
	roomsrepository "innkeep/internal/rooms/repository"
	"innkeep/pkg/app"
	"innkeep/pkg/cache"
	"innkeep/pkg/config"
	"innkeep/pkg/contracts"
	"innkeep/pkg/events"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	c := cache.New(cfg.CacheSweepInterval, cache.WithMaxEntries(cfg.CacheMaxEntries))
	publisher := initPublisher(cfg)
	handlers := initHandlers(cfg, c, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, c, publisher, handlers...)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Warn("No Kafka brokers configured, booking events disabled")
		return events.NewNoopPublisher(cfg.Log)
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to create event producer", "error", err)
	}
	cfg.Log.Info("Event producer initialized",
		"brokers", cfg.KafkaBrokers,
		"topic", cfg.KafkaBookingTopic,
	)
	return producer
}

func initHandlers(cfg *config.Config, c *cache.Cache, publisher events.Publisher) []contracts.Handler {
	roomRepo := roomsrepository.NewMongoRoomRepository(cfg)
	bookingRepo := resrepository.NewMongoBookingRepository(cfg)

	resolver := availability.NewResolver(cfg, roomRepo, bookingRepo, c)
	invalidator := availability.NewInvalidator(c, cfg.Log)

	reservationService := service.NewReservationService(cfg, roomRepo, bookingRepo, invalidator, publisher)

	cfg.Log.Info("Reservation services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		roomshandler.NewRoomHandler(resolver, roomRepo, invalidator, cfg.Log),
		reshandler.NewReservationHandler(reservationService, cfg.Log),
	}
}
