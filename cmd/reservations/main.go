package main

import (
	"context"
	"roomres/internal/migrations/seed"
	reshandler "roomres/internal/reservations/handler"
	resrepo "roomres/internal/reservations/repository"
	"roomres/internal/reservations/service"
	"roomres/internal/reservations/validator"
	roomhandler "roomres/internal/rooms/handler"
	roomsrepo "roomres/internal/rooms/repository"
	roomservice "roomres/internal/rooms/service"
	"roomres/pkg/app"
	"roomres/pkg/config"
	"roomres/pkg/kafka"
	kafka_config "roomres/pkg/kafka/config"
	kafka_middleware "roomres/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Connect()

	cfg.Log.Info("Starting Reservations service", "backend", cfg.StoreBackend)

	rooms := roomsrepo.New(cfg)
	events := initEvents(cfg)
	reservationService := initServices(cfg, rooms, events)
	if cfg.StoreBackend == config.BackendMemory {
		seedMemory(cfg, rooms, reservationService)
	}

	serverApp := app.NewApplication(cfg)
	if events != nil {
		serverApp.OnShutdown(func() {
			if err := events.Close(); err != nil {
				cfg.Log.Error("Failed to close event producer", "error", err)
			}
		})
	}
	serverApp.SetApp(
		roomhandler.NewHealthHandler(rooms, cfg.StoreBackend, cfg.Log),
		roomhandler.NewRoomHandler(roomservice.NewRoomService(rooms, cfg), cfg.APIPrefix, cfg.Log),
		reshandler.NewReservationHandler(reservationService, cfg.APIPrefix, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, rooms roomsrepo.RoomRepository, events kafka.Publisher) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := resrepo.New(cfg)
	reservationService := service.NewReservationService(
		reservationRepo,
		rooms,
		reservationValidator,
		events,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "backend", cfg.StoreBackend, "events", events != nil)
	return reservationService
}

// initEvents returns nil when events are disabled, which the service treats
// as "do not publish".
func initEvents(cfg *config.Config) kafka.Publisher {
	if !cfg.EventsEnabled {
		return nil
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create event producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Reservation events enabled", "topic", cfg.ReservationEventsTopic)
	return producer
}

// seedMemory loads the catalog into the process-local store, which starts
// empty on every boot.
func seedMemory(cfg *config.Config, rooms roomsrepo.RoomRepository, svc service.ReservationService) {
	result, err := seed.Run(context.Background(), rooms, svc, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to seed in-memory store", "error", err)
	}
	cfg.Log.Info("In-memory store seeded", "rooms", result.Rooms, "reservations", result.Reservations)
}
