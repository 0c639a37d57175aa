package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	resrepo "roomres/internal/reservations/repository"
	"roomres/internal/reservations/service"
	"roomres/internal/reservations/validator"
	"roomres/internal/reservations/worker"
	roomsrepo "roomres/internal/rooms/repository"
	"roomres/pkg/config"
	"roomres/pkg/kafka"
	kafka_config "roomres/pkg/kafka/config"
	kafka_middleware "roomres/pkg/kafka/middleware"
	"syscall"
	"time"
)

const (
	ServiceName     = "reservations-worker"
	metricsInterval = time.Minute
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Connect()
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	metrics := kafka_middleware.NewMetrics()

	replies, err := kafka.NewProducer(kafkaCfg, cfg.ReservationRepliesTopic, "", cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create reply producer", "error", err)
	}
	replies.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	replies.Use(metrics.ProducerMiddleware())
	defer replies.Close()

	var events kafka.Publisher
	if cfg.EventsEnabled {
		producer, err := kafka.NewProducer(kafkaCfg, cfg.ReservationEventsTopic, "", cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create event producer", "error", err)
		}
		producer.Use(metrics.ProducerMiddleware())
		defer producer.Close()
		events = producer
	}

	reservationService := service.NewReservationService(
		resrepo.New(cfg),
		roomsrepo.New(cfg),
		validator.NewReservationValidator(cfg.Log),
		events,
		cfg,
	)
	handler := worker.NewCommandHandler(reservationService, replies, cfg.Log)

	consumer, err := kafka.NewConsumer(kafkaCfg,
		cfg.ReservationCommandsTopic,
		cfg.WorkerGroupID,
		cfg.ReservationDLQTopic,
		handler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create command consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go reportMetrics(ctx, cfg, metrics)

	cfg.Log.Info("Reservation worker consuming commands",
		"topic", cfg.ReservationCommandsTopic,
		"group_id", cfg.WorkerGroupID,
		"replies_topic", cfg.ReservationRepliesTopic,
		"dlq_topic", cfg.ReservationDLQTopic,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Command consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close command consumer", "error", err)
	}
	metrics.LogMetrics(cfg.Log)
	cfg.Log.Info("Reservation worker stopped")
}

func reportMetrics(ctx context.Context, cfg *config.Config, metrics *kafka_middleware.Metrics) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.LogMetrics(cfg.Log)
		}
	}
}
