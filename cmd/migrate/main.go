package main

import (
	"context"
	"os"
	"strconv"
	"time"

	mongoMigration "roomres/internal/migrations/mongo"
	postgresMigration "roomres/internal/migrations/postgres"
	"roomres/internal/migrations/seed"
	resrepo "roomres/internal/reservations/repository"
	"roomres/internal/reservations/service"
	"roomres/internal/reservations/validator"
	roomsrepo "roomres/internal/rooms/repository"
	"roomres/pkg/config"
)

const (
	JobName    = "migration"
	EnvSeed    = "MIGRATE_SEED"
	jobTimeout = 120 * time.Second
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Connect()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting migration job", "backend", cfg.StoreBackend)

	if err := migrate(ctx, cfg); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	if seedEnabled() {
		if err := seedData(ctx, cfg); err != nil {
			cfg.Log.Fatal("Seeding failed", "error", err)
		}
	}

	cfg.Log.Info("Migration completed successfully")
}

func migrate(ctx context.Context, cfg *config.Config) error {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		return mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
	case config.BackendPostgres:
		return postgresMigration.RunMigration(ctx, cfg.Client.Postgres, cfg.Log)
	default:
		cfg.Log.Info("Nothing to migrate for backend", "backend", cfg.StoreBackend)
		return nil
	}
}

func seedData(ctx context.Context, cfg *config.Config) error {
	rooms := roomsrepo.New(cfg)
	reservationService := service.NewReservationService(
		resrepo.New(cfg),
		rooms,
		validator.NewReservationValidator(cfg.Log),
		nil,
		cfg,
	)
	_, err := seed.Run(ctx, rooms, reservationService, cfg.Log)
	return err
}

func seedEnabled() bool {
	enabled, _ := strconv.ParseBool(os.Getenv(EnvSeed))
	return enabled
}
