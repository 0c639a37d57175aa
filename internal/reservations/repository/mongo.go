package repository

import (
	"context"
	"errors"
	"fmt"
	reserrors "roomres/internal/reservations/errors"
	"roomres/pkg/config"
	mongodb "roomres/pkg/db/mongo"
	"roomres/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	slots      *mongo.Collection
	counters   *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		slots:      db.Collection(SlotCollectionName),
		counters:   db.Collection(CounterCollection),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo, cfg.RetryPolicy()),
	}
}

// ExecuteInSlot bumps the slot guard document before running fn. Two
// transactions on the same slot both write the guard, so the later one
// aborts with a write conflict and is retried against the committed state.
func (r *mongoReservationRepository) ExecuteInSlot(ctx context.Context, slot model.Slot, fn SlotFunc) error {
	return r.txManager.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := r.touchGuard(sessCtx, slot); err != nil {
			return err
		}
		return fn(sessCtx)
	})
}

func (r *mongoReservationRepository) touchGuard(ctx context.Context, slot model.Slot) error {
	now := time.Now().UTC()
	update := bson.M{
		"$inc": bson.M{"version": 1},
		"$set": bson.M{"expires_at": now.Add(r.cfg.SlotGuardTTL)},
		"$setOnInsert": bson.M{
			"room_id":    slot.RoomID,
			"date":       slot.Date,
			"created_at": now,
		},
	}

	_, err := r.slots.UpdateByID(ctx, slot.Key(), update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to lock slot %s: %w", slot.Key(), err)
	}
	return nil
}

// nextID draws from the counter outside any session so an aborted attempt
// never rolls the sequence back. Ids may therefore have gaps.
func (r *mongoReservationRepository) nextID() (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": reservationSequence},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate reservation id: %w", err)
	}
	return counter.Seq, nil
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if err := validateReservation(reservation); err != nil {
		return err
	}

	id, err := r.nextID()
	if err != nil {
		return err
	}
	reservation.ID = id
	reservation.CreatedAt = time.Now().UTC()

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, reservation); err != nil {
		return fmt.Errorf("failed to insert reservation: %w", err)
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, id int64) (*model.Reservation, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var res model.Reservation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", reserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &res, nil
}

func (r *mongoReservationRepository) FindByRoomAndDate(ctx context.Context, roomID int, date string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{"room_id": roomID, "date": date})
}

func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, date, start, end string) ([]*model.Reservation, error) {
	return r.find(ctx, bson.M{
		"date":       date,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	})
}

func (r *mongoReservationRepository) find(ctx context.Context, filter bson.M) ([]*model.Reservation, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "room_id", Value: 1},
		{Key: "start_time", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := make([]*model.Reservation, 0)
	if err := cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}
	return reservations, nil
}

func (r *mongoReservationRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}
