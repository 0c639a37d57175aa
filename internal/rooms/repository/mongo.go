package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/pkg/config"
	mongodb "roomres/pkg/db/mongo"
	"roomres/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRoomRepository struct {
	cfg        *config.Config
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		client:     cfg.Client.Mongo,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id int) (*model.Room, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.Room
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %d", roomserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context) ([]*model.Room, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoRoomRepository) FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error) {
	filter := bson.M{"capacity": bson.M{"$gte": minCapacity}}
	// $all with an empty list matches nothing, so only constrain when asked.
	if len(features) > 0 {
		filter["features"] = bson.M{"$all": features}
	}
	return r.find(ctx, filter)
}

func (r *mongoRoomRepository) find(ctx context.Context, filter bson.M) ([]*model.Room, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]*model.Room, 0)
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) Upsert(ctx context.Context, room *model.Room) error {
	if err := validateRoom(room); err != nil {
		return err
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"capacity": room.Capacity,
		"features": room.Features,
	}}
	_, err := r.collection.UpdateByID(ctx, room.ID, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert room %d: %w", room.ID, err)
	}
	return nil
}

func (r *mongoRoomRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func (r *mongoRoomRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}
