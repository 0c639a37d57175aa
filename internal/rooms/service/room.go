package service

import (
	"context"
	"errors"
	roomserrors "roomres/internal/rooms/errors"
	"roomres/internal/rooms/repository"
	"roomres/pkg/config"
	apperrors "roomres/pkg/errors"
	"roomres/pkg/model"
)

type RoomService interface {
	GetByID(ctx context.Context, id int) (*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error)
}

type roomService struct {
	repo repository.RoomRepository
	cfg  *config.Config
}

func NewRoomService(repo repository.RoomRepository, cfg *config.Config) RoomService {
	return &roomService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *roomService) GetByID(ctx context.Context, id int) (*model.Room, error) {
	if id <= 0 {
		return nil, apperrors.InvalidInput("Room ID must be a positive integer")
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id)
		}
		s.cfg.Log.Error("Failed to retrieve room", "room_id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) List(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) FindMatching(ctx context.Context, minCapacity int, features []string) ([]*model.Room, error) {
	if minCapacity < 1 {
		return nil, apperrors.Validation("Capacity must be at least 1", map[string]any{"capacity": minCapacity}).
			WithReason("invalid_capacity")
	}

	rooms, err := s.repo.FindMatching(ctx, minCapacity, features)
	if err != nil {
		s.cfg.Log.Error("Failed to match rooms", "min_capacity", minCapacity, "features", features, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}
