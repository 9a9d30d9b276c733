package service

import (
	"context"
	"errors"
	"strings"

	"github.com/studycam/api/internal/database"
	"github.com/studycam/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	// Default page size for room listings
	defaultRoomPageSize = 50
	maxRoomPageSize     = 200
)

// RoomRepository defines the interface for room storage
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByName(ctx context.Context, name string) (*model.Room, error)
	List(ctx context.Context, limit, offset int) ([]*model.Room, error)
	ClaimOwner(ctx context.Context, roomID, userID string) (bool, error)
}

// MemberRepository defines the interface for membership ledger storage
type MemberRepository interface {
	CreateActive(ctx context.Context, member *model.Member) error
	FindByRoomAndUser(ctx context.Context, roomID, userID string) (*model.Member, error)
	Activate(ctx context.Context, id string, role model.MemberRole) error
	Deactivate(ctx context.Context, roomID, userID string) error
	DeactivateAll(ctx context.Context, roomID string) error
	CountActive(ctx context.Context, roomID string) (int, error)
	CountActiveBatch(ctx context.Context, roomIDs []string) (map[string]int, error)
	ListActiveByRoom(ctx context.Context, roomID string) ([]*model.Member, error)
}

// RoomService handles room registry business logic
type RoomService struct {
	roomRepo   RoomRepository
	memberRepo MemberRepository
}

// RoomServiceConfig holds configuration for the room service
type RoomServiceConfig struct {
	RoomRepo   RoomRepository
	MemberRepo MemberRepository
}

// NewRoomService creates a new room service
func NewRoomService(cfg RoomServiceConfig) *RoomService {
	return &RoomService{
		roomRepo:   cfg.RoomRepo,
		memberRepo: cfg.MemberRepo,
	}
}

// CreateRoom creates a new room. An omitted capacity falls back to the
// default; a non-positive capacity is rejected before any state change.
func (s *RoomService) CreateRoom(ctx context.Context, req *model.CreateRoomRequest) (*model.Room, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrRoomNameRequired
	}
	if len(name) > model.MaxRoomNameLength {
		return nil, ErrRoomNameTooLong
	}

	capacity := model.DefaultRoomCapacity
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, ErrInvalidCapacity
		}
		if *req.Capacity > model.MaxRoomCapacity {
			return nil, ErrCapacityTooLarge
		}
		capacity = *req.Capacity
	}

	room := &model.Room{
		Name:     name,
		Capacity: capacity,
		OwnerID:  req.OwnerID,
	}

	// Privacy is derived from the presence of a password, never stored directly
	if req.Password != nil && *req.Password != "" {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		room.PasswordHash = &hash
		room.IsPrivate = true
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		if isDuplicateErr(err) {
			return nil, ErrRoomNameExists
		}
		return nil, err
	}

	return room, nil
}

// GetRoom retrieves a room with its active member count
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*model.RoomWithCount, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	count, err := s.memberRepo.CountActive(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &model.RoomWithCount{Room: *room, ActiveCount: count}, nil
}

// ListRooms retrieves rooms with their active member counts. Counts for the
// whole page are resolved in a single batch query; rooms with no active
// members report zero.
func (s *RoomService) ListRooms(ctx context.Context, limit, offset int) ([]*model.RoomWithCount, error) {
	if limit <= 0 {
		limit = defaultRoomPageSize
	}
	if limit > maxRoomPageSize {
		limit = maxRoomPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rooms, err := s.roomRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	counts, err := s.ActiveCounts(ctx, roomIDs(rooms))
	if err != nil {
		return nil, err
	}

	result := make([]*model.RoomWithCount, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, &model.RoomWithCount{
			Room:        *room,
			ActiveCount: counts[room.ID],
		})
	}
	return result, nil
}

// Helper functions

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func isDuplicateErr(err error) bool {
	return errors.Is(err, database.ErrDuplicate)
}
