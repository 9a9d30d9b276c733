package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studycam/api/internal/database"
	"github.com/studycam/api/internal/model"
)

// RoomRepository handles room data access
type RoomRepository struct {
	db database.Database
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db database.Database) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create creates a new room
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	// Build query dynamically to avoid NULL values
	fields := []string{
		"name: $name",
		"capacity: $capacity",
		"created_on: time::now()",
	}
	vars := map[string]interface{}{
		"name":     room.Name,
		"capacity": room.Capacity,
	}

	if room.PasswordHash != nil {
		fields = append(fields, "password_hash: $password_hash")
		vars["password_hash"] = *room.PasswordHash
	}
	if room.OwnerID != nil {
		fields = append(fields, "owner_id: $owner_id")
		vars["owner_id"] = *room.OwnerID
	}

	query := fmt.Sprintf("CREATE room CONTENT { %s }", strings.Join(fields, ", "))

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created room: %w", err)
	}

	room.ID = created.ID
	room.CreatedOn = created.CreatedOn
	return nil
}

// GetByID retrieves a room by ID. Returns nil when the room does not exist.
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	query := `SELECT * FROM type::record($id)`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return r.parseRoom(result)
}

// GetByName retrieves a room by its name. Returns nil when no room matches.
// Provider webhook payloads identify rooms by name, not record ID.
func (r *RoomRepository) GetByName(ctx context.Context, name string) (*model.Room, error) {
	query := `SELECT * FROM room WHERE name = $name LIMIT 1`
	result, err := r.db.QueryOne(ctx, query, map[string]interface{}{"name": name})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room by name: %w", err)
	}

	return r.parseRoom(result)
}

// List retrieves rooms ordered by creation time, newest first
func (r *RoomRepository) List(ctx context.Context, limit, offset int) ([]*model.Room, error) {
	query := `SELECT * FROM room ORDER BY created_on DESC LIMIT $limit START $offset`
	vars := map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	return r.parseRooms(result)
}

// ClaimOwner sets the room's owner to userID if and only if no owner is
// recorded yet. Returns true when the claim succeeded.
func (r *RoomRepository) ClaimOwner(ctx context.Context, roomID, userID string) (bool, error) {
	query := `
		UPDATE type::record($id) SET owner_id = $user_id
		WHERE owner_id = NONE
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"id":      roomID,
		"user_id": userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Condition did not match; someone else already owns the room
			return false, nil
		}
		return false, fmt.Errorf("failed to claim room owner: %w", err)
	}

	room, err := r.parseRoom(result)
	if err != nil {
		return false, err
	}
	return room != nil && room.IsOwnedBy(userID), nil
}

// Parsing helpers

func (r *RoomRepository) parseRoom(result interface{}) (*model.Room, error) {
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	room := &model.Room{
		ID:       convertSurrealID(data["id"]),
		Name:     getString(data, "name"),
		Capacity: getInt(data, "capacity"),
	}

	if hash := getStringPtr(data, "password_hash"); hash != nil {
		room.PasswordHash = hash
		room.IsPrivate = true
	}
	if raw, ok := data["owner_id"]; ok && raw != nil {
		if owner := convertSurrealID(raw); owner != "" {
			room.OwnerID = &owner
		}
	}
	if t := getTime(data, "created_on"); t != nil {
		room.CreatedOn = *t
	}

	return room, nil
}

func (r *RoomRepository) parseRooms(result []interface{}) ([]*model.Room, error) {
	rooms := make([]*model.Room, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					room, err := r.parseRoom(item)
					if err != nil || room == nil {
						continue
					}
					rooms = append(rooms, room)
				}
			}
		}
	}

	return rooms, nil
}
