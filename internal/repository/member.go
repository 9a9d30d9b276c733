package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/studycam/api/internal/database"
	"github.com/studycam/api/internal/model"
)

// MemberRepository handles membership ledger data access
type MemberRepository struct {
	db database.Database
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db database.Database) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateActive creates a new active membership record
func (r *MemberRepository) CreateActive(ctx context.Context, member *model.Member) error {
	query := `
		CREATE member CONTENT {
			room_id: type::record($room_id),
			user_id: $user_id,
			role: $role,
			active: true,
			joined_on: time::now()
		}
	`
	vars := map[string]interface{}{
		"room_id": member.RoomID,
		"user_id": member.UserID,
		"role":    member.Role,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return fmt.Errorf("failed to extract created member: %w", err)
	}

	member.ID = created.ID
	member.Active = true
	return nil
}

// FindByRoomAndUser retrieves the membership record for a user in a room.
// Returns nil when the user has never joined the room.
func (r *MemberRepository) FindByRoomAndUser(ctx context.Context, roomID, userID string) (*model.Member, error) {
	// Use string::concat to compare record IDs as strings - SurrealDB 3 beta compatible
	query := `
		SELECT * FROM member
		WHERE string::concat("", room_id) = $room_id
		AND user_id = $user_id
		LIMIT 1
	`
	vars := map[string]interface{}{
		"room_id": roomID,
		"user_id": userID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return r.parseMember(result)
}

// Activate flips an existing membership back to active and records the role.
// The original joined_on timestamp is preserved.
func (r *MemberRepository) Activate(ctx context.Context, id string, role model.MemberRole) error {
	query := `UPDATE type::record($id) SET active = true, role = $role`
	vars := map[string]interface{}{
		"id":   id,
		"role": role,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to activate member: %w", err)
	}
	return nil
}

// Deactivate marks a user's membership in a room inactive. Deactivating a
// membership that is already inactive, or that does not exist, is a no-op.
func (r *MemberRepository) Deactivate(ctx context.Context, roomID, userID string) error {
	query := `
		UPDATE member SET active = false
		WHERE string::concat("", room_id) = $room_id
		AND user_id = $user_id
	`
	vars := map[string]interface{}{
		"room_id": roomID,
		"user_id": userID,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	return nil
}

// DeactivateAll marks every membership in a room inactive
func (r *MemberRepository) DeactivateAll(ctx context.Context, roomID string) error {
	query := `
		UPDATE member SET active = false
		WHERE string::concat("", room_id) = $room_id
	`
	vars := map[string]interface{}{"room_id": roomID}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		return fmt.Errorf("failed to deactivate members: %w", err)
	}
	return nil
}

// DeactivateAllBatch marks every membership in each listed room inactive,
// atomically. Used by the reconciliation sweep so one pass either lands in
// full or not at all.
func (r *MemberRepository) DeactivateAllBatch(ctx context.Context, roomIDs []string) error {
	if len(roomIDs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, roomID := range roomIDs {
		batch.Add(`
			UPDATE member SET active = false
			WHERE string::concat("", room_id) = $room_id
		`, map[string]interface{}{"room_id": roomID})
	}

	if err := batch.Execute(ctx, r.db); err != nil {
		return fmt.Errorf("failed to deactivate members in batch: %w", err)
	}
	return nil
}

// CountActive counts active members of a room
func (r *MemberRepository) CountActive(ctx context.Context, roomID string) (int, error) {
	query := `
		SELECT count() as count FROM member
		WHERE string::concat("", room_id) = $room_id
		AND active = true
		GROUP ALL
	`
	vars := map[string]interface{}{"room_id": roomID}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if data, ok := result.(map[string]interface{}); ok {
		return getInt(data, "count"), nil
	}
	return 0, nil
}

// CountActiveBatch counts active members for many rooms in a single query.
// Rooms without any active member are absent from the result map.
func (r *MemberRepository) CountActiveBatch(ctx context.Context, roomIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(roomIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT string::concat("", room_id) AS room_id, count() AS count FROM member
		WHERE string::concat("", room_id) IN $room_ids
		AND active = true
		GROUP BY room_id
	`
	vars := map[string]interface{}{"room_ids": roomIDs}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to count active members: %w", err)
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return counts, nil
	}
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			roomID := getString(data, "room_id")
			if roomID == "" {
				continue
			}
			counts[roomID] = getInt(data, "count")
		}
	}

	return counts, nil
}

// ListActiveByRoom retrieves all active memberships of a room
func (r *MemberRepository) ListActiveByRoom(ctx context.Context, roomID string) ([]*model.Member, error) {
	query := `
		SELECT * FROM member
		WHERE string::concat("", room_id) = $room_id
		AND active = true
		ORDER BY joined_on ASC
	`
	vars := map[string]interface{}{"room_id": roomID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list active members: %w", err)
	}

	return r.parseMembers(result)
}

// Parsing helpers

func (r *MemberRepository) parseMember(result interface{}) (*model.Member, error) {
	if result == nil {
		return nil, nil
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	member := &model.Member{
		ID:     convertSurrealID(data["id"]),
		RoomID: convertSurrealID(data["room_id"]),
		UserID: getString(data, "user_id"),
		Role:   model.MemberRole(getString(data, "role")),
		Active: getBool(data, "active"),
	}

	if t := getTime(data, "joined_on"); t != nil {
		member.JoinedOn = *t
	}

	return member, nil
}

func (r *MemberRepository) parseMembers(result []interface{}) ([]*model.Member, error) {
	members := make([]*model.Member, 0)

	for _, res := range result {
		if resp, ok := res.(map[string]interface{}); ok {
			if resultData, ok := resp["result"].([]interface{}); ok {
				for _, item := range resultData {
					member, err := r.parseMember(item)
					if err != nil || member == nil {
						continue
					}
					members = append(members, member)
				}
			}
		}
	}

	return members, nil
}
