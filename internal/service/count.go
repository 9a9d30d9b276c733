package service

import (
	"context"

	"github.com/studycam/api/internal/model"
)

// ActiveCount returns the number of active members in a room
func (s *RoomService) ActiveCount(ctx context.Context, roomID string) (int, error) {
	return s.memberRepo.CountActive(ctx, roomID)
}

// ActiveCounts resolves active member counts for a set of rooms in one
// query. Every requested room ID appears in the result; rooms with no
// active members map to zero.
func (s *RoomService) ActiveCounts(ctx context.Context, roomIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(roomIDs))
	for _, id := range roomIDs {
		counts[id] = 0
	}
	if len(roomIDs) == 0 {
		return counts, nil
	}

	found, err := s.memberRepo.CountActiveBatch(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	for id, n := range found {
		counts[id] = n
	}
	return counts, nil
}

func roomIDs(rooms []*model.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.ID)
	}
	return ids
}
