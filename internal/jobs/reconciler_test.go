package jobs

import (
	"context"
	"testing"

	"github.com/studycam/api/internal/model"
)

type stubRoomDirectory struct {
	rooms []*model.RoomWithCount
}

func (s *stubRoomDirectory) ListRooms(ctx context.Context, limit, offset int) ([]*model.RoomWithCount, error) {
	if offset >= len(s.rooms) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.rooms) {
		end = len(s.rooms)
	}
	return s.rooms[offset:end], nil
}

type stubMemberLedger struct {
	deactivated []string
}

func (s *stubMemberLedger) DeactivateAllBatch(ctx context.Context, roomIDs []string) error {
	s.deactivated = append(s.deactivated, roomIDs...)
	return nil
}

type stubProviderDirectory struct {
	live []string
}

func (s *stubProviderDirectory) ListRooms(ctx context.Context) ([]string, error) {
	return s.live, nil
}

func roomWithCount(id, name string, count int) *model.RoomWithCount {
	return &model.RoomWithCount{
		Room:        model.Room{ID: id, Name: name, Capacity: 6},
		ActiveCount: count,
	}
}

func TestReconciler_SweepsRoomsTheProviderNoLongerHosts(t *testing.T) {
	rooms := &stubRoomDirectory{rooms: []*model.RoomWithCount{
		roomWithCount("room:1", "alive", 3),
		roomWithCount("room:2", "dead", 2),
		roomWithCount("room:3", "empty", 0),
	}}
	ledger := &stubMemberLedger{}
	provider := &stubProviderDirectory{live: []string{"alive"}}

	r := NewReconciler(rooms, ledger, provider, 0)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Only the dead room with active members gets swept: the live room is
	// left alone and the empty room needs no work
	if len(ledger.deactivated) != 1 || ledger.deactivated[0] != "room:2" {
		t.Errorf("expected only room:2 swept, got %v", ledger.deactivated)
	}
}

func TestReconciler_RepeatedPassesAreIdempotent(t *testing.T) {
	rooms := &stubRoomDirectory{rooms: []*model.RoomWithCount{
		roomWithCount("room:1", "dead", 2),
	}}
	ledger := &stubMemberLedger{}
	provider := &stubProviderDirectory{}

	r := NewReconciler(rooms, ledger, provider, 0)
	for i := 0; i < 2; i++ {
		if err := r.RunOnce(context.Background()); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		// After the first sweep the room's members are inactive
		rooms.rooms[0].ActiveCount = 0
	}

	if len(ledger.deactivated) != 1 {
		t.Errorf("expected exactly one sweep across passes, got %d", len(ledger.deactivated))
	}
}

func TestReconciler_StartStop(t *testing.T) {
	r := NewReconciler(&stubRoomDirectory{}, &stubMemberLedger{}, &stubProviderDirectory{}, 0)

	r.Start()
	if !r.IsRunning() {
		t.Error("expected reconciler to be running after Start")
	}

	// Double Start is a no-op
	r.Start()

	r.Stop()
	if r.IsRunning() {
		t.Error("expected reconciler to be stopped after Stop")
	}

	// Double Stop is a no-op
	r.Stop()
}
