package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/studycam/api/internal/model"
)

// ============================================================================
// Test Setup
// ============================================================================

type sessionFixture struct {
	roomRepo   *fakeRoomRepo
	memberRepo *fakeMemberRepo
	provider   *mockProvider
	admission  *AdmissionService
	service    *SessionService
}

func newSessionFixture() *sessionFixture {
	roomRepo := newFakeRoomRepo()
	memberRepo := newFakeMemberRepo()
	provider := &mockProvider{}
	admission := NewAdmissionService(AdmissionServiceConfig{
		RoomRepo:   roomRepo,
		MemberRepo: memberRepo,
		Provider:   provider,
	})
	svc := NewSessionService(SessionServiceConfig{
		RoomRepo:   roomRepo,
		MemberRepo: memberRepo,
		Admission:  admission,
		Provider:   provider,
	})
	return &sessionFixture{
		roomRepo:   roomRepo,
		memberRepo: memberRepo,
		provider:   provider,
		admission:  admission,
		service:    svc,
	}
}

func (f *sessionFixture) addOwnedRoom(name string, capacity int, ownerID string) *model.Room {
	return f.roomRepo.addRoom(&model.Room{
		Name:     name,
		Capacity: capacity,
		OwnerID:  &ownerID,
	})
}

func (f *sessionFixture) seedActiveMember(t *testing.T, roomID, userID string, role model.MemberRole) {
	t.Helper()
	err := f.memberRepo.CreateActive(context.Background(), &model.Member{
		RoomID: roomID,
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

// ============================================================================
// Kick Tests
// ============================================================================

func TestKick_RoomNotFound(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()

	err := f.service.Kick(context.Background(), "room:missing", "user:host", "user:target")

	if err != ErrRoomNotFound {
		t.Errorf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestKick_NonHostRejected(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)

	err := f.service.Kick(context.Background(), room.ID, "user:other", "user:target")

	if err != ErrNotHost {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	member, _ := f.memberRepo.FindByRoomAndUser(context.Background(), room.ID, "user:target")
	if member == nil || !member.Active {
		t.Error("expected target to stay active after rejected kick")
	}
}

func TestKick_DeactivatesLedgerAndRemovesFromProvider(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)

	var removedRoom, removedIdentity string
	f.provider.removeParticipantFunc = func(ctx context.Context, roomName, identity string) error {
		removedRoom = roomName
		removedIdentity = identity
		return nil
	}

	if err := f.service.Kick(ctx, room.ID, "user:host", "user:target"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	member, _ := f.memberRepo.FindByRoomAndUser(ctx, room.ID, "user:target")
	if member == nil || member.Active {
		t.Error("expected target deactivated in ledger")
	}
	if removedRoom != "study-room" || removedIdentity != "user:target" {
		t.Errorf("expected provider removal for study-room/user:target, got %s/%s", removedRoom, removedIdentity)
	}
}

func TestKick_ProviderFailure_ReturnsProviderError(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)
	f.provider.removeParticipantFunc = func(ctx context.Context, roomName, identity string) error {
		return fmt.Errorf("provider down")
	}

	err := f.service.Kick(context.Background(), room.ID, "user:host", "user:target")

	if err != ErrProviderError {
		t.Fatalf("expected ErrProviderError, got %v", err)
	}

	// A failed provider drop leaves the ledger untouched so the kick can
	// be retried
	member, _ := f.memberRepo.FindByRoomAndUser(context.Background(), room.ID, "user:target")
	if member == nil || !member.Active {
		t.Error("expected target to stay active after provider failure")
	}
}

// ============================================================================
// SetPublishPermission Tests
// ============================================================================

func TestSetPublishPermission_NonHostRejected(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)

	err := f.service.SetPublishPermission(context.Background(), room.ID, "user:other", "user:target", false)

	if err != ErrNotHost {
		t.Errorf("expected ErrNotHost, got %v", err)
	}
}

func TestSetPublishPermission_TargetNotActiveMember(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")

	if err := f.service.SetPublishPermission(ctx, room.ID, "user:host", "user:stranger", false); err != ErrNotMember {
		t.Errorf("expected ErrNotMember for stranger, got %v", err)
	}

	f.seedActiveMember(t, room.ID, "user:gone", model.RoleMember)
	if err := f.memberRepo.Deactivate(ctx, room.ID, "user:gone"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := f.service.SetPublishPermission(ctx, room.ID, "user:host", "user:gone", false); err != ErrNotMember {
		t.Errorf("expected ErrNotMember for inactive member, got %v", err)
	}
}

func TestSetPublishPermission_ForwardsGrantToProvider(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)

	var gotIdentity string
	var gotPublish bool
	f.provider.updateParticipantFunc = func(ctx context.Context, roomName, identity string, canPublish bool) error {
		gotIdentity = identity
		gotPublish = canPublish
		return nil
	}

	if err := f.service.SetPublishPermission(context.Background(), room.ID, "user:host", "user:target", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotIdentity != "user:target" || gotPublish != false {
		t.Errorf("expected provider update for user:target publish=false, got %s publish=%v", gotIdentity, gotPublish)
	}
}

func TestSetPublishPermission_ProviderFailure_ReturnsProviderError(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:target", model.RoleMember)
	f.provider.updateParticipantFunc = func(ctx context.Context, roomName, identity string, canPublish bool) error {
		return fmt.Errorf("provider down")
	}

	err := f.service.SetPublishPermission(context.Background(), room.ID, "user:host", "user:target", true)

	if err != ErrProviderError {
		t.Errorf("expected ErrProviderError, got %v", err)
	}
}

// ============================================================================
// HandleProviderEvent Tests
// ============================================================================

func TestHandleProviderEvent_UnknownEventType_Ignored(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()

	err := f.service.HandleProviderEvent(context.Background(), &model.ProviderEvent{
		Event:    "track_published",
		RoomName: "study-room",
	})

	if err != nil {
		t.Errorf("expected unknown event to be ignored, got %v", err)
	}
}

func TestHandleProviderEvent_UnknownRoom_Ignored(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()

	err := f.service.HandleProviderEvent(context.Background(), &model.ProviderEvent{
		Event:       model.EventParticipantJoined,
		RoomName:    "no-such-room",
		Participant: "user:1",
	})

	if err != nil {
		t.Errorf("expected unknown room to be ignored, got %v", err)
	}
}

func TestHandleProviderEvent_MissingFields_Ignored(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	f.addOwnedRoom("study-room", 6, "user:host")

	tests := []struct {
		name  string
		event *model.ProviderEvent
	}{
		{
			name:  "no room name",
			event: &model.ProviderEvent{Event: model.EventParticipantJoined, Participant: "user:1"},
		},
		{
			name:  "no participant on join",
			event: &model.ProviderEvent{Event: model.EventParticipantJoined, RoomName: "study-room"},
		},
		{
			name:  "no participant on leave",
			event: &model.ProviderEvent{Event: model.EventParticipantLeft, RoomName: "study-room"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := f.service.HandleProviderEvent(context.Background(), tt.event); err != nil {
				t.Errorf("expected event to be ignored, got %v", err)
			}
		})
	}
}

func TestHandleProviderEvent_ParticipantJoined_RecordsMembership(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")

	err := f.service.HandleProviderEvent(ctx, &model.ProviderEvent{
		Event:       model.EventParticipantJoined,
		RoomName:    "study-room",
		Participant: "user:1",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	member, _ := f.memberRepo.FindByRoomAndUser(ctx, room.ID, "user:1")
	if member == nil || !member.Active {
		t.Error("expected active membership recorded for joined participant")
	}
}

func TestHandleProviderEvent_ParticipantJoined_OverCapacity_EvictedSilently(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("tiny-room", 1, "user:host")
	f.seedActiveMember(t, room.ID, "user:host", model.RoleHost)

	var kicked []string
	f.provider.removeParticipantFunc = func(ctx context.Context, roomName, identity string) error {
		kicked = append(kicked, identity)
		return nil
	}

	err := f.service.HandleProviderEvent(ctx, &model.ProviderEvent{
		Event:       model.EventParticipantJoined,
		RoomName:    "tiny-room",
		Participant: "user:extra",
	})

	// A full room is not a webhook delivery failure
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(kicked) != 1 || kicked[0] != "user:extra" {
		t.Errorf("expected user:extra evicted from provider, got %v", kicked)
	}
	count, _ := f.memberRepo.CountActive(ctx, room.ID)
	if count != 1 {
		t.Errorf("expected active count to stay at 1, got %d", count)
	}
}

func TestHandleProviderEvent_ParticipantJoined_IsIdempotent(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")

	event := &model.ProviderEvent{
		Event:       model.EventParticipantJoined,
		RoomName:    "study-room",
		Participant: "user:1",
	}
	for i := 0; i < 3; i++ {
		if err := f.service.HandleProviderEvent(ctx, event); err != nil {
			t.Fatalf("delivery %d failed: %v", i, err)
		}
	}

	count, _ := f.memberRepo.CountActive(ctx, room.ID)
	if count != 1 {
		t.Errorf("expected redelivered join to count once, got %d", count)
	}
}

func TestHandleProviderEvent_ParticipantLeft_Deactivates(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:1", model.RoleMember)

	event := &model.ProviderEvent{
		Event:       model.EventParticipantLeft,
		RoomName:    "study-room",
		Participant: "user:1",
	}
	// Redelivery of the same leave event is harmless
	for i := 0; i < 2; i++ {
		if err := f.service.HandleProviderEvent(ctx, event); err != nil {
			t.Fatalf("delivery %d failed: %v", i, err)
		}
	}

	member, _ := f.memberRepo.FindByRoomAndUser(ctx, room.ID, "user:1")
	if member == nil || member.Active {
		t.Error("expected participant deactivated after leave event")
	}
}

func TestHandleProviderEvent_RoomFinished_DeactivatesAll(t *testing.T) {
	t.Parallel()
	f := newSessionFixture()
	ctx := context.Background()
	room := f.addOwnedRoom("study-room", 6, "user:host")
	f.seedActiveMember(t, room.ID, "user:1", model.RoleHost)
	f.seedActiveMember(t, room.ID, "user:2", model.RoleMember)

	err := f.service.HandleProviderEvent(ctx, &model.ProviderEvent{
		Event:    model.EventRoomFinished,
		RoomName: "study-room",
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	count, _ := f.memberRepo.CountActive(ctx, room.ID)
	if count != 0 {
		t.Errorf("expected all members deactivated, got %d active", count)
	}
}
