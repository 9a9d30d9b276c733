package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studycam/api/internal/model"
)

// SessionService bridges ledger state and the provider's view of live
// sessions: admin actions against connected participants, and webhook
// events flowing back from the provider.
type SessionService struct {
	roomRepo   RoomRepository
	memberRepo MemberRepository
	admission  *AdmissionService
	provider   MediaProvider
	logger     *slog.Logger
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	RoomRepo   RoomRepository
	MemberRepo MemberRepository
	Admission  *AdmissionService
	Provider   MediaProvider
	Logger     *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		roomRepo:   cfg.RoomRepo,
		memberRepo: cfg.MemberRepo,
		admission:  cfg.Admission,
		provider:   cfg.Provider,
		logger:     logger,
	}
}

// Kick removes a participant from a room. Only the room host may kick.
// The provider drop happens first; the ledger is only deactivated once the
// drop succeeds, so a provider failure leaves local state untouched and the
// kick can be retried. Removing a participant the provider no longer knows
// about still succeeds.
func (s *SessionService) Kick(ctx context.Context, roomID, byUserID, targetUserID string) error {
	room, err := s.requireHost(ctx, roomID, byUserID)
	if err != nil {
		return err
	}

	if err := s.provider.RemoveParticipant(ctx, room.Name, targetUserID); err != nil {
		s.logger.Error("provider participant removal failed",
			"room_id", roomID, "user_id", targetUserID, "error", err)
		return ErrProviderError
	}

	return s.memberRepo.Deactivate(ctx, roomID, targetUserID)
}

// SetPublishPermission toggles a participant's publish grant at the
// provider. Only the room host may change permissions, and the target must
// be an active member.
func (s *SessionService) SetPublishPermission(ctx context.Context, roomID, byUserID, targetUserID string, canPublish bool) error {
	room, err := s.requireHost(ctx, roomID, byUserID)
	if err != nil {
		return err
	}

	member, err := s.memberRepo.FindByRoomAndUser(ctx, roomID, targetUserID)
	if err != nil {
		return err
	}
	if member == nil || !member.Active {
		return ErrNotMember
	}

	if err := s.provider.UpdateParticipant(ctx, room.Name, targetUserID, canPublish); err != nil {
		s.logger.Error("provider permission update failed",
			"room_id", roomID, "user_id", targetUserID, "error", err)
		return ErrProviderError
	}
	return nil
}

// HandleProviderEvent reconciles a provider webhook event into the ledger.
// Delivery is at-least-once and unordered, so every branch is idempotent.
// Events for unknown rooms, unknown participants, or unrecognized types are
// accepted and ignored.
func (s *SessionService) HandleProviderEvent(ctx context.Context, event *model.ProviderEvent) error {
	switch event.Event {
	case model.EventParticipantJoined, model.EventParticipantLeft, model.EventRoomFinished:
	default:
		return nil
	}

	if event.RoomName == "" {
		return nil
	}
	room, err := s.roomRepo.GetByName(ctx, event.RoomName)
	if err != nil {
		return err
	}
	if room == nil {
		s.logger.Debug("provider event for unknown room", "room_name", event.RoomName)
		return nil
	}

	switch event.Event {
	case model.EventParticipantJoined:
		if event.Participant == "" {
			return nil
		}
		err := s.admission.AdmitParticipant(ctx, room, event.Participant)
		if err != nil && !errors.Is(err, ErrRoomFull) {
			return err
		}
		return nil

	case model.EventParticipantLeft:
		if event.Participant == "" {
			return nil
		}
		return s.memberRepo.Deactivate(ctx, room.ID, event.Participant)

	case model.EventRoomFinished:
		return s.memberRepo.DeactivateAll(ctx, room.ID)
	}

	return nil
}

// requireHost loads the room and verifies that userID is its host
func (s *SessionService) requireHost(ctx context.Context, roomID, userID string) (*model.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.IsOwnedBy(userID) {
		return nil, ErrNotHost
	}
	return room, nil
}
