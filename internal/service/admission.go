package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/studycam/api/internal/model"
)

// MediaProvider defines the interface to the external media server. Token
// issuance is local signing; the participant operations are remote calls.
type MediaProvider interface {
	IssueJoinToken(identity, roomName string, canPublish bool) (string, error)
	RemoveParticipant(ctx context.Context, roomName, identity string) error
	UpdateParticipant(ctx context.Context, roomName, identity string, canPublish bool) error
}

// AdmissionService serializes room admission so that capacity is never
// exceeded. All membership writes for a room happen under that room's lock;
// provider calls never do.
type AdmissionService struct {
	roomRepo   RoomRepository
	memberRepo MemberRepository
	provider   MediaProvider
	logger     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// AdmissionServiceConfig holds configuration for the admission service
type AdmissionServiceConfig struct {
	RoomRepo   RoomRepository
	MemberRepo MemberRepository
	Provider   MediaProvider
	Logger     *slog.Logger
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(cfg AdmissionServiceConfig) *AdmissionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdmissionService{
		roomRepo:   cfg.RoomRepo,
		memberRepo: cfg.MemberRepo,
		provider:   cfg.Provider,
		logger:     logger,
		locks:      make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing admissions for one room.
// Locks are never removed; the map grows with the set of rooms seen.
func (s *AdmissionService) roomLock(roomID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[roomID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[roomID] = lock
	}
	return lock
}

// Join admits a user into a room and issues a provider join credential.
// The password gate runs before any state change. The capacity check runs
// under the room lock before the membership write, so a rejected join
// leaves the ledger untouched and the committed active count never exceeds
// capacity. A user who is already active rejoins without consuming an extra
// slot.
func (s *AdmissionService) Join(ctx context.Context, roomID, userID, password string) (*model.JoinRoomResponse, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if room.PasswordHash != nil && !checkPassword(password, *room.PasswordHash) {
		return nil, ErrWrongPassword
	}

	role, err := s.admit(ctx, room, userID)
	if err != nil {
		return nil, err
	}

	// Token issuance happens outside the room lock. If it fails the
	// membership stays active and reconciliation converges it later.
	token, err := s.provider.IssueJoinToken(userID, room.Name, true)
	if err != nil {
		s.logger.Error("join token issuance failed",
			"room_id", room.ID, "user_id", userID, "error", err)
		return nil, ErrProviderError
	}

	return &model.JoinRoomResponse{Token: token, Role: role}, nil
}

// AdmitParticipant runs the admission path for a participant the provider
// reports as joined. No password gate and no credential: the participant is
// already connected. If the room is over capacity the participant is removed
// from the provider session.
func (s *AdmissionService) AdmitParticipant(ctx context.Context, room *model.Room, userID string) error {
	_, err := s.admit(ctx, room, userID)
	if errors.Is(err, ErrRoomFull) {
		// The participant is connected but there is no seat. Evict.
		if kickErr := s.provider.RemoveParticipant(ctx, room.Name, userID); kickErr != nil {
			s.logger.Error("failed to evict over-capacity participant",
				"room_id", room.ID, "user_id", userID, "error", kickErr)
		}
		return ErrRoomFull
	}
	return err
}

// Leave deactivates a user's membership. Leaving a room the user is not an
// active member of is a no-op.
func (s *AdmissionService) Leave(ctx context.Context, roomID, userID string) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	return s.memberRepo.Deactivate(ctx, roomID, userID)
}

// admit performs the serialized check-then-activate sequence and returns
// the role recorded in the ledger. Capacity is verified before any write,
// so a full room rejects a joiner without creating or touching a member
// record and without claiming ownership.
func (s *AdmissionService) admit(ctx context.Context, room *model.Room, userID string) (model.MemberRole, error) {
	lock := s.roomLock(room.ID)
	lock.Lock()
	defer lock.Unlock()

	// Reload under the lock; the owner may have been claimed since the
	// caller fetched the room.
	current, err := s.roomRepo.GetByID(ctx, room.ID)
	if err != nil {
		return "", err
	}
	if current == nil {
		return "", ErrRoomNotFound
	}

	existing, err := s.memberRepo.FindByRoomAndUser(ctx, current.ID, userID)
	if err != nil {
		return "", err
	}
	wasActive := existing != nil && existing.Active

	// An already active member rejoining cannot change the count, so only
	// fresh activations need the capacity gate.
	if !wasActive {
		count, err := s.memberRepo.CountActive(ctx, current.ID)
		if err != nil {
			return "", err
		}
		if count >= current.Capacity {
			return "", ErrRoomFull
		}
	}

	role, err := s.resolveRole(ctx, current, userID, existing)
	if err != nil {
		return "", err
	}

	if existing == nil {
		member := &model.Member{
			RoomID: current.ID,
			UserID: userID,
			Role:   role,
		}
		if err := s.memberRepo.CreateActive(ctx, member); err != nil {
			return "", err
		}
	} else {
		if err := s.memberRepo.Activate(ctx, existing.ID, role); err != nil {
			return "", err
		}
	}

	return role, nil
}

// resolveRole determines the role to record for this admission. The first
// user to join an ownerless room claims ownership and the HOST role. A role
// already recorded as HOST is never downgraded.
func (s *AdmissionService) resolveRole(ctx context.Context, room *model.Room, userID string, existing *model.Member) (model.MemberRole, error) {
	if existing != nil && existing.Role == model.RoleHost {
		return model.RoleHost, nil
	}
	if room.IsOwnedBy(userID) {
		return model.RoleHost, nil
	}
	if !room.HasOwner() {
		claimed, err := s.roomRepo.ClaimOwner(ctx, room.ID, userID)
		if err != nil {
			return "", err
		}
		if claimed {
			return model.RoleHost, nil
		}
	}
	return model.RoleMember, nil
}
