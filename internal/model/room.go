package model

import (
	"strings"
	"time"
)

// Room is a capacity-bounded session container mapped 1:1 onto a LiveKit
// room of the same id.
type Room struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Capacity     int       `json:"capacity"`
	IsPrivate    bool      `json:"is_private"`
	PasswordHash *string   `json:"-"`
	OwnerID      *string   `json:"owner_id,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
}

// HasOwner reports whether the room's owner has been established.
func (r *Room) HasOwner() bool {
	return r.OwnerID != nil && *r.OwnerID != ""
}

// IsOwnedBy reports whether userID is the room's owner.
func (r *Room) IsOwnedBy(userID string) bool {
	return r.OwnerID != nil && *r.OwnerID == userID
}

// MemberRole is a member's role within a room.
type MemberRole string

const (
	RoleHost   MemberRole = "HOST"   // Sticky; granted to whoever establishes ownership
	RoleMember MemberRole = "MEMBER" // Default for everyone else
)

// IsValid returns true if the role is a known member role.
func (r MemberRole) IsValid() bool {
	return r == RoleHost || r == RoleMember
}

// Member records one user's relationship to one room. There is at most one
// record per (room, user); leave/kick flips Active rather than deleting.
type Member struct {
	ID       string     `json:"id"`
	RoomID   string     `json:"room_id"`
	UserID   string     `json:"user_id"`
	Role     MemberRole `json:"role"`
	Active   bool       `json:"active"`
	JoinedOn time.Time  `json:"joined_on"`
}

// Business constraints
const (
	DefaultRoomCapacity = 6
	MaxRoomCapacity     = 50
	MaxRoomNameLength   = 100
)

// CreateRoomRequest represents a request to create a room
type CreateRoomRequest struct {
	Name     string  `json:"name"`
	Capacity *int    `json:"capacity,omitempty"`
	Password *string `json:"password,omitempty"`
	OwnerID  *string `json:"owner_id,omitempty"`
}

// Validate checks the create request and returns field errors for anything
// that must be rejected before any state change.
func (r *CreateRoomRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > MaxRoomNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "name exceeds maximum length"})
	}
	if r.Capacity != nil && *r.Capacity <= 0 {
		errs = append(errs, FieldError{Field: "capacity", Message: "capacity must be positive"})
	}
	if r.Capacity != nil && *r.Capacity > MaxRoomCapacity {
		errs = append(errs, FieldError{Field: "capacity", Message: "capacity exceeds maximum"})
	}
	return errs
}

// JoinRoomRequest carries the optional password for a join attempt. The
// joining identity comes from the authenticated request, never the body.
type JoinRoomRequest struct {
	Password string `json:"password,omitempty"`
}

// JoinRoomResponse is the contract returned to a successful joiner: the
// provider credential plus the role the ledger recorded.
type JoinRoomResponse struct {
	Token string     `json:"token"`
	Role  MemberRole `json:"role"`
}

// KickRequest names the user an admin wants removed.
type KickRequest struct {
	UserID string `json:"user_id"`
}

// PublishPermissionRequest toggles a participant's publish grant.
type PublishPermissionRequest struct {
	UserID     string `json:"user_id"`
	CanPublish bool   `json:"can_publish"`
}

// RoomWithCount decorates a room with its active member count for list and
// detail views.
type RoomWithCount struct {
	Room        Room `json:"room"`
	ActiveCount int  `json:"active_count"`
}

// ProviderEvent is the normalized form of a provider webhook payload.
// Delivery is at-least-once and unordered; every field besides Event is
// optional on the wire.
type ProviderEvent struct {
	Event       string `json:"event"`
	RoomName    string `json:"-"`
	Participant string `json:"-"`
}

// Provider webhook event names this coordinator reacts to. Anything else is
// accepted and ignored.
const (
	EventParticipantJoined = "participant_joined"
	EventParticipantLeft   = "participant_left"
	EventRoomFinished      = "room_finished"
)
