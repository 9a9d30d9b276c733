// Package livekit wraps the LiveKit server SDK: locally signed access
// tokens for joining rooms, and the RoomService admin API for managing
// connected participants.
package livekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/livekit/protocol/auth"
	livekitpb "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/twitchtv/twirp"
)

// ErrProviderRequest indicates a failed call to the LiveKit server API
var ErrProviderRequest = errors.New("livekit request failed")

const defaultTokenTTL = 6 * time.Hour

// Client talks to the LiveKit RoomService and signs join tokens locally
type Client struct {
	roomService *lksdk.RoomServiceClient
	apiKey      string
	apiSecret   string
	tokenTTL    time.Duration
}

// ClientConfig holds configuration for the LiveKit client
type ClientConfig struct {
	Host      string
	APIKey    string
	APISecret string
	TokenTTL  time.Duration
}

// NewClient creates a new LiveKit client
func NewClient(cfg ClientConfig) *Client {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Client{
		roomService: lksdk.NewRoomServiceClient(cfg.Host, cfg.APIKey, cfg.APISecret),
		apiKey:      cfg.APIKey,
		apiSecret:   cfg.APISecret,
		tokenTTL:    ttl,
	}
}

// IssueJoinToken signs a join credential for a participant. This is a local
// operation; no request reaches the server. Subscribing is always allowed;
// publishing is controlled per participant.
func (c *Client) IssueJoinToken(identity, roomName string, canPublish bool) (string, error) {
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     roomName,
	}
	grant.SetCanPublish(canPublish)
	grant.SetCanSubscribe(true)

	at := auth.NewAccessToken(c.apiKey, c.apiSecret).
		SetIdentity(identity).
		SetValidFor(c.tokenTTL).
		SetVideoGrant(grant)

	token, err := at.ToJWT()
	if err != nil {
		return "", fmt.Errorf("failed to sign join token: %w", err)
	}
	return token, nil
}

// RemoveParticipant disconnects a participant from a room. Removing a
// participant the server does not know about succeeds: the desired end
// state (participant absent) already holds.
func (c *Client) RemoveParticipant(ctx context.Context, roomName, identity string) error {
	_, err := c.roomService.RemoveParticipant(ctx, &livekitpb.RoomParticipantIdentity{
		Room:     roomName,
		Identity: identity,
	})
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: remove participant: %v", ErrProviderRequest, err)
	}
	return nil
}

// UpdateParticipant updates a connected participant's publish permission.
// Subscription stays enabled regardless.
func (c *Client) UpdateParticipant(ctx context.Context, roomName, identity string, canPublish bool) error {
	_, err := c.roomService.UpdateParticipant(ctx, &livekitpb.UpdateParticipantRequest{
		Room:     roomName,
		Identity: identity,
		Permission: &livekitpb.ParticipantPermission{
			CanPublish:     canPublish,
			CanSubscribe:   true,
			CanPublishData: true,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: update participant: %v", ErrProviderRequest, err)
	}
	return nil
}

// ListParticipants returns the identities currently connected to a room.
// An unknown room yields an empty list.
func (c *Client) ListParticipants(ctx context.Context, roomName string) ([]string, error) {
	resp, err := c.roomService.ListParticipants(ctx, &livekitpb.ListParticipantsRequest{
		Room: roomName,
	})
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list participants: %v", ErrProviderRequest, err)
	}

	identities := make([]string, 0, len(resp.Participants))
	for _, p := range resp.Participants {
		identities = append(identities, p.Identity)
	}
	return identities, nil
}

// ListRooms returns the names of rooms currently live on the server
func (c *Client) ListRooms(ctx context.Context) ([]string, error) {
	resp, err := c.roomService.ListRooms(ctx, &livekitpb.ListRoomsRequest{})
	if err != nil {
		return nil, fmt.Errorf("%w: list rooms: %v", ErrProviderRequest, err)
	}

	names := make([]string, 0, len(resp.Rooms))
	for _, r := range resp.Rooms {
		names = append(names, r.Name)
	}
	return names, nil
}

// isNotFound matches the Twirp not_found code the RoomService returns for
// unknown rooms and participants
func isNotFound(err error) bool {
	var twerr twirp.Error
	return errors.As(err, &twerr) && twerr.Code() == twirp.NotFound
}
