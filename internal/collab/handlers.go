package collab

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/auth"
	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

func (ctl *Controller) handleEvent(s *session, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "collab").Str("conn", string(s.id)).Msg("bad json")
		return
	}

	switch env.Type {
	case EventJoinDesign:
		ctl.handleJoin(s, data)
	case EventDesignUpdate:
		ctl.handleUpdate(s, data)
	case EventCursorMove:
		ctl.handleCursor(s, data)
	case EventElementSelect:
		ctl.handleSelect(s, data)
	case EventAddComment:
		ctl.handleComment(s, data)
	default:
		log.Warn().Str("module", "collab").Str("type", env.Type).Msg("unknown event")
	}
}

// handleJoin authenticates the credential, moves the session into the room,
// announces the joiner and answers with the current occupancy. A failed
// join leaves every piece of state untouched.
func (ctl *Controller) handleJoin(s *session, data []byte) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil || p.DesignID == "" || p.UserID == "" {
		ctl.sendError(s, "Failed to join design")
		return
	}

	if !ctl.limiter.Allow(s.id) {
		ctl.sendError(s, "Too many join attempts")
		return
	}

	uid, err := auth.VerifyIdentity(p.Token, domain.UserID(p.UserID), ctl.secret)
	if err != nil {
		log.Warn().Str("module", "collab").Str("conn", string(s.id)).Str("claimed", p.UserID).Msg("join rejected")
		ctl.sendError(s, "Unauthorized")
		return
	}
	room := domain.DesignID(p.DesignID)

	// A session holds at most one room; joining another leaves the old
	// one first, with the usual departure broadcast.
	if prevUser, prevRoom := s.snapshot(); prevRoom != "" && prevRoom != room {
		ctl.leaveRoom(s, prevRoom, prevUser)
	}

	ctl.registry.Join(room, uid, s.id)
	s.setJoined(uid, room)

	ctx := context.Background()
	profile := ctl.bridge.LookupProfile(ctx, uid)

	ctl.emitToRoom(room, userJoinedEvent{
		Type:   EventUserJoined,
		UserID: uid,
		User:   profile,
		ConnID: s.id,
	}, s.id)

	others := make([]domain.UserID, 0)
	for _, m := range ctl.registry.Members(room) {
		if m != uid {
			others = append(others, m)
		}
	}
	ctl.emitToConn(s.id, activeUsersEvent{
		Type:  EventActiveUsers,
		Users: ctl.bridge.LookupProfiles(ctx, others),
	})

	log.Info().Str("module", "collab").Str("user", string(uid)).Str("design", string(room)).Msg("joined design")
}

func (ctl *Controller) handleUpdate(s *session, data []byte) {
	user, room := s.snapshot()
	if room == "" {
		return
	}
	var p updatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.emitToRoom(room, designUpdatedEvent{
		Type:      EventDesignUpdated,
		Payload:   p.Payload,
		UserID:    user,
		Timestamp: time.Now().UnixMilli(),
	}, s.id)
}

func (ctl *Controller) handleCursor(s *session, data []byte) {
	user, room := s.snapshot()
	if room == "" {
		return
	}
	var p cursorPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.emitToRoom(room, cursorMovedEvent{
		Type:      EventCursorMoved,
		UserID:    user,
		Position:  p.Position,
		Timestamp: time.Now().UnixMilli(),
	}, s.id)
}

func (ctl *Controller) handleSelect(s *session, data []byte) {
	user, room := s.snapshot()
	if room == "" {
		return
	}
	var p selectPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	ctl.emitToRoom(room, elementSelectedEvent{
		Type:      EventElementSelected,
		UserID:    user,
		ElementID: p.ElementID,
		Timestamp: time.Now().UnixMilli(),
	}, s.id)
}

// handleComment is the one durable event: the append and the broadcast
// succeed together or the sender gets exactly one error and the room hears
// nothing.
func (ctl *Controller) handleComment(s *session, data []byte) {
	user, room := s.snapshot()
	if room == "" {
		if ctl.strict {
			ctl.sendError(s, "Join a design before commenting")
		}
		return
	}
	var p commentPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Text == "" {
		ctl.sendError(s, "Failed to add comment")
		return
	}

	ctx := context.Background()
	profile, err := ctl.bridge.RequireProfile(ctx, user)
	if err != nil {
		ctl.sendError(s, "Comments require database connection")
		return
	}

	comment := domain.Comment{
		ID:        uuid.NewString(),
		UserID:    user,
		User:      profile,
		Text:      p.Text,
		Position:  p.Position,
		CreatedAt: time.Now(),
	}
	if err := ctl.bridge.AppendComment(ctx, room, comment); err != nil {
		log.Error().Err(err).Str("module", "collab").Str("design", string(room)).Msg("comment append failed")
		if errors.Is(err, store.ErrUnavailable) {
			ctl.sendError(s, "Comments require database connection")
		} else {
			ctl.sendError(s, "Failed to add comment")
		}
		return
	}

	// Includes the author, unlike the relay events.
	ctl.emitToRoom(room, commentAddedEvent{Type: EventCommentAdded, Comment: comment}, "")
}

func (ctl *Controller) handleDisconnect(s *session) {
	ctl.removeSession(s.id)
	ctl.limiter.Forget(s.id)
	user, room := s.snapshot()
	log.Info().Str("module", "collab").Str("conn", string(s.id)).Msg("user disconnected")
	if room == "" {
		return
	}
	ctl.registry.Leave(room, user, s.id)
	ctl.emitToRoom(room, userLeftEvent{Type: EventUserLeft, UserID: user}, s.id)
}

// leaveRoom handles the explicit leave that precedes a re-join to another
// room. The session stays alive.
func (ctl *Controller) leaveRoom(s *session, room domain.DesignID, user domain.UserID) {
	ctl.registry.Leave(room, user, s.id)
	s.setJoined("", "")
	ctl.emitToRoom(room, userLeftEvent{Type: EventUserLeft, UserID: user}, s.id)
}
