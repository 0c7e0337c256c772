package collab

import (
	"encoding/json"

	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/presence"
)

// Client-to-server event types.
const (
	EventJoinDesign    = "join-design"
	EventDesignUpdate  = "design-update"
	EventCursorMove    = "cursor-move"
	EventElementSelect = "element-select"
	EventAddComment    = "add-comment"
)

// Server-to-client event types.
const (
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventActiveUsers     = "active-users"
	EventDesignUpdated   = "design-updated"
	EventCursorMoved     = "cursor-moved"
	EventElementSelected = "element-selected"
	EventCommentAdded    = "comment-added"
	EventError           = "error"
)

type joinPayload struct {
	Type     string `json:"type"`
	DesignID string `json:"designId"`
	UserID   string `json:"userId"`
	Token    string `json:"token"`
}

type updatePayload struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type cursorPayload struct {
	Type     string          `json:"type"`
	Position domain.Position `json:"position"`
}

type selectPayload struct {
	Type      string `json:"type"`
	ElementID string `json:"elementId"`
}

type commentPayload struct {
	Type     string           `json:"type"`
	Text     string           `json:"text"`
	Position *domain.Position `json:"position,omitempty"`
}

type userJoinedEvent struct {
	Type   string          `json:"type"`
	UserID domain.UserID   `json:"userId"`
	User   *domain.Profile `json:"user"`
	ConnID presence.ConnID `json:"connId"`
}

type userLeftEvent struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
}

// activeUsersEvent carries one entry per other room member. Entries hold a
// bare identity when the durable store cannot enrich them.
type activeUsersEvent struct {
	Type  string           `json:"type"`
	Users []domain.Profile `json:"users"`
}

type designUpdatedEvent struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	UserID    domain.UserID   `json:"userId"`
	Timestamp int64           `json:"timestamp"`
}

type cursorMovedEvent struct {
	Type      string          `json:"type"`
	UserID    domain.UserID   `json:"userId"`
	Position  domain.Position `json:"position"`
	Timestamp int64           `json:"timestamp"`
}

type elementSelectedEvent struct {
	Type      string        `json:"type"`
	UserID    domain.UserID `json:"userId"`
	ElementID string        `json:"elementId"`
	Timestamp int64         `json:"timestamp"`
}

type commentAddedEvent struct {
	Type    string         `json:"type"`
	Comment domain.Comment `json:"comment"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
