package collab

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/config"
	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/presence"
)

// session is one live transport connection. Identity and room stay empty
// until a join-design succeeds; a session that never joins may not take
// part in any room-scoped event.
type session struct {
	id   presence.ConnID
	conn sender

	mu   sync.RWMutex
	user domain.UserID
	room domain.DesignID
}

func (s *session) snapshot() (domain.UserID, domain.DesignID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.room
}

func (s *session) setJoined(user domain.UserID, room domain.DesignID) {
	s.mu.Lock()
	s.user = user
	s.room = room
	s.mu.Unlock()
}

// Controller owns the protocol: it upgrades connections, tracks sessions,
// and fans events out to rooms.
type Controller struct {
	secret     []byte
	readLimit  int64
	pingPeriod time.Duration
	strict     bool

	registry *presence.Registry
	bridge   *Bridge
	limiter  *joinLimiter

	mu       sync.RWMutex
	sessions map[presence.ConnID]*session
}

func NewController(cfg *config.Config, registry *presence.Registry, bridge *Bridge) *Controller {
	return &Controller{
		secret:     []byte(cfg.Secret),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		strict:     cfg.Collab.StrictEvents,
		registry:   registry,
		bridge:     bridge,
		limiter:    newJoinLimiter(cfg.Collab.JoinLimit, cfg.Collab.JoinInterval),
		sessions:   make(map[presence.ConnID]*session),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleCollab upgrades the request and runs the connection's pumps. The
// handshake itself is unauthenticated; credentials travel inside
// join-design.
func (ctl *Controller) HandleCollab(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("ws upgrade")
		return
	}

	conn := newWSConn(ws)
	s := &session{
		id:   presence.ConnID(uuid.NewString()),
		conn: conn,
	}
	ctl.addSession(s)
	log.Info().Str("module", "collab").Str("conn", string(s.id)).Str("client", c.GetString("client_token")).Msg("user connected")

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, s, conn)
}

func (ctl *Controller) addSession(s *session) {
	ctl.mu.Lock()
	ctl.sessions[s.id] = s
	ctl.mu.Unlock()
}

func (ctl *Controller) removeSession(id presence.ConnID) {
	ctl.mu.Lock()
	delete(ctl.sessions, id)
	ctl.mu.Unlock()
}

// emitToRoom delivers event to every connection joined to room, skipping
// exclude when non-empty. Fire and forget: a full send queue drops the
// frame for that member only.
func (ctl *Controller) emitToRoom(room domain.DesignID, event any, exclude presence.ConnID) {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("marshal room event")
		return
	}
	ctl.mu.RLock()
	targets := make([]*session, 0, len(ctl.sessions))
	for id, s := range ctl.sessions {
		if id == exclude {
			continue
		}
		if _, r := s.snapshot(); r == room {
			targets = append(targets, s)
		}
	}
	ctl.mu.RUnlock()

	for _, s := range targets {
		if err := s.conn.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "collab").Str("conn", string(s.id)).Msg("room send dropped")
		}
	}
}

// emitToConn delivers event to a single connection.
func (ctl *Controller) emitToConn(id presence.ConnID, event any) {
	frame, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "collab").Msg("marshal direct event")
		return
	}
	ctl.mu.RLock()
	s, ok := ctl.sessions[id]
	ctl.mu.RUnlock()
	if !ok {
		return
	}
	if err := s.conn.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "collab").Str("conn", string(id)).Msg("direct send dropped")
	}
}

func (ctl *Controller) sendError(s *session, msg string) {
	ctl.emitToConn(s.id, errorEvent{Type: EventError, Message: msg})
}
