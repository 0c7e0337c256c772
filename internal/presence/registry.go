// Package presence tracks which users are in which design rooms. All state
// is process-local and dropped on restart.
package presence

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/domain"
)

// ConnID identifies one live transport connection.
type ConnID string

// Mode selects how the user-to-connection reverse index behaves when the
// same user joins from more than one connection.
type Mode int

const (
	// SingleSession keeps one connection per user, last join wins.
	SingleSession Mode = iota
	// MultiSession keeps every live connection per user.
	MultiSession
)

type JoinResult struct {
	RoomOpened    bool
	AlreadyMember bool
}

type LeaveResult struct {
	WasMember  bool
	RoomClosed bool
}

// Registry is the one mutable shared resource of the collaboration core.
// It is handed to the protocol handlers by reference, never ambient.
type Registry struct {
	mode Mode

	mu    sync.RWMutex
	rooms map[domain.DesignID]map[domain.UserID]struct{}
	conns map[domain.UserID]map[ConnID]struct{}
}

func NewRegistry(mode Mode) *Registry {
	return &Registry{
		mode:  mode,
		rooms: make(map[domain.DesignID]map[domain.UserID]struct{}),
		conns: make(map[domain.UserID]map[ConnID]struct{}),
	}
}

// Join adds uid to the room's member set and points the reverse index at
// conn. Idempotent on membership; the reverse index is overwritten
// unconditionally in single-session mode. Never fails.
func (r *Registry) Join(room domain.DesignID, uid domain.UserID, conn ConnID) JoinResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res JoinResult
	members, ok := r.rooms[room]
	if !ok {
		members = make(map[domain.UserID]struct{})
		r.rooms[room] = members
		res.RoomOpened = true
		log.Info().Str("module", "presence").Str("room", string(room)).Msg("room opened")
	}
	if _, ok := members[uid]; ok {
		res.AlreadyMember = true
	}
	members[uid] = struct{}{}

	if r.mode == SingleSession {
		r.conns[uid] = map[ConnID]struct{}{conn: {}}
	} else {
		if _, ok := r.conns[uid]; !ok {
			r.conns[uid] = make(map[ConnID]struct{})
		}
		r.conns[uid][conn] = struct{}{}
	}
	return res
}

// Leave removes uid from the room's member set and drops the room entry
// once it is empty, so idle rooms never accumulate. In single-session mode
// the reverse-index entry is removed unconditionally, even if it already
// points at a newer connection.
func (r *Registry) Leave(room domain.DesignID, uid domain.UserID, conn ConnID) LeaveResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res LeaveResult
	if members, ok := r.rooms[room]; ok {
		if _, ok := members[uid]; ok {
			res.WasMember = true
			delete(members, uid)
		}
		if len(members) == 0 {
			delete(r.rooms, room)
			res.RoomClosed = true
			log.Info().Str("module", "presence").Str("room", string(room)).Msg("room closed")
		}
	}

	if r.mode == SingleSession {
		delete(r.conns, uid)
	} else if set, ok := r.conns[uid]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.conns, uid)
		}
	}
	return res
}

// Members returns the current member identities of room, empty if the room
// does not exist.
func (r *Registry) Members(room domain.DesignID) []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := r.rooms[room]
	out := make([]domain.UserID, 0, len(members))
	for uid := range members {
		out = append(out, uid)
	}
	return out
}

// Connections returns the connection handles currently mapped to uid. In
// single-session mode the slice has at most one element.
func (r *Registry) Connections(uid domain.UserID) []ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.conns[uid]
	out := make([]ConnID, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}

// Rooms reports how many rooms currently hold at least one member.
func (r *Registry) Rooms() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
