// Package memory is the volatile fallback backend: everything lives in
// process maps and is lost on restart. It is always available.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	users   map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
	designs map[domain.DesignID]*domain.Design
}

func New() *Store {
	return &Store{
		users:   make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]domain.UserID),
		designs: make(map[domain.DesignID]*domain.Design),
	}
}

func (s *Store) Available() bool { return true }

func (s *Store) FindByID(_ context.Context, id domain.UserID) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p := u.Profile()
	return &p, nil
}

func (s *Store) FindByIDs(_ context.Context, ids []domain.UserID) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Profile, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u.Profile())
		}
	}
	return out, nil
}

func (s *Store) AppendComment(_ context.Context, id domain.DesignID, c domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.designs[id]
	if !ok {
		// The volatile backend has no design documents to start from, so
		// the first comment creates the record, matching how an offline
		// session would behave on first save.
		d = &domain.Design{ID: id, Title: "Untitled Design"}
		s.designs[id] = d
	}
	d.Comments = append(d.Comments, c)
	return nil
}

func (s *Store) FindUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) SaveUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = domain.UserID(uuid.NewString())
	}
	cp := *u
	s.users[u.ID] = &cp
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Store) FindDesign(_ context.Context, id domain.DesignID) (*domain.Design, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.designs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *Store) SetCollaborator(_ context.Context, id domain.DesignID, c domain.Collaborator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.designs[id]
	if !ok {
		return store.ErrNotFound
	}
	for i := range d.Collaborators {
		if d.Collaborators[i].User == c.User {
			d.Collaborators[i].Permission = c.Permission
			return nil
		}
	}
	if c.InvitedAt.IsZero() {
		c.InvitedAt = time.Now()
	}
	d.Collaborators = append(d.Collaborators, c)
	return nil
}

func (s *Store) RemoveCollaborator(_ context.Context, id domain.DesignID, uid domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.designs[id]
	if !ok {
		return store.ErrNotFound
	}
	kept := d.Collaborators[:0]
	for _, c := range d.Collaborators {
		if c.User != uid {
			kept = append(kept, c)
		}
	}
	d.Collaborators = kept
	return nil
}

// AddDesign seeds a design record; used by tests and by the REST surface
// when running without a durable backend.
func (s *Store) AddDesign(d *domain.Design) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.designs[d.ID] = &cp
}
