// Package store defines the capability interfaces the collaboration layer
// and the REST surface consume. Two implementations exist: mongo (durable)
// and memory (volatile fallback); one is selected at startup.
package store

import (
	"context"
	"errors"

	"github.com/Jaganravi131/DesignSync/internal/domain"
)

var (
	// ErrUnavailable is the well-defined degraded result for a backend
	// whose connectivity is down. It never escapes as a panic or a raw
	// driver error.
	ErrUnavailable = errors.New("store unavailable")
	ErrNotFound    = errors.New("not found")
)

// ProfileLookup resolves user identities to presence-enrichment profiles.
type ProfileLookup interface {
	FindByID(ctx context.Context, id domain.UserID) (*domain.Profile, error)
	FindByIDs(ctx context.Context, ids []domain.UserID) ([]domain.Profile, error)
}

// CommentStore appends comments to a design's durable record.
type CommentStore interface {
	AppendComment(ctx context.Context, design domain.DesignID, c domain.Comment) error
}

// UserStore backs the auth surface.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUser(ctx context.Context, id domain.UserID) (*domain.User, error)
	SaveUser(ctx context.Context, u *domain.User) error
}

// DesignStore backs the collaboration REST surface.
type DesignStore interface {
	FindDesign(ctx context.Context, id domain.DesignID) (*domain.Design, error)
	SetCollaborator(ctx context.Context, id domain.DesignID, c domain.Collaborator) error
	RemoveCollaborator(ctx context.Context, id domain.DesignID, uid domain.UserID) error
}

// Store bundles every capability a backend provides.
type Store interface {
	ProfileLookup
	CommentStore
	UserStore
	DesignStore

	// Available reports backend connectivity. Read-only for callers;
	// the backend's own monitoring toggles it.
	Available() bool
}
