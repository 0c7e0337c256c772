package collab

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

// Bridge is the boundary between the ephemeral protocol layer and the
// durable store. Profile enrichment degrades to bare identities when the
// store is down; comment persistence fails loudly instead. Every call is
// bounded by the configured timeout so a hung store cannot pin a handler.
type Bridge struct {
	profiles store.ProfileLookup
	comments store.CommentStore
	timeout  time.Duration
}

func NewBridge(profiles store.ProfileLookup, comments store.CommentStore, timeout time.Duration) *Bridge {
	return &Bridge{profiles: profiles, comments: comments, timeout: timeout}
}

// LookupProfile resolves uid best-effort. Any failure, including an
// unreachable store, yields nil rather than an error.
func (b *Bridge) LookupProfile(ctx context.Context, uid domain.UserID) *domain.Profile {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	p, err := b.profiles.FindByID(ctx, uid)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("module", "collab.bridge").Str("user", string(uid)).Msg("profile lookup degraded")
		}
		return nil
	}
	return p
}

// LookupProfiles resolves ids best-effort, preserving input order. Members
// the store cannot resolve come back with only their identity set.
func (b *Bridge) LookupProfiles(ctx context.Context, ids []domain.UserID) []domain.Profile {
	out := make([]domain.Profile, 0, len(ids))
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	found, err := b.profiles.FindByIDs(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Str("module", "collab.bridge").Msg("profile batch lookup degraded")
	}
	byID := make(map[domain.UserID]domain.Profile, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		} else {
			out = append(out, domain.Profile{ID: id})
		}
	}
	return out
}

// RequireProfile is the strict variant used for durable events: an
// unreachable store is an error, an unknown user merely yields nil.
func (b *Bridge) RequireProfile(ctx context.Context, uid domain.UserID) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	p, err := b.profiles.FindByID(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AppendComment persists c to the design's durable record. Failures
// propagate so the caller can abort the broadcast.
func (b *Bridge) AppendComment(ctx context.Context, design domain.DesignID, c domain.Comment) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.comments.AppendComment(ctx, design, c)
}
