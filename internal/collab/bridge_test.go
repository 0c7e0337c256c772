package collab

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

// downProfiles simulates a durable store with its connectivity flag down.
type downProfiles struct{}

func (downProfiles) FindByID(context.Context, domain.UserID) (*domain.Profile, error) {
	return nil, store.ErrUnavailable
}

func (downProfiles) FindByIDs(context.Context, []domain.UserID) ([]domain.Profile, error) {
	return nil, store.ErrUnavailable
}

type emptyProfiles struct{}

func (emptyProfiles) FindByID(context.Context, domain.UserID) (*domain.Profile, error) {
	return nil, store.ErrNotFound
}

func (emptyProfiles) FindByIDs(context.Context, []domain.UserID) ([]domain.Profile, error) {
	return nil, nil
}

func TestBridge_LookupDegradesToBareIdentity(t *testing.T) {
	b := NewBridge(downProfiles{}, failingComments{}, time.Second)
	ctx := context.Background()

	assert.Nil(t, b.LookupProfile(ctx, "u1"))

	got := b.LookupProfiles(ctx, []domain.UserID{"u1", "u2"})
	require.Len(t, got, 2)
	assert.Equal(t, domain.Profile{ID: "u1"}, got[0])
	assert.Equal(t, domain.Profile{ID: "u2"}, got[1])
}

func TestBridge_RequireProfile(t *testing.T) {
	ctx := context.Background()

	// Unreachable store is an error the caller must surface.
	b := NewBridge(downProfiles{}, failingComments{}, time.Second)
	_, err := b.RequireProfile(ctx, "u1")
	require.Error(t, err)

	// An unknown user is not: the comment proceeds with a bare identity.
	b = NewBridge(emptyProfiles{}, failingComments{}, time.Second)
	p, err := b.RequireProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestBridge_AppendCommentPropagatesFailure(t *testing.T) {
	b := NewBridge(downProfiles{}, failingComments{}, time.Second)
	err := b.AppendComment(context.Background(), "design-42", domain.Comment{ID: "c1"})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
