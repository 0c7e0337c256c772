// Package mongo is the durable backend. Connectivity is observed through
// the driver's server heartbeat monitor and exposed as a process-wide flag;
// every method short-circuits with store.ErrUnavailable while the flag is
// down instead of waiting on the driver's own timeouts.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jaganravi131/DesignSync/internal/domain"
	"github.com/Jaganravi131/DesignSync/internal/store"
)

type Store struct {
	client    *mongo.Client
	users     *mongo.Collection
	designs   *mongo.Collection
	available atomic.Bool
}

// Connect dials the cluster and wires heartbeat callbacks into the
// connectivity flag. A failed initial ping is not fatal: the process starts
// degraded and recovers when the next heartbeat succeeds.
func Connect(ctx context.Context, uri, db string) (*Store, error) {
	s := &Store{}

	monitor := &event.ServerMonitor{
		ServerHeartbeatSucceeded: func(*event.ServerHeartbeatSucceededEvent) {
			if !s.available.Swap(true) {
				log.Info().Str("module", "store.mongo").Msg("✅ MongoDB connected")
			}
		},
		ServerHeartbeatFailed: func(e *event.ServerHeartbeatFailedEvent) {
			if s.available.Swap(false) {
				log.Error().Err(e.Failure).Str("module", "store.mongo").Msg("❌ MongoDB connection lost")
			}
		},
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetServerMonitor(monitor)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	s.client = client
	s.users = client.Database(db).Collection("users")
	s.designs = client.Database(db).Collection("designs")

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		log.Warn().Err(err).Str("module", "store.mongo").Msg("🔄 starting in offline mode")
	} else {
		s.available.Store(true)
	}
	return s, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Available() bool { return s.available.Load() }

func (s *Store) FindByID(ctx context.Context, id domain.UserID) (*domain.Profile, error) {
	if !s.available.Load() {
		return nil, store.ErrUnavailable
	}
	var p domain.Profile
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &p, nil
}

func (s *Store) FindByIDs(ctx context.Context, ids []domain.UserID) ([]domain.Profile, error) {
	if !s.available.Load() {
		return nil, store.ErrUnavailable
	}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)
	var out []domain.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func (s *Store) AppendComment(ctx context.Context, id domain.DesignID, c domain.Comment) error {
	if !s.available.Load() {
		return store.ErrUnavailable
	}
	res, err := s.designs.UpdateByID(ctx, id, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return fmt.Errorf("append comment to %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) FindUser(ctx context.Context, id domain.UserID) (*domain.User, error) {
	if !s.available.Load() {
		return nil, store.ErrUnavailable
	}
	var u domain.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &u, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if !s.available.Load() {
		return nil, store.ErrUnavailable
	}
	var u domain.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &u, nil
}

func (s *Store) SaveUser(ctx context.Context, u *domain.User) error {
	if !s.available.Load() {
		return store.ErrUnavailable
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, u, opts); err != nil {
		return fmt.Errorf("save user %s: %w", u.ID, err)
	}
	return nil
}

func (s *Store) FindDesign(ctx context.Context, id domain.DesignID) (*domain.Design, error) {
	if !s.available.Load() {
		return nil, store.ErrUnavailable
	}
	var d domain.Design
	err := s.designs.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find design %s: %w", id, err)
	}
	return &d, nil
}

func (s *Store) SetCollaborator(ctx context.Context, id domain.DesignID, c domain.Collaborator) error {
	if !s.available.Load() {
		return store.ErrUnavailable
	}
	// Update an existing entry in place; push a new one only if none matched.
	res, err := s.designs.UpdateOne(ctx,
		bson.M{"_id": id, "collaborators.user": c.User},
		bson.M{"$set": bson.M{"collaborators.$.permission": c.Permission}},
	)
	if err != nil {
		return fmt.Errorf("update collaborator on %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	if c.InvitedAt.IsZero() {
		c.InvitedAt = time.Now()
	}
	res, err = s.designs.UpdateByID(ctx, id, bson.M{"$push": bson.M{"collaborators": c}})
	if err != nil {
		return fmt.Errorf("add collaborator to %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) RemoveCollaborator(ctx context.Context, id domain.DesignID, uid domain.UserID) error {
	if !s.available.Load() {
		return store.ErrUnavailable
	}
	res, err := s.designs.UpdateByID(ctx, id, bson.M{"$pull": bson.M{"collaborators": bson.M{"user": uid}}})
	if err != nil {
		return fmt.Errorf("remove collaborator from %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
