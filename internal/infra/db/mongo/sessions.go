package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainauth "bakeshop/internal/domain/auth"
)

// SessionStore keeps admin sessions in mongo so they survive restarts. A
// TTL index on expires_at lets the server reap stale sessions itself.
type SessionStore struct {
	col *mongo.Collection
}

func NewSessionStore(ctx context.Context, db *mongo.Database) (*SessionStore, error) {
	col := db.Collection("admin_sessions")
	index := mongo.IndexModel{
		Keys:    bson.M{"expires_at": 1},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := col.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("mongo: session ttl index: %w", err)
	}
	return &SessionStore{col: col}, nil
}

type sessionDocument struct {
	Token     string    `bson:"_id"`
	AdminID   string    `bson:"admin_id"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

func (s *SessionStore) Save(ctx context.Context, session *domainauth.Session) error {
	doc := sessionDocument{
		Token:     string(session.Token),
		AdminID:   session.AdminID,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": doc.Token}, doc, opts); err != nil {
		return fmt.Errorf("mongo: save session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	var doc sessionDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": string(token)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, fmt.Errorf("mongo: load session: %w", err)
	}
	return &domainauth.Session{
		Token:     domainauth.Token(doc.Token),
		AdminID:   doc.AdminID,
		CreatedAt: doc.CreatedAt.UTC(),
		ExpiresAt: doc.ExpiresAt.UTC(),
	}, nil
}

func (s *SessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": string(token)}); err != nil {
		return fmt.Errorf("mongo: delete session: %w", err)
	}
	return nil
}
