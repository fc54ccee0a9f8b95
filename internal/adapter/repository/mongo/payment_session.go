package mongo

import (
	"context"
	"time"

	paymentDomain "loanflow-backend/internal/domain/payment"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

const sessionCollection = "payment_sessions"

type SessionRepository struct{ coll *mongodrv.Collection }

func NewSessionRepository(db *mongodrv.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionCollection)}
}

func (r *SessionRepository) Insert(ctx context.Context, s *paymentDomain.Session) error {
	_, err := r.coll.InsertOne(ctx, s)
	return err
}

func (r *SessionRepository) MarkCompleted(ctx context.Context, sessionID string) error {
	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$set": bson.M{"status": paymentDomain.SessionCompleted, "completed_at": now}},
	)
	return err
}
