package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusdeals/marketplace-api/internal/core/domain"
	"github.com/campusdeals/marketplace-api/internal/core/ports"
)

const collectionAuthEvents = "auth_events"

// authEventDoc is the stored shape of a domain.AuthEvent.
type authEventDoc struct {
	Type       string    `bson:"type"`
	UserID     int64     `bson:"user_id,omitempty"`
	Email      string    `bson:"email,omitempty"`
	Operation  string    `bson:"operation,omitempty"`
	Reason     string    `bson:"reason,omitempty"`
	RequestID  string    `bson:"request_id,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	StoredAt   time.Time `bson:"stored_at"`
}

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuthEvents)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// EnsureIndexes creates the lookup indexes used when investigating an
// account or a request.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// InsertEvent appends an event to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, authEventDoc{
		Type:       string(event.Type),
		UserID:     event.UserID,
		Email:      event.Email,
		Operation:  string(event.Operation),
		Reason:     event.Reason,
		RequestID:  event.RequestID,
		OccurredAt: event.OccurredAt.UTC(),
		StoredAt:   time.Now().UTC(),
	})
	return err
}
