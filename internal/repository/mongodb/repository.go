package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/docelar/docelar/internal/domain/models"
)

// ErrNoSession indicates an attempt to persist a document with no active user.
var ErrNoSession = errors.New("state document has no session")

// Repository defines the durable per-tenant state store.
type Repository interface {
	SaveState(ctx context.Context, state models.AppState) error
	LoadState(ctx context.Context, companyID string) (models.AppState, error)
}

// MongoDBRepository implements the Repository interface for MongoDB: one
// document per tenant, replaced wholesale on every save.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// stateDocument wraps the serialized state with its tenant key.
type stateDocument struct {
	CompanyID string          `bson:"companyId"`
	State     models.AppState `bson:"state"`
	UpdatedAt time.Time       `bson:"updatedAt"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "tenant_states",
	}, nil
}

// SaveState upserts the tenant's state document.
func (r *MongoDBRepository) SaveState(ctx context.Context, state models.AppState) error {
	if state.User == nil {
		return ErrNoSession
	}

	doc := stateDocument{
		CompanyID: state.User.CompanyID,
		State:     state,
		UpdatedAt: time.Now().UTC(),
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err := collection.ReplaceOne(ctx,
		bson.M{"companyId": doc.CompanyID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert state for %s: %w", doc.CompanyID, err)
	}
	return nil
}

// LoadState reads the tenant's state document. A missing document yields the
// empty skeleton rather than an error so a fresh tenant can always start.
func (r *MongoDBRepository) LoadState(ctx context.Context, companyID string) (models.AppState, error) {
	collection := r.client.Database(r.dbName).Collection(r.collName)

	var doc stateDocument
	err := collection.FindOne(ctx, bson.M{"companyId": companyID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewAppState(), nil
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("failed to load state for %s: %w", companyID, err)
	}

	return doc.State.Normalized(), nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
