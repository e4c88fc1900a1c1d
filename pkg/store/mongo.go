package store

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mhalter/nodeloom/pkg/document"
)

// Mongo stores documents in a MongoDB collection. The serialized JSON is
// kept as an opaque blob rather than mapped to BSON fields, so the document
// format can evolve without collection migrations.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoRecord is the collection schema: one record per document name.
type mongoRecord struct {
	Name      string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongo creates a MongoDB-backed store from a connection URI, using the
// given database and a "documents" collection, and verifies the connection.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection("documents"),
	}, nil
}

// Load returns the document stored under name.
func (m *Mongo) Load(ctx context.Context, name string) (*document.Document, error) {
	var record mongoRecord
	err := m.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return document.UnmarshalDocument(record.Data)
}

// Save stores the document under name.
func (m *Mongo) Save(ctx context.Context, name string, d *document.Document) error {
	data, err := document.MarshalDocument(d)
	if err != nil {
		return err
	}
	record := mongoRecord{Name: name, Data: data, UpdatedAt: time.Now().UTC()}
	_, err = m.collection.ReplaceOne(ctx, bson.M{"_id": name}, record, options.Replace().SetUpsert(true))
	return err
}

// Delete removes the document under name.
func (m *Mongo) Delete(ctx context.Context, name string) error {
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": name})
	return err
}

// List returns the stored names in lexicographic order.
func (m *Mongo) List(ctx context.Context) ([]string, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var names []string
	for cursor.Next(ctx) {
		var record struct {
			Name string `bson:"_id"`
		}
		if err := cursor.Decode(&record); err != nil {
			return nil, err
		}
		names = append(names, record.Name)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
