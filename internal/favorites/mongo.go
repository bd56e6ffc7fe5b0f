package favorites

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/thinkscotty/ideagen/internal/models"
)

type mongoFavorite struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UID            string             `bson:"uid"`
	Title          string             `bson:"title"`
	Type           string             `bson:"type"`
	Description    string             `bson:"description"`
	Niche          string             `bson:"niche"`
	TargetAudience string             `bson:"targetAudience"`
	IsFavorite     bool               `bson:"isFavorite"`
	Timestamp      string             `bson:"timestamp"`
}

func (m mongoFavorite) idea() models.Idea {
	return models.Idea{
		ID:             m.ID.Hex(),
		Title:          m.Title,
		Type:           models.IdeaType(m.Type),
		Description:    m.Description,
		Niche:          m.Niche,
		TargetAudience: m.TargetAudience,
		IsFavorite:     m.IsFavorite,
		Timestamp:      m.Timestamp,
	}
}

// MongoGateway keeps favorites as documents in a single collection, one
// document per saved idea, tagged with the owner's uid.
type MongoGateway struct {
	coll *mongo.Collection
}

func NewMongoGateway(db *mongo.Database, collection string) *MongoGateway {
	return &MongoGateway{coll: db.Collection(collection)}
}

// EnsureIndexes creates the owner/timestamp index used by List.
func (g *MongoGateway) EnsureIndexes(ctx context.Context) error {
	_, err := g.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "uid", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create favorites index: %w", err)
	}
	return nil
}

func (g *MongoGateway) Save(ctx context.Context, owner string, idea models.Idea) (models.Idea, error) {
	doc := mongoFavorite{
		UID:            owner,
		Title:          idea.Title,
		Type:           string(idea.Type),
		Description:    idea.Description,
		Niche:          idea.Niche,
		TargetAudience: idea.TargetAudience,
		IsFavorite:     true,
		Timestamp:      idea.Timestamp,
	}
	res, err := g.coll.InsertOne(ctx, doc)
	if err != nil {
		return models.Idea{}, fmt.Errorf("insert favorite: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.idea(), nil
}

func (g *MongoGateway) List(ctx context.Context, owner string) ([]models.Idea, error) {
	filter := bson.M{"uid": owner, "isFavorite": true}
	opts := options.Find().SetSort(bson.M{"timestamp": -1})

	cursor, err := g.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoFavorite
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	out := make([]models.Idea, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.idea())
	}
	return out, nil
}

func (g *MongoGateway) Remove(ctx context.Context, owner, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := g.coll.DeleteOne(ctx, bson.M{"_id": oid, "uid": owner})
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
