package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/wizardry/internal/common"
	"github.com/dmitrijs2005/wizardry/internal/server/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding posts.
const CollectionName = "posts"

type postDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Title      string             `bson:"title"`
	Content    string             `bson:"content"`
	Excerpt    string             `bson:"excerpt"`
	Author     primitive.ObjectID `bson:"author"`
	Status     string             `bson:"status"`
	CoverImage string             `bson:"coverImage,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d *postDocument) toModel() models.Post {
	return models.Post{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Content:    d.Content,
		Excerpt:    d.Excerpt,
		Author:     d.Author.Hex(),
		Status:     d.Status,
		CoverImage: d.CoverImage,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the text index used by Search and the indexes
// backing the newest-first listings.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "title", Value: "text"},
			{Key: "excerpt", Value: "text"},
			{Key: "content", Value: "text"},
		}},
		{Keys: newestFirst},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	author, err := primitive.ObjectIDFromHex(post.Author)
	if err != nil {
		return nil, common.ErrInvalidID
	}

	doc := postDocument{
		ID:         primitive.NewObjectID(),
		Title:      post.Title,
		Content:    post.Content,
		Excerpt:    post.Excerpt,
		Author:     author,
		Status:     post.Status,
		CoverImage: post.CoverImage,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	post.ID = doc.ID.Hex()
	return post, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrInvalidID
	}

	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

func (r *MongoRepository) FindByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(authorID)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	return r.find(ctx, bson.M{"author": oid})
}

func (r *MongoRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	return r.find(ctx, bson.M{"$text": bson.M{"$search": query}})
}

func (r *MongoRepository) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrInvalidID
	}

	set := bson.M{"updatedAt": r.now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Excerpt != nil {
		set["excerpt"] = *patch.Excerpt
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.CoverImage != nil {
		set["coverImage"] = *patch.CoverImage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p := doc.toModel()
	return &p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrInvalidID
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *MongoRepository) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]models.Post, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toModel())
	}
	return result, nil
}
