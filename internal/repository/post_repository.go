package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/blog-service/internal/domain"
)

// Outcome sentinels for the repository boundary. Callers map these to HTTP
// statuses; anything else is an internal storage failure.
var (
	ErrNotFound    = errors.New("post not found")
	ErrInvalidID   = errors.New("invalid post id")
	ErrUnavailable = errors.New("storage unavailable")
)

const postsCollection = "posts"

// PostRepository encapsulates post persistence. It is the sole owner of
// stored post state.
type PostRepository interface {
	List(ctx context.Context) ([]domain.Post, error)
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	coll *mongo.Collection
}

// NewPostRepository instantiates a repository over the given database.
func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{coll: db.Collection(postsCollection)}
}

// List returns all posts sorted by date descending. An empty collection
// yields an empty slice, never an error.
func (r *postRepository) List(ctx context.Context) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, classify(err)
	}
	defer cursor.Close(ctx)

	posts := make([]domain.Post, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, classify(err)
	}
	return posts, nil
}

// Create assigns the id and creation date, then persists the post.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	post.ID = primitive.NewObjectID()
	post.Date = time.Now().UTC()
	if post.Tags == nil {
		post.Tags = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return classify(err)
	}
	return nil
}

// Update replaces the mutable fields of an existing post in a single atomic
// document update. The id and date are never touched.
func (r *postRepository) Update(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	tags := patch.Tags
	if tags == nil {
		tags = []string{}
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: patch.Title},
		{Key: "content", Value: patch.Content},
		{Key: "author", Value: patch.Author},
		{Key: "tags", Value: tags},
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated domain.Post
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&updated); err != nil {
		return nil, classify(err)
	}
	return &updated, nil
}

// Delete removes the post with the given id.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return classify(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// classify folds driver errors into the repository's outcome sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsTimeout(err) || mongo.IsNetworkError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
