package adminstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/normalize"
	"github.com/rfields/staffdir/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("admins")}
}

// ErrDuplicateEmail is returned when attempting to create an admin with
// an email that already exists.
var ErrDuplicateEmail = errors.New("an admin with this email already exists")

// storageErr wraps transient driver failures (server selection timeouts,
// connection loss) in httperr.ErrStorageUnavailable so handlers render
// 503 and clients know to retry. Not-found and other errors pass through.
func storageErr(err error) error {
	if err == nil || err == mongo.ErrNoDocuments {
		return err
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", httperr.ErrStorageUnavailable, err)
	}
	return err
}

// GetByEmail looks up an admin by case-insensitive email.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&a); err != nil {
		return nil, storageErr(err)
	}
	return &a, nil
}

// GetByID loads an admin by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, storageErr(err)
	}
	return &a, nil
}

// Create inserts a new admin after normalizing the email. The password
// must already be hashed by the caller.
func (s *Store) Create(ctx context.Context, a models.Admin) (models.Admin, error) {
	a.ID = primitive.NewObjectID()
	a.Email = normalize.Email(a.Email)

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, storageErr(err)
	}
	return a, nil
}

// Count returns the number of admin documents.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}
