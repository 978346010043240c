package employeestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rfields/staffdir/internal/app/system/htmlsanitize"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"github.com/rfields/staffdir/internal/app/system/normalize"
	"github.com/rfields/staffdir/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("employees")}
}

var (
	// ErrDuplicateEmail is returned when another employee already has the email.
	ErrDuplicateEmail = errors.New("an employee with this email already exists")
	// ErrBadGender is returned when the gender is not one of the accepted values.
	ErrBadGender = errors.New(`gender must be "Male"|"Female"|"Other"`)
)

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

// Create inserts a new employee after normalizing and sanitizing fields.
// The caller is responsible for required-field validation; Create enforces
// the gender enum because it is a storage invariant.
func (s *Store) Create(ctx context.Context, e models.Employee) (models.Employee, error) {
	e.ID = primitive.NewObjectID()
	e.Name = htmlsanitize.Strip(normalize.Name(e.Name))
	e.NameCI = text.Fold(e.Name)
	e.Email = normalize.Email(e.Email)
	e.Mobile = htmlsanitize.Strip(normalize.Name(e.Mobile))
	e.Designation = htmlsanitize.Strip(normalize.Name(e.Designation))
	e.Course = htmlsanitize.Strip(normalize.Name(e.Course))
	e.Gender = normalize.Gender(e.Gender)

	if !models.IsValidGender(e.Gender) {
		return models.Employee{}, ErrBadGender
	}

	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Employee{}, ErrDuplicateEmail
		}
		return models.Employee{}, storageErr(err)
	}
	return e, nil
}

// List returns all employees, newest first. The result is never nil so
// an empty directory encodes as a JSON array.
func (s *Store) List(ctx context.Context) ([]models.Employee, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storageErr(err)
	}
	defer cur.Close(ctx)

	out := []models.Employee{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// GetByID loads an employee by ObjectID.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Employee, error) {
	var e models.Employee
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, storageErr(err)
	}
	return &e, nil
}

// Update holds the employee fields that can change. Nil fields are left
// untouched so a partial edit never clobbers data it did not send.
type Update struct {
	Name        *string
	Email       *string
	Mobile      *string
	Designation *string
	Gender      *string
	Course      *string
	Image       *string
}

// Apply updates an employee and returns the post-update document.
// Returns mongo.ErrNoDocuments if the employee does not exist and
// ErrDuplicateEmail if the new email belongs to another employee.
func (s *Store) Apply(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Employee, error) {
	set := bson.M{"updated_at": time.Now()}

	if upd.Name != nil {
		name := htmlsanitize.Strip(normalize.Name(*upd.Name))
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Email != nil {
		set["email"] = normalize.Email(*upd.Email)
	}
	if upd.Mobile != nil {
		set["mobile"] = htmlsanitize.Strip(normalize.Name(*upd.Mobile))
	}
	if upd.Designation != nil {
		set["designation"] = htmlsanitize.Strip(normalize.Name(*upd.Designation))
	}
	if upd.Gender != nil {
		g := normalize.Gender(*upd.Gender)
		if !models.IsValidGender(g) {
			return nil, ErrBadGender
		}
		set["gender"] = g
	}
	if upd.Course != nil {
		set["course"] = htmlsanitize.Strip(normalize.Name(*upd.Course))
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e models.Employee
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&e)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, storageErr(err)
	}
	return &e, nil
}

// Delete removes an employee by ID and returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, storageErr(err)
	}
	return res.DeletedCount, nil
}
