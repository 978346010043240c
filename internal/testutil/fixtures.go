package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/rfields/staffdir/internal/app/system/authutil"
	"github.com/rfields/staffdir/internal/app/system/normalize"
	"github.com/rfields/staffdir/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateAdmin creates an admin with a bcrypt hash of the given password.
func (f *Fixtures) CreateAdmin(ctx context.Context, email, password string) models.Admin {
	f.t.Helper()

	hash, err := authutil.HashPassword(password)
	if err != nil {
		f.t.Fatalf("failed to hash test password: %v", err)
	}

	now := time.Now().UTC()
	admin := models.Admin{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("admins").InsertOne(ctx, admin); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return admin
}

// CreateEmployee creates an employee record with sensible defaults.
func (f *Fixtures) CreateEmployee(ctx context.Context, name, email string) models.Employee {
	f.t.Helper()

	now := time.Now().UTC()
	emp := models.Employee{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Email:       normalize.Email(email),
		Mobile:      "5550100000",
		Designation: "HR",
		Gender:      models.GenderOther,
		Course:      "BCA",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("employees").InsertOne(ctx, emp); err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}
	return emp
}

// CreateEmployeeWithImage creates an employee that carries a stored photo.
func (f *Fixtures) CreateEmployeeWithImage(ctx context.Context, name, email, image string) models.Employee {
	f.t.Helper()

	emp := f.CreateEmployee(ctx, name, email)
	if _, err := f.db.Collection("employees").UpdateOne(ctx,
		bson.M{"_id": emp.ID},
		bson.M{"$set": bson.M{"image": image}},
	); err != nil {
		f.t.Fatalf("failed to set test employee image: %v", err)
	}
	emp.Image = image
	return emp
}
