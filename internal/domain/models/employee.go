// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values accepted for an employee record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// IsValidGender reports whether g is one of the accepted gender values.
func IsValidGender(g string) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Employee is a directory profile record.
//
// NameCI holds the case/diacritic-folded name used for index-backed
// sorting and search; it is derived by the store, never set by callers.
// Image is a relative URL under the /uploads prefix, or empty when no
// photo has been uploaded.
type Employee struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Email       string             `bson:"email" json:"email"`
	Mobile      string             `bson:"mobile" json:"mobile"`
	Designation string             `bson:"designation" json:"designation"`
	Gender      string             `bson:"gender" json:"gender"` // Male | Female | Other
	Course      string             `bson:"course" json:"course"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
