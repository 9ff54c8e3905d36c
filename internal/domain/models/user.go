// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every account in the system: employees, managers,
// heads of department, HR, and admins. Role is fixed per account.
//
// NOTE:
//   - Managers holds the ids of the reviewing managers currently mapped to
//     this user. It is maintained only through the assignment store's
//     Map/Unmap operations, never derived from department equality.
//   - HOD is a single optional reference maintained separately from
//     Managers; a department may route different employees to different
//     hod records, though in practice one hod per department is expected.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName     string               `bson:"full_name" json:"full_name"`
	FullNameCI   string               `bson:"full_name_ci" json:"-"` // lowercase, trimmed
	Email        string               `bson:"email" json:"email"`
	PasswordHash string               `bson:"password_hash,omitempty" json:"-"`
	Role         string               `bson:"role" json:"role"` // employee | manager | hod | hr | admin
	Department   string               `bson:"department" json:"department"`
	Location     string               `bson:"location,omitempty" json:"location,omitempty"`
	Managers     []primitive.ObjectID `bson:"managers" json:"managers"`
	HOD          *primitive.ObjectID  `bson:"hod,omitempty" json:"hod,omitempty"`
	Status       string               `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
