// internal/domain/models/managerassignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ManagerAssignment records one manager↔employee edge in the assignment
// graph. The employee document's managers array is the routing authority;
// these documents are the audit trail and back the "who reports to M"
// listings. Exactly one document per (employee_id, manager_id).
type ManagerAssignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	ManagerID  primitive.ObjectID `bson:"manager_id" json:"manager_id"`
	Department string             `bson:"department" json:"department"`

	// Audit fields
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	CreatedByID primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
}
