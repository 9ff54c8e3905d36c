// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store maintains the manager↔employee assignment graph. The employee
// document's managers array is the routing authority; manager_assignments
// documents are the audit trail backing the per-manager listings.
type Store struct {
	users       *mongo.Collection
	assignments *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		users:       db.Collection("users"),
		assignments: db.Collection("manager_assignments"),
	}
}

// Map assigns a manager to an employee. An employee can hold at most one
// manager; the guard is the update filter itself (managers must be empty),
// so two concurrent Map calls cannot both win. Both accounts must exist
// with the expected roles and share a department.
func (s *Store) Map(ctx context.Context, employeeID, managerID, createdBy primitive.ObjectID) (models.ManagerAssignment, error) {
	var none models.ManagerAssignment

	var employee models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": employeeID}).Decode(&employee); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return none, apperr.NotFound("employee not found")
		}
		return none, err
	}
	if employee.Role != authz.RoleEmployee {
		return none, apperr.InvalidRole("mapping target must have the employee role")
	}

	var manager models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": managerID}).Decode(&manager); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return none, apperr.NotFound("manager not found")
		}
		return none, err
	}
	if manager.Role != authz.RoleManager {
		return none, apperr.InvalidRole("assigned reviewer must have the manager role")
	}
	if manager.Department != employee.Department {
		return none, apperr.InvalidRole("manager and employee must belong to the same department")
	}

	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": employeeID, "role": authz.RoleEmployee, "managers": bson.M{"$size": 0}},
		bson.M{
			"$push": bson.M{"managers": managerID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return none, err
	}
	if res.ModifiedCount == 0 {
		return none, apperr.AlreadyMapped("employee already has a manager assigned")
	}

	a := models.ManagerAssignment{
		ID:          primitive.NewObjectID(),
		EmployeeID:  employeeID,
		ManagerID:   managerID,
		Department:  employee.Department,
		CreatedAt:   time.Now().UTC(),
		CreatedByID: createdBy,
	}
	if _, err := s.assignments.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return none, apperr.AlreadyMapped("assignment already recorded")
		}
		return none, err
	}
	return a, nil
}

// Unmap removes a manager from an employee. The $pull is the existence
// check: nothing modified means the pair was never mapped.
func (s *Store) Unmap(ctx context.Context, employeeID, managerID primitive.ObjectID) error {
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": employeeID},
		bson.M{
			"$pull": bson.M{"managers": managerID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.ModifiedCount == 0 {
		return apperr.NotMapped("employee is not mapped to this manager")
	}

	_, err = s.assignments.DeleteOne(ctx, bson.M{"employee_id": employeeID, "manager_id": managerID})
	return err
}

// ListByManager returns the assignment records for one manager, newest first.
func (s *Store) ListByManager(ctx context.Context, managerID primitive.ObjectID) ([]models.ManagerAssignment, error) {
	cur, err := s.assignments.Find(ctx, bson.M{"manager_id": managerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ManagerAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByEmployee returns the assignment records naming this employee.
func (s *Store) ListByEmployee(ctx context.Context, employeeID primitive.ObjectID) ([]models.ManagerAssignment, error) {
	cur, err := s.assignments.Find(ctx, bson.M{"employee_id": employeeID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.ManagerAssignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
