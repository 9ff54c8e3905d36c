package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/normalize"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func optionsSortByName() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}})
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "employee"|"manager"|"hod"|"hr"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
	errDeptNeeded     = errors.New("employee/manager/hod must have a department")
)

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns
// mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetEmployeeByID loads a user by ObjectID, returning an error if the user
// does not exist or is not an employee role.
func (s *Store) GetEmployeeByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": authz.RoleEmployee}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetManagerByID loads a user by ObjectID, returning an error if the user
// does not exist or is not a manager role.
func (s *Store) GetManagerByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": authz.RoleManager}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing & validating fields.
// Password is hashed here; the caller passes it in the clear exactly once.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	// Normalize core fields
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Department = normalize.Department(u.Department)
	if u.Status == "" {
		u.Status = status.Active
	}
	if u.Managers == nil {
		u.Managers = []primitive.ObjectID{}
	}

	if !authz.IsKnownRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	// Everyone routed through the review chain needs a department.
	if u.Department == "" && u.Role != authz.RoleAdmin && u.Role != authz.RoleHR {
		return models.User{}, errDeptNeeded
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, err
		}
		u.PasswordHash = string(hash)
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// VerifyPassword checks a clear-text password against the stored hash.
func (s *Store) VerifyPassword(u *models.User, password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetHOD points an employee at the hod who reviews their requests.
// Passing nil clears the reference.
func (s *Store) SetHOD(ctx context.Context, employeeID primitive.ObjectID, hodID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now()}
	unset := bson.M{}
	if hodID != nil {
		set["hod"] = *hodID
	} else {
		unset["hod"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": employeeID}, update)
	return err
}

// ListManagersByDepartment returns the active managers of one department,
// sorted by name. Backs the HR mapping panel.
func (s *Store) ListManagersByDepartment(ctx context.Context, department string) ([]models.User, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"role": authz.RoleManager, "department": normalize.Department(department), "status": status.Active},
		optionsSortByName())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListUnassignedEmployees returns active employees with no mapped manager,
// optionally scoped to a department.
func (s *Store) ListUnassignedEmployees(ctx context.Context, department string) ([]models.User, error) {
	filter := bson.M{
		"role":     authz.RoleEmployee,
		"status":   status.Active,
		"managers": bson.M{"$size": 0},
	}
	if department != "" {
		filter["department"] = normalize.Department(department)
	}

	cur, err := s.c.Find(ctx, filter, optionsSortByName())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}
