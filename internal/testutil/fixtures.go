package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/trainhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

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

// CreateUser inserts a user with the given role and department directly
// into the users collection and returns it.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role, department string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: strings.ToLower(strings.TrimSpace(fullName)),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Role:       role,
		Department: strings.ToLower(strings.TrimSpace(department)),
		Managers:   []primitive.ObjectID{},
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "admin", "")
}

// CreateHR creates a test hr user.
func (f *Fixtures) CreateHR(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "hr", "")
}

// CreateManager creates a test manager in the given department.
func (f *Fixtures) CreateManager(ctx context.Context, fullName, email, department string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "manager", department)
}

// CreateHOD creates a test head-of-department in the given department.
func (f *Fixtures) CreateHOD(ctx context.Context, fullName, email, department string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, fullName, email, "hod", department)
}

// CreateEmployee creates a test employee with the given manager and hod
// references already set, the state Map/SetHOD would normally produce.
func (f *Fixtures) CreateEmployee(ctx context.Context, fullName, email, department string, managers []primitive.ObjectID, hod *primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	if managers == nil {
		managers = []primitive.ObjectID{}
	}
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: strings.ToLower(strings.TrimSpace(fullName)),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Role:       "employee",
		Department: strings.ToLower(strings.TrimSpace(department)),
		Managers:   managers,
		HOD:        hod,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}

	return user
}

// CreateDisabledUser creates a test user with disabled status.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, fullName, email, role, department string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: strings.ToLower(strings.TrimSpace(fullName)),
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Role:       role,
		Department: strings.ToLower(strings.TrimSpace(department)),
		Managers:   []primitive.ObjectID{},
		Status:     "disabled",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create disabled test user: %v", err)
	}

	return user
}

// CreateAssignment inserts a manager assignment audit record.
func (f *Fixtures) CreateAssignment(ctx context.Context, employeeID, managerID primitive.ObjectID, department string) models.ManagerAssignment {
	f.t.Helper()

	a := models.ManagerAssignment{
		ID:         primitive.NewObjectID(),
		EmployeeID: employeeID,
		ManagerID:  managerID,
		Department: strings.ToLower(strings.TrimSpace(department)),
		CreatedAt:  time.Now().UTC(),
	}

	_, err := f.db.Collection("manager_assignments").InsertOne(ctx, a)
	if err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}

	return a
}

// CreateTrainingRequest inserts a training request with the given routing
// snapshot and status. Answers are filled with placeholder text.
func (f *Fixtures) CreateTrainingRequest(ctx context.Context, requester models.User, requestNumber, status string) models.TrainingRequest {
	f.t.Helper()

	req := models.TrainingRequest{
		ID:                  primitive.NewObjectID(),
		RequestNumber:       requestNumber,
		RequesterID:         requester.ID,
		RequesterName:       requester.FullName,
		RequesterDepartment: requester.Department,
		Managers:            append([]primitive.ObjectID{}, requester.Managers...),
		HOD:                 requester.HOD,
		Status:              status,
		Answers: models.TrainingAnswers{
			GeneralSkills:   "communication",
			TechnicalSkills: "go, mongodb",
			CareerGoals:     "team lead",
		},
		CreatedAt: time.Now().UTC(),
	}

	_, err := f.db.Collection("training_requests").InsertOne(ctx, req)
	if err != nil {
		f.t.Fatalf("failed to create test training request: %v", err)
	}

	return req
}
