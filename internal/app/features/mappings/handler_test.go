package mappings_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/trainhub/internal/app/features/mappings"
	assignmentstore "github.com/dalemusser/trainhub/internal/app/store/assignments"
	userstore "github.com/dalemusser/trainhub/internal/app/store/users"
	"github.com/dalemusser/trainhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *mappings.Handler {
	t.Helper()
	return mappings.NewHandler(userstore.New(db), assignmentstore.New(db), zap.NewNop())
}

func mappingBody(t *testing.T, employeeID, managerID primitive.ObjectID) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(map[string]string{
		"employee_id": employeeID.Hex(),
		"manager_id":  managerID.Hex(),
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

func TestServeMapAndUnmap(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateManager(ctx, "Mgr", "mgr@example.com", "ops")
	emp := fixtures.CreateEmployee(ctx, "Worker", "w@example.com", "ops", nil, nil)

	req := httptest.NewRequest("POST", "/mappings", mappingBody(t, emp.ID, mgr.ID))
	req = testutil.WithUser(req, testutil.HRUser())
	rec := testutil.NewRecorder()
	h.ServeMap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	// second mapping attempt is rejected
	req = httptest.NewRequest("POST", "/mappings", mappingBody(t, emp.ID, mgr.ID))
	req = testutil.WithUser(req, testutil.HRUser())
	rec = testutil.NewRecorder()
	h.ServeMap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)

	// unmap frees the employee again
	req = httptest.NewRequest("DELETE", "/mappings", mappingBody(t, emp.ID, mgr.ID))
	req = testutil.WithUser(req, testutil.HRUser())
	rec = testutil.NewRecorder()
	h.ServeUnmap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	// unmapping a pair that is not mapped conflicts
	req = httptest.NewRequest("DELETE", "/mappings", mappingBody(t, emp.ID, mgr.ID))
	req = testutil.WithUser(req, testutil.HRUser())
	rec = testutil.NewRecorder()
	h.ServeUnmap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeMap_BadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	emp := fixtures.CreateEmployee(ctx, "Worker", "w@example.com", "ops", nil, nil)
	otherDeptMgr := fixtures.CreateManager(ctx, "Far", "far@example.com", "finance")

	// malformed ids
	body := bytes.NewReader([]byte(`{"employee_id":"nope","manager_id":"nope"}`))
	req := httptest.NewRequest("POST", "/mappings", body)
	req = testutil.WithUser(req, testutil.HRUser())
	rec := testutil.NewRecorder()
	h.ServeMap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)

	// cross-department mapping
	req = httptest.NewRequest("POST", "/mappings", mappingBody(t, emp.ID, otherDeptMgr.ID))
	req = testutil.WithUser(req, testutil.HRUser())
	rec = testutil.NewRecorder()
	h.ServeMap(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestServeListByManager(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "HR", "hr@example.com")
	mgr := fixtures.CreateManager(ctx, "Mgr", "mgr@example.com", "ops")
	emp := fixtures.CreateEmployee(ctx, "Worker", "w@example.com", "ops", nil, nil)

	store := assignmentstore.New(db)
	if _, err := store.Map(ctx, emp.ID, mgr.ID, hr.ID); err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/mappings/manager/"+mgr.ID.Hex(), testutil.HRUser())
	req = testutil.WithChiURLParam(req, "id", mgr.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeListByManager(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, emp.Email)

	// unknown manager
	req = testutil.NewAuthenticatedRequest("GET", "/mappings/manager/x", testutil.HRUser())
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	rec = testutil.NewRecorder()
	h.ServeListByManager(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeListByEmployee(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hr := fixtures.CreateHR(ctx, "HR", "hr@example.com")
	mgr := fixtures.CreateManager(ctx, "Mgr", "mgr@example.com", "ops")
	emp := fixtures.CreateEmployee(ctx, "Worker", "w@example.com", "ops", nil, nil)

	if _, err := assignmentstore.New(db).Map(ctx, emp.ID, mgr.ID, hr.ID); err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("GET", "/mappings/employee/"+emp.ID.Hex(), testutil.HRUser())
	req = testutil.WithChiURLParam(req, "id", emp.ID.Hex())
	rec := testutil.NewRecorder()
	h.ServeListByEmployee(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, mgr.Email)

	// unknown employee
	req = testutil.NewAuthenticatedRequest("GET", "/mappings/employee/x", testutil.HRUser())
	req = testutil.WithChiURLParam(req, "id", primitive.NewObjectID().Hex())
	rec = testutil.NewRecorder()
	h.ServeListByEmployee(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeManagers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateManager(ctx, "Ops Mgr", "opsmgr@example.com", "ops")
	fixtures.CreateManager(ctx, "Fin Mgr", "finmgr@example.com", "finance")

	req := testutil.NewAuthenticatedRequest("GET", "/mappings/managers?department=ops", testutil.HRUser())
	rec := testutil.NewRecorder()
	h.ServeManagers(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "opsmgr@example.com")

	if bytes.Contains(rec.Body.Bytes(), []byte("finmgr@example.com")) {
		t.Error("manager from another department should not be listed")
	}

	// department is mandatory
	req = testutil.NewAuthenticatedRequest("GET", "/mappings/managers", testutil.HRUser())
	rec = testutil.NewRecorder()
	h.ServeManagers(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
}

func TestServeSetHOD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hod := fixtures.CreateHOD(ctx, "Head", "head@example.com", "ops")
	mgr := fixtures.CreateManager(ctx, "Mgr", "mgr@example.com", "ops")
	emp := fixtures.CreateEmployee(ctx, "Worker", "w@example.com", "ops", nil, nil)

	setHOD := func(employeeID, hodID string) *testutil.ResponseRecorder {
		body, err := json.Marshal(map[string]string{"employee_id": employeeID, "hod_id": hodID})
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req := httptest.NewRequest("PUT", "/mappings/hod", bytes.NewReader(body))
		req = testutil.WithUser(req, testutil.HRUser())
		rec := testutil.NewRecorder()
		h.ServeSetHOD(rec.ResponseRecorder, req)
		return rec
	}

	setHOD(emp.ID.Hex(), hod.ID.Hex()).AssertStatus(t, http.StatusOK)
	got, err := userstore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.HOD == nil || *got.HOD != hod.ID {
		t.Fatalf("HOD = %v, want %s", got.HOD, hod.ID.Hex())
	}

	// empty hod_id clears the link
	setHOD(emp.ID.Hex(), "").AssertStatus(t, http.StatusOK)
	got, err = userstore.New(db).GetByID(ctx, emp.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.HOD != nil {
		t.Fatalf("HOD = %s, want cleared", got.HOD.Hex())
	}

	// only a hod user can be the target
	setHOD(emp.ID.Hex(), mgr.ID.Hex()).AssertStatus(t, http.StatusUnprocessableEntity)

	// unknown target
	setHOD(emp.ID.Hex(), primitive.NewObjectID().Hex()).AssertStatus(t, http.StatusNotFound)
}

func TestServeUnassigned(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	mgr := fixtures.CreateManager(ctx, "Mgr", "mgr@example.com", "ops")
	fixtures.CreateEmployee(ctx, "Free", "free@example.com", "ops", nil, nil)
	fixtures.CreateEmployee(ctx, "Mapped", "mapped@example.com", "ops", []primitive.ObjectID{mgr.ID}, nil)

	req := testutil.NewAuthenticatedRequest("GET", "/mappings/unassigned?department=ops", testutil.HRUser())
	rec := testutil.NewRecorder()
	h.ServeUnassigned(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "free@example.com")

	if bytes.Contains(rec.Body.Bytes(), []byte("mapped@example.com")) {
		t.Error("mapped employee should not appear in the unassigned listing")
	}
}
