package routing_test

import (
	"testing"

	"github.com/dalemusser/trainhub/internal/app/system/routing"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestResolve_Employee(t *testing.T) {
	m1 := primitive.NewObjectID()
	m2 := primitive.NewObjectID()
	hod := primitive.NewObjectID()

	res := routing.Resolve(&models.User{
		Role:     "employee",
		Managers: []primitive.ObjectID{m1, m2},
		HOD:      &hod,
	})

	if res.InitialStatus != status.PendingManager {
		t.Errorf("InitialStatus: got %q, want %q", res.InitialStatus, status.PendingManager)
	}
	if len(res.Managers) != 2 || res.Managers[0] != m1 || res.Managers[1] != m2 {
		t.Errorf("Managers snapshot mismatch: %v", res.Managers)
	}
	if res.HOD == nil || *res.HOD != hod {
		t.Error("HOD snapshot mismatch")
	}
}

func TestResolve_EmployeeWithoutManagers(t *testing.T) {
	res := routing.Resolve(&models.User{Role: "employee"})

	// Reachable stuck state: the request is created but no manager can act.
	if res.InitialStatus != status.PendingManager {
		t.Errorf("InitialStatus: got %q, want %q", res.InitialStatus, status.PendingManager)
	}
	if len(res.Managers) != 0 {
		t.Errorf("expected empty managers snapshot, got %v", res.Managers)
	}
}

func TestResolve_HRSubmitsLikeEmployee(t *testing.T) {
	m := primitive.NewObjectID()
	res := routing.Resolve(&models.User{
		Role:     "hr",
		Managers: []primitive.ObjectID{m},
	})
	if res.InitialStatus != status.PendingManager {
		t.Errorf("InitialStatus: got %q, want %q", res.InitialStatus, status.PendingManager)
	}
	if len(res.Managers) != 1 || res.Managers[0] != m {
		t.Errorf("Managers snapshot mismatch: %v", res.Managers)
	}
}

func TestResolve_ManagerSkipsManagerStage(t *testing.T) {
	hod := primitive.NewObjectID()
	res := routing.Resolve(&models.User{
		Role:     "manager",
		Managers: []primitive.ObjectID{primitive.NewObjectID()}, // ignored
		HOD:      &hod,
	})
	if res.InitialStatus != status.PendingHOD {
		t.Errorf("InitialStatus: got %q, want %q", res.InitialStatus, status.PendingHOD)
	}
	if len(res.Managers) != 0 {
		t.Errorf("manager submissions must carry an empty managers snapshot, got %v", res.Managers)
	}
	if res.HOD == nil || *res.HOD != hod {
		t.Error("manager submissions keep their hod snapshot")
	}
}

func TestResolve_HODSkipsToAdmin(t *testing.T) {
	res := routing.Resolve(&models.User{Role: "hod"})
	if res.InitialStatus != status.PendingAdmin {
		t.Errorf("InitialStatus: got %q, want %q", res.InitialStatus, status.PendingAdmin)
	}
	if len(res.Managers) != 0 || res.HOD != nil {
		t.Error("hod submissions carry no reviewer snapshots")
	}
}

func TestResolve_SnapshotIsACopy(t *testing.T) {
	m := primitive.NewObjectID()
	u := &models.User{Role: "employee", Managers: []primitive.ObjectID{m}}
	res := routing.Resolve(u)

	// Mutating the live graph entry must not change the snapshot.
	u.Managers[0] = primitive.NewObjectID()
	if res.Managers[0] != m {
		t.Error("snapshot must not alias the user's managers slice")
	}
}
