// Package workflow is the state machine for a training request's review
// chain. It validates a reviewer's decision against the request's current
// status and the reviewer's authorization and computes the next status.
// Persistence is the request store's concern: Evaluate never writes, and
// the store applies the outcome with a compare-and-swap on the status the
// caller read, so at most one decision can succeed per stage.
package workflow

import (
	"github.com/dalemusser/trainhub/internal/app/system/apperr"
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decisions a reviewer can submit.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Stage is one phase of the fixed review chain.
type Stage int

const (
	StageManager Stage = iota + 1
	StageHOD
	StageAdmin
)

// String returns the stage name used in logs and error messages.
func (s Stage) String() string {
	switch s {
	case StageManager:
		return "manager"
	case StageHOD:
		return "hod"
	case StageAdmin:
		return "admin"
	}
	return "unknown"
}

// StageForRole maps an account role to the stage it reviews at. The final
// stage is shared by hr and admin. ok is false for roles that never review
// (employee).
func StageForRole(role string) (Stage, bool) {
	switch role {
	case authz.RoleManager:
		return StageManager, true
	case authz.RoleHOD:
		return StageHOD, true
	case authz.RoleHR, authz.RoleAdmin:
		return StageAdmin, true
	}
	return 0, false
}

// PendingStatus returns the exact status a request must hold for this
// stage to act. It doubles as the compare-and-swap expectation.
func (s Stage) PendingStatus() string {
	switch s {
	case StageManager:
		return status.PendingManager
	case StageHOD:
		return status.PendingHOD
	case StageAdmin:
		return status.PendingAdmin
	}
	return ""
}

// next returns the status a decision moves the request to.
func (s Stage) next(decision string) string {
	switch s {
	case StageManager:
		if decision == DecisionApprove {
			return status.PendingHOD
		}
		return status.RejectedByManager
	case StageHOD:
		if decision == DecisionApprove {
			return status.PendingAdmin
		}
		return status.RejectedByHOD
	case StageAdmin:
		if decision == DecisionApprove {
			return status.ApprovedByAdmin
		}
		return status.RejectedByAdmin
	}
	return ""
}

// Outcome is a validated transition, ready for the store to apply.
type Outcome struct {
	Stage          Stage
	ExpectedStatus string // CAS expectation: the pending status that was read
	NextStatus     string
}

// Evaluate validates a caller's decision against the request's current state.
//
// Error contract:
//   - Validation: decision is not approve/reject
//   - Forbidden: caller was never a reviewer of this request (a role with
//     no review stage, or a manager outside the snapshotted manager set)
//   - Conflict: the request is not at the caller's stage (a lost race, a
//     repeated decision, or a request already resolved)
//
// Authorization is checked before the status, so a snapshotted manager who
// lost the race to a co-manager gets Conflict, not Forbidden: the request
// moved on, their standing to review it never changed.
//
// Department scoping for admins is a queue-visibility concern, not an
// authorization rule: an admin from any department may decide a request
// that reaches the admin stage.
func Evaluate(req *models.TrainingRequest, callerID primitive.ObjectID, callerRole, decision string) (Outcome, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return Outcome{}, apperr.Validation(`decision must be "approve" or "reject"`)
	}

	stage, ok := StageForRole(callerRole)
	if !ok {
		return Outcome{}, apperr.Forbidden("your role cannot review requests")
	}

	// Manager authorization is scoped to the snapshotted reviewer set.
	// A manager mapped to the requester after submission is not a
	// reviewer of this request.
	if stage == StageManager && !containsID(req.Managers, callerID) {
		return Outcome{}, apperr.Forbidden("you are not an assigned reviewer of this request")
	}

	if req.Status != stage.PendingStatus() {
		return Outcome{}, apperr.Conflict("request is not awaiting " + stage.String() + " review")
	}

	return Outcome{
		Stage:          stage,
		ExpectedStatus: stage.PendingStatus(),
		NextStatus:     stage.next(decision),
	}, nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
