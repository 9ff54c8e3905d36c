// Package routing computes, at submission time, where a training request
// enters the review chain and which reviewers are snapshotted onto it.
// It is a pure function of the requester's account record; it never mutates
// the assignment graph and never touches the store.
package routing

import (
	"github.com/dalemusser/trainhub/internal/app/system/authz"
	"github.com/dalemusser/trainhub/internal/app/system/status"
	"github.com/dalemusser/trainhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resolution is the routing outcome for one submission. Managers and HOD
// are snapshots: once copied onto the request they are never re-derived,
// so later map/unmap calls cannot change who reviews an in-flight request.
type Resolution struct {
	InitialStatus string
	Managers      []primitive.ObjectID
	HOD           *primitive.ObjectID
}

// Resolve computes the entry point of the review chain for a requester.
//
//   - managers skip their own stage and start at Pending_HOD
//   - heads of department skip manager and hod stages and start at
//     Pending_Admin
//   - employees and HR start at Pending_Manager with their current
//     manager set; an empty set is allowed and produces a request no
//     manager can act on until HR remaps and the requester resubmits
func Resolve(requester *models.User) Resolution {
	switch requester.Role {
	case authz.RoleManager:
		return Resolution{
			InitialStatus: status.PendingHOD,
			Managers:      []primitive.ObjectID{},
			HOD:           requester.HOD,
		}
	case authz.RoleHOD:
		return Resolution{
			InitialStatus: status.PendingAdmin,
			Managers:      []primitive.ObjectID{},
		}
	default: // employee, hr
		managers := make([]primitive.ObjectID, len(requester.Managers))
		copy(managers, requester.Managers)
		return Resolution{
			InitialStatus: status.PendingManager,
			Managers:      managers,
			HOD:           requester.HOD,
		}
	}
}
