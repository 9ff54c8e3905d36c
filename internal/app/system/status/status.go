// Package status defines the account and training-request status
// enumerations shared by stores, the workflow core, and handlers.
package status

// Account statuses.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a known account status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}

// Training-request statuses. The underscore spelling is the wire format
// the frontend already depends on.
const (
	PendingManager = "Pending_Manager"
	PendingHOD     = "Pending_HOD"
	PendingAdmin   = "Pending_Admin"

	RejectedByManager = "Rejected_By_Manager"
	RejectedByHOD     = "Rejected_By_HOD"
	ApprovedByAdmin   = "Approved_By_Admin"
	RejectedByAdmin   = "Rejected_By_Admin"
)

// IsRequestStatus reports whether s is a known training-request status.
func IsRequestStatus(s string) bool {
	switch s {
	case PendingManager, PendingHOD, PendingAdmin,
		RejectedByManager, RejectedByHOD, ApprovedByAdmin, RejectedByAdmin:
		return true
	}
	return false
}

// IsPending reports whether s is a status some reviewer can still act on.
func IsPending(s string) bool {
	switch s {
	case PendingManager, PendingHOD, PendingAdmin:
		return true
	}
	return false
}

// IsTerminal reports whether s ends the review chain. Rejection at any
// stage is terminal; only admin approval completes the chain.
func IsTerminal(s string) bool {
	return IsRequestStatus(s) && !IsPending(s)
}
