package status_test

import (
	"testing"

	"github.com/dalemusser/trainhub/internal/app/system/status"
)

func TestIsRequestStatus(t *testing.T) {
	known := []string{
		status.PendingManager,
		status.PendingHOD,
		status.PendingAdmin,
		status.RejectedByManager,
		status.RejectedByHOD,
		status.ApprovedByAdmin,
		status.RejectedByAdmin,
	}
	for _, s := range known {
		if !status.IsRequestStatus(s) {
			t.Errorf("IsRequestStatus(%q) = false, want true", s)
		}
	}

	for _, s := range []string{"", "pending_manager", "Approved_By_HOD", "Done"} {
		if status.IsRequestStatus(s) {
			t.Errorf("IsRequestStatus(%q) = true, want false", s)
		}
	}
}

func TestPendingAndTerminalArePartition(t *testing.T) {
	all := []string{
		status.PendingManager,
		status.PendingHOD,
		status.PendingAdmin,
		status.RejectedByManager,
		status.RejectedByHOD,
		status.ApprovedByAdmin,
		status.RejectedByAdmin,
	}
	for _, s := range all {
		if status.IsPending(s) == status.IsTerminal(s) {
			t.Errorf("status %q must be exactly one of pending/terminal", s)
		}
	}

	// Unknown strings are neither.
	if status.IsPending("nope") || status.IsTerminal("nope") {
		t.Error("unknown status must be neither pending nor terminal")
	}
}

func TestIsValidAccountStatus(t *testing.T) {
	if !status.IsValid(status.Active) || !status.IsValid(status.Disabled) {
		t.Error("expected active/disabled to be valid")
	}
	if status.IsValid("archived") {
		t.Error("archived is not a valid account status")
	}
}
