package workflow

import (
	"testing"

	"loandesk-cli/internal/model"
)

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want model.Status
	}{
		{"NEW", model.StatusNew},
		{"new", model.StatusNew},
		{"  Pending ", model.StatusPending},
		{"PENDING APPROVAL", model.StatusPendingApproval},
		{"PENDING_APPROVAL", model.StatusPendingApproval},
		{"approved", model.StatusApproved},
		{"REVERT", model.StatusReverted},
		{"Reverted", model.StatusReverted},
		{"", model.StatusNew},
		{"   ", model.StatusNew},
		{"bogus", model.StatusNew},
	}
	for _, tc := range cases {
		if got := NormalizeStatus(tc.in); got != tc.want {
			t.Fatalf("NormalizeStatus(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizeStage(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2nd Review", "2nd review"},
		{"  Approval ", "approval"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeStage(tc.in); got != tc.want {
			t.Fatalf("NormalizeStage(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestValidRevertTarget(t *testing.T) {
	for _, s := range []string{"New", "assessment", "COMPLIANCE", "Ist Review", "2nd review"} {
		if !ValidRevertTarget(s) {
			t.Fatalf("expected %q to be a valid revert target", s)
		}
	}
	for _, s := range []string{"Approval", "", "3rd Review"} {
		if ValidRevertTarget(s) {
			t.Fatalf("expected %q to be rejected as revert target", s)
		}
	}
}
