package workflow

import (
	"sort"
	"testing"

	"loandesk-cli/internal/model"
)

func actor(role string) model.ActorContext {
	return model.ActorContext{Name: "t", Role: role, Level: model.LevelForRole(role)}
}

func detail(status, stage string) model.ApplicationDetail {
	return model.ApplicationDetail{AppNumber: "LN-001", Status: status, Stage: stage}
}

func buttonSet(p Plan) string {
	var out []string
	for _, b := range p.Buttons() {
		out = append(out, string(b))
	}
	sort.Strings(out)
	s := ""
	for i, b := range out {
		if i > 0 {
			s += ","
		}
		s += b
	}
	return s
}

func TestComputePlan_ButtonPolicy(t *testing.T) {
	cases := []struct {
		status string
		stage  string
		role   string
		want   string
	}{
		{"NEW", "New", "Credit Officer", "SUBMIT"},
		{"", "New", "Credit Officer", "SUBMIT"},
		{"NEW", "New", "Approver", ""},
		{"PENDING", "Compliance", "AMLRO", "SUBMIT"},
		{"PENDING", "Ist Review", "Head of Credit", "SUBMIT"},
		{"PENDING", "2nd Review", "Branch Manager/Approver", "APPROVE,REVERT,SUBMIT"},
		{"PENDING", "2nd Review", "Credit Officer", ""},
		{"PENDING_APPROVAL", "Approval", "Approver", "APPROVE,REVERT"},
		{"PENDING APPROVAL", "Approval", "Approver", "APPROVE,REVERT"},
		{"APPROVED", "Approval", "Approver", ""},
		{"APPROVED", "Approval", "Branch Manager/Approver", ""},
		{"APPROVED", "Approval", "Admin", ""},
		{"REVERTED", "Assessment", "Credit Officer", ""},
	}
	for _, tc := range cases {
		p := ComputePlan(detail(tc.status, tc.stage), actor(tc.role), DefaultRegions())
		if got := buttonSet(p); got != tc.want {
			t.Fatalf("status=%q stage=%q role=%q: expected buttons %q, got %q", tc.status, tc.stage, tc.role, tc.want, got)
		}
	}
}

func TestComputePlan_AdminMatchesEveryRow(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"NEW", "SUBMIT"},
		{"PENDING", "APPROVE,REVERT,SUBMIT"},
		{"PENDING_APPROVAL", "APPROVE,REVERT"},
		{"APPROVED", ""},
	}
	for _, tc := range cases {
		p := ComputePlan(detail(tc.status, "2nd Review"), actor("Admin"), DefaultRegions())
		if got := buttonSet(p); got != tc.want {
			t.Fatalf("admin status=%q: expected %q, got %q", tc.status, tc.want, got)
		}
	}
}

func TestComputePlan_CompoundRoleSubstringMatch(t *testing.T) {
	// Compound labels keep matching via contains: a "Branch Manager/Approver"
	// also satisfies the Approver row at PENDING_APPROVAL.
	p := ComputePlan(detail("PENDING_APPROVAL", "Approval"), actor("Branch Manager/Approver"), DefaultRegions())
	if got := buttonSet(p); got != "APPROVE,REVERT" {
		t.Fatalf("compound role at PENDING_APPROVAL: expected APPROVE,REVERT, got %q", got)
	}

	p = ComputePlan(detail("PENDING", "2nd Review"), model.ActorContext{Name: "t", Role: "Senior Branch Manager"}, DefaultRegions())
	if !p.ShowSubmit || !p.ShowApprove || !p.ShowRevert {
		t.Fatalf("expected substring role match for compound label, got %+v", p)
	}
}

func TestComputePlan_Regions(t *testing.T) {
	p := ComputePlan(detail("PENDING", "2nd Review"), actor("Head of Credit"), DefaultRegions())
	if !p.Regions["headOfCredit"] {
		t.Fatalf("expected headOfCredit region visible")
	}
	if p.Regions["creditOfficerComment"] || p.Regions["approver1Comments"] {
		t.Fatalf("expected unrelated regions hidden: %+v", p.Regions)
	}
	if !p.ShowCommentArea {
		t.Fatalf("expected generic comment area when a region is visible")
	}

	// Admin sees every region applicable at the status.
	p = ComputePlan(detail("PENDING", "2nd Review"), actor("Admin"), DefaultRegions())
	for _, id := range []string{"amlroComments", "headOfCredit", "branchManager"} {
		if !p.Regions[id] {
			t.Fatalf("expected admin to see region %s", id)
		}
	}

	// No buttons, no regions, no comment area.
	p = ComputePlan(detail("APPROVED", "Approval"), actor("Credit Officer"), DefaultRegions())
	for id, shown := range p.Regions {
		if shown {
			t.Fatalf("expected no region at APPROVED, got %s", id)
		}
	}
	if p.ShowCommentArea {
		t.Fatalf("expected no comment area at APPROVED")
	}
}

func TestRegionVisible_Wildcards(t *testing.T) {
	cases := []struct {
		region Region
		role   string
		stage  string
		want   bool
	}{
		{Region{}, "anything", "anywhere", true},
		{Region{Roles: []string{"all"}}, "credit officer", "", true},
		{Region{Roles: []string{"*"}, Stages: []string{"*"}}, "x", "y", true},
		{Region{Roles: []string{"amlro"}}, "amlro", "", true},
		{Region{Roles: []string{"amlro"}}, "approver", "", false},
		{Region{Stages: []string{"2nd review"}}, "amlro", "2nd review", true},
		{Region{Stages: []string{"2nd review"}}, "amlro", "approval", false},
		{Region{Roles: []string{"amlro"}, Stages: []string{"compliance"}}, "amlro", "approval", false},
	}
	for i, tc := range cases {
		if got := RegionVisible(tc.region, tc.role, tc.stage); got != tc.want {
			t.Fatalf("case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

func TestComputePlan_Signatures(t *testing.T) {
	if p := ComputePlan(detail("APPROVED", ""), actor("Credit Officer"), nil); !p.ShowSignatures {
		t.Fatalf("expected signatures at APPROVED")
	}
	if p := ComputePlan(detail("PENDING_APPROVAL", "approval"), actor("Approver"), nil); !p.ShowSignatures {
		t.Fatalf("expected signatures at stage Approval regardless of case")
	}
	if p := ComputePlan(detail("PENDING", "2nd Review"), actor("Approver"), nil); p.ShowSignatures {
		t.Fatalf("expected no signatures before approval")
	}
}

func TestComputePlan_ServerOverrides(t *testing.T) {
	a := actor("Branch Manager/Approver")
	a.AllowedStatuses = []string{"PENDING_APPROVAL"}
	p := ComputePlan(detail("PENDING", "2nd Review"), a, DefaultRegions())
	if got := buttonSet(p); got != "" {
		t.Fatalf("status outside allowed set should grant nothing, got %q", got)
	}

	a = actor("Branch Manager/Approver")
	a.AllowedStages = []string{"Ist Review"}
	p = ComputePlan(detail("PENDING", "2nd Review"), a, DefaultRegions())
	if p.Regions["branchManager"] {
		t.Fatalf("stage outside allowed set should hide regions")
	}
	// Buttons still follow the status table; stages gate editors only.
	if !p.ShowSubmit {
		t.Fatalf("expected buttons unaffected by stage override")
	}

	// Admin flag from the server ignores both overrides.
	a = model.ActorContext{Name: "t", Role: "Auditor", Level: model.AdminLevel, AllowedStatuses: []string{"APPROVED"}}
	p = ComputePlan(detail("PENDING", "2nd Review"), a, DefaultRegions())
	if !p.ShowSubmit || !p.ShowApprove || !p.ShowRevert {
		t.Fatalf("level-5 actor should keep full access, got %+v", p)
	}
}
