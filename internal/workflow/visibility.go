package workflow

import (
	"strings"

	"loandesk-cli/internal/model"
)

// Region is one comment-editor area of the review modal. Roles and Stages
// are lowercase match sets: an empty set means "always applicable", and
// "all"/"*" are wildcards.
type Region struct {
	ID     string
	Label  string
	Field  string // wire name of the comment field this region edits
	Roles  []string
	Stages []string
}

// DefaultRegions is the fixed region set of the review modal, one editor per
// reviewing role. Stage sets are open: stages gate via server-supplied
// overrides, not statically.
func DefaultRegions() []Region {
	return []Region{
		{ID: "creditOfficerComment", Label: "Credit Officer Recommendation", Field: "creditOfficerComment", Roles: []string{"credit officer"}},
		{ID: "amlroComments", Label: "AMLRO Comments", Field: "amlroComments", Roles: []string{"amlro"}},
		{ID: "headOfCredit", Label: "Head of Credit Recommendation", Field: "headOfCredit", Roles: []string{"head of credit"}},
		{ID: "branchManager", Label: "Branch Manager Recommendation", Field: "branchManager", Roles: []string{"branch manager/approver"}},
		{ID: "approver1Comments", Label: "Approver Comments", Field: "approver1Comments", Roles: []string{"approver"}},
	}
}

// Plan is the computed visibility for one (application, actor) pair: which
// comment regions to show, which action buttons to offer, and whether the
// signature block is rendered.
type Plan struct {
	Regions map[string]bool

	ShowSubmit  bool
	ShowApprove bool
	ShowRevert  bool

	ShowSignatures  bool
	ShowCommentArea bool
}

// Buttons returns the offered actions in display order.
func (p Plan) Buttons() []Action {
	var out []Action
	if p.ShowSubmit {
		out = append(out, ActionSubmit)
	}
	if p.ShowApprove {
		out = append(out, ActionApprove)
	}
	if p.ShowRevert {
		out = append(out, ActionRevert)
	}
	return out
}

// Action is what a button click sends downstream.
type Action string

const (
	ActionSubmit  Action = "SUBMIT"
	ActionApprove Action = "APPROVE"
	ActionRevert  Action = "REVERT"
)

// policyRow is one line of the status-driven button table. needles are
// lowercase substrings matched against the actor's role label (compound
// labels like "Branch Manager/Approver" must keep matching, so this is
// contains, not equality). regionRole is the canonical role whose comment
// regions the row grants.
type policyRow struct {
	status     model.Status
	needles    []string
	regionRole string

	submit  bool
	approve bool
	revert  bool
}

var buttonPolicy = []policyRow{
	{status: model.StatusNew, needles: []string{"credit officer", "credit sales officer", "credit analyst"}, regionRole: "Credit Officer", submit: true},
	{status: model.StatusPending, needles: []string{"amlro"}, regionRole: "AMLRO", submit: true},
	{status: model.StatusPending, needles: []string{"head of credit"}, regionRole: "Head of Credit", submit: true},
	{status: model.StatusPending, needles: []string{"branch manager"}, regionRole: "Branch Manager/Approver", submit: true, approve: true, revert: true},
	{status: model.StatusPendingApproval, needles: []string{"approver"}, regionRole: "Approver", approve: true, revert: true},
	// APPROVED and REVERTED offer no buttons.
}

// RegionVisible evaluates one region against an actor role and application
// stage, both already lowercased. Empty sets and "all"/"*" wildcards match.
func RegionVisible(r Region, roleLower, stageLower string) bool {
	return setMatches(r.Roles, roleLower) && setMatches(r.Stages, stageLower)
}

func setMatches(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v || s == "all" || s == "*" {
			return true
		}
	}
	return false
}

// ComputePlan derives the full visibility plan for an application and actor.
// Every region is evaluated on every call; nothing is retained between
// calls.
func ComputePlan(d model.ApplicationDetail, actor model.ActorContext, regions []Region) Plan {
	status := NormalizeStatus(d.Status)
	stageLower := NormalizeStage(d.Stage)
	roleLower := strings.ToLower(strings.TrimSpace(actor.Role))
	admin := actor.IsAdmin()

	p := Plan{Regions: map[string]bool{}}
	for _, r := range regions {
		p.Regions[r.ID] = false
	}

	// Server-supplied overrides take precedence over the static inference:
	// a status outside the allowed set grants nothing.
	if !admin && !allowedStatus(actor.AllowedStatuses, status) {
		p.ShowSignatures = signaturesVisible(status, d.Stage)
		return p
	}

	var grantedRoles []string
	for _, row := range buttonPolicy {
		if row.status != status {
			continue
		}
		if !admin && !roleMatchesAny(roleLower, row.needles) {
			continue
		}
		p.ShowSubmit = p.ShowSubmit || row.submit
		p.ShowApprove = p.ShowApprove || row.approve
		p.ShowRevert = p.ShowRevert || row.revert
		grantedRoles = append(grantedRoles, strings.ToLower(row.regionRole))
	}

	if !admin && !allowedStage(actor.AllowedStages, d.Stage) {
		grantedRoles = nil
	}

	for _, r := range regions {
		for _, gr := range grantedRoles {
			if RegionVisible(r, gr, stageLower) {
				p.Regions[r.ID] = true
				break
			}
		}
	}

	for _, shown := range p.Regions {
		if shown {
			p.ShowCommentArea = true
			break
		}
	}

	p.ShowSignatures = signaturesVisible(status, d.Stage)
	return p
}

func signaturesVisible(status model.Status, stage string) bool {
	return status == model.StatusApproved || strings.EqualFold(strings.TrimSpace(stage), string(model.StageApproval))
}

func roleMatchesAny(roleLower string, needles []string) bool {
	if roleLower == "" {
		return false
	}
	for _, n := range needles {
		if strings.Contains(roleLower, n) {
			return true
		}
	}
	return false
}

func allowedStatus(allowed []string, status model.Status) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if NormalizeStatus(a) == status {
			return true
		}
	}
	return false
}

func allowedStage(allowed []string, stage string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if NormalizeStage(a) == NormalizeStage(stage) {
			return true
		}
	}
	return false
}
