package model

import (
	"strings"
	"time"
)

// Status is the coarse workflow bucket used for table grouping and the
// primary action-button policy.
type Status string

const (
	StatusNew             Status = "NEW"
	StatusPending         Status = "PENDING"
	StatusPendingApproval Status = "PENDING_APPROVAL"
	StatusApproved        Status = "APPROVED"

	// StatusReverted is transitional: the server rewinds the record to an
	// earlier stage and the status settles on the next load.
	StatusReverted Status = "REVERTED"
)

// Stage is a named step within the workflow, correlated with but independent
// of Status. Stage values are free text on the wire; these constants cover
// the fixed set the workflow uses.
type Stage string

const (
	StageNew          Stage = "New"
	StageAssessment   Stage = "Assessment"
	StageCompliance   Stage = "Compliance"
	StageFirstReview  Stage = "Ist Review"
	StageSecondReview Stage = "2nd Review"
	StageApproval     Stage = "Approval"
)

// RevertTargets lists the stages an application may be rewound to.
// Approval itself is not a valid rewind target.
func RevertTargets() []Stage {
	return []Stage{StageNew, StageAssessment, StageCompliance, StageFirstReview, StageSecondReview}
}

type Role string

const (
	RoleAdmin         Role = "Admin"
	RoleHeadOfCredit  Role = "Head of Credit"
	RoleCreditOfficer Role = "Credit Officer"
	RoleAMLRO         Role = "AMLRO"
	RoleBranchManager Role = "Branch Manager/Approver"
	RoleApprover      Role = "Approver"
)

// AdminLevel is unrestricted access.
const AdminLevel = 5

// RoleLevels is the static role → level table. The server is authoritative
// for levels; this table is the client-side convenience default and the
// fallback when the permissions endpoint is unavailable.
var RoleLevels = map[Role]int{
	RoleAdmin:         AdminLevel,
	RoleHeadOfCredit:  2,
	RoleCreditOfficer: 1,
	RoleAMLRO:         2,
	RoleBranchManager: 3,
	RoleApprover:      4,
}

// LevelForRole returns the static level for a role label, 0 when unknown.
// Matching is exact on the trimmed label; compound labels that do not appear
// in the table verbatim resolve to 0 and rely on server-supplied levels.
func LevelForRole(role string) int {
	return RoleLevels[Role(strings.TrimSpace(role))]
}

// Roles returns the fixed role set in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHeadOfCredit, RoleCreditOfficer, RoleAMLRO, RoleBranchManager, RoleApprover}
}

// ApplicationSummary is one row of a status-section table. AppNumber is the
// stable row identity; an entry without one is always treated as new.
type ApplicationSummary struct {
	AppNumber     string     `json:"appNumber"`
	ApplicantName string     `json:"applicantName"`
	Amount        *float64   `json:"amount,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	ActionBy      string     `json:"actionBy"`
}

// CommentSet carries the per-stage comment fields of an application.
type CommentSet struct {
	CreditOfficer string `json:"creditOfficerComment"`
	AMLRO         string `json:"amlroComments"`
	HeadOfCredit  string `json:"headOfCredit"`
	BranchManager string `json:"branchManager"`
	Approver1     string `json:"approver1Comments"`
	Approver2     string `json:"approver2Comments"`
}

// Signatures holds the signatory names shown once an application reaches
// approval.
type Signatures struct {
	CreditOfficer string `json:"creditOfficerName,omitempty"`
	HeadOfCredit  string `json:"headOfCreditName,omitempty"`
	BranchManager string `json:"branchManagerName,omitempty"`
}

// ApplicationDetail is the full record behind the review modal. Status and
// Stage arrive as raw wire strings; normalize through workflow before
// comparing.
type ApplicationDetail struct {
	AppNumber        string     `json:"appNumber"`
	ApplicantName    string     `json:"applicantName"`
	Status           string     `json:"status"`
	Stage            string     `json:"stage"`
	CompletionStatus string     `json:"completionStatus"`
	Amount           *float64   `json:"amount,omitempty"`
	Purpose          string     `json:"purpose,omitempty"`
	DurationMonths   int        `json:"duration,omitempty"`
	InterestRate     float64    `json:"interestRate,omitempty"`
	Date             *time.Time `json:"date,omitempty"`

	Comments   CommentSet        `json:"comments"`
	Signatures Signatures        `json:"signatures"`
	Documents  map[string]string `json:"documents,omitempty"`
}

// IsDraft reports whether the record is a NEW application still in draft,
// i.e. it belongs in the edit form rather than the review modal.
func (d ApplicationDetail) IsDraft() bool {
	return strings.EqualFold(strings.TrimSpace(d.Status), string(StatusNew)) &&
		strings.EqualFold(strings.TrimSpace(d.CompletionStatus), "DRAFT")
}

// User is a workflow participant as managed in the user-management view.
type User struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Level int    `json:"level"`
}

// Permissions is the optional server-issued permission set. When present it
// takes precedence over the static role table.
type Permissions struct {
	Role            string   `json:"role"`
	Level           int      `json:"level"`
	AllowedStages   []string `json:"allowedStages,omitempty"`
	AllowedStatuses []string `json:"allowedStatuses,omitempty"`
	IsAdmin         bool     `json:"isAdmin,omitempty"`
}

// ContextSource records where an ActorContext was resolved from.
type ContextSource string

const (
	ContextServer ContextSource = "server"
	ContextCached ContextSource = "cached"
)

// ActorContext is the effective actor for one open modal: role and level,
// plus any server-supplied stage/status overrides. Resolved once per modal
// open and never persisted.
type ActorContext struct {
	Name            string
	Role            string
	Level           int
	AllowedStages   []string
	AllowedStatuses []string
	Source          ContextSource
}

// IsAdmin reports unrestricted access: level 5 or an exact (case-insensitive)
// Admin role label.
func (a ActorContext) IsAdmin() bool {
	return a.Level >= AdminLevel || strings.EqualFold(strings.TrimSpace(a.Role), string(RoleAdmin))
}

// Counts are the per-section badge counters.
type Counts struct {
	New              int `json:"new"`
	Pending          int `json:"pending"`
	PendingApprovals int `json:"pendingApprovals"`
	Approved         int `json:"approved"`
}
