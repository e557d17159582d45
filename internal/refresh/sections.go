package refresh

import (
	"time"

	"loandesk-cli/internal/model"
)

// Section is one tab of the application list. Each section holds the
// applications in a single workflow status.
type Section string

const (
	SectionNew      Section = "new"
	SectionPending  Section = "pending"
	SectionApproval Section = "approval"
	SectionApproved Section = "approved"
	SectionReverted Section = "reverted"
)

// Sections lists the tabs in display order.
func Sections() []Section {
	return []Section{SectionNew, SectionPending, SectionApproval, SectionApproved, SectionReverted}
}

// Status maps a section to the workflow status it lists.
func (s Section) Status() model.Status {
	switch s {
	case SectionPending:
		return model.StatusPending
	case SectionApproval:
		return model.StatusPendingApproval
	case SectionApproved:
		return model.StatusApproved
	case SectionReverted:
		return model.StatusReverted
	default:
		return model.StatusNew
	}
}

// Title returns the tab label.
func (s Section) Title() string {
	switch s {
	case SectionNew:
		return "New"
	case SectionPending:
		return "Pending"
	case SectionApproval:
		return "Pending Approval"
	case SectionApproved:
		return "Approved"
	case SectionReverted:
		return "Reverted"
	default:
		return string(s)
	}
}

// Timing for automatic refreshes. Manual refresh requests within
// DebounceDelay of each other coalesce into one fetch.
const (
	DebounceDelay      = 300 * time.Millisecond
	RefreshInterval    = 60 * time.Second
	AssignmentInterval = 30 * time.Second
)
