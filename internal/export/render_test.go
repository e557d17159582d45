package export

import (
	"strings"
	"testing"
	"time"

	"loandesk-cli/internal/model"
)

func approvedDetail() model.ApplicationDetail {
	amount := 250000.0
	d := time.Date(2025, time.April, 12, 0, 0, 0, 0, time.UTC)
	return model.ApplicationDetail{
		AppNumber:     "LA-042",
		ApplicantName: "Jane Doe",
		Status:        "approved",
		Stage:         "Approval",
		Amount:        &amount,
		Date:          &d,
		Comments: model.CommentSet{
			CreditOfficer: "Income verified.",
			Approver1:     "Approved within limits.",
		},
		Signatures: model.Signatures{
			CreditOfficer: "J. Officer",
			HeadOfCredit:  "H. Credit",
		},
		Documents: map[string]string{
			"ID Proof":   "https://files.example.com/id.pdf",
			"Pay Slip":   "",
			"Bank Stmts": "https://files.example.com/stmts.pdf",
		},
	}
}

func TestMarkdown_Approved(t *testing.T) {
	md := Markdown(approvedDetail())

	for _, want := range []string{
		"# Loan Application LA-042",
		"| Amount | 250,000.00 |",
		"| Status | APPROVED |",
		"| Date | 4/12/2025 |",
		"**Credit Officer**",
		"Income verified.",
		"## Signatures",
		"- Credit Officer: J. Officer",
		"- Branch Manager: N/A",
		"- ID Proof: uploaded",
		"- Pay Slip: not uploaded",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q\n%s", want, md)
		}
	}
	if strings.Contains(md, "**AMLRO**") {
		t.Error("empty comment rendered")
	}
}

func TestMarkdown_PendingHasNoSignatures(t *testing.T) {
	d := approvedDetail()
	d.Status = "PENDING"
	d.Stage = "Assessment"

	md := Markdown(d)
	if strings.Contains(md, "## Signatures") {
		t.Error("signature block rendered before approval")
	}
}

func TestMarkdown_NoComments(t *testing.T) {
	d := model.ApplicationDetail{AppNumber: "LA-001", Status: "NEW"}
	md := Markdown(d)
	if !strings.Contains(md, "_No comments recorded._") {
		t.Errorf("placeholder missing:\n%s", md)
	}
	if !strings.Contains(md, "| Amount | 0.00 |") {
		t.Error("missing amount did not render as 0.00")
	}
}

func TestANSI(t *testing.T) {
	out, err := ANSI(Markdown(approvedDetail()), 80)
	if err != nil {
		t.Fatalf("ANSI: %v", err)
	}
	if !strings.Contains(out, "LA-042") {
		t.Error("rendered output lost the application number")
	}
}
