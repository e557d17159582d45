package reconcile

import (
	"testing"
	"time"

	"loandesk-cli/internal/model"
)

func app(num, name string, amount float64, actionBy string) model.ApplicationSummary {
	d := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	return model.ApplicationSummary{
		AppNumber:     num,
		ApplicantName: name,
		Amount:        &amount,
		Date:          &d,
		ActionBy:      actionBy,
	}
}

func TestApply_InitialPopulate(t *testing.T) {
	var tbl Table
	res := tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane Doe", 1234.5, "officer1"),
		app("LA-002", "John Roe", 500, "officer2"),
	}, nil)

	if res.Added != 2 || res.Updated != 0 || res.Removed != 0 {
		t.Fatalf("res = %+v", res)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	r := tbl.Rows[0]
	if r.Number != "LA-001" || r.Applicant != "Jane Doe" || r.Amount != "1,234.50" {
		t.Errorf("row = %+v", r)
	}
	if !r.Flash || r.FlashSeq != res.FlashSeq {
		t.Errorf("new row not flashed: %+v", r)
	}
}

func TestApply_Idempotent(t *testing.T) {
	apps := []model.ApplicationSummary{
		app("LA-001", "Jane Doe", 1234.5, "officer1"),
	}
	var tbl Table
	tbl.Apply(apps, nil)
	row := tbl.Rows[0]
	tbl.ClearFlash(row.FlashSeq)

	res := tbl.Apply(apps, nil)
	if res.Added != 0 || res.Updated != 0 || res.Removed != 0 || res.FlashSeq != 0 {
		t.Fatalf("second apply not a no-op: %+v", res)
	}
	if tbl.Rows[0] != row {
		t.Error("row identity lost on unchanged apply")
	}
	if row.Flash {
		t.Error("unchanged row flashed")
	}
}

func TestApply_UpdatesOnlyChangedRows(t *testing.T) {
	var tbl Table
	tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane Doe", 1234.5, "officer1"),
		app("LA-002", "John Roe", 500, "officer2"),
	}, nil)
	r1, r2 := tbl.Rows[0], tbl.Rows[1]
	tbl.ClearFlash(r1.FlashSeq)

	res := tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane Doe", 1234.5, "officer1"),
		app("LA-002", "John Roe", 750, "officer2"),
	}, nil)

	if res.Updated != 1 || res.Added != 0 {
		t.Fatalf("res = %+v", res)
	}
	if tbl.Rows[0] != r1 || tbl.Rows[1] != r2 {
		t.Fatal("row identity lost across update")
	}
	if r1.Flash {
		t.Error("unchanged row flashed")
	}
	if !r2.Flash || r2.Amount != "750.00" {
		t.Errorf("changed row = %+v", r2)
	}
}

func TestApply_DropsAbsentKeys(t *testing.T) {
	var tbl Table
	tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane Doe", 100, "a"),
		app("LA-002", "John Roe", 200, "b"),
	}, nil)

	res := tbl.Apply([]model.ApplicationSummary{
		app("LA-002", "John Roe", 200, "b"),
	}, nil)

	if res.Removed != 1 || tbl.Len() != 1 {
		t.Fatalf("res = %+v, len = %d", res, tbl.Len())
	}
	if tbl.Lookup("LA-001") != nil {
		t.Error("dropped key still in index")
	}
	if tbl.Rows[0].Key != "LA-002" {
		t.Errorf("survivor = %q", tbl.Rows[0].Key)
	}
}

func TestApply_OrderFollowsInput(t *testing.T) {
	var tbl Table
	tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane", 1, "a"),
		app("LA-002", "John", 2, "b"),
	}, nil)
	r1 := tbl.Rows[0]

	tbl.Apply([]model.ApplicationSummary{
		app("LA-002", "John", 2, "b"),
		app("LA-001", "Jane", 1, "a"),
	}, nil)

	if tbl.Rows[0].Key != "LA-002" || tbl.Rows[1] != r1 {
		t.Errorf("order = %q,%q", tbl.Rows[0].Key, tbl.Rows[1].Key)
	}
}

func TestApply_SelectHandlerSurvives(t *testing.T) {
	var selected string
	onSelect := func(n string) { selected = n }

	var tbl Table
	tbl.Apply([]model.ApplicationSummary{app("LA-001", "Jane", 1, "a")}, onSelect)
	tbl.Apply([]model.ApplicationSummary{app("LA-001", "Jane", 999, "a")}, nil)

	row := tbl.Lookup("LA-001")
	if row.Select == nil {
		t.Fatal("select handler lost")
	}
	row.Select()
	if selected != "LA-001" {
		t.Errorf("selected = %q", selected)
	}
}

func TestClearFlash_IgnoresNewerSeq(t *testing.T) {
	var tbl Table
	r1 := tbl.Apply([]model.ApplicationSummary{app("LA-001", "Jane", 1, "a")}, nil)
	r2 := tbl.Apply([]model.ApplicationSummary{app("LA-001", "Jane", 2, "a")}, nil)
	if r2.FlashSeq <= r1.FlashSeq {
		t.Fatalf("seq not monotonic: %d then %d", r1.FlashSeq, r2.FlashSeq)
	}

	tbl.ClearFlash(r1.FlashSeq)
	if !tbl.Rows[0].Flash {
		t.Error("stale clear removed a newer highlight")
	}
	tbl.ClearFlash(r2.FlashSeq)
	if tbl.Rows[0].Flash {
		t.Error("current clear did not remove highlight")
	}
}

func TestApply_DuplicateKeys(t *testing.T) {
	var tbl Table
	res := tbl.Apply([]model.ApplicationSummary{
		app("LA-001", "Jane", 1, "a"),
		app("LA-001", "Jane Again", 3, "c"),
	}, nil)

	if res.Added != 1 || tbl.Len() != 1 {
		t.Fatalf("res = %+v, len = %d", res, tbl.Len())
	}
	if tbl.Rows[0].Applicant != "Jane" {
		t.Errorf("first occurrence should win: %+v", tbl.Rows[0])
	}
}

func TestApply_KeylessEntriesAlwaysNew(t *testing.T) {
	apps := []model.ApplicationSummary{
		app("LA-001", "Jane", 1, "a"),
		app("", "Ghost", 2, "b"),
	}
	var tbl Table
	res := tbl.Apply(apps, nil)

	if res.Added != 2 || tbl.Len() != 2 {
		t.Fatalf("res = %+v, len = %d", res, tbl.Len())
	}
	ghost := tbl.Rows[1]
	if ghost.Applicant != "Ghost" || !ghost.Flash {
		t.Fatalf("keyless row = %+v", ghost)
	}
	if tbl.Lookup("") != nil {
		t.Error("keyless row entered the index")
	}

	// With no identity to match, the next refresh builds it again from
	// scratch; the keyed row keeps its object.
	tbl.ClearFlash(res.FlashSeq)
	keyed := tbl.Rows[0]
	res = tbl.Apply(apps, nil)
	if res.Added != 1 {
		t.Fatalf("second apply res = %+v", res)
	}
	if tbl.Rows[0] != keyed {
		t.Error("keyed row identity lost")
	}
	if tbl.Rows[1] == ghost {
		t.Error("keyless row was matched across refreshes")
	}
	if !tbl.Rows[1].Flash {
		t.Error("rebuilt keyless row not flashed")
	}
}
