// Package reconcile maintains a table of application rows across refreshes,
// updating only the cells whose rendered text actually changed. Rows are keyed
// by application number; a row object survives every refresh that still
// contains its key, so selection handlers and cursor identity stay attached to
// the same row.
package reconcile

import (
	"time"

	"loandesk-cli/internal/model"
)

// FlashDuration is how long a changed row stays highlighted.
const FlashDuration = 1400 * time.Millisecond

// Row is one application line in the table. Cells hold the formatted text
// shown to the user; they are the unit of comparison between refreshes.
type Row struct {
	Key       string
	Number    string
	Applicant string
	Amount    string
	Date      string
	ActionBy  string

	// Flash marks the row as recently changed. FlashSeq identifies which
	// refresh set it, so a timer from an older refresh cannot clear a
	// highlight set by a newer one.
	Flash    bool
	FlashSeq int

	Select func()
}

// Result reports what one Apply changed.
type Result struct {
	Added   int
	Updated int
	Removed int

	// FlashSeq is the sequence stamped on rows flashed by this Apply.
	// Zero when nothing changed.
	FlashSeq int
}

// Table reconciles successive application lists into a stable set of rows.
// The zero value is ready to use. Not safe for concurrent use.
type Table struct {
	Rows []*Row

	index map[string]*Row
	seq   int
}

// Apply reconciles the table against apps. Rows whose key is absent from apps
// are dropped, new keys get fresh rows, and surviving rows have only their
// differing cells rewritten. Changed and new rows are flagged with a flash
// sequence; pass it to ClearFlash after FlashDuration. Row order follows apps.
// Entries with no application number never match anything and come back as
// fresh rows on every Apply.
func (t *Table) Apply(apps []model.ApplicationSummary, onSelect func(appNumber string)) Result {
	if t.index == nil {
		t.index = make(map[string]*Row)
	}

	var res Result
	seq := t.seq + 1
	flashed := false

	next := make([]*Row, 0, len(apps))
	seen := make(map[string]bool, len(apps))

	for _, app := range apps {
		key := app.AppNumber
		if key == "" {
			// No key, no identity: the entry cannot be matched against a
			// previous refresh, so it is rendered as a brand-new row every
			// time.
			row := &Row{}
			updateCells(row, app)
			row.Flash = true
			row.FlashSeq = seq
			flashed = true
			res.Added++
			next = append(next, row)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		row, ok := t.index[key]
		if !ok {
			row = &Row{Key: key}
			if onSelect != nil {
				n := key
				row.Select = func() { onSelect(n) }
			}
			t.index[key] = row
			res.Added++
		}

		if updateCells(row, app) {
			if ok {
				res.Updated++
			}
			row.Flash = true
			row.FlashSeq = seq
			flashed = true
		}
		next = append(next, row)
	}

	for key := range t.index {
		if !seen[key] {
			delete(t.index, key)
			res.Removed++
		}
	}

	t.Rows = next
	if flashed {
		t.seq = seq
		res.FlashSeq = seq
	}
	return res
}

// ClearFlash turns off the highlight on rows stamped with seq. Highlights set
// by a later Apply are left alone.
func (t *Table) ClearFlash(seq int) {
	for _, row := range t.Rows {
		if row.Flash && row.FlashSeq == seq {
			row.Flash = false
		}
	}
}

// Len reports the current row count.
func (t *Table) Len() int { return len(t.Rows) }

// Lookup returns the row for an application number, or nil.
func (t *Table) Lookup(key string) *Row {
	return t.index[key]
}

func updateCells(row *Row, app model.ApplicationSummary) bool {
	changed := false
	set := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&row.Number, FormatText(app.AppNumber))
	set(&row.Applicant, FormatText(app.ApplicantName))
	set(&row.Amount, FormatAmount(app.Amount))
	set(&row.Date, FormatDate(app.Date))
	set(&row.ActionBy, FormatText(app.ActionBy))
	return changed
}
