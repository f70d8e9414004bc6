// Package renderer turns tracker values into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/tracker"
)

//go:embed templates/*.md
var templatesFS embed.FS

var templates, _ = fs.Sub(templatesFS, "templates")

// DateLayout formats entry timestamps, e.g. "Jan 15, 2025 at 10:30 AM".
const DateLayout = "Jan 2, 2006 at 3:04 PM"

// Options holds configuration for rendering.
type Options struct {
	Location *time.Location // timestamps are shown in this zone, defaults to time.Local
}

func (o Options) date(t time.Time) string {
	loc := o.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

// Account is the view of a tracker.Account.
type Account struct {
	DisplayName string
	Email       string
	AccountID   string
	Balance     string
}

func newAccount(a tracker.Account) *Account {
	return &Account{
		DisplayName: a.DisplayName,
		Email:       a.Email,
		AccountID:   a.AccountID,
		Balance:     a.Balance.String(),
	}
}

// Row is the view of a tracker.Entry.
type Row struct {
	ID     string
	Date   string
	Title  string
	Amount string // signed, e.g. "+$5,000.00" or "-$82.45"
}

func newRow(e tracker.Entry, opts Options) Row {
	return Row{
		ID:     e.ID,
		Date:   opts.date(e.Timestamp),
		Title:  escapeCell(e.Title),
		Amount: e.Signed().SignedString(),
	}
}

// History is the view of a ledger.
type History struct {
	Entries []Row
}

// Receipt is the view of a tracker.Receipt.
type Receipt struct {
	Row
	Receiver string
	Balance  string
	Warnings []string
}

// RenderAccount renders the account summary.
func RenderAccount(a tracker.Account) string {
	partials := map[string]string{
		"balance": "balance.md",
	}
	return renderTemplate("account", "account.md", partials, newAccount(a))
}

// RenderHistory renders entries, in the given order, as a table.
func RenderHistory(entries []tracker.Entry, opts Options) string {
	h := &History{}
	for _, e := range entries {
		h.Entries = append(h.Entries, newRow(e, opts))
	}
	partials := map[string]string{
		"history_rows": "history_rows.md",
	}
	return renderTemplate("history", "history.md", partials, h)
}

// RenderReceipt renders the outcome of a transfer to receiver.
func RenderReceipt(receiver string, r tracker.Receipt, opts Options) string {
	v := &Receipt{
		Row:      newRow(r.Entry, opts),
		Receiver: escapeCell(receiver),
		Balance:  r.Balance.String(),
	}
	// the receipt shows the amount sent, unsigned.
	v.Amount = r.Entry.Amount.String()
	for _, w := range r.Warnings {
		v.Warnings = append(v.Warnings, w.Error())
	}
	partials := map[string]string{
		"balance": "balance.md",
	}
	return renderTemplate("receipt", "receipt.md", partials, v)
}

// escapeCell makes s safe to print in a table cell.
func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
