package renderer

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/tracker"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var update = flag.Bool("update", false, "if true, rewrite the golden files with the received output")

func TestUpdateIsOff(t *testing.T) {
	if *update {
		t.Fatal("-update is enabled. This flag should only be used for updating golden files and must be disabled for regular tests.")
	}
}

var t0 = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

var utc = Options{Location: time.UTC}

func demoAccount() tracker.Account {
	return tracker.Account{ID: "1", DisplayName: "John Doe", Email: "test@app.com", AccountID: "ACC-2024-001", Balance: tracker.M(10000, "USD")}
}

func demoEntries() []tracker.Entry {
	return []tracker.Entry{
		tracker.NewEntry("TXN-1", t0.Add(48*time.Hour), "Transfer to U1", tracker.M(100, "USD"), tracker.Debit),
		tracker.NewEntry("TXN002", t0.Add(24*time.Hour), "Grocery | Store", tracker.M(82.45, "USD"), tracker.Debit),
		tracker.NewEntry("TXN001", t0, "Salary Deposit", tracker.M(5000, "USD"), tracker.Credit),
	}
}

// golden compares got with testdata/name, or rewrites it with -update.
func golden(t *testing.T, name, got string) {
	t.Helper()
	file := filepath.Join("testdata", name)
	if *update {
		if err := os.WriteFile(file, []byte(got), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}
	want, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if got != string(want) {
		t.Errorf("output mismatch for %s:\ngot:\n%s\nwant:\n%s", name, got, want)
	}
}

// parse parses markdown the way GitHub does.
func parse(t *testing.T, md string) (ast.Node, []byte) {
	t.Helper()
	source := []byte(md)
	p := goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()
	return p.Parse(text.NewReader(source)), source
}

// tableCells returns the text of each body row of the first table in md.
func tableCells(t *testing.T, md string) [][]string {
	t.Helper()
	root, source := parse(t, md)
	var rows [][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		row, ok := n.(*extast.TableRow)
		if !ok {
			return ast.WalkContinue, nil
		}
		var cells []string
		for c := row.FirstChild(); c != nil; c = c.NextSibling() {
			var b strings.Builder
			for s := c.FirstChild(); s != nil; s = s.NextSibling() {
				b.WriteString(nodeText(s, source))
			}
			cells = append(cells, b.String())
		}
		rows = append(rows, cells)
		return ast.WalkSkipChildren, nil
	})
	return rows
}

func nodeText(n ast.Node, source []byte) string {
	if t, ok := n.(*ast.Text); ok {
		return string(t.Segment.Value(source))
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(nodeText(c, source))
	}
	return b.String()
}

func TestRenderAccount(t *testing.T) {
	got := RenderAccount(demoAccount())
	golden(t, "account.md", got)
	if !strings.Contains(got, "$10,000.00") {
		t.Errorf("RenderAccount() does not show the balance:\n%s", got)
	}
}

func TestRenderHistory(t *testing.T) {
	got := RenderHistory(demoEntries(), utc)
	golden(t, "history.md", got)

	rows := tableCells(t, got)
	want := [][]string{
		{"Jan 17, 2025 at 10:30 AM", "Transfer to U1", "-$100.00", "TXN-1"},
		{"Jan 16, 2025 at 10:30 AM", "Grocery | Store", "-$82.45", "TXN002"},
		{"Jan 15, 2025 at 10:30 AM", "Salary Deposit", "+$5,000.00", "TXN001"},
	}
	if len(rows) != len(want) {
		t.Fatalf("RenderHistory() has %d rows, want %d:\n%s", len(rows), len(want), got)
	}
	for i := range want {
		if strings.Join(rows[i], ";") != strings.Join(want[i], ";") {
			t.Errorf("row %d = %q, want %q", i, rows[i], want[i])
		}
	}
}

func TestRenderHistory_Empty(t *testing.T) {
	got := RenderHistory(nil, utc)
	golden(t, "history_empty.md", got)
	if rows := tableCells(t, got); len(rows) != 0 {
		t.Errorf("RenderHistory(nil) has a table: %q", rows)
	}
}

func TestRenderReceipt(t *testing.T) {
	r := tracker.Receipt{Entry: demoEntries()[0], Balance: tracker.M(9900, "USD")}
	got := RenderReceipt("U1", r, utc)
	golden(t, "receipt.md", got)

	r.Warnings = []*tracker.DurabilityWarning{{Key: tracker.LedgerKey, Err: os.ErrPermission}}
	got = RenderReceipt("U1", r, utc)
	golden(t, "receipt_warning.md", got)
	if !strings.Contains(got, "could not be saved") {
		t.Errorf("RenderReceipt() does not report the warning:\n%s", got)
	}
}
