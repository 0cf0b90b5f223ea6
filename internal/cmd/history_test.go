package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/labeller/internal/receipt"
	"github.com/harrison/labeller/internal/results"
	"github.com/harrison/labeller/internal/session"
)

func runHistory(t *testing.T, home string, args ...string) string {
	t.Helper()
	t.Setenv("LABELLER_HOME", home)

	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"history"}, args...))
	require.NoError(t, cmd.Execute())
	return buf.String()
}

func TestHistoryCommandEmpty(t *testing.T) {
	out := runHistory(t, t.TempDir())
	assert.Contains(t, out, "No receipts saved yet")
}

func TestHistoryCommandListsReceipts(t *testing.T) {
	home := t.TempDir()
	dbPath := filepath.Join(home, "receipts.db")

	store, err := receipt.NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), &receipt.Receipt{
		ID:       "hist-1",
		Date:     time.Date(2025, 3, 17, 0, 0, 0, 0, time.Local),
		Category: "groceries",
		Shop:     "corner shop",
		Transactions: []receipt.Transaction{
			{Account: "cash", Currency: "EUR", AmountPaid: 12.30, ChangeReturned: 2.70},
		},
		LabelledAt: time.Now(),
	}))
	require.NoError(t, store.Close())

	out := runHistory(t, home, "--db", dbPath)
	assert.Contains(t, out, "2025-03-17")
	assert.Contains(t, out, "groceries")
	assert.Contains(t, out, "corner shop")
	assert.Contains(t, out, "paid 12.30 EUR from cash")
	assert.Contains(t, out, "(2.70 returned)")
}

func TestHistoryCommandResultsLog(t *testing.T) {
	home := t.TempDir()
	logPath := filepath.Join(home, "results.yaml")

	log := results.NewLog(logPath)
	require.NoError(t, log.Append([]session.RawResult{
		{ID: "receipt_date", Text: "2025-03-17 09:15"},
		{ID: "expense_category", Text: ""},
	}))

	out := runHistory(t, home, "--results", "--results-log", logPath)
	assert.Contains(t, out, "quit at")
	assert.Contains(t, out, "receipt_date")
	assert.Contains(t, out, "2025-03-17 09:15")
	assert.Contains(t, out, "(blank)")

	empty := runHistory(t, t.TempDir(), "--results")
	assert.True(t, strings.Contains(empty, "No quit sessions logged yet"))
}
