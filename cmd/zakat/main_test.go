package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t   *testing.T
	dir string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("AMQP_URL", "")
	t.Setenv("ZAKAT_LOG_LEVEL", "error")
	return &harness{t: t, dir: t.TempDir()}
}

func (h *harness) run(args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--backend", "file", "--data-dir", filepath.Join(h.dir, "docs"), "--year", "2024"}, args...)
	code := run(context.Background(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func (h *harness) ok(args ...string) string {
	h.t.Helper()
	code, out, errOut := h.run(args...)
	require.Equal(h.t, 0, code, "zakat %v failed: %s", args, errOut)
	return out
}

var idPattern = regexp.MustCompile(`Added recipient (\S+) to`)

func TestHelpAndUnknownCommand(t *testing.T) {
	h := newHarness(t)
	out := h.ok("help")
	assert.Contains(t, out, "add-recipient")
	assert.Contains(t, out, "--backend")

	code, _, errOut := h.run("frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "frobnicate"`)
}

func TestLedgerWorkflow(t *testing.T) {
	h := newHarness(t)

	h.ok("add-cash", "--holder", "Aisha", "--currency", "usd", "--amount", "100")
	h.ok("add-gold", "--owner", "Aisha", "--weight", "5", "--purity", "24k")
	h.ok("add-property", "--name", "Shop", "--value", "2000000", "--for-trade")
	h.ok("add-property", "--name", "Home", "--value", "9000000")
	h.ok("add-member", "--name", "Aisha")

	out := h.ok("add-recipient", "--name", "Zaid", "--category", "debtor")
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	recipientID := m[1]

	var sum struct {
		TotalObligation string `json:"total_obligation"`
		Remaining       string `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.ok("summary", "--json")), &sum))
	assert.Equal(t, "81950", sum.TotalObligation) // 700 + 31250 + 50000

	code, _, errOut := h.run("pay", "--recipient", recipientID, "--amount", "90000")
	assert.Equal(t, 2, code, "overpayment is a validation error")
	assert.Contains(t, errOut, "exceeds remaining balance")

	out = h.ok("pay", "--recipient", recipientID, "--amount", "1950", "--date", "2024-04-10", "--method", "Bank Transfer")
	assert.Contains(t, out, "remaining 80,000.00")

	out = h.ok("recipients")
	assert.Contains(t, out, "Debtor (Gharim)")
	assert.Contains(t, out, "1,950.00")

	out = h.ok("summary")
	assert.Contains(t, out, "USD")
	assert.Contains(t, out, "Gold: 1 holdings")

	h.ok("advance")
	out = h.ok("history")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "81,950.00")

	out = h.ok("restore", "2024")
	assert.Contains(t, out, "into 2025")

	code, _, errOut = h.run("restore", "1990")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no archived snapshot for year 1990")
}

func TestSettingsCommand(t *testing.T) {
	h := newHarness(t)
	out := h.ok("settings")
	assert.Contains(t, out, "1 USD")

	h.ok("settings", "--rate", "2,5", "--currency-rate", "USD=300", "--gold-24k", "260000")

	var s struct {
		GoldPrice24K  string            `json:"gold_price_24k"`
		CurrencyRates map[string]string `json:"currency_rates"`
	}
	require.NoError(t, json.Unmarshal([]byte(h.ok("settings", "--json")), &s))
	assert.Equal(t, "260000", s.GoldPrice24K)
	assert.Equal(t, "300", s.CurrencyRates["USD"])

	code, _, _ := h.run("settings", "--rate", "-1")
	assert.Equal(t, 2, code)
}

func TestBackupAndImport(t *testing.T) {
	h := newHarness(t)
	h.ok("add-member", "--name", "Bilal")
	path := filepath.Join(h.dir, "backup.json")

	out := h.ok("backup", "--out", path)
	assert.Contains(t, out, path)
	_, err := os.Stat(path)
	require.NoError(t, err)

	h.ok("import", path, "--year", "2010")
	h.ok("switch", "2010")

	var snap struct {
		Year    int               `json:"year"`
		Members []json.RawMessage `json:"members"`
	}
	data, err := os.ReadFile(filepath.Join(h.dir, "docs", "zakat_data_2010.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, 2010, snap.Year)
	assert.Len(t, snap.Members, 1)
}

func TestResetNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.ok("add-member", "--name", "Bilal")

	code, _, errOut := h.run("reset")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "--yes")

	h.ok("reset", "--yes")
	out := h.ok("history")
	assert.Contains(t, out, "No archived years")
}

func TestEventsWithoutBroker(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run("events")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "AMQP_URL")
}
