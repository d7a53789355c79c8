package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"zakat/internal/amqp"
	"zakat/internal/cli"
	"zakat/internal/core"
	"zakat/internal/ledger"
)

type env struct {
	sess *cli.Session
	args []string
	out  io.Writer
}

type runFunc func(ctx context.Context, e *env) error

type command struct {
	summary string
	args    string
	setup   func(fs *pflag.FlagSet) runFunc
}

type usageError string

func (e usageError) Error() string { return string(e) }

var commandOrder = []string{
	"summary", "add-cash", "add-bank", "add-receivable", "add-gold", "add-property",
	"add-member", "add-recipient", "pay", "recipients", "settings",
	"advance", "switch", "restore", "history", "backup", "import", "reset", "events",
}

var commands = map[string]command{
	"summary":        {"show the obligation, payments and breakdowns for the active year", "[--json]", summaryCmd},
	"add-cash":       {"record cash in hand", "--holder NAME --currency CODE --amount N", addCashCmd},
	"add-bank":       {"record a bank balance", "--bank NAME --currency CODE --balance N", addBankCmd},
	"add-receivable": {"record money owed to the household", "--debtor NAME --currency CODE --amount N", addReceivableCmd},
	"add-gold":       {"record gold by weight in tola", "--owner NAME --weight N --purity 24|22|18", addGoldCmd},
	"add-property":   {"record property; only trade property is zakatable", "--name NAME --value N [--for-trade]", addPropertyCmd},
	"add-member":     {"record a household member", "--name NAME", addMemberCmd},
	"add-recipient":  {"record a zakat recipient", "--name NAME --category CATEGORY", addRecipientCmd},
	"pay":            {"record a payment to a recipient", "--recipient ID --amount N", payCmd},
	"recipients":     {"list recipients with the amount each received", "[--json]", recipientsCmd},
	"settings":       {"show or change rates, prices and the zakat rate", "[--rate N] [--currency-rate CODE=N]...", settingsCmd},
	"advance":        {"archive the active year and start the next one", "", advanceCmd},
	"switch":         {"archive the active year and make YEAR active", "YEAR", switchCmd},
	"restore":        {"copy the archive of YEAR into the active year", "YEAR", restoreCmd},
	"history":        {"summarize every archived year", "[--json]", historyCmd},
	"backup":         {"write the active year to a standalone file", "[--out PATH]", backupCmd},
	"import":         {"load a backup file into a year", "PATH [--year YEAR]", importCmd},
	"reset":          {"delete every year and start over", "--yes", resetCmd},
	"events":         {"print ledger events from the AMQP queue until interrupted", "", eventsCmd},
}

func amount(field, s string) (decimal.Decimal, error) {
	return core.ParseAmount(field, s)
}

func nonNegative(field, s string) (decimal.Decimal, error) {
	return core.ParseNonNegative(field, s)
}

func currency(s string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if err := core.ValidateCurrency(code); err != nil {
		return "", err
	}
	return code, nil
}

func yearArg(e *env) (int, error) {
	if len(e.args) != 1 {
		return 0, usageError("expected exactly one YEAR argument")
	}
	y, err := strconv.Atoi(e.args[0])
	if err != nil || y < 1 {
		return 0, &core.ValidationError{Field: "year", Reason: fmt.Sprintf("invalid year %q", e.args[0])}
	}
	return y, nil
}

func added(e *env, kind, id string) error {
	_, err := fmt.Fprintf(e.out, "Added %s %s to %d\n", kind, id, e.sess.Archive.ActiveYear())
	return err
}

func summaryCmd(fs *pflag.FlagSet) runFunc {
	asJSON := fs.Bool("json", false, "print JSON")
	return func(ctx context.Context, e *env) error {
		sum := e.sess.Archive.Summary(ctx)
		if *asJSON {
			return writeJSON(e.out, sum)
		}
		return printSummary(e.out, sum, e.sess.Archive.Active().Settings)
	}
}

func addCashCmd(fs *pflag.FlagSet) runFunc {
	holder := fs.String("holder", "", "who holds the cash")
	location := fs.String("location", "", "where it is kept")
	cur := fs.String("currency", "PKR", "currency code")
	amt := fs.String("amount", "", "amount")
	return func(ctx context.Context, e *env) error {
		c, err := currency(*cur)
		if err != nil {
			return err
		}
		a, err := nonNegative("amount", *amt)
		if err != nil {
			return err
		}
		rec, _, err := e.sess.Archive.AddAsset(ctx, core.CashHolding{Holder: *holder, Location: *location, Currency: c, Amount: a})
		if err != nil {
			return err
		}
		return added(e, "cash", rec.AssetID())
	}
}

func addBankCmd(fs *pflag.FlagSet) runFunc {
	holder := fs.String("holder", "", "account holder")
	bank := fs.String("bank", "", "bank name")
	account := fs.String("account", "", "account number")
	typ := fs.String("type", core.AccountSavings, "Savings, Current or Fixed Deposit")
	cur := fs.String("currency", "PKR", "currency code")
	bal := fs.String("balance", "", "balance")
	return func(ctx context.Context, e *env) error {
		c, err := currency(*cur)
		if err != nil {
			return err
		}
		b, err := nonNegative("balance", *bal)
		if err != nil {
			return err
		}
		rec, _, err := e.sess.Archive.AddAsset(ctx, core.BankAccount{
			Holder: *holder, Bank: *bank, AccountNumber: *account, AccountType: *typ, Currency: c, Balance: b,
		})
		if err != nil {
			return err
		}
		return added(e, "bank account", rec.AssetID())
	}
}

func addReceivableCmd(fs *pflag.FlagSet) runFunc {
	holder := fs.String("holder", "", "who is owed")
	debtor := fs.String("debtor", "", "who owes")
	cur := fs.String("currency", "PKR", "currency code")
	amt := fs.String("amount", "", "amount")
	return func(ctx context.Context, e *env) error {
		c, err := currency(*cur)
		if err != nil {
			return err
		}
		a, err := nonNegative("amount", *amt)
		if err != nil {
			return err
		}
		rec, _, err := e.sess.Archive.AddAsset(ctx, core.Receivable{Holder: *holder, Debtor: *debtor, Currency: c, Amount: a})
		if err != nil {
			return err
		}
		return added(e, "receivable", rec.AssetID())
	}
}

func addGoldCmd(fs *pflag.FlagSet) runFunc {
	owner := fs.String("owner", "", "owner")
	desc := fs.String("description", "", "description")
	weight := fs.String("weight", "", "weight in tola")
	purity := fs.String("purity", core.Purity24, "24, 22 or 18 karat")
	return func(ctx context.Context, e *env) error {
		w, err := amount("weight", *weight)
		if err != nil {
			return err
		}
		p := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(*purity)), "k")
		rec, _, err := e.sess.Archive.AddAsset(ctx, core.GoldHolding{Owner: *owner, Description: *desc, Weight: w, Purity: p})
		if err != nil {
			return err
		}
		return added(e, "gold", rec.AssetID())
	}
}

func addPropertyCmd(fs *pflag.FlagSet) runFunc {
	owner := fs.String("owner", "", "owner")
	name := fs.String("name", "", "property name")
	typ := fs.String("type", "Residential", "Residential, Commercial, Land or Rental")
	location := fs.String("location", "", "location")
	value := fs.String("value", "", "market value in base currency")
	forTrade := fs.Bool("for-trade", false, "held for trade, and so zakatable")
	return func(ctx context.Context, e *env) error {
		v, err := nonNegative("value", *value)
		if err != nil {
			return err
		}
		rec, _, err := e.sess.Archive.AddAsset(ctx, core.TradeProperty{
			Owner: *owner, Name: *name, Type: *typ, Location: *location, Value: v, ForTrade: *forTrade,
		})
		if err != nil {
			return err
		}
		return added(e, "property", rec.AssetID())
	}
}

func addMemberCmd(fs *pflag.FlagSet) runFunc {
	name := fs.String("name", "", "full name")
	mobile := fs.String("mobile", "", "mobile number")
	nic := fs.String("nic", "", "national identity card number")
	address := fs.String("address", "", "address")
	return func(ctx context.Context, e *env) error {
		m, _, err := e.sess.Archive.AddMember(ctx, core.Member{Name: *name, Mobile: *mobile, NIC: *nic, Address: *address})
		if err != nil {
			return err
		}
		return added(e, "member", m.ID)
	}
}

func addRecipientCmd(fs *pflag.FlagSet) runFunc {
	name := fs.String("name", "", "full name")
	category := fs.String("category", string(core.CategoryPoor), "one of: "+categoryList())
	nic := fs.String("nic", "", "national identity card number")
	mobile := fs.String("mobile", "", "mobile number")
	address := fs.String("address", "", "address")
	return func(ctx context.Context, e *env) error {
		cat, ok := core.ParseCategory(*category)
		if !ok {
			cat = core.RecipientCategory(strings.TrimSpace(*category))
		}
		r, _, err := e.sess.Archive.AddRecipient(ctx, core.Recipient{
			Name: *name, Category: cat, NIC: *nic, Mobile: *mobile, Address: *address,
		})
		if err != nil {
			return err
		}
		return added(e, "recipient", r.ID)
	}
}

func categoryList() string {
	cats := core.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return strings.Join(out, ", ")
}

func payCmd(fs *pflag.FlagSet) runFunc {
	recipient := fs.String("recipient", "", "recipient id")
	amt := fs.String("amount", "", "amount in base currency")
	method := fs.String("method", core.MethodCash, "Cash, Bank Transfer, Mobile Wallet or Check")
	date := fs.String("date", "", "payment date, YYYY-MM-DD (default today)")
	notes := fs.String("notes", "", "notes")
	return func(ctx context.Context, e *env) error {
		a, err := amount("amount", *amt)
		if err != nil {
			return err
		}
		in := ledger.PaymentInput{RecipientID: strings.TrimSpace(*recipient), Amount: a, Method: *method, Notes: *notes}
		if *date != "" {
			if in.Date, err = core.ParseDate(*date); err != nil {
				return err
			}
		}
		p, snap, err := e.sess.Archive.AddPayment(ctx, in)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "Recorded payment %s of %s; remaining %s\n",
			p.ID, core.FormatMoney(p.Amount), core.FormatMoney(ledger.RemainingBalance(snap)))
		return err
	}
}

func recipientsCmd(fs *pflag.FlagSet) runFunc {
	asJSON := fs.Bool("json", false, "print JSON")
	return func(ctx context.Context, e *env) error {
		list := ledger.Recipients(e.sess.Archive.Active())
		if *asJSON {
			return writeJSON(e.out, list)
		}
		return printRecipients(e.out, list)
	}
}

func settingsCmd(fs *pflag.FlagSet) runFunc {
	base := fs.String("base", "", "base currency code")
	rate := fs.String("rate", "", "zakat rate in percent")
	nisab := fs.String("nisab", "", "nisab threshold in base currency")
	g24 := fs.String("gold-24k", "", "24k gold price per tola")
	g22 := fs.String("gold-22k", "", "22k gold price per tola")
	g18 := fs.String("gold-18k", "", "18k gold price per tola")
	rates := fs.StringToString("currency-rate", nil, "CODE=RATE to base currency, repeatable")
	asJSON := fs.Bool("json", false, "print JSON")
	return func(ctx context.Context, e *env) error {
		settings := e.sess.Archive.Active().Settings
		changed := false

		for _, f := range []struct {
			field string
			val   string
			dst   *decimal.Decimal
		}{
			{"zakat_rate", *rate, &settings.ZakatRate},
			{"nisab", *nisab, &settings.Nisab},
			{"gold_price_24k", *g24, &settings.GoldPrice24K},
			{"gold_price_22k", *g22, &settings.GoldPrice22K},
			{"gold_price_18k", *g18, &settings.GoldPrice18K},
		} {
			if f.val == "" {
				continue
			}
			v, err := nonNegative(f.field, f.val)
			if err != nil {
				return err
			}
			*f.dst = v
			changed = true
		}
		if *base != "" {
			c, err := currency(*base)
			if err != nil {
				return err
			}
			settings.BaseCurrency = c
			changed = true
		}
		for code, r := range *rates {
			c, err := currency(code)
			if err != nil {
				return err
			}
			v, err := amount("currency_rates", r)
			if err != nil {
				return err
			}
			settings.CurrencyRates[c] = v
			changed = true
		}

		if changed {
			snap, err := e.sess.Archive.UpdateSettings(ctx, settings)
			if err != nil {
				return err
			}
			settings = snap.Settings
		}
		if *asJSON {
			return writeJSON(e.out, settings)
		}
		return printSettings(e.out, settings)
	}
}

func advanceCmd(fs *pflag.FlagSet) runFunc {
	return func(ctx context.Context, e *env) error {
		from := e.sess.Archive.ActiveYear()
		snap, err := e.sess.Archive.AdvanceYear(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "Archived %d; active year is now %d\n", from, snap.Year)
		return err
	}
}

func switchCmd(fs *pflag.FlagSet) runFunc {
	return func(ctx context.Context, e *env) error {
		year, err := yearArg(e)
		if err != nil {
			return err
		}
		snap, err := e.sess.Archive.SwitchYear(ctx, year)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "Active year is now %d\n", snap.Year)
		return err
	}
}

func restoreCmd(fs *pflag.FlagSet) runFunc {
	return func(ctx context.Context, e *env) error {
		year, err := yearArg(e)
		if err != nil {
			return err
		}
		snap, err := e.sess.Archive.RestoreYear(ctx, year)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "Restored the %d archive into %d\n", year, snap.Year)
		return err
	}
}

func historyCmd(fs *pflag.FlagSet) runFunc {
	asJSON := fs.Bool("json", false, "print JSON")
	return func(ctx context.Context, e *env) error {
		entries, skipped, err := e.sess.Archive.ListHistory(ctx)
		if err != nil {
			return err
		}
		if *asJSON {
			if err := writeJSON(e.out, entries); err != nil {
				return err
			}
		} else if err := printHistory(e.out, entries); err != nil {
			return err
		}
		for _, s := range skipped {
			fmt.Fprintf(e.out, "skipped unreadable archive %d: %v\n", s.Year, s.Err)
		}
		return nil
	}
}

func backupCmd(fs *pflag.FlagSet) runFunc {
	out := fs.String("out", "", "destination file (default zakat_backup_<year>_<time>.json)")
	return func(ctx context.Context, e *env) error {
		snap := e.sess.Archive.Active()
		dest := *out
		if dest == "" {
			dest = filepath.Join(".", fmt.Sprintf("zakat_backup_%d_%s.json", snap.Year, time.Now().Format("20060102_150405")))
		}
		if err := e.sess.Archive.ExportBackup(ctx, snap, dest); err != nil {
			return err
		}
		_, err := fmt.Fprintf(e.out, "Backup of %d written to %s\n", snap.Year, dest)
		return err
	}
}

func importCmd(fs *pflag.FlagSet) runFunc {
	year := fs.Int("year", 0, "year to import into (default the year stored in the backup)")
	return func(ctx context.Context, e *env) error {
		if len(e.args) != 1 {
			return usageError("expected exactly one PATH argument")
		}
		snap, err := e.sess.Archive.ImportBackup(ctx, e.args[0])
		if err != nil {
			return err
		}
		target := *year
		if target == 0 {
			target = snap.Year
		}
		if target < 1 {
			return &core.ValidationError{Field: "year", Reason: "backup has no year; pass --year"}
		}
		if err := e.sess.Archive.SaveYear(ctx, target, snap); err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "Imported %s into %d\n", e.args[0], target)
		return err
	}
}

func resetCmd(fs *pflag.FlagSet) runFunc {
	yes := fs.Bool("yes", false, "confirm deleting all data")
	return func(ctx context.Context, e *env) error {
		if !*yes {
			return usageError("reset deletes every year; pass --yes to confirm")
		}
		snap, err := e.sess.Archive.Reset(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.out, "All data deleted; %d starts from defaults\n", snap.Year)
		return err
	}
}

func eventsCmd(fs *pflag.FlagSet) runFunc {
	return func(ctx context.Context, e *env) error {
		client := e.sess.Backend.Events
		if client == nil {
			return usageError("ledger events need a reachable broker; set AMQP_URL or --amqp-url")
		}
		parent, stop := context.WithCancel(ctx)
		sigCtx, done := cli.GracefulShutdown(parent, e.sess.Logger, 5*time.Second, nil)
		err := client.ConsumeLedgerEvents(sigCtx, func(m *amqp.LedgerEventMessage) error {
			return writeJSON(e.out, m)
		})
		interrupted := sigCtx.Err() != nil && ctx.Err() == nil
		stop()
		<-done
		if interrupted {
			return nil
		}
		return err
	}
}
