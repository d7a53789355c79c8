package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"zakat/internal/archive"
	"zakat/internal/core"
	"zakat/internal/ledger"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

func printSummary(w io.Writer, sum ledger.Summary, settings core.Settings) error {
	base := settings.BaseCurrency
	tw := table(w)
	fmt.Fprintf(tw, "Year\t%d\t\n", sum.Year)
	fmt.Fprintf(tw, "Zakatable wealth\t%s %s\t\n", core.FormatMoney(sum.ZakatableBase), base)
	fmt.Fprintf(tw, "Zakat due (%s%%)\t%s %s\t\n", settings.ZakatRate, core.FormatMoney(sum.TotalObligation), base)
	fmt.Fprintf(tw, "Paid\t%s %s\t\n", core.FormatMoney(sum.TotalPaid), base)
	fmt.Fprintf(tw, "Remaining\t%s %s\t\n", core.FormatMoney(sum.Remaining), base)
	nisab := "below"
	if sum.MeetsNisab {
		nisab = "meets"
	}
	fmt.Fprintf(tw, "Nisab (%s)\t%s\t\n", core.FormatMoney(settings.Nisab), nisab)
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(sum.PerCurrency) > 0 {
		fmt.Fprintln(w)
		tw = table(w)
		fmt.Fprintln(tw, "Currency\tAmount\tRate\tIn "+base+"\tZakat\t")
		for _, l := range sum.PerCurrency {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", l.Currency, core.FormatMoney(l.Amount), l.Rate, core.FormatMoney(l.BaseValue), core.FormatMoney(l.Zakat))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if sum.Gold.Holdings > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Gold: %d holdings, %s tola, worth %s %s, zakat %s\n",
			sum.Gold.Holdings, sum.Gold.TotalWeight, core.FormatMoney(sum.Gold.TotalValue), base, core.FormatMoney(sum.Gold.Zakat))
		if len(sum.Gold.FallbackPurities) > 0 {
			fmt.Fprintf(w, "  valued at 18k: unrecognized purity %v\n", sum.Gold.FallbackPurities)
		}
	}
	return nil
}

func printRecipients(w io.Writer, list []ledger.RecipientBalance) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No recipients")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tCategory\tReceived")
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Category.Label(), core.FormatMoney(r.Received))
	}
	return tw.Flush()
}

func printSettings(w io.Writer, s core.Settings) error {
	tw := table(w)
	fmt.Fprintf(tw, "Base currency\t%s\t\n", s.BaseCurrency)
	fmt.Fprintf(tw, "Zakat rate\t%s%%\t\n", s.ZakatRate)
	fmt.Fprintf(tw, "Nisab\t%s\t\n", core.FormatMoney(s.Nisab))
	fmt.Fprintf(tw, "Gold 24k per tola\t%s\t\n", core.FormatMoney(s.GoldPrice24K))
	fmt.Fprintf(tw, "Gold 22k per tola\t%s\t\n", core.FormatMoney(s.GoldPrice22K))
	fmt.Fprintf(tw, "Gold 18k per tola\t%s\t\n", core.FormatMoney(s.GoldPrice18K))

	codes := make([]string, 0, len(s.CurrencyRates))
	for c := range s.CurrencyRates {
		codes = append(codes, c)
	}
	slices.Sort(codes)
	for _, c := range codes {
		fmt.Fprintf(tw, "1 %s\t%s %s\t\n", c, s.CurrencyRates[c], s.BaseCurrency)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, entries []archive.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No archived years")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "Year\tZakat due\tPaid\tRemaining\tMembers\tRecipients\t")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t\n", e.Year,
			core.FormatMoney(e.Obligation), core.FormatMoney(e.TotalPaid), core.FormatMoney(e.Remaining),
			e.MemberCount, e.RecipientCount)
	}
	return tw.Flush()
}
