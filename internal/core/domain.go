package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetKind names the asset variant as stored in the year document.
type AssetKind string

const (
	KindCash       AssetKind = "cash"
	KindBank       AssetKind = "bank"
	KindReceivable AssetKind = "receivable"
	KindGold       AssetKind = "gold"
	KindProperty   AssetKind = "property"
)

// Gold purity tiers in karats.
const (
	Purity24 = "24"
	Purity22 = "22"
	Purity18 = "18"
)

const (
	AccountSavings      = "Savings"
	AccountCurrent      = "Current"
	AccountFixedDeposit = "Fixed Deposit"
)

const (
	MethodCash         = "Cash"
	MethodBankTransfer = "Bank Transfer"
	MethodMobileWallet = "Mobile Wallet"
	MethodCheck        = "Check"
)

// RecipientCategory is one of the eight zakat-eligible classes.
type RecipientCategory string

const (
	CategoryPoor          RecipientCategory = "poor"
	CategoryNeedy         RecipientCategory = "needy"
	CategoryCollector     RecipientCategory = "collector"
	CategoryNewMuslim     RecipientCategory = "new_muslim"
	CategoryFreeingSlaves RecipientCategory = "freeing_slaves"
	CategoryDebtor        RecipientCategory = "debtor"
	CategoryCauseOfAllah  RecipientCategory = "cause_of_allah"
	CategoryWayfarer      RecipientCategory = "wayfarer"
)

var categoryLabels = map[RecipientCategory]string{
	CategoryPoor:          "Poor (Fuqara)",
	CategoryNeedy:         "Needy (Masakin)",
	CategoryCollector:     "Zakat Collector (Amil)",
	CategoryNewMuslim:     "New Muslim (Muallaf)",
	CategoryFreeingSlaves: "Freeing Slaves (Riqab)",
	CategoryDebtor:        "Debtor (Gharim)",
	CategoryCauseOfAllah:  "Cause of Allah (Fi Sabilillah)",
	CategoryWayfarer:      "Wayfarer (Ibn Sabil)",
}

// Categories returns the canonical categories in their traditional order.
func Categories() []RecipientCategory {
	return []RecipientCategory{
		CategoryPoor, CategoryNeedy, CategoryCollector, CategoryNewMuslim,
		CategoryFreeingSlaves, CategoryDebtor, CategoryCauseOfAllah, CategoryWayfarer,
	}
}

// IsValid reports whether c is one of the eight canonical categories.
func (c RecipientCategory) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// ParseCategory accepts a category code or its display label, in any case.
func ParseCategory(s string) (RecipientCategory, bool) {
	s = strings.TrimSpace(s)
	for c, label := range categoryLabels {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, label) {
			return c, true
		}
	}
	return "", false
}

// Label returns the display name, e.g. "Poor (Fuqara)".
func (c RecipientCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type (
	// Asset is the closed set of wealth records a snapshot can hold:
	// CashHolding, BankAccount, Receivable, GoldHolding and TradeProperty.
	Asset interface {
		AssetID() string
		Kind() AssetKind
		Validate() error
		sealed()
	}

	CashHolding struct {
		ID       string          `json:"id"`
		Holder   string          `json:"holder"`
		Location string          `json:"location"`
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}

	BankAccount struct {
		ID            string          `json:"id"`
		Holder        string          `json:"holder"`
		Bank          string          `json:"bank"`
		AccountNumber string          `json:"account"`
		AccountType   string          `json:"type"`
		Currency      string          `json:"currency"`
		Balance       decimal.Decimal `json:"balance"`
	}

	Receivable struct {
		ID       string          `json:"id"`
		Holder   string          `json:"holder"`
		Debtor   string          `json:"debtor"`
		Currency string          `json:"currency"`
		Amount   decimal.Decimal `json:"amount"`
	}

	// GoldHolding weight is in tola.
	GoldHolding struct {
		ID          string          `json:"id"`
		Owner       string          `json:"owner"`
		Description string          `json:"description"`
		Weight      decimal.Decimal `json:"weight"`
		Purity      string          `json:"purity"`
	}

	// TradeProperty is zakatable only when ForTrade is set; otherwise it is
	// personal-use property and exempt.
	TradeProperty struct {
		ID       string          `json:"id"`
		Owner    string          `json:"owner"`
		Name     string          `json:"name"`
		Type     string          `json:"type"`
		Location string          `json:"location"`
		Value    decimal.Decimal `json:"value"`
		ForTrade bool            `json:"for_trade"`
	}

	Member struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Mobile  string `json:"mobile"`
		NIC     string `json:"nic"`
		Address string `json:"address"`
	}

	Recipient struct {
		ID       string            `json:"id"`
		Name     string            `json:"name"`
		Category RecipientCategory `json:"category"`
		NIC      string            `json:"nic"`
		Mobile   string            `json:"mobile"`
		Address  string            `json:"address"`
	}

	Payment struct {
		ID          string          `json:"id"`
		RecipientID string          `json:"recipient_id"`
		Amount      decimal.Decimal `json:"amount"`
		Method      string          `json:"method"`
		Date        Date            `json:"date"`
		Notes       string          `json:"notes"`
	}
)

func (CashHolding) sealed()   {}
func (BankAccount) sealed()   {}
func (Receivable) sealed()    {}
func (GoldHolding) sealed()   {}
func (TradeProperty) sealed() {}

func (a CashHolding) AssetID() string   { return a.ID }
func (a BankAccount) AssetID() string   { return a.ID }
func (a Receivable) AssetID() string    { return a.ID }
func (a GoldHolding) AssetID() string   { return a.ID }
func (a TradeProperty) AssetID() string { return a.ID }

func (CashHolding) Kind() AssetKind   { return KindCash }
func (BankAccount) Kind() AssetKind   { return KindBank }
func (Receivable) Kind() AssetKind    { return KindReceivable }
func (GoldHolding) Kind() AssetKind   { return KindGold }
func (TradeProperty) Kind() AssetKind { return KindProperty }

var (
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidCategory = errors.New("invalid recipient category")
	ErrEmptyRecipient  = errors.New("empty recipient reference")
)

var currencyCode = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks the shape of an ISO-4217 style code. Whether a rate
// exists for it is a valuation concern, not a validation one.
func ValidateCurrency(code string) error {
	if !currencyCode.MatchString(code) {
		return &ValidationError{Field: "currency", Reason: ErrInvalidCurrency.Error() + " " + quote(code)}
	}
	return nil
}

func validateNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func validateNotBlank(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &ValidationError{Field: field, Reason: ErrEmptyName.Error()}
	}
	return nil
}

func (a CashHolding) Validate() error {
	if err := validateNotBlank("holder", a.Holder); err != nil {
		return err
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}
	return validateNonNegative("amount", a.Amount)
}

func (a BankAccount) Validate() error {
	if err := validateNotBlank("bank", a.Bank); err != nil {
		return err
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}
	return validateNonNegative("balance", a.Balance)
}

func (a Receivable) Validate() error {
	if err := validateNotBlank("debtor", a.Debtor); err != nil {
		return err
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return err
	}
	return validateNonNegative("amount", a.Amount)
}

// Validate accepts any purity string: unrecognized tiers are valued at the
// 18k price rather than rejected.
func (a GoldHolding) Validate() error {
	if err := validateNotBlank("owner", a.Owner); err != nil {
		return err
	}
	if !a.Weight.IsPositive() {
		return &ValidationError{Field: "weight", Reason: "must be positive"}
	}
	return nil
}

func (a TradeProperty) Validate() error {
	if err := validateNotBlank("name", a.Name); err != nil {
		return err
	}
	return validateNonNegative("value", a.Value)
}

func (m Member) Validate() error {
	return validateNotBlank("name", m.Name)
}

func (r Recipient) Validate() error {
	if err := validateNotBlank("name", r.Name); err != nil {
		return err
	}
	if !r.Category.IsValid() {
		return &ValidationError{Field: "category", Reason: ErrInvalidCategory.Error() + " " + quote(string(r.Category))}
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.RecipientID) == "" {
		return &ValidationError{Field: "recipient_id", Reason: ErrEmptyRecipient.Error()}
	}
	if !p.Amount.IsPositive() {
		return &ValidationError{Field: "amount", Reason: ErrInvalidAmount.Error()}
	}
	if p.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "date cannot be zero"}
	}
	return nil
}

func quote(s string) string {
	return "'" + s + "'"
}
