package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Finance record types.
const (
	FinanceReceivable = "receivable"
	FinanceDebt       = "debt"
)

// Currencies used by cash transactions and finance records.
const (
	CurrencyTL     = "tl"
	CurrencyUSD    = "usd"
	CurrencyEUR    = "eur"
	CurrencyZiynet = "ziynet"
	CurrencyGram   = "gram"
)

// Ziynet coin denominations.
const (
	GoldQuarter = "quarter"
	GoldHalf    = "half"
	GoldFull    = "full"
)

// Transaction types.
const (
	TxCashIn   = "cash_in"
	TxCashOut  = "cash_out"
	TxGoldSale = "gold_sale"
	TxGoldBuy  = "gold_buy"
	TxGramIn   = "gram_in"
	TxGramOut  = "gram_out"
)

// ID is a json-server record id. The store holds both numeric ids (seed data) and
// string ids (Date.now().toString() from the frontend); both decode into the string form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// CashBalance is the register's cash per currency.
type CashBalance struct {
	TL  float64 `json:"tl"`
	USD float64 `json:"usd"`
	EUR float64 `json:"eur"`
}

// GoldBalance counts minted ziynet coins per denomination.
type GoldBalance struct {
	Quarter int `json:"quarter"`
	Half    int `json:"half"`
	Full    int `json:"full"`
}

// Count returns the coin count for a denomination name.
func (g GoldBalance) Count(denomination string) int {
	switch denomination {
	case GoldQuarter:
		return g.Quarter
	case GoldHalf:
		return g.Half
	case GoldFull:
		return g.Full
	}
	return 0
}

// GramItem is one bulk gold lot.
type GramItem struct {
	ID       ID      `json:"id"`
	Weight   float64 `json:"weight"`
	Fineness int     `json:"fineness"`
	Date     string  `json:"date"`
}

// FinanceRecord is a receivable or a debt. Depending on Currency the amount lives in
// Amount (tl/usd/eur), in Quarter/Half/Full (ziynet) or in Weight/Fineness (gram).
type FinanceRecord struct {
	ID          ID       `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Currency    string   `json:"currency,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Quarter     *int     `json:"quarter,omitempty"`
	Half        *int     `json:"half,omitempty"`
	Full        *int     `json:"full,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Fineness    *int     `json:"fineness,omitempty"`
	Date        string   `json:"date"`
	Description string   `json:"description,omitempty"`
}

// IsReceivable reports whether the record is money owed to the shop.
func (f FinanceRecord) IsReceivable() bool {
	return f.Type == FinanceReceivable
}

// EffectiveCurrency returns the record currency, defaulting to TL like the frontend does.
func (f FinanceRecord) EffectiveCurrency() string {
	if c := strings.TrimSpace(f.Currency); c != "" {
		return c
	}
	return CurrencyTL
}

// Transaction is one entry of the append-only activity log.
type Transaction struct {
	ID           ID       `json:"id"`
	Date         string   `json:"date"`
	Type         string   `json:"type"`
	Amount       *float64 `json:"amount,omitempty"`
	Currency     string   `json:"currency,omitempty"`
	GoldType     string   `json:"goldType,omitempty"`
	GoldCount    *int     `json:"goldCount,omitempty"`
	GramWeight   *float64 `json:"gramWeight,omitempty"`
	GramFineness *int     `json:"gramFineness,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Snapshot is the typed view of the store document consumed by the report aggregator.
type Snapshot struct {
	Cash         CashBalance     `json:"cash"`
	Gold         GoldBalance     `json:"gold"`
	GramItems    []GramItem      `json:"gramItems"`
	Finance      []FinanceRecord `json:"finance"`
	Transactions []Transaction   `json:"transactions"`
	DailyReports []DailyReport   `json:"dailyReports"`
}

// Float returns *p or 0.
func Float(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Int returns *p or 0.
func Int(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
