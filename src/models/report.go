package models

// CoinDetail is the stock of one ziynet denomination.
type CoinDetail struct {
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// ZiynetDetails breaks the ziynet stock down by denomination.
type ZiynetDetails struct {
	Quarter CoinDetail `json:"quarter"`
	Half    CoinDetail `json:"half"`
	Full    CoinDetail `json:"full"`
}

// ZiynetSummary is the gross and pure-gold weight of the coin stock.
type ZiynetSummary struct {
	TotalWeight float64       `json:"totalWeight"`
	TotalHas    float64       `json:"totalHas"`
	Details     ZiynetDetails `json:"details"`
}

// GramSummary is the pure-gold total of the bulk gold stock.
type GramSummary struct {
	ItemCount int     `json:"itemCount"`
	TotalHas  float64 `json:"totalHas"`
}

// DailyReport is the end-of-day report. At most one per Date is persisted.
type DailyReport struct {
	ID                 ID              `json:"id,omitempty"`
	Date               string          `json:"date"`
	GeneratedAt        string          `json:"generatedAt"`
	CashBalance        CashBalance     `json:"cashBalance"`
	GoldBalance        GoldBalance     `json:"goldBalance"`
	ZiynetSummary      ZiynetSummary   `json:"ziynetSummary"`
	GramSummary        GramSummary     `json:"gramSummary"`
	TransactionCount   int             `json:"transactionCount"`
	Transactions       []Transaction   `json:"transactions"`
	OverdueReceivables []FinanceRecord `json:"overdueReceivables"`
	Warnings           []string        `json:"warnings"`
	ReportText         string          `json:"reportText"`
}
