package processors

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/kuyumcu/backend/src/models"
)

// Fixed ziynet constants: unit gross weight per denomination (grams) and coin fineness.
const (
	QuarterWeight  = 1.75
	HalfWeight     = 3.50
	FullWeight     = 7.00
	ZiynetFineness = 0.916
)

const (
	dayLayout       = "2006-01-02"
	isoMillisLayout = "2006-01-02T15:04:05.000Z07:00"
)

var ErrInvalidDay = errors.New("invalid report day")

// Warning texts, always emitted in this order.
const (
	warnOverdueFormat  = "%d adet vadesi geçmiş/bugüne kadar olan alacak var."
	warnNoTransactions = "Bugün işlem kaydı yapılmadı."
)

// ReportProcessor aggregates a store snapshot into a DailyReport. It holds no state besides
// the location that defines calendar days, so Build is safe for concurrent use.
type ReportProcessor struct {
	loc *time.Location
}

func NewReportProcessor(loc *time.Location) *ReportProcessor {
	if loc == nil {
		loc = time.Local
	}
	return &ReportProcessor{loc: loc}
}

// Location returns the time zone calendar days are evaluated in.
func (p *ReportProcessor) Location() *time.Location {
	return p.loc
}

// Day returns the calendar day of t in the processor's location.
func (p *ReportProcessor) Day(t time.Time) string {
	return t.In(p.loc).Format(dayLayout)
}

// Build computes the report for day (YYYY-MM-DD) from snap. The snapshot is not modified and
// the result depends only on its inputs, so equal inputs give byte-identical report text.
func (p *ReportProcessor) Build(snap models.Snapshot, day string, generatedAt time.Time) (*models.DailyReport, error) {
	target, err := time.ParseInLocation(dayLayout, strings.TrimSpace(day), p.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, day)
	}
	day = target.Format(dayLayout)

	transactions := p.transactionsOn(snap.Transactions, day)
	ziynet := SummarizeZiynet(snap.Gold)
	gram := SummarizeGram(snap.GramItems)
	overdue := p.overdueReceivables(snap.Finance, day)
	warnings := buildWarnings(len(overdue), len(transactions))

	report := &models.DailyReport{
		Date:               day,
		GeneratedAt:        generatedAt.UTC().Format(isoMillisLayout),
		CashBalance:        snap.Cash,
		GoldBalance:        snap.Gold,
		ZiynetSummary:      ziynet,
		GramSummary:        gram,
		TransactionCount:   len(transactions),
		Transactions:       transactions,
		OverdueReceivables: overdue,
		Warnings:           warnings,
	}
	report.ReportText = p.renderText(report, snap.GramItems, target, generatedAt)
	return report, nil
}

// SummarizeZiynet computes gross and pure-gold weight of the coin stock.
func SummarizeZiynet(gold models.GoldBalance) models.ZiynetSummary {
	quarter := float64(gold.Quarter) * QuarterWeight
	half := float64(gold.Half) * HalfWeight
	full := float64(gold.Full) * FullWeight
	total := quarter + half + full

	return models.ZiynetSummary{
		TotalWeight: total,
		TotalHas:    total * ZiynetFineness,
		Details: models.ZiynetDetails{
			Quarter: models.CoinDetail{Count: gold.Quarter, Weight: quarter},
			Half:    models.CoinDetail{Count: gold.Half, Weight: half},
			Full:    models.CoinDetail{Count: gold.Full, Weight: full},
		},
	}
}

// SummarizeGram sums the pure-gold content over every gram lot in stock.
func SummarizeGram(items []models.GramItem) models.GramSummary {
	var has float64
	for _, item := range items {
		has += GramHas(item.Weight, item.Fineness)
	}
	return models.GramSummary{ItemCount: len(items), TotalHas: has}
}

// GramHas is the pure-gold equivalent of weight grams at fineness milyem.
func GramHas(weight float64, fineness int) float64 {
	return weight * float64(fineness) / 1000
}

func (p *ReportProcessor) transactionsOn(all []models.Transaction, day string) []models.Transaction {
	out := []models.Transaction{}
	for _, tx := range all {
		t, ok := p.parseTimestamp(tx.Date)
		if !ok {
			continue
		}
		if t.In(p.loc).Format(dayLayout) == day {
			out = append(out, tx)
		}
	}
	return out
}

func (p *ReportProcessor) overdueReceivables(records []models.FinanceRecord, day string) []models.FinanceRecord {
	out := []models.FinanceRecord{}
	for _, rec := range records {
		if !rec.IsReceivable() || strings.TrimSpace(rec.Date) == "" {
			continue
		}
		due, ok := p.calendarDay(rec.Date)
		if !ok {
			continue
		}
		// Fixed-width YYYY-MM-DD strings order like the dates they name.
		if due <= day {
			out = append(out, rec)
		}
	}
	return out
}

func buildWarnings(overdue, transactions int) []string {
	warnings := []string{}
	if overdue > 0 {
		warnings = append(warnings, fmt.Sprintf(warnOverdueFormat, overdue))
	}
	if transactions == 0 {
		warnings = append(warnings, warnNoTransactions)
	}
	return warnings
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	dayLayout,
}

// parseTimestamp accepts the ISO-8601 shapes written by the frontend. Layouts without an
// offset are read in the processor's location.
func (p *ReportProcessor) parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDay normalises a due date. Plain dates are taken as written; full timestamps are
// converted to the processor's location first.
func (p *ReportProcessor) calendarDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dayLayout, s, p.loc); err == nil {
		return t.Format(dayLayout), true
	}
	t, ok := p.parseTimestamp(s)
	if !ok {
		return "", false
	}
	return t.In(p.loc).Format(dayLayout), true
}
