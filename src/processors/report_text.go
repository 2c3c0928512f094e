package processors

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/kuyumcu/backend/src/models"
	"github.com/username/kuyumcu/backend/src/security/validation"
)

var (
	bannerRule  = strings.Repeat("═", 63) + "\n"
	sectionRule = strings.Repeat("─", 63) + "\n"
)

const (
	dateLayoutTR     = "02.01.2006"
	dateTimeLayoutTR = "02.01.2006 15:04:05"
	clockLayout      = "15:04"
)

// DenominationLabel returns the Turkish label of a ziynet denomination.
func DenominationLabel(goldType string) string {
	switch goldType {
	case models.GoldQuarter:
		return "Çeyrek"
	case models.GoldHalf:
		return "Yarım"
	default:
		return "Tam"
	}
}

// TransactionDetail renders the type-specific part of a transaction line.
func TransactionDetail(tx models.Transaction) string {
	switch tx.Type {
	case models.TxCashIn:
		return "NAKİT GİRİŞ: " + FormatMoney(models.Float(tx.Amount), tx.Currency)
	case models.TxCashOut:
		return "NAKİT ÇIKIŞ: " + FormatMoney(models.Float(tx.Amount), tx.Currency)
	case models.TxGoldSale:
		return fmt.Sprintf("ALTIN SATIŞ: %d %s", models.Int(tx.GoldCount), DenominationLabel(tx.GoldType))
	case models.TxGoldBuy:
		return fmt.Sprintf("ALTIN ALIŞ: %d %s", models.Int(tx.GoldCount), DenominationLabel(tx.GoldType))
	case models.TxGramIn:
		return fmt.Sprintf("GRAM GİRİŞ: %s gr (%d milyem)", FormatPlain(models.Float(tx.GramWeight)), models.Int(tx.GramFineness))
	case models.TxGramOut:
		return fmt.Sprintf("GRAM ÇIKIŞ: %s gr (%d milyem)", FormatPlain(models.Float(tx.GramWeight)), models.Int(tx.GramFineness))
	}
	return ""
}

// ReceivableAmount renders what a finance record is worth in its own unit.
func ReceivableAmount(rec models.FinanceRecord) string {
	switch rec.EffectiveCurrency() {
	case models.CurrencyZiynet:
		return fmt.Sprintf("%d Çeyrek, %d Yarım, %d Tam", models.Int(rec.Quarter), models.Int(rec.Half), models.Int(rec.Full))
	case models.CurrencyGram:
		return fmt.Sprintf("%s gr (%d milyem)", FormatPlain(models.Float(rec.Weight)), models.Int(rec.Fineness))
	default:
		return FormatMoney(models.Float(rec.Amount), rec.EffectiveCurrency())
	}
}

func (p *ReportProcessor) renderText(r *models.DailyReport, gramItems []models.GramItem, day, generatedAt time.Time) string {
	var b strings.Builder

	section := func(title string) {
		b.WriteString(sectionRule)
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(sectionRule)
	}

	b.WriteString(bannerRule)
	b.WriteString("                    GÜNLÜK RAPOR\n")
	fmt.Fprintf(&b, "                    %s\n", day.Format(dateLayoutTR))
	b.WriteString(bannerRule)
	b.WriteString("\n")

	fmt.Fprintf(&b, "📅 Rapor Oluşturma: %s\n\n", generatedAt.In(p.loc).Format(dateTimeLayoutTR))

	section("                    KASA DURUMU")
	fmt.Fprintf(&b, "TL:  %s\n", FormatMoney(r.CashBalance.TL, models.CurrencyTL))
	fmt.Fprintf(&b, "USD: %s\n", FormatMoney(r.CashBalance.USD, models.CurrencyUSD))
	fmt.Fprintf(&b, "EUR: %s\n\n", FormatMoney(r.CashBalance.EUR, models.CurrencyEUR))

	z := r.ZiynetSummary
	section("                    ZİYNET ALTIN STOKU")
	fmt.Fprintf(&b, "Çeyrek: %d adet (%s gr)\n", z.Details.Quarter.Count, FormatFixed2(z.Details.Quarter.Weight))
	fmt.Fprintf(&b, "Yarım:  %d adet (%s gr)\n", z.Details.Half.Count, FormatFixed2(z.Details.Half.Weight))
	fmt.Fprintf(&b, "Tam:    %d adet (%s gr)\n", z.Details.Full.Count, FormatFixed2(z.Details.Full.Weight))
	fmt.Fprintf(&b, "Toplam Brüt: %s gr\n", FormatFixed2(z.TotalWeight))
	fmt.Fprintf(&b, "Toplam Has (916 milyem): %s gr\n\n", FormatFixed2(z.TotalHas))

	section("                    GRAM ALTIN")
	fmt.Fprintf(&b, "Toplam Kayıt: %d adet\n", r.GramSummary.ItemCount)
	fmt.Fprintf(&b, "Toplam Has: %s gr\n", FormatFixed2(r.GramSummary.TotalHas))
	if len(gramItems) > 0 {
		b.WriteString("\nDetay:\n")
		for _, g := range gramItems {
			fmt.Fprintf(&b, "  - %s gr (%d milyem) = %s gr has\n",
				FormatPlain(g.Weight), g.Fineness, FormatFixed2(GramHas(g.Weight, g.Fineness)))
		}
	}
	b.WriteString("\n")

	section("                    GÜNLÜK İŞLEMLER")
	if len(r.Transactions) == 0 {
		b.WriteString("Bugün işlem yapılmadı.\n\n")
	} else {
		for _, tx := range r.Transactions {
			clock := "--:--"
			if t, ok := p.parseTimestamp(tx.Date); ok {
				clock = t.In(p.loc).Format(clockLayout)
			}
			line := fmt.Sprintf("[%s] %s", clock, TransactionDetail(tx))
			if desc := validation.SingleLine(tx.Description); desc != "" {
				line += " - " + desc
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(r.OverdueReceivables) > 0 {
		section("              ⚠️ VADESİ GEÇEN ALACAKLAR")
		for _, rec := range r.OverdueReceivables {
			name := validation.TruncateRunes(validation.SingleLine(rec.Name), validation.MaxReportNameLength)
			fmt.Fprintf(&b, "• %s: %s (Vade: %s)\n", name, ReceivableAmount(rec), strings.TrimSpace(rec.Date))
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		section("                    ⚠️ UYARILAR")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "• %s\n", w)
		}
		b.WriteString("\n")
	}

	b.WriteString(bannerRule)
	b.WriteString("                    RAPOR SONU\n")
	b.WriteString(bannerRule)

	return b.String()
}
