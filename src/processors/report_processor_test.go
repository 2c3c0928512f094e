package processors

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/kuyumcu/backend/src/models"
)

var istanbul = time.FixedZone("TRT", 3*60*60)

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func exampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Cash:      models.CashBalance{TL: 15000, USD: 200, EUR: 0},
		Gold:      models.GoldBalance{Quarter: 2, Half: 1, Full: 0},
		GramItems: []models.GramItem{{ID: "g1", Weight: 10, Fineness: 995, Date: "2024-05-20"}},
		Finance: []models.FinanceRecord{
			{ID: "f1", Type: models.FinanceReceivable, Name: "Ali", Amount: f64(500), Currency: "tl", Date: "2024-01-01"},
		},
	}
}

func TestBuild_Example(t *testing.T) {
	p := NewReportProcessor(istanbul)
	generatedAt := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)

	report, err := p.Build(exampleSnapshot(), "2024-06-01", generatedAt)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", report.Date)
	assert.Equal(t, "2024-06-01T17:00:00.000Z", report.GeneratedAt)
	assert.InDelta(t, 7.00, report.ZiynetSummary.TotalWeight, 1e-9)
	assert.InDelta(t, 6.412, report.ZiynetSummary.TotalHas, 1e-9)
	assert.Equal(t, 2, report.ZiynetSummary.Details.Quarter.Count)
	assert.InDelta(t, 3.5, report.ZiynetSummary.Details.Quarter.Weight, 1e-9)
	assert.InDelta(t, 3.5, report.ZiynetSummary.Details.Half.Weight, 1e-9)
	assert.Equal(t, 1, report.GramSummary.ItemCount)
	assert.InDelta(t, 9.95, report.GramSummary.TotalHas, 1e-9)
	assert.Equal(t, 0, report.TransactionCount)
	assert.NotNil(t, report.Transactions)
	require.Len(t, report.OverdueReceivables, 1)
	assert.Equal(t, "Ali", report.OverdueReceivables[0].Name)
	assert.Equal(t, []string{
		"1 adet vadesi geçmiş/bugüne kadar olan alacak var.",
		"Bugün işlem kaydı yapılmadı.",
	}, report.Warnings)

	text := report.ReportText
	assert.Contains(t, text, "                    01.06.2024\n")
	assert.Contains(t, text, "📅 Rapor Oluşturma: 01.06.2024 20:00:00\n")
	assert.Contains(t, text, "TL:  ₺15.000\n")
	assert.Contains(t, text, "USD: $200\n")
	assert.Contains(t, text, "EUR: €0\n\n")
	assert.Contains(t, text, "Çeyrek: 2 adet (3.50 gr)\n")
	assert.Contains(t, text, "Yarım:  1 adet (3.50 gr)\n")
	assert.Contains(t, text, "Tam:    0 adet (0.00 gr)\n")
	assert.Contains(t, text, "Toplam Brüt: 7.00 gr\n")
	assert.Contains(t, text, "Toplam Has (916 milyem): 6.41 gr\n")
	assert.Contains(t, text, "  - 10 gr (995 milyem) = 9.95 gr has\n")
	assert.Contains(t, text, "Bugün işlem yapılmadı.\n")
	assert.Contains(t, text, "• Ali: ₺500 (Vade: 2024-01-01)\n")
	assert.Contains(t, text, "• Bugün işlem kaydı yapılmadı.\n")
	assert.True(t, strings.HasPrefix(text, strings.Repeat("═", 63)+"\n"))
	assert.True(t, strings.HasSuffix(text, "RAPOR SONU\n"+strings.Repeat("═", 63)+"\n"))
}

func TestBuild_SectionOrder(t *testing.T) {
	p := NewReportProcessor(istanbul)
	report, err := p.Build(exampleSnapshot(), "2024-06-01", time.Unix(0, 0))
	require.NoError(t, err)

	last := -1
	for _, title := range []string{
		"GÜNLÜK RAPOR", "KASA DURUMU", "ZİYNET ALTIN STOKU", "GRAM ALTIN", "GÜNLÜK İŞLEMLER",
		"VADESİ GEÇEN ALACAKLAR", "UYARILAR", "RAPOR SONU",
	} {
		idx := strings.Index(report.ReportText, title)
		require.GreaterOrEqual(t, idx, 0, "missing section %s", title)
		assert.Greater(t, idx, last, "section %s out of order", title)
		last = idx
	}
}

func TestBuild_Deterministic(t *testing.T) {
	p := NewReportProcessor(istanbul)
	snap := exampleSnapshot()
	snap.Transactions = []models.Transaction{
		{ID: "t1", Date: "2024-06-01T07:15:00.000Z", Type: models.TxCashIn, Amount: f64(1234.5), Currency: "tl"},
	}
	at := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)

	first, err := p.Build(snap, "2024-06-01", at)
	require.NoError(t, err)
	second, err := p.Build(snap, "2024-06-01", at)
	require.NoError(t, err)

	assert.Equal(t, first.ReportText, second.ReportText)
	assert.Equal(t, first, second)
}

func TestBuild_TransactionsFilteredByLocalDay(t *testing.T) {
	p := NewReportProcessor(istanbul)
	snap := models.Snapshot{Transactions: []models.Transaction{
		{ID: "1", Date: "2024-05-31T21:30:00.000Z", Type: models.TxCashIn, Amount: f64(100), Currency: "tl"},
		{ID: "2", Date: "2024-06-01T22:30:00Z", Type: models.TxCashOut, Amount: f64(50), Currency: "usd"},
		{ID: "3", Date: "2024-06-01T10:00:00", Type: models.TxGoldSale, GoldType: models.GoldHalf, GoldCount: intp(3)},
		{ID: "4", Date: "not a date", Type: models.TxCashIn, Amount: f64(1)},
		{ID: "5", Date: "2024-06-01", Type: models.TxGramIn, GramWeight: f64(12.5), GramFineness: intp(585), Description: "hurda\nalım"},
	}}

	report, err := p.Build(snap, "2024-06-01", time.Unix(0, 0))
	require.NoError(t, err)

	var ids []models.ID
	for _, tx := range report.Transactions {
		ids = append(ids, tx.ID)
	}
	assert.Equal(t, []models.ID{"1", "3", "5"}, ids)
	assert.Equal(t, 3, report.TransactionCount)
	assert.NotContains(t, report.Warnings, "Bugün işlem kaydı yapılmadı.")

	assert.Contains(t, report.ReportText, "[00:30] NAKİT GİRİŞ: ₺100\n")
	assert.Contains(t, report.ReportText, "[10:00] ALTIN SATIŞ: 3 Yarım\n")
	assert.Contains(t, report.ReportText, "[00:00] GRAM GİRİŞ: 12.5 gr (585 milyem) - hurda alım\n")
}

func TestBuild_OverdueReceivables(t *testing.T) {
	p := NewReportProcessor(istanbul)
	snap := models.Snapshot{Finance: []models.FinanceRecord{
		{ID: "1", Type: models.FinanceReceivable, Name: "Due today", Amount: f64(10), Date: "2024-06-01"},
		{ID: "2", Type: models.FinanceReceivable, Name: "Tomorrow", Amount: f64(10), Date: "2024-06-02"},
		{ID: "3", Type: models.FinanceDebt, Name: "Debt", Amount: f64(10), Date: "2024-01-01"},
		{ID: "4", Type: models.FinanceReceivable, Name: "No date", Amount: f64(10)},
		{ID: "5", Type: models.FinanceReceivable, Name: "Garbage", Amount: f64(10), Date: "31/05/2024"},
		{ID: "6", Type: models.FinanceReceivable, Name: "Ayşe", Currency: models.CurrencyZiynet, Quarter: intp(2), Half: intp(0), Full: intp(1), Date: "2024-05-01"},
		{ID: "7", Type: models.FinanceReceivable, Name: "Mehmet", Currency: models.CurrencyGram, Weight: f64(5.5), Fineness: intp(916), Date: "2024-05-02"},
		{ID: "8", Type: models.FinanceReceivable, Name: "A & B", Amount: f64(75.25), Currency: "eur", Date: "2024-05-31T23:30:00Z"},
	}}

	report, err := p.Build(snap, "2024-06-01", time.Unix(0, 0))
	require.NoError(t, err)

	var names []string
	for _, rec := range report.OverdueReceivables {
		names = append(names, rec.Name)
	}
	assert.Equal(t, []string{"Due today", "Ayşe", "Mehmet", "A & B"}, names)
	assert.Equal(t, "4 adet vadesi geçmiş/bugüne kadar olan alacak var.", report.Warnings[0])

	assert.Contains(t, report.ReportText, "• Ayşe: 2 Çeyrek, 0 Yarım, 1 Tam (Vade: 2024-05-01)\n")
	assert.Contains(t, report.ReportText, "• Mehmet: 5.5 gr (916 milyem) (Vade: 2024-05-02)\n")
	assert.Contains(t, report.ReportText, "• A & B: €75,25 (Vade: 2024-05-31T23:30:00Z)\n")
}

func TestBuild_NoWarningsOmitsSections(t *testing.T) {
	p := NewReportProcessor(istanbul)
	snap := models.Snapshot{Transactions: []models.Transaction{
		{ID: "1", Date: "2024-06-01T09:00:00+03:00", Type: models.TxGoldBuy, GoldType: models.GoldFull, GoldCount: intp(1)},
	}}

	report, err := p.Build(snap, "2024-06-01", time.Unix(0, 0))
	require.NoError(t, err)

	assert.Empty(t, report.Warnings)
	assert.NotNil(t, report.Warnings)
	assert.Empty(t, report.OverdueReceivables)
	assert.NotContains(t, report.ReportText, "UYARILAR")
	assert.NotContains(t, report.ReportText, "VADESİ GEÇEN ALACAKLAR")
	assert.NotContains(t, report.ReportText, "Detay:")
	assert.Contains(t, report.ReportText, "[09:00] ALTIN ALIŞ: 1 Tam\n")
}

func TestBuild_InvalidDay(t *testing.T) {
	p := NewReportProcessor(istanbul)
	for _, day := range []string{"", "2024-13-01", "01.06.2024", "2024-06-31"} {
		_, err := p.Build(models.Snapshot{}, day, time.Now())
		assert.ErrorIs(t, err, ErrInvalidDay, "day %q", day)
	}
}

func TestSummarizeZiynet_Grid(t *testing.T) {
	for q := 0; q <= 4; q++ {
		for h := 0; h <= 4; h++ {
			for f := 0; f <= 4; f++ {
				s := SummarizeZiynet(models.GoldBalance{Quarter: q, Half: h, Full: f})
				want := float64(q)*1.75 + float64(h)*3.50 + float64(f)*7.00
				assert.InDelta(t, want, s.TotalWeight, 1e-9)
				assert.InDelta(t, want*0.916, s.TotalHas, 1e-9)
				assert.InDelta(t, s.TotalWeight, s.Details.Quarter.Weight+s.Details.Half.Weight+s.Details.Full.Weight, 1e-9)
			}
		}
	}
}

func TestSummarizeGram(t *testing.T) {
	s := SummarizeGram([]models.GramItem{{Weight: 10, Fineness: 995}, {Weight: 20, Fineness: 585}})
	assert.Equal(t, 2, s.ItemCount)
	assert.InDelta(t, 9.95+11.7, s.TotalHas, 1e-9)

	empty := SummarizeGram(nil)
	assert.Equal(t, 0, empty.ItemCount)
	assert.Zero(t, empty.TotalHas)
}

func TestDay_UsesLocation(t *testing.T) {
	p := NewReportProcessor(istanbul)
	assert.Equal(t, "2024-06-02", p.Day(time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)))
	assert.Equal(t, istanbul, p.Location())
	assert.Equal(t, time.Local, NewReportProcessor(nil).Location())
}
