package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"travelFront/internal/models"
	"travelFront/internal/repositories"
)

func TestFormatCurrency(t *testing.T) {
	rates := models.ExchangeRates{USD: 82.65, CNY: 10}
	tests := []struct {
		name string
		rub  float64
		lang models.Language
		want string
	}{
		{"dollars", 826.5, models.LangEN, "$10"},
		{"dollars with cents", 1000, models.LangEN, "$12.1"},
		{"yuan", 1000, models.LangZH, "¥100"},
		{"rubles grouped", 1000, models.LangRU, "1 000 ₽"},
		{"rubles large", 1234567, models.LangRU, "1 234 567 ₽"},
		{"unknown language is rubles", 500, models.Language("de"), "500 ₽"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCurrency(tt.rub, tt.lang, rates); got != tt.want {
				t.Fatalf("expected %q got %q", tt.want, got)
			}
		})
	}
}

func TestConvertPriceFallsBackOnBadRate(t *testing.T) {
	got := ConvertPrice(models.DefaultUSDRate*2, models.LangEN, models.ExchangeRates{})
	if got != 2 {
		t.Fatalf("expected default rate to be used, got %v", got)
	}
}

func TestNegotiateLanguage(t *testing.T) {
	tests := []struct {
		saved, accept string
		want          models.Language
	}{
		{"en", "zh-CN", models.LangEN},
		{"", "zh-CN,zh;q=0.9", models.LangZH},
		{"", "en-GB,en;q=0.8", models.LangEN},
		{"fr", "", models.LangRU},
		{"", "de-DE", models.LangRU},
		{"", "ru-RU", models.LangRU},
	}
	for _, tt := range tests {
		if got := NegotiateLanguage(tt.saved, tt.accept); got != tt.want {
			t.Fatalf("saved=%q accept=%q: expected %s got %s", tt.saved, tt.accept, tt.want, got)
		}
	}
}

const cbrSample = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="01.07.2025" name="Foreign Currency Market">
<Valute ID="R01235"><NumCode>840</NumCode><CharCode>USD</CharCode><Nominal>1</Nominal><Name>US Dollar</Name><Value>78,5200</Value></Valute>
<Valute ID="R01239"><NumCode>978</NumCode><CharCode>EUR</CharCode><Nominal>1</Nominal><Name>Euro</Name><Value>92,1000</Value></Valute>
<Valute ID="R01375"><NumCode>156</NumCode><CharCode>CNY</CharCode><Nominal>10</Nominal><Name>Yuan</Name><Value>109,5000</Value></Valute>
</ValCurs>`

func TestCBRClientFetch(t *testing.T) {
	var gotDate string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDate = r.URL.Query().Get("date_req")
		w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
		w.Write([]byte(cbrSample))
	}))
	defer server.Close()

	client := NewCBRClient(server.Client(), server.URL)
	rates, err := client.Fetch(context.Background(), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotDate != "01/07/2025" {
		t.Fatalf("expected date_req 01/07/2025 got %q", gotDate)
	}
	if rates.USD != 78.52 {
		t.Fatalf("expected USD 78.52 got %v", rates.USD)
	}
	if rates.CNY < 10.949 || rates.CNY > 10.951 {
		t.Fatalf("expected CNY per unit 10.95 got %v", rates.CNY)
	}
}

func TestParseCBRMissingCurrency(t *testing.T) {
	body := strings.Replace(cbrSample, `ID="R01375"`, `ID="R99999"`, 1)
	if _, _, err := parseCBR(strings.NewReader(body)); err == nil {
		t.Fatalf("expected error when CNY is missing")
	}
}

type countingFetcher struct {
	mu    sync.Mutex
	calls int
	rates models.ExchangeRates
	err   error
}

func (f *countingFetcher) Fetch(context.Context, time.Time) (models.ExchangeRates, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.rates, f.err
}

func TestExchangeRatesFetchedOncePerDay(t *testing.T) {
	fetcher := &countingFetcher{rates: models.ExchangeRates{USD: 80, CNY: 11}}
	repo := &repositories.RatesRepository{Store: repositories.NewMemoryStore()}
	svc := NewExchangeRateService(fetcher, repo, nil, time.UTC)

	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rates, err := svc.Current(ctx)
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		if rates.USD != 80 {
			t.Fatalf("unexpected rates %+v", rates)
		}
		now = now.Add(2 * time.Hour)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch on the same day got %d", fetcher.calls)
	}

	now = time.Date(2025, 7, 2, 0, 30, 0, 0, time.UTC)
	if _, err := svc.Current(ctx); err != nil {
		t.Fatalf("current: %v", err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected a refetch on the next day got %d", fetcher.calls)
	}
}

func TestExchangeRatesSurviveRestartViaRepository(t *testing.T) {
	store := repositories.NewMemoryStore()
	repo := &repositories.RatesRepository{Store: store}
	day := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	if err := repo.Save(context.Background(), models.ExchangeRates{USD: 81, CNY: 12, LastUpdated: day}); err != nil {
		t.Fatalf("save: %v", err)
	}

	fetcher := &countingFetcher{err: errors.New("must not be called")}
	svc := NewExchangeRateService(fetcher, repo, nil, time.UTC)
	svc.now = func() time.Time { return day.Add(time.Hour) }

	rates, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if rates.USD != 81 || fetcher.calls != 0 {
		t.Fatalf("expected cached rates without fetch, got %+v after %d calls", rates, fetcher.calls)
	}
}

func TestExchangeRatesFallBackToDefaults(t *testing.T) {
	fetcher := &countingFetcher{err: errors.New("upstream down")}
	svc := NewExchangeRateService(fetcher, nil, nil, time.UTC)

	if _, err := svc.Current(context.Background()); !errors.Is(err, models.ErrRatesUnavailable) {
		t.Fatalf("expected ErrRatesUnavailable got %v", err)
	}
	rates := svc.Rates(context.Background())
	if rates.USD != models.DefaultUSDRate || rates.CNY != models.DefaultCNYRate {
		t.Fatalf("expected default rates got %+v", rates)
	}
}

func TestExchangeRatesRejectZeroRate(t *testing.T) {
	fetcher := &countingFetcher{rates: models.ExchangeRates{USD: 80}}
	svc := NewExchangeRateService(fetcher, nil, nil, time.UTC)
	if _, err := svc.Refresh(context.Background()); !errors.Is(err, models.ErrRatesUnavailable) {
		t.Fatalf("expected zero CNY to be rejected, got %v", err)
	}
}
