// Package rates scrapes published fixed-deposit interest rates from bank
// websites so the app can show users a current reference when they plan FD
// investments.
package rates

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/paisatrack/backend/internal/logger"
	"github.com/paisatrack/backend/internal/metrics"
	"github.com/paisatrack/backend/internal/model"
)

// Source is one bank page to scrape. Selector must match the rows of the
// rate table; the first cell is the tenure, the second the annual rate.
type Source struct {
	BankName string
	URL      string
	Selector string
}

// DefaultSources covers the banks shown in the app's FD comparison view.
var DefaultSources = []Source{
	{BankName: "SBI", URL: "https://sbi.co.in/web/interest-rates/deposit-rates/retail-domestic-term-deposits", Selector: "table tbody tr"},
	{BankName: "HDFC", URL: "https://www.hdfcbank.com/personal/save/deposits/fixed-deposit-interest-rate", Selector: "table tbody tr"},
	{BankName: "ICICI", URL: "https://www.icicibank.com/personal-banking/deposits/fixed-deposit/fd-interest-rates", Selector: "table tbody tr"},
}

// RateStore is where scraped rates land.
type RateStore interface {
	Upsert(ctx context.Context, rate *model.InterestRate) error
}

// Scraper fetches and parses FD rate tables.
type Scraper struct {
	store   RateStore
	sources []Source
	client  *http.Client
	now     func() time.Time
}

// NewScraper creates a scraper over the given sources; nil sources means
// DefaultSources.
func NewScraper(store RateStore, sources []Source) *Scraper {
	if sources == nil {
		sources = DefaultSources
	}
	return &Scraper{
		store:   store,
		sources: sources,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     time.Now,
	}
}

// ScrapeAll visits every source and stores what it can parse. A failing
// source is logged and skipped; the others still run.
func (s *Scraper) ScrapeAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	stored := 0
	var firstErr error

	for _, src := range s.sources {
		rates, err := s.scrapeSource(ctx, src)
		if err != nil {
			log.Warn("rate scrape failed", "bank", src.BankName, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		for i := range rates {
			if err := s.store.Upsert(ctx, &rates[i]); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("storing rate for %s: %w", src.BankName, err)
				}
				continue
			}
			stored++
		}
	}

	metrics.ScrapedRates.Set(float64(stored))
	return stored, firstErr
}

func (s *Scraper) scrapeSource(ctx context.Context, src Source) ([]model.InterestRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", src.BankName, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; paisatrack/1.0)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s rates: %w", src.BankName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s rates: status %d", src.BankName, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s page: %w", src.BankName, err)
	}

	scrapedAt := s.now().UTC()
	var rates []model.InterestRate
	doc.Find(src.Selector).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		months, ok := ParseTerm(cells.Eq(0).Text())
		if !ok {
			return
		}
		rate, ok := ParseRate(cells.Eq(1).Text())
		if !ok {
			return
		}

		rates = append(rates, model.InterestRate{
			BankName:   src.BankName,
			TermMonths: months,
			Rate:       rate,
			ScrapedAt:  scrapedAt,
		})
	})
	return rates, nil
}

var (
	yearRe  = regexp.MustCompile(`(\d+)\s*(?:year|yr)`)
	monthRe = regexp.MustCompile(`(\d+)\s*month`)
	dayRe   = regexp.MustCompile(`(\d+)\s*day`)
	rateRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%?`)
)

// ParseTerm extracts a tenure in months from labels like "1 Year", "6
// months" or "180 days". Day tenures round down to whole months; anything
// under a month is dropped.
func ParseTerm(text string) (int, bool) {
	text = strings.ToLower(strings.TrimSpace(text))

	if m := yearRe.FindStringSubmatch(text); m != nil {
		years, _ := strconv.Atoi(m[1])
		return years * 12, true
	}
	if m := monthRe.FindStringSubmatch(text); m != nil {
		months, _ := strconv.Atoi(m[1])
		return months, true
	}
	if m := dayRe.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		months := days / 30
		return months, months >= 1
	}
	return 0, false
}

// ParseRate extracts an annual percentage like "7.25%" as a decimal.
func ParseRate(text string) (decimal.Decimal, bool) {
	m := rateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(m[1])
	if err != nil || rate.IsZero() || rate.GreaterThan(decimal.NewFromInt(25)) {
		// Zero or implausibly high numbers are parse noise, not rates.
		return decimal.Zero, false
	}
	return rate, true
}
