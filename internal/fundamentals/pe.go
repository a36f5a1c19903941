// Package fundamentals scrapes valuation ratios for the symbols under test.
// This is reporting-side enrichment, not an input to the simulation.
package fundamentals

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Quote is one symbol's scraped valuation snapshot.
type Quote struct {
	Symbol  string
	PERatio float64
	Found   bool
}

// Screener scrapes P/E ratios from the screener.in company pages.
type Screener struct {
	baseURL   string
	rateLimit time.Duration
	log       *zap.Logger
}

func NewScreener(log *zap.Logger) *Screener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Screener{
		baseURL:   "https://www.screener.in/company",
		rateLimit: 2 * time.Second,
		log:       log,
	}
}

// PERatio scrapes one company page. A page without the ratio yields a Quote
// with Found=false, not an error.
func (s *Screener) PERatio(symbol string) (Quote, error) {
	q := Quote{Symbol: symbol}

	c := colly.NewCollector(
		colly.AllowedDomains("www.screener.in"),
		colly.MaxDepth(1),
	)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0")
	})
	c.OnHTML("ul#top-ratios li", func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.DOM.Find("span.name").Text())
		if name != "Stock P/E" {
			return
		}
		q.PERatio, q.Found = parseRatio(e.DOM)
	})

	var fetchErr error
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	if err := c.Visit(fmt.Sprintf("%s/%s/", s.baseURL, symbol)); err != nil {
		return q, fmt.Errorf("visit %s: %w", symbol, err)
	}
	c.Wait()
	if fetchErr != nil {
		return q, fetchErr
	}
	return q, nil
}

func parseRatio(sel *goquery.Selection) (float64, bool) {
	txt := strings.TrimSpace(sel.Find("span.number").First().Text())
	txt = strings.ReplaceAll(txt, ",", "")
	if txt == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(txt, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Lookup scrapes each symbol sequentially with a polite delay. Failed
// lookups are logged and reported as not found; the rest of the batch
// continues.
func (s *Screener) Lookup(ctx context.Context, symbols []string) []Quote {
	quotes := make([]Quote, 0, len(symbols))
	for i, sym := range symbols {
		if err := ctx.Err(); err != nil {
			break
		}
		if i > 0 {
			time.Sleep(s.rateLimit)
		}
		q, err := s.PERatio(sym)
		if err != nil {
			s.log.Warn("pe lookup failed", zap.String("symbol", sym), zap.Error(err))
			q = Quote{Symbol: sym}
		}
		quotes = append(quotes, q)
	}
	return quotes
}
