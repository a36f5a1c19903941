package fundamentals

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func ratioSelection(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc.Find("li").First()
}

func TestParseRatio(t *testing.T) {
	cases := []struct {
		name  string
		html  string
		want  float64
		found bool
	}{
		{
			"plain value",
			`<li><span class="name">Stock P/E</span><span class="number">24.5</span></li>`,
			24.5, true,
		},
		{
			"thousands separator",
			`<li><span class="name">Stock P/E</span><span class="number">1,024.5</span></li>`,
			1024.5, true,
		},
		{
			"missing number",
			`<li><span class="name">Stock P/E</span><span class="number"></span></li>`,
			0, false,
		},
		{
			"non-numeric",
			`<li><span class="name">Stock P/E</span><span class="number">n/a</span></li>`,
			0, false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, found := parseRatio(ratioSelection(t, tc.html))
			if found != tc.found {
				t.Fatalf("expected found=%v, got %v", tc.found, found)
			}
			if got != tc.want {
				t.Errorf("expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestNewScreenerDefaults(t *testing.T) {
	s := NewScreener(nil)
	if s.log == nil {
		t.Error("expected a no-op logger when none is given")
	}
	if s.rateLimit <= 0 {
		t.Error("expected a positive rate limit")
	}
}
