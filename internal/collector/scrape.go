package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"MorningRadar/internal/model"
)

func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	body, err := utf8Body(resp)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// FlowScraper reads investor net buying from an index summary page.
type FlowScraper struct {
	URL                 string
	Market              string
	ForeignSelector     string
	InstitutionSelector string
	IndividualSelector  string
	Client              *http.Client
}

func (s *FlowScraper) FetchFlow(ctx context.Context) (*model.InvestorFlow, error) {
	doc, err := fetchDocument(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}

	flow := &model.InvestorFlow{Market: s.Market}
	fields := []struct {
		name     string
		selector string
		dst      *float64
	}{
		{"foreign", s.ForeignSelector, &flow.Foreign},
		{"institution", s.InstitutionSelector, &flow.Institution},
		{"individual", s.IndividualSelector, &flow.Individual},
	}
	for _, f := range fields {
		text := strings.TrimSpace(doc.Find(f.selector).First().Text())
		if text == "" {
			return nil, fmt.Errorf("flow: %s not found with %q", f.name, f.selector)
		}
		v, err := ParseAmount(text)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return flow, nil
}

// ParseAmount parses figures such as "+1,234", "-567억" or "▼ 89".
func ParseAmount(text string) (float64, error) {
	var b strings.Builder
	negative := strings.ContainsAny(text, "-▼−")
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, fmt.Errorf("no number in %q", text)
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", text, err)
	}
	if negative {
		v = -v
	}
	return v, nil
}

// NewsScraper collects headline links matching a selector.
type NewsScraper struct {
	URL      string
	Selector string
	Limit    int
	Client   *http.Client
}

func (s *NewsScraper) FetchHeadlines(ctx context.Context) ([]model.Headline, error) {
	doc, err := fetchDocument(ctx, s.Client, s.URL)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("parse news url: %w", err)
	}

	var out []model.Headline
	seen := make(map[string]bool)
	doc.Find(s.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.Join(strings.Fields(sel.Text()), " ")
		if title == "" || seen[title] {
			return true
		}
		seen[title] = true

		h := model.Headline{Title: title}
		if href, ok := sel.Attr("href"); ok {
			if u, err := base.Parse(href); err == nil {
				h.URL = u.String()
			}
		}
		out = append(out, h)
		return s.Limit <= 0 || len(out) < s.Limit
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("news: no headlines matched %q", s.Selector)
	}
	return out, nil
}
