package collector

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html/charset"

	"github.com/dannijak/IS-Macro/internal/model"
)

const (
	// DefaultCBIBaseURL is the Central Bank of Iceland XML time-series endpoint.
	DefaultCBIBaseURL = "https://www.sedlabanki.is/xmltimeseries/Default.aspx"
	// PenaltyRateSeriesID is the CBI series of statutory penalty (default) interest.
	PenaltyRateSeriesID = 22
)

// CBIFetcher implements Fetcher using the Central Bank of Iceland XML time series.
type CBIFetcher struct {
	BaseURL  string
	SeriesID int
	Client   *retryablehttp.Client
}

// NewCBIFetcher creates a fetcher with optional proxy support. retryMax 0
// means a single attempt.
func NewCBIFetcher(baseURL string, seriesID int, proxyURL string, timeout time.Duration, retryMax int) *CBIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	client.RetryMax = retryMax
	client.Logger = log.Default()
	// Hand non-2xx responses back so the status check below reports them.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &CBIFetcher{
		BaseURL:  baseURL,
		SeriesID: seriesID,
		Client:   client,
	}
}

func (f *CBIFetcher) Name() string { return "cbi" }

func (f *CBIFetcher) endpoint(from, to civil.Date) string {
	q := url.Values{}
	q.Set("DagsFra", from.String())
	q.Set("DagsTil", to.String())
	q.Set("TimeSeriesID", strconv.Itoa(f.SeriesID))
	q.Set("Type", "xml")
	return f.BaseURL + "?" + q.Encode()
}

func (f *CBIFetcher) FetchRates(ctx context.Context, from, to civil.Date) ([]model.RateEntry, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(from, to), nil)
	if err != nil {
		return nil, f.fail(err)
	}
	req.Header.Set("Accept", "application/xml, text/xml")

	resp, err := f.Client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, f.fail(fmt.Errorf("fetch series %d: %w", f.SeriesID, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, f.fail(fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	entries, err := ParseCBIEntries(resp.Body)
	if err != nil {
		return nil, f.fail(err)
	}
	log.Printf("[INFO] cbi series %d: %d entries between %s and %s", f.SeriesID, len(entries), from, to)
	return entries, nil
}

func (f *CBIFetcher) fail(err error) error {
	return &model.DataSourceError{Source: f.Name(), Err: err}
}

// cbiEntry is one <Entry> element of the CBI XML document.
type cbiEntry struct {
	Date  string `xml:"Date"`
	Value string `xml:"Value"`
}

var cbiDateLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"2.1.2006",
}

// ParseCBIEntries decodes every <Entry> element in the document, wherever it
// is nested, and returns the entries in ascending date order.
func ParseCBIEntries(r io.Reader) ([]model.RateEntry, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var entries []model.RateEntry
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode xml: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Entry" {
			continue
		}
		var raw cbiEntry
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		e, err := raw.toRateEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })
	return entries, nil
}

func (e cbiEntry) toRateEntry() (model.RateEntry, error) {
	date, err := parseCBIDate(strings.TrimSpace(e.Date))
	if err != nil {
		return model.RateEntry{}, err
	}
	v := strings.ReplaceAll(strings.TrimSpace(e.Value), ",", ".")
	pct, err := decimal.NewFromString(v)
	if err != nil {
		return model.RateEntry{}, fmt.Errorf("entry %s: parse value %q: %w", date, e.Value, err)
	}
	return model.RateEntry{Date: date, Percent: pct}, nil
}

func parseCBIDate(s string) (civil.Date, error) {
	for _, layout := range cbiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(t), nil
		}
	}
	return civil.Date{}, fmt.Errorf("parse entry date %q: unknown layout", s)
}
