package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dannijak/IS-Macro/internal/model"
)

const cbiSample = `<?xml version="1.0" encoding="utf-8"?>
<TimeSeriesData>
  <TimeSeries ID="22">
    <Name>Dráttarvextir</Name>
    <TimeSeriesData>
      <Entry><Date>2/1/2022 12:00:00 AM</Date><Value>9.75</Value></Entry>
      <Entry><Date>1/1/2022 12:00:00 AM</Date><Value>9,5</Value></Entry>
      <Entry><Date>3/1/2022 12:00:00 AM</Date><Value>10.25</Value></Entry>
    </TimeSeriesData>
  </TimeSeries>
</TimeSeriesData>`

func TestParseCBIEntries(t *testing.T) {
	entries, err := ParseCBIEntries(strings.NewReader(cbiSample))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, date(2022, 1, 1), entries[0].Date)
	assert.True(t, entries[0].Percent.Equal(decimal.RequireFromString("9.5")))
	assert.Equal(t, date(2022, 2, 1), entries[1].Date)
	assert.Equal(t, date(2022, 3, 1), entries[2].Date)
	assert.True(t, entries[2].Percent.Equal(decimal.RequireFromString("10.25")))
}

func TestParseCBIEntries_ISODates(t *testing.T) {
	doc := `<Root><Entry><Date>2022-01-01T00:00:00</Date><Value>9.5</Value></Entry><Entry><Date>2022-02-01</Date><Value>9.75</Value></Entry></Root>`
	entries, err := ParseCBIEntries(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, date(2022, 2, 1), entries[1].Date)
}

func TestParseCBIEntries_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"broken xml", `<Root><Entry><Date>2022-01-01</Date>`},
		{"bad date", `<Root><Entry><Date>yesterday</Date><Value>9.5</Value></Entry></Root>`},
		{"bad value", `<Root><Entry><Date>2022-01-01</Date><Value>n/a</Value></Entry></Root>`},
		{"empty value", `<Root><Entry><Date>2022-01-01</Date><Value></Value></Entry></Root>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCBIEntries(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestCBIFetcher_FetchRates(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"DagsFra":      q.Get("DagsFra"),
			"DagsTil":      q.Get("DagsTil"),
			"TimeSeriesID": q.Get("TimeSeriesID"),
			"Type":         q.Get("Type"),
		}
		w.Header().Set("Content-Type", "text/xml")
		_, _ = w.Write([]byte(cbiSample))
	}))
	defer srv.Close()

	f := NewCBIFetcher(srv.URL, PenaltyRateSeriesID, "", 5*time.Second, 0)
	entries, err := f.FetchRates(context.Background(), date(2022, 1, 1), date(2022, 3, 1))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, map[string]string{
		"DagsFra":      "2022-01-01",
		"DagsTil":      "2022-03-01",
		"TimeSeriesID": "22",
		"Type":         "xml",
	}, gotQuery)
}

func TestCBIFetcher_StatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewCBIFetcher(srv.URL, PenaltyRateSeriesID, "", 5*time.Second, 0)
	_, err := f.FetchRates(context.Background(), date(2022, 1, 1), date(2022, 3, 1))

	var dse *model.DataSourceError
	require.ErrorAs(t, err, &dse)
	assert.Equal(t, "cbi", dse.Source)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 1, calls, "retry_max 0 means a single attempt")
}

func TestCBIFetcher_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewCBIFetcher(url, PenaltyRateSeriesID, "", time.Second, 0)
	_, err := f.FetchRates(context.Background(), date(2022, 1, 1), date(2022, 3, 1))
	assert.ErrorIs(t, err, model.ErrDataSource)
}

func TestCBIFetcher_ThroughCollector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<Root></Root>`))
	}))
	defer srv.Close()

	col := NewCollector(NewCBIFetcher(srv.URL, PenaltyRateSeriesID, "", time.Second, 0), 0, 0)
	_, err := col.Fetch(context.Background(), date(2022, 1, 20), date(2022, 1, 20))
	assert.ErrorIs(t, err, model.ErrNoRatesFound)
}
