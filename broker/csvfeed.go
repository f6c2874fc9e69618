package broker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/quantfold/gohat/types"
)

// CSVFeed serves candles and quotes from local files, the data source
// behind the paper broker for dry runs and replays. Candles live in
// <dir>/<symbol>.csv (timestamp,open,high,low,close,volume) and quotes in
// <dir>/quotes.csv (symbol,last,bid,ask). The quote file is re-read on
// every lookup so it can be edited while a dry run is going.
type CSVFeed struct {
	dir string

	mu      sync.Mutex
	candles map[string][]types.Candle
}

func NewCSVFeed(dir string) *CSVFeed {
	return &CSVFeed{dir: dir, candles: make(map[string][]types.Candle)}
}

func (f *CSVFeed) Candles(_ context.Context, symbol, _ string, from, to time.Time) ([]types.Candle, error) {
	all, err := f.load(symbol)
	if err != nil {
		return nil, err
	}
	out := make([]types.Candle, 0, len(all))
	for _, c := range all {
		if c.Timestamp.Before(from) || c.Timestamp.After(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (f *CSVFeed) Quote(c types.Contract) (types.Quote, error) {
	file, err := os.Open(filepath.Join(f.dir, "quotes.csv"))
	if err != nil {
		return types.Quote{}, fmt.Errorf("quote feed: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.TrimLeadingSpace = true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return types.Quote{}, fmt.Errorf("quote feed: %w", err)
		}
		if len(rec) < 2 || rec[0] != c.Symbol {
			continue
		}
		q := types.Quote{}
		if q.LastPrice, err = strconv.ParseFloat(rec[1], 64); err != nil {
			return types.Quote{}, fmt.Errorf("quote feed %s: %w", c.Symbol, err)
		}
		if len(rec) > 2 {
			q.Bid, _ = strconv.ParseFloat(rec[2], 64)
		}
		if len(rec) > 3 {
			q.Ask, _ = strconv.ParseFloat(rec[3], 64)
		}
		return q, nil
	}
	return types.Quote{}, fmt.Errorf("quote feed: no quote for %s", c.Symbol)
}

func (f *CSVFeed) load(symbol string) ([]types.Candle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.candles[symbol]; ok {
		return c, nil
	}

	file, err := os.Open(filepath.Join(f.dir, symbol+".csv"))
	if err != nil {
		return nil, fmt.Errorf("candle feed: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.TrimLeadingSpace = true
	var out []types.Candle
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("candle feed %s: %w", symbol, err)
		}
		if line == 1 && rec[0] == "timestamp" {
			continue
		}
		c, err := parseCandle(rec)
		if err != nil {
			return nil, fmt.Errorf("candle feed %s line %d: %w", symbol, line, err)
		}
		out = append(out, c)
	}
	f.candles[symbol] = out
	return out, nil
}

func parseCandle(rec []string) (types.Candle, error) {
	if len(rec) < 6 {
		return types.Candle{}, fmt.Errorf("want 6 columns, got %d", len(rec))
	}
	ts, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return types.Candle{}, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
			return types.Candle{}, err
		}
	}
	return types.Candle{
		Timestamp: ts,
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}
