package broker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/types"
)

func writeFeedFiles(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	candles := "timestamp,open,high,low,close,volume\n" +
		"2025-10-20T09:00:00Z,5280,5285,5278,5282,1200\n" +
		"2025-10-20T09:05:00Z,5282,5290,5280,5288,1500\n" +
		"2025-10-20T09:10:00Z,5288,5295,5286,5293,900\n"
	if err := os.WriteFile(filepath.Join(dir, "CRUDEOIL25NOVFUT.csv"), []byte(candles), 0o644); err != nil {
		t.Fatal(err)
	}
	quotes := "CRUDEOIL25NOVFUT,5293\nCRUDEOIL25NOV5300CE,150,149.5,150.5\n"
	if err := os.WriteFile(filepath.Join(dir, "quotes.csv"), []byte(quotes), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCSVFeedCandles(t *testing.T) {
	f := NewCSVFeed(writeFeedFiles(t))

	from := time.Date(2025, 10, 20, 9, 5, 0, 0, time.UTC)
	to := time.Date(2025, 10, 20, 9, 10, 0, 0, time.UTC)
	got, err := f.Candles(context.Background(), "CRUDEOIL25NOVFUT", "5minute", from, to)
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candles = %d, want 2 in range", len(got))
	}
	if got[0].Close != 5288 || got[1].Close != 5293 {
		t.Fatalf("unexpected candles %+v", got)
	}
}

func TestCSVFeedQuote(t *testing.T) {
	f := NewCSVFeed(writeFeedFiles(t))

	q, err := f.Quote(types.Contract{Symbol: "CRUDEOIL25NOV5300CE", Exchange: "MCX"})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.LastPrice != 150 || q.Bid != 149.5 || q.Ask != 150.5 {
		t.Fatalf("quote = %+v", q)
	}

	if _, err := f.Quote(types.Contract{Symbol: "UNKNOWN"}); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}

func TestPaperBrokerFill(t *testing.T) {
	f := NewCSVFeed(writeFeedFiles(t))
	p := NewPaper(f, logger.NewNop())

	rcpt, err := p.PlaceOrder(context.Background(), Order{
		Contract:  types.Contract{Symbol: "CRUDEOIL25NOV5300CE", Exchange: "MCX"},
		Side:      types.Buy,
		Quantity:  10,
		OrderType: "LIMIT",
		Product:   "NRML",
		Price:     150,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if rcpt.OrderID == "" {
		t.Fatal("expected an order id")
	}
	if p.Position("CRUDEOIL25NOV5300CE") != 10 {
		t.Fatalf("position = %d, want 10", p.Position("CRUDEOIL25NOV5300CE"))
	}

	if _, err := p.PlaceOrder(context.Background(), Order{Quantity: 0}); err == nil {
		t.Fatal("zero quantity must be rejected")
	}
}
