// Package journal appends every signal the engine produces to a CSV
// audit trail and mirrors order activity into a size-rotated text log.
package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Record is one journalled signal. Zero-valued floats render as empty
// CSV cells so a glance at the file shows which columns applied.
type Record struct {
	Time             time.Time
	Action           string
	OptionContract   string
	OptionPrice      float64
	FutureContract   string
	FuturePrice      float64
	LotSize          int
	StopLoss         float64
	EntryOptionPrice float64 // filled on exits
	PnLPerUnit       float64 // exit price minus mean entry option price
	Note             string
}

var header = []string{
	"time", "action", "option_contract", "option_price",
	"future_contract", "future_price", "lotsize", "stop_loss",
	"entry_option_price", "pnl_per_unit", "note",
}

// Writer owns the signal CSV and the rotating order log. Safe for use
// from multiple evaluation goroutines.
type Writer struct {
	mu       sync.Mutex
	path     string
	orderLog *lumberjack.Logger
}

// NewWriter creates the journal directory if needed and returns a Writer
// rooted there. The CSV header is written once, on first creation.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal dir: %w", err)
	}
	path := filepath.Join(dir, "signals.csv")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("journal csv: %w", err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return &Writer{
		path: path,
		orderLog: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "orders.log"),
			MaxSize:    10,
			MaxBackups: 5,
		},
	}, nil
}

// Append writes one record to the signal CSV.
func (w *Writer) Append(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("journal csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(r.row()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Order writes one line to the rotating order log.
func (w *Writer) Order(format string, args ...interface{}) {
	fmt.Fprintf(w.orderLog, time.Now().Format(time.RFC3339)+" "+format+"\n", args...)
}

// Close releases the rotating log handle.
func (w *Writer) Close() error {
	return w.orderLog.Close()
}

func (r Record) row() []string {
	return []string{
		r.Time.Format(time.RFC3339),
		r.Action,
		r.OptionContract,
		cell(r.OptionPrice),
		r.FutureContract,
		cell(r.FuturePrice),
		intCell(r.LotSize),
		cell(r.StopLoss),
		cell(r.EntryOptionPrice),
		cell(r.PnLPerUnit),
		r.Note,
	}
}

func cell(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intCell(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
