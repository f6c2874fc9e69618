// Command gohat runs the Heikin-Ashi trading loop: one goroutine per
// configured symbol, each waking on its candle boundary, evaluating the
// state machine and journalling what it did.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantfold/gohat/broker"
	"github.com/quantfold/gohat/config"
	"github.com/quantfold/gohat/journal"
	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/options"
	"github.com/quantfold/gohat/sched"
	"github.com/quantfold/gohat/state"
	"github.com/quantfold/gohat/strategy"
)

const (
	historyWindow = 500 // candles kept per symbol
	bufferGrace   = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gohat:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	settingsPath := flag.String("settings", envOr("GOHAT_SETTINGS", "TradeSettings.csv"), "path to the trade settings sheet")
	statePath := flag.String("state", envOr("GOHAT_STATE", "state.json"), "path to the persisted trading state")
	journalDir := flag.String("journal", envOr("GOHAT_JOURNAL", "journal"), "directory for the signal journal and order log")
	feedDir := flag.String("feed", envOr("GOHAT_FEED", "feed"), "directory with candle and quote CSV files")
	metricsAddr := flag.String("metrics", envOr("GOHAT_METRICS_ADDR", ":9100"), "prometheus listen address, empty to disable")
	flag.Parse()

	log, err := logger.NewZapLogger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	settings, rowErrs, err := config.Load(*settingsPath)
	if err != nil {
		return err
	}
	for _, re := range rowErrs {
		log.Warn("settings_row_rejected", logger.Err(re))
	}
	if len(settings) == 0 {
		return fmt.Errorf("no valid rows in %s", *settingsPath)
	}

	store, err := state.Open(*statePath, log)
	if err != nil {
		return err
	}
	jw, err := journal.NewWriter(*journalDir)
	if err != nil {
		return err
	}
	defer jw.Close()

	client := broker.NewPaper(broker.NewCSVFeed(*feedDir), log)
	selector := options.NewSelector(client, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, log)
	}

	var wg sync.WaitGroup
	for i := range settings {
		s := &settings[i]
		eng, err := strategy.NewEngine(s, client, selector, store, log)
		if err != nil {
			return fmt.Errorf("engine %s: %w", s.Key(), err)
		}
		if st, ok := store.Get(s.Key()); ok {
			eng.Restore(st)
			log.Info("state_restored",
				logger.String("key", s.Key()),
				logger.String("position", string(st.Position)),
				logger.Int("pyramiding_count", st.PyramidingCount),
			)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			runSymbol(ctx, s, eng, client, jw, log)
		}()
	}
	wg.Wait()
	log.Info("shutdown_complete")
	return nil
}

// runSymbol is the per-symbol loop: sleep to the candle boundary, pull
// the latest bars, evaluate, journal.
func runSymbol(ctx context.Context, s *config.Settings, eng *strategy.Engine, client broker.Client, jw *journal.Writer, log logger.Logger) {
	key := s.Key()
	minutes, err := sched.TimeframeMinutes(s.Timeframe)
	if err != nil {
		log.Error("bad_timeframe", logger.String("key", key), logger.Err(err))
		return
	}
	expiry, _ := s.ExpiryDate()
	futSymbol := options.FutureSymbol(s.Symbol, expiry)
	hist := broker.NewHistory(historyWindow)

	log.Info("symbol_loop_started",
		logger.String("key", key),
		logger.String("future", futSymbol),
		logger.Int("timeframe_minutes", minutes),
	)

	timer := time.NewTimer(sched.WaitDuration(time.Now(), minutes, bufferGrace))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		timer.Reset(sched.WaitDuration(time.Now(), minutes, bufferGrace))

		now := time.Now()
		from := now.Add(-time.Duration(historyWindow*minutes) * time.Minute)
		candles, err := client.Candles(ctx, futSymbol, s.Timeframe, from, now)
		if err != nil {
			log.Error("candle_fetch_failed", logger.String("key", key), logger.Err(err))
			continue
		}
		hist.Extend(candles)

		res, err := eng.Evaluate(ctx, hist.Candles())
		if err != nil {
			// Warm-up and data gaps resolve themselves on later candles.
			log.Warn("evaluation_skipped", logger.String("key", key), logger.Err(err))
			continue
		}
		for _, ev := range res.Events {
			if err := jw.Append(ev); err != nil {
				log.Error("journal_append_failed", logger.String("key", key), logger.Err(err))
			}
		}
		for _, in := range res.Intents {
			jw.Order("%s %s %s qty %d @ %.2f", key, in.Reason, in.Contract.Symbol, in.Quantity, in.Price)
		}
	}
}

func serveMetrics(addr string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("metrics_listening", logger.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("metrics_server_failed", logger.Err(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
