// Package strategy holds the per-symbol trading state machine: arming on
// Keltner touches, Heikin-Ashi confirmed entries, pyramiding adds and the
// two exits (stop loss, Supertrend flip).
package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/quantfold/gohat/broker"
	"github.com/quantfold/gohat/config"
	"github.com/quantfold/gohat/indicator"
	"github.com/quantfold/gohat/journal"
	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/metrics"
	"github.com/quantfold/gohat/options"
	"github.com/quantfold/gohat/types"
)

// Persister saves a state snapshot after every transition so a restart
// resumes mid-position.
type Persister interface {
	Persist(key string, st *TradingState) error
}

// Result is the outcome of one evaluation pass: the state snapshot after
// all transitions, the orders the pass wanted, and the journal records to
// append.
type Result struct {
	State   TradingState
	Intents []types.OrderIntent
	Events  []journal.Record
}

// Engine runs the machine for a single symbol/expiry pair. One goroutine
// per engine; the engine itself takes no locks.
type Engine struct {
	cfg      *config.Settings
	key      string
	expiry   time.Time
	broker   broker.Client
	selector *options.Selector
	store    Persister
	log      logger.Logger
	now      func() time.Time

	state *TradingState
}

func NewEngine(cfg *config.Settings, b broker.Client, sel *options.Selector, store Persister, log logger.Logger) (*Engine, error) {
	expiry, err := cfg.ExpiryDate()
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		key:      cfg.Key(),
		expiry:   expiry,
		broker:   b,
		selector: sel,
		store:    store,
		log:      log,
		now:      time.Now,
		state:    &TradingState{},
	}, nil
}

// Restore seeds the engine with a previously persisted state.
func (e *Engine) Restore(st TradingState) { *e.state = st }

// State returns a snapshot of the current state.
func (e *Engine) State() TradingState { return e.snapshot() }

// Evaluate runs one pass over the candle history for a just-closed
// candle. Transitions happen in a fixed order: stop-loss exit, Supertrend
// flip exit, arming and disarming, entry, pyramiding. An exit resets the
// state and the same pass continues, so re-entry on the same candle is
// possible. Only unusable indicator data aborts the pass.
func (e *Engine) Evaluate(ctx context.Context, candles []types.Candle) (*Result, error) {
	return e.evaluateRows(ctx, indicator.Compute(candles, e.cfg))
}

func (e *Engine) evaluateRows(ctx context.Context, rows []indicator.Row) (*Result, error) {
	if len(rows) < 2 {
		metrics.Evaluations.WithLabelValues(e.key, "data_error").Inc()
		return nil, fmt.Errorf("%d candles, need at least 2: %w", len(rows), ErrData)
	}
	cur := &rows[len(rows)-1]
	prev := &rows[len(rows)-2]
	if !cur.Ready() || !prev.Ready() {
		metrics.Evaluations.WithLabelValues(e.key, "data_error").Inc()
		return nil, fmt.Errorf("indicators warming up at %s: %w", cur.Timestamp.Format(time.RFC3339), ErrData)
	}

	res := &Result{}

	if e.state.Open() && e.state.CurrentSL != nil {
		sl := *e.state.CurrentSL
		if (e.state.Position == PositionLong && prev.HALow < sl) ||
			(e.state.Position == PositionShort && prev.HAHigh > sl) {
			e.exit(ctx, res, cur, "sl_exit")
		}
	}

	if e.state.Position == PositionLong && prev.Trend == 1 && cur.Trend == -1 {
		e.exit(ctx, res, cur, "supertrend_exit")
	} else if e.state.Position == PositionShort && prev.Trend == -1 && cur.Trend == 1 {
		e.exit(ctx, res, cur, "supertrend_exit")
	}

	e.arm(res, cur)

	if !e.state.Open() {
		if e.state.ArmedBuy &&
			cur.HAClose > cur.KC2Lower &&
			cur.Volume > cur.VolumeMA &&
			prev.HAClose > prev.HAOpen {
			e.enter(ctx, res, rows, types.Buy)
		} else if e.state.ArmedSell &&
			cur.HAClose < cur.KC2Upper &&
			cur.Volume > cur.VolumeMA &&
			prev.HAClose < prev.HAOpen {
			e.enter(ctx, res, rows, types.Sell)
		}
	}

	e.pyramid(ctx, res, cur)

	metrics.Evaluations.WithLabelValues(e.key, "ok").Inc()
	res.State = e.snapshot()
	return res, nil
}

// arm updates the arming flags from the current candle's KC1/KC2 position.
// Arming is independent of the open position: a long can arm the sell side
// while it is still running.
func (e *Engine) arm(res *Result, cur *indicator.Row) {
	changed := false

	if cur.HALow < cur.KC1Lower && !e.state.ArmedBuy {
		e.state.ArmedBuy = true
		changed = true
		res.Events = append(res.Events, e.event(cur, "armed_buy", ""))
	}
	if cur.HAHigh >= cur.KC1Upper && !e.state.ArmedSell {
		e.state.ArmedSell = true
		changed = true
		res.Events = append(res.Events, e.event(cur, "armed_sell", ""))
	}
	if e.state.ArmedBuy && cur.HAHigh > cur.KC1Upper && cur.HAHigh > cur.KC2Upper {
		e.state.ArmedBuy = false
		changed = true
		res.Events = append(res.Events, e.event(cur, "disarmed_buy", "overextended above both channels"))
	}
	if e.state.ArmedSell && cur.HALow < cur.KC1Lower && cur.HALow < cur.KC2Lower {
		e.state.ArmedSell = false
		changed = true
		res.Events = append(res.Events, e.event(cur, "disarmed_sell", "overextended below both channels"))
	}

	if changed {
		e.persist()
	}
}

// enter opens the first lot. The position is recorded even when the
// broker rejects the order; BrokerAck carries the rejection instead of a
// silent retry loop.
func (e *Engine) enter(ctx context.Context, res *Result, rows []indicator.Row, side types.Side) {
	cur := &rows[len(rows)-1]

	cand, ok := e.selectOption(cur, side)
	if !ok {
		res.Events = append(res.Events, e.event(cur, "entry_blocked", "option selection failed"))
		return
	}

	// Long and short are both expressed as bought options, so every
	// entry order is a BUY.
	receipt, ack := e.place(ctx, res, cand.Contract, types.Buy, e.cfg.LotSize, cand.MarketPrice, "entry")

	entry := cur.HAClose
	e.state.Position = positionFor(side)
	e.state.Contract = cand.Contract
	e.state.BrokerAck = ack
	e.state.PyramidingCount = 1
	e.state.FirstEntryPrice = floatPtr(entry)
	e.state.LastPyramidingPrice = floatPtr(entry)
	e.state.EntryPrices = []float64{entry}
	e.state.Lots = []Lot{{
		Contract:         cand.Contract,
		OrderID:          receipt.OrderID,
		EntryPrice:       entry,
		EntryOptionPrice: cand.MarketPrice,
	}}

	var slValue float64
	if sl, err := InitialStopLoss(rows, side, e.cfg.SLATRPeriod, e.cfg.SLMultiplier); err == nil {
		e.state.InitialSL = floatPtr(sl)
		e.state.CurrentSL = floatPtr(sl)
		slValue = sl
	} else {
		e.log.Warn("initial_sl_unavailable", logger.String("key", e.key), logger.Err(err))
	}

	metrics.PositionsOpen.WithLabelValues(e.key).Set(1)
	e.persist()

	action := "buy_entry"
	if side == types.Sell {
		action = "sell_entry"
	}
	rec := e.event(cur, action, "")
	rec.OptionContract = cand.Contract.Symbol
	rec.OptionPrice = cand.MarketPrice
	rec.StopLoss = slValue
	res.Events = append(res.Events, rec)
}

// pyramid adds one lot when the market has run pyramidingDistance past
// the last add (or the first entry). The stop moves to the mean of all
// filled entry prices.
func (e *Engine) pyramid(ctx context.Context, res *Result, cur *indicator.Row) {
	st := e.state
	if !st.Open() || e.cfg.PyramidingDistance <= 0 || e.cfg.PyramidingNumber <= 0 {
		return
	}
	if st.PyramidingCount < 1 || st.PyramidingCount >= e.cfg.MaxPositions() {
		return
	}
	if st.FirstEntryPrice == nil {
		return
	}
	ref := *st.FirstEntryPrice
	if st.LastPyramidingPrice != nil {
		ref = *st.LastPyramidingPrice
	}

	triggered := false
	side := types.Buy
	if st.Position == PositionLong {
		triggered = cur.HAClose >= ref+e.cfg.PyramidingDistance
	} else {
		side = types.Sell
		triggered = cur.HAClose <= ref-e.cfg.PyramidingDistance
	}
	if !triggered {
		return
	}

	// Re-select at the fresh ATM; the original contract is the fallback
	// when nothing inside the delta cap prices.
	contract := types.Contract{}
	price := 0.0
	if cand, ok := e.selectOption(cur, side); ok {
		contract = cand.Contract
		price = cand.MarketPrice
	} else if st.Contract.Symbol != "" {
		if q, err := e.broker.OptionQuote(st.Contract); err == nil && q.LastPrice > 0 {
			contract = st.Contract
			price = q.LastPrice
		}
	}
	if contract.Symbol == "" {
		res.Events = append(res.Events, e.event(cur, "pyramid_blocked", "no tradable contract"))
		return
	}

	receipt, ack := e.place(ctx, res, contract, types.Buy, e.cfg.LotSize, price, "pyramid")

	entry := cur.HAClose
	st.BrokerAck = ack
	st.PyramidingCount++
	st.LastPyramidingPrice = floatPtr(entry)
	st.EntryPrices = append(st.EntryPrices, entry)
	st.Lots = append(st.Lots, Lot{
		Contract:         contract,
		OrderID:          receipt.OrderID,
		EntryPrice:       entry,
		EntryOptionPrice: price,
	})
	if avg, err := AverageEntryPrice(st.EntryPrices); err == nil {
		st.CurrentSL = floatPtr(avg)
	}

	metrics.PositionsOpen.WithLabelValues(e.key).Set(float64(st.PyramidingCount))
	e.persist()

	action := "pyramid_buy"
	if st.Position == PositionShort {
		action = "pyramid_sell"
	}
	rec := e.event(cur, action, fmt.Sprintf("lot %d of %d", st.PyramidingCount, e.cfg.MaxPositions()))
	rec.OptionContract = contract.Symbol
	rec.OptionPrice = price
	if st.CurrentSL != nil {
		rec.StopLoss = *st.CurrentSL
	}
	res.Events = append(res.Events, rec)
}

// exit closes every open lot with one combined sell and resets the state.
// Arming flags survive so the same candle can re-enter.
func (e *Engine) exit(ctx context.Context, res *Result, cur *indicator.Row, reason string) {
	st := e.state
	qty := e.cfg.LotSize * st.PyramidingCount

	var price float64
	if st.Contract.Symbol != "" && qty > 0 {
		if q, err := e.broker.OptionQuote(st.Contract); err == nil && q.LastPrice > 0 {
			price = q.LastPrice
		} else {
			e.log.Warn("exit_quote_unavailable",
				logger.String("key", e.key),
				logger.String("contract", st.Contract.Symbol),
			)
		}
		e.place(ctx, res, st.Contract, types.Sell, qty, price, reason)
	}

	rec := e.event(cur, reason, "")
	rec.OptionContract = st.Contract.Symbol
	rec.OptionPrice = price
	if st.CurrentSL != nil {
		rec.StopLoss = *st.CurrentSL
	}
	if avg := meanOptionEntry(st.Lots); avg > 0 {
		rec.EntryOptionPrice = avg
		if price > 0 {
			rec.PnLPerUnit = price - avg
		}
	}
	res.Events = append(res.Events, rec)

	st.Reset()
	metrics.PositionsOpen.WithLabelValues(e.key).Set(0)
	e.persist()
}

// selectOption runs the delta-capped selection at the current ATM level.
func (e *Engine) selectOption(cur *indicator.Row, side types.Side) (*options.Candidate, bool) {
	typ := types.Call
	if side == types.Sell {
		typ = types.Put
	}
	underlying := e.underlying(cur)
	atm := options.NormalizeStrike(underlying, e.cfg.StrikeStep)
	grid := options.StrikeList(atm, e.cfg.StrikeStep, e.cfg.StrikeNumber)
	if typ == types.Call {
		grid = options.StrikesAtOrBelow(grid, atm)
	} else {
		grid = options.StrikesAtOrAbove(grid, atm)
	}

	cand, _, err := e.selector.Select(options.Request{
		Symbol:       e.cfg.Symbol,
		Exchange:     e.cfg.Exchange,
		Expiry:       e.expiry,
		Now:          e.now(),
		Strikes:      grid,
		Underlying:   underlying,
		Type:         typ,
		RiskFreeRate: e.cfg.RiskFreeRate(),
	})
	if err != nil {
		e.log.Warn("selection_failed",
			logger.String("key", e.key),
			logger.String("type", string(typ)),
			logger.Float64("underlying", underlying),
			logger.Err(fmt.Errorf("%w: %v", ErrSelection, err)),
		)
		return nil, false
	}
	return cand, true
}

// underlying is the future's last traded price, falling back to the
// Heikin-Ashi close when the quote is unavailable.
func (e *Engine) underlying(cur *indicator.Row) float64 {
	fut := types.Contract{
		Symbol:   options.FutureSymbol(e.cfg.Symbol, e.expiry),
		Exchange: e.cfg.Exchange,
	}
	if px, err := e.broker.LTP(fut); err == nil && px > 0 {
		return px
	}
	e.log.Warn("ltp_fallback", logger.String("contract", fut.Symbol))
	return cur.HAClose
}

// place submits one order and records the matching intent. A non-positive
// price downgrades to a market order.
func (e *Engine) place(ctx context.Context, res *Result, c types.Contract, side types.Side, qty int, price float64, reason string) (broker.Receipt, bool) {
	res.Intents = append(res.Intents, types.OrderIntent{
		Contract: c,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Reason:   reason,
	})

	orderType := "LIMIT"
	if price <= 0 {
		orderType = "MARKET"
	}
	receipt, err := e.broker.PlaceOrder(ctx, broker.Order{
		Contract:  c,
		Side:      side,
		Quantity:  qty,
		OrderType: orderType,
		Product:   "NRML",
		Price:     price,
	})
	if err != nil {
		metrics.OrdersRejected.Inc()
		e.log.Error("order_rejected",
			logger.String("key", e.key),
			logger.String("contract", c.Symbol),
			logger.String("reason", reason),
			logger.Err(fmt.Errorf("%w: %v", ErrBroker, err)),
		)
		return broker.Receipt{}, false
	}
	metrics.OrdersSubmitted.WithLabelValues(reason).Inc()
	e.log.Info("order_placed",
		logger.String("key", e.key),
		logger.String("contract", c.Symbol),
		logger.String("order_id", receipt.OrderID),
		logger.String("reason", reason),
		logger.Int("quantity", qty),
		logger.Float64("price", price),
	)
	return receipt, true
}

func (e *Engine) persist() {
	if e.store == nil {
		return
	}
	if err := e.store.Persist(e.key, e.state); err != nil {
		e.log.Error("state_persist_failed", logger.String("key", e.key), logger.Err(err))
	}
}

func (e *Engine) event(cur *indicator.Row, action, note string) journal.Record {
	return journal.Record{
		Time:           cur.Timestamp,
		Action:         action,
		FutureContract: options.FutureSymbol(e.cfg.Symbol, e.expiry),
		FuturePrice:    cur.HAClose,
		LotSize:        e.cfg.LotSize,
		Note:           note,
	}
}

func (e *Engine) snapshot() TradingState {
	st := *e.state
	st.EntryPrices = append([]float64(nil), e.state.EntryPrices...)
	st.Lots = append([]Lot(nil), e.state.Lots...)
	return st
}

func meanOptionEntry(lots []Lot) float64 {
	if len(lots) == 0 {
		return 0
	}
	var sum float64
	for _, l := range lots {
		sum += l.EntryOptionPrice
	}
	return sum / float64(len(lots))
}

func positionFor(side types.Side) Position {
	if side == types.Sell {
		return PositionShort
	}
	return PositionLong
}
