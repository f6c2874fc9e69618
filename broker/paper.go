package broker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/quantfold/gohat/logger"
	"github.com/quantfold/gohat/types"
)

// Paper is a dry-run broker: every order is accepted at the submitted
// price and positions are tracked in memory. Quotes and candles come from
// a pluggable feed so the paper broker also serves the tests.
type Paper struct {
	mu        sync.Mutex
	log       logger.Logger
	feed      Feed
	rng       *rand.Rand
	positions map[string]int // contract symbol -> signed lots
	orders    []Order
}

// Feed supplies market data to the paper broker.
type Feed interface {
	Candles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]types.Candle, error)
	Quote(c types.Contract) (types.Quote, error)
}

func NewPaper(feed Feed, log logger.Logger) *Paper {
	return &Paper{
		log:       log,
		feed:      feed,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		positions: make(map[string]int),
	}
}

func (p *Paper) Candles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]types.Candle, error) {
	return p.feed.Candles(ctx, symbol, timeframe, from, to)
}

func (p *Paper) LTP(c types.Contract) (float64, error) {
	q, err := p.feed.Quote(c)
	if err != nil {
		return 0, err
	}
	return q.LastPrice, nil
}

func (p *Paper) OptionQuote(c types.Contract) (types.Quote, error) {
	return p.feed.Quote(c)
}

func (p *Paper) PlaceOrder(_ context.Context, o Order) (Receipt, error) {
	if o.Quantity <= 0 {
		return Receipt{}, fmt.Errorf("paper broker: non-positive quantity %d", o.Quantity)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	lots := o.Quantity
	if o.Side == types.Sell {
		lots = -lots
	}
	p.positions[o.Contract.Symbol] += lots
	p.orders = append(p.orders, o)

	id := fmt.Sprintf("PAPER-%d", p.rng.Int63())
	p.log.Info("paper_fill",
		logger.String("contract", o.Contract.Symbol),
		logger.String("side", string(o.Side)),
		logger.Int("qty", o.Quantity),
		logger.Float64("price", o.Price),
		logger.String("order_id", id),
	)
	return Receipt{OrderID: id}, nil
}

// Position returns the signed open lots for a contract symbol.
func (p *Paper) Position(symbol string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions[symbol]
}

// Orders returns a copy of every accepted order, for assertions.
func (p *Paper) Orders() []Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Order, len(p.orders))
	copy(out, p.orders)
	return out
}
