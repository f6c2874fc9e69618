package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quantfold/gohat/broker"
	"github.com/quantfold/gohat/types"
)

// MockBroker implements broker.Client in-memory. Quotes and prices are
// scripted per symbol; every placed order is captured for assertions.
type MockBroker struct {
	mu sync.Mutex

	candles map[string][]types.Candle
	quotes  map[string][]types.Quote // consumed in order, last repeats
	ltps    map[string]float64
	fetched map[string]int

	RejectOrders bool // every PlaceOrder fails
	orders       []broker.Order
	nextID       int
}

func NewMockBroker() *MockBroker {
	return &MockBroker{
		candles: make(map[string][]types.Candle),
		quotes:  make(map[string][]types.Quote),
		ltps:    make(map[string]float64),
		fetched: make(map[string]int),
	}
}

// SetCandles scripts the bar history returned for a symbol.
func (m *MockBroker) SetCandles(symbol string, candles []types.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candles[symbol] = candles
}

// SetLTP scripts a contract's last traded price.
func (m *MockBroker) SetLTP(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ltps[symbol] = price
}

// SetQuotes scripts successive option quotes for a symbol; the last one
// repeats once the script is exhausted.
func (m *MockBroker) SetQuotes(symbol string, quotes ...types.Quote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = quotes
}

func (m *MockBroker) Candles(_ context.Context, symbol, _ string, _, _ time.Time) ([]types.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candles[symbol]
	if !ok {
		return nil, fmt.Errorf("no candles scripted for %s", symbol)
	}
	return c, nil
}

func (m *MockBroker) LTP(c types.Contract) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	px, ok := m.ltps[c.Symbol]
	if !ok {
		return 0, fmt.Errorf("no LTP scripted for %s", c.Symbol)
	}
	return px, nil
}

func (m *MockBroker) OptionQuote(c types.Contract) (types.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	qs, ok := m.quotes[c.Symbol]
	if !ok || len(qs) == 0 {
		return types.Quote{}, fmt.Errorf("no quote scripted for %s", c.Symbol)
	}
	i := m.fetched[c.Symbol]
	m.fetched[c.Symbol]++
	if i >= len(qs) {
		i = len(qs) - 1
	}
	return qs[i], nil
}

func (m *MockBroker) PlaceOrder(_ context.Context, o broker.Order) (broker.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RejectOrders {
		return broker.Receipt{}, fmt.Errorf("order rejected for %s", o.Contract.Symbol)
	}
	m.orders = append(m.orders, o)
	m.nextID++
	return broker.Receipt{OrderID: fmt.Sprintf("MOCK-%d", m.nextID)}, nil
}

// Orders returns a copy of all accepted orders.
func (m *MockBroker) Orders() []broker.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]broker.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// QuoteFetches reports how many times a symbol was quoted.
func (m *MockBroker) QuoteFetches(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetched[symbol]
}
