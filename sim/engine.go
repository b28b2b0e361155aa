package sim

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradesim/internal/id"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/market"
	"github.com/shopspring/decimal"
)

// Engine is a single-account trading venue. One mutex guards all of its
// state, so every public method runs to completion before the next starts.
type Engine struct {
	mu       sync.Mutex
	runID    string
	initial  decimal.Decimal
	balance  decimal.Decimal
	holdings map[market.Symbol]decimal.Decimal
	ledger   *Ledger
	prices   *market.SnapshotStore
	history  []TradeRecord
	placed   uint64
	journal  journal.Journal
	log      zerolog.Logger
	listener TradeListener
}

// TradeListener is notified of every execution, after the engine lock has
// been released.
type TradeListener interface {
	OnTradeExecuted(TradeRecord)
}

// NewEngine creates an engine holding initialBalance in cash. A nil journal
// discards records.
func NewEngine(initialBalance decimal.Decimal, j journal.Journal) (*Engine, error) {
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance %s is negative", ErrInvalidArgument, initialBalance)
	}
	if j == nil {
		j = journal.Nop{}
	}
	return &Engine{
		runID:    id.NewRun(),
		initial:  initialBalance,
		balance:  initialBalance,
		holdings: make(map[market.Symbol]decimal.Decimal),
		ledger:   NewLedger(),
		prices:   market.NewSnapshotStore(),
		journal:  j,
		log:      zerolog.Nop(),
	}, nil
}

func (e *Engine) SetLogger(l zerolog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = l.With().Str("run", e.runID).Logger()
}

func (e *Engine) SetTradeListener(l TradeListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// RunID identifies this engine's rows in the journal.
func (e *Engine) RunID() string { return e.runID }


// UpdateMarketPrice records a tick for sym and sweeps the resting orders for
// that symbol against the new price.
func (e *Engine) UpdateMarketPrice(sym market.Symbol, price, volume decimal.Decimal, now time.Time) error {
	if sym == "" {
		return fmt.Errorf("update price: %w: empty symbol", ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return fmt.Errorf("update price %s: %w: price %s must be positive", sym, ErrInvalidArgument, price)
	}
	if volume.IsNegative() {
		return fmt.Errorf("update price %s: %w: volume %s is negative", sym, ErrInvalidArgument, volume)
	}

	e.mu.Lock()

	e.prices.Set(market.Snapshot{
		Symbol:     sym,
		Price:      price,
		Volume:     volume,
		ObservedAt: now,
	})
	e.log.Debug().
		Str("symbol", string(sym)).
		Stringer("price", price).
		Stringer("volume", volume).
		Msg("tick")

	trades := e.sweepLocked(sym, price, now)
	err := e.recordLocked(trades, now)
	listener := e.listener

	e.mu.Unlock()

	notify(listener, trades)
	return err
}

// sweepLocked walks the resting orders for sym in placement order. Settled
// orders are collected and removed only after the walk.
func (e *Engine) sweepLocked(sym market.Symbol, price decimal.Decimal, now time.Time) []TradeRecord {
	var (
		trades  []TradeRecord
		settled []string
	)
	for _, o := range e.ledger.ForSymbol(sym) {
		if o.Status != Pending || !shouldExecute(o, price) {
			continue
		}
		rec, ok := e.tryExecuteLocked(o, price, now)
		if !ok {
			continue
		}
		trades = append(trades, rec)
		settled = append(settled, o.ID)
	}
	for _, oid := range settled {
		e.ledger.Remove(oid)
	}
	return trades
}

func (e *Engine) tryExecuteLocked(o *Order, price decimal.Decimal, now time.Time) (TradeRecord, bool) {
	rec, err := e.settleLocked(o, price, now)
	if err != nil {
		e.log.Debug().
			Err(err).
			Str("order", o.ID).
			Str("symbol", string(o.Symbol)).
			Stringer("price", price).
			Msg("order stays pending")
		return TradeRecord{}, false
	}
	e.log.Info().
		Str("order", rec.OrderID).
		Str("symbol", string(rec.Symbol)).
		Stringer("side", rec.Side).
		Stringer("quantity", rec.Quantity).
		Stringer("price", rec.ExecutionPrice).
		Stringer("balance", rec.BalanceAfter).
		Msg("order executed")
	return rec, true
}

// PlaceOrder rests a new limit order and, when a snapshot for sym exists
// and the order is already fireable, executes it immediately. The returned
// Order carries its final status.
func (e *Engine) PlaceOrder(sym market.Symbol, side Side, qty, target decimal.Decimal, now time.Time) (Order, error) {
	if sym == "" {
		return Order{}, fmt.Errorf("place order: %w: empty symbol", ErrInvalidArgument)
	}
	if !side.Valid() {
		return Order{}, fmt.Errorf("place order %s: %w: side %s", sym, ErrInvalidArgument, side)
	}
	if !qty.IsPositive() {
		return Order{}, fmt.Errorf("place order %s: %w: quantity %s must be positive", sym, ErrInvalidArgument, qty)
	}
	if !target.IsPositive() {
		return Order{}, fmt.Errorf("place order %s: %w: target price %s must be positive", sym, ErrInvalidArgument, target)
	}

	e.mu.Lock()

	e.placed++
	o := &Order{
		ID:          formatOrderID(e.placed),
		Symbol:      sym,
		Side:        side,
		Quantity:    qty,
		TargetPrice: target,
		PlacedAt:    now,
		Status:      Pending,
		seq:         e.placed,
	}
	e.ledger.Insert(o)
	e.log.Info().
		Str("order", o.ID).
		Str("symbol", string(sym)).
		Stringer("side", side).
		Stringer("quantity", qty).
		Stringer("target", target).
		Msg("order placed")

	var trades []TradeRecord
	if snap, ok := e.prices.Get(sym); ok && shouldExecute(o, snap.Price) {
		if rec, ok := e.tryExecuteLocked(o, snap.Price, now); ok {
			e.ledger.Remove(o.ID)
			trades = append(trades, rec)
		}
	}

	var err error
	if len(trades) > 0 {
		err = e.recordLocked(trades, now)
	}
	out := *o
	listener := e.listener

	e.mu.Unlock()

	notify(listener, trades)
	return out, err
}

// CancelOrder withdraws a resting order.
func (e *Engine) CancelOrder(orderID string, now time.Time) (Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, ok := e.ledger.Remove(orderID)
	if !ok {
		return Order{}, fmt.Errorf("cancel %q: %w", orderID, ErrOrderNotFound)
	}
	o.Status = Cancelled
	e.log.Info().
		Str("order", o.ID).
		Str("symbol", string(o.Symbol)).
		Time("at", now).
		Msg("order cancelled")
	return *o, nil
}

// recordLocked journals new trades and then an equity snapshot. State has
// already committed; a journal error is only reported.
func (e *Engine) recordLocked(trades []TradeRecord, now time.Time) error {
	for _, t := range trades {
		if err := e.journal.RecordTrade(journal.TradeRecord{
			RunID:        e.runID,
			OrderID:      t.OrderID,
			Symbol:       string(t.Symbol),
			Side:         t.Side.String(),
			Quantity:     t.Quantity,
			Price:        t.ExecutionPrice,
			Total:        t.TotalValue,
			ExecutedAt:   t.ExecutedAt,
			BalanceAfter: t.BalanceAfter,
		}); err != nil {
			return fmt.Errorf("journal trade %s: %w", t.OrderID, err)
		}
	}

	if err := e.journal.RecordEquity(journal.EquitySnapshot{
		RunID:     e.runID,
		Time:      now,
		Balance:   e.balance,
		Equity:    e.portfolioValueLocked(),
		Positions: len(e.holdings),
	}); err != nil {
		return fmt.Errorf("journal equity: %w", err)
	}
	return nil
}

func notify(l TradeListener, trades []TradeRecord) {
	if l == nil {
		return
	}
	for _, t := range trades {
		l.OnTradeExecuted(t)
	}
}

func (e *Engine) Balance() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

func (e *Engine) InitialBalance() decimal.Decimal {
	return e.initial
}

// Holdings returns a copy of the non-zero positions.
func (e *Engine) Holdings() map[market.Symbol]decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[market.Symbol]decimal.Decimal, len(e.holdings))
	for sym, qty := range e.holdings {
		out[sym] = qty
	}
	return out
}

// PendingOrders returns copies of the resting orders in placement order.
func (e *Engine) PendingOrders() []Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	resting := e.ledger.All()
	out := make([]Order, len(resting))
	for i, o := range resting {
		out[i] = *o
	}
	return out
}

func (e *Engine) TradeHistory() []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]TradeRecord, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) Snapshot(sym market.Symbol) (market.Snapshot, bool) {
	return e.prices.Get(sym)
}

// Snapshots returns copies of the latest snapshot for every symbol that has
// ticked, sorted by symbol. Snapshots only enter the engine through
// UpdateMarketPrice.
func (e *Engine) Snapshots() []market.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]market.Snapshot, 0, e.prices.Len())
	for _, sym := range e.prices.Symbols() {
		if snap, ok := e.prices.Get(sym); ok {
			out = append(out, snap)
		}
	}
	return out
}
