package sim

import (
	"github.com/rustyeddy/tradesim/market"
	"github.com/tidwall/btree"
)

type orderTree = btree.BTreeG[*Order]

// Ledger holds resting orders in placement order, indexed by ID and by
// symbol. It is not safe for concurrent use; the Engine serializes access.
type Ledger struct {
	all      *orderTree
	bySymbol map[market.Symbol]*orderTree
	byID     map[string]*Order
}

func bySeq(a, b *Order) bool {
	return a.seq < b.seq
}

func newOrderTree() *orderTree {
	return btree.NewBTreeGOptions(bySeq, btree.Options{NoLocks: true})
}

func NewLedger() *Ledger {
	return &Ledger{
		all:      newOrderTree(),
		bySymbol: make(map[market.Symbol]*orderTree),
		byID:     make(map[string]*Order),
	}
}

// Insert adds a pending order. Inserting an ID twice replaces nothing and
// reports false.
func (l *Ledger) Insert(o *Order) bool {
	if _, dup := l.byID[o.ID]; dup {
		return false
	}
	l.byID[o.ID] = o
	l.all.Set(o)

	tree, ok := l.bySymbol[o.Symbol]
	if !ok {
		tree = newOrderTree()
		l.bySymbol[o.Symbol] = tree
	}
	tree.Set(o)
	return true
}

// Remove takes an order out of the ledger.
func (l *Ledger) Remove(id string) (*Order, bool) {
	o, ok := l.byID[id]
	if !ok {
		return nil, false
	}
	delete(l.byID, id)
	l.all.Delete(o)

	if tree, ok := l.bySymbol[o.Symbol]; ok {
		tree.Delete(o)
		if tree.Len() == 0 {
			delete(l.bySymbol, o.Symbol)
		}
	}
	return o, true
}

// ForSymbol returns the resting orders for sym in placement order. The slice
// is a copy, so callers may Remove while walking it.
func (l *Ledger) ForSymbol(sym market.Symbol) []*Order {
	tree, ok := l.bySymbol[sym]
	if !ok {
		return nil
	}
	return tree.Items()
}

// All returns every resting order in placement order.
func (l *Ledger) All() []*Order {
	return l.all.Items()
}

func (l *Ledger) Len() int {
	return len(l.byID)
}
