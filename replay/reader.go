package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradesim/market"
)

// EventKind is the optional action attached to a replay row.
type EventKind string

const (
	EventNone   EventKind = ""
	EventOrder  EventKind = "ORDER"
	EventCancel EventKind = "CANCEL"
)

// Event is one replay row: a market tick, optionally followed by an order
// placement or a cancellation.
type Event struct {
	Line   int
	Time   time.Time
	Symbol market.Symbol
	Price  decimal.Decimal
	Volume decimal.Decimal

	Kind EventKind
	// SideText is checked when the order is placed, so an unknown side is
	// rejected like any other invalid order.
	SideText string
	Quantity decimal.Decimal
	Target   decimal.Decimal
	OrderID  string
}

// Reader parses rows of
//
//	time,symbol,price,volume[,event,side,quantity,target]
//
// A header row is allowed. CANCEL rows carry the order ID in the column
// after the event.
type Reader struct {
	r        *csv.Reader
	line     int
	sawFirst bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	return &Reader{r: cr}
}

// Next returns the next event. ok is false at end of input.
func (r *Reader) Next() (Event, bool, error) {
	for {
		row, err := r.r.Read()
		if err == io.EOF {
			return Event{}, false, nil
		}
		if err != nil {
			return Event{}, false, err
		}
		r.line++
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if !r.sawFirst {
			r.sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		ev, err := parseRow(row)
		if err != nil {
			return Event{}, false, fmt.Errorf("line %d: %w", r.line, err)
		}
		ev.Line = r.line
		return ev, true, nil
	}
}

func parseRow(row []string) (Event, error) {
	if len(row) < 4 {
		return Event{}, fmt.Errorf("expected at least 4 columns, got %d", len(row))
	}
	if len(row) > 8 {
		return Event{}, fmt.Errorf("too many columns (expected <=8): %v", row)
	}
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	var ev Event
	var err error
	if ev.Time, err = parseTime(row[0]); err != nil {
		return Event{}, err
	}
	if row[1] == "" {
		return Event{}, fmt.Errorf("empty symbol")
	}
	ev.Symbol = market.Symbol(row[1])
	if ev.Price, err = decimal.NewFromString(row[2]); err != nil {
		return Event{}, fmt.Errorf("bad price %q: %w", row[2], err)
	}
	if ev.Volume, err = decimal.NewFromString(row[3]); err != nil {
		return Event{}, fmt.Errorf("bad volume %q: %w", row[3], err)
	}

	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	ev.Kind = EventKind(strings.ToUpper(col(4)))
	switch ev.Kind {
	case EventNone:
	case EventOrder:
		ev.SideText = col(5)
		if ev.Quantity, err = decimal.NewFromString(col(6)); err != nil {
			return Event{}, fmt.Errorf("bad quantity %q: %w", col(6), err)
		}
		if ev.Target, err = decimal.NewFromString(col(7)); err != nil {
			return Event{}, fmt.Errorf("bad target %q: %w", col(7), err)
		}
	case EventCancel:
		ev.OrderID = col(5)
		if ev.OrderID == "" {
			return Event{}, fmt.Errorf("CANCEL requires an order id")
		}
	default:
		return Event{}, fmt.Errorf("unknown event %q", col(4))
	}
	return ev, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
		}
		t = t2
	}
	return t, nil
}
