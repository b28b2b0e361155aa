package replay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	tomb "gopkg.in/tomb.v2"

	"github.com/rustyeddy/tradesim/sim"
)

const defaultBuffer = 64

type Options struct {
	Logger zerolog.Logger
	// Buffer is the channel depth between the reader and the engine.
	Buffer int
}

// Stats counts what a replay applied to the engine.
type Stats struct {
	Events   int `json:"events"`
	Ticks    int `json:"ticks"`
	Orders   int `json:"orders"`
	Cancels  int `json:"cancels"`
	Rejected int `json:"rejected"`
	Trades   int `json:"trades"`
}

// Run streams events from r into eng. A reader goroutine parses rows while
// the caller's goroutine tree applies them in file order. Rejected orders and
// cancels are logged and counted; a bad tick or a journal failure stops the
// replay.
func Run(ctx context.Context, r *Reader, eng *sim.Engine, opts Options) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	log := opts.Logger

	t, _ := tomb.WithContext(ctx)
	events := make(chan Event, opts.Buffer)

	t.Go(func() error {
		defer close(events)
		for {
			ev, ok, err := r.Next()
			if err != nil {
				return fmt.Errorf("read replay: %w", err)
			}
			if !ok {
				return nil
			}
			select {
			case events <- ev:
			case <-t.Dying():
				return nil
			}
		}
	})

	var stats Stats
	t.Go(func() error {
		for {
			select {
			case <-t.Dying():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if err := apply(eng, ev, &stats, log); err != nil {
					return err
				}
			}
		}
	})

	err := t.Wait()
	stats.Trades = len(eng.TradeHistory())
	log.Info().
		Int("events", stats.Events).
		Int("orders", stats.Orders).
		Int("cancels", stats.Cancels).
		Int("rejected", stats.Rejected).
		Int("trades", stats.Trades).
		Msg("replay finished")
	return stats, err
}

func apply(eng *sim.Engine, ev Event, stats *Stats, log zerolog.Logger) error {
	stats.Events++
	if err := eng.UpdateMarketPrice(ev.Symbol, ev.Price, ev.Volume, ev.Time); err != nil {
		return fmt.Errorf("line %d: %w", ev.Line, err)
	}
	stats.Ticks++

	switch ev.Kind {
	case EventOrder:
		side, err := sim.ParseSide(ev.SideText)
		if err != nil {
			stats.Rejected++
			log.Warn().Err(err).Int("line", ev.Line).Msg("order rejected")
			return nil
		}
		o, err := eng.PlaceOrder(ev.Symbol, side, ev.Quantity, ev.Target, ev.Time)
		if err != nil && !errors.Is(err, sim.ErrInvalidArgument) {
			return fmt.Errorf("line %d: %w", ev.Line, err)
		}
		if err != nil {
			stats.Rejected++
			log.Warn().Err(err).Int("line", ev.Line).Msg("order rejected")
			return nil
		}
		stats.Orders++
		log.Debug().Str("order", o.ID).Int("line", ev.Line).Msg("order placed")
	case EventCancel:
		if _, err := eng.CancelOrder(ev.OrderID, ev.Time); err != nil {
			stats.Rejected++
			log.Warn().Err(err).Int("line", ev.Line).Msg("cancel rejected")
			return nil
		}
		stats.Cancels++
	}
	return nil
}
