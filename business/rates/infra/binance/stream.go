package binance

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spreadpad/spreadpad/business/rates/domain"
	"github.com/spreadpad/spreadpad/internal/logger"
	"github.com/spreadpad/spreadpad/internal/wsconn"
)

// bookTickerEvent is one message on the <symbol>@bookTicker stream.
type bookTickerEvent struct {
	Symbol   string `json:"s"`
	BidPrice string `json:"b"`
	AskPrice string `json:"a"`
}

// Stream delivers live bid updates over the Binance websocket. It is an
// optional enhancement: when the stream drops, the HTTP poller keeps the
// displayed rate fresh on its own.
type Stream struct {
	conn   *wsconn.Client
	pair   string
	log    logger.LoggerInterface
	quotes chan domain.Quote
}

// NewStream creates a bookTicker stream client. baseURL is the stream
// host, e.g. "wss://stream.binance.com:9443".
func NewStream(baseURL, pair string, log logger.LoggerInterface) *Stream {
	url := strings.TrimSuffix(baseURL, "/") + "/ws/" + strings.ToLower(pair) + "@bookTicker"
	cfg := wsconn.DefaultConfig(url)

	s := &Stream{
		conn:   wsconn.New(cfg),
		pair:   pair,
		log:    log,
		quotes: make(chan domain.Quote, 16),
	}
	s.conn.OnStateChange(func(state wsconn.State) {
		log.Info(context.Background(), "rate stream state change", "state", string(state))
	})
	return s
}

// Start connects and begins delivering quotes. The returned channel is
// closed when ctx is cancelled or the stream is closed.
func (s *Stream) Start(ctx context.Context) (<-chan domain.Quote, error) {
	if err := s.conn.Connect(ctx); err != nil {
		return nil, err
	}
	go s.pump(ctx)
	return s.quotes, nil
}

func (s *Stream) pump(ctx context.Context) {
	defer close(s.quotes)
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-s.conn.Messages():
			if !ok {
				return
			}
			quote, ok := s.parse(data)
			if !ok {
				continue
			}
			select {
			case s.quotes <- quote:
			default:
				// UI is behind; the next tick supersedes this one anyway.
			}
		}
	}
}

func (s *Stream) parse(data []byte) (domain.Quote, bool) {
	var ev bookTickerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		s.log.Debug(context.Background(), "unparseable stream message", "error", err)
		return domain.Quote{}, false
	}
	bid, err := decimal.NewFromString(ev.BidPrice)
	if err != nil {
		return domain.Quote{}, false
	}
	return domain.Quote{
		Pair:   s.pair,
		Bid:    bid,
		At:     time.Now(),
		Source: sourceName + "-stream",
	}, true
}

// State returns the underlying connection state.
func (s *Stream) State() wsconn.State {
	return s.conn.State()
}

// Close tears the stream down.
func (s *Stream) Close() error {
	return s.conn.Close()
}
