package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	berr "github.com/next-trace/scg-mediator/contract/errors"
)

// Concrete AMQP connection-backed constructor and publisher wrapper with auto-reconnect.

const (
	exchangeKind = "topic"
	minBackoff   = time.Second
	maxBackoff   = 30 * time.Second
)

var errPublisherClosed = errors.New("rabbitmq publisher closed")

type Config struct {
	URL         string
	ConnTimeout time.Duration
	Exchange    string
}

type reconnectingPublisher struct {
	cfg    Config
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed chan struct{}
	ready  chan struct{} // closed once a channel is available; replaced on disconnect
}

func newReconnectingPublisher(cfg Config) (*reconnectingPublisher, func()) {
	rp := &reconnectingPublisher{
		cfg:    cfg,
		closed: make(chan struct{}),
		ready:  make(chan struct{}),
	}
	go rp.run()

	return rp, rp.close
}

// Publish waits for a live channel unless ctx ends or the publisher is closed first.
func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	for {
		rp.mu.RLock()
		ch, ready := rp.ch, rp.ready
		rp.mu.RUnlock()

		if ch != nil {
			return ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
		}

		select {
		case <-ready:
		case <-rp.closed:
			return errPublisherClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (rp *reconnectingPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-mediator"},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(rp.cfg.Exchange, exchangeKind, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

func (rp *reconnectingPublisher) run() {
	backoff := minBackoff
	// #nosec G404 -- non-crypto RNG is acceptable for backoff jitter
	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // backoff jitter

	for {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			// exponential backoff with jitter
			sleep := min(backoff+time.Duration(rng.Int63n(int64(backoff/2))), maxBackoff)

			t := time.NewTimer(sleep)
			select {
			case <-rp.closed:
				t.Stop()
				return
			case <-t.C:
			}

			backoff = min(backoff*2, maxBackoff)

			continue
		}

		backoff = minBackoff
		notify := conn.NotifyClose(make(chan *amqp.Error, 1))

		rp.mu.Lock()
		select {
		case <-rp.closed:
			rp.mu.Unlock()

			_ = ch.Close()
			_ = conn.Close()

			return
		default:
		}

		rp.conn, rp.ch = conn, ch
		close(rp.ready)
		rp.mu.Unlock()

		select {
		case <-rp.closed:
			return
		case <-notify:
		}

		rp.mu.Lock()
		rp.conn, rp.ch = nil, nil
		rp.ready = make(chan struct{})
		rp.mu.Unlock()

		_ = ch.Close()
		_ = conn.Close()
	}
}

func (rp *reconnectingPublisher) close() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	select {
	case <-rp.closed:
		return
	default:
		close(rp.closed)
	}

	if rp.ch != nil {
		_ = rp.ch.Close()
		rp.ch = nil
	}

	if rp.conn != nil {
		_ = rp.conn.Close()
		rp.conn = nil
	}
}

// NewWithAMQPConn dials RabbitMQ with auto-reconnect, ensures the topic exchange, and
// returns an Adapter and cleanup. Dialing happens in the background; Forward blocks until
// a channel is available or its context ends.
func NewWithAMQPConn(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", berr.ErrBridgeNotConfigured)
	}

	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	pub, cleanup := newReconnectingPublisher(cfg)
	ad := New(pub)
	ad.Exchange = cfg.Exchange

	return ad, cleanup, nil
}
