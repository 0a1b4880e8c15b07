package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/next-trace/scg-mediator/adapters/internal/wire"
	"github.com/next-trace/scg-mediator/contract/handler"
)

// DefaultExchange is the topic exchange messages are published to when none is configured.
const DefaultExchange = "mediator"

type PubMsg struct {
	Exchange   string
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, m PubMsg) error
}

type Adapter struct {
	Publisher  Publisher
	Propagator handler.HeaderPropagator // optional, for context propagation into headers
	Exchange   string
}

var _ handler.Forwarder = (*Adapter)(nil)

func New(p Publisher) *Adapter { return &Adapter{Publisher: p, Exchange: DefaultExchange} }

// NewWithPropagator allows configuring a HeaderPropagator for context propagation.
func NewWithPropagator(p Publisher, hp handler.HeaderPropagator) *Adapter {
	return &Adapter{Publisher: p, Propagator: hp, Exchange: DefaultExchange}
}

func (a *Adapter) Forward(ctx context.Context, msg any, opts handler.ForwardOptions) error {
	if err := wire.Ready(ctx, "rabbitmq forward", a.Publisher != nil); err != nil {
		return err
	}

	body, err := wire.Encode("rabbitmq forward", msg)
	if err != nil {
		return err
	}

	m := PubMsg{
		Exchange:   a.Exchange,
		RoutingKey: wire.Subject(msg, opts),
		Body:       body,
		Headers:    wire.Headers(ctx, msg, opts, a.Propagator),
	}

	return wire.TransportError("rabbitmq forward publish", a.Publisher.Publish(ctx, m))
}

func publishing(m PubMsg) amqp.Publishing {
	var h amqp.Table
	if len(m.Headers) > 0 {
		h = amqp.Table{}
		for k, v := range m.Headers {
			h[k] = v
		}
	}

	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Headers:      h,
		ContentType:  "application/json",
		MessageId:    m.Headers[wire.HeaderMessageID],
		Type:         m.Headers[wire.HeaderMessageType],
		Body:         m.Body,
	}
}

type amqpChannelPublisher struct{ ch *amqp.Channel }

func (p amqpChannelPublisher) Publish(ctx context.Context, m PubMsg) error {
	return p.ch.PublishWithContext(ctx, m.Exchange, m.RoutingKey, false, false, publishing(m))
}

// NewWithAMQPChannel publishes through an existing channel. The exchange must already exist.
func NewWithAMQPChannel(ch *amqp.Channel, exchange string) *Adapter {
	if exchange == "" {
		exchange = DefaultExchange
	}

	return &Adapter{Publisher: amqpChannelPublisher{ch: ch}, Exchange: exchange}
}
