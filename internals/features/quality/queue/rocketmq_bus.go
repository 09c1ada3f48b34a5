package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	rocketmq "github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"

	dto "ekklesia_backend/internals/features/quality/dto"
)

type RocketMQConfig struct {
	NameServers   []string
	ConsumerGroup string
	AccessKey     string
	SecretKey     string
	Namespace     string
	Topic         string
}

// RocketMQBus adapts RocketMQ as the recalculation bus: one durable topic,
// one fixed routing key, at-least-once delivery. Handler errors map to
// ConsumeRetryLater so redelivery stays on the broker side.
type RocketMQBus struct {
	cfg RocketMQConfig

	mu      sync.Mutex
	prod    rocketmq.Producer
	cons    rocketmq.PushConsumer
	started bool
	consUp  bool
}

func NewRocketMQBus(cfg RocketMQConfig) *RocketMQBus {
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = "attendance.quality.recalc"
	}
	return &RocketMQBus{cfg: cfg}
}

func (b *RocketMQBus) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	if len(b.cfg.NameServers) == 0 {
		return fmt.Errorf("no rocketmq name servers configured")
	}

	prod, err := rocketmq.NewProducer(
		producer.WithNameServer(b.cfg.NameServers),
		producer.WithCredentials(primitive.Credentials{
			AccessKey: b.cfg.AccessKey,
			SecretKey: b.cfg.SecretKey,
		}),
		producer.WithNamespace(strings.TrimSpace(b.cfg.Namespace)),
		producer.WithRetry(2),
	)
	if err != nil {
		return fmt.Errorf("create rocketmq producer: %w", err)
	}
	if err := prod.Start(); err != nil {
		return fmt.Errorf("start rocketmq producer: %w", err)
	}
	b.prod = prod
	b.started = true
	return nil
}

func (b *RocketMQBus) Publish(ctx context.Context, req dto.RecalculationRequest) error {
	body, err := json.Marshal(map[string]any{
		"payload": req,
		"sent_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	b.mu.Lock()
	prod := b.prod
	b.mu.Unlock()
	if prod == nil {
		return fmt.Errorf("rocketmq producer not ready")
	}

	msg := &primitive.Message{
		Topic: b.topic(),
		Body:  body,
	}
	msg.WithKeys([]string{req.PersonID.String()})
	msg.WithProperty("event_type", string(req.EventType))

	if _, err := prod.SendSync(ctx, msg); err != nil {
		return fmt.Errorf("rocketmq send: %w", err)
	}
	return nil
}

func (b *RocketMQBus) Subscribe(ctx context.Context, workers int, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler required")
	}
	if workers < 1 {
		workers = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cons == nil {
		cons, err := rocketmq.NewPushConsumer(
			consumer.WithGroupName(b.consumerGroup()),
			consumer.WithNameServer(b.cfg.NameServers),
			consumer.WithCredentials(primitive.Credentials{
				AccessKey: b.cfg.AccessKey,
				SecretKey: b.cfg.SecretKey,
			}),
			consumer.WithNamespace(strings.TrimSpace(b.cfg.Namespace)),
			consumer.WithConsumeGoroutineNums(workers),
			consumer.WithConsumeMessageBatchMaxSize(1),
		)
		if err != nil {
			return fmt.Errorf("create rocketmq consumer: %w", err)
		}
		b.cons = cons
	}

	err := b.cons.Subscribe(b.topic(), consumer.MessageSelector{},
		func(c context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
			for _, msg := range msgs {
				var envelope struct {
					Payload dto.RecalculationRequest `json:"payload"`
				}
				if err := json.Unmarshal(msg.Body, &envelope); err != nil {
					// malformed body will never parse; retrying is still the
					// safe default so the broker dead-letters it eventually
					return consumer.ConsumeRetryLater, nil
				}
				if err := handler(c, envelope.Payload); err != nil {
					return consumer.ConsumeRetryLater, nil
				}
			}
			return consumer.ConsumeSuccess, nil
		})
	if err != nil {
		return fmt.Errorf("subscribe to topic %s: %w", b.topic(), err)
	}

	if !b.consUp {
		if err := b.cons.Start(); err != nil {
			return fmt.Errorf("start rocketmq consumer: %w", err)
		}
		b.consUp = true
	}
	return nil
}

func (b *RocketMQBus) Close(ctx context.Context) error {
	_ = ctx
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.prod != nil {
		_ = b.prod.Shutdown()
		b.prod = nil
	}
	if b.cons != nil {
		_ = b.cons.Shutdown()
		b.cons = nil
	}
	b.started = false
	b.consUp = false
	return nil
}

func (b *RocketMQBus) consumerGroup() string {
	if strings.TrimSpace(b.cfg.ConsumerGroup) != "" {
		return b.cfg.ConsumerGroup
	}
	return "ekklesia-recalc"
}

func (b *RocketMQBus) topic() string {
	// RocketMQ topics reject dots
	return strings.ReplaceAll(strings.TrimSpace(b.cfg.Topic), ".", "-")
}
