package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
	"github.com/cloud-wave-best-zizon/storefront-service/internal/service"
)

// 보상(컴펜세이션) 이벤트 발행용 인터페이스
type CompensationProducer interface {
	PublishStockDeductionFailed(ctx context.Context, orderID, productID string, qty int, reason string) error
}

type OrderHandler interface {
	PlaceOrder(ctx context.Context, order *domain.Order) ([]domain.StockMovement, error)
	CompleteOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID string) error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// errMalformedEvent marks messages that can never be applied.
var errMalformedEvent = errors.New("malformed order event")

type KafkaConsumer struct {
	reader               messageReader
	orders               OrderHandler
	compensationProducer CompensationProducer
	logger               *zap.Logger
	retryInterval        time.Duration
	maxRetryInterval     time.Duration
	cancel               context.CancelFunc
	done                 chan struct{}
}

func NewKafkaConsumer(brokers, groupID, topic string, orders OrderHandler, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		SessionTimeout: 6 * time.Second,
	})
	return newKafkaConsumer(reader, orders, logger)
}

func newKafkaConsumer(r messageReader, orders OrderHandler, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:           r,
		orders:           orders,
		logger:           logger,
		retryInterval:    500 * time.Millisecond,
		maxRetryInterval: 30 * time.Second,
		done:             make(chan struct{}),
	}
}

// 런타임에 보상 프로듀서 주입
func (kc *KafkaConsumer) SetCompensationProducer(p CompensationProducer) {
	kc.compensationProducer = p
}

func (kc *KafkaConsumer) Start(ctx context.Context) {
	ctx, kc.cancel = context.WithCancel(ctx)
	kc.logger.Info("Kafka consumer started")
	go kc.consume(ctx)
}

func (kc *KafkaConsumer) consume(ctx context.Context) {
	defer close(kc.done)
	defer kc.reader.Close()

	for {
		msg, err := kc.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				kc.logger.Info("Kafka consumer stopped")
				return
			}
			kc.logger.Error("Error reading message", zap.Error(err))
			continue
		}

		// 실패한 메시지는 건너뛰지 않고 성공할 때까지 재시도
		if err := kc.process(ctx, msg); err != nil {
			kc.logger.Info("Kafka consumer stopped before message was applied",
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			return
		}

		// 메시지 처리 성공 시 커밋
		if err := kc.reader.CommitMessages(ctx, msg); err != nil {
			kc.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

// process applies msg, retrying with exponential backoff until it succeeds or
// ctx is done. Offsets are committed positionally, so a message is never
// skipped; only malformed events and events for unknown orders are dropped.
func (kc *KafkaConsumer) process(ctx context.Context, msg kafka.Message) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = kc.retryInterval
	b.MaxInterval = kc.maxRetryInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := kc.HandleMessage(ctx, msg.Value)
		if err != nil && (errors.Is(err, errMalformedEvent) || errors.Is(err, domain.ErrNotFound)) {
			kc.logger.Error("Dropping unprocessable message",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			return struct{}{}, nil
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			kc.logger.Error("Error processing message, retrying",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Duration("backoff", next))
		}),
	)
	return err
}

// HandleMessage applies one order event. A failed stock deduction is answered
// with a compensation event and counts as handled.
func (kc *KafkaConsumer) HandleMessage(ctx context.Context, value []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if event.OrderID == "" {
		return fmt.Errorf("%w: event %s has no order_id", errMalformedEvent, event.EventID)
	}

	kc.logger.Info("Processing order event",
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.OrderID),
		zap.String("request_id", event.RequestID))

	switch event.EventType {
	case OrderPlaced:
		return kc.handleOrderPlaced(ctx, event)
	case OrderCompleted:
		return kc.orders.CompleteOrder(ctx, event.OrderID)
	case OrderCancelled:
		return kc.orders.CancelOrder(ctx, event.OrderID)
	default:
		kc.logger.Warn("Ignoring unknown order event", zap.String("event_type", event.EventType))
		return nil
	}
}

func (kc *KafkaConsumer) handleOrderPlaced(ctx context.Context, event OrderEvent) error {
	movements, err := kc.orders.PlaceOrder(ctx, event.toOrder())
	if err == nil {
		kc.logger.Info("Order processing completed",
			zap.String("order_id", event.OrderID),
			zap.Int("variants_deducted", len(movements)))
		return nil
	}

	var de *service.DeductionError
	if !errors.As(err, &de) {
		return err
	}

	if kc.compensationProducer != nil {
		reason := "stock_insufficient"
		var ve *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrIncompleteSelection), errors.As(err, &ve):
			reason = "invalid_item"
		case !errors.Is(err, domain.ErrInsufficientStock):
			reason = "stock_unavailable"
		}
		if perr := kc.compensationProducer.PublishStockDeductionFailed(ctx, event.OrderID, de.ProductID, de.Quantity, reason); perr != nil {
			kc.logger.Error("Failed to publish compensation event", zap.Error(perr))
			return perr
		}
	}
	return nil
}

func (kc *KafkaConsumer) Stop() {
	kc.logger.Info("Stopping Kafka consumer")
	if kc.cancel != nil {
		kc.cancel()
		<-kc.done
	}
}
