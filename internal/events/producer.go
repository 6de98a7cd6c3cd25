package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/storefront-service/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes review events and stock compensation events.
type KafkaProducer struct {
	writer      messageWriter
	reviewTopic string
	stockTopic  string
	logger      *zap.Logger
}

func NewKafkaProducer(brokers, reviewTopic, stockTopic string, logger *zap.Logger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaProducer(writer, reviewTopic, stockTopic, logger)
}

func newKafkaProducer(w messageWriter, reviewTopic, stockTopic string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		writer:      w,
		reviewTopic: reviewTopic,
		stockTopic:  stockTopic,
		logger:      logger,
	}
}

func (p *KafkaProducer) PublishReviewChanged(ctx context.Context, eventType string, review *domain.Review, summary domain.ReviewSummary) error {
	event := ReviewEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ReviewID:   review.ReviewID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		IsVerified: review.IsVerified,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
	// 같은 상품의 이벤트는 같은 파티션으로
	return p.publish(ctx, p.reviewTopic, review.ProductID, event.EventID, event)
}

func (p *KafkaProducer) PublishStockDeductionFailed(ctx context.Context, orderID, productID string, qty int, reason string) error {
	event := StockDeductionFailedEvent{
		EventID:   uuid.NewString(),
		EventType: StockDeductionFailed,
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  qty,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	return p.publish(ctx, p.stockTopic, orderID, event.EventID, event)
}

func (p *KafkaProducer) publish(ctx context.Context, topic, key, eventID string, event any) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish message",
			zap.String("topic", topic),
			zap.String("event_id", eventID),
			zap.Error(err))
		return err
	}

	p.logger.Info("Event published successfully",
		zap.String("topic", topic),
		zap.String("event_id", eventID))
	return nil
}

func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
