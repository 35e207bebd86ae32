package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"c2Scope/internal/model"
	"c2Scope/internal/telemetry"
)

const defaultTopic = "c2scope-records"

type ProducerConfig struct {
	Brokers []string
	Topic   string
}

// MessageWriter is the part of kafka.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes output records as JSON messages keyed by contract.
type Producer struct {
	writer MessageWriter
	topic  string
}

func NewProducer(cfg ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = defaultTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 500 * time.Millisecond,
	}
	return &Producer{writer: writer, topic: cfg.Topic}, nil
}

// NewProducerWithWriter builds a Producer around an existing writer.
func NewProducerWithWriter(writer MessageWriter, topic string) *Producer {
	if strings.TrimSpace(topic) == "" {
		topic = defaultTopic
	}
	return &Producer{writer: writer, topic: topic}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// PutRecords publishes every record in one write.
func (p *Producer) PutRecords(ctx context.Context, records []model.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, span := otel.Tracer("c2scope/kafka").Start(ctx, "records.publish", trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.String("contract", records[0].Contract),
		attribute.Int("records", len(records)),
	)

	messages := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		headers := []kafka.Header{{Key: "method", Value: []byte(rec.Method)}}
		telemetry.InjectKafkaHeaders(ctx, &headers)
		messages = append(messages, kafka.Message{
			Topic:   p.topic,
			Key:     []byte(rec.Contract),
			Value:   payload,
			Headers: headers,
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
